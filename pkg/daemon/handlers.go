package daemon

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/meshlearn/pkg/config"
	"github.com/charlie0129/meshlearn/pkg/klipper"
	"github.com/charlie0129/meshlearn/pkg/meshstats"
	"github.com/charlie0129/meshlearn/pkg/version"
)

// statusForError maps engine errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, meshstats.ErrNoData), errors.Is(err, meshstats.ErrNoHistory):
		return http.StatusNotFound
	case errors.Is(err, meshstats.ErrMalformedHistory), errors.Is(err, meshstats.ErrInconsistentDimensions):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, code int, err error) {
	c.IndentedJSON(code, err.Error())
	_ = c.AbortWithError(code, err)
}

func getConfig(c *gin.Context) {
	fc, err := config.NewRawFileConfigFromConfig(conf)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.IndentedJSON(http.StatusOK, fc)
}

func getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, version.Version)
}

func getAnalysis(c *gin.Context) {
	history, err := loadHistory()
	if err != nil {
		abortWithError(c, statusForError(err), err)
		return
	}

	reports, err := meshstats.AnalyzeHistory(history, conf.Thresholds())
	if err != nil {
		abortWithError(c, statusForError(err), err)
		return
	}

	c.IndentedJSON(http.StatusOK, reports)
}

// synthesizeFromParam synthesizes the bucket named by the :temp path
// parameter. It writes the error response itself and returns nil on failure.
func synthesizeFromParam(c *gin.Context) (string, *meshstats.SynthesizedMesh) {
	temp, err := strconv.Atoi(c.Param("temp"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, errors.New("temperature must be an integer"))
		return "", nil
	}

	history, err := loadHistory()
	if err != nil {
		abortWithError(c, statusForError(err), err)
		return "", nil
	}

	mesh, err := history.Synthesize(meshstats.TemperatureKey(temp), conf.Thresholds())
	if err != nil {
		abortWithError(c, statusForError(err), err)
		return "", nil
	}

	logrus.WithFields(logrus.Fields{
		"temperature": temp,
		"samplesUsed": mesh.SamplesUsed,
	}).Debug("synthesized mesh")

	return strconv.Itoa(temp), mesh
}

func getMesh(c *gin.Context) {
	_, mesh := synthesizeFromParam(c)
	if mesh == nil {
		return
	}
	c.IndentedJSON(http.StatusOK, mesh)
}

func getMeshExport(c *gin.Context) {
	temp, mesh := synthesizeFromParam(c)
	if mesh == nil {
		return
	}
	c.String(http.StatusOK, klipper.RenderBedMesh(temp, mesh.Points, conf.ExportParams()))
}
