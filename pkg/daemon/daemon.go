package daemon

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/meshlearn/pkg/config"
	"github.com/charlie0129/meshlearn/pkg/events"
)

var (
	conf config.Config
)

func setupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logrus.StandardLogger()))
	router.GET("/config", getConfig)
	router.GET("/version", getVersion)
	router.GET("/analysis", getAnalysis)
	router.GET("/mesh/:temp", getMesh)
	router.GET("/mesh/:temp/export", getMeshExport)
	router.GET("/events", getEvents)

	return router
}

// Run serves the HTTP API on unixSocketPath until SIGINT or SIGTERM.
// variablesOverride, when not empty, replaces the variables file from the
// config.
func Run(configPath, unixSocketPath, variablesOverride string, allowNonRoot bool) error {
	f, err := config.NewFile(configPath)
	if err != nil {
		return err
	}
	f.OverrideVariablesFile(variablesOverride)
	conf = f
	logrus.WithFields(conf.LogrusFields()).Infof("config loaded")

	sseHub = events.NewHub()

	publisher := startPublishing()

	// Receive SIGHUP to reload config
	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGHUP)
		for range sigc {
			err := conf.Load()
			if err != nil {
				logrus.Errorf("failed to reload config: %v", err)
				continue
			}
			if publisher != nil {
				if err := publisher.scheduler.Schedule(conf.PublishSchedule()); err != nil {
					logrus.Errorf("failed to apply publish schedule: %v", err)
				}
			}
			logrus.Infof("config reloaded")
			publishConfigReloaded()
		}
	}()

	// A stale socket from an unclean shutdown would make Listen fail.
	if err := os.Remove(unixSocketPath); err != nil && !os.IsNotExist(err) {
		return err
	}

	l, err := net.Listen("unix", unixSocketPath)
	if err != nil {
		return err
	}

	if conf.AllowNonRootAccess() || allowNonRoot {
		logrus.Infof("non-root access is allowed, changing permissions of %s to 0777", unixSocketPath)
		err = os.Chmod(unixSocketPath, 0777)
		if err != nil {
			return err
		}
	}

	srv := &http.Server{
		Handler:           setupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.Infof("http server listening on %s", l.Addr().String())
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal(err)
		}
	}()

	// Handle common process-killing signals, so we can gracefully shut down:
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigc
	logrus.Infof("caught signal \"%s\": shutting down.", sig)

	logrus.Info("shutting down http server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = srv.Shutdown(ctx)
	if err != nil {
		logrus.Errorf("failed to shutdown http server: %v", err)
	}
	cancel()

	if publisher != nil {
		logrus.Info("stopping publisher")
		publisher.stop()
	}

	logrus.Info("meshlearn daemon exited")
	return nil
}
