package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/meshlearn/pkg/client"
	"github.com/charlie0129/meshlearn/pkg/config"
	"github.com/charlie0129/meshlearn/pkg/meshstats"
)

// NewGenerateCommand .
func NewGenerateCommand() *cobra.Command {
	var (
		output string
		remote bool
	)

	cmd := &cobra.Command{
		Use:     "generate [temperature]",
		Short:   "Generate a recency-weighted mesh for one temperature",
		GroupID: gBasic,
		Long: `Generate a representative bed mesh for one bed temperature.

Stored samples are averaged with linearly increasing weights, so the most
recent calibration counts twice as much as the oldest one. The temperature
defaults to defaultTemperature from the config (60 unless configured).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(output, "json", "yaml"); err != nil {
				return err
			}

			conf, err := loadConfig()
			if err != nil {
				return err
			}

			temp, err := parseTemperatureArg(args, conf.DefaultTemperature())
			if err != nil {
				return err
			}

			mesh, err := synthesizeFor(cmd, conf, temp, remote)
			if err != nil {
				if noData(temp, err) {
					return nil
				}
				return err
			}

			return renderMesh(cmd.OutOrStdout(), output, temp, mesh)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "json", "mesh data format (json, yaml)")
	f.BoolVar(&remote, "remote", false, "fetch the mesh from the meshlearn daemon")

	return cmd
}

// synthesizeFor produces the mesh of one temperature either from the local
// variables file or from the daemon.
func synthesizeFor(cmd *cobra.Command, conf config.Config, temp int, remote bool) (*meshstats.SynthesizedMesh, error) {
	if remote {
		ctx, cancel := newRemoteContext(cmd.Context())
		defer cancel()
		return newAPIClient().GetMesh(ctx, temp)
	}

	history, err := loadHistory(conf)
	if err != nil {
		return nil, err
	}
	return history.Synthesize(meshstats.TemperatureKey(temp), conf.Thresholds())
}

// noData logs the informational "nothing to do" outcomes and reports
// whether err was one of them.
func noData(temp int, err error) bool {
	switch {
	case errors.Is(err, meshstats.ErrNoHistory):
		logrus.Info("No mesh learning data found")
		return true
	case errors.Is(err, meshstats.ErrNoData), errors.Is(err, client.ErrNotFound):
		logrus.Infof("No data for %d°C", temp)
		return true
	default:
		return false
	}
}

func renderMesh(w io.Writer, format string, temp int, mesh *meshstats.SynthesizedMesh) error {
	if mesh.Averaged {
		fmt.Fprintf(w, "\n%s\n", bold("Generated averaged mesh for %d°C:", temp))
		fmt.Fprintf(w, "  Samples used: %d\n", mesh.SamplesUsed)
		fmt.Fprintf(w, "  Average deviation: ±%.4fmm\n", mesh.AverageDeviation)
		fmt.Fprintf(w, "  Mesh improvement: %.1f%%\n", mesh.Improvement)
	} else {
		fmt.Fprintln(w, "Need at least 2 samples for averaging")
	}

	fmt.Fprintf(w, "\n%s\n", bold("Averaged mesh data:"))
	return printStructured(w, format, mesh.Points)
}
