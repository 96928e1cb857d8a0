package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/meshlearn/pkg/meshstats"
)

// NewAnalyzeCommand .
func NewAnalyzeCommand() *cobra.Command {
	var (
		output string
		remote bool
	)

	cmd := &cobra.Command{
		Use:     "analyze",
		Short:   "Analyze the stored mesh samples of every temperature",
		GroupID: gBasic,
		Long: `Analyze the bed mesh samples stored in the Klipper variables file.

For every temperature with stored samples, the total number of calibrations
and the number of stored samples are shown. Temperatures with at least two
samples additionally report how much the samples disagree with each other,
a confidence estimate and the share of stable points.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateFormat(output, "text", "json", "yaml"); err != nil {
				return err
			}

			conf, err := loadConfig()
			if err != nil {
				return err
			}
			th := conf.Thresholds()

			var reports []meshstats.BucketReport
			if remote {
				ctx, cancel := newRemoteContext(cmd.Context())
				defer cancel()
				reports, err = newAPIClient().GetAnalysis(ctx)
				if err != nil {
					return fmt.Errorf("failed to get analysis: %w", err)
				}
			} else {
				history, err := loadHistory(conf)
				if errors.Is(err, meshstats.ErrNoHistory) {
					logrus.WithField("file", conf.VariablesFile()).Info("No mesh learning data found")
					return nil
				}
				if err != nil {
					return err
				}
				reports, err = meshstats.AnalyzeHistory(history, th)
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if output != "text" {
				if reports == nil {
					reports = []meshstats.BucketReport{}
				}
				return printStructured(out, output, reports)
			}
			renderAnalysis(out, reports, th)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "text", "output format (text, json, yaml)")
	f.BoolVar(&remote, "remote", false, "fetch the analysis from the meshlearn daemon")

	return cmd
}

func renderAnalysis(w io.Writer, reports []meshstats.BucketReport, th meshstats.Thresholds) {
	fmt.Fprintf(w, "\n%s\n\n", bold("=== Mesh Learning Analysis ==="))

	for _, r := range reports {
		fmt.Fprintf(w, "%s\n", bold("Temperature: %s°C", r.Label))
		fmt.Fprintf(w, "  Total calibrations: %d\n", r.Count)
		fmt.Fprintf(w, "  Samples stored: %d\n", r.SampleCount)

		if v := r.Variance; v != nil {
			fmt.Fprintf(w, "  Average variance: ±%.4fmm\n", v.AverageDeviation)
			fmt.Fprintf(w, "  Maximum variance: ±%.4fmm\n", v.MaxDeviation)
			fmt.Fprintf(w, "  Confidence: %s\n", confidenceText(v.Confidence))
			fmt.Fprintf(w, "  Stable points (<%gmm): %.1f%%\n", th.StableThreshold, v.StablePointFraction)
		}
		fmt.Fprintln(w)
	}
}
