package main

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/meshlearn/pkg/klipper"
)

// NewExportCommand .
func NewExportCommand() *cobra.Command {
	var (
		params []string
		remote bool
	)

	cmd := &cobra.Command{
		Use:     "export [temperature]",
		Short:   "Print the learned mesh as a Klipper bed_mesh profile",
		GroupID: gBasic,
		Long: `Print the learned mesh of one temperature as a [bed_mesh learned_<temp>]
section that can be pasted into printer.cfg.

Extra profile keys (e.g. min_x, max_x, x_count) come from exportParams in
the config and can be overridden with repeated --param key=value flags.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig()
			if err != nil {
				return err
			}

			temp, err := parseTemperatureArg(args, conf.DefaultTemperature())
			if err != nil {
				return err
			}

			if remote {
				if len(params) > 0 {
					logrus.Warn("--param is ignored with --remote, the daemon uses its own exportParams")
				}
				ctx, cancel := newRemoteContext(cmd.Context())
				defer cancel()
				block, err := newAPIClient().GetMeshExport(ctx, temp)
				if err != nil {
					if noData(temp, err) {
						return nil
					}
					return fmt.Errorf("failed to export mesh: %w", err)
				}
				fmt.Fprint(cmd.OutOrStdout(), block)
				return nil
			}

			overrides, err := klipper.ParseParams(params)
			if err != nil {
				return err
			}
			merged := conf.ExportParams()
			for k, v := range overrides {
				merged[k] = v
			}

			mesh, err := synthesizeFor(cmd, conf, temp, false)
			if err != nil {
				if noData(temp, err) {
					return nil
				}
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), klipper.RenderBedMesh(strconv.Itoa(temp), mesh.Points, merged))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringArrayVar(&params, "param", nil, "extra bed_mesh key=value, may be repeated")
	f.BoolVar(&remote, "remote", false, "fetch the profile from the meshlearn daemon")

	return cmd
}
