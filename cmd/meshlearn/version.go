package main

import (
	"github.com/spf13/cobra"

	"github.com/charlie0129/meshlearn/pkg/version"
)

// NewVersionCommand .
func NewVersionCommand() *cobra.Command {
	withDaemon := false

	cmd := &cobra.Command{
		Use:     "version",
		Short:   "Print version",
		GroupID: gBasic,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.Printf("%s %s\n", version.Version, version.GitCommit)
			if !withDaemon {
				return nil
			}

			ctx, cancel := newRemoteContext(cmd.Context())
			defer cancel()
			v, err := newAPIClient().GetVersion(ctx)
			if err != nil {
				return err
			}
			cmd.Printf("daemon: %s\n", v)
			return nil
		},
	}

	cmd.Flags().BoolVar(&withDaemon, "daemon", false, "also print the version of the running daemon")

	return cmd
}
