package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/meshlearn/pkg/daemon"
	"github.com/charlie0129/meshlearn/pkg/version"
)

var (
	// alwaysAllowNonRootAccess indicates whether to always allow non-root users to access the meshlearn daemon.
	alwaysAllowNonRootAccess = false
)

// NewDaemonCommand .
func NewDaemonCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "daemon",
		Short:   "Run meshlearn daemon in the foreground",
		GroupID: gService,
		Long: `Run the meshlearn daemon in the foreground.

The daemon serves analyses, learned meshes and Klipper profiles over a unix
socket. When mqttBroker is configured it also publishes them on the
publishSchedule. Send SIGHUP to reload the config.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			logrus.WithFields(logrus.Fields{
				"version": version.Version,
				"commit":  version.GitCommit,
			}).Info("meshlearn daemon starting")
			return daemon.Run(configPath, unixSocketPath, variablesPath, alwaysAllowNonRootAccess)
		},
	}

	f := cmd.Flags()

	f.BoolVar(&alwaysAllowNonRootAccess, "always-allow-non-root-access", false,
		"Always allow non-root users to access the daemon.")

	return cmd
}
