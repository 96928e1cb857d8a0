package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/charlie0129/meshlearn/pkg/client"
	"github.com/charlie0129/meshlearn/pkg/meshstats"
)

var (
	logLevel       = "info"
	unixSocketPath = "/run/meshlearn/meshlearn.sock"
	configPath     = "/etc/meshlearn.json"
	variablesPath  = ""
)

var (
	gBasic        = "Basic:"
	gService      = "Service:"
	gInstallation = "Installation:"
	commandGroups = []string{
		gBasic,
		gService,
		gInstallation,
	}
)

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func handleCmdError(err error) {
	switch {
	case errors.Is(err, client.ErrDaemonNotRunning):
		fmt.Fprintln(os.Stderr, "\nError: meshlearn daemon is not running")
		fmt.Fprintln(os.Stderr, "Drop --remote to read the variables file directly, or start the daemon with 'meshlearn install'.")
	case errors.Is(err, client.ErrPermissionDenied):
		fmt.Fprintln(os.Stderr, "\nError: Permission Denied")
		fmt.Fprintln(os.Stderr, "  - Try running the command again with 'sudo'")
		fmt.Fprintln(os.Stderr, "  - Or reinstall the daemon with the '--allow-non-root-access' flag")
	case errors.Is(err, meshstats.ErrMalformedHistory), errors.Is(err, meshstats.ErrInconsistentDimensions),
		errors.Is(err, client.ErrUnprocessable):
		fmt.Fprintln(os.Stderr, "\nError: the stored mesh history is corrupt")
		fmt.Fprintln(os.Stderr, "The mesh_history entry of the variables file must map temp_<C> buckets to")
		fmt.Fprintln(os.Stderr, "{'count': N, 'samples': [{'points': [[...], ...]}, ...]} with equally sized grids.")
	}
}

func main() {
	// meshlearn mostly runs on single board computers next to Klipper and
	// does not need many threads.
	if os.Getenv("GOMAXPROCS") == "" {
		runtime.GOMAXPROCS(2)
	}

	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meshlearn",
		Short: "meshlearn learns bed meshes from historical Klipper calibrations",
		Long: `meshlearn analyzes the bed mesh samples a printer has stored in its
save_variables file, grouped by bed temperature, and synthesizes one
recency-weighted mesh per temperature.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogger()
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", configPath, "config file path")
	globalFlags.StringVar(&variablesPath, "variables", variablesPath, "Klipper variables file path (overrides the config)")
	globalFlags.StringVar(&unixSocketPath, "daemon-socket", unixSocketPath, "meshlearn daemon unix socket path")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	cmd.AddCommand(
		NewAnalyzeCommand(),
		NewGenerateCommand(),
		NewExportCommand(),
		NewDaemonCommand(),
		NewWatchCommand(),
		NewVersionCommand(),
		NewInstallCommand(),
		NewUninstallCommand(),
	)

	return cmd
}
