package main

import (
	"fmt"
	"os"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	daemonutils "github.com/charlie0129/meshlearn/pkg/utils/daemon"
)

// NewInstallCommand .
func NewInstallCommand() *cobra.Command {
	var (
		allowNonRootAccess bool
		user               string
	)

	cmd := &cobra.Command{
		Use:     "install",
		Short:   "Install meshlearn daemon as a systemd service",
		GroupID: gInstallation,
		Long: `Install meshlearn daemon as a systemd service (system-wide).

This makes meshlearn run in the background and automatically start on boot. You must run this command as root.

The daemon needs read access to the Klipper variables file, so --user should usually be the account Klipper runs as (e.g. pi). A --variables path given here is saved to the config.

By default, only root user is allowed to access the meshlearn daemon socket. Use --allow-non-root-access to let any local user query it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := loadConfig()
			if err != nil {
				return err
			}

			conf.SetAllowNonRootAccess(allowNonRootAccess)
			if allowNonRootAccess {
				logrus.Info("non-root users are allowed to access the meshlearn daemon.")
			} else {
				logrus.Info("only root user is allowed to access the meshlearn daemon.")
			}

			err = daemonutils.Install(daemonutils.UnitOptions{
				ConfigPath: configPath,
				SocketPath: unixSocketPath,
				User:       user,
			})
			if err != nil {
				// check if current user is root
				if os.Geteuid() != 0 {
					logrus.Errorf("you must run this command as root")
				}
				return fmt.Errorf("failed to install daemon: %v. Are you root?", err)
			}

			err = conf.Save()
			if err != nil {
				return pkgerrors.Wrapf(err, "failed to save config")
			}

			logrus.Infof("installation succeeded")

			exePath, _ := os.Executable()

			cmd.Printf("systemd will use current binary (%s) at startup so please make sure you do not move this binary. Once this binary is moved or deleted, you will need to run ``meshlearn install'' again.\n", exePath)

			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVar(&allowNonRootAccess, "allow-non-root-access", false, "Allow non-root users to access meshlearn daemon.")
	f.StringVar(&user, "user", "root", "user the daemon runs as")

	return cmd
}

// NewUninstallCommand .
func NewUninstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "uninstall",
		Short:   "Uninstall meshlearn daemon",
		GroupID: gInstallation,
		Long: `Uninstall meshlearn daemon from systemd (system-wide).

This stops meshlearn and removes its unit. The config file and the Klipper variables file are left untouched.

You must run this command as root.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := daemonutils.Uninstall()
			if err != nil {
				// check if current user is root
				if os.Geteuid() != 0 {
					logrus.Errorf("you must run this command as root")
				}
				return fmt.Errorf("failed to uninstall daemon: %v", err)
			}

			logrus.Infof("uninstallation succeeded")
			cmd.Println("meshlearn daemon has been stopped and removed from systemd.")

			return nil
		},
	}
}
