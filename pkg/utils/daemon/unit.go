package daemon

import (
	"fmt"
	"path/filepath"
	"strings"
)

var (
	unitName = "meshlearn.service"
	unitPath = "/etc/systemd/system/" + unitName
)

// RuntimeDir is the directory systemd creates for the service, owned by the
// service user. The daemon socket belongs here.
const RuntimeDir = "/run/meshlearn"

// unitTemplate runs the daemon as the user that owns the Klipper data, so
// the variables store stays readable.
const unitTemplate = `[Unit]
Description=meshlearn bed mesh learning daemon
After=network-online.target klipper.service
Wants=network-online.target

[Service]
Type=simple
User=/run/as/user
RuntimeDirectory=meshlearn
RuntimeDirectoryMode=0755
ExecStart=/path/to/meshlearn daemon --config /path/to/config --daemon-socket /path/to/socket
Restart=on-failure
RestartSec=5
ExecReload=/bin/kill -HUP $MAINPID

[Install]
WantedBy=multi-user.target
`

// UnitOptions are the values substituted into the systemd unit.
type UnitOptions struct {
	ExePath    string
	ConfigPath string
	SocketPath string
	User       string
}

func renderUnit(o UnitOptions) string {
	return strings.NewReplacer(
		"/path/to/meshlearn", o.ExePath,
		"/path/to/config", o.ConfigPath,
		"/path/to/socket", o.SocketPath,
		"/run/as/user", o.User,
	).Replace(unitTemplate)
}

// validate rejects a socket the service user could not create: only root
// may listen outside RuntimeDir.
func (o UnitOptions) validate() error {
	if o.User == "" || o.User == "root" {
		return nil
	}
	if filepath.Dir(filepath.Clean(o.SocketPath)) != RuntimeDir {
		return fmt.Errorf("socket %s is not writable by user %s, use a socket in %s", o.SocketPath, o.User, RuntimeDir)
	}
	return nil
}
