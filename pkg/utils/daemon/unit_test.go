package daemon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderUnit(t *testing.T) {
	unit := renderUnit(UnitOptions{
		ExePath:    "/usr/local/bin/meshlearn",
		ConfigPath: "/etc/meshlearn.json",
		SocketPath: "/run/meshlearn/meshlearn.sock",
		User:       "pi",
	})

	assert.Contains(t, unit, "ExecStart=/usr/local/bin/meshlearn daemon --config /etc/meshlearn.json --daemon-socket /run/meshlearn/meshlearn.sock\n")
	assert.Contains(t, unit, "User=pi\n")
	assert.Contains(t, unit, "RuntimeDirectory=meshlearn\n")
	assert.Contains(t, unit, "RuntimeDirectoryMode=0755\n")
	assert.Contains(t, unit, "After=network-online.target klipper.service\n")
	assert.NotContains(t, unit, "/path/to")
}

func TestUnitOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		o       UnitOptions
		wantErr bool
	}{
		{"root outside runtime dir", UnitOptions{User: "root", SocketPath: "/run/meshlearn.sock"}, false},
		{"default user", UnitOptions{SocketPath: "/tmp/x.sock"}, false},
		{"service user in runtime dir", UnitOptions{User: "pi", SocketPath: "/run/meshlearn/meshlearn.sock"}, false},
		{"service user unclean path", UnitOptions{User: "pi", SocketPath: "/run/meshlearn//meshlearn.sock"}, false},
		{"service user in /run", UnitOptions{User: "pi", SocketPath: "/run/meshlearn.sock"}, true},
		{"service user nested dir", UnitOptions{User: "pi", SocketPath: "/run/meshlearn/sub/d.sock"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.o.validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
