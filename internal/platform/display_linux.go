//go:build linux

package platform

import (
	"os"

	"github.com/jezek/xgb"
)

// DisplayAvailable reports whether a graphical session is reachable.
// Wayland sessions are trusted from the environment; X11 sessions are
// verified by actually connecting to the X server, since a stale
// DISPLAY value is common in headless shells. A false result means the
// tray surface should degrade to a reported no-op instead of crashing.
func DisplayAvailable() bool {
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return true
	}
	if os.Getenv("DISPLAY") == "" {
		return false
	}

	conn, err := xgb.NewConn()
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
