// Package platform decides how the two UI surfaces share the process's
// primary thread and whether a graphical session is reachable at all.
// The decision is explicit and capability-driven rather than relying
// on incidental thread defaults.
package platform

import (
	"os"
	"runtime"
	"strings"
)

// ThreadPolicy selects which surface owns the primary thread.
type ThreadPolicy int

const (
	// TrayOnWorker runs the tray event loop on a worker thread, leaving
	// the primary thread free for the profile window's render loop.
	// This is the default on Linux and Windows.
	TrayOnWorker ThreadPolicy = iota

	// TrayOnPrimary runs the tray event loop on the primary thread
	// because the host toolkit demands it (macOS always; KDE/Plasma and
	// LXQt desktops on Linux). Profile window support is unavailable in
	// this mode, a documented limitation rather than a crash.
	TrayOnPrimary
)

// String returns a human-readable policy name.
func (p ThreadPolicy) String() string {
	switch p {
	case TrayOnWorker:
		return "tray-on-worker"
	case TrayOnPrimary:
		return "tray-on-primary"
	default:
		return "unknown"
	}
}

// primaryThreadDesktops are desktop environments whose tray hosts are
// Qt-based and require the primary thread, matched case-insensitively
// against XDG_CURRENT_DESKTOP.
var primaryThreadDesktops = []string{"kde", "plasma", "lxqt"}

// DetectThreadPolicy inspects the current OS and desktop environment.
func DetectThreadPolicy() ThreadPolicy {
	return detectThreadPolicy(runtime.GOOS, os.Getenv)
}

// detectThreadPolicy is the pure decision function behind
// DetectThreadPolicy, split out for table-driven tests.
func detectThreadPolicy(goos string, getenv func(string) string) ThreadPolicy {
	switch goos {
	case "darwin":
		// AppKit event loops only run on the main thread.
		return TrayOnPrimary
	case "linux":
		desktop := strings.ToLower(getenv("XDG_CURRENT_DESKTOP"))
		for _, de := range primaryThreadDesktops {
			if strings.Contains(desktop, de) {
				return TrayOnPrimary
			}
		}
	}
	return TrayOnWorker
}
