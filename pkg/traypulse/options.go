package traypulse

import (
	"time"

	"github.com/opd-ai/traypulse/internal/tray"
)

// DefaultShutdownTimeout is the default timeout for graceful shutdown.
// This can be overridden via Options.ShutdownTimeout.
const DefaultShutdownTimeout = 5 * time.Second

// Mode selects which surfaces the application runs.
type Mode int

const (
	// ModeFull runs the tray icon and serves profile window requests.
	ModeFull Mode = iota
	// ModeTrayOnly runs only the tray icon; the profile menu entry is
	// omitted entirely.
	ModeTrayOnly
	// ModeProfileOnly opens the profile window immediately with no tray
	// icon; the application exits when the window closes.
	ModeProfileOnly
)

// String returns a human-readable representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeFull:
		return "full"
	case ModeTrayOnly:
		return "tray-only"
	case ModeProfileOnly:
		return "profile-only"
	default:
		return "unknown"
	}
}

// ThreadPolicySetting selects how the primary thread is allocated
// between the two surfaces.
type ThreadPolicySetting int

const (
	// PolicyAuto detects the policy from the platform and desktop
	// environment. This is the default.
	PolicyAuto ThreadPolicySetting = iota
	// PolicyTrayOnWorker forces the tray onto a worker thread, keeping
	// the primary thread free for the profile window.
	PolicyTrayOnWorker
	// PolicyTrayOnPrimary forces the tray onto the primary thread. The
	// profile window is unavailable in full mode under this policy.
	PolicyTrayOnPrimary
)

// String returns a human-readable representation of the setting.
func (p ThreadPolicySetting) String() string {
	switch p {
	case PolicyAuto:
		return "auto"
	case PolicyTrayOnWorker:
		return "tray-on-worker"
	case PolicyTrayOnPrimary:
		return "tray-on-primary"
	default:
		return "unknown"
	}
}

// Options configures the application behavior.
type Options struct {
	// Mode selects which surfaces run. The zero value is ModeFull.
	Mode Mode

	// ThreadPolicy overrides primary-thread allocation.
	// PolicyAuto (the zero value) detects it from the environment.
	ThreadPolicy ThreadPolicySetting

	// TrayRefreshInterval between tray icon updates.
	// Zero means the tray default (1 second).
	TrayRefreshInterval time.Duration

	// ProfileRefreshInterval is the profile window's initial snapshot
	// interval. Zero means the profile default (1 second); the user can
	// adjust it with the in-window slider.
	ProfileRefreshInterval time.Duration

	// ShutdownTimeout sets the maximum time to wait for graceful shutdown.
	// Zero means use DefaultShutdownTimeout (5 seconds).
	ShutdownTimeout time.Duration

	// Logger sets a custom logger for debug/info messages.
	// If nil, no logging is performed.
	Logger Logger

	// Metrics sets a custom metrics collector for operational metrics.
	// If nil, DefaultMetrics() is used.
	// Metrics can be exposed via /debug/vars by calling Metrics.RegisterExpvar().
	Metrics *Metrics

	// Version is shown in the tray tooltip and window title.
	// Empty means no version suffix.
	Version string

	// TrayBackend overrides the host tray toolkit. If nil, the platform
	// systray implementation is used. Tests inject a fake here.
	TrayBackend tray.Backend
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Mode:            ModeFull,
		ThreadPolicy:    PolicyAuto,
		ShutdownTimeout: 0, // Use DefaultShutdownTimeout
	}
}

// Logger interface for custom logging.
// It follows the slog-style signature for compatibility with Go's structured logging.
type Logger interface {
	// Debug logs a debug-level message with optional key-value pairs.
	Debug(msg string, args ...any)
	// Info logs an info-level message with optional key-value pairs.
	Info(msg string, args ...any)
	// Warn logs a warning-level message with optional key-value pairs.
	Warn(msg string, args ...any)
	// Error logs an error-level message with optional key-value pairs.
	Error(msg string, args ...any)
}
