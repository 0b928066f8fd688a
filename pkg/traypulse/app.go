package traypulse

import (
	"context"
	"fmt"

	"github.com/opd-ai/traypulse/internal/metrics"
	"github.com/opd-ai/traypulse/internal/platform"
)

// App represents a traypulse instance with full lifecycle control.
// It is safe for concurrent use from multiple goroutines, except Run,
// which must be called from the main goroutine.
type App interface {
	// Run starts the configured surfaces and blocks until the application
	// exits via the tray menu, Stop, or context cancellation.
	//
	// Run MUST be called from the main goroutine: both GUI toolkits in
	// use require the process's primary thread, and Run allocates it
	// between them according to the resolved thread policy.
	//
	// Returns an error if already running or if a surface fails.
	Run(ctx context.Context) error

	// Stop requests a graceful shutdown of a running instance and waits
	// for Run to return, bounded by Options.ShutdownTimeout.
	// Safe to call multiple times; subsequent calls are no-ops.
	Stop() error

	// RequestProfile asks the coordinator to open the profile window,
	// exactly as the tray menu entry does. It reports whether the
	// request was accepted. A request while a window is already open or
	// pending is absorbed and still reported as accepted.
	RequestProfile() bool

	// IsRunning returns true if the application is currently running.
	IsRunning() bool

	// Status returns detailed status information about the instance.
	Status() Status

	// SetErrorHandler registers a callback for runtime errors.
	// The handler is invoked asynchronously; do not block in the handler.
	// Implementations of App MUST recover from panics in the handler so
	// that a buggy handler cannot crash the embedding application.
	SetErrorHandler(handler ErrorHandler)

	// SetEventHandler registers a callback for lifecycle events.
	SetEventHandler(handler EventHandler)

	// Health returns a health check result for the instance.
	// This can be used for monitoring, alerting, and debugging.
	Health() HealthCheck

	// Metrics returns the metrics collector for this instance.
	// Use Metrics().Snapshot() for a point-in-time copy of all metrics.
	// Use Metrics().RegisterExpvar() to expose metrics via /debug/vars.
	Metrics() *Metrics
}

// New creates a new App instance. The instance is created but not
// started; call Run() to begin operation.
//
// Example:
//
//	app, err := traypulse.New(nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//	if err := app.Run(ctx); err != nil {
//		log.Fatal(err)
//	}
func New(opts *Options) (App, error) {
	if opts == nil {
		defaultOpts := DefaultOptions()
		opts = &defaultOpts
	}

	switch opts.Mode {
	case ModeFull, ModeTrayOnly, ModeProfileOnly:
	default:
		return nil, fmt.Errorf("invalid mode: %d", opts.Mode)
	}

	policy, err := resolveThreadPolicy(opts.ThreadPolicy)
	if err != nil {
		return nil, err
	}

	a := &appImpl{
		opts:      *opts,
		policy:    policy,
		collector: metrics.NewCollector(),
	}
	if a.opts.Metrics == nil {
		a.opts.Metrics = DefaultMetrics()
	}
	if a.opts.Logger == nil {
		a.opts.Logger = NopLogger()
	}
	if a.opts.ShutdownTimeout <= 0 {
		a.opts.ShutdownTimeout = DefaultShutdownTimeout
	}

	a.newTray = a.defaultTray
	a.newProfile = a.defaultProfile
	a.displayAvailable = platform.DisplayAvailable
	return a, nil
}

// resolveThreadPolicy maps the option to a concrete policy, consulting
// the environment for PolicyAuto.
func resolveThreadPolicy(setting ThreadPolicySetting) (platform.ThreadPolicy, error) {
	switch setting {
	case PolicyAuto:
		return platform.DetectThreadPolicy(), nil
	case PolicyTrayOnWorker:
		return platform.TrayOnWorker, nil
	case PolicyTrayOnPrimary:
		return platform.TrayOnPrimary, nil
	default:
		return 0, fmt.Errorf("invalid thread policy: %d", setting)
	}
}
