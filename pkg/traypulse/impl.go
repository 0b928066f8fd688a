package traypulse

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opd-ai/traypulse/internal/metrics"
	"github.com/opd-ai/traypulse/internal/platform"
	"github.com/opd-ai/traypulse/internal/profile"
	"github.com/opd-ai/traypulse/internal/tray"
)

// trayRunner and profileRunner are the coordinator's view of the two
// surfaces. The internal types satisfy them; tests substitute fakes.
type trayRunner interface {
	Run() error
	Stop()
}

type profileRunner interface {
	Run() error
	Stop()
}

// runState holds the channels of one Run invocation. A fresh runState
// per Run keeps Stop and RequestProfile from racing a previous run's
// channels.
type runState struct {
	// showCh carries profile requests to the supervising loop. Capacity
	// one: a request arriving while a window is open stays pending, and
	// further requests are absorbed.
	showCh chan struct{}
	// exitCh is closed exactly once when shutdown begins.
	exitCh   chan struct{}
	exitOnce sync.Once
	// doneCh is closed when Run returns.
	doneCh chan struct{}

	// degraded is set in full mode when the tray holds the primary
	// thread, making the profile window unavailable.
	degraded bool

	tray    trayRunner    // guarded by appImpl.mu
	profile profileRunner // guarded by appImpl.mu
}

// appImpl is the private implementation of the App interface. It owns
// the primary thread while Run is active and hands it to whichever
// surface the thread policy assigns.
type appImpl struct {
	opts      Options
	policy    platform.ThreadPolicy
	collector *metrics.Collector

	// Surface factories and the display probe, replaceable in tests.
	newTray          func(cb tray.Callbacks) trayRunner
	newProfile       func() profileRunner
	displayAvailable func() bool

	// State
	running         atomic.Bool
	startTime       time.Time // guarded by mu
	profileActive   atomic.Bool
	profileSessions atomic.Uint64
	lastError       atomic.Value // stores error

	// Handlers
	errorHandler ErrorHandler
	eventHandler EventHandler

	mu  sync.RWMutex
	run *runState // guarded by mu
}

// Verify interface implementation at compile time.
var _ App = (*appImpl)(nil)

// Run starts the configured surfaces on the calling goroutine and
// blocks until the application exits.
func (a *appImpl) Run(ctx context.Context) error {
	if !a.displayAvailable() {
		return fmt.Errorf("no display available: cannot start GUI surfaces")
	}
	if !a.running.CompareAndSwap(false, true) {
		return fmt.Errorf("traypulse instance already running")
	}

	r := &runState{
		showCh:   make(chan struct{}, 1),
		exitCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		degraded: a.opts.Mode == ModeFull && a.policy == platform.TrayOnPrimary,
	}
	a.mu.Lock()
	a.run = r
	a.startTime = time.Now()
	a.mu.Unlock()

	a.opts.Metrics.IncrementStarts()
	a.opts.Metrics.SetRunning(true)
	defer func() {
		a.running.Store(false)
		a.opts.Metrics.SetRunning(false)
		a.opts.Metrics.IncrementStops()
		close(r.doneCh)
		a.emitEvent(EventStopped, "Application stopped")
	}()

	a.opts.Logger.Info("starting",
		"mode", a.opts.Mode.String(),
		"thread_policy", a.policy.String(),
		"system_drive", a.collector.SystemDrive())
	a.emitEvent(EventStarted, "Application started")

	// Context cancellation converges on the same exit path as the tray
	// menu and Stop.
	go func() {
		select {
		case <-ctx.Done():
			a.triggerExit(r)
		case <-r.exitCh:
		}
	}()

	var err error
	switch {
	case a.opts.Mode == ModeProfileOnly:
		err = a.runProfileOnly(r)
	case a.opts.Mode == ModeTrayOnly || r.degraded:
		err = a.runTrayInline(r)
	default:
		err = a.runFull(r)
	}
	if err != nil {
		a.notifyError(err)
	}
	return err
}

// runFull places the tray loop on a worker goroutine and keeps the
// calling (primary) thread in a supervising loop that serves profile
// window requests one at a time.
func (a *appImpl) runFull(r *runState) error {
	t := a.newTray(tray.Callbacks{
		OnShowProfile: func() { a.RequestProfile() },
		OnExit:        func() { a.triggerExit(r) },
	})
	a.mu.Lock()
	r.tray = t
	a.mu.Unlock()

	trayErr := make(chan error, 1)
	go func() { trayErr <- t.Run() }()

	for {
		select {
		case <-r.exitCh:
			t.Stop()
			return a.joinTray(trayErr)
		case err := <-trayErr:
			// The tray loop ended on its own, e.g. the host has no tray
			// support. Nothing left to coordinate.
			a.triggerExit(r)
			if err != nil {
				return fmt.Errorf("tray surface: %w", err)
			}
			return nil
		case <-r.showCh:
			a.serveProfile(r)
		}
	}
}

// joinTray waits for the tray goroutine to finish, bounded by the
// shutdown timeout.
func (a *appImpl) joinTray(trayErr <-chan error) error {
	select {
	case err := <-trayErr:
		if err != nil {
			return fmt.Errorf("tray surface: %w", err)
		}
		return nil
	case <-time.After(a.opts.ShutdownTimeout):
		return fmt.Errorf("shutdown timeout after %v: tray loop did not stop", a.opts.ShutdownTimeout)
	}
}

// serveProfile runs one profile window session on the calling thread.
// Because the supervising loop calls it inline, at most one window
// exists at a time and a new one starts only after the previous
// session fully returned.
func (a *appImpl) serveProfile(r *runState) {
	select {
	case <-r.exitCh:
		return
	default:
	}

	p := a.newProfile()
	a.mu.Lock()
	r.profile = p
	a.mu.Unlock()

	// Exit may have been triggered between the check above and the
	// profile becoming stoppable; a pre-stopped window returns on its
	// first frame.
	select {
	case <-r.exitCh:
		p.Stop()
	default:
	}

	a.profileActive.Store(true)
	a.opts.Metrics.SetProfileActive(true)
	a.opts.Metrics.IncrementProfileOpens()
	a.profileSessions.Add(1)
	a.emitEvent(EventProfileOpened, "Profile window opened")
	a.opts.Logger.Debug("profile window opened")

	start := time.Now()
	err := p.Run()
	a.opts.Metrics.RecordProfileSession(time.Since(start))

	a.mu.Lock()
	r.profile = nil
	a.mu.Unlock()
	a.profileActive.Store(false)
	a.opts.Metrics.SetProfileActive(false)
	a.emitEvent(EventProfileClosed, "Profile window closed")
	a.opts.Logger.Debug("profile window closed", "session", time.Since(start))

	if err != nil {
		a.notifyError(fmt.Errorf("profile window: %w", err))
	}
}

// runTrayInline runs the tray loop on the calling (primary) thread.
// Used in tray-only mode and in full mode when the desktop's tray
// toolkit itself needs the primary thread; in the latter case profile
// requests are denied rather than risking two surfaces on one thread.
func (a *appImpl) runTrayInline(r *runState) error {
	var onShow func()
	if r.degraded {
		onShow = func() { a.RequestProfile() }
		a.opts.Logger.Warn("desktop tray holds the primary thread; profile window unavailable",
			"thread_policy", a.policy.String())
	}

	t := a.newTray(tray.Callbacks{
		OnShowProfile: onShow,
		OnExit:        func() { a.triggerExit(r) },
	})
	a.mu.Lock()
	r.tray = t
	a.mu.Unlock()

	if err := t.Run(); err != nil {
		return fmt.Errorf("tray surface: %w", err)
	}
	return nil
}

// runProfileOnly opens the profile window immediately; the application
// lives exactly as long as the window.
func (a *appImpl) runProfileOnly(r *runState) error {
	p := a.newProfile()
	a.mu.Lock()
	r.profile = p
	a.mu.Unlock()

	a.profileActive.Store(true)
	a.opts.Metrics.SetProfileActive(true)
	a.opts.Metrics.IncrementProfileOpens()
	a.profileSessions.Add(1)
	a.emitEvent(EventProfileOpened, "Profile window opened")

	start := time.Now()
	err := p.Run()
	a.opts.Metrics.RecordProfileSession(time.Since(start))

	a.mu.Lock()
	r.profile = nil
	a.mu.Unlock()
	a.profileActive.Store(false)
	a.opts.Metrics.SetProfileActive(false)
	a.emitEvent(EventProfileClosed, "Profile window closed")

	a.triggerExit(r)
	if err != nil {
		return fmt.Errorf("profile window: %w", err)
	}
	return nil
}

// triggerExit begins shutdown exactly once: it closes the exit channel
// and cooperatively stops whichever surfaces are active. All exit paths
// (tray menu, Stop, context cancellation, window close in profile-only
// mode) converge here.
func (a *appImpl) triggerExit(r *runState) {
	r.exitOnce.Do(func() {
		close(r.exitCh)

		a.mu.RLock()
		t, p := r.tray, r.profile
		a.mu.RUnlock()

		if p != nil {
			p.Stop()
		}
		if t != nil {
			t.Stop()
		}
	})
}

// Stop requests a graceful shutdown and waits for Run to return.
func (a *appImpl) Stop() error {
	if !a.running.Load() {
		return nil // Already stopped
	}

	a.mu.RLock()
	r := a.run
	a.mu.RUnlock()
	if r == nil {
		return nil
	}

	a.triggerExit(r)

	select {
	case <-r.doneCh:
		return nil
	case <-time.After(a.opts.ShutdownTimeout):
		err := fmt.Errorf("shutdown timeout after %v: surfaces did not stop", a.opts.ShutdownTimeout)
		a.notifyError(err)
		return err
	}
}

// RequestProfile asks the supervising loop to open the profile window.
func (a *appImpl) RequestProfile() bool {
	if !a.running.Load() {
		return false
	}
	a.mu.RLock()
	r := a.run
	a.mu.RUnlock()
	if r == nil {
		return false
	}

	switch {
	case a.opts.Mode == ModeTrayOnly || r.degraded:
		a.opts.Metrics.IncrementProfileRequestsDenied()
		a.emitEvent(EventProfileUnavailable, "Profile window unavailable under current thread policy")
		return false
	case a.opts.Mode == ModeProfileOnly:
		// The window is the whole application; a request is meaningful
		// only while it is still open.
		return a.profileActive.Load()
	}

	select {
	case <-r.exitCh:
		return false
	case r.showCh <- struct{}{}:
		return true
	default:
		// A window is already open or a request is pending; absorbed.
		return true
	}
}

// IsRunning returns true if the application is currently running.
func (a *appImpl) IsRunning() bool {
	return a.running.Load()
}

// Status returns detailed status information about the instance.
func (a *appImpl) Status() Status {
	a.mu.RLock()
	startTime := a.startTime
	a.mu.RUnlock()

	return Status{
		Running:         a.running.Load(),
		StartTime:       startTime,
		Mode:            a.opts.Mode,
		ThreadPolicy:    a.policy.String(),
		ProfileActive:   a.profileActive.Load(),
		ProfileSessions: a.profileSessions.Load(),
		LastError:       a.getError(),
	}
}

// SetErrorHandler registers a callback for runtime errors.
func (a *appImpl) SetErrorHandler(handler ErrorHandler) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errorHandler = handler
}

// SetEventHandler registers a callback for lifecycle events.
func (a *appImpl) SetEventHandler(handler EventHandler) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.eventHandler = handler
}

// Metrics returns the metrics collector for this instance.
func (a *appImpl) Metrics() *Metrics {
	return a.opts.Metrics
}

// getError retrieves the last error.
func (a *appImpl) getError() error {
	if v := a.lastError.Load(); v != nil {
		if err, ok := v.(error); ok {
			return err
		}
	}
	return nil
}

// notifyError stores an error and invokes the error handler if registered.
// This method should be called when runtime errors occur during operation.
func (a *appImpl) notifyError(err error) {
	// Store the error for Status() retrieval
	a.lastError.Store(err)
	a.opts.Metrics.IncrementErrors()
	a.opts.Logger.Error("runtime error", "error", err)

	a.mu.RLock()
	handler := a.errorHandler
	logger := a.opts.Logger
	a.mu.RUnlock()

	if handler != nil {
		go func() {
			defer func() {
				// Recover from panics in error handler to prevent crashing
				if r := recover(); r != nil {
					logger.Error("error handler panicked", "panic", r, "original_error", err)
				}
			}()
			handler(err)
		}()
	}

	// Also emit an error event
	a.emitEvent(EventError, err.Error())
}

// emitEvent sends an event to the event handler if configured.
func (a *appImpl) emitEvent(eventType EventType, message string) {
	a.opts.Metrics.IncrementEventsEmitted()

	a.mu.RLock()
	handler := a.eventHandler
	a.mu.RUnlock()

	if handler != nil {
		go func() {
			defer func() {
				if r := recover(); r != nil {
					// Recover from panics in the handler to avoid crashing
					// the embedding application.
					a.mu.RLock()
					errHandler := a.errorHandler
					a.mu.RUnlock()
					if errHandler != nil {
						if err, ok := r.(error); ok {
							errHandler(fmt.Errorf("panic in event handler: %w", err))
						} else {
							errHandler(fmt.Errorf("panic in event handler: %v", r))
						}
					}
				}
			}()

			handler(Event{
				Type:      eventType,
				Timestamp: time.Now(),
				Message:   message,
			})
		}()
	}
}

// Health returns a health check result for the instance.
func (a *appImpl) Health() HealthCheck {
	now := time.Now()
	components := make(map[string]ComponentHealth)

	running := a.running.Load()

	var uptime time.Duration
	a.mu.RLock()
	if running && !a.startTime.IsZero() {
		uptime = now.Sub(a.startTime)
	}
	r := a.run
	a.mu.RUnlock()

	if running {
		components["app"] = ComponentHealth{
			Status:      HealthOK,
			Message:     "Application is running",
			LastUpdated: now,
		}
	} else {
		components["app"] = ComponentHealth{
			Status:      HealthUnhealthy,
			Message:     "Application is not running",
			LastUpdated: now,
		}
	}

	switch {
	case running && a.opts.Mode == ModeProfileOnly:
		components["tray"] = ComponentHealth{
			Status:      HealthOK,
			Message:     "Tray disabled in profile-only mode",
			LastUpdated: now,
		}
	case running && r != nil && r.degraded:
		components["tray"] = ComponentHealth{
			Status:      HealthDegraded,
			Message:     "Tray on primary thread; profile window unavailable",
			LastUpdated: now,
		}
	case running:
		components["tray"] = ComponentHealth{
			Status:      HealthOK,
			Message:     "Tray surface active",
			LastUpdated: now,
		}
	default:
		components["tray"] = ComponentHealth{
			Status:      HealthUnhealthy,
			Message:     "Tray surface not active",
			LastUpdated: now,
		}
	}

	if a.profileActive.Load() {
		components["profile"] = ComponentHealth{
			Status:      HealthOK,
			Message:     fmt.Sprintf("Profile window open, %d sessions served", a.profileSessions.Load()),
			LastUpdated: now,
		}
	} else {
		components["profile"] = ComponentHealth{
			Status:      HealthOK,
			Message:     fmt.Sprintf("Profile window closed, %d sessions served", a.profileSessions.Load()),
			LastUpdated: now,
		}
	}

	lastErr := a.getError()
	if lastErr != nil {
		components["errors"] = ComponentHealth{
			Status:      HealthDegraded,
			Message:     lastErr.Error(),
			LastUpdated: now,
		}
	} else {
		components["errors"] = ComponentHealth{
			Status:      HealthOK,
			Message:     "No recent errors",
			LastUpdated: now,
		}
	}

	overallStatus := HealthOK
	var message string

	switch {
	case !running:
		overallStatus = HealthUnhealthy
		message = "Application is not running"
	case lastErr != nil:
		overallStatus = HealthDegraded
		message = "Running with recent errors"
	case r != nil && r.degraded:
		overallStatus = HealthDegraded
		message = "Running with profile window unavailable"
	default:
		message = "All components healthy"
	}

	return HealthCheck{
		Status:     overallStatus,
		Timestamp:  now,
		Uptime:     uptime,
		Components: components,
		Message:    message,
	}
}

// defaultTray builds the production tray surface.
func (a *appImpl) defaultTray(cb tray.Callbacks) trayRunner {
	title := "traypulse"
	if a.opts.Version != "" {
		title = "traypulse v" + a.opts.Version
	}
	return tray.New(a.collector, cb, tray.Config{
		Title:           title,
		RefreshInterval: a.opts.TrayRefreshInterval,
		Backend:         a.opts.TrayBackend,
		OnError: func(err error) {
			a.notifyError(fmt.Errorf("tray refresh: %w", err))
		},
		OnRefresh: func(elapsed time.Duration) {
			a.opts.Metrics.IncrementIconUpdates()
			a.opts.Metrics.RecordRefreshLatency(elapsed)
		},
	})
}

// defaultProfile builds the production profile window.
func (a *appImpl) defaultProfile() profileRunner {
	title := "traypulse - System Profile"
	if a.opts.Version != "" {
		title = "traypulse v" + a.opts.Version + " - System Profile"
	}
	return profile.NewWindow(a.collector, profile.Config{
		Title:           title,
		RefreshInterval: a.opts.ProfileRefreshInterval,
	})
}
