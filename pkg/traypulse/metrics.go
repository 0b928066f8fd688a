package traypulse

import (
	"expvar"
	"sync/atomic"
	"time"
)

// Metrics provides application-level metrics collection for traypulse.
// It uses Go's expvar package for exposition, which can be accessed via the
// /debug/vars HTTP endpoint when an HTTP server is running.
//
// Thread-safe for concurrent use.
//
// Example usage:
//
//	metrics := traypulse.NewMetrics()
//	metrics.IncrementProfileOpens()
//	metrics.RecordProfileSession(30 * time.Second)
type Metrics struct {
	// Counters
	starts                atomic.Int64
	stops                 atomic.Int64
	iconUpdates           atomic.Int64
	profileOpens          atomic.Int64
	profileRequestsDenied atomic.Int64
	errorsTotal           atomic.Int64
	eventsEmitted         atomic.Int64

	// Latency tracking (stored as nanoseconds)
	refreshLatencyNs    atomic.Int64
	refreshLatencyCount atomic.Int64
	profileSessionNs    atomic.Int64
	profileSessionCount atomic.Int64

	// Current state gauges
	currentlyRunning atomic.Int32
	profileActive    atomic.Int32

	// Registration tracking to prevent duplicate expvar registration
	registered atomic.Bool
}

// NewMetrics creates a new Metrics instance.
// Call RegisterExpvar() to expose metrics via the /debug/vars endpoint.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RegisterExpvar registers all metrics with Go's expvar package.
// This makes metrics available at /debug/vars when an HTTP server is running.
// Safe to call multiple times; subsequent calls are no-ops.
func (m *Metrics) RegisterExpvar() {
	if m.registered.Swap(true) {
		return // Already registered
	}

	// Counters
	expvar.Publish("traypulse_starts_total", expvar.Func(func() any { return m.starts.Load() }))
	expvar.Publish("traypulse_stops_total", expvar.Func(func() any { return m.stops.Load() }))
	expvar.Publish("traypulse_icon_updates_total", expvar.Func(func() any { return m.iconUpdates.Load() }))
	expvar.Publish("traypulse_profile_opens_total", expvar.Func(func() any { return m.profileOpens.Load() }))
	expvar.Publish("traypulse_profile_requests_denied_total", expvar.Func(func() any { return m.profileRequestsDenied.Load() }))
	expvar.Publish("traypulse_errors_total", expvar.Func(func() any { return m.errorsTotal.Load() }))
	expvar.Publish("traypulse_events_emitted_total", expvar.Func(func() any { return m.eventsEmitted.Load() }))

	// Gauges
	expvar.Publish("traypulse_running", expvar.Func(func() any { return m.currentlyRunning.Load() }))
	expvar.Publish("traypulse_profile_active", expvar.Func(func() any { return m.profileActive.Load() }))

	// Latency averages (milliseconds)
	expvar.Publish("traypulse_refresh_latency_avg_ms", expvar.Func(func() any {
		count := m.refreshLatencyCount.Load()
		if count == 0 {
			return float64(0)
		}
		return float64(m.refreshLatencyNs.Load()) / float64(count) / 1e6
	}))
	expvar.Publish("traypulse_profile_session_avg_ms", expvar.Func(func() any {
		count := m.profileSessionCount.Load()
		if count == 0 {
			return float64(0)
		}
		return float64(m.profileSessionNs.Load()) / float64(count) / 1e6
	}))
}

// Snapshot returns a point-in-time copy of all metrics.
// Useful for testing or custom metric exposition.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Starts:                m.starts.Load(),
		Stops:                 m.stops.Load(),
		IconUpdates:           m.iconUpdates.Load(),
		ProfileOpens:          m.profileOpens.Load(),
		ProfileRequestsDenied: m.profileRequestsDenied.Load(),
		ErrorsTotal:           m.errorsTotal.Load(),
		EventsEmitted:         m.eventsEmitted.Load(),

		Running:       m.currentlyRunning.Load() > 0,
		ProfileActive: m.profileActive.Load() > 0,

		RefreshLatencyAvg: safeDivide(m.refreshLatencyNs.Load(), m.refreshLatencyCount.Load()),
		ProfileSessionAvg: safeDivide(m.profileSessionNs.Load(), m.profileSessionCount.Load()),
	}
}

// MetricsSnapshot is a point-in-time copy of all metrics.
type MetricsSnapshot struct {
	// Counters
	Starts                int64
	Stops                 int64
	IconUpdates           int64
	ProfileOpens          int64
	ProfileRequestsDenied int64
	ErrorsTotal           int64
	EventsEmitted         int64

	// Gauges
	Running       bool
	ProfileActive bool

	// Latency averages
	RefreshLatencyAvg time.Duration
	ProfileSessionAvg time.Duration
}

// Counter increment methods

// IncrementStarts records a start operation.
func (m *Metrics) IncrementStarts() {
	m.starts.Add(1)
}

// IncrementStops records a stop operation.
func (m *Metrics) IncrementStops() {
	m.stops.Add(1)
}

// IncrementIconUpdates records one successful tray icon refresh.
func (m *Metrics) IncrementIconUpdates() {
	m.iconUpdates.Add(1)
}

// IncrementProfileOpens records a served profile window.
func (m *Metrics) IncrementProfileOpens() {
	m.profileOpens.Add(1)
}

// IncrementProfileRequestsDenied records a denied profile request.
func (m *Metrics) IncrementProfileRequestsDenied() {
	m.profileRequestsDenied.Add(1)
}

// IncrementErrors records an error occurrence.
func (m *Metrics) IncrementErrors() {
	m.errorsTotal.Add(1)
}

// IncrementEventsEmitted records an event emission.
func (m *Metrics) IncrementEventsEmitted() {
	m.eventsEmitted.Add(1)
}

// Gauge methods

// SetRunning updates the running state gauge.
func (m *Metrics) SetRunning(running bool) {
	if running {
		m.currentlyRunning.Store(1)
	} else {
		m.currentlyRunning.Store(0)
	}
}

// SetProfileActive updates the profile window gauge.
func (m *Metrics) SetProfileActive(active bool) {
	if active {
		m.profileActive.Store(1)
	} else {
		m.profileActive.Store(0)
	}
}

// RecordRefreshLatency records the duration of one tray refresh cycle.
func (m *Metrics) RecordRefreshLatency(d time.Duration) {
	m.refreshLatencyNs.Add(d.Nanoseconds())
	m.refreshLatencyCount.Add(1)
}

// RecordProfileSession records the duration of one profile window session.
func (m *Metrics) RecordProfileSession(d time.Duration) {
	m.profileSessionNs.Add(d.Nanoseconds())
	m.profileSessionCount.Add(1)
}

// Reset clears all metrics. Useful for testing.
func (m *Metrics) Reset() {
	m.starts.Store(0)
	m.stops.Store(0)
	m.iconUpdates.Store(0)
	m.profileOpens.Store(0)
	m.profileRequestsDenied.Store(0)
	m.errorsTotal.Store(0)
	m.eventsEmitted.Store(0)

	m.refreshLatencyNs.Store(0)
	m.refreshLatencyCount.Store(0)
	m.profileSessionNs.Store(0)
	m.profileSessionCount.Store(0)

	m.currentlyRunning.Store(0)
	m.profileActive.Store(0)
}

// safeDivide performs safe division, returning 0 for divide by zero.
func safeDivide(total, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return time.Duration(total / count)
}

// defaultMetrics is a global metrics instance for convenience.
var defaultMetrics = NewMetrics()

// DefaultMetrics returns the global default Metrics instance.
// This can be used when a single application-wide metrics collector is sufficient.
func DefaultMetrics() *Metrics {
	return defaultMetrics
}
