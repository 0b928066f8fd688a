package traypulse

import (
	"testing"
	"time"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.IncrementStarts()
	m.IncrementStarts()
	m.IncrementStops()
	m.IncrementProfileOpens()
	m.IncrementProfileRequestsDenied()
	m.IncrementErrors()
	m.IncrementEventsEmitted()

	snap := m.Snapshot()
	if snap.Starts != 2 {
		t.Errorf("starts = %d, want 2", snap.Starts)
	}
	if snap.Stops != 1 {
		t.Errorf("stops = %d, want 1", snap.Stops)
	}
	if snap.ProfileOpens != 1 {
		t.Errorf("profile opens = %d, want 1", snap.ProfileOpens)
	}
	if snap.ProfileRequestsDenied != 1 {
		t.Errorf("denied = %d, want 1", snap.ProfileRequestsDenied)
	}
	if snap.ErrorsTotal != 1 {
		t.Errorf("errors = %d, want 1", snap.ErrorsTotal)
	}
	if snap.EventsEmitted != 1 {
		t.Errorf("events = %d, want 1", snap.EventsEmitted)
	}
}

func TestMetricsGauges(t *testing.T) {
	m := NewMetrics()

	m.SetRunning(true)
	m.SetProfileActive(true)
	snap := m.Snapshot()
	if !snap.Running || !snap.ProfileActive {
		t.Errorf("gauges = %+v, want both set", snap)
	}

	m.SetRunning(false)
	m.SetProfileActive(false)
	snap = m.Snapshot()
	if snap.Running || snap.ProfileActive {
		t.Errorf("gauges = %+v, want both clear", snap)
	}
}

func TestMetricsRefreshLatencyAverage(t *testing.T) {
	m := NewMetrics()

	m.IncrementIconUpdates()
	m.RecordRefreshLatency(10 * time.Millisecond)
	m.RecordRefreshLatency(30 * time.Millisecond)

	snap := m.Snapshot()
	if snap.IconUpdates != 1 {
		t.Errorf("icon updates = %d, want 1", snap.IconUpdates)
	}
	if snap.RefreshLatencyAvg != 20*time.Millisecond {
		t.Errorf("refresh latency avg = %v, want 20ms", snap.RefreshLatencyAvg)
	}
}

func TestMetricsProfileSessionAverage(t *testing.T) {
	m := NewMetrics()

	if avg := m.Snapshot().ProfileSessionAvg; avg != 0 {
		t.Errorf("average with no sessions = %v, want 0", avg)
	}

	m.RecordProfileSession(10 * time.Second)
	m.RecordProfileSession(20 * time.Second)

	if avg := m.Snapshot().ProfileSessionAvg; avg != 15*time.Second {
		t.Errorf("average = %v, want 15s", avg)
	}
}

func TestMetricsReset(t *testing.T) {
	m := NewMetrics()
	m.IncrementStarts()
	m.IncrementProfileOpens()
	m.SetRunning(true)
	m.RecordProfileSession(time.Second)

	m.Reset()

	snap := m.Snapshot()
	if snap.Starts != 0 || snap.ProfileOpens != 0 || snap.Running || snap.ProfileSessionAvg != 0 {
		t.Errorf("snapshot after reset = %+v, want zeros", snap)
	}
}

func TestMetricsRegisterExpvarIdempotent(t *testing.T) {
	// Registering twice must not panic on duplicate expvar names.
	m := NewMetrics()
	m.RegisterExpvar()
	m.RegisterExpvar()
}

func TestDefaultMetricsSingleton(t *testing.T) {
	if DefaultMetrics() != DefaultMetrics() {
		t.Error("DefaultMetrics() returned different instances")
	}
}

func TestSafeDivide(t *testing.T) {
	if got := safeDivide(100, 0); got != 0 {
		t.Errorf("safeDivide(100, 0) = %v, want 0", got)
	}
	if got := safeDivide(100, 4); got != 25 {
		t.Errorf("safeDivide(100, 4) = %v, want 25", got)
	}
}
