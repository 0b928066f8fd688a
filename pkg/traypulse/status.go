package traypulse

import "time"

// Status represents the current state of the application.
type Status struct {
	// Running indicates if the application is currently active.
	Running bool
	// StartTime is when the application was last started (zero if never started).
	StartTime time.Time
	// Mode is the mode the application was configured with.
	Mode Mode
	// ThreadPolicy describes the resolved primary-thread allocation.
	ThreadPolicy string
	// ProfileActive indicates if a profile window is currently open.
	ProfileActive bool
	// ProfileSessions is the number of profile windows served since start.
	ProfileSessions uint64
	// LastError is the most recent error encountered (nil if none).
	LastError error
}

// ErrorHandler is a callback for runtime errors.
// It is called asynchronously when errors occur during operation.
// Do not block in the handler; perform only quick, non-blocking operations.
type ErrorHandler func(err error)

// EventHandler is a callback for lifecycle events.
// It is called asynchronously; do not block in the handler.
type EventHandler func(event Event)

// Event represents a lifecycle event.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Message   string
}

// EventType enumerates lifecycle event types.
// The underlying integer values are implementation details and should not
// be relied upon for serialization. Use the constant names for comparison.
type EventType int

const (
	// EventStarted is emitted when the application starts successfully.
	EventStarted EventType = iota
	// EventStopped is emitted when the application stops.
	EventStopped
	// EventProfileOpened is emitted when a profile window opens.
	EventProfileOpened
	// EventProfileClosed is emitted when a profile window closes.
	EventProfileClosed
	// EventProfileUnavailable is emitted when a profile request is denied
	// because the primary thread is held by the tray.
	EventProfileUnavailable
	// EventError is emitted when a recoverable error occurs.
	EventError
)

// String returns a human-readable representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventStarted:
		return "started"
	case EventStopped:
		return "stopped"
	case EventProfileOpened:
		return "profile_opened"
	case EventProfileClosed:
		return "profile_closed"
	case EventProfileUnavailable:
		return "profile_unavailable"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}
