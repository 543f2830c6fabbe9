package timer

import "time"

// State represents the engine mode.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StatePaused  State = "paused"
)

// EventType defines the type of engine event.
type EventType string

const (
	EventStateChange     EventType = "state_change"
	EventProgress        EventType = "progress"
	EventInactivityPause EventType = "inactivity_pause"
	EventActivityResume  EventType = "activity_resume"
	EventPomodoroBreak   EventType = "pomodoro_break"
	EventStopped         EventType = "stopped"
)

// Event is an engine update for observers. Record is a snapshot taken at
// the moment the event was produced; it is zero when State is idle.
type Event struct {
	Type    EventType
	State   State
	Record  Record
	Elapsed time.Duration
	Result  *StopResult
	Message string
	At      time.Time
}

// Record is the live timer context. Times are epoch milliseconds.
type Record struct {
	WorkItemID    int
	WorkItemTitle string
	StartTime     int64
	PausedAt      int64
	IsPaused      bool

	PausedByInactivity bool
	LastActivity       int64

	InactivityTimeoutSec int
	PomodoroEnabled      bool
	PomodoroCount        int
}

// StopResult describes the session closed by Stop.
type StopResult struct {
	WorkItemID    int
	StartTime     int64
	EndTime       int64
	Duration      int64
	HoursDecimal  float64
	CapApplied    bool
	CapLimitHours float64
}
