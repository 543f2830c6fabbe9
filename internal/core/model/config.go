package model

import "time"

const (
	DefaultInactivityTimeout       = 300 * time.Second
	DefaultInactivityCheckInterval = 10 * time.Second
	DefaultTickInterval            = time.Second
	DefaultActivityPollInterval    = 5 * time.Second
	DefaultElapsedLimit            = 3*time.Hour + 30*time.Minute
)

// TimerConfig contains runtime settings for the timer engine and its loops.
type TimerConfig struct {
	InactivityTimeout       time.Duration
	InactivityCheckInterval time.Duration
	TickInterval            time.Duration

	// ElapsedLimit caps the duration recorded on stop. Zero disables the cap.
	ElapsedLimit time.Duration

	AutoResumeOnActivity bool
	PomodoroEnabled      bool

	ActivityDetection    bool
	ActivityPollInterval time.Duration
}

// DefaultTimerConfig returns the stock configuration.
func DefaultTimerConfig() TimerConfig {
	return TimerConfig{
		InactivityTimeout:       DefaultInactivityTimeout,
		InactivityCheckInterval: DefaultInactivityCheckInterval,
		TickInterval:            DefaultTickInterval,
		ElapsedLimit:            DefaultElapsedLimit,
		AutoResumeOnActivity:    true,
		ActivityDetection:       true,
		ActivityPollInterval:    DefaultActivityPollInterval,
	}
}

// Normalized fills zero or negative intervals with defaults.
func (config TimerConfig) Normalized() TimerConfig {
	if config.InactivityTimeout <= 0 {
		config.InactivityTimeout = DefaultInactivityTimeout
	}
	if config.InactivityCheckInterval <= 0 {
		config.InactivityCheckInterval = DefaultInactivityCheckInterval
	}
	if config.TickInterval <= 0 {
		config.TickInterval = DefaultTickInterval
	}
	if config.ActivityPollInterval <= 0 {
		config.ActivityPollInterval = DefaultActivityPollInterval
	}
	if config.ElapsedLimit < 0 {
		config.ElapsedLimit = 0
	}
	return config
}
