package preferences

import (
	"time"

	"worktimer/internal/core/model"
)

// Settings defines editable user preferences.
type Settings struct {
	InactivityTimeout    time.Duration
	ElapsedLimit         time.Duration
	AutoResumeOnActivity bool
	PomodoroEnabled      bool
	ActivityDetection    bool
}

// DefaultSettings returns default settings for worktimer.
func DefaultSettings() Settings {
	return Settings{
		InactivityTimeout:    model.DefaultInactivityTimeout,
		ElapsedLimit:         model.DefaultElapsedLimit,
		AutoResumeOnActivity: true,
		PomodoroEnabled:      false,
		ActivityDetection:    true,
	}
}

// TimerConfig converts settings to the engine configuration.
func (settings Settings) TimerConfig() model.TimerConfig {
	config := model.DefaultTimerConfig()
	config.InactivityTimeout = settings.InactivityTimeout
	config.ElapsedLimit = settings.ElapsedLimit
	config.AutoResumeOnActivity = settings.AutoResumeOnActivity
	config.PomodoroEnabled = settings.PomodoroEnabled
	config.ActivityDetection = settings.ActivityDetection
	return config.Normalized()
}
