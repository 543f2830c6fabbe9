package storage

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"worktimer/internal/ui/preferences"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	InactivityTimeoutSeconds int      `yaml:"inactivity_timeout_seconds"`
	ElapsedLimitHours        *float64 `yaml:"elapsed_limit_hours"`
	AutoResumeOnActivity     *bool    `yaml:"auto_resume_on_activity"`
	PomodoroEnabled          bool     `yaml:"pomodoro_enabled"`
	ActivityDetection        *bool    `yaml:"activity_detection"`
}

// SettingsPath returns the settings file inside configDir.
func SettingsPath(configDir string) string {
	return filepath.Join(configDir, settingsFileName)
}

// LoadSettings reads user preferences from YAML.
// If the file does not exist, default settings are returned.
func LoadSettings(path string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(path string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	limitHours := math.Round(settings.ElapsedLimit.Hours()*100) / 100
	fileData := yamlSettings{
		InactivityTimeoutSeconds: int(settings.InactivityTimeout / time.Second),
		ElapsedLimitHours:        &limitHours,
		AutoResumeOnActivity:     &settings.AutoResumeOnActivity,
		PomodoroEnabled:          settings.PomodoroEnabled,
		ActivityDetection:        &settings.ActivityDetection,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.InactivityTimeoutSeconds > 0 {
		settings.InactivityTimeout = time.Duration(fileData.InactivityTimeoutSeconds) * time.Second
	}
	// zero disables the cap, so only negative values fall back to the default
	if fileData.ElapsedLimitHours != nil && *fileData.ElapsedLimitHours >= 0 {
		settings.ElapsedLimit = time.Duration(*fileData.ElapsedLimitHours * float64(time.Hour))
	}
	if fileData.AutoResumeOnActivity != nil {
		settings.AutoResumeOnActivity = *fileData.AutoResumeOnActivity
	}
	if fileData.ActivityDetection != nil {
		settings.ActivityDetection = *fileData.ActivityDetection
	}
	settings.PomodoroEnabled = fileData.PomodoroEnabled
}
