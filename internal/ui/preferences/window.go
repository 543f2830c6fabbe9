package preferences

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window       fyne.Window
	settings     Settings
	onSave       func(Settings)
	inactivity   *widget.Entry
	elapsedLimit *widget.Entry
	autoResume   *widget.Check
	pomodoro     *widget.Check
	detection    *widget.Check
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("Work Timer Settings")

	prefs := &Window{
		window:       window,
		onSave:       onSave,
		inactivity:   widget.NewEntry(),
		elapsedLimit: widget.NewEntry(),
		autoResume:   widget.NewCheck("Resume automatically when activity returns", nil),
		pomodoro:     widget.NewCheck("Remind me to take a break every 25 minutes", nil),
		detection:    widget.NewCheck("Detect keyboard and mouse activity", nil),
	}
	prefs.UpdateSettings(settings)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Tracking", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Pause after inactivity of"), prefs.inactivity, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Cap recorded time at"), prefs.elapsedLimit, widget.NewLabel("hours (0 = no cap)")),
		prefs.autoResume,
		prefs.detection,
		prefs.pomodoro,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.SetCloseIntercept(window.Hide)
	window.Resize(fyne.NewSize(440, 260))
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.inactivity.SetText(fmt.Sprintf("%d", int(settings.InactivityTimeout.Minutes())))
	prefs.elapsedLimit.SetText(strconv.FormatFloat(settings.ElapsedLimit.Hours(), 'f', -1, 64))
	prefs.autoResume.SetChecked(settings.AutoResumeOnActivity)
	prefs.pomodoro.SetChecked(settings.PomodoroEnabled)
	prefs.detection.SetChecked(settings.ActivityDetection)
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	if minutes, ok := parsePositiveInt(prefs.inactivity.Text); ok {
		settings.InactivityTimeout = time.Duration(minutes) * time.Minute
	}
	if hours, ok := parseNonNegativeFloat(prefs.elapsedLimit.Text); ok {
		settings.ElapsedLimit = time.Duration(hours * float64(time.Hour))
	}
	settings.AutoResumeOnActivity = prefs.autoResume.Checked
	settings.PomodoroEnabled = prefs.pomodoro.Checked
	settings.ActivityDetection = prefs.detection.Checked

	prefs.UpdateSettings(settings)
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}

func parseNonNegativeFloat(value string) (float64, bool) {
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || parsed < 0 {
		return 0, false
	}
	return parsed, true
}
