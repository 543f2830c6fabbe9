package workitem

import (
	"errors"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

var (
	errInvalidID    = errors.New("work item id must be a positive number")
	errMissingTitle = errors.New("work item title is required")
)

// Window asks for the work item to start tracking.
type Window struct {
	window  fyne.Window
	idEntry *widget.Entry
	title   *widget.Entry
	status  *widget.Label
	onStart func(id int, title string) bool
}

// New creates the start-timer window. onStart returns false when the timer
// refused to start.
func New(app fyne.App, onStart func(id int, title string) bool) *Window {
	window := app.NewWindow("Start Timer")

	picker := &Window{
		window:  window,
		idEntry: widget.NewEntry(),
		title:   widget.NewEntry(),
		status:  widget.NewLabel(""),
		onStart: onStart,
	}
	picker.idEntry.SetPlaceHolder("1234")
	picker.title.SetPlaceHolder("Fix login redirect")

	form := container.NewVBox(
		widget.NewLabelWithStyle("Work item", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewForm(
			widget.NewFormItem("ID", picker.idEntry),
			widget.NewFormItem("Title", picker.title),
		),
		picker.status,
	)

	startButton := widget.NewButton("Start", picker.handleStart)
	cancelButton := widget.NewButton("Cancel", window.Hide)
	buttons := container.NewHBox(startButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.SetCloseIntercept(window.Hide)
	window.Resize(fyne.NewSize(380, 200))
	return picker
}

// Show displays the window with empty fields.
func (picker *Window) Show() {
	picker.idEntry.SetText("")
	picker.title.SetText("")
	picker.status.SetText("")
	picker.window.Show()
	picker.window.RequestFocus()
}

func (picker *Window) handleStart() {
	id, title, err := Parse(picker.idEntry.Text, picker.title.Text)
	if err != nil {
		picker.status.SetText(err.Error())
		return
	}
	if picker.onStart != nil && !picker.onStart(id, title) {
		picker.status.SetText("A timer is already active. Stop it first.")
		return
	}
	picker.window.Hide()
}

// Parse validates raw form input.
func Parse(rawID, rawTitle string) (int, string, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(rawID), "#"))
	if err != nil || id <= 0 {
		return 0, "", errInvalidID
	}
	title := strings.TrimSpace(rawTitle)
	if title == "" {
		return 0, "", errMissingTitle
	}
	return id, title, nil
}
