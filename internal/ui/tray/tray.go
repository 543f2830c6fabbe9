package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"worktimer/internal/ledger"
)

const menuTitle = "Work Timer"

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnStart       func()
	OnTogglePause func()
	OnStop        func()
	OnReport      func(ledger.Period)
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app        desktop.App
	statusItem *fyne.MenuItem
	startItem  *fyne.MenuItem
	pauseItem  *fyne.MenuItem
	stopItem   *fyne.MenuItem
	reportItem *fyne.MenuItem
	prefsItem  *fyne.MenuItem
	quitItem   *fyne.MenuItem
	callbacks  Callbacks
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("No timer running", nil)
	manager.statusItem.Disabled = true

	manager.startItem = fyne.NewMenuItem("Start timer...", invoke(callbacks.OnStart))
	manager.pauseItem = fyne.NewMenuItem("Pause", invoke(callbacks.OnTogglePause))
	manager.stopItem = fyne.NewMenuItem("Stop and record", invoke(callbacks.OnStop))

	reports := make([]*fyne.MenuItem, 0, len(ledger.Periods))
	for _, period := range ledger.Periods {
		period := period
		reports = append(reports, fyne.NewMenuItem(string(period), func() {
			if manager.callbacks.OnReport != nil {
				manager.callbacks.OnReport(period)
			}
		}))
	}
	manager.reportItem = fyne.NewMenuItem("Time report", nil)
	manager.reportItem.ChildMenu = fyne.NewMenu("", reports...)

	manager.prefsItem = fyne.NewMenuItem("Preferences", invoke(callbacks.OnPreferences))
	manager.quitItem = fyne.NewMenuItem("Quit", invoke(callbacks.OnQuit))
	manager.quitItem.IsQuit = true

	manager.SetIdle()
	return manager
}

// SetIdle shows the no-timer menu.
func (manager *Manager) SetIdle() {
	manager.statusItem.Label = "No timer running"
	manager.startItem.Disabled = false
	manager.pauseItem.Disabled = true
	manager.pauseItem.Label = "Pause"
	manager.stopItem.Disabled = true
	manager.refreshMenu()
}

// SetActive shows the menu for a running or paused timer.
func (manager *Manager) SetActive(workItemID int, title, elapsed string, paused bool) {
	status := fmt.Sprintf("#%d %s: %s", workItemID, title, elapsed)
	if paused {
		status += " (paused)"
		manager.pauseItem.Label = "Resume"
	} else {
		manager.pauseItem.Label = "Pause"
	}
	manager.statusItem.Label = status
	manager.startItem.Disabled = true
	manager.pauseItem.Disabled = false
	manager.stopItem.Disabled = false
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu(menuTitle,
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		manager.startItem,
		manager.pauseItem,
		manager.stopItem,
		fyne.NewMenuItemSeparator(),
		manager.reportItem,
		manager.prefsItem,
		manager.quitItem,
	))
}

func invoke(callback func()) func() {
	return func() {
		if callback != nil {
			callback()
		}
	}
}
