package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"worktimer/internal/core/activity"
	"worktimer/internal/core/timer"
	"worktimer/internal/ledger"
	"worktimer/internal/persist"
	"worktimer/internal/platform"
	"worktimer/internal/report"
	"worktimer/internal/storage"
	"worktimer/internal/ui/preferences"
	"worktimer/internal/ui/tray"
	"worktimer/internal/ui/workitem"
)

const appName = "worktimer"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	reportPeriod := flag.String("report", "", "print a time report (Today, This Week, This Month, All Time) and exit")
	pdfPath := flag.String("pdf", "", "with -report, also write the report to this PDF file")
	dataDirFlag := flag.String("data", os.Getenv("WORKTIMER_DATA_DIR"), "directory for the ledger and timer state")
	flag.Parse()

	configDir, err := platform.ConfigDir(appName)
	if err != nil {
		log.Fatalf("config dir: %v", err)
	}
	dataDir, err := platform.DataDir(appName, *dataDirFlag)
	if err != nil {
		log.Fatalf("data dir: %v", err)
	}

	book, closeLedger := openLedger(dataDir)
	defer closeLedger()

	if *reportPeriod != "" {
		if err := printReport(book, *reportPeriod, *pdfPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			closeLedger()
			os.Exit(1)
		}
		return
	}

	lock, err := platform.AcquireInstanceLock(appName)
	if err != nil {
		log.Printf("single instance: %v", err)
		return
	}
	defer func() {
		_ = lock.Release()
	}()

	runTray(configDir, dataDir, book)
}

func openLedger(dataDir string) (*ledger.Ledger, func()) {
	options := ledger.Options{}
	closeStore := func() {}

	sqliteStore, err := ledger.OpenSQLiteStore(filepath.Join(dataDir, "ledger.db"))
	if err != nil {
		log.Printf("ledger store: %v, keeping entries in memory only", err)
	} else {
		options.Store = sqliteStore
		closeStore = func() {
			_ = sqliteStore.Close()
		}
	}

	book := ledger.New(options)
	if err := book.Load(); err != nil {
		log.Printf("ledger: %v", err)
	}
	return book, closeStore
}

func printReport(book *ledger.Ledger, rawPeriod, pdfPath string) error {
	period, err := ledger.ParsePeriod(rawPeriod)
	if err != nil {
		return err
	}
	rep := book.Report(period)
	fmt.Print(report.RenderText(rep, time.Local, nil))

	if pdfPath != "" {
		if err := report.WritePDF(pdfPath, rep, time.Local); err != nil {
			return err
		}
		fmt.Printf("PDF written to %s\n", pdfPath)
	}
	return nil
}

func openStateStore(dataDir string) persist.Store {
	store, err := persist.NewViperStore(filepath.Join(dataDir, "state.yaml"))
	if err != nil {
		log.Printf("timer state store: %v, state will not survive restarts", err)
		return persist.NewMemoryStore()
	}
	return store
}

func runTray(configDir, dataDir string, book *ledger.Ledger) {
	settingsPath := storage.SettingsPath(configDir)
	settings, err := storage.LoadSettings(settingsPath)
	if err != nil {
		log.Printf("settings: %v", err)
	}

	config := settings.TimerConfig()
	engine := timer.New(config, timer.Options{
		Persister: persist.NewGateway(openStateStore(dataDir)),
		Ledger:    book,
	})
	events := engine.Subscribe(16)
	engine.RestoreSaved()

	ticker := timer.NewTicker(engine, config.TickInterval)
	monitor := timer.NewInactivityMonitor(engine, config.InactivityCheckInterval, nil)
	watcher := activity.NewWatcher(platform.NewIdleProvider(), engine, config.ActivityPollInterval, nil)
	ticker.Start()
	monitor.Start()
	if config.ActivityDetection {
		watcher.Start()
	}

	fyneApp := app.NewWithID("com.worktimer.app")
	fyneApp.SetIcon(theme.HistoryIcon())
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		log.Printf("system tray unsupported on this platform")
		return
	}

	trayWindow := fyneApp.NewWindow("Work Timer")
	trayWindow.SetContent(widget.NewLabel("Work Timer is running in the system tray."))
	trayWindow.SetCloseIntercept(func() {
		trayWindow.Hide()
	})
	trayWindow.Hide()
	desktopApp.SetSystemTrayWindow(trayWindow)

	startWindow := workitem.New(fyneApp, func(id int, title string) bool {
		if !engine.Start(id, title) {
			return false
		}
		engine.RecordActivity()
		return true
	})

	prefsWindow := preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		settings = updated
		engine.UpdateConfig(settings.TimerConfig())
		if settings.ActivityDetection {
			watcher.Start()
		} else {
			watcher.Stop()
		}
		if err := storage.SaveSettings(settingsPath, settings); err != nil {
			log.Printf("settings: %v", err)
		}
	})

	trayManager := tray.New(desktopApp, tray.Callbacks{
		OnStart: startWindow.Show,
		OnTogglePause: func() {
			if engine.State() == timer.StatePaused {
				engine.Resume()
			} else {
				engine.Pause()
			}
		},
		OnStop: func() {
			engine.Stop()
		},
		OnReport: func(period ledger.Period) {
			showReport(fyneApp, book.Report(period))
		},
		OnPreferences: prefsWindow.Show,
		OnQuit: func() {
			watcher.Stop()
			monitor.Stop()
			ticker.Stop()
			engine.Close()
			fyneApp.Quit()
		},
	})

	activeIcon := theme.MediaPlayIcon()
	pausedIcon := theme.MediaPauseIcon()
	idleIcon := theme.HistoryIcon()
	desktopApp.SetSystemTrayIcon(idleIcon)
	if record, active := engine.Snapshot(); active {
		trayManager.SetActive(record.WorkItemID, record.WorkItemTitle, timer.FormatElapsed(int64(engine.Elapsed().Seconds())), record.IsPaused)
	}

	go func() {
		for event := range events {
			event := event
			fyne.Do(func() {
				handleEvent(fyneApp, desktopApp, trayManager, event, activeIcon, pausedIcon, idleIcon)
			})
		}
	}()

	fyneApp.Run()
}

func handleEvent(fyneApp fyne.App, desktopApp desktop.App, trayManager *tray.Manager, event timer.Event, activeIcon, pausedIcon, idleIcon fyne.Resource) {
	switch event.State {
	case timer.StateIdle:
		desktopApp.SetSystemTrayIcon(idleIcon)
		trayManager.SetIdle()
	case timer.StateRunning:
		desktopApp.SetSystemTrayIcon(activeIcon)
		trayManager.SetActive(event.Record.WorkItemID, event.Record.WorkItemTitle, timer.FormatElapsed(int64(event.Elapsed.Seconds())), false)
	case timer.StatePaused:
		desktopApp.SetSystemTrayIcon(pausedIcon)
		trayManager.SetActive(event.Record.WorkItemID, event.Record.WorkItemTitle, timer.FormatElapsed(int64(event.Elapsed.Seconds())), true)
	}

	switch event.Type {
	case timer.EventInactivityPause:
		fyneApp.SendNotification(fyne.NewNotification("Timer paused",
			fmt.Sprintf("Paused after %d minutes without activity.", event.Record.InactivityTimeoutSec/60)))
	case timer.EventPomodoroBreak:
		fyneApp.SendNotification(fyne.NewNotification("Time for a break",
			fmt.Sprintf("You have been working on #%d for %s.", event.Record.WorkItemID, timer.FormatElapsed(int64(event.Elapsed.Seconds())))))
	case timer.EventStopped:
		if event.Result == nil {
			return
		}
		message := fmt.Sprintf("Recorded %.2f hours on #%d.", event.Result.HoursDecimal, event.Result.WorkItemID)
		if event.Result.CapApplied {
			message = fmt.Sprintf("Recorded %.2f hours on #%d (capped at %.2fh).", event.Result.HoursDecimal, event.Result.WorkItemID, event.Result.CapLimitHours)
		}
		fyneApp.SendNotification(fyne.NewNotification("Timer stopped", message))
	}
}

func showReport(fyneApp fyne.App, rep ledger.Report) {
	text := report.RenderText(rep, time.Local, lipgloss.NewRenderer(io.Discard))
	label := widget.NewLabelWithStyle(text, fyne.TextAlignLeading, fyne.TextStyle{Monospace: true})

	window := fyneApp.NewWindow("Time report: " + string(rep.Period))
	window.SetContent(container.NewVScroll(label))
	window.Resize(fyne.NewSize(520, 360))
	window.Show()
}
