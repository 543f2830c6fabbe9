package activity

import (
	"errors"
	"log"
	"sync"
	"time"
)

// ErrIdleUnsupported indicates idle detection is not available on this system.
var ErrIdleUnsupported = errors.New("idle detection unsupported")

// IdleChecker reports the duration of user inactivity.
type IdleChecker interface {
	IdleDuration() (time.Duration, error)
}

// Recorder receives activity signals.
type Recorder interface {
	RecordActivity()
}

// Watcher polls the OS idle time and reports recent input as activity.
type Watcher struct {
	mu       sync.Mutex
	checker  IdleChecker
	recorder Recorder
	interval time.Duration
	logger   *log.Logger
	disabled bool
	stopCh   chan struct{}
	running  bool
}

// NewWatcher creates a stopped watcher.
func NewWatcher(checker IdleChecker, recorder Recorder, interval time.Duration, logger *log.Logger) *Watcher {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Watcher{
		checker:  checker,
		recorder: recorder,
		interval: interval,
		logger:   logger,
	}
}

// Start launches the polling loop.
func (watcher *Watcher) Start() {
	watcher.mu.Lock()
	if watcher.running {
		watcher.mu.Unlock()
		return
	}
	watcher.running = true
	watcher.stopCh = make(chan struct{})
	stopCh := watcher.stopCh
	watcher.mu.Unlock()

	go watcher.run(stopCh)
}

// Stop terminates the polling loop.
func (watcher *Watcher) Stop() {
	watcher.mu.Lock()
	defer watcher.mu.Unlock()
	if !watcher.running {
		return
	}
	close(watcher.stopCh)
	watcher.running = false
}

// Disabled reports whether polling gave up because idle detection is
// unsupported.
func (watcher *Watcher) Disabled() bool {
	watcher.mu.Lock()
	defer watcher.mu.Unlock()
	return watcher.disabled
}

func (watcher *Watcher) run(stopCh chan struct{}) {
	ticker := time.NewTicker(watcher.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			watcher.Poll()
		}
	}
}

// Poll checks the idle time once. Input within the last interval counts as
// activity. It reports whether activity was recorded.
func (watcher *Watcher) Poll() bool {
	watcher.mu.Lock()
	if watcher.disabled || watcher.checker == nil || watcher.recorder == nil {
		watcher.mu.Unlock()
		return false
	}
	checker := watcher.checker
	watcher.mu.Unlock()

	idle, err := checker.IdleDuration()
	if err != nil {
		if errors.Is(err, ErrIdleUnsupported) {
			watcher.mu.Lock()
			watcher.disabled = true
			watcher.mu.Unlock()
			watcher.logger.Printf("activity: %v, automatic activity detection disabled", err)
			return false
		}
		watcher.logger.Printf("activity: %v", err)
		return false
	}
	if idle >= watcher.interval {
		return false
	}
	watcher.recorder.RecordActivity()
	return true
}
