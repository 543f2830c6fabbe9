package timer

import (
	"sync"
	"time"

	"worktimer/internal/core/clock"
)

// InactivityTarget is the engine surface the monitor reads and drives.
type InactivityTarget interface {
	PauseIfInactive(now time.Time) bool
	Closed() bool
}

// InactivityMonitor periodically pauses a running timer whose last activity
// is older than the record's inactivity threshold.
type InactivityMonitor struct {
	mu     sync.Mutex
	target InactivityTarget
	clock  clock.Clock
	loop   loop
}

// NewInactivityMonitor creates a stopped monitor. A nil clock uses the
// system clock.
func NewInactivityMonitor(target InactivityTarget, interval time.Duration, source clock.Clock) *InactivityMonitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if source == nil {
		source = clock.System{}
	}
	return &InactivityMonitor{
		target: target,
		clock:  source,
		loop:   loop{interval: interval},
	}
}

// Attach replaces the monitored engine. A nil target suspends checks.
func (monitor *InactivityMonitor) Attach(target InactivityTarget) {
	monitor.mu.Lock()
	monitor.target = target
	monitor.mu.Unlock()
}

// Start launches the polling loop.
func (monitor *InactivityMonitor) Start() {
	monitor.loop.start(func(time.Time) {
		monitor.Check(monitor.clock.Now())
	})
}

// Stop terminates the polling loop.
func (monitor *InactivityMonitor) Stop() {
	monitor.loop.stop()
}

// Running reports whether the polling loop is active.
func (monitor *InactivityMonitor) Running() bool {
	return monitor.loop.isRunning()
}

// Check performs one inactivity check at now and reports whether it paused
// the timer.
func (monitor *InactivityMonitor) Check(now time.Time) bool {
	monitor.mu.Lock()
	target := monitor.target
	monitor.mu.Unlock()
	if target == nil || target.Closed() {
		return false
	}
	return target.PauseIfInactive(now)
}
