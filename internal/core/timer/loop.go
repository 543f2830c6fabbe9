package timer

import (
	"sync"
	"time"
)

// loop runs fn on every tick until stopped.
type loop struct {
	mu       sync.Mutex
	interval time.Duration
	stopCh   chan struct{}
	running  bool
}

func (l *loop) start(fn func(time.Time)) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return false
	}
	l.running = true
	l.stopCh = make(chan struct{})
	go l.run(l.interval, l.stopCh, fn)
	return true
}

func (l *loop) stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.running {
		return
	}
	close(l.stopCh)
	l.running = false
}

func (l *loop) isRunning() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

func (l *loop) run(interval time.Duration, stopCh chan struct{}, fn func(time.Time)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case tickTime := <-ticker.C:
			fn(tickTime)
		}
	}
}

// Ticker drives Engine.Tick about once a second for live displays and the
// pomodoro policy.
type Ticker struct {
	engine *Engine
	loop   loop
}

// NewTicker creates a stopped ticker for engine.
func NewTicker(engine *Engine, interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = time.Second
	}
	return &Ticker{engine: engine, loop: loop{interval: interval}}
}

// Start launches the ticking loop.
func (ticker *Ticker) Start() {
	ticker.loop.start(func(time.Time) {
		ticker.engine.Tick()
	})
}

// Stop terminates the ticking loop.
func (ticker *Ticker) Stop() {
	ticker.loop.stop()
}
