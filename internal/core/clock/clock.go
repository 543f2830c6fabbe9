package clock

import (
	"sync"
	"time"
)

// Clock is the source of "now" for the timer components.
type Clock interface {
	Now() time.Time
}

// System reads the wall clock.
type System struct{}

// Now returns time.Now.
func (System) Now() time.Time {
	return time.Now()
}

// Millis returns the epoch-millisecond reading of clock.
func Millis(clock Clock) int64 {
	return clock.Now().UnixMilli()
}

// Fake is a manually driven clock for tests.
type Fake struct {
	mu  sync.Mutex
	now time.Time
}

// NewFake returns a Fake set to start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the current fake time.
func (fake *Fake) Now() time.Time {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return fake.now
}

// Advance moves the fake time forward by delta.
func (fake *Fake) Advance(delta time.Duration) {
	fake.mu.Lock()
	fake.now = fake.now.Add(delta)
	fake.mu.Unlock()
}

// Set jumps the fake time to value.
func (fake *Fake) Set(value time.Time) {
	fake.mu.Lock()
	fake.now = value
	fake.mu.Unlock()
}
