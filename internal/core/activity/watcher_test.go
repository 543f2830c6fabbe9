package activity

import (
	"bytes"
	"errors"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubChecker struct {
	mu    sync.Mutex
	idle  time.Duration
	err   error
	calls int
}

func (checker *stubChecker) IdleDuration() (time.Duration, error) {
	checker.mu.Lock()
	defer checker.mu.Unlock()
	checker.calls++
	return checker.idle, checker.err
}

type countingRecorder struct {
	mu    sync.Mutex
	count int
}

func (recorder *countingRecorder) RecordActivity() {
	recorder.mu.Lock()
	recorder.count++
	recorder.mu.Unlock()
}

func (recorder *countingRecorder) Count() int {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	return recorder.count
}

func quietLogger(buffer *bytes.Buffer) *log.Logger {
	return log.New(buffer, "", 0)
}

func TestPollRecordsRecentInput(t *testing.T) {
	checker := &stubChecker{idle: time.Second}
	recorder := &countingRecorder{}
	watcher := NewWatcher(checker, recorder, 5*time.Second, quietLogger(&bytes.Buffer{}))

	assert.True(t, watcher.Poll())
	assert.Equal(t, 1, recorder.Count())

	checker.idle = 5 * time.Second
	assert.False(t, watcher.Poll())
	assert.Equal(t, 1, recorder.Count())
}

func TestPollDisablesOnUnsupported(t *testing.T) {
	checker := &stubChecker{err: ErrIdleUnsupported}
	recorder := &countingRecorder{}
	logs := &bytes.Buffer{}
	watcher := NewWatcher(checker, recorder, time.Second, quietLogger(logs))

	assert.False(t, watcher.Poll())
	assert.True(t, watcher.Disabled())
	assert.Contains(t, logs.String(), "detection disabled")

	checker.err = nil
	assert.False(t, watcher.Poll())
	assert.Equal(t, 1, checker.calls)
	assert.Zero(t, recorder.Count())
}

func TestPollLogsTransientErrors(t *testing.T) {
	checker := &stubChecker{err: errors.New("xprintidle: exit status 1")}
	logs := &bytes.Buffer{}
	watcher := NewWatcher(checker, &countingRecorder{}, time.Second, quietLogger(logs))

	assert.False(t, watcher.Poll())
	assert.False(t, watcher.Disabled())
	assert.Contains(t, logs.String(), "exit status 1")
}

func TestPollWithoutCollaborators(t *testing.T) {
	assert.False(t, NewWatcher(nil, &countingRecorder{}, 0, nil).Poll())
	assert.False(t, NewWatcher(&stubChecker{}, nil, 0, nil).Poll())
}

func TestWatcherLoopRecordsActivity(t *testing.T) {
	recorder := &countingRecorder{}
	watcher := NewWatcher(&stubChecker{}, recorder, 5*time.Millisecond, quietLogger(&bytes.Buffer{}))

	watcher.Start()
	watcher.Start()
	defer watcher.Stop()

	assert.Eventually(t, func() bool {
		return recorder.Count() > 0
	}, time.Second, 5*time.Millisecond)

	watcher.Stop()
	watcher.Stop()
}
