package timer

import (
	"log"
	"math"
	"sync"
	"time"

	"worktimer/internal/core/clock"
	"worktimer/internal/core/model"
	"worktimer/internal/ledger"
	"worktimer/internal/persist"
)

const (
	maxElapsedSeconds = 24 * 60 * 60
	maxPauseMillis    = 24 * 60 * 60 * 1000
	pomodoroMinute    = 25
	pomodoroBlock     = 30
)

// Persister stores the timer record across restarts.
type Persister interface {
	Save(state persist.TimerState) error
	Load() (persist.TimerState, bool, error)
	Clear() error
}

// Recorder receives the entry produced by a successful stop.
type Recorder interface {
	Append(workItemID int, startTime, endTime, duration int64) ledger.TimeEntry
}

// Options contains the collaborators of an Engine. Every field is optional.
type Options struct {
	Clock     clock.Clock
	Persister Persister
	Ledger    Recorder
	Logger    *log.Logger
}

// Engine is the idle/running/paused state machine tracking one work item.
type Engine struct {
	mu             sync.Mutex
	config         model.TimerConfig
	clock          clock.Clock
	persister      Persister
	ledger         Recorder
	logger         *log.Logger
	state          State
	record         Record
	lastBreakBlock int
	events         []chan Event
	closed         bool

	// persistSeq numbers writes under mu; persistMu orders their delivery.
	persistSeq uint64
	persistMu  sync.Mutex
	appliedSeq uint64
}

// persistOp is a write computed under the lock and issued after it. seq
// orders it against writes from other goroutines.
type persistOp struct {
	seq   uint64
	clear bool
	state persist.TimerState
}

// New creates an idle Engine.
func New(config model.TimerConfig, options Options) *Engine {
	if options.Clock == nil {
		options.Clock = clock.System{}
	}
	if options.Logger == nil {
		options.Logger = log.Default()
	}

	engine := &Engine{
		config:    config.Normalized(),
		clock:     options.Clock,
		persister: options.Persister,
		ledger:    options.Ledger,
		logger:    options.Logger,
		state:     StateIdle,
	}
	engine.resetRecordLocked(clock.Millis(engine.clock))
	return engine
}

// Subscribe registers a new observer channel.
func (engine *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	engine.mu.Lock()
	if engine.closed {
		engine.mu.Unlock()
		close(ch)
		return ch
	}
	engine.events = append(engine.events, ch)
	engine.mu.Unlock()
	return ch
}

// Close destroys the engine. Later operations are no-ops and observer
// channels are closed.
func (engine *Engine) Close() {
	engine.mu.Lock()
	if engine.closed {
		engine.mu.Unlock()
		return
	}
	engine.closed = true
	events := engine.events
	engine.events = nil
	engine.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// Closed reports whether Close was called.
func (engine *Engine) Closed() bool {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.closed
}

// UpdateConfig applies new settings to the engine and the live record.
func (engine *Engine) UpdateConfig(config model.TimerConfig) {
	engine.mu.Lock()
	engine.config = config.Normalized()
	engine.record.InactivityTimeoutSec = int(engine.config.InactivityTimeout / time.Second)
	engine.record.PomodoroEnabled = engine.config.PomodoroEnabled
	engine.mu.Unlock()
}

// Config returns the active settings.
func (engine *Engine) Config() model.TimerConfig {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.config
}

// SetElapsedLimit changes the stop cap. Negative values are ignored.
func (engine *Engine) SetElapsedLimit(limit time.Duration) bool {
	if limit < 0 {
		return false
	}
	engine.mu.Lock()
	engine.config.ElapsedLimit = limit
	engine.mu.Unlock()
	engine.logger.Printf("timer: elapsed limit set to %.2f hours", limit.Hours())
	return true
}

// Start begins tracking workItemID. It fails when a timer is already active.
func (engine *Engine) Start(workItemID int, workItemTitle string) bool {
	if workItemID <= 0 || workItemTitle == "" {
		engine.logger.Printf("timer: start rejected: invalid work item #%d %q", workItemID, workItemTitle)
		return false
	}

	engine.mu.Lock()
	if engine.closed {
		engine.mu.Unlock()
		return false
	}
	if engine.state != StateIdle {
		active := engine.record.WorkItemID
		engine.mu.Unlock()
		engine.logger.Printf("timer: already running for #%d, stop it first", active)
		return false
	}

	now := clock.Millis(engine.clock)
	engine.state = StateRunning
	engine.record.WorkItemID = workItemID
	engine.record.WorkItemTitle = workItemTitle
	engine.record.StartTime = now
	engine.record.PausedAt = 0
	engine.record.IsPaused = false
	engine.record.PausedByInactivity = false
	engine.record.LastActivity = now
	engine.record.PomodoroCount = 0
	engine.lastBreakBlock = -1
	op := engine.saveOpLocked()
	engine.emitStateLocked(EventStateChange, "")
	engine.mu.Unlock()

	engine.apply(op)
	engine.logger.Printf("timer: started for #%d: %s", workItemID, workItemTitle)
	return true
}

// Restore adopts a persisted record verbatim. startTime is not recomputed.
func (engine *Engine) Restore(workItemID int, workItemTitle string, startTime int64, isPaused bool) bool {
	if workItemID <= 0 || startTime <= 0 {
		engine.logger.Printf("timer: restore rejected: invalid record #%d", workItemID)
		return false
	}

	engine.mu.Lock()
	if engine.closed || engine.state != StateIdle {
		engine.mu.Unlock()
		engine.logger.Printf("timer: restore ignored, timer not idle")
		return false
	}

	now := clock.Millis(engine.clock)
	engine.record.WorkItemID = workItemID
	engine.record.WorkItemTitle = workItemTitle
	engine.record.StartTime = startTime
	engine.record.IsPaused = isPaused
	engine.record.PausedByInactivity = false
	engine.record.LastActivity = now
	engine.record.PomodoroCount = 0
	engine.lastBreakBlock = -1
	if isPaused {
		engine.state = StatePaused
		engine.record.PausedAt = now
	} else {
		engine.state = StateRunning
		engine.record.PausedAt = 0
	}
	op := engine.saveOpLocked()
	engine.emitStateLocked(EventStateChange, "restored")
	engine.mu.Unlock()

	engine.apply(op)
	engine.logger.Printf("timer: restored for #%d: %s", workItemID, workItemTitle)
	return true
}

// RestoreSaved loads the persisted record and restores it. Missing, invalid
// or unreadable data leaves the engine idle.
func (engine *Engine) RestoreSaved() bool {
	if engine.persister == nil {
		return false
	}
	saved, ok, err := engine.persister.Load()
	if err != nil {
		engine.logger.Printf("timer: %v", err)
		return false
	}
	if !ok || saved.State == string(StateIdle) {
		return false
	}
	return engine.Restore(saved.WorkItemID, saved.WorkItemTitle, saved.StartTime, saved.IsPaused)
}

// Pause freezes a running timer on user request.
func (engine *Engine) Pause() bool {
	return engine.pause(true)
}

// InactivityTimeout pauses a running timer on behalf of the inactivity
// monitor. Activity will resume it when auto-resume is enabled.
func (engine *Engine) InactivityTimeout() bool {
	return engine.pause(false)
}

// PauseIfInactive pauses a running timer whose last activity is at least the
// inactivity threshold older than now. The check and the pause happen under
// one lock, so activity recorded after now keeps the timer running.
func (engine *Engine) PauseIfInactive(now time.Time) bool {
	engine.mu.Lock()
	if engine.closed || engine.state != StateRunning || engine.record.InactivityTimeoutSec <= 0 {
		engine.mu.Unlock()
		return false
	}
	if now.UnixMilli()-engine.record.LastActivity < int64(engine.record.InactivityTimeoutSec)*1000 {
		engine.mu.Unlock()
		return false
	}
	op, timeoutSec := engine.pauseLocked(false)
	engine.mu.Unlock()

	engine.apply(op)
	engine.logger.Printf("timer: paused after %d seconds of inactivity", timeoutSec)
	return true
}

func (engine *Engine) pause(manual bool) bool {
	engine.mu.Lock()
	if engine.closed || engine.state != StateRunning {
		engine.mu.Unlock()
		if manual {
			engine.logger.Printf("timer: no running timer to pause")
		}
		return false
	}
	op, timeoutSec := engine.pauseLocked(manual)
	engine.mu.Unlock()

	engine.apply(op)
	if manual {
		engine.logger.Printf("timer: paused")
	} else {
		engine.logger.Printf("timer: paused after %d seconds of inactivity", timeoutSec)
	}
	return true
}

func (engine *Engine) pauseLocked(manual bool) (persistOp, int) {
	engine.state = StatePaused
	engine.record.PausedAt = clock.Millis(engine.clock)
	engine.record.IsPaused = true
	engine.record.PausedByInactivity = !manual
	op := engine.saveOpLocked()
	if manual {
		engine.emitStateLocked(EventStateChange, "")
	} else {
		engine.emitStateLocked(EventInactivityPause, "paused after inactivity")
	}
	return op, engine.record.InactivityTimeoutSec
}

// Resume continues a paused timer, excluding the pause from elapsed time.
func (engine *Engine) Resume() bool {
	engine.mu.Lock()
	if engine.closed || engine.state != StatePaused {
		engine.mu.Unlock()
		engine.logger.Printf("timer: no paused timer to resume")
		return false
	}
	engine.resumeLocked(clock.Millis(engine.clock))
	op := engine.saveOpLocked()
	engine.emitStateLocked(EventStateChange, "")
	engine.mu.Unlock()

	engine.apply(op)
	engine.logger.Printf("timer: resumed")
	return true
}

// RecordActivity marks user activity. A timer paused by inactivity resumes
// when auto-resume is enabled; a manually paused timer stays paused.
func (engine *Engine) RecordActivity() {
	engine.mu.Lock()
	if engine.closed {
		engine.mu.Unlock()
		return
	}

	now := clock.Millis(engine.clock)
	resumed := false
	switch engine.state {
	case StateIdle:
		engine.record.LastActivity = now
		engine.mu.Unlock()
		return
	case StatePaused:
		if engine.record.PausedByInactivity && engine.config.AutoResumeOnActivity {
			engine.resumeLocked(now)
			resumed = true
		} else {
			engine.record.LastActivity = now
		}
	case StateRunning:
		engine.record.LastActivity = now
	}
	op := engine.saveOpLocked()
	if resumed {
		engine.emitStateLocked(EventActivityResume, "resumed on activity")
	}
	engine.mu.Unlock()

	engine.apply(op)
	if resumed {
		engine.logger.Printf("timer: resumed due to activity")
	}
}

// Stop ends the session, appends a ledger entry and returns the result.
// It returns nil when the engine is idle.
func (engine *Engine) Stop() *StopResult {
	engine.mu.Lock()
	if engine.closed || engine.state == StateIdle {
		engine.mu.Unlock()
		engine.logger.Printf("timer: no timer running")
		return nil
	}

	now := clock.Millis(engine.clock)
	elapsed := engine.elapsedSecondsLocked(now)
	used := elapsed
	limit := engine.config.ElapsedLimit
	limitSec := int64(limit / time.Second)
	capApplied := false
	if limitSec > 0 && elapsed > limitSec {
		used = limitSec
		capApplied = true
	}

	result := &StopResult{
		WorkItemID:    engine.record.WorkItemID,
		StartTime:     engine.record.StartTime,
		EndTime:       engine.record.StartTime + used*1000,
		Duration:      used,
		HoursDecimal:  roundHours(used),
		CapApplied:    capApplied,
		CapLimitHours: limit.Hours(),
	}

	engine.state = StateIdle
	engine.resetRecordLocked(now)
	op := engine.clearOpLocked()
	engine.emitLocked(Event{
		Type:   EventStopped,
		State:  StateIdle,
		Result: result,
		At:     time.UnixMilli(now),
	})
	engine.emitStateLocked(EventStateChange, "")
	engine.mu.Unlock()

	if engine.ledger != nil {
		engine.ledger.Append(result.WorkItemID, result.StartTime, result.EndTime, result.Duration)
	}
	engine.apply(op)

	if capApplied {
		engine.logger.Printf("timer: stopped, elapsed time exceeded cap; recorded %.2f hours (cap: %.2fh)", result.HoursDecimal, limit.Hours())
	} else {
		engine.logger.Printf("timer: stopped, total time %.2f hours", result.HoursDecimal)
	}
	return result
}

// Tick refreshes observers with the live elapsed time and runs the
// pomodoro break policy. It never changes the tracking state.
func (engine *Engine) Tick() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.closed || engine.state != StateRunning {
		return
	}

	now := clock.Millis(engine.clock)
	if engine.record.PomodoroEnabled {
		minutes := engine.elapsedSecondsLocked(now) / 60
		block := int(minutes / pomodoroBlock)
		if minutes >= pomodoroMinute && minutes%pomodoroBlock >= pomodoroMinute && block > engine.lastBreakBlock {
			engine.lastBreakBlock = block
			engine.record.PomodoroCount++
			engine.emitStateLocked(EventPomodoroBreak, "time for a break")
		}
	}
	engine.emitStateLocked(EventProgress, "")
}

// Snapshot returns a copy of the live record. ok is false while idle.
func (engine *Engine) Snapshot() (Record, bool) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.state == StateIdle {
		return Record{}, false
	}
	return engine.record, true
}

// State returns the current mode.
func (engine *Engine) State() State {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	return engine.state
}

// Elapsed returns the active elapsed time, derived from the anchor.
func (engine *Engine) Elapsed() time.Duration {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.state == StateIdle {
		return 0
	}
	return time.Duration(engine.elapsedSecondsLocked(clock.Millis(engine.clock))) * time.Second
}

func (engine *Engine) resumeLocked(now int64) {
	pause := now - engine.record.PausedAt
	if engine.record.PausedAt <= 0 || pause < 0 {
		pause = 0
	}
	if pause > maxPauseMillis {
		pause = maxPauseMillis
	}
	engine.state = StateRunning
	engine.record.StartTime += pause
	engine.record.PausedAt = 0
	engine.record.IsPaused = false
	engine.record.PausedByInactivity = false
	engine.record.LastActivity = now
}

func (engine *Engine) elapsedSecondsLocked(now int64) int64 {
	end := now
	if engine.state == StatePaused && engine.record.PausedAt > 0 {
		end = engine.record.PausedAt
	}
	return ClampElapsed((end - engine.record.StartTime) / 1000)
}

func (engine *Engine) resetRecordLocked(now int64) {
	engine.record = Record{
		LastActivity:         now,
		InactivityTimeoutSec: int(engine.config.InactivityTimeout / time.Second),
		PomodoroEnabled:      engine.config.PomodoroEnabled,
	}
	engine.lastBreakBlock = -1
}

func (engine *Engine) saveOpLocked() persistOp {
	engine.persistSeq++
	return persistOp{seq: engine.persistSeq, state: persist.TimerState{
		WorkItemID:    engine.record.WorkItemID,
		WorkItemTitle: engine.record.WorkItemTitle,
		StartTime:     engine.record.StartTime,
		IsPaused:      engine.record.IsPaused,
		State:         string(engine.state),
		LastActivity:  engine.record.LastActivity,
	}}
}

func (engine *Engine) clearOpLocked() persistOp {
	engine.persistSeq++
	return persistOp{seq: engine.persistSeq, clear: true}
}

// apply issues op unless a newer write already reached the persister.
func (engine *Engine) apply(op persistOp) {
	if engine.persister == nil {
		return
	}
	engine.persistMu.Lock()
	defer engine.persistMu.Unlock()
	if op.seq <= engine.appliedSeq {
		return
	}
	engine.appliedSeq = op.seq

	var err error
	if op.clear {
		err = engine.persister.Clear()
	} else {
		err = engine.persister.Save(op.state)
	}
	if err != nil {
		engine.logger.Printf("timer: persist: %v", err)
	}
}

func (engine *Engine) emitStateLocked(eventType EventType, message string) {
	now := clock.Millis(engine.clock)
	event := Event{
		Type:    eventType,
		State:   engine.state,
		Message: message,
		At:      time.UnixMilli(now),
	}
	if engine.state != StateIdle {
		event.Record = engine.record
		event.Elapsed = time.Duration(engine.elapsedSecondsLocked(now)) * time.Second
	}
	engine.emitLocked(event)
}

func (engine *Engine) emitLocked(event Event) {
	for _, ch := range engine.events {
		select {
		case ch <- event:
		default:
		}
	}
}

// ClampElapsed bounds elapsed seconds to [0, 86400].
func ClampElapsed(seconds int64) int64 {
	if seconds < 0 {
		return 0
	}
	if seconds > maxElapsedSeconds {
		return maxElapsedSeconds
	}
	return seconds
}

func roundHours(seconds int64) float64 {
	return math.Round(float64(seconds)/3600*100) / 100
}
