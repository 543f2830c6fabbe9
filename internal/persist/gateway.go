package persist

import (
	"encoding/json"
	"fmt"
	"sync"
)

// StateKey is the store key holding the serialized timer record.
const StateKey = "timer.state"

// Store is a durable key-value store for string values.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// TimerState is the persisted timer record.
type TimerState struct {
	WorkItemID    int    `json:"workItemId"`
	WorkItemTitle string `json:"workItemTitle"`
	StartTime     int64  `json:"startTime"`
	IsPaused      bool   `json:"isPaused"`
	State         string `json:"state"`
	LastActivity  int64  `json:"lastActivity"`
}

// Gateway loads, saves and clears the single timer record.
type Gateway struct {
	mu    sync.Mutex
	store Store
	key   string
}

// NewGateway wraps store.
func NewGateway(store Store) *Gateway {
	return &Gateway{store: store, key: StateKey}
}

// Save overwrites the stored record.
func (gateway *Gateway) Save(state TimerState) error {
	serialized, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal timer state: %w", err)
	}

	gateway.mu.Lock()
	defer gateway.mu.Unlock()
	if err := gateway.store.Set(gateway.key, string(serialized)); err != nil {
		return fmt.Errorf("save timer state: %w", err)
	}
	return nil
}

// Load returns the stored record. Missing, undecodable or badly shaped data
// yields ok == false with a nil error; err is set only when the store fails.
func (gateway *Gateway) Load() (TimerState, bool, error) {
	gateway.mu.Lock()
	raw, found, err := gateway.store.Get(gateway.key)
	gateway.mu.Unlock()
	if err != nil {
		return TimerState{}, false, fmt.Errorf("load timer state: %w", err)
	}
	if !found || raw == "" {
		return TimerState{}, false, nil
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return TimerState{}, false, nil
	}
	if !IsValidTimerState(fields) {
		return TimerState{}, false, nil
	}

	var state TimerState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return TimerState{}, false, nil
	}
	return state, true, nil
}

// Clear removes the stored record.
func (gateway *Gateway) Clear() error {
	gateway.mu.Lock()
	defer gateway.mu.Unlock()
	if err := gateway.store.Delete(gateway.key); err != nil {
		return fmt.Errorf("clear timer state: %w", err)
	}
	return nil
}

// IsValidTimerState reports whether fields carries every required key with
// the expected JSON type.
func IsValidTimerState(fields map[string]any) bool {
	if fields == nil {
		return false
	}
	if !isNumber(fields["workItemId"]) || !isNumber(fields["startTime"]) {
		return false
	}
	if _, ok := fields["workItemTitle"].(string); !ok {
		return false
	}
	if _, ok := fields["isPaused"].(bool); !ok {
		return false
	}
	if _, ok := fields["state"].(string); !ok {
		return false
	}
	return true
}

func isNumber(value any) bool {
	switch value.(type) {
	case float64, float32, int, int64, int32, json.Number:
		return true
	}
	return false
}
