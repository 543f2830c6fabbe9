package persist

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

// ViperStore persists values in a YAML file managed by viper.
type ViperStore struct {
	mu   sync.Mutex
	path string
	v    *viper.Viper
}

// NewViperStore opens (or prepares) the YAML file at path.
func NewViperStore(path string) (*ViperStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read state file: %w", err)
		}
	}

	return &ViperStore{path: path, v: v}, nil
}

func (store *ViperStore) Get(key string) (string, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if !store.v.IsSet(key) {
		return "", false, nil
	}
	value := store.v.GetString(key)
	if value == "" {
		return "", false, nil
	}
	return value, true, nil
}

func (store *ViperStore) Set(key, value string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.v.Set(key, value)
	return store.writeLocked()
}

// Delete blanks the key; viper has no way to unset a key.
func (store *ViperStore) Delete(key string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if !store.v.IsSet(key) {
		return nil
	}
	store.v.Set(key, "")
	return store.writeLocked()
}

// Path returns the backing file.
func (store *ViperStore) Path() string {
	return store.path
}

func (store *ViperStore) writeLocked() error {
	if err := store.v.WriteConfigAs(store.path); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}
