package ledger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "ledger.db")

	store, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	book := New(Options{Store: store})
	entry := book.Append(42, 1000, 61000, 60)
	require.NoError(t, store.Close())

	reopened, err := OpenSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	entries, err := reopened.LoadEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry, entries[0])
}

func TestSQLiteStoreIgnoresDuplicateIDs(t *testing.T) {
	store, err := OpenSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	entry := TimeEntry{ID: "fixed", WorkItemID: 1, StartTime: 10, EndTime: 20, Duration: 0}
	require.NoError(t, store.SaveEntry(entry))
	entry.Duration = 99
	require.NoError(t, store.SaveEntry(entry))

	entries, err := store.LoadEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(0), entries[0].Duration)
}

func TestSQLiteStoreEmpty(t *testing.T) {
	store, err := OpenSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	entries, err := store.LoadEntries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}
