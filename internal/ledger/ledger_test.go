package ledger

import (
	"bytes"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worktimer/internal/core/clock"
)

// Thursday.
var reportNow = time.Date(2024, time.March, 14, 15, 0, 0, 0, time.UTC)

type failingStore struct{}

func (failingStore) SaveEntry(TimeEntry) error { return errors.New("disk full") }
func (failingStore) LoadEntries() ([]TimeEntry, error) { return nil, errors.New("corrupt") }

func millis(t time.Time) int64 {
	return t.UnixMilli()
}

func newTestLedger(t *testing.T) *Ledger {
	t.Helper()
	return New(Options{Clock: clock.NewFake(reportNow), Logger: log.New(&bytes.Buffer{}, "", 0)})
}

func TestAppendAssignsIDsAndKeepsOrder(t *testing.T) {
	book := newTestLedger(t)
	first := book.Append(7, 1000, 61000, 60)
	second := book.Append(8, 2000, 3000, 1)

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 2, book.Len())

	entries := book.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, first, entries[0])
	assert.Equal(t, second, entries[1])

	entries[0].Duration = 999
	assert.Equal(t, int64(60), book.Entries()[0].Duration, "Entries returns a copy")
}

func TestAppendLogsStoreFailure(t *testing.T) {
	logs := &bytes.Buffer{}
	book := New(Options{Store: failingStore{}, Logger: log.New(logs, "", 0)})

	entry := book.Append(3, 1, 2, 1)
	assert.Equal(t, 3, entry.WorkItemID)
	assert.Equal(t, 1, book.Len())
	assert.Contains(t, logs.String(), "disk full")

	assert.ErrorContains(t, book.Load(), "corrupt")
}

func TestReportBucketsByWorkItem(t *testing.T) {
	book := newTestLedger(t)
	today := time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC)
	book.Append(1, millis(today), millis(today.Add(time.Hour)), 3600)
	book.Append(2, millis(today.Add(2*time.Hour)), millis(today.Add(150*time.Minute)), 1800)
	book.Append(1, millis(today.Add(3*time.Hour)), millis(today.Add(210*time.Minute)), 1800)

	report := book.Report(PeriodToday)
	require.Len(t, report.Buckets, 2)
	assert.Equal(t, int64(5400), report.Buckets[1].TotalSeconds)
	assert.Len(t, report.Buckets[1].Entries, 2)
	assert.Equal(t, int64(1800), report.Buckets[2].TotalSeconds)
	assert.Equal(t, int64(7200), report.TotalSeconds())

	sorted := report.Sorted()
	require.Len(t, sorted, 2)
	assert.Equal(t, 1, sorted[0].WorkItemID)
	assert.Equal(t, 2, sorted[1].WorkItemID)
}

func TestReportFiltersByPeriod(t *testing.T) {
	book := newTestLedger(t)
	add := func(id int, start time.Time) {
		book.Append(id, millis(start), millis(start.Add(time.Minute)), 60)
	}
	add(1, time.Date(2024, time.March, 14, 8, 0, 0, 0, time.UTC)) // today
	add(2, time.Date(2024, time.March, 11, 8, 0, 0, 0, time.UTC)) // Monday this week
	add(3, time.Date(2024, time.March, 10, 8, 0, 0, 0, time.UTC)) // Sunday this week
	add(4, time.Date(2024, time.March, 9, 8, 0, 0, 0, time.UTC))  // last Saturday
	add(5, time.Date(2024, time.February, 28, 8, 0, 0, 0, time.UTC))
	add(6, time.Date(2024, time.March, 14, 16, 0, 0, 0, time.UTC)) // after now

	ids := func(period Period) []int {
		var out []int
		for _, bucket := range book.Report(period).Sorted() {
			out = append(out, bucket.WorkItemID)
		}
		return out
	}

	assert.Equal(t, []int{1}, ids(PeriodToday))
	assert.Equal(t, []int{1, 2, 3}, ids(PeriodThisWeek))
	assert.Equal(t, []int{1, 2, 3, 4}, ids(PeriodThisMonth))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(PeriodAllTime))
}

func TestEmptyReport(t *testing.T) {
	report := newTestLedger(t).Report(PeriodAllTime)
	assert.Empty(t, report.Buckets)
	assert.Empty(t, report.Sorted())
	assert.Zero(t, report.TotalSeconds())
	assert.Zero(t, report.From)
	assert.Equal(t, millis(reportNow), report.To)
}

func TestLoadSortsEntriesFromStore(t *testing.T) {
	store, err := OpenSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.SaveEntry(TimeEntry{ID: "b", WorkItemID: 2, StartTime: 2000, EndTime: 3000, Duration: 1}))
	require.NoError(t, store.SaveEntry(TimeEntry{ID: "a", WorkItemID: 1, StartTime: 1000, EndTime: 2000, Duration: 1}))

	book := New(Options{Store: store, Clock: clock.NewFake(reportNow)})
	require.NoError(t, book.Load())

	entries := book.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].ID)
	assert.Equal(t, "b", entries[1].ID)
}
