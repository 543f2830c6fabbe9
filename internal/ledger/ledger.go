package ledger

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/google/uuid"

	"worktimer/internal/core/clock"
)

// TimeEntry is one completed tracking interval. Times are epoch milliseconds,
// Duration is in seconds.
type TimeEntry struct {
	ID         string `json:"id"`
	WorkItemID int    `json:"workItemId"`
	StartTime  int64  `json:"startTime"`
	EndTime    int64  `json:"endTime"`
	Duration   int64  `json:"duration"`
}

// Store durably keeps ledger entries.
type Store interface {
	SaveEntry(entry TimeEntry) error
	LoadEntries() ([]TimeEntry, error)
}

// Options configures a Ledger.
type Options struct {
	Clock  clock.Clock
	Store  Store
	Logger *log.Logger
}

// Ledger is an append-only sequence of time entries.
type Ledger struct {
	mu      sync.RWMutex
	entries []TimeEntry
	clock   clock.Clock
	store   Store
	logger  *log.Logger
}

// New creates an empty ledger.
func New(options Options) *Ledger {
	if options.Clock == nil {
		options.Clock = clock.System{}
	}
	if options.Logger == nil {
		options.Logger = log.Default()
	}
	return &Ledger{
		clock:  options.Clock,
		store:  options.Store,
		logger: options.Logger,
	}
}

// Load replaces the in-memory entries with those from the store.
func (ledger *Ledger) Load() error {
	if ledger.store == nil {
		return nil
	}
	entries, err := ledger.store.LoadEntries()
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].StartTime < entries[j].StartTime
	})

	ledger.mu.Lock()
	ledger.entries = entries
	ledger.mu.Unlock()
	return nil
}

// Append records a completed interval and returns the stored entry.
func (ledger *Ledger) Append(workItemID int, startTime, endTime, duration int64) TimeEntry {
	entry := TimeEntry{
		ID:         uuid.New().String(),
		WorkItemID: workItemID,
		StartTime:  startTime,
		EndTime:    endTime,
		Duration:   duration,
	}

	ledger.mu.Lock()
	ledger.entries = append(ledger.entries, entry)
	ledger.mu.Unlock()

	if ledger.store != nil {
		if err := ledger.store.SaveEntry(entry); err != nil {
			ledger.logger.Printf("ledger: save entry for #%d: %v", workItemID, err)
		}
	}
	return entry
}

// Entries returns a copy of all entries in append order.
func (ledger *Ledger) Entries() []TimeEntry {
	ledger.mu.RLock()
	defer ledger.mu.RUnlock()
	return append([]TimeEntry(nil), ledger.entries...)
}

// Len returns the number of entries.
func (ledger *Ledger) Len() int {
	ledger.mu.RLock()
	defer ledger.mu.RUnlock()
	return len(ledger.entries)
}

// Bucket aggregates the entries of one work item.
type Bucket struct {
	WorkItemID   int
	TotalSeconds int64
	Entries      []TimeEntry
}

// Report is the aggregation of entries started within [From, To].
type Report struct {
	Period  Period
	From    int64
	To      int64
	Buckets map[int]*Bucket
}

// Report aggregates the entries of period by work item.
func (ledger *Ledger) Report(period Period) Report {
	now := ledger.clock.Now()
	from := period.Start(now)
	to := now.UnixMilli()

	report := Report{
		Period:  period,
		From:    from,
		To:      to,
		Buckets: make(map[int]*Bucket),
	}

	ledger.mu.RLock()
	defer ledger.mu.RUnlock()
	for _, entry := range ledger.entries {
		if entry.StartTime < from || entry.StartTime > to {
			continue
		}
		bucket, exists := report.Buckets[entry.WorkItemID]
		if !exists {
			bucket = &Bucket{WorkItemID: entry.WorkItemID}
			report.Buckets[entry.WorkItemID] = bucket
		}
		bucket.TotalSeconds += entry.Duration
		bucket.Entries = append(bucket.Entries, entry)
	}
	return report
}

// Sorted returns the buckets ordered by descending total, then work item id.
func (report Report) Sorted() []*Bucket {
	buckets := make([]*Bucket, 0, len(report.Buckets))
	for _, bucket := range report.Buckets {
		buckets = append(buckets, bucket)
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].TotalSeconds != buckets[j].TotalSeconds {
			return buckets[i].TotalSeconds > buckets[j].TotalSeconds
		}
		return buckets[i].WorkItemID < buckets[j].WorkItemID
	})
	return buckets
}

// TotalSeconds sums every bucket.
func (report Report) TotalSeconds() int64 {
	var total int64
	for _, bucket := range report.Buckets {
		total += bucket.TotalSeconds
	}
	return total
}
