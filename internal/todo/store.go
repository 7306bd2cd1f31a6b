package todo

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrInvalidRecord = errors.New("todo: record has no task")
	ErrNotFound      = errors.New("todo: record not found")
)

// Store is the ordered, mutex-guarded collection of live records.
// Insertion order is display order and mutations never reorder it.
//
// The store does not notify anyone of changes. Every call site that
// mutates state successfully is expected to trigger a broadcast (via
// the event bus) afterwards; forgetting to do so leaves viewers stale
// until the next mutation.
type Store struct {
	mu      sync.Mutex
	records []Record
	index   map[string]int // timestamp -> position in records
	last    time.Time      // last assigned timestamp, for monotonic ids
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{index: make(map[string]int)}
}

// Insert appends rec and assigns its timestamp. The assigned timestamp
// is strictly after every previously assigned one, so it is unique for
// the process lifetime. Returns the assigned id.
func (s *Store) Insert(rec Record) (string, error) {
	if rec.Task == "" {
		return "", ErrInvalidRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if !now.After(s.last) {
		now = s.last.Add(time.Nanosecond)
	}
	s.last = now

	rec.Timestamp = now.Format(time.RFC3339Nano)
	rec.IndentLevel = ClampIndent(rec.IndentLevel)
	if rec.Status == "" {
		rec.Status = StatusOpen
	}

	s.index[rec.Timestamp] = len(s.records)
	s.records = append(s.records, rec)
	return rec.Timestamp, nil
}

// SetStatus sets the status of the record with the given id.
func (s *Store) SetStatus(id string, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return ErrNotFound
	}
	s.records[i].Status = status
	return nil
}

// ToggleStatus flips the record between completed and open.
func (s *Store) ToggleStatus(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return ErrNotFound
	}
	if s.records[i].Status == StatusCompleted {
		s.records[i].Status = StatusOpen
	} else {
		s.records[i].Status = StatusCompleted
	}
	return nil
}

// SetIndent stores the clamped indent level for the record.
func (s *Store) SetIndent(id string, level int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return ErrNotFound
	}
	s.records[i].IndentLevel = ClampIndent(level)
	return nil
}

// Snapshot returns a copy of all records in insertion order.
func (s *Store) Snapshot() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of live records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
