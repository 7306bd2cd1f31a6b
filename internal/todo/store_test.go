package todo

import (
	"errors"
	"testing"
)

func TestInsertAssignsUniqueTimestamps(t *testing.T) {
	s := NewStore()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := s.Insert(Record{Task: "write release notes"})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate id assigned: %s", id)
		}
		seen[id] = true
	}
}

func TestInsertRejectsEmptyTask(t *testing.T) {
	s := NewStore()

	if _, err := s.Insert(Record{}); !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %d records", s.Len())
	}
}

func TestInsertAppendsInOrder(t *testing.T) {
	s := NewStore()

	first, _ := s.Insert(Record{Task: "first"})
	before := s.Len()
	second, err := s.Insert(Record{Task: "second"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	snap := s.Snapshot()
	if len(snap) != before+1 {
		t.Fatalf("expected %d records, got %d", before+1, len(snap))
	}
	if snap[0].Timestamp != first || snap[1].Timestamp != second {
		t.Fatalf("insertion order not preserved: %v", snap)
	}
	if snap[len(snap)-1].Task != "second" {
		t.Fatalf("new record is not last: %v", snap)
	}
}

func TestInsertDefaultsStatusOpen(t *testing.T) {
	s := NewStore()
	id, _ := s.Insert(Record{Task: "check backups"})

	snap := s.Snapshot()
	if snap[0].Timestamp != id || snap[0].Status != StatusOpen {
		t.Fatalf("expected open status, got %q", snap[0].Status)
	}
}

func TestToggleStatusIsIdempotentUnderDoubleToggle(t *testing.T) {
	s := NewStore()
	id, _ := s.Insert(Record{Task: "rotate credentials"})

	if err := s.ToggleStatus(id); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got := s.Snapshot()[0].Status; got != StatusCompleted {
		t.Fatalf("expected completed after first toggle, got %q", got)
	}

	if err := s.ToggleStatus(id); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got := s.Snapshot()[0].Status; got != StatusOpen {
		t.Fatalf("expected open after second toggle, got %q", got)
	}
}

func TestSetIndentClamps(t *testing.T) {
	s := NewStore()
	id, _ := s.Insert(Record{Task: "indent me"})

	cases := []struct {
		level int
		want  int
	}{
		{-1, 0},
		{0, 0},
		{2, 2},
		{3, 3},
		{9, 3},
	}

	for _, tc := range cases {
		if err := s.SetIndent(id, tc.level); err != nil {
			t.Fatalf("set indent %d: %v", tc.level, err)
		}
		if got := s.Snapshot()[0].IndentLevel; got != tc.want {
			t.Errorf("level %d: expected %d, got %d", tc.level, tc.want, got)
		}
	}
}

func TestMutationsOnUnknownID(t *testing.T) {
	s := NewStore()
	s.Insert(Record{Task: "keep me"})

	if err := s.SetStatus("nope", StatusCompleted); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetStatus: expected ErrNotFound, got %v", err)
	}
	if err := s.ToggleStatus("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ToggleStatus: expected ErrNotFound, got %v", err)
	}
	if err := s.SetIndent("nope", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetIndent: expected ErrNotFound, got %v", err)
	}

	snap := s.Snapshot()
	if len(snap) != 1 || snap[0].Status != StatusOpen || snap[0].IndentLevel != 0 {
		t.Fatalf("failed mutation changed state: %v", snap)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStore()
	s.Insert(Record{Task: "immutable"})

	snap := s.Snapshot()
	snap[0].Task = "mutated"

	if s.Snapshot()[0].Task != "immutable" {
		t.Fatal("snapshot mutation leaked into store")
	}
}
