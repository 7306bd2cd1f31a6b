package dedup

import (
	"testing"
	"time"
)

func TestEmptyWindowNeverMatches(t *testing.T) {
	d := New(0, 0)
	defer d.Close()

	if d.IsDuplicate("ship the report") {
		t.Fatal("empty window reported a duplicate")
	}
}

func TestExactDuplicate(t *testing.T) {
	d := New(0, 0)
	defer d.Close()

	d.Admit("Ship the report")
	if !d.IsDuplicate("Ship the report") {
		t.Fatal("identical task not detected as duplicate")
	}
}

func TestCaseInsensitive(t *testing.T) {
	d := New(0, 0)
	defer d.Close()

	d.Admit("SHIP THE REPORT")
	if !d.IsDuplicate("ship the report") {
		t.Fatal("comparison must be case-insensitive")
	}
}

func TestNearDuplicateAboveThreshold(t *testing.T) {
	d := New(0, 0)
	defer d.Close()

	d.Admit("Ship the quarterly report")
	if !d.IsDuplicate("Ship the quarterly reports") {
		t.Fatal("near-identical task not detected as duplicate")
	}
}

func TestDissimilarTasksBothAdmitted(t *testing.T) {
	d := New(0, 0)
	defer d.Close()

	d.Admit("Ship the report")
	if d.IsDuplicate("Water the office plants") {
		t.Fatal("unrelated task reported as duplicate")
	}
}

func TestEntryExpires(t *testing.T) {
	d := New(0, 20*time.Millisecond)
	defer d.Close()

	d.Admit("ephemeral task entry")
	if !d.IsDuplicate("ephemeral task entry") {
		t.Fatal("entry missing before expiry")
	}

	deadline := time.Now().Add(time.Second)
	for d.Len() > 0 {
		if time.Now().After(deadline) {
			t.Fatal("entry did not expire")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if d.IsDuplicate("ephemeral task entry") {
		t.Fatal("expired entry still matching")
	}
}

func TestReadmitResetsEntry(t *testing.T) {
	d := New(0, time.Hour)
	defer d.Close()

	d.Admit("same task")
	d.Admit("same task")

	if d.Len() != 1 {
		t.Fatalf("expected 1 window entry, got %d", d.Len())
	}
}

func TestCloseDrainsWindow(t *testing.T) {
	d := New(0, time.Hour)
	d.Admit("one")
	d.Admit("two")

	d.Close()
	if d.Len() != 0 {
		t.Fatalf("expected empty window after close, got %d", d.Len())
	}
}
