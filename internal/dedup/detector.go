// Package dedup suppresses near-duplicate todos using fuzzy string
// similarity over a trailing admission window.
package dedup

import (
	"strings"
	"sync"
	"time"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

const (
	// DefaultThreshold is the similarity score above which a candidate
	// is considered a duplicate of an admitted task.
	DefaultThreshold = 0.8
	// DefaultWindow is how long an admitted task stays comparable.
	DefaultWindow = 24 * time.Hour
)

// Detector keeps the case-folded form of recently admitted tasks and
// rejects candidates that score above the threshold against any of
// them. Entries expire individually; nothing is persisted.
type Detector struct {
	threshold float64
	window    time.Duration
	metric    *metrics.SorensenDice

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// New creates a Detector. Threshold or window values <= 0 fall back to
// the defaults.
func New(threshold float64, window time.Duration) *Detector {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Detector{
		threshold: threshold,
		window:    window,
		metric:    metrics.NewSorensenDice(),
		timers:    make(map[string]*time.Timer),
	}
}

// IsDuplicate compares task, case-folded, pairwise against every entry
// in the window. An empty window never matches.
func (d *Detector) IsDuplicate(task string) bool {
	candidate := strings.ToLower(task)

	d.mu.Lock()
	defer d.mu.Unlock()

	for admitted := range d.timers {
		if strutil.Similarity(admitted, candidate, d.metric) > d.threshold {
			return true
		}
	}
	return false
}

// Admit records task in the window and schedules its removal after the
// window elapses. Re-admitting an entry resets its expiry.
func (d *Detector) Admit(task string) {
	key := strings.ToLower(task)

	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[key]; ok {
		t.Stop()
	}
	d.timers[key] = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		delete(d.timers, key)
		d.mu.Unlock()
	})
}

// Close cancels all pending expiry timers. Safe to call at shutdown;
// the window is in-memory only so abandoned entries need no cleanup.
func (d *Detector) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
}

// Len reports the number of entries currently in the window.
func (d *Detector) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}
