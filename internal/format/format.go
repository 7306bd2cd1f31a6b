// Package format normalizes extracted task and deadline strings for
// display. Both helpers are pure; empty input yields empty output.
package format

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
)

var (
	taskMarkerRe   = regexp.MustCompile(`(?i)^(todo|task|reminder|note):\s*`)
	leadingTimeRe  = regexp.MustCompile(`(?i)^(today|tomorrow|next week|by|before|after|on|at)\s+`)
	trailingPuncRe = regexp.MustCompile(`[.!?]+$`)
	monthWordRe    = regexp.MustCompile(`\b[a-z]+`)
	timeSuffixRe   = regexp.MustCompile(`(?i)\s+at\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)\s*$`)
)

// NormalizeTask cleans an extracted task description: task markers and
// leading time phrases are stripped, trailing punctuation removed, and
// the first letter capitalized.
func NormalizeTask(task string) string {
	task = taskMarkerRe.ReplaceAllString(task, "")
	task = leadingTimeRe.ReplaceAllString(task, "")
	task = trailingPuncRe.ReplaceAllString(task, "")
	task = strings.TrimSpace(task)
	if task == "" {
		return ""
	}

	runes := []rune(task)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// NormalizeDeadline turns an extracted deadline into a display string.
// Relative phrases resolve against the current date; month names are
// capitalized and a trailing time is rendered in 12-hour form.
func NormalizeDeadline(deadline string) string {
	return normalizeDeadlineAt(deadline, time.Now())
}

func normalizeDeadlineAt(deadline string, now time.Time) string {
	deadline = strings.TrimSpace(deadline)
	if deadline == "" {
		return ""
	}

	switch strings.ToLower(deadline) {
	case "today":
		return now.Format("January 2")
	case "tomorrow":
		return now.AddDate(0, 0, 1).Format("January 2")
	}
	if strings.Contains(strings.ToLower(deadline), "next week") {
		return now.AddDate(0, 0, 7).Format("January 2")
	}

	lowered := strings.ToLower(deadline)

	// Pull a trailing time expression out before capitalizing.
	var timePart string
	if m := timeSuffixRe.FindStringSubmatch(lowered); m != nil {
		timePart = formatClock(m[1], m[2], m[3])
		lowered = timeSuffixRe.ReplaceAllString(lowered, "")
	}

	date := monthWordRe.ReplaceAllStringFunc(lowered, func(word string) string {
		return strings.ToUpper(word[:1]) + word[1:]
	})

	return date + timePart
}

func formatClock(hour, minute, period string) string {
	h := 0
	fmt.Sscanf(hour, "%d", &h)
	if h == 0 {
		h = 12
	}
	if minute != "" && minute != "00" {
		return fmt.Sprintf(" at %d:%s %s", h, minute, strings.ToUpper(period))
	}
	return fmt.Sprintf(" at %d %s", h, strings.ToUpper(period))
}
