package utils

import (
	"fmt"
	"math"
	"time"
)

// DayLayout is the canonical day-key layout used across the pipeline.
const DayLayout = "2006-01-02"

// ParseDay parses a record date into its day key and UTC time. Both bare
// day keys ("2024-01-05") and full RFC3339 timestamps are accepted, since
// record dates changed shape across app revisions. hasTime reports whether
// the value carried a real time of day; a bare day key parses to midnight
// but hasTime stays false, so a measured midnight is distinguishable from
// an absent clock.
func ParseDay(value string) (day string, t time.Time, hasTime bool, err error) {
	if value == "" {
		return "", time.Time{}, false, fmt.Errorf("empty date value")
	}
	if t, err := time.ParseInLocation(DayLayout, value, time.UTC); err == nil {
		return value, t, false, nil
	}
	t, err = time.Parse(time.RFC3339, value)
	if err != nil {
		return "", time.Time{}, false, fmt.Errorf("parse date %q: %w", value, err)
	}
	return t.UTC().Format(DayLayout), t.UTC(), true, nil
}

// DaysBetween returns the day gap between two timestamps, rounded up so a
// partial day counts as a full one. Arguments may come in either order.
func DaysBetween(a, b time.Time) int {
	if b.Before(a) {
		a, b = b, a
	}
	return int(math.Ceil(b.Sub(a).Hours() / 24))
}
