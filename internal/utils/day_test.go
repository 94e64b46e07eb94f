package utils

import (
	"testing"
	"time"
)

func TestParseDayAcceptsBothLayouts(t *testing.T) {
	day, ts, hasTime, err := ParseDay("2024-01-05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if day != "2024-01-05" {
		t.Fatalf("unexpected day key %q", day)
	}
	if !ts.Equal(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected timestamp %v", ts)
	}
	if hasTime {
		t.Fatalf("bare day key must not report a time of day")
	}

	day, _, hasTime, err = ParseDay("2024-01-05T14:30:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if day != "2024-01-05" {
		t.Fatalf("unexpected day key %q", day)
	}
	if !hasTime {
		t.Fatalf("timestamp must report a time of day")
	}

	if _, _, _, err := ParseDay("05/01/2024"); err == nil {
		t.Fatalf("expected error for unsupported layout")
	}
	if _, _, _, err := ParseDay(""); err == nil {
		t.Fatalf("expected error for empty date")
	}
}

func TestParseDayMeasuredMidnightKeepsItsClock(t *testing.T) {
	day, ts, hasTime, err := ParseDay("2024-01-05T00:00:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if day != "2024-01-05" || !hasTime {
		t.Fatalf("midnight timestamp must keep its clock: day=%q hasTime=%v", day, hasTime)
	}
	if ts.Hour() != 0 {
		t.Fatalf("unexpected hour %d", ts.Hour())
	}
}

func TestDaysBetweenRoundsUp(t *testing.T) {
	a := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 3 {
		t.Fatalf("expected 3 days, got %d", got)
	}
	if got := DaysBetween(b, a); got != 3 {
		t.Fatalf("expected order independence, got %d", got)
	}

	c := time.Date(2024, 1, 4, 6, 0, 0, 0, time.UTC)
	if got := DaysBetween(a, c); got != 4 {
		t.Fatalf("expected partial day to round up to 4, got %d", got)
	}
}
