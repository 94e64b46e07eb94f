package utils

import (
	"testing"
	"time"
)

func TestLatencyTrackerPercentiles(t *testing.T) {
	tracker := NewLatencyTracker(16)
	for i := 1; i <= 8; i++ {
		tracker.Observe(time.Duration(i*5) * time.Millisecond)
	}

	if tracker.Count() != 8 {
		t.Fatalf("expected 8 samples, got %d", tracker.Count())
	}
	if p0 := tracker.Percentile(0); p0 != 5*time.Millisecond {
		t.Fatalf("expected min 5ms, got %v", p0)
	}
	if p100 := tracker.Percentile(100); p100 != 40*time.Millisecond {
		t.Fatalf("expected max 40ms, got %v", p100)
	}
	if p95 := tracker.Percentile(95); p95 < 30*time.Millisecond {
		t.Fatalf("expected p95 >= 30ms, got %v", p95)
	}
}

func TestLatencyTrackerEvictsOldest(t *testing.T) {
	tracker := NewLatencyTracker(3)
	for i := 0; i < 10; i++ {
		tracker.Observe(time.Duration(i) * time.Millisecond)
	}

	if tracker.Count() != 3 {
		t.Fatalf("expected tracker bounded at 3, got %d", tracker.Count())
	}
	// Only the three newest samples should remain.
	if min := tracker.Percentile(0); min != 7*time.Millisecond {
		t.Fatalf("expected oldest retained sample 7ms, got %v", min)
	}
}

func TestLatencyTrackerEmpty(t *testing.T) {
	tracker := NewLatencyTracker(0)
	if got := tracker.Percentile(95); got != 0 {
		t.Fatalf("expected zero duration without samples, got %v", got)
	}
}
