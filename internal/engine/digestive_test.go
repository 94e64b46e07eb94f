package engine

import (
	"testing"
	"time"

	"github.com/healthsignals/insights-engine/internal/models"
)

func day(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func bowel(s string, evacuated bool) models.BowelMovementRecord {
	return models.BowelMovementRecord{Day: s, Date: day(s), Evacuated: evacuated}
}

func TestDigestiveIntervalsAndStatus(t *testing.T) {
	analyzer := NewDigestiveAnalyzer()
	now := day("2024-01-12")

	// Events on days 1, 4 and 10: intervals [3 6].
	profile := analyzer.Analyze([]models.BowelMovementRecord{
		bowel("2024-01-10", true),
		bowel("2024-01-01", true),
		bowel("2024-01-04", true),
		bowel("2024-01-06", false),
	}, now)

	if !profile.HasData {
		t.Fatalf("expected data")
	}
	if len(profile.Intervals) != 2 || profile.Intervals[0] != 3 || profile.Intervals[1] != 6 {
		t.Fatalf("unexpected intervals: %v", profile.Intervals)
	}
	if profile.MaxInterval != 6 {
		t.Fatalf("expected max interval 6, got %d", profile.MaxInterval)
	}
	if profile.AverageInterval != 4.5 {
		t.Fatalf("expected average 4.5, got %v", profile.AverageInterval)
	}
	if profile.DaysSinceLast != 2 {
		t.Fatalf("expected 2 days since last, got %d", profile.DaysSinceLast)
	}
	if profile.Status != models.DigestiveModerate {
		t.Fatalf("expected moderate status, got %s", profile.Status)
	}
	if profile.Recommendation == "" {
		t.Fatalf("expected a recommendation")
	}
}

func TestDigestiveNoEvacuationsIsNoData(t *testing.T) {
	analyzer := NewDigestiveAnalyzer()

	profile := analyzer.Analyze([]models.BowelMovementRecord{
		bowel("2024-01-01", false),
		bowel("2024-01-02", false),
	}, day("2024-01-03"))

	if profile.HasData {
		t.Fatalf("expected no-data profile")
	}
	if profile.Status != models.DigestiveNoData {
		t.Fatalf("expected no_data status, got %s", profile.Status)
	}
}

func TestDigestiveStatusMonotonicInMaxInterval(t *testing.T) {
	severity := map[models.DigestiveStatus]int{
		models.DigestiveNormal:   0,
		models.DigestiveMild:     1,
		models.DigestiveModerate: 2,
		models.DigestiveSevere:   3,
	}

	for _, avg := range []float64{1, 2, 2.5, 3, 3.5, 4, 5} {
		previous := -1
		for maxInterval := 1; maxInterval <= 12; maxInterval++ {
			status := classifyDigestive(maxInterval, avg)
			if severity[status] < previous {
				t.Fatalf("status regressed at max=%d avg=%v: %s", maxInterval, avg, status)
			}
			previous = severity[status]
		}
	}
}

func TestDigestiveTierLadder(t *testing.T) {
	tests := []struct {
		max  int
		avg  float64
		want models.DigestiveStatus
	}{
		{2, 1.5, models.DigestiveNormal},
		{3, 2, models.DigestiveNormal},
		{5, 3, models.DigestiveMild},
		{4, 2.5, models.DigestiveMild},
		{7, 4, models.DigestiveModerate},
		{6, 4.5, models.DigestiveModerate},
		{7, 6, models.DigestiveModerate},
		{8, 2, models.DigestiveSevere},
		{9, 8, models.DigestiveSevere},
	}
	for _, tc := range tests {
		if got := classifyDigestive(tc.max, tc.avg); got != tc.want {
			t.Fatalf("classifyDigestive(%d, %v) = %s, want %s", tc.max, tc.avg, got, tc.want)
		}
	}
}
