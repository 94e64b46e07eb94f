package engine

import (
	"testing"
	"time"

	"github.com/healthsignals/insights-engine/internal/models"
)

func pain(s string, level float64, survey models.SurveyType) models.PainSample {
	return models.PainSample{Day: s, Date: day(s), Level: level, Survey: survey}
}

func TestCrisisMorningSurveysDominatePeriodHistogram(t *testing.T) {
	analyzer := NewCrisisAnalyzer(0)

	profile := analyzer.Analyze([]models.PainSample{
		pain("2024-01-01", 8, models.SurveyMorning),
		pain("2024-01-02", 9, models.SurveyMorning),
		pain("2024-01-03", 7, models.SurveyMorning),
		pain("2024-01-04", 4, models.SurveyMorning), // below threshold
	})

	if !profile.HasData || profile.TotalCrises != 3 {
		t.Fatalf("expected 3 crises, got %+v", profile)
	}
	if profile.DominantPeriod != models.PeriodMorning {
		t.Fatalf("expected morning dominance, got %s", profile.DominantPeriod)
	}
	if profile.PeriodHistogram[models.PeriodMorning] != 100 {
		t.Fatalf("expected 100%% morning share, got %v", profile.PeriodHistogram)
	}
	if profile.PeriodRisk != models.RiskHigh {
		t.Fatalf("expected high risk, got %s", profile.PeriodRisk)
	}
	if !profile.Approximated {
		t.Fatalf("survey-derived hours must be flagged as approximated")
	}
	if len(profile.PeakHours) != 1 || profile.PeakHours[0] != 8 {
		t.Fatalf("expected peak hour 8, got %v", profile.PeakHours)
	}
}

func TestCrisisMixedPeriodsAndRisk(t *testing.T) {
	analyzer := NewCrisisAnalyzer(7)

	profile := analyzer.Analyze([]models.PainSample{
		pain("2024-01-01", 8, models.SurveyMorning),
		pain("2024-01-02", 8, models.SurveyEvening),
		pain("2024-01-03", 8, models.SurveyEvening),
		pain("2024-01-04", 9, models.SurveyEmergency),
	})

	if profile.DominantPeriod != models.PeriodEvening {
		t.Fatalf("expected evening dominance, got %s", profile.DominantPeriod)
	}
	if profile.PeriodRisk != models.RiskHigh {
		t.Fatalf("expected high risk at 50%% share, got %s", profile.PeriodRisk)
	}
	if profile.PeriodHistogram[models.PeriodAfternoon] != 25 {
		t.Fatalf("expected 25%% afternoon share, got %v", profile.PeriodHistogram)
	}
}

func TestCrisisMeasuredTimestampsAreNotApproximated(t *testing.T) {
	analyzer := NewCrisisAnalyzer(7)

	ts := time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC)
	profile := analyzer.Analyze([]models.PainSample{
		{Day: "2024-01-01", Date: ts, HasTime: true, Level: 9, Survey: models.SurveyEmergency},
	})

	if profile.Approximated {
		t.Fatalf("real timestamps must not be flagged as approximated")
	}
	if profile.DominantPeriod != models.PeriodAfternoon {
		t.Fatalf("expected afternoon, got %s", profile.DominantPeriod)
	}
}

func TestCrisisMeasuredMidnightBucketsAsDawn(t *testing.T) {
	analyzer := NewCrisisAnalyzer(7)

	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	profile := analyzer.Analyze([]models.PainSample{
		{Day: "2024-01-01", Date: ts, HasTime: true, Level: 9, Survey: models.SurveyEmergency},
	})

	if profile.Approximated {
		t.Fatalf("a measured midnight must not be remapped to a survey hour")
	}
	if profile.DominantPeriod != models.PeriodDawn {
		t.Fatalf("expected dawn, got %s", profile.DominantPeriod)
	}
	if len(profile.PeakHours) != 1 || profile.PeakHours[0] != 0 {
		t.Fatalf("expected peak hour 0, got %v", profile.PeakHours)
	}
}

func TestCrisisNoSamplesReturnsInsufficientData(t *testing.T) {
	analyzer := NewCrisisAnalyzer(7)

	profile := analyzer.Analyze([]models.PainSample{
		pain("2024-01-01", 5, models.SurveyMorning),
	})

	if profile.HasData {
		t.Fatalf("expected insufficient-data profile, got %+v", profile)
	}
	if profile.TotalCrises != 0 || profile.PeriodRisk != models.RiskLow {
		t.Fatalf("unexpected empty profile: %+v", profile)
	}
}
