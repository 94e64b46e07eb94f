package engine

import (
	"reflect"
	"testing"

	"github.com/healthsignals/insights-engine/internal/models"
)

func surveyDay(date string, responses ...models.SurveyResponse) models.DailyRecord {
	return models.DailyRecord{Date: date, Responses: responses}
}

func TestPipelineEndToEnd(t *testing.T) {
	pipeline := NewPipeline(nil, nil, nil, nil, nil, nil)
	now := day("2024-01-12")

	records := []models.DailyRecord{
		surveyDay("2024-01-01",
			models.SurveyResponse{SurveyType: models.SurveyMorning, Answers: map[string]any{
				"q1": float64(8), "sono": "dormi ruim", "evacuacao": "sim",
			}},
			models.SurveyResponse{SurveyType: models.SurveyEvening, Answers: map[string]any{
				"q3": []any{"Fisioterapia"}, "q6": []any{"caminhada"},
			}},
		),
		surveyDay("2024-01-02",
			models.SurveyResponse{SurveyType: models.SurveyMorning, Answers: map[string]any{
				"q1": float64(6), "sono": "dormi medio", "evacuacao": "nao",
			}},
		),
		surveyDay("2024-01-03",
			models.SurveyResponse{SurveyType: models.SurveyMorning, Answers: map[string]any{
				"q1": float64(4), "sono": "dormi bem", "evacuacao": "nao",
			}},
			models.SurveyResponse{SurveyType: models.SurveyEvening, Answers: map[string]any{
				"q3": []any{"Fisioterapia"}, "q6": []any{"caminhada", "trabalho"},
			}},
		),
		surveyDay("2024-01-04",
			models.SurveyResponse{SurveyType: models.SurveyMorning, Answers: map[string]any{
				"evacuacao": "sim",
			}},
			models.SurveyResponse{SurveyType: models.SurveyEvening, Answers: map[string]any{
				"q3": []any{"Psicólogo"},
			}},
		),
		surveyDay("2024-01-10",
			models.SurveyResponse{SurveyType: models.SurveyMorning, Answers: map[string]any{
				"evacuacao": "sim",
			}},
		),
	}

	report, bundle := pipeline.Run(records, now)

	// Falling morning pain must trend IMPROVING.
	var painTrend *models.TrendResult
	for i := range report.Trends {
		if report.Trends[i].Series == "dor" {
			painTrend = &report.Trends[i]
		}
	}
	if painTrend == nil || painTrend.Direction != models.TrendImproving {
		t.Fatalf("expected improving pain trend, got %+v", report.Trends)
	}

	// Evacuations on days 1, 4 and 10: intervals [3 6] -> moderate.
	if !reflect.DeepEqual(report.Digestive.Intervals, []int{3, 6}) {
		t.Fatalf("unexpected digestive intervals: %v", report.Digestive.Intervals)
	}
	if report.Digestive.Status != models.DigestiveModerate {
		t.Fatalf("expected moderate digestive status, got %s", report.Digestive.Status)
	}

	// Treatment breakdown: Fisioterapia twice, Psicólogo once.
	if bundle.Treatments["fisioterapia"].Frequency != 2 || bundle.Treatments["psicologo"].Frequency != 1 {
		t.Fatalf("unexpected treatments: %+v", bundle.Treatments)
	}

	// One crisis sample (level 8) on a morning survey.
	if report.Crisis.TotalCrises != 1 || report.Crisis.DominantPeriod != models.PeriodMorning {
		t.Fatalf("unexpected crisis profile: %+v", report.Crisis)
	}
	if !report.Crisis.Approximated {
		t.Fatalf("day-key crises must be flagged approximated")
	}

	if report.Activity.ActiveDays != 2 || report.Activity.TotalDays != 5 {
		t.Fatalf("unexpected activity profile: %+v", report.Activity)
	}

	if report.GeneratedAt != now {
		t.Fatalf("expected injected now in report, got %v", report.GeneratedAt)
	}
}

func TestPipelineIsDeterministic(t *testing.T) {
	pipeline := NewPipeline(nil, nil, nil, nil, nil, nil)
	now := day("2024-02-01")

	records := []models.DailyRecord{
		surveyDay("2024-01-01", models.SurveyResponse{SurveyType: models.SurveyMorning, Answers: map[string]any{
			"q1": float64(7), "q2": []any{"abdomen"}, "evacuacao": "sim",
		}}),
		surveyDay("2024-01-02", models.SurveyResponse{SurveyType: models.SurveyEvening, Answers: map[string]any{
			"q1": float64(5), "fadiga": float64(2), "q5": []any{"estresse"},
		}}),
	}

	report1, bundle1 := pipeline.Run(records, now)
	report2, bundle2 := pipeline.Run(records, now)

	if !reflect.DeepEqual(report1, report2) {
		t.Fatalf("reports differ across identical runs")
	}
	if !reflect.DeepEqual(bundle1, bundle2) {
		t.Fatalf("bundles differ across identical runs")
	}
}

func TestPipelineEmptyInputYieldsNoDataFragments(t *testing.T) {
	pipeline := NewPipeline(nil, nil, nil, nil, nil, nil)

	report, bundle := pipeline.Run(nil, day("2024-01-01"))

	if bundle.TotalDays != 0 {
		t.Fatalf("expected empty bundle, got %+v", bundle)
	}
	if report.Digestive.Status != models.DigestiveNoData {
		t.Fatalf("expected no_data digestive status, got %s", report.Digestive.Status)
	}
	if report.Crisis.HasData {
		t.Fatalf("expected no crisis data")
	}
	for _, c := range report.Correlations {
		if !c.InsufficientData {
			t.Fatalf("expected insufficient-data correlations, got %+v", c)
		}
	}
}
