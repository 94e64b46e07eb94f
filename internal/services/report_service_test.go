package services

import (
	"context"
	"testing"
	"time"

	"github.com/healthsignals/insights-engine/internal/models"
)

type recordsStub struct {
	records []models.DailyRecord
	err     error
	from    string
	to      string
}

func (r *recordsStub) FetchRecords(_ context.Context, _, from, to string) ([]models.DailyRecord, error) {
	r.from, r.to = from, to
	return r.records, r.err
}

type archiveStub struct {
	summaries []models.ReportSummary
	feedback  []models.Feedback
	listErr   error
}

func (a *archiveStub) SaveSummary(_ context.Context, summary models.ReportSummary) error {
	a.summaries = append(a.summaries, summary)
	return nil
}

func (a *archiveStub) ListSummaries(_ context.Context, _ string, _ int) ([]models.ReportSummary, error) {
	return a.summaries, a.listErr
}

func (a *archiveStub) SaveFeedback(_ context.Context, feedback models.Feedback) error {
	a.feedback = append(a.feedback, feedback)
	return nil
}

func TestGenerateReportArchivesSummary(t *testing.T) {
	records := &recordsStub{records: []models.DailyRecord{
		{Date: "2024-01-01", Responses: []models.SurveyResponse{
			{SurveyType: models.SurveyMorning, Answers: map[string]any{"q1": float64(8), "evacuacao": "sim"}},
			{SurveyType: models.SurveyEvening, Answers: map[string]any{"q5": []any{"estresse"}}},
		}},
	}}
	archive := &archiveStub{}
	service := NewReportService(nil, records, nil, archive, nil, 30)
	service.now = func() time.Time { return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC) }

	report, err := service.GenerateReport(context.Background(), "patient-1", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.ReportID == "" || report.PatientID != "patient-1" {
		t.Fatalf("unexpected report identity: %+v", report)
	}
	if report.From != "2023-12-16" || report.To != "2024-01-15" {
		t.Fatalf("unexpected default window: %s..%s", report.From, report.To)
	}
	if records.from != report.From || records.to != report.To {
		t.Fatalf("fetch window mismatch: %s..%s", records.from, records.to)
	}

	if len(archive.summaries) != 1 {
		t.Fatalf("expected one archived summary, got %d", len(archive.summaries))
	}
	summary := archive.summaries[0]
	if summary.ReportID != report.ReportID || summary.PatientID != "patient-1" {
		t.Fatalf("unexpected summary identity: %+v", summary)
	}
	if len(summary.TopTriggers) != 1 || summary.TopTriggers[0] != "estresse" {
		t.Fatalf("unexpected top triggers: %v", summary.TopTriggers)
	}
}

func TestGenerateReportRejectsMissingPatient(t *testing.T) {
	service := NewReportService(nil, &recordsStub{}, nil, nil, nil, 0)
	if _, err := service.GenerateReport(context.Background(), "", "", ""); err == nil {
		t.Fatal("expected error for missing patient id")
	}
}

func TestGenerateReportRejectsBadWindow(t *testing.T) {
	service := NewReportService(nil, &recordsStub{}, nil, nil, nil, 0)
	if _, err := service.GenerateReport(context.Background(), "patient-1", "not-a-date", ""); err == nil {
		t.Fatal("expected error for malformed from date")
	}
}

func TestGetPatternsMinesArchivedHistory(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	archive := &archiveStub{summaries: []models.ReportSummary{
		{PatientID: "patient-1", GeneratedAt: now, TopTriggers: []string{"estresse"}},
		{PatientID: "patient-1", GeneratedAt: now.AddDate(0, 1, 0), TopTriggers: []string{"estresse"}},
	}}
	service := NewReportService(nil, &recordsStub{}, nil, archive, nil, 0)

	patterns, err := service.GetPatterns(context.Background(), "patient-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(patterns) != 1 || patterns[0].Name != "estresse" {
		t.Fatalf("unexpected patterns: %+v", patterns)
	}
}

func TestFeedbackRequiresArchive(t *testing.T) {
	service := NewReportService(nil, &recordsStub{}, nil, nil, nil, 0)
	err := service.SubmitFeedback(context.Background(), models.Feedback{ReportID: "r1", PatientID: "p1"})
	if err == nil {
		t.Fatal("expected error without archive")
	}
}

func TestFeedbackStampsSubmissionTime(t *testing.T) {
	archive := &archiveStub{}
	service := NewReportService(nil, &recordsStub{}, nil, archive, nil, 0)
	stamp := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return stamp }

	if err := service.SubmitFeedback(context.Background(), models.Feedback{ReportID: "r1", PatientID: "p1", Helpful: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(archive.feedback) != 1 || !archive.feedback[0].SubmittedAt.Equal(stamp) {
		t.Fatalf("unexpected feedback: %+v", archive.feedback)
	}
}
