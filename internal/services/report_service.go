package services

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/healthsignals/insights-engine/internal/engine"
	"github.com/healthsignals/insights-engine/internal/metrics"
	"github.com/healthsignals/insights-engine/internal/models"
	"github.com/healthsignals/insights-engine/internal/patterns"
	"github.com/healthsignals/insights-engine/internal/utils"
)

// RecordsFetcher fetches one patient's daily records for a window.
type RecordsFetcher interface {
	FetchRecords(ctx context.Context, patientID, from, to string) ([]models.DailyRecord, error)
}

// Archive persists report summaries and feedback.
type Archive interface {
	SaveSummary(ctx context.Context, summary models.ReportSummary) error
	ListSummaries(ctx context.Context, patientID string, limit int) ([]models.ReportSummary, error)
	SaveFeedback(ctx context.Context, feedback models.Feedback) error
}

// DefaultWindowDays is the report window applied when the caller omits one.
const DefaultWindowDays = 90

// Sentinel causes so transports can map service errors onto status codes.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotConfigured = errors.New("dependency not configured")
)

// ReportService is the orchestration facade behind the HTTP handlers: fetch
// records, run the pipeline, archive the summary, serve history and patterns.
type ReportService struct {
	logger     *slog.Logger
	records    RecordsFetcher
	pipeline   *engine.Pipeline
	archive    Archive
	miner      *patterns.Miner
	latencies  *utils.LatencyTracker
	windowDays int
	now        func() time.Time
}

// NewReportService constructs the service facade. Archive may be nil when the
// deployment runs without Postgres; history and feedback endpoints then
// report a precondition failure.
func NewReportService(logger *slog.Logger, records RecordsFetcher, pipeline *engine.Pipeline, archive Archive, miner *patterns.Miner, windowDays int) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	if pipeline == nil {
		pipeline = engine.NewPipeline(logger, nil, nil, nil, nil, nil)
	}
	if miner == nil {
		miner = patterns.NewMiner(logger, nil, 0)
	}
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	return &ReportService{
		logger:     logger,
		records:    records,
		pipeline:   pipeline,
		archive:    archive,
		miner:      miner,
		latencies:  utils.NewLatencyTracker(1024),
		windowDays: windowDays,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// GenerateReport runs the full pipeline for one patient window. Empty from/to
// default to the trailing configured window ending today.
func (s *ReportService) GenerateReport(ctx context.Context, patientID, from, to string) (models.Report, error) {
	if patientID == "" {
		return models.Report{}, utils.NewAppError("GenerateReport", "patient id is required", ErrInvalidInput)
	}
	if s.records == nil {
		return models.Report{}, utils.NewAppError("GenerateReport", "records client not configured", ErrNotConfigured)
	}

	now := s.now()
	if to == "" {
		to = now.Format(utils.DayLayout)
	}
	if from == "" {
		from = now.AddDate(0, 0, -s.windowDays).Format(utils.DayLayout)
	}
	if _, _, _, err := utils.ParseDay(from); err != nil {
		return models.Report{}, utils.NewAppError("GenerateReport", "invalid from date", errors.Join(ErrInvalidInput, err))
	}
	if _, _, _, err := utils.ParseDay(to); err != nil {
		return models.Report{}, utils.NewAppError("GenerateReport", "invalid to date", errors.Join(ErrInvalidInput, err))
	}

	start := time.Now()
	records, err := s.records.FetchRecords(ctx, patientID, from, to)
	if err != nil {
		metrics.ObserveReport(time.Since(start), metrics.OutcomeError)
		return models.Report{}, utils.NewAppError("GenerateReport", "fetch records failed", err)
	}

	report, bundle := s.pipeline.Run(records, now)
	duration := time.Since(start)

	report.ReportID = uuid.NewString()
	report.PatientID = patientID
	report.From = from
	report.To = to

	s.latencies.Observe(duration)
	metrics.ObserveReport(duration, metrics.OutcomeSuccess)
	metrics.CountAnswers(bundle.CategoryCounts)
	metrics.CountDiagnostics(diagnosticCounts(bundle.Diagnostics))
	if count := s.latencies.Count(); count >= 20 && count%20 == 0 {
		s.logger.Info("report latency", slog.Duration("p95", s.latencies.Percentile(95)), slog.Int("samples", count))
	}

	if s.archive != nil {
		if err := s.archive.SaveSummary(ctx, summarize(report, bundle)); err != nil {
			// Archiving is best effort; the report is still valid.
			s.logger.Warn("archive summary failed", slog.Any("error", err))
		}
	}

	return report, nil
}

// ListReports returns a patient's archived report summaries, newest first.
func (s *ReportService) ListReports(ctx context.Context, patientID string, limit int) ([]models.ReportSummary, error) {
	if patientID == "" {
		return nil, utils.NewAppError("ListReports", "patient id is required", ErrInvalidInput)
	}
	if s.archive == nil {
		return nil, utils.NewAppError("ListReports", "report archive not configured", ErrNotConfigured)
	}
	summaries, err := s.archive.ListSummaries(ctx, patientID, limit)
	if err != nil {
		return nil, utils.NewAppError("ListReports", "list summaries failed", err)
	}
	return summaries, nil
}

// GetPatterns mines recurring triggers and treatments from the patient's
// archived report history.
func (s *ReportService) GetPatterns(ctx context.Context, patientID string) ([]models.RecurringPattern, error) {
	if patientID == "" {
		return nil, utils.NewAppError("GetPatterns", "patient id is required", ErrInvalidInput)
	}
	if s.archive == nil {
		return nil, utils.NewAppError("GetPatterns", "report archive not configured", ErrNotConfigured)
	}
	summaries, err := s.archive.ListSummaries(ctx, patientID, 0)
	if err != nil {
		return nil, utils.NewAppError("GetPatterns", "list summaries failed", err)
	}
	found, err := s.miner.Mine(ctx, patientID, summaries)
	if err != nil {
		return nil, utils.NewAppError("GetPatterns", "mine patterns failed", err)
	}
	return found, nil
}

// SubmitFeedback stores patient feedback about a generated report.
func (s *ReportService) SubmitFeedback(ctx context.Context, feedback models.Feedback) error {
	if feedback.ReportID == "" || feedback.PatientID == "" {
		return utils.NewAppError("SubmitFeedback", "report id and patient id are required", ErrInvalidInput)
	}
	if s.archive == nil {
		return utils.NewAppError("SubmitFeedback", "report archive not configured", ErrNotConfigured)
	}
	if feedback.SubmittedAt.IsZero() {
		feedback.SubmittedAt = s.now()
	}
	if err := s.archive.SaveFeedback(ctx, feedback); err != nil {
		return utils.NewAppError("SubmitFeedback", "save feedback failed", err)
	}
	return nil
}

// LatencyP95 returns the current p95 report-generation latency.
func (s *ReportService) LatencyP95() time.Duration {
	if s.latencies == nil {
		return 0
	}
	return s.latencies.Percentile(95)
}

func summarize(report models.Report, bundle *models.AggregateBundle) models.ReportSummary {
	return models.ReportSummary{
		ReportID:        report.ReportID,
		PatientID:       report.PatientID,
		From:            report.From,
		To:              report.To,
		GeneratedAt:     report.GeneratedAt,
		DigestiveStatus: report.Digestive.Status,
		PeriodRisk:      report.Crisis.PeriodRisk,
		ActivityLevel:   report.Activity.Level,
		TopTriggers:     topTriggerNames(bundle.Triggers, 3),
		TopTreatments:   topTreatmentNames(bundle.Treatments, 3),
		DiagnosticCount: len(report.Diagnostics),
	}
}

func topTriggerNames(triggers map[string]*models.TriggerRecord, limit int) []string {
	names := make([]string, 0, len(triggers))
	for name := range triggers {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if triggers[names[i]].Frequency != triggers[names[j]].Frequency {
			return triggers[names[i]].Frequency > triggers[names[j]].Frequency
		}
		return names[i] < names[j]
	})
	if len(names) > limit {
		names = names[:limit]
	}
	return names
}

func topTreatmentNames(treatments map[string]*models.TreatmentActivity, limit int) []string {
	names := make([]string, 0, len(treatments))
	for name := range treatments {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if treatments[names[i]].Frequency != treatments[names[j]].Frequency {
			return treatments[names[i]].Frequency > treatments[names[j]].Frequency
		}
		return names[i] < names[j]
	})
	if len(names) > limit {
		names = names[:limit]
	}
	return names
}

func diagnosticCounts(diags []models.Diagnostic) map[string]int {
	if len(diags) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, d := range diags {
		counts[string(d.Kind)]++
	}
	return counts
}
