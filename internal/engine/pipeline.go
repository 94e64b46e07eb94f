package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/healthsignals/insights-engine/internal/classify"
	"github.com/healthsignals/insights-engine/internal/models"
)

// Pipeline drives one report-generation run: aggregate the raw records into
// a bundle, then fan the four analyzers out over it. The bundle is written
// by the aggregation phase only; the analyzers read disjoint slices of the
// completed bundle, so they run concurrently with deterministic output.
type Pipeline struct {
	logger       *slog.Logger
	aggregator   *Aggregator
	digestive    *DigestiveAnalyzer
	crisis       *CrisisAnalyzer
	activity     *ActivityAnalyzer
	correlations *CorrelationEngine
}

// NewPipeline constructs a report pipeline. Nil collaborators fall back to
// defaults so callers only wire what they need to override.
func NewPipeline(
	logger *slog.Logger,
	aggregator *Aggregator,
	digestive *DigestiveAnalyzer,
	crisis *CrisisAnalyzer,
	activity *ActivityAnalyzer,
	correlations *CorrelationEngine,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if aggregator == nil {
		aggregator = NewAggregator(logger, classify.NewDefault())
	}
	if digestive == nil {
		digestive = NewDigestiveAnalyzer()
	}
	if crisis == nil {
		crisis = NewCrisisAnalyzer(DefaultCrisisThreshold)
	}
	if activity == nil {
		activity = NewActivityAnalyzer(0)
	}
	if correlations == nil {
		correlations = NewCorrelationEngine(logger)
	}
	return &Pipeline{
		logger:       logger,
		aggregator:   aggregator,
		digestive:    digestive,
		crisis:       crisis,
		activity:     activity,
		correlations: correlations,
	}
}

// Run aggregates the records and produces the report fragments. "now" is
// injected so results are reproducible; re-running with the same records
// and the same now yields an identical report body and bundle.
func (p *Pipeline) Run(records []models.DailyRecord, now time.Time) (models.Report, *models.AggregateBundle) {
	bundle := p.aggregator.Aggregate(records)

	p.logger.Debug("aggregation complete",
		slog.Int("days", bundle.TotalDays),
		slog.Int("pain_samples", len(bundle.PainSamples)),
		slog.Int("diagnostics", len(bundle.Diagnostics)),
	)

	report := models.Report{
		GeneratedAt: now,
		Diagnostics: bundle.Diagnostics,
	}

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		report.Digestive = p.digestive.Analyze(bundle.BowelMovements, now)
	}()
	go func() {
		defer wg.Done()
		report.Crisis = p.crisis.Analyze(bundle.PainSamples)
	}()
	go func() {
		defer wg.Done()
		report.Activity = p.activity.Analyze(bundle.Activities, bundle.TotalDays)
	}()
	go func() {
		defer wg.Done()
		report.Correlations, report.Trends = p.correlations.Analyze(bundle)
	}()
	wg.Wait()

	return report, bundle
}
