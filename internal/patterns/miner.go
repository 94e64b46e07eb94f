package patterns

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/healthsignals/insights-engine/internal/models"
)

// Store abstracts persistence for mined patterns.
type Store interface {
	StorePatterns(ctx context.Context, patientID string, patterns []models.RecurringPattern) error
}

// Miner mines frequency-based recurring patterns from a patient's archived
// report summaries: triggers and treatments that keep showing up report
// after report.
type Miner struct {
	store      Store
	logger     *slog.Logger
	minSupport float64
}

// NewMiner constructs a Miner; store may be nil for dry runs.
func NewMiner(logger *slog.Logger, store Store, minSupport float64) *Miner {
	if logger == nil {
		logger = slog.Default()
	}
	if minSupport <= 0 || minSupport > 1 {
		minSupport = 0.3
	}
	return &Miner{store: store, logger: logger, minSupport: minSupport}
}

// Mine tallies triggers and treatments across the summaries and returns the
// names recurring in at least minSupport of them, strongest first.
func (m *Miner) Mine(ctx context.Context, patientID string, summaries []models.ReportSummary) ([]models.RecurringPattern, error) {
	if len(summaries) == 0 {
		return nil, nil
	}

	triggers := make(map[string]*nameAggregate)
	treatments := make(map[string]*nameAggregate)
	for _, summary := range summaries {
		tally(triggers, summary.TopTriggers, summary.GeneratedAt)
		tally(treatments, summary.TopTreatments, summary.GeneratedAt)
	}

	total := len(summaries)
	patterns := collect(patientID, models.PatternTrigger, triggers, total, m.minSupport)
	patterns = append(patterns, collect(patientID, models.PatternTreatment, treatments, total, m.minSupport)...)

	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].Support != patterns[j].Support {
			return patterns[i].Support > patterns[j].Support
		}
		return patterns[i].Name < patterns[j].Name
	})

	if m.store != nil && len(patterns) > 0 {
		if err := m.store.StorePatterns(ctx, patientID, patterns); err != nil {
			m.logger.Warn("pattern store failed", slog.Any("error", err))
		}
	}

	return patterns, nil
}

type nameAggregate struct {
	count    int
	lastSeen time.Time
}

func tally(m map[string]*nameAggregate, names []string, seen time.Time) {
	// One occurrence per report, even when a name repeats within the slice.
	counted := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, done := counted[name]; done {
			continue
		}
		counted[name] = struct{}{}
		agg, ok := m[name]
		if !ok {
			agg = &nameAggregate{}
			m[name] = agg
		}
		agg.count++
		if seen.After(agg.lastSeen) {
			agg.lastSeen = seen
		}
	}
}

func collect(patientID string, kind models.PatternKind, aggs map[string]*nameAggregate, total int, minSupport float64) []models.RecurringPattern {
	patterns := make([]models.RecurringPattern, 0, len(aggs))
	for name, agg := range aggs {
		support := float64(agg.count) / float64(total)
		if support < minSupport {
			continue
		}
		patterns = append(patterns, models.RecurringPattern{
			PatientID:   patientID,
			Kind:        kind,
			Name:        name,
			Occurrences: agg.count,
			Support:     support,
			LastSeen:    agg.lastSeen,
		})
	}
	return patterns
}
