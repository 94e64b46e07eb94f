package engine

import (
	"math"
	"sort"
	"time"

	"github.com/healthsignals/insights-engine/internal/models"
	"github.com/healthsignals/insights-engine/internal/utils"
)

// DigestiveAnalyzer classifies inter-evacuation intervals into a fixed
// monotonic threshold ladder.
type DigestiveAnalyzer struct{}

// NewDigestiveAnalyzer constructs a DigestiveAnalyzer.
func NewDigestiveAnalyzer() *DigestiveAnalyzer {
	return &DigestiveAnalyzer{}
}

var digestiveRecommendations = map[models.DigestiveStatus]string{
	models.DigestiveNormal:   "Ritmo intestinal dentro do esperado. Mantenha hidratação e fibras na dieta.",
	models.DigestiveMild:     "Intervalos levemente alongados. Aumente ingestão de água e fibras e observe os próximos dias.",
	models.DigestiveModerate: "Intervalos moderadamente alongados. Considere conversar com sua equipe de saúde sobre o trânsito intestinal.",
	models.DigestiveSevere:   "Intervalos longos entre evacuações. Procure orientação médica para avaliar constipação.",
	models.DigestiveNoData:   "Sem registros de evacuação no período. Responda à pergunta do check-in matinal para acompanharmos esse sinal.",
}

// Analyze computes interval statistics over evacuation events. "now" is an
// injected parameter so days-since-last is testable and runs over the same
// input stay reproducible.
func (d *DigestiveAnalyzer) Analyze(records []models.BowelMovementRecord, now time.Time) models.DigestiveProfile {
	events := make([]models.BowelMovementRecord, 0, len(records))
	for _, r := range records {
		if r.Evacuated {
			events = append(events, r)
		}
	}

	if len(events) == 0 {
		// Absence of evidence is not evidence of normalcy.
		return models.DigestiveProfile{
			Status:         models.DigestiveNoData,
			Recommendation: digestiveRecommendations[models.DigestiveNoData],
		}
	}

	sort.Slice(events, func(i, j int) bool { return events[i].Date.Before(events[j].Date) })

	intervals := make([]int, 0, len(events)-1)
	maxInterval := 0
	sum := 0
	for i := 1; i < len(events); i++ {
		gap := utils.DaysBetween(events[i-1].Date, events[i].Date)
		intervals = append(intervals, gap)
		sum += gap
		if gap > maxInterval {
			maxInterval = gap
		}
	}

	average := 0.0
	if len(intervals) > 0 {
		average = math.Round(float64(sum)/float64(len(intervals))*10) / 10
	}

	status := classifyDigestive(maxInterval, average)

	return models.DigestiveProfile{
		HasData:         true,
		Intervals:       intervals,
		AverageInterval: average,
		MaxInterval:     maxInterval,
		DaysSinceLast:   utils.DaysBetween(events[len(events)-1].Date, now),
		Status:          status,
		Recommendation:  digestiveRecommendations[status],
	}
}

// classifyDigestive walks the threshold ladder from least to most severe;
// raising maxInterval can only move the result towards severe. The average
// bounds the lower tiers only; a week-long worst gap is what pushes a
// patient into severe (intervals [3 6] with average 4.5 stay moderate).
func classifyDigestive(maxInterval int, average float64) models.DigestiveStatus {
	switch {
	case maxInterval <= 3 && average <= 2:
		return models.DigestiveNormal
	case maxInterval <= 5 && average <= 3:
		return models.DigestiveMild
	case maxInterval <= 7:
		return models.DigestiveModerate
	default:
		return models.DigestiveSevere
	}
}
