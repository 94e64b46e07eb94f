package engine

import (
	"math"
	"sort"

	"github.com/healthsignals/insights-engine/internal/models"
)

// DefaultCrisisThreshold is the EVA level at or above which a pain sample
// counts as a crisis.
const DefaultCrisisThreshold = 7.0

// CrisisAnalyzer builds time-of-day histograms over crisis-level pain
// samples. Day keys carry no real timestamp, so the hour of a crisis is
// inferred from the survey type; the resulting profile is explicitly
// labelled as approximated, never presented as measured fact.
type CrisisAnalyzer struct {
	threshold float64
}

// NewCrisisAnalyzer constructs a CrisisAnalyzer; a non-positive threshold
// falls back to the default.
func NewCrisisAnalyzer(threshold float64) *CrisisAnalyzer {
	if threshold <= 0 {
		threshold = DefaultCrisisThreshold
	}
	return &CrisisAnalyzer{threshold: threshold}
}

// Representative hours per survey type, used when a sample has no
// time-of-day component.
var surveyHour = map[models.SurveyType]int{
	models.SurveyMorning:   8,
	models.SurveyEmergency: 14,
	models.SurveyEvening:   20,
}

var periodOrder = []models.DayPeriod{
	models.PeriodDawn,
	models.PeriodMorning,
	models.PeriodAfternoon,
	models.PeriodEvening,
}

// Analyze buckets crisis samples into hourly and period histograms and
// labels the dominant period's risk.
func (c *CrisisAnalyzer) Analyze(samples []models.PainSample) models.CrisisTemporalProfile {
	crises := make([]models.PainSample, 0, len(samples))
	for _, s := range samples {
		if s.Level >= c.threshold {
			crises = append(crises, s)
		}
	}

	if len(crises) == 0 {
		return models.CrisisTemporalProfile{
			PeriodRisk: models.RiskLow,
			Basis:      "nenhuma crise registrada no período",
		}
	}

	hourCounts := make(map[int]int)
	approximated := false
	for _, s := range crises {
		hour := s.Date.Hour()
		if !s.HasTime {
			// Bare day keys carry no clock; fall back to the survey type's
			// representative hour. A measured midnight keeps its hour.
			if h, ok := surveyHour[s.Survey]; ok {
				hour = h
			} else {
				hour = surveyHour[models.SurveyEvening]
			}
			approximated = true
		}
		hourCounts[hour]++
	}

	total := float64(len(crises))
	hourHist := make(map[int]float64, len(hourCounts))
	periodHist := map[models.DayPeriod]float64{
		models.PeriodDawn:      0,
		models.PeriodMorning:   0,
		models.PeriodAfternoon: 0,
		models.PeriodEvening:   0,
	}

	for hour, count := range hourCounts {
		share := math.Round(float64(count)/total*1000) / 10
		hourHist[hour] = share
		periodHist[periodOf(hour)] += share
	}

	peakHours := make([]int, 0, len(hourHist))
	for hour, share := range hourHist {
		if share >= 20 {
			peakHours = append(peakHours, hour)
		}
	}
	sort.Ints(peakHours)

	dominant := periodOrder[0]
	for _, p := range periodOrder {
		if periodHist[p] > periodHist[dominant] {
			dominant = p
		}
	}

	basis := "horários medidos nos registros"
	if approximated {
		basis = "horários aproximados a partir do tipo de check-in, não medidos"
	}

	return models.CrisisTemporalProfile{
		HasData:         true,
		TotalCrises:     len(crises),
		HourHistogram:   hourHist,
		PeriodHistogram: periodHist,
		PeakHours:       peakHours,
		DominantPeriod:  dominant,
		PeriodRisk:      riskOf(periodHist[dominant]),
		Approximated:    approximated,
		Basis:           basis,
	}
}

func periodOf(hour int) models.DayPeriod {
	switch {
	case hour <= 5:
		return models.PeriodDawn
	case hour <= 11:
		return models.PeriodMorning
	case hour <= 17:
		return models.PeriodAfternoon
	default:
		return models.PeriodEvening
	}
}

func riskOf(share float64) models.RiskLevel {
	switch {
	case share >= 40:
		return models.RiskHigh
	case share >= 20:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}
