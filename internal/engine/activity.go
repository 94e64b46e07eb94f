package engine

import (
	"math"
	"sort"

	"github.com/healthsignals/insights-engine/internal/models"
)

// DefaultObservationWindow is the assumed day count when the record set
// carried no usable day signal at all.
const DefaultObservationWindow = 30

// ActivityAnalyzer computes the active-day ratio and the per-activity
// breakdown of the observation window.
type ActivityAnalyzer struct {
	fallbackWindow int
}

// NewActivityAnalyzer constructs an ActivityAnalyzer. window is the assumed
// day count when the records carry no usable day signal; zero or negative
// selects DefaultObservationWindow.
func NewActivityAnalyzer(window int) *ActivityAnalyzer {
	if window <= 0 {
		window = DefaultObservationWindow
	}
	return &ActivityAnalyzer{fallbackWindow: window}
}

var activityRecommendations = map[models.ActivityLevel]string{
	models.ActivityVeryActive:       "Excelente regularidade de atividades. Mantenha o ritmo respeitando seus limites de dor.",
	models.ActivityModeratelyActive: "Boa frequência de atividades. Tente distribuir melhor os dias ativos ao longo da semana.",
	models.ActivityLightlyActive:    "Atividade presente, mas pouco frequente. Pequenas caminhadas diárias podem ajudar.",
	models.ActivitySedentary:        "Poucos dias ativos no período. Converse com sua equipe sobre atividades compatíveis com seu quadro.",
}

// Analyze computes the activity profile. totalDays comes from the bundle's
// observed-day count; when it is zero the analyzer assumes a conservative
// default window instead of dividing by zero.
func (a *ActivityAnalyzer) Analyze(mentions []models.ActivityMention, totalDays int) models.ActivityProfile {
	if len(mentions) == 0 {
		return models.ActivityProfile{
			TotalDays:      totalDays,
			Level:          models.ActivitySedentary,
			Recommendation: activityRecommendations[models.ActivitySedentary],
		}
	}

	activeDaySet := make(map[string]struct{})
	counts := make(map[string]int)
	for _, m := range mentions {
		activeDaySet[m.Day] = struct{}{}
		counts[m.Name]++
	}
	activeDays := len(activeDaySet)

	if totalDays <= 0 {
		totalDays = a.fallbackWindow
	}
	if totalDays < activeDays {
		totalDays = activeDays
	}

	percentage := math.Round(float64(activeDays)/float64(totalDays)*1000) / 10

	breakdown := make([]models.ActivityShare, 0, len(counts))
	totalMentions := float64(len(mentions))
	for name, count := range counts {
		breakdown = append(breakdown, models.ActivityShare{
			Name:       name,
			Count:      count,
			Percentage: math.Round(float64(count)/totalMentions*1000) / 10,
		})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Count != breakdown[j].Count {
			return breakdown[i].Count > breakdown[j].Count
		}
		return breakdown[i].Name < breakdown[j].Name
	})

	level := classifyActivity(percentage)

	return models.ActivityProfile{
		HasData:          true,
		ActiveDays:       activeDays,
		TotalDays:        totalDays,
		ActivePercentage: percentage,
		Breakdown:        breakdown,
		Level:            level,
		Recommendation:   activityRecommendations[level],
	}
}

func classifyActivity(percentage float64) models.ActivityLevel {
	switch {
	case percentage >= 70:
		return models.ActivityVeryActive
	case percentage >= 50:
		return models.ActivityModeratelyActive
	case percentage >= 25:
		return models.ActivityLightlyActive
	default:
		return models.ActivitySedentary
	}
}
