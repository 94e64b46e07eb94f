package engine

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/healthsignals/insights-engine/internal/models"
)

// MinCorrelationSamples is the minimum paired sample count below which
// correlation and trend results report insufficient data.
const MinCorrelationSamples = 3

// CorrelationEngine computes Pearson correlations and linear-regression
// trends over paired daily series drawn from the aggregate bundle. Every
// degenerate case (constant series, too few samples) maps to an explicit
// fallback; the engine never produces NaN or Inf.
type CorrelationEngine struct {
	logger *slog.Logger
}

// NewCorrelationEngine constructs a CorrelationEngine.
func NewCorrelationEngine(logger *slog.Logger) *CorrelationEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &CorrelationEngine{logger: logger}
}

// Analyze produces the standard pairings and trends of the patient report:
// sleep quality against morning pain, mood against evening pain, and the
// derived activity-versus-pain-inverse proxy, plus per-series trends.
func (e *CorrelationEngine) Analyze(b *models.AggregateBundle) ([]models.CorrelationResult, []models.TrendResult) {
	sleepByDay := averageByDay(b.SleepSamples, func(s models.SleepSample) (string, float64) { return s.Day, s.Score })
	moodByDay := averageByDay(b.MoodSamples, func(s models.MoodSample) (string, float64) { return s.Day, s.Score })
	fatigueByDay := averageByDay(b.FatigueSamples, func(s models.FatigueSample) (string, float64) { return s.Day, s.Level })

	morningPain := painByDay(b.PainSamples, models.SurveyMorning)
	eveningPain := painByDay(b.PainSamples, models.SurveyEvening)
	allPain := painByDay(b.PainSamples, "")

	activityByDay := make(map[string]float64)
	for _, m := range b.Activities {
		activityByDay[m.Day]++
	}

	correlations := []models.CorrelationResult{
		e.correlatePair("sono-dor", "qualidade do sono", "dor matinal", sleepByDay, morningPain, false),
		e.correlatePair("humor-dor", "estado emocional", "dor noturna", moodByDay, eveningPain, false),
		e.activityPainInverse(activityByDay, allPain),
	}

	trends := []models.TrendResult{
		e.Trend("dor", seriesByDay(allPain)),
		e.Trend("fadiga", seriesByDay(fatigueByDay)),
		e.Trend("sono", seriesByDay(sleepByDay)),
	}

	return correlations, trends
}

// Correlate computes a Pearson correlation over an already-paired series.
func (e *CorrelationEngine) Correlate(pairing string, xs, ys []float64) models.CorrelationResult {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	if n < MinCorrelationSamples {
		return models.CorrelationResult{
			Pairing:          pairing,
			Significance:     models.SignificanceLow,
			SampleSize:       n,
			Description:      "amostras insuficientes para calcular correlação",
			InsufficientData: true,
		}
	}

	r := pearson(xs[:n], ys[:n])
	return models.CorrelationResult{
		Pairing:      pairing,
		Coefficient:  r,
		Significance: significanceOf(r),
		SampleSize:   n,
		Description:  describeCorrelation(r),
	}
}

// Trend fits value = a + slope*index over the chronologically ordered
// series and classifies the slope under the rising-pain-is-worsening
// convention.
func (e *CorrelationEngine) Trend(series string, values []float64) models.TrendResult {
	n := len(values)
	if n < MinCorrelationSamples {
		return models.TrendResult{
			Series:           series,
			Direction:        models.TrendStable,
			SampleSize:       n,
			InsufficientData: true,
		}
	}

	meanIdx := float64(n-1) / 2
	meanVal := 0.0
	for _, v := range values {
		meanVal += v
	}
	meanVal /= float64(n)

	num := 0.0
	den := 0.0
	for i, v := range values {
		di := float64(i) - meanIdx
		num += di * (v - meanVal)
		den += di * di
	}

	slope := 0.0
	if den != 0 {
		slope = num / den
	}

	direction := models.TrendStable
	switch {
	case slope > 0.2:
		direction = models.TrendWorsening
	case slope < -0.2:
		direction = models.TrendImproving
	}

	confidence := float64(n) / 30
	if confidence > 0.9 {
		confidence = 0.9
	}

	return models.TrendResult{
		Series:       series,
		Slope:        slope,
		Direction:    direction,
		WeeklyChange: slope * 7,
		Confidence:   confidence,
		SampleSize:   n,
	}
}

func (e *CorrelationEngine) correlatePair(pairing, xLabel, yLabel string, xByDay, yByDay map[string]float64, derived bool) models.CorrelationResult {
	xs, ys := pairDays(xByDay, yByDay)
	result := e.Correlate(pairing, xs, ys)
	result.DerivedProxy = derived
	if !result.InsufficientData {
		result.Description = fmt.Sprintf("%s × %s: %s", xLabel, yLabel, result.Description)
	}
	return result
}

// activityPainInverse correlates daily activity volume against inverted
// pain (10 - level). The activity series is a derived heuristic score, not
// a measured quantity, and the result is flagged accordingly.
func (e *CorrelationEngine) activityPainInverse(activityByDay, painByDay map[string]float64) models.CorrelationResult {
	days := make([]string, 0, len(painByDay))
	for day := range painByDay {
		days = append(days, day)
	}
	sort.Strings(days)

	xs := make([]float64, 0, len(days))
	ys := make([]float64, 0, len(days))
	for _, day := range days {
		xs = append(xs, activityByDay[day])
		ys = append(ys, 10-painByDay[day])
	}

	result := e.Correlate("atividade-dor-inversa", xs, ys)
	result.DerivedProxy = true
	if !result.InsufficientData {
		result.Description = fmt.Sprintf("volume de atividade × bem-estar (proxy derivado, não medido): %s", result.Description)
	}
	return result
}

// pearson returns zero (never NaN) when either series has no variance.
func pearson(xs, ys []float64) float64 {
	n := float64(len(xs))
	if n == 0 {
		return 0
	}

	meanX := 0.0
	meanY := 0.0
	for i := range xs {
		meanX += xs[i]
		meanY += ys[i]
	}
	meanX /= n
	meanY /= n

	num := 0.0
	varX := 0.0
	varY := 0.0
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		num += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	den := math.Sqrt(varX * varY)
	if den == 0 {
		return 0
	}

	r := num / den
	if r > 1 {
		r = 1
	}
	if r < -1 {
		r = -1
	}
	return r
}

func significanceOf(r float64) models.Significance {
	abs := math.Abs(r)
	switch {
	case abs > 0.6:
		return models.SignificanceHigh
	case abs > 0.3:
		return models.SignificanceMedium
	default:
		return models.SignificanceLow
	}
}

func describeCorrelation(r float64) string {
	abs := math.Abs(r)
	var strength string
	switch {
	case abs > 0.6:
		strength = "correlação forte"
	case abs > 0.3:
		strength = "correlação moderada"
	default:
		strength = "correlação fraca"
	}
	if r >= 0 {
		return strength + ", as séries variam na mesma direção"
	}
	return strength + ", as séries variam em direções opostas"
}

func averageByDay[T any](samples []T, extract func(T) (string, float64)) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]float64)
	for _, s := range samples {
		day, value := extract(s)
		sums[day] += value
		counts[day]++
	}
	out := make(map[string]float64, len(sums))
	for day, sum := range sums {
		out[day] = sum / counts[day]
	}
	return out
}

// painByDay averages pain per day, optionally restricted to one survey type.
func painByDay(samples []models.PainSample, survey models.SurveyType) map[string]float64 {
	filtered := make([]models.PainSample, 0, len(samples))
	for _, s := range samples {
		if survey == "" || s.Survey == survey {
			filtered = append(filtered, s)
		}
	}
	return averageByDay(filtered, func(s models.PainSample) (string, float64) { return s.Day, s.Level })
}

// pairDays intersects two day-keyed series in sorted day order.
func pairDays(xByDay, yByDay map[string]float64) ([]float64, []float64) {
	days := make([]string, 0, len(xByDay))
	for day := range xByDay {
		if _, ok := yByDay[day]; ok {
			days = append(days, day)
		}
	}
	sort.Strings(days)

	xs := make([]float64, 0, len(days))
	ys := make([]float64, 0, len(days))
	for _, day := range days {
		xs = append(xs, xByDay[day])
		ys = append(ys, yByDay[day])
	}
	return xs, ys
}

// seriesByDay flattens a day-keyed map into chronological values.
func seriesByDay(byDay map[string]float64) []float64 {
	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	values := make([]float64, 0, len(days))
	for _, day := range days {
		values = append(values, byDay[day])
	}
	return values
}
