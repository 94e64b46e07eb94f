package models

import "time"

// Significance bands the strength of a correlation coefficient.
type Significance string

const (
	SignificanceLow    Significance = "LOW"
	SignificanceMedium Significance = "MEDIUM"
	SignificanceHigh   Significance = "HIGH"
)

// CorrelationResult summarises a Pearson correlation over one series pairing.
type CorrelationResult struct {
	Pairing          string       `json:"pairing"`
	Coefficient      float64      `json:"coefficient"`
	Significance     Significance `json:"significance"`
	SampleSize       int          `json:"sampleSize"`
	Description      string       `json:"description"`
	DerivedProxy     bool         `json:"derivedProxy,omitempty"`
	InsufficientData bool         `json:"insufficientData,omitempty"`
}

// TrendDirection classifies a regression slope under the domain convention
// that rising pain is worsening.
type TrendDirection string

const (
	TrendImproving TrendDirection = "IMPROVING"
	TrendWorsening TrendDirection = "WORSENING"
	TrendStable    TrendDirection = "STABLE"
)

// TrendResult summarises a linear-regression trend over one series.
type TrendResult struct {
	Series           string         `json:"series"`
	Slope            float64        `json:"slope"`
	Direction        TrendDirection `json:"direction"`
	WeeklyChange     float64        `json:"weeklyChange"`
	Confidence       float64        `json:"confidence"`
	SampleSize       int            `json:"sampleSize"`
	InsufficientData bool           `json:"insufficientData,omitempty"`
}

// DigestiveStatus is the tier assigned to inter-evacuation intervals.
type DigestiveStatus string

const (
	DigestiveNormal   DigestiveStatus = "normal"
	DigestiveMild     DigestiveStatus = "mild"
	DigestiveModerate DigestiveStatus = "moderate"
	DigestiveSevere   DigestiveStatus = "severe"
	DigestiveNoData   DigestiveStatus = "no_data"
)

// DigestiveProfile is the digestive-interval report fragment.
type DigestiveProfile struct {
	HasData         bool            `json:"hasData"`
	Intervals       []int           `json:"intervals"`
	AverageInterval float64         `json:"averageInterval"`
	MaxInterval     int             `json:"maxInterval"`
	DaysSinceLast   int             `json:"daysSinceLast"`
	Status          DigestiveStatus `json:"status"`
	Recommendation  string          `json:"recommendation"`
}

// DayPeriod buckets hours of the day for crisis histograms.
type DayPeriod string

const (
	PeriodDawn      DayPeriod = "dawn"      // 0-5h
	PeriodMorning   DayPeriod = "morning"   // 6-11h
	PeriodAfternoon DayPeriod = "afternoon" // 12-17h
	PeriodEvening   DayPeriod = "evening"   // 18-23h
)

// RiskLevel labels the dominant crisis period.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// CrisisTemporalProfile is the crisis time-of-day report fragment. When
// Approximated is set the distribution was inferred from survey types, not
// measured timestamps, and Basis explains how.
type CrisisTemporalProfile struct {
	HasData         bool                  `json:"hasData"`
	TotalCrises     int                   `json:"totalCrises"`
	HourHistogram   map[int]float64       `json:"hourHistogram"`
	PeriodHistogram map[DayPeriod]float64 `json:"periodHistogram"`
	PeakHours       []int                 `json:"peakHours"`
	DominantPeriod  DayPeriod             `json:"dominantPeriod"`
	PeriodRisk      RiskLevel             `json:"periodRisk"`
	Approximated    bool                  `json:"approximated"`
	Basis           string                `json:"basis"`
}

// ActivityLevel classifies the active-day ratio.
type ActivityLevel string

const (
	ActivityVeryActive       ActivityLevel = "very_active"
	ActivityModeratelyActive ActivityLevel = "moderately_active"
	ActivityLightlyActive    ActivityLevel = "lightly_active"
	ActivitySedentary        ActivityLevel = "sedentary"
)

// ActivityShare is one entry of the per-activity breakdown.
type ActivityShare struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ActivityProfile is the activity-pattern report fragment.
type ActivityProfile struct {
	HasData          bool            `json:"hasData"`
	ActiveDays       int             `json:"activeDays"`
	TotalDays        int             `json:"totalDays"`
	ActivePercentage float64         `json:"activePercentage"`
	Breakdown        []ActivityShare `json:"breakdown"`
	Level            ActivityLevel   `json:"level"`
	Recommendation   string          `json:"recommendation"`
}

// Report is the plain-data output handed to the report-assembly consumer:
// the four analysis fragments plus correlations, trends and diagnostics.
type Report struct {
	ReportID     string                `json:"reportId"`
	PatientID    string                `json:"patientId"`
	From         string                `json:"from"`
	To           string                `json:"to"`
	GeneratedAt  time.Time             `json:"generatedAt"`
	Digestive    DigestiveProfile      `json:"digestive"`
	Crisis       CrisisTemporalProfile `json:"crisis"`
	Activity     ActivityProfile       `json:"activity"`
	Correlations []CorrelationResult   `json:"correlations"`
	Trends       []TrendResult         `json:"trends"`
	Diagnostics  []Diagnostic          `json:"diagnostics"`
}
