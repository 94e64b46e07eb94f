package models

import "time"

// PatternKind separates what a recurring pattern was mined from.
type PatternKind string

const (
	PatternTrigger   PatternKind = "trigger"
	PatternTreatment PatternKind = "treatment"
)

// RecurringPattern is a frequency-mined signal recurring across a patient's
// archived reports, e.g. a trigger that shows up report after report.
type RecurringPattern struct {
	PatientID   string      `json:"patientId"`
	Kind        PatternKind `json:"kind"`
	Name        string      `json:"name"`
	Occurrences int         `json:"occurrences"`
	Support     float64     `json:"support"`
	LastSeen    time.Time   `json:"lastSeen"`
}

// ReportSummary is the slim row archived per generated report. The bundle
// itself is never persisted; every report recomputes from raw records.
type ReportSummary struct {
	ReportID        string          `json:"reportId"`
	PatientID       string          `json:"patientId"`
	From            string          `json:"from"`
	To              string          `json:"to"`
	GeneratedAt     time.Time       `json:"generatedAt"`
	DigestiveStatus DigestiveStatus `json:"digestiveStatus"`
	PeriodRisk      RiskLevel       `json:"periodRisk"`
	ActivityLevel   ActivityLevel   `json:"activityLevel"`
	TopTriggers     []string        `json:"topTriggers"`
	TopTreatments   []string        `json:"topTreatments"`
	DiagnosticCount int             `json:"diagnosticCount"`
}

// Feedback captures patient feedback about a generated report.
type Feedback struct {
	ReportID    string    `json:"reportId"`
	PatientID   string    `json:"patientId"`
	Helpful     bool      `json:"helpful"`
	Notes       string    `json:"notes"`
	SubmittedAt time.Time `json:"submittedAt"`
}
