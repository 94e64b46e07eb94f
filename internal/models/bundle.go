package models

import "time"

// PainSample is one EVA pain-scale reading (0-10) tied to a day key.
// HasTime reports whether Date carries a measured time of day rather than
// the midnight placeholder of a bare day key.
type PainSample struct {
	Day     string     `json:"day"`
	Date    time.Time  `json:"date"`
	HasTime bool       `json:"hasTime"`
	Level   float64    `json:"level"`
	Survey  SurveyType `json:"survey"`
}

// FatigueSample is one fatigue reading (0-5) from the evening survey.
type FatigueSample struct {
	Day   string    `json:"day"`
	Date  time.Time `json:"date"`
	Level float64   `json:"level"`
}

// BowelMovementRecord marks whether an evacuation happened on a day.
type BowelMovementRecord struct {
	Day       string    `json:"day"`
	Date      time.Time `json:"date"`
	Evacuated bool      `json:"evacuated"`
}

// TreatmentActivity accumulates how often a normalized therapy was performed.
type TreatmentActivity struct {
	Name      string   `json:"name"`
	Frequency int      `json:"frequency"`
	Days      []string `json:"days"`
}

// TherapyNonAdherence records a day on which no treatment was performed.
type TherapyNonAdherence struct {
	Day    string `json:"day"`
	Reason string `json:"reason"`
}

// TriggerRecord accumulates how often a normalized trigger was reported.
type TriggerRecord struct {
	Name      string   `json:"name"`
	Frequency int      `json:"frequency"`
	Days      []string `json:"days"`
}

// MedicationMention is a rescue-medication answer, validated or rejected.
type MedicationMention struct {
	Day    string     `json:"day"`
	Survey SurveyType `json:"survey"`
	Text   string     `json:"text"`
}

// SleepSample is an ordinal sleep-quality token mapped onto a numeric score.
type SleepSample struct {
	Day   string  `json:"day"`
	Token string  `json:"token"`
	Score float64 `json:"score"`
}

// MoodSample is an ordinal emotional-state token mapped onto a numeric score.
type MoodSample struct {
	Day   string  `json:"day"`
	Token string  `json:"token"`
	Score float64 `json:"score"`
}

// ActivityMention records one activity reported on a day.
type ActivityMention struct {
	Day  string `json:"day"`
	Name string `json:"name"`
}

// FreeTextEntry buckets prose answers for the downstream NLP consumer.
type FreeTextEntry struct {
	Day                string     `json:"day"`
	Survey             SurveyType `json:"survey"`
	Text               string     `json:"text"`
	MentionsMedication bool       `json:"mentionsMedication"`
}

// Observation is a classified-but-unaggregated answer kept for auditability.
type Observation struct {
	Day      string     `json:"day"`
	Survey   SurveyType `json:"survey"`
	Question string     `json:"question"`
	Category string     `json:"category"`
	Detail   string     `json:"detail"`
}

// DiagnosticKind partitions data-quality events emitted during aggregation.
type DiagnosticKind string

const (
	DiagShapeError    DiagnosticKind = "shape_error"
	DiagDataQuality   DiagnosticKind = "data_quality"
	DiagInconsistency DiagnosticKind = "inconsistency"
	DiagRejectedEntry DiagnosticKind = "rejected_entry"
)

// Diagnostic is a structured data-quality event. Diagnostics replace
// log-text side channels so callers and tests can assert on them.
type Diagnostic struct {
	Kind     DiagnosticKind `json:"kind"`
	Day      string         `json:"day"`
	Survey   SurveyType     `json:"survey,omitempty"`
	Question string         `json:"question,omitempty"`
	Detail   string         `json:"detail"`
}

// AggregateBundle is the single accumulator one aggregation run produces.
// It is written by the aggregation engine only and handed to the analyzers
// read-only; re-running over the same records yields an identical bundle.
type AggregateBundle struct {
	PainSamples     []PainSample                  `json:"painSamples"`
	PainLocations   map[string]int                `json:"painLocations"`
	Symptoms        map[string]int                `json:"symptoms"`
	BowelMovements  []BowelMovementRecord         `json:"bowelMovements"`
	Treatments      map[string]*TreatmentActivity `json:"treatments"`
	NonAdherence    []TherapyNonAdherence         `json:"nonAdherence"`
	Triggers        map[string]*TriggerRecord     `json:"triggers"`
	RescueValidated []MedicationMention           `json:"rescueValidated"`
	RescueRejected  []MedicationMention           `json:"rescueRejected"`
	FatigueSamples  []FatigueSample               `json:"fatigueSamples"`
	SleepSamples    []SleepSample                 `json:"sleepSamples"`
	MoodSamples     []MoodSample                  `json:"moodSamples"`
	Activities      []ActivityMention             `json:"activities"`
	FreeText        []FreeTextEntry               `json:"freeText"`
	Observations    []Observation                 `json:"observations"`
	Diagnostics     []Diagnostic                  `json:"diagnostics"`
	CategoryCounts  map[string]int                `json:"categoryCounts"`
	TotalDays       int                           `json:"totalDays"`
}

// NewAggregateBundle returns an empty bundle with initialised tallies.
func NewAggregateBundle() *AggregateBundle {
	return &AggregateBundle{
		PainLocations:  make(map[string]int),
		Symptoms:       make(map[string]int),
		Treatments:     make(map[string]*TreatmentActivity),
		Triggers:       make(map[string]*TriggerRecord),
		CategoryCounts: make(map[string]int),
	}
}
