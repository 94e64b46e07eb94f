package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/healthsignals/insights-engine/internal/models"
)

// ReportArchive persists report summaries and patient feedback in Postgres.
// Only the slim summary row is stored; report bodies are recomputed from raw
// records on demand.
type ReportArchive struct {
	db *sql.DB
}

// NewReportArchive wraps an open Postgres handle.
func NewReportArchive(db *sql.DB) *ReportArchive {
	return &ReportArchive{db: db}
}

// EnsureSchema creates the archive tables when they do not exist yet.
func (a *ReportArchive) EnsureSchema(ctx context.Context) error {
	if a == nil || a.db == nil {
		return fmt.Errorf("report archive not initialised")
	}
	const schema = `
CREATE TABLE IF NOT EXISTS report_summaries (
	report_id        TEXT PRIMARY KEY,
	patient_id       TEXT NOT NULL,
	window_from      TEXT NOT NULL,
	window_to        TEXT NOT NULL,
	generated_at     TIMESTAMPTZ NOT NULL,
	digestive_status TEXT NOT NULL,
	period_risk      TEXT NOT NULL,
	activity_level   TEXT NOT NULL,
	top_triggers     TEXT[] NOT NULL DEFAULT '{}',
	top_treatments   TEXT[] NOT NULL DEFAULT '{}',
	diagnostic_count INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS report_summaries_patient_idx
	ON report_summaries (patient_id, generated_at DESC);

CREATE TABLE IF NOT EXISTS report_feedback (
	report_id    TEXT NOT NULL REFERENCES report_summaries (report_id),
	patient_id   TEXT NOT NULL,
	helpful      BOOLEAN NOT NULL,
	notes        TEXT NOT NULL DEFAULT '',
	submitted_at TIMESTAMPTZ NOT NULL
);`
	if _, err := a.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure archive schema: %w", err)
	}
	return nil
}

// SaveSummary inserts one report summary row.
func (a *ReportArchive) SaveSummary(ctx context.Context, summary models.ReportSummary) error {
	if a == nil || a.db == nil {
		return fmt.Errorf("report archive not initialised")
	}
	const stmt = `
INSERT INTO report_summaries (
	report_id, patient_id, window_from, window_to, generated_at,
	digestive_status, period_risk, activity_level,
	top_triggers, top_treatments, diagnostic_count
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (report_id) DO NOTHING`
	_, err := a.db.ExecContext(ctx, stmt,
		summary.ReportID,
		summary.PatientID,
		summary.From,
		summary.To,
		summary.GeneratedAt,
		string(summary.DigestiveStatus),
		string(summary.PeriodRisk),
		string(summary.ActivityLevel),
		pq.Array(summary.TopTriggers),
		pq.Array(summary.TopTreatments),
		summary.DiagnosticCount,
	)
	if err != nil {
		return fmt.Errorf("save report summary: %w", err)
	}
	return nil
}

// ListSummaries returns a patient's archived summaries, newest first.
func (a *ReportArchive) ListSummaries(ctx context.Context, patientID string, limit int) ([]models.ReportSummary, error) {
	if a == nil || a.db == nil {
		return nil, fmt.Errorf("report archive not initialised")
	}
	if limit <= 0 {
		limit = 50
	}
	const query = `
SELECT report_id, patient_id, window_from, window_to, generated_at,
	digestive_status, period_risk, activity_level,
	top_triggers, top_treatments, diagnostic_count
FROM report_summaries
WHERE patient_id = $1
ORDER BY generated_at DESC
LIMIT $2`
	rows, err := a.db.QueryContext(ctx, query, patientID, limit)
	if err != nil {
		return nil, fmt.Errorf("list report summaries: %w", err)
	}
	defer rows.Close()

	var summaries []models.ReportSummary
	for rows.Next() {
		var s models.ReportSummary
		if err := rows.Scan(
			&s.ReportID,
			&s.PatientID,
			&s.From,
			&s.To,
			&s.GeneratedAt,
			&s.DigestiveStatus,
			&s.PeriodRisk,
			&s.ActivityLevel,
			pq.Array(&s.TopTriggers),
			pq.Array(&s.TopTreatments),
			&s.DiagnosticCount,
		); err != nil {
			return nil, fmt.Errorf("scan report summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate report summaries: %w", err)
	}
	return summaries, nil
}

// SaveFeedback inserts one feedback row for an archived report.
func (a *ReportArchive) SaveFeedback(ctx context.Context, feedback models.Feedback) error {
	if a == nil || a.db == nil {
		return fmt.Errorf("report archive not initialised")
	}
	const stmt = `
INSERT INTO report_feedback (report_id, patient_id, helpful, notes, submitted_at)
VALUES ($1, $2, $3, $4, $5)`
	_, err := a.db.ExecContext(ctx, stmt,
		feedback.ReportID,
		feedback.PatientID,
		feedback.Helpful,
		feedback.Notes,
		feedback.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("save report feedback: %w", err)
	}
	return nil
}
