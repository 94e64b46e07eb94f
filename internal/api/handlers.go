package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/healthsignals/insights-engine/internal/models"
	"github.com/healthsignals/insights-engine/internal/services"
)

// ReportService is the surface the HTTP handlers need from the service layer.
type ReportService interface {
	GenerateReport(ctx context.Context, patientID, from, to string) (models.Report, error)
	ListReports(ctx context.Context, patientID string, limit int) ([]models.ReportSummary, error)
	GetPatterns(ctx context.Context, patientID string) ([]models.RecurringPattern, error)
	SubmitFeedback(ctx context.Context, feedback models.Feedback) error
}

// Handler exposes the report service over JSON endpoints.
type Handler struct {
	logger  *slog.Logger
	service ReportService
}

// NewHandler constructs the HTTP handler set.
func NewHandler(logger *slog.Logger, service ReportService) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

// RegisterRoutes mounts the report endpoints on the router.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/reports", h.GenerateReport)
	r.Get("/reports", h.ListReports)
	r.Get("/patterns", h.GetPatterns)
	r.Post("/feedback", h.SubmitFeedback)
}

type generateReportRequest struct {
	PatientID string `json:"patient_id"`
	From      string `json:"from"`
	To        string `json:"to"`
}

// GenerateReport runs the full pipeline for the requested window.
func (h *Handler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	var req generateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := h.service.GenerateReport(r.Context(), req.PatientID, req.From, req.To)
	if err != nil {
		h.writeServiceError(w, "generate report", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ListReports returns archived report summaries for a patient.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	patientID := r.URL.Query().Get("patient_id")
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	summaries, err := h.service.ListReports(r.Context(), patientID, limit)
	if err != nil {
		h.writeServiceError(w, "list reports", err)
		return
	}
	if summaries == nil {
		summaries = []models.ReportSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": summaries})
}

// GetPatterns returns recurring patterns mined from the report history.
func (h *Handler) GetPatterns(w http.ResponseWriter, r *http.Request) {
	patientID := r.URL.Query().Get("patient_id")

	found, err := h.service.GetPatterns(r.Context(), patientID)
	if err != nil {
		h.writeServiceError(w, "get patterns", err)
		return
	}
	if found == nil {
		found = []models.RecurringPattern{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"patterns": found})
}

// SubmitFeedback records patient feedback about a report.
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var feedback models.Feedback
	if err := json.NewDecoder(r.Body).Decode(&feedback); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.SubmitFeedback(r.Context(), feedback); err != nil {
		h.writeServiceError(w, "submit feedback", err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"accepted": true})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.logger.Error(op+" failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, op+" failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
