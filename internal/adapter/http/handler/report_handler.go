package handler

import (
	"context"
	"net/http"

	"github.com/mizanhq/mizan/internal/adapter/http/dto"
	"github.com/mizanhq/mizan/internal/domain"
	"github.com/mizanhq/mizan/internal/usecase"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error)
	Summary(ctx context.Context) (*usecase.LedgerSummary, error)
	ListActions(ctx context.Context, filter domain.ActionFilter) ([]*domain.ActionLog, error)
}

// ReportHandler handles reporting and audit HTTP requests.
type ReportHandler struct {
	reportUC ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC ReportService) *ReportHandler {
	return &ReportHandler{reportUC: reportUC}
}

// Summary returns ledger-wide receivable and payable totals.
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.reportUC.Summary(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get summary", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Consistency compares every party's stored balance against a resum of its
// documents and reports any drift.
func (h *ReportHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportUC.CheckConsistency(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to check consistency", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyFromReport(report))
}

// Actions lists action-log entries with filtering.
func (h *ReportHandler) Actions(w http.ResponseWriter, r *http.Request) {
	filter := domain.ActionFilter{
		Actor:        r.URL.Query().Get("actor"),
		Action:       r.URL.Query().Get("action"),
		ResourceType: r.URL.Query().Get("resource_type"),
		ResourceID:   r.URL.Query().Get("resource_id"),
		StartDate:    parseTimeQuery(r, "start_date"),
		EndDate:      parseTimeQuery(r, "end_date"),
		Limit:        parseIntQuery(r, "limit", 50),
		Offset:       parseIntQuery(r, "offset", 0),
	}

	logs, err := h.reportUC.ListActions(r.Context(), filter)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list actions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"actions": dto.ActionLogsFromDomain(logs),
		"total":   len(logs),
	})
}
