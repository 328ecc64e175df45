package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mizanhq/mizan/internal/adapter/http/dto"
	"github.com/mizanhq/mizan/internal/usecase"
)

// StatementService defines the behavior needed by StatementHandler.
type StatementService interface {
	GetStatement(ctx context.Context, input usecase.GetStatementInput) (*usecase.Statement, error)
}

// StatementHandler handles party statement HTTP requests.
type StatementHandler struct {
	statementUC StatementService
}

// NewStatementHandler creates a new StatementHandler.
func NewStatementHandler(statementUC StatementService) *StatementHandler {
	return &StatementHandler{statementUC: statementUC}
}

// Get assembles a statement for a party, optionally limited to a date range
// via the from and to query parameters.
func (h *StatementHandler) Get(w http.ResponseWriter, r *http.Request) {
	partyID := chi.URLParam(r, "id")
	if partyID == "" {
		writeError(w, http.StatusBadRequest, "missing party ID", "")
		return
	}

	statement, err := h.statementUC.GetStatement(r.Context(), usecase.GetStatementInput{
		PartyID: partyID,
		From:    parseTimeQuery(r, "from"),
		To:      parseTimeQuery(r, "to"),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get statement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.StatementFromDomain(statement))
}
