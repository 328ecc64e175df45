package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mizanhq/mizan/internal/adapter/http/dto"
	"github.com/mizanhq/mizan/internal/domain"
	"github.com/mizanhq/mizan/internal/infrastructure/metrics"
	"github.com/mizanhq/mizan/internal/usecase"
)

// DocumentService defines the behavior needed by DocumentHandler.
type DocumentService interface {
	CreateDocument(ctx context.Context, input usecase.CreateDocumentInput) (*domain.Document, error)
	GetDocument(ctx context.Context, id string) (*domain.Document, error)
	UpdateDocument(ctx context.Context, input usecase.UpdateDocumentInput) (*domain.Document, error)
	DeleteDocument(ctx context.Context, input usecase.DeleteDocumentInput) error
	ListDocumentsByParty(ctx context.Context, input usecase.ListDocumentsByPartyInput) ([]*domain.Document, error)
	RecomputeFromHistory(ctx context.Context, input usecase.RecomputeInput) (*usecase.RecomputeResult, error)
}

// DocumentHandler handles financial document HTTP requests. Writes run
// through the retrier so a serialization failure under concurrent edits to
// the same party surfaces as a retry, not a client error.
type DocumentHandler struct {
	ledgerUC DocumentService
	retrier  usecase.Retrier
	metrics  *metrics.Metrics
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(ledgerUC DocumentService, retrier usecase.Retrier, m *metrics.Metrics) *DocumentHandler {
	return &DocumentHandler{ledgerUC: ledgerUC, retrier: retrier, metrics: m}
}

// Create creates a new document and applies its effect to the party balance.
func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input := req.ToUseCaseInput(actorFrom(r))

	var doc *domain.Document
	err := h.retry(r.Context(), func() error {
		var opErr error
		doc, opErr = h.ledgerUC.CreateDocument(r.Context(), input)
		return opErr
	})
	if err != nil {
		h.countError(err)
		writeError(w, mapDomainError(err), "failed to create document", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.DocumentsCreated.WithLabelValues(string(doc.Kind)).Inc()
		h.metrics.DocumentAmount.Observe(doc.SignedEffect().Abs().InexactFloat64())
		if input.ConfirmNegative && doc.NewBalance.IsNegative() {
			h.metrics.NegativeBalanceConfirmations.Inc()
		}
	}

	writeJSON(w, http.StatusCreated, dto.DocumentFromDomain(doc))
}

// Get retrieves a document by ID.
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing document ID", "")
		return
	}

	doc, err := h.ledgerUC.GetDocument(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get document", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DocumentFromDomain(doc))
}

// Update edits a document and re-applies its effect.
func (h *DocumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing document ID", "")
		return
	}

	var req dto.UpdateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input := req.ToUseCaseInput(id, actorFrom(r))

	var doc *domain.Document
	err := h.retry(r.Context(), func() error {
		var opErr error
		doc, opErr = h.ledgerUC.UpdateDocument(r.Context(), input)
		return opErr
	})
	if err != nil {
		h.countError(err)
		writeError(w, mapDomainError(err), "failed to update document", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.DocumentsUpdated.WithLabelValues(string(doc.Kind)).Inc()
	}

	writeJSON(w, http.StatusOK, dto.DocumentFromDomain(doc))
}

// Delete removes a document and reverses its effect on the party balance.
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing document ID", "")
		return
	}

	input := usecase.DeleteDocumentInput{ID: id, Actor: actorFrom(r)}

	err := h.retry(r.Context(), func() error {
		return h.ledgerUC.DeleteDocument(r.Context(), input)
	})
	if err != nil {
		h.countError(err)
		writeError(w, mapDomainError(err), "failed to delete document", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.DocumentsDeleted.WithLabelValues("document").Inc()
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListByParty lists a party's documents in creation order.
func (h *DocumentHandler) ListByParty(w http.ResponseWriter, r *http.Request) {
	partyID := chi.URLParam(r, "id")
	if partyID == "" {
		writeError(w, http.StatusBadRequest, "missing party ID", "")
		return
	}

	docs, err := h.ledgerUC.ListDocumentsByParty(r.Context(), usecase.ListDocumentsByPartyInput{
		PartyID: partyID,
		Limit:   parseIntQuery(r, "limit", 20),
		Offset:  parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list documents", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListDocumentsResponse{
		Documents: dto.DocumentsFromDomain(docs),
		Total:     int64(len(docs)),
	})
}

// Recompute resums the party's documents and repairs the stored balance.
func (h *DocumentHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	partyID := chi.URLParam(r, "id")
	if partyID == "" {
		writeError(w, http.StatusBadRequest, "missing party ID", "")
		return
	}

	input := usecase.RecomputeInput{PartyID: partyID, Actor: actorFrom(r)}

	var result *usecase.RecomputeResult
	err := h.retry(r.Context(), func() error {
		var opErr error
		result, opErr = h.ledgerUC.RecomputeFromHistory(r.Context(), input)
		return opErr
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to recompute balance", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.RecomputeRuns.Inc()
		if !result.Difference.IsZero() {
			h.metrics.RecomputeDrifts.Inc()
		}
	}

	writeJSON(w, http.StatusOK, dto.RecomputeFromResult(result))
}

func (h *DocumentHandler) retry(ctx context.Context, operation func() error) error {
	if h.retrier == nil {
		return operation()
	}
	return h.retrier.Retry(ctx, operation)
}

func (h *DocumentHandler) countError(err error) {
	if h.metrics == nil {
		return
	}

	errorType := "internal"
	switch {
	case errors.Is(err, domain.ErrNegativeBalance):
		errorType = "negative_balance"
	case errors.Is(err, domain.ErrPartyInactive):
		errorType = "party_inactive"
	case errors.Is(err, domain.ErrPartyKindMismatch):
		errorType = "kind_mismatch"
	case errors.Is(err, domain.ErrPartyNotFound), errors.Is(err, domain.ErrDocumentNotFound):
		errorType = "not_found"
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrInvalidDocumentKind):
		errorType = "validation"
	}
	h.metrics.DocumentErrors.WithLabelValues(errorType).Inc()
}
