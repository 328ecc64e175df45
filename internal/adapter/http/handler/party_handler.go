package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mizanhq/mizan/internal/adapter/http/dto"
	"github.com/mizanhq/mizan/internal/domain"
	"github.com/mizanhq/mizan/internal/infrastructure/metrics"
	"github.com/mizanhq/mizan/internal/usecase"
)

// PartyService defines the behavior needed by PartyHandler.
type PartyService interface {
	CreateParty(ctx context.Context, input usecase.CreatePartyInput) (*domain.Party, error)
	GetParty(ctx context.Context, id string) (*domain.Party, error)
	ListParties(ctx context.Context, input usecase.ListPartiesInput) ([]*domain.Party, error)
	DeactivateParty(ctx context.Context, id, actor string) error
}

// PartyHandler handles customer and supplier HTTP requests.
type PartyHandler struct {
	partyUC PartyService
	metrics *metrics.Metrics
}

// NewPartyHandler creates a new PartyHandler.
func NewPartyHandler(partyUC PartyService, m *metrics.Metrics) *PartyHandler {
	return &PartyHandler{partyUC: partyUC, metrics: m}
}

// Create creates a new party.
func (h *PartyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePartyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	party, err := h.partyUC.CreateParty(r.Context(), req.ToUseCaseInput(actorFrom(r)))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create party", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.PartiesCreated.WithLabelValues(string(party.Kind)).Inc()
	}

	writeJSON(w, http.StatusCreated, dto.PartyFromDomain(party))
}

// Get retrieves a party by ID.
func (h *PartyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing party ID", "")
		return
	}

	party, err := h.partyUC.GetParty(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get party", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PartyFromDomain(party))
}

// List lists parties, optionally filtered by kind.
func (h *PartyHandler) List(w http.ResponseWriter, r *http.Request) {
	input := usecase.ListPartiesInput{
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	}

	if kindParam := r.URL.Query().Get("kind"); kindParam != "" {
		kind := domain.PartyKind(kindParam)
		if !kind.Valid() {
			writeError(w, http.StatusBadRequest, "invalid party kind", kindParam)
			return
		}
		input.Kind = &kind
	}

	parties, err := h.partyUC.ListParties(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list parties", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListPartiesResponse{
		Parties: dto.PartiesFromDomain(parties),
		Total:   int64(len(parties)),
	})
}

// Deactivate marks a party inactive.
func (h *PartyHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing party ID", "")
		return
	}

	if err := h.partyUC.DeactivateParty(r.Context(), id, actorFrom(r)); err != nil {
		writeError(w, mapDomainError(err), "failed to deactivate party", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.PartiesDeactivated.Inc()
	}

	w.WriteHeader(http.StatusNoContent)
}
