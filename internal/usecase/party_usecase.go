package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mizanhq/mizan/internal/domain"
)

// PartyUseCase handles customer/supplier account business logic.
type PartyUseCase struct {
	txManager  TransactionManager
	partyRepo  PartyRepository
	outboxRepo OutboxRepository
	actionRepo ActionLogRepository
	idGen      IDGenerator
}

// NewPartyUseCase creates a new PartyUseCase.
func NewPartyUseCase(
	txManager TransactionManager,
	partyRepo PartyRepository,
	outboxRepo OutboxRepository,
	actionRepo ActionLogRepository,
	idGen IDGenerator,
) *PartyUseCase {
	return &PartyUseCase{
		txManager:  txManager,
		partyRepo:  partyRepo,
		outboxRepo: outboxRepo,
		actionRepo: actionRepo,
		idGen:      idGen,
	}
}

// CreatePartyInput represents input for creating a party.
type CreatePartyInput struct {
	Code           string
	Name           string
	Kind           domain.PartyKind
	OpeningBalance decimal.Decimal
	Actor          string
}

// CreateParty creates a new customer or supplier. The opening balance is the
// starting point of the running balance; it is recorded once and never
// changes afterwards. The insert, the party.created outbox event, and the
// action log commit in one transaction.
func (uc *PartyUseCase) CreateParty(ctx context.Context, input CreatePartyInput) (*domain.Party, error) {
	if !input.Kind.Valid() {
		return nil, domain.ErrPartyKindMismatch
	}

	if err := domain.ValidatePartyName(input.Name); err != nil {
		return nil, err
	}

	code := strings.TrimSpace(input.Code)
	if err := domain.ValidatePartyCode(code); err != nil {
		return nil, err
	}

	existing, err := uc.partyRepo.GetByCode(ctx, code)
	if err != nil && !errors.Is(err, domain.ErrPartyNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateCode
	}

	now := time.Now().UTC()

	party := &domain.Party{
		ID:             uc.idGen.Generate(),
		Code:           code,
		Name:           strings.TrimSpace(input.Name),
		Kind:           input.Kind,
		Status:         domain.PartyStatusActive,
		Balance:        input.OpeningBalance,
		OpeningBalance: input.OpeningBalance,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.partyRepo.Create(ctx, tx, party); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   party.ID,
		AggregateType: domain.AggregateTypeParty,
		EventType:     domain.EventTypePartyCreated,
		Payload: domain.MarshalState(domain.PartyCreatedEvent{
			PartyID:        party.ID,
			Code:           party.Code,
			Name:           party.Name,
			Kind:           string(party.Kind),
			OpeningBalance: party.OpeningBalance.String(),
		}),
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	log := &domain.ActionLog{
		ID:           uc.idGen.Generate(),
		Actor:        input.Actor,
		Action:       domain.ActionPartyCreate,
		ResourceType: domain.ResourceTypeParty,
		ResourceID:   party.ID,
		RequestID:    domain.RequestIDFromContext(ctx),
		AfterState:   domain.MarshalState(party),
		Status:       domain.ActionStatusSuccess,
		CreatedAt:    now,
	}
	if err := uc.actionRepo.CreateTx(ctx, tx, log); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return party, nil
}

// GetParty retrieves a party by ID.
func (uc *PartyUseCase) GetParty(ctx context.Context, id string) (*domain.Party, error) {
	return uc.partyRepo.GetByID(ctx, id)
}

// ListPartiesInput represents input for listing parties.
type ListPartiesInput struct {
	Kind   *domain.PartyKind
	Limit  int
	Offset int
}

// ListParties lists parties with pagination, optionally filtered by kind.
func (uc *PartyUseCase) ListParties(ctx context.Context, input ListPartiesInput) ([]*domain.Party, error) {
	limit, offset, err := domain.ValidatePagination(input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}

	return uc.partyRepo.List(ctx, input.Kind, limit, offset)
}

// DeactivateParty marks a party inactive. Existing documents are untouched;
// new documents are rejected for inactive parties.
func (uc *PartyUseCase) DeactivateParty(ctx context.Context, id, actor string) error {
	party, err := uc.partyRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	if err := uc.partyRepo.SetStatus(ctx, party.ID, domain.PartyStatusInactive, now); err != nil {
		return err
	}

	log := &domain.ActionLog{
		ID:           uc.idGen.Generate(),
		Actor:        actor,
		Action:       domain.ActionPartyDeactivate,
		ResourceType: domain.ResourceTypeParty,
		ResourceID:   party.ID,
		RequestID:    domain.RequestIDFromContext(ctx),
		BeforeState:  domain.JSON{"status": string(party.Status)},
		AfterState:   domain.JSON{"status": string(domain.PartyStatusInactive)},
		Status:       domain.ActionStatusSuccess,
		CreatedAt:    now,
	}

	return uc.actionRepo.Create(ctx, log)
}
