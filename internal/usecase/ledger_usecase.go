package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mizanhq/mizan/internal/domain"
)

// LedgerUseCase maintains the running-balance invariant for party ledgers:
// party.Balance == opening balance + sum of signed document effects, applied
// in creation order. Every operation runs as a single database transaction
// with the affected party rows locked, so either the document and the
// balance update both commit or neither does.
type LedgerUseCase struct {
	txManager  TransactionManager
	partyRepo  PartyRepository
	docRepo    DocumentRepository
	outboxRepo OutboxRepository
	actionRepo ActionLogRepository
	idGen      IDGenerator
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	partyRepo PartyRepository,
	docRepo DocumentRepository,
	outboxRepo OutboxRepository,
	actionRepo ActionLogRepository,
	idGen IDGenerator,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:  txManager,
		partyRepo:  partyRepo,
		docRepo:    docRepo,
		outboxRepo: outboxRepo,
		actionRepo: actionRepo,
		idGen:      idGen,
	}
}

// CreateDocumentInput represents input for creating a financial document.
type CreateDocumentInput struct {
	PartyID string
	Kind    domain.DocumentKind
	Number  string
	Total   decimal.Decimal // invoices
	Paid    decimal.Decimal // invoices
	Amount  decimal.Decimal // receipts, payments, returns
	DocDate time.Time
	Notes   string
	// ConfirmNegative lets the caller accept a balance that goes negative.
	// Without it the operation aborts with ErrNegativeBalance.
	ConfirmNegative bool
	Actor           string
}

// CreateDocument applies a new document to its party ledger: the party's
// current balance becomes the document's OldBalance, NewBalance is
// OldBalance plus the signed effect, and the party balance is advanced to
// NewBalance.
func (uc *LedgerUseCase) CreateDocument(ctx context.Context, input CreateDocumentInput) (*domain.Document, error) {
	now := time.Now().UTC()

	docDate := input.DocDate
	if docDate.IsZero() {
		docDate = now
	}

	doc := &domain.Document{
		ID:        uc.idGen.Generate(),
		PartyID:   input.PartyID,
		Kind:      input.Kind,
		Number:    input.Number,
		Total:     input.Total,
		Paid:      input.Paid,
		Remaining: input.Total.Sub(input.Paid),
		Amount:    input.Amount,
		DocDate:   docDate,
		Notes:     input.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.validateDocument(doc); err != nil {
		return nil, err
	}

	// Bound the lock-holding span.
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	party, err := uc.partyRepo.GetByIDForUpdate(ctx, tx, input.PartyID)
	if err != nil {
		return nil, err
	}

	if err := uc.checkParty(party, doc.Kind); err != nil {
		uc.logFailure(ctx, input.Actor, domain.ActionDocumentCreate, doc.ID, err, now)
		return nil, err
	}

	effect := doc.SignedEffect()
	newBalance := party.ApplyEffect(effect)

	if newBalance.IsNegative() && !input.ConfirmNegative {
		uc.logFailure(ctx, input.Actor, domain.ActionDocumentCreate, doc.ID, domain.ErrNegativeBalance, now)
		return nil, domain.ErrNegativeBalance
	}

	doc.OldBalance = party.Balance
	doc.NewBalance = newBalance

	if err := uc.docRepo.Create(ctx, tx, doc); err != nil {
		return nil, err
	}

	if err := uc.partyRepo.UpdateBalance(ctx, tx, party.ID, newBalance, now); err != nil {
		return nil, err
	}

	if err := uc.partyRepo.RefreshTransactionRange(ctx, tx, party.ID); err != nil {
		return nil, err
	}

	err = uc.emit(ctx, tx, doc.ID, domain.EventTypeDocumentCreated, now, domain.DocumentCreatedEvent{
		DocumentID: doc.ID,
		PartyID:    doc.PartyID,
		Kind:       string(doc.Kind),
		Effect:     effect.String(),
		OldBalance: doc.OldBalance.String(),
		NewBalance: doc.NewBalance.String(),
	})
	if err != nil {
		return nil, err
	}

	err = uc.logAction(ctx, tx, input.Actor, domain.ActionDocumentCreate, doc.ID, nil, doc, now)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return doc, nil
}

// UpdateDocumentInput represents input for editing a document.
type UpdateDocumentInput struct {
	ID      string
	PartyID string // empty means unchanged
	Number  string
	Total   decimal.Decimal
	Paid    decimal.Decimal
	Amount  decimal.Decimal
	DocDate time.Time
	Notes   string

	ConfirmNegative bool
	Actor           string
}

// UpdateDocument re-applies an edited document. When the party is unchanged
// the document keeps its stored OldBalance, the snapshot of the balance as
// it stood when the document first existed, NewBalance becomes
// OldBalance plus the new effect, and the live balance moves by the change
// in effect. Editing back to the original values therefore restores both
// snapshots and the balance exactly. Snapshots of other documents never
// move. If the document moved to a different party, the old effect is
// reversed on the old party and the new effect applied fresh on the new
// one.
func (uc *LedgerUseCase) UpdateDocument(ctx context.Context, input UpdateDocumentInput) (*domain.Document, error) {
	now := time.Now().UTC()

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	doc, err := uc.docRepo.GetByIDForUpdate(ctx, tx, input.ID)
	if err != nil {
		return nil, err
	}

	before := *doc
	oldEffect := doc.SignedEffect()
	oldPartyID := doc.PartyID

	doc.Number = input.Number
	doc.Notes = input.Notes
	doc.UpdatedAt = now

	if input.PartyID != "" {
		doc.PartyID = input.PartyID
	}

	if !input.DocDate.IsZero() {
		doc.DocDate = input.DocDate
	}

	if doc.Kind.IsInvoice() {
		doc.Total = input.Total
		doc.Paid = input.Paid
		doc.Remaining = input.Total.Sub(input.Paid)
	} else {
		doc.Amount = input.Amount
	}

	if err := uc.validateDocument(doc); err != nil {
		return nil, err
	}

	newEffect := doc.SignedEffect()

	if doc.PartyID == oldPartyID {
		err = uc.reapplySameParty(ctx, tx, doc, oldEffect, newEffect, input.ConfirmNegative, now)
	} else {
		err = uc.reapplyAcrossParties(ctx, tx, doc, oldPartyID, oldEffect, newEffect, input.ConfirmNegative, now)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNegativeBalance) {
			uc.logFailure(ctx, input.Actor, domain.ActionDocumentUpdate, doc.ID, err, now)
		}
		return nil, err
	}

	if err := uc.docRepo.Update(ctx, tx, doc); err != nil {
		return nil, err
	}

	event := domain.DocumentUpdatedEvent{
		DocumentID:   doc.ID,
		PartyID:      doc.PartyID,
		Kind:         string(doc.Kind),
		OldEffect:    oldEffect.String(),
		NewEffect:    newEffect.String(),
		PartyBalance: doc.NewBalance.String(),
	}
	if doc.PartyID != oldPartyID {
		event.OldPartyID = oldPartyID
	}

	if err := uc.emit(ctx, tx, doc.ID, domain.EventTypeDocumentUpdated, now, event); err != nil {
		return nil, err
	}

	err = uc.logAction(ctx, tx, input.Actor, domain.ActionDocumentUpdate, doc.ID, &before, doc, now)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return doc, nil
}

func (uc *LedgerUseCase) reapplySameParty(
	ctx context.Context,
	tx Transaction,
	doc *domain.Document,
	oldEffect, newEffect decimal.Decimal,
	confirmNegative bool,
	now time.Time,
) error {
	party, err := uc.partyRepo.GetByIDForUpdate(ctx, tx, doc.PartyID)
	if err != nil {
		return err
	}

	// The stored OldBalance is the immutable snapshot from when the
	// document was first applied; only the live balance moves, by the
	// change in effect.
	newBalance := party.Balance.Add(newEffect.Sub(oldEffect))

	if newBalance.IsNegative() && !confirmNegative {
		return domain.ErrNegativeBalance
	}

	doc.NewBalance = doc.OldBalance.Add(newEffect)

	if err := uc.partyRepo.UpdateBalance(ctx, tx, party.ID, newBalance, now); err != nil {
		return err
	}

	return uc.partyRepo.RefreshTransactionRange(ctx, tx, party.ID)
}

func (uc *LedgerUseCase) reapplyAcrossParties(
	ctx context.Context,
	tx Transaction,
	doc *domain.Document,
	oldPartyID string,
	oldEffect, newEffect decimal.Decimal,
	confirmNegative bool,
	now time.Time,
) error {
	// Lock both parties in sorted order (deadlock prevention).
	ids := []string{oldPartyID, doc.PartyID}
	sort.Strings(ids)

	parties, err := uc.partyRepo.GetByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return err
	}

	if len(parties) != len(ids) {
		return domain.ErrPartyNotFound
	}

	var oldParty, newParty *domain.Party
	for _, p := range parties {
		if p.ID == oldPartyID {
			oldParty = p
		}
		if p.ID == doc.PartyID {
			newParty = p
		}
	}

	if oldParty == nil || newParty == nil {
		return domain.ErrPartyNotFound
	}

	if err := uc.checkParty(newParty, doc.Kind); err != nil {
		return err
	}

	// Reverse on the old party, apply fresh on the new one.
	reversed := oldParty.ReverseEffect(oldEffect)
	if err := uc.partyRepo.UpdateBalance(ctx, tx, oldParty.ID, reversed, now); err != nil {
		return err
	}

	newBalance := newParty.ApplyEffect(newEffect)
	if newBalance.IsNegative() && !confirmNegative {
		return domain.ErrNegativeBalance
	}

	doc.OldBalance = newParty.Balance
	doc.NewBalance = newBalance

	if err := uc.partyRepo.UpdateBalance(ctx, tx, newParty.ID, newBalance, now); err != nil {
		return err
	}

	if err := uc.partyRepo.RefreshTransactionRange(ctx, tx, oldParty.ID); err != nil {
		return err
	}

	return uc.partyRepo.RefreshTransactionRange(ctx, tx, newParty.ID)
}

// DeleteDocumentInput represents input for deleting a document.
type DeleteDocumentInput struct {
	ID    string
	Actor string
}

// DeleteDocument reverses the document's effect on the party balance and
// removes the document. No floor is applied: a balance that goes negative
// simply means the direction of debt flipped.
func (uc *LedgerUseCase) DeleteDocument(ctx context.Context, input DeleteDocumentInput) error {
	now := time.Now().UTC()

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	doc, err := uc.docRepo.GetByIDForUpdate(ctx, tx, input.ID)
	if err != nil {
		return err
	}

	party, err := uc.partyRepo.GetByIDForUpdate(ctx, tx, doc.PartyID)
	if err != nil {
		return err
	}

	effect := doc.SignedEffect()
	newBalance := party.ReverseEffect(effect)

	if err := uc.docRepo.Delete(ctx, tx, doc.ID); err != nil {
		return err
	}

	if err := uc.partyRepo.UpdateBalance(ctx, tx, party.ID, newBalance, now); err != nil {
		return err
	}

	if err := uc.partyRepo.RefreshTransactionRange(ctx, tx, party.ID); err != nil {
		return err
	}

	err = uc.emit(ctx, tx, doc.ID, domain.EventTypeDocumentDeleted, now, domain.DocumentDeletedEvent{
		DocumentID:   doc.ID,
		PartyID:      doc.PartyID,
		Kind:         string(doc.Kind),
		Effect:       effect.String(),
		PartyBalance: newBalance.String(),
	})
	if err != nil {
		return err
	}

	err = uc.logAction(ctx, tx, input.Actor, domain.ActionDocumentDelete, doc.ID, doc, nil, now)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// RecomputeInput represents input for the administrative balance repair.
type RecomputeInput struct {
	PartyID string
	Actor   string
}

// RecomputeResult reports the outcome of a balance repair.
type RecomputeResult struct {
	PartyID           string
	PreviousBalance   decimal.Decimal
	RecomputedBalance decimal.Decimal
	Difference        decimal.Decimal
	DocumentCount     int
}

// RecomputeFromHistory resums the party's documents in creation order and
// overwrites the stored balance with the result. This is the repair path for
// suspected drift, run administratively; the incremental balance remains the
// canonical one in normal operation. Document snapshots are left untouched.
func (uc *LedgerUseCase) RecomputeFromHistory(ctx context.Context, input RecomputeInput) (*RecomputeResult, error) {
	now := time.Now().UTC()

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	party, err := uc.partyRepo.GetByIDForUpdate(ctx, tx, input.PartyID)
	if err != nil {
		return nil, err
	}

	docs, err := uc.docRepo.ListInCreationOrder(ctx, tx, party.ID)
	if err != nil {
		return nil, err
	}

	running := party.OpeningBalance
	for _, d := range docs {
		running = running.Add(d.SignedEffect())
	}

	result := &RecomputeResult{
		PartyID:           party.ID,
		PreviousBalance:   party.Balance,
		RecomputedBalance: running,
		Difference:        party.Balance.Sub(running),
		DocumentCount:     len(docs),
	}

	if err := uc.partyRepo.UpdateBalance(ctx, tx, party.ID, running, now); err != nil {
		return nil, err
	}

	if err := uc.partyRepo.RefreshTransactionRange(ctx, tx, party.ID); err != nil {
		return nil, err
	}

	log := &domain.ActionLog{
		ID:           uc.idGen.Generate(),
		Actor:        input.Actor,
		Action:       domain.ActionLedgerRecompute,
		ResourceType: domain.ResourceTypeLedger,
		ResourceID:   party.ID,
		RequestID:    domain.RequestIDFromContext(ctx),
		BeforeState:  domain.JSON{"balance": result.PreviousBalance.String()},
		AfterState:   domain.JSON{"balance": result.RecomputedBalance.String()},
		Status:       domain.ActionStatusSuccess,
		CreatedAt:    now,
	}
	if err := uc.actionRepo.CreateTx(ctx, tx, log); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return result, nil
}

// GetDocument retrieves a document by ID.
func (uc *LedgerUseCase) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	return uc.docRepo.GetByID(ctx, id)
}

// ListDocumentsByPartyInput represents input for listing documents.
type ListDocumentsByPartyInput struct {
	PartyID string
	Limit   int
	Offset  int
}

// ListDocumentsByParty lists documents for a party in creation order.
func (uc *LedgerUseCase) ListDocumentsByParty(ctx context.Context, input ListDocumentsByPartyInput) ([]*domain.Document, error) {
	limit, offset, err := domain.ValidatePagination(input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}

	return uc.docRepo.ListByParty(ctx, input.PartyID, limit, offset)
}

func (uc *LedgerUseCase) validateDocument(doc *domain.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	if doc.Kind.IsInvoice() {
		return domain.ValidateAmount(doc.Total)
	}

	return domain.ValidateAmount(doc.Amount)
}

func (uc *LedgerUseCase) checkParty(party *domain.Party, kind domain.DocumentKind) error {
	if party.Kind != kind.PartyKind() {
		return domain.ErrPartyKindMismatch
	}

	if !party.IsActive() {
		return domain.ErrPartyInactive
	}

	return nil
}

func (uc *LedgerUseCase) emit(ctx context.Context, tx Transaction, aggregateID, eventType string, now time.Time, payload any) error {
	return uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   aggregateID,
		AggregateType: domain.AggregateTypeDocument,
		EventType:     eventType,
		Payload:       domain.MarshalState(payload),
		CreatedAt:     now,
	})
}

func (uc *LedgerUseCase) logAction(ctx context.Context, tx Transaction, actor, action, resourceID string, before, after any, now time.Time) error {
	log := &domain.ActionLog{
		ID:           uc.idGen.Generate(),
		Actor:        actor,
		Action:       action,
		ResourceType: domain.ResourceTypeDocument,
		ResourceID:   resourceID,
		RequestID:    domain.RequestIDFromContext(ctx),
		Status:       domain.ActionStatusSuccess,
		CreatedAt:    now,
	}

	if before != nil {
		log.BeforeState = domain.MarshalState(before)
	}

	if after != nil {
		log.AfterState = domain.MarshalState(after)
	}

	return uc.actionRepo.CreateTx(ctx, tx, log)
}

// logFailure records a rejected mutation outside the rolled-back
// transaction. Best effort: a failed write must not mask the original
// rejection.
func (uc *LedgerUseCase) logFailure(ctx context.Context, actor, action, resourceID string, cause error, now time.Time) {
	log := &domain.ActionLog{
		ID:           uc.idGen.Generate(),
		Actor:        actor,
		Action:       action,
		ResourceType: domain.ResourceTypeDocument,
		ResourceID:   resourceID,
		RequestID:    domain.RequestIDFromContext(ctx),
		Status:       domain.ActionStatusFailure,
		ErrorMessage: cause.Error(),
		CreatedAt:    now,
	}

	_ = uc.actionRepo.Create(ctx, log)
}
