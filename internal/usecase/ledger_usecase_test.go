package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizanhq/mizan/internal/domain"
	"github.com/mizanhq/mizan/internal/usecase"
	"github.com/mizanhq/mizan/internal/usecase/mocks"
)

type ledgerFixture struct {
	uc         *usecase.LedgerUseCase
	partyRepo  *mocks.MockPartyRepository
	docRepo    *mocks.MockDocumentRepository
	outboxRepo *mocks.MockOutboxRepository
	actionRepo *mocks.MockActionLogRepository
	txManager  *mocks.MockTransactionManager
}

func newLedgerFixture() *ledgerFixture {
	f := &ledgerFixture{
		partyRepo:  mocks.NewMockPartyRepository(),
		docRepo:    mocks.NewMockDocumentRepository(),
		outboxRepo: mocks.NewMockOutboxRepository(),
		actionRepo: mocks.NewMockActionLogRepository(),
		txManager:  mocks.NewMockTransactionManager(),
	}
	f.uc = usecase.NewLedgerUseCase(
		f.txManager,
		f.partyRepo,
		f.docRepo,
		f.outboxRepo,
		f.actionRepo,
		mocks.NewMockIDGenerator(),
	)
	return f
}

func (f *ledgerFixture) seedParty(id string, kind domain.PartyKind, balance decimal.Decimal) *domain.Party {
	party := &domain.Party{
		ID:             id,
		Code:           "P-" + id,
		Name:           "Party " + id,
		Kind:           kind,
		Status:         domain.PartyStatusActive,
		Balance:        balance,
		OpeningBalance: balance,
	}
	f.partyRepo.Seed(party)
	return party
}

func (f *ledgerFixture) balance(t *testing.T, partyID string) decimal.Decimal {
	t.Helper()
	party, err := f.partyRepo.GetByID(context.Background(), partyID)
	require.NoError(t, err)
	return party.Balance
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLedgerUseCase_CreateDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("invoice advances balance by remaining amount", func(t *testing.T) {
		f := newLedgerFixture()
		f.seedParty("cust-1", domain.PartyKindCustomer, dec("100"))

		doc, err := f.uc.CreateDocument(ctx, usecase.CreateDocumentInput{
			PartyID: "cust-1",
			Kind:    domain.DocumentKindSalesInvoice,
			Number:  "INV-001",
			Total:   dec("500"),
			Paid:    dec("150"),
		})
		require.NoError(t, err)

		assert.True(t, doc.OldBalance.Equal(dec("100")))
		assert.True(t, doc.NewBalance.Equal(dec("450")))
		assert.True(t, doc.Remaining.Equal(dec("350")))
		assert.True(t, f.balance(t, "cust-1").Equal(dec("450")))
	})

	t.Run("receipt decreases balance", func(t *testing.T) {
		f := newLedgerFixture()
		f.seedParty("cust-1", domain.PartyKindCustomer, dec("500"))

		doc, err := f.uc.CreateDocument(ctx, usecase.CreateDocumentInput{
			PartyID: "cust-1",
			Kind:    domain.DocumentKindReceipt,
			Amount:  dec("200"),
		})
		require.NoError(t, err)

		assert.True(t, doc.OldBalance.Equal(dec("500")))
		assert.True(t, doc.NewBalance.Equal(dec("300")))
		assert.True(t, f.balance(t, "cust-1").Equal(dec("300")))
	})

	t.Run("negative result rejected without confirmation", func(t *testing.T) {
		f := newLedgerFixture()
		f.seedParty("cust-1", domain.PartyKindCustomer, dec("100"))

		_, err := f.uc.CreateDocument(ctx, usecase.CreateDocumentInput{
			PartyID: "cust-1",
			Kind:    domain.DocumentKindReceipt,
			Amount:  dec("300"),
		})
		require.ErrorIs(t, err, domain.ErrNegativeBalance)
		assert.True(t, f.balance(t, "cust-1").Equal(dec("100")))
	})

	t.Run("negative result accepted with confirmation", func(t *testing.T) {
		f := newLedgerFixture()
		f.seedParty("cust-1", domain.PartyKindCustomer, dec("100"))

		doc, err := f.uc.CreateDocument(ctx, usecase.CreateDocumentInput{
			PartyID:         "cust-1",
			Kind:            domain.DocumentKindReceipt,
			Amount:          dec("300"),
			ConfirmNegative: true,
		})
		require.NoError(t, err)
		assert.True(t, doc.NewBalance.Equal(dec("-200")))
		assert.True(t, f.balance(t, "cust-1").Equal(dec("-200")))
	})

	t.Run("kind must match party kind", func(t *testing.T) {
		f := newLedgerFixture()
		f.seedParty("sup-1", domain.PartyKindSupplier, decimal.Zero)

		_, err := f.uc.CreateDocument(ctx, usecase.CreateDocumentInput{
			PartyID: "sup-1",
			Kind:    domain.DocumentKindSalesInvoice,
			Total:   dec("100"),
		})
		require.ErrorIs(t, err, domain.ErrPartyKindMismatch)
	})

	t.Run("inactive party rejected", func(t *testing.T) {
		f := newLedgerFixture()
		party := f.seedParty("cust-1", domain.PartyKindCustomer, decimal.Zero)
		party.Status = domain.PartyStatusInactive

		_, err := f.uc.CreateDocument(ctx, usecase.CreateDocumentInput{
			PartyID: "cust-1",
			Kind:    domain.DocumentKindSalesInvoice,
			Total:   dec("100"),
		})
		require.ErrorIs(t, err, domain.ErrPartyInactive)
	})

	t.Run("unknown party", func(t *testing.T) {
		f := newLedgerFixture()

		_, err := f.uc.CreateDocument(ctx, usecase.CreateDocumentInput{
			PartyID: "missing",
			Kind:    domain.DocumentKindSalesInvoice,
			Total:   dec("100"),
		})
		require.ErrorIs(t, err, domain.ErrPartyNotFound)
	})

	t.Run("rejected mutation leaves a failure action log", func(t *testing.T) {
		f := newLedgerFixture()
		f.seedParty("cust-1", domain.PartyKindCustomer, dec("100"))

		_, err := f.uc.CreateDocument(ctx, usecase.CreateDocumentInput{
			PartyID: "cust-1",
			Kind:    domain.DocumentKindReceipt,
			Amount:  dec("300"),
			Actor:   "tester",
		})
		require.ErrorIs(t, err, domain.ErrNegativeBalance)

		require.Len(t, f.actionRepo.Logs, 1)
		logged := f.actionRepo.Logs[0]
		assert.Equal(t, domain.ActionStatusFailure, logged.Status)
		assert.Equal(t, domain.ErrNegativeBalance.Error(), logged.ErrorMessage)
		assert.Equal(t, "tester", logged.Actor)
	})

	t.Run("action log carries the request ID", func(t *testing.T) {
		f := newLedgerFixture()
		f.seedParty("cust-1", domain.PartyKindCustomer, decimal.Zero)

		reqCtx := domain.WithRequestID(ctx, "req-7")
		_, err := f.uc.CreateDocument(reqCtx, usecase.CreateDocumentInput{
			PartyID: "cust-1",
			Kind:    domain.DocumentKindSalesInvoice,
			Total:   dec("100"),
		})
		require.NoError(t, err)

		require.Len(t, f.actionRepo.Logs, 1)
		assert.Equal(t, "req-7", f.actionRepo.Logs[0].RequestID)
	})

	t.Run("transaction context carries a deadline", func(t *testing.T) {
		f := newLedgerFixture()
		f.seedParty("cust-1", domain.PartyKindCustomer, decimal.Zero)

		var hasDeadline bool
		f.txManager.BeginFunc = func(ctx context.Context) (usecase.Transaction, error) {
			_, hasDeadline = ctx.Deadline()
			return &mocks.MockTransaction{}, nil
		}

		_, err := f.uc.CreateDocument(ctx, usecase.CreateDocumentInput{
			PartyID: "cust-1",
			Kind:    domain.DocumentKindSalesInvoice,
			Total:   dec("100"),
		})
		require.NoError(t, err)
		assert.True(t, hasDeadline)
	})

	t.Run("writes outbox event and action log", func(t *testing.T) {
		f := newLedgerFixture()
		f.seedParty("cust-1", domain.PartyKindCustomer, decimal.Zero)

		_, err := f.uc.CreateDocument(ctx, usecase.CreateDocumentInput{
			PartyID: "cust-1",
			Kind:    domain.DocumentKindSalesInvoice,
			Total:   dec("500"),
			Actor:   "tester",
		})
		require.NoError(t, err)

		require.Len(t, f.outboxRepo.Events, 1)
		assert.Equal(t, domain.EventTypeDocumentCreated, f.outboxRepo.Events[0].EventType)

		require.Len(t, f.actionRepo.Logs, 1)
		assert.Equal(t, domain.ActionDocumentCreate, f.actionRepo.Logs[0].Action)
		assert.Equal(t, "tester", f.actionRepo.Logs[0].Actor)
	})
}

// TestLedgerUseCase_RunningBalanceScenario walks a full customer lifecycle:
// invoice, partial payment, invoice edit, payment deletion. Each step checks
// the live balance and the snapshots written on the touched document.
func TestLedgerUseCase_RunningBalanceScenario(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture()
	f.seedParty("cust-1", domain.PartyKindCustomer, decimal.Zero)

	// Invoice for 500: balance 0 -> 500.
	inv, err := f.uc.CreateDocument(ctx, usecase.CreateDocumentInput{
		PartyID: "cust-1",
		Kind:    domain.DocumentKindSalesInvoice,
		Number:  "INV-001",
		Total:   dec("500"),
	})
	require.NoError(t, err)
	assert.True(t, inv.OldBalance.Equal(dec("0")))
	assert.True(t, inv.NewBalance.Equal(dec("500")))
	assert.True(t, f.balance(t, "cust-1").Equal(dec("500")))

	// Receipt of 200: balance 500 -> 300.
	rcpt, err := f.uc.CreateDocument(ctx, usecase.CreateDocumentInput{
		PartyID: "cust-1",
		Kind:    domain.DocumentKindReceipt,
		Amount:  dec("200"),
	})
	require.NoError(t, err)
	assert.True(t, rcpt.OldBalance.Equal(dec("500")))
	assert.True(t, rcpt.NewBalance.Equal(dec("300")))
	assert.True(t, f.balance(t, "cust-1").Equal(dec("300")))

	// Edit the invoice total to 800. The invoice keeps its creation-time
	// OldBalance of 0, NewBalance becomes 0+800, and the live balance
	// moves by the +300 change in effect: 300 -> 600.
	edited, err := f.uc.UpdateDocument(ctx, usecase.UpdateDocumentInput{
		ID:              inv.ID,
		Number:          "INV-001",
		Total:           dec("800"),
		ConfirmNegative: true,
	})
	require.NoError(t, err)
	assert.True(t, edited.OldBalance.Equal(dec("0")))
	assert.True(t, edited.NewBalance.Equal(dec("800")))
	assert.True(t, f.balance(t, "cust-1").Equal(dec("600")))

	// The receipt's snapshots never move.
	stored, err := f.uc.GetDocument(ctx, rcpt.ID)
	require.NoError(t, err)
	assert.True(t, stored.OldBalance.Equal(dec("500")))
	assert.True(t, stored.NewBalance.Equal(dec("300")))

	// Deleting the receipt reverses its -200 effect: balance 600 -> 800.
	err = f.uc.DeleteDocument(ctx, usecase.DeleteDocumentInput{ID: rcpt.ID})
	require.NoError(t, err)
	assert.True(t, f.balance(t, "cust-1").Equal(dec("800")))

	_, err = f.uc.GetDocument(ctx, rcpt.ID)
	require.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestLedgerUseCase_UpdateDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("edit with unchanged values leaves balance unchanged", func(t *testing.T) {
		f := newLedgerFixture()
		f.seedParty("cust-1", domain.PartyKindCustomer, decimal.Zero)

		inv, err := f.uc.CreateDocument(ctx, usecase.CreateDocumentInput{
			PartyID: "cust-1",
			Kind:    domain.DocumentKindSalesInvoice,
			Number:  "INV-001",
			Total:   dec("500"),
			Paid:    dec("100"),
		})
		require.NoError(t, err)

		edited, err := f.uc.UpdateDocument(ctx, usecase.UpdateDocumentInput{
			ID:     inv.ID,
			Number: "INV-001-rev",
			Total:  dec("500"),
			Paid:   dec("100"),
		})
		require.NoError(t, err)

		assert.Equal(t, "INV-001-rev", edited.Number)
		assert.True(t, edited.OldBalance.Equal(inv.OldBalance))
		assert.True(t, edited.NewBalance.Equal(inv.NewBalance))
		assert.True(t, f.balance(t, "cust-1").Equal(dec("400")))
	})

	t.Run("edit then edit back restores snapshots and balance", func(t *testing.T) {
		f := newLedgerFixture()
		f.seedParty("cust-1", domain.PartyKindCustomer, decimal.Zero)

		inv, err := f.uc.CreateDocument(ctx, usecase.CreateDocumentInput{
			PartyID: "cust-1",
			Kind:    domain.DocumentKindSalesInvoice,
			Number:  "INV-001",
			Total:   dec("500"),
		})
		require.NoError(t, err)

		// A later document, so undoing the edit cannot simply rewind the
		// live balance to the invoice's creation-time state.
		_, err = f.uc.CreateDocument(ctx, usecase.CreateDocumentInput{
			PartyID: "cust-1",
			Kind:    domain.DocumentKindReceipt,
			Amount:  dec("200"),
		})
		require.NoError(t, err)
		require.True(t, f.balance(t, "cust-1").Equal(dec("300")))

		_, err = f.uc.UpdateDocument(ctx, usecase.UpdateDocumentInput{
			ID:     inv.ID,
			Number: "INV-001",
			Total:  dec("800"),
		})
		require.NoError(t, err)
		require.True(t, f.balance(t, "cust-1").Equal(dec("600")))

		restored, err := f.uc.UpdateDocument(ctx, usecase.UpdateDocumentInput{
			ID:     inv.ID,
			Number: "INV-001",
			Total:  dec("500"),
		})
		require.NoError(t, err)

		assert.True(t, restored.OldBalance.Equal(inv.OldBalance))
		assert.True(t, restored.NewBalance.Equal(inv.NewBalance))
		assert.True(t, f.balance(t, "cust-1").Equal(dec("300")))
	})

	t.Run("moving a document to another party reverses and reapplies", func(t *testing.T) {
		f := newLedgerFixture()
		f.seedParty("cust-1", domain.PartyKindCustomer, decimal.Zero)
		f.seedParty("cust-2", domain.PartyKindCustomer, dec("50"))

		inv, err := f.uc.CreateDocument(ctx, usecase.CreateDocumentInput{
			PartyID: "cust-1",
			Kind:    domain.DocumentKindSalesInvoice,
			Total:   dec("300"),
		})
		require.NoError(t, err)
		require.True(t, f.balance(t, "cust-1").Equal(dec("300")))

		edited, err := f.uc.UpdateDocument(ctx, usecase.UpdateDocumentInput{
			ID:      inv.ID,
			PartyID: "cust-2",
			Total:   dec("300"),
		})
		require.NoError(t, err)

		assert.True(t, f.balance(t, "cust-1").Equal(dec("0")))
		assert.True(t, f.balance(t, "cust-2").Equal(dec("350")))
		assert.True(t, edited.OldBalance.Equal(dec("50")))
		assert.True(t, edited.NewBalance.Equal(dec("350")))
	})

	t.Run("moving to a wrong-kind party rejected", func(t *testing.T) {
		f := newLedgerFixture()
		f.seedParty("cust-1", domain.PartyKindCustomer, decimal.Zero)
		f.seedParty("sup-1", domain.PartyKindSupplier, decimal.Zero)

		inv, err := f.uc.CreateDocument(ctx, usecase.CreateDocumentInput{
			PartyID: "cust-1",
			Kind:    domain.DocumentKindSalesInvoice,
			Total:   dec("300"),
		})
		require.NoError(t, err)

		_, err = f.uc.UpdateDocument(ctx, usecase.UpdateDocumentInput{
			ID:      inv.ID,
			PartyID: "sup-1",
			Total:   dec("300"),
		})
		require.ErrorIs(t, err, domain.ErrPartyKindMismatch)
	})

	t.Run("edit that drives balance negative requires confirmation", func(t *testing.T) {
		f := newLedgerFixture()
		f.seedParty("cust-1", domain.PartyKindCustomer, decimal.Zero)

		inv, err := f.uc.CreateDocument(ctx, usecase.CreateDocumentInput{
			PartyID: "cust-1",
			Kind:    domain.DocumentKindSalesInvoice,
			Total:   dec("500"),
		})
		require.NoError(t, err)

		rcpt, err := f.uc.CreateDocument(ctx, usecase.CreateDocumentInput{
			PartyID: "cust-1",
			Kind:    domain.DocumentKindReceipt,
			Amount:  dec("400"),
		})
		require.NoError(t, err)
		_ = rcpt

		// Shrinking the invoice to 300 moves the balance by -200: 100 -> -100.
		_, err = f.uc.UpdateDocument(ctx, usecase.UpdateDocumentInput{
			ID:    inv.ID,
			Total: dec("300"),
		})
		require.ErrorIs(t, err, domain.ErrNegativeBalance)
		assert.True(t, f.balance(t, "cust-1").Equal(dec("100")))

		edited, err := f.uc.UpdateDocument(ctx, usecase.UpdateDocumentInput{
			ID:              inv.ID,
			Total:           dec("300"),
			ConfirmNegative: true,
		})
		require.NoError(t, err)
		assert.True(t, edited.OldBalance.Equal(dec("0")))
		assert.True(t, edited.NewBalance.Equal(dec("300")))
		assert.True(t, f.balance(t, "cust-1").Equal(dec("-100")))
	})

	t.Run("invalid edit rejected before any balance change", func(t *testing.T) {
		f := newLedgerFixture()
		f.seedParty("cust-1", domain.PartyKindCustomer, decimal.Zero)

		inv, err := f.uc.CreateDocument(ctx, usecase.CreateDocumentInput{
			PartyID: "cust-1",
			Kind:    domain.DocumentKindSalesInvoice,
			Total:   dec("500"),
		})
		require.NoError(t, err)

		_, err = f.uc.UpdateDocument(ctx, usecase.UpdateDocumentInput{
			ID:    inv.ID,
			Total: dec("100"),
			Paid:  dec("200"),
		})
		require.Error(t, err)
		assert.True(t, f.balance(t, "cust-1").Equal(dec("500")))
	})
}

func TestLedgerUseCase_DeleteDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("create then delete restores the prior balance", func(t *testing.T) {
		f := newLedgerFixture()
		f.seedParty("cust-1", domain.PartyKindCustomer, dec("250"))

		doc, err := f.uc.CreateDocument(ctx, usecase.CreateDocumentInput{
			PartyID: "cust-1",
			Kind:    domain.DocumentKindSalesInvoice,
			Total:   dec("900"),
			Paid:    dec("300"),
		})
		require.NoError(t, err)
		require.True(t, f.balance(t, "cust-1").Equal(dec("850")))

		err = f.uc.DeleteDocument(ctx, usecase.DeleteDocumentInput{ID: doc.ID})
		require.NoError(t, err)
		assert.True(t, f.balance(t, "cust-1").Equal(dec("250")))
	})

	t.Run("delete may leave a negative balance", func(t *testing.T) {
		f := newLedgerFixture()
		f.seedParty("cust-1", domain.PartyKindCustomer, decimal.Zero)

		inv, err := f.uc.CreateDocument(ctx, usecase.CreateDocumentInput{
			PartyID: "cust-1",
			Kind:    domain.DocumentKindSalesInvoice,
			Total:   dec("300"),
		})
		require.NoError(t, err)

		_, err = f.uc.CreateDocument(ctx, usecase.CreateDocumentInput{
			PartyID: "cust-1",
			Kind:    domain.DocumentKindReceipt,
			Amount:  dec("300"),
		})
		require.NoError(t, err)
		require.True(t, f.balance(t, "cust-1").Equal(dec("0")))

		err = f.uc.DeleteDocument(ctx, usecase.DeleteDocumentInput{ID: inv.ID})
		require.NoError(t, err)
		assert.True(t, f.balance(t, "cust-1").Equal(dec("-300")))
	})

	t.Run("records before-state in action log", func(t *testing.T) {
		f := newLedgerFixture()
		f.seedParty("cust-1", domain.PartyKindCustomer, decimal.Zero)

		doc, err := f.uc.CreateDocument(ctx, usecase.CreateDocumentInput{
			PartyID: "cust-1",
			Kind:    domain.DocumentKindSalesInvoice,
			Total:   dec("100"),
			Actor:   "tester",
		})
		require.NoError(t, err)

		err = f.uc.DeleteDocument(ctx, usecase.DeleteDocumentInput{ID: doc.ID, Actor: "tester"})
		require.NoError(t, err)

		require.Len(t, f.actionRepo.Logs, 2)
		last := f.actionRepo.Logs[1]
		assert.Equal(t, domain.ActionDocumentDelete, last.Action)
		assert.NotNil(t, last.BeforeState)
		assert.Nil(t, last.AfterState)
	})
}

func TestLedgerUseCase_RecomputeFromHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("repairs a drifted balance", func(t *testing.T) {
		f := newLedgerFixture()
		party := f.seedParty("cust-1", domain.PartyKindCustomer, decimal.Zero)
		party.OpeningBalance = dec("100")
		party.Balance = dec("100")

		_, err := f.uc.CreateDocument(ctx, usecase.CreateDocumentInput{
			PartyID: "cust-1",
			Kind:    domain.DocumentKindSalesInvoice,
			Total:   dec("400"),
		})
		require.NoError(t, err)

		// Simulate drift from a historical bug.
		party.Balance = dec("999")

		result, err := f.uc.RecomputeFromHistory(ctx, usecase.RecomputeInput{
			PartyID: "cust-1",
			Actor:   "admin",
		})
		require.NoError(t, err)

		assert.True(t, result.PreviousBalance.Equal(dec("999")))
		assert.True(t, result.RecomputedBalance.Equal(dec("500")))
		assert.True(t, result.Difference.Equal(dec("499")))
		assert.Equal(t, 1, result.DocumentCount)
		assert.True(t, f.balance(t, "cust-1").Equal(dec("500")))
	})

	t.Run("consistent ledger is a no-op", func(t *testing.T) {
		f := newLedgerFixture()
		f.seedParty("cust-1", domain.PartyKindCustomer, decimal.Zero)

		_, err := f.uc.CreateDocument(ctx, usecase.CreateDocumentInput{
			PartyID: "cust-1",
			Kind:    domain.DocumentKindSalesInvoice,
			Total:   dec("250"),
		})
		require.NoError(t, err)

		result, err := f.uc.RecomputeFromHistory(ctx, usecase.RecomputeInput{PartyID: "cust-1"})
		require.NoError(t, err)

		assert.True(t, result.Difference.IsZero())
		assert.True(t, f.balance(t, "cust-1").Equal(dec("250")))
	})
}
