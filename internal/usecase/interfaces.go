package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mizanhq/mizan/internal/domain"
)

// PartyRepository defines data access for parties.
type PartyRepository interface {
	Create(ctx context.Context, tx Transaction, party *domain.Party) error
	GetByID(ctx context.Context, id string) (*domain.Party, error)
	GetByCode(ctx context.Context, code string) (*domain.Party, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Party, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Party, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	// RefreshTransactionRange recomputes first/last transaction timestamps
	// from the party's existing documents, in createdAt order.
	RefreshTransactionRange(ctx context.Context, tx Transaction, id string) error
	SetStatus(ctx context.Context, id string, status domain.PartyStatus, updatedAt time.Time) error
	List(ctx context.Context, kind *domain.PartyKind, limit, offset int) ([]*domain.Party, error)
}

// DocumentRepository defines data access for financial documents.
type DocumentRepository interface {
	Create(ctx context.Context, tx Transaction, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Document, error)
	Update(ctx context.Context, tx Transaction, doc *domain.Document) error
	Delete(ctx context.Context, tx Transaction, id string) error
	ListByParty(ctx context.Context, partyID string, limit, offset int) ([]*domain.Document, error)
	// ListForStatement orders by the user-editable document date with
	// createdAt as tiebreaker.
	ListForStatement(ctx context.Context, partyID string, from, to *time.Time) ([]*domain.Document, error)
	// ListInCreationOrder returns all of a party's documents in createdAt
	// order. Repair path only.
	ListInCreationOrder(ctx context.Context, tx Transaction, partyID string) ([]*domain.Document, error)
}

// LedgerRepository defines data access for ledger-wide aggregate queries.
type LedgerRepository interface {
	// FindDrifts returns parties whose stored balance differs from the
	// opening balance plus the sum of document effects.
	FindDrifts(ctx context.Context) ([]*PartyDrift, error)
	Summary(ctx context.Context) (*LedgerSummary, error)
}

// ActionLogRepository defines data access for action logs.
type ActionLogRepository interface {
	Create(ctx context.Context, log *domain.ActionLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.ActionLog) error
	List(ctx context.Context, filter domain.ActionFilter) ([]*domain.ActionLog, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation when it fails with a transient error, such
// as a lost lock race between two ledger transactions.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
