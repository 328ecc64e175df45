package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PartyKind distinguishes customer ledgers from supplier ledgers.
type PartyKind string

const (
	PartyKindCustomer PartyKind = "customer"
	PartyKindSupplier PartyKind = "supplier"
)

// Valid reports whether the kind is a known party kind.
func (k PartyKind) Valid() bool {
	return k == PartyKindCustomer || k == PartyKindSupplier
}

// PartyStatus is the lifecycle state of a party.
type PartyStatus string

const (
	PartyStatusActive   PartyStatus = "active"
	PartyStatusInactive PartyStatus = "inactive"
)

// Party is a customer or supplier account carrying a running balance.
//
// Balance always equals OpeningBalance plus the sum of signed effects of all
// existing documents referencing the party, applied in creation order. It is
// mutated only incrementally by the ledger engine; resumming history is a
// repair path, never the normal one.
type Party struct {
	ID                 string
	Code               string
	Name               string
	Kind               PartyKind
	Status             PartyStatus
	Balance            decimal.Decimal
	OpeningBalance     decimal.Decimal
	FirstTransactionAt *time.Time
	LastTransactionAt  *time.Time
	Version            int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsActive reports whether the party can accept new documents.
func (p *Party) IsActive() bool {
	return p.Status == PartyStatusActive
}

// ApplyEffect returns the balance after applying a signed document effect.
func (p *Party) ApplyEffect(effect decimal.Decimal) decimal.Decimal {
	return p.Balance.Add(effect)
}

// ReverseEffect returns the balance after undoing a signed document effect.
func (p *Party) ReverseEffect(effect decimal.Decimal) decimal.Decimal {
	return p.Balance.Sub(effect)
}
