package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentKind identifies the financial document variant.
type DocumentKind string

const (
	DocumentKindSalesInvoice    DocumentKind = "sales_invoice"
	DocumentKindPurchaseInvoice DocumentKind = "purchase_invoice"
	DocumentKindReceipt         DocumentKind = "receipt"
	DocumentKindPayment         DocumentKind = "payment"
	DocumentKindCustomerReturn  DocumentKind = "customer_return"
	DocumentKindSupplierReturn  DocumentKind = "supplier_return"
)

// Valid reports whether the kind is a known document kind.
func (k DocumentKind) Valid() bool {
	switch k {
	case DocumentKindSalesInvoice, DocumentKindPurchaseInvoice,
		DocumentKindReceipt, DocumentKindPayment,
		DocumentKindCustomerReturn, DocumentKindSupplierReturn:
		return true
	}

	return false
}

// IsInvoice reports whether the kind is an invoice variant.
func (k DocumentKind) IsInvoice() bool {
	return k == DocumentKindSalesInvoice || k == DocumentKindPurchaseInvoice
}

// PartyKind returns the party kind a document of this kind belongs to.
func (k DocumentKind) PartyKind() PartyKind {
	switch k {
	case DocumentKindSalesInvoice, DocumentKindReceipt, DocumentKindCustomerReturn:
		return PartyKindCustomer
	default:
		return PartyKindSupplier
	}
}

// Document is a single financial document on a party ledger.
//
// OldBalance and NewBalance are snapshots of the party balance immediately
// before and after the document was applied. Once persisted they are
// historical state: adding, editing or deleting other documents never
// recalculates them. NewBalance == OldBalance + SignedEffect() always holds.
type Document struct {
	ID      string
	PartyID string
	Kind    DocumentKind
	Number  string

	// Invoice amounts. Remaining = Total - Paid is the part that affects
	// the balance; the paid part settled at issue time does not.
	Total     decimal.Decimal
	Paid      decimal.Decimal
	Remaining decimal.Decimal

	// Amount is the effect size of receipts, payments and returns.
	Amount decimal.Decimal

	OldBalance decimal.Decimal
	NewBalance decimal.Decimal

	// DocDate is the user-editable calendar date. CreatedAt reflects true
	// chronology and is authoritative for snapshot ordering.
	DocDate   time.Time
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SignedEffect returns the document's signed contribution to the party
// balance: invoices increase debt by the remaining amount, receipts,
// payments and returns decrease it.
func (d *Document) SignedEffect() decimal.Decimal {
	if d.Kind.IsInvoice() {
		return d.Remaining
	}

	return d.Amount.Neg()
}

// Validate checks the document's own fields, independent of any party state.
func (d *Document) Validate() error {
	if !d.Kind.Valid() {
		return ErrInvalidDocumentKind
	}

	if d.PartyID == "" {
		return ErrPartyNotFound
	}

	if d.Kind.IsInvoice() {
		if d.Total.LessThanOrEqual(decimal.Zero) {
			return ErrInvalidAmount
		}

		if d.Paid.IsNegative() || d.Paid.GreaterThan(d.Total) {
			return ErrInvalidAmount
		}

		if !d.Remaining.Equal(d.Total.Sub(d.Paid)) {
			return ErrInvalidAmount
		}

		return nil
	}

	if d.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	return nil
}
