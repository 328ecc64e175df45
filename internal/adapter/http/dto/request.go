package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mizanhq/mizan/internal/domain"
	"github.com/mizanhq/mizan/internal/usecase"
)

// CreatePartyRequest represents a request to create a customer or supplier.
type CreatePartyRequest struct {
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Kind           string          `json:"kind"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// ToUseCaseInput converts to use case input.
func (r *CreatePartyRequest) ToUseCaseInput(actor string) usecase.CreatePartyInput {
	return usecase.CreatePartyInput{
		Code:           r.Code,
		Name:           r.Name,
		Kind:           domain.PartyKind(r.Kind),
		OpeningBalance: r.OpeningBalance,
		Actor:          actor,
	}
}

// CreateDocumentRequest represents a request to create a financial document.
type CreateDocumentRequest struct {
	PartyID string          `json:"party_id"`
	Kind    string          `json:"kind"`
	Number  string          `json:"number,omitempty"`
	Total   decimal.Decimal `json:"total,omitempty"`
	Paid    decimal.Decimal `json:"paid,omitempty"`
	Amount  decimal.Decimal `json:"amount,omitempty"`
	DocDate *time.Time      `json:"doc_date,omitempty"`
	Notes   string          `json:"notes,omitempty"`

	// ConfirmNegative acknowledges a balance that would go below zero.
	ConfirmNegative bool `json:"confirm_negative,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateDocumentRequest) ToUseCaseInput(actor string) usecase.CreateDocumentInput {
	input := usecase.CreateDocumentInput{
		PartyID:         r.PartyID,
		Kind:            domain.DocumentKind(r.Kind),
		Number:          r.Number,
		Total:           r.Total,
		Paid:            r.Paid,
		Amount:          r.Amount,
		Notes:           r.Notes,
		ConfirmNegative: r.ConfirmNegative,
		Actor:           actor,
	}

	if r.DocDate != nil {
		input.DocDate = *r.DocDate
	}

	return input
}

// UpdateDocumentRequest represents a request to edit a document.
type UpdateDocumentRequest struct {
	PartyID string          `json:"party_id,omitempty"`
	Number  string          `json:"number,omitempty"`
	Total   decimal.Decimal `json:"total,omitempty"`
	Paid    decimal.Decimal `json:"paid,omitempty"`
	Amount  decimal.Decimal `json:"amount,omitempty"`
	DocDate *time.Time      `json:"doc_date,omitempty"`
	Notes   string          `json:"notes,omitempty"`

	ConfirmNegative bool `json:"confirm_negative,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateDocumentRequest) ToUseCaseInput(id, actor string) usecase.UpdateDocumentInput {
	input := usecase.UpdateDocumentInput{
		ID:              id,
		PartyID:         r.PartyID,
		Number:          r.Number,
		Total:           r.Total,
		Paid:            r.Paid,
		Amount:          r.Amount,
		Notes:           r.Notes,
		ConfirmNegative: r.ConfirmNegative,
		Actor:           actor,
	}

	if r.DocDate != nil {
		input.DocDate = *r.DocDate
	}

	return input
}

// PaginationRequest represents pagination parameters.
type PaginationRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
