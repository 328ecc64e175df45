package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mizanhq/mizan/internal/domain"
	"github.com/mizanhq/mizan/internal/usecase"
)

// PartyResponse represents a party in API responses.
type PartyResponse struct {
	ID                 string          `json:"id"`
	Code               string          `json:"code"`
	Name               string          `json:"name"`
	Kind               string          `json:"kind"`
	Status             string          `json:"status"`
	Balance            decimal.Decimal `json:"balance"`
	OpeningBalance     decimal.Decimal `json:"opening_balance"`
	FirstTransactionAt *time.Time      `json:"first_transaction_at,omitempty"`
	LastTransactionAt  *time.Time      `json:"last_transaction_at,omitempty"`
	Version            int64           `json:"version"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// PartyFromDomain converts a domain party to a response.
func PartyFromDomain(p *domain.Party) *PartyResponse {
	return &PartyResponse{
		ID:                 p.ID,
		Code:               p.Code,
		Name:               p.Name,
		Kind:               string(p.Kind),
		Status:             string(p.Status),
		Balance:            p.Balance,
		OpeningBalance:     p.OpeningBalance,
		FirstTransactionAt: p.FirstTransactionAt,
		LastTransactionAt:  p.LastTransactionAt,
		Version:            p.Version,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

// PartiesFromDomain converts domain parties to responses.
func PartiesFromDomain(parties []*domain.Party) []*PartyResponse {
	result := make([]*PartyResponse, len(parties))
	for i, p := range parties {
		result[i] = PartyFromDomain(p)
	}
	return result
}

// ListPartiesResponse wraps a party list.
type ListPartiesResponse struct {
	Parties []*PartyResponse `json:"parties"`
	Total   int64            `json:"total"`
}

// DocumentResponse represents a document in API responses.
type DocumentResponse struct {
	ID         string          `json:"id"`
	PartyID    string          `json:"party_id"`
	Kind       string          `json:"kind"`
	Number     string          `json:"number,omitempty"`
	Total      decimal.Decimal `json:"total"`
	Paid       decimal.Decimal `json:"paid"`
	Remaining  decimal.Decimal `json:"remaining"`
	Amount     decimal.Decimal `json:"amount"`
	OldBalance decimal.Decimal `json:"old_balance"`
	NewBalance decimal.Decimal `json:"new_balance"`
	DocDate    time.Time       `json:"doc_date"`
	Notes      string          `json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// DocumentFromDomain converts a domain document to a response.
func DocumentFromDomain(d *domain.Document) *DocumentResponse {
	return &DocumentResponse{
		ID:         d.ID,
		PartyID:    d.PartyID,
		Kind:       string(d.Kind),
		Number:     d.Number,
		Total:      d.Total,
		Paid:       d.Paid,
		Remaining:  d.Remaining,
		Amount:     d.Amount,
		OldBalance: d.OldBalance,
		NewBalance: d.NewBalance,
		DocDate:    d.DocDate,
		Notes:      d.Notes,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

// DocumentsFromDomain converts domain documents to responses.
func DocumentsFromDomain(docs []*domain.Document) []*DocumentResponse {
	result := make([]*DocumentResponse, len(docs))
	for i, d := range docs {
		result[i] = DocumentFromDomain(d)
	}
	return result
}

// ListDocumentsResponse wraps a document list.
type ListDocumentsResponse struct {
	Documents []*DocumentResponse `json:"documents"`
	Total     int64               `json:"total"`
}

// StatementLineResponse is one line of an account statement.
type StatementLineResponse struct {
	Document *DocumentResponse `json:"document"`
	Effect   decimal.Decimal   `json:"effect"`
}

// StatementResponse represents a party statement.
type StatementResponse struct {
	Party        *PartyResponse          `json:"party"`
	Lines        []StatementLineResponse `json:"lines"`
	TotalDebits  decimal.Decimal         `json:"total_debits"`
	TotalCredits decimal.Decimal         `json:"total_credits"`
	Closing      decimal.Decimal         `json:"closing"`
}

// StatementFromDomain converts a statement to a response.
func StatementFromDomain(s *usecase.Statement) *StatementResponse {
	lines := make([]StatementLineResponse, len(s.Lines))
	for i, line := range s.Lines {
		lines[i] = StatementLineResponse{
			Document: DocumentFromDomain(line.Document),
			Effect:   line.Effect,
		}
	}

	return &StatementResponse{
		Party:        PartyFromDomain(s.Party),
		Lines:        lines,
		TotalDebits:  s.TotalDebits,
		TotalCredits: s.TotalCredits,
		Closing:      s.Closing,
	}
}

// RecomputeResponse reports the outcome of a balance repair.
type RecomputeResponse struct {
	PartyID           string          `json:"party_id"`
	PreviousBalance   decimal.Decimal `json:"previous_balance"`
	RecomputedBalance decimal.Decimal `json:"recomputed_balance"`
	Difference        decimal.Decimal `json:"difference"`
	DocumentCount     int             `json:"document_count"`
}

// RecomputeFromResult converts a recompute result to a response.
func RecomputeFromResult(r *usecase.RecomputeResult) *RecomputeResponse {
	return &RecomputeResponse{
		PartyID:           r.PartyID,
		PreviousBalance:   r.PreviousBalance,
		RecomputedBalance: r.RecomputedBalance,
		Difference:        r.Difference,
		DocumentCount:     r.DocumentCount,
	}
}

// PartyDriftResponse is one drifted party in the consistency report.
type PartyDriftResponse struct {
	PartyID    string          `json:"party_id"`
	Code       string          `json:"code"`
	Kind       string          `json:"kind"`
	Stored     decimal.Decimal `json:"stored"`
	Computed   decimal.Decimal `json:"computed"`
	Difference decimal.Decimal `json:"difference"`
}

// ConsistencyResponse represents the ledger-wide drift check.
type ConsistencyResponse struct {
	Consistent bool                  `json:"consistent"`
	Drifts     []*PartyDriftResponse `json:"drifts"`
	CheckedAt  time.Time             `json:"checked_at"`
}

// ConsistencyFromReport converts a consistency report to a response.
func ConsistencyFromReport(report *usecase.ConsistencyReport) *ConsistencyResponse {
	drifts := make([]*PartyDriftResponse, len(report.Drifts))
	for i, d := range report.Drifts {
		drifts[i] = &PartyDriftResponse{
			PartyID:    d.PartyID,
			Code:       d.Code,
			Kind:       string(d.Kind),
			Stored:     d.Stored,
			Computed:   d.Computed,
			Difference: d.Difference,
		}
	}

	return &ConsistencyResponse{
		Consistent: report.Consistent,
		Drifts:     drifts,
		CheckedAt:  report.CheckedAt,
	}
}

// ActionLogResponse represents an action log entry in API responses.
type ActionLogResponse struct {
	ID           string         `json:"id"`
	Actor        string         `json:"actor,omitempty"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	BeforeState  map[string]any `json:"before_state,omitempty"`
	AfterState   map[string]any `json:"after_state,omitempty"`
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// ActionLogFromDomain converts a domain action log to a response.
func ActionLogFromDomain(l *domain.ActionLog) *ActionLogResponse {
	return &ActionLogResponse{
		ID:           l.ID,
		Actor:        l.Actor,
		Action:       l.Action,
		ResourceType: l.ResourceType,
		ResourceID:   l.ResourceID,
		BeforeState:  l.BeforeState,
		AfterState:   l.AfterState,
		Status:       l.Status,
		ErrorMessage: l.ErrorMessage,
		CreatedAt:    l.CreatedAt,
	}
}

// ActionLogsFromDomain converts domain action logs to responses.
func ActionLogsFromDomain(logs []*domain.ActionLog) []*ActionLogResponse {
	result := make([]*ActionLogResponse, len(logs))
	for i, l := range logs {
		result[i] = ActionLogFromDomain(l)
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
