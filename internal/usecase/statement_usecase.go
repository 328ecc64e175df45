package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mizanhq/mizan/internal/domain"
)

// StatementUseCase assembles a party's documents into a chronological
// account statement.
type StatementUseCase struct {
	partyRepo PartyRepository
	docRepo   DocumentRepository
}

// NewStatementUseCase creates a new StatementUseCase.
func NewStatementUseCase(partyRepo PartyRepository, docRepo DocumentRepository) *StatementUseCase {
	return &StatementUseCase{
		partyRepo: partyRepo,
		docRepo:   docRepo,
	}
}

// StatementLine is one document on a statement with its signed effect.
type StatementLine struct {
	Document *domain.Document
	Effect   decimal.Decimal
}

// Statement is a party's chronological document list with totals.
type Statement struct {
	Party        *domain.Party
	Lines        []StatementLine
	TotalDebits  decimal.Decimal // sum of positive effects
	TotalCredits decimal.Decimal // sum of negative effects, as a positive figure
	Closing      decimal.Decimal
}

// GetStatementInput represents input for assembling a statement.
type GetStatementInput struct {
	PartyID string
	From    *time.Time // filters on the document date
	To      *time.Time
}

// GetStatement lists the party's documents ordered by document date, with
// creation time as tiebreaker since the document date is user-editable.
func (uc *StatementUseCase) GetStatement(ctx context.Context, input GetStatementInput) (*Statement, error) {
	party, err := uc.partyRepo.GetByID(ctx, input.PartyID)
	if err != nil {
		return nil, err
	}

	docs, err := uc.docRepo.ListForStatement(ctx, party.ID, input.From, input.To)
	if err != nil {
		return nil, err
	}

	stmt := &Statement{
		Party:        party,
		Lines:        make([]StatementLine, 0, len(docs)),
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
		Closing:      party.Balance,
	}

	for _, d := range docs {
		effect := d.SignedEffect()
		stmt.Lines = append(stmt.Lines, StatementLine{Document: d, Effect: effect})

		if effect.IsNegative() {
			stmt.TotalCredits = stmt.TotalCredits.Add(effect.Neg())
		} else {
			stmt.TotalDebits = stmt.TotalDebits.Add(effect)
		}
	}

	return stmt, nil
}
