package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mizanhq/mizan/internal/domain"
	"github.com/mizanhq/mizan/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// FindDrifts compares each party's stored balance against its opening
// balance plus the sum of signed document effects. Invoices contribute their
// remaining amount, everything else contributes its amount negated.
func (r *LedgerRepository) FindDrifts(ctx context.Context) ([]*usecase.PartyDrift, error) {
	query := `
		SELECT p.id, p.code, p.kind, p.balance,
		       p.opening_balance + COALESCE(SUM(
		           CASE WHEN d.kind IN ('sales_invoice', 'purchase_invoice')
		                THEN d.remaining
		                ELSE -d.amount
		           END
		       ), 0) AS computed
		FROM parties p
		LEFT JOIN documents d ON d.party_id = p.id
		GROUP BY p.id, p.code, p.kind, p.balance, p.opening_balance
		HAVING p.balance <> p.opening_balance + COALESCE(SUM(
		           CASE WHEN d.kind IN ('sales_invoice', 'purchase_invoice')
		                THEN d.remaining
		                ELSE -d.amount
		           END
		       ), 0)
		ORDER BY p.code
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drifts []*usecase.PartyDrift
	for rows.Next() {
		var (
			drift            usecase.PartyDrift
			kind             string
			stored, computed pgtype.Numeric
		)

		if err := rows.Scan(&drift.PartyID, &drift.Code, &kind, &stored, &computed); err != nil {
			return nil, err
		}

		drift.Kind = domain.PartyKind(kind)
		drift.Stored = numericToDecimal(stored)
		drift.Computed = numericToDecimal(computed)
		drift.Difference = drift.Stored.Sub(drift.Computed)

		drifts = append(drifts, &drift)
	}

	return drifts, rows.Err()
}

// Summary returns the ledger-wide receivables/payables overview. Receivables
// sum positive customer balances, payables sum positive supplier balances.
func (r *LedgerRepository) Summary(ctx context.Context) (*usecase.LedgerSummary, error) {
	query := `
		SELECT
			COALESCE(SUM(balance) FILTER (WHERE kind = 'customer' AND balance > 0), 0),
			COALESCE(SUM(balance) FILTER (WHERE kind = 'supplier' AND balance > 0), 0),
			COUNT(*) FILTER (WHERE kind = 'customer'),
			COUNT(*) FILTER (WHERE kind = 'supplier'),
			(SELECT COUNT(*) FROM documents)
		FROM parties
	`

	var (
		summary               usecase.LedgerSummary
		receivables, payables pgtype.Numeric
	)

	err := r.pool.QueryRow(ctx, query).Scan(
		&receivables,
		&payables,
		&summary.CustomerCount,
		&summary.SupplierCount,
		&summary.DocumentCount,
	)
	if err != nil {
		return nil, err
	}

	summary.Receivables = numericToDecimal(receivables)
	summary.Payables = numericToDecimal(payables)

	return &summary, nil
}
