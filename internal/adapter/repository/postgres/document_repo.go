package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mizanhq/mizan/internal/domain"
	"github.com/mizanhq/mizan/internal/usecase"
)

const documentColumns = `id, party_id, kind, number, total, paid, remaining, amount,
	old_balance, new_balance, doc_date, notes, created_at, updated_at`

// DocumentRepository implements usecase.DocumentRepository.
type DocumentRepository struct {
	pool *pgxpool.Pool
}

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{pool: pool}
}

// Create inserts a new document within a transaction.
func (r *DocumentRepository) Create(ctx context.Context, tx usecase.Transaction, doc *domain.Document) error {
	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := txQuerier(tx, r.pool).Exec(ctx, query,
		doc.ID,
		doc.PartyID,
		string(doc.Kind),
		doc.Number,
		decimalToNumeric(doc.Total),
		decimalToNumeric(doc.Paid),
		decimalToNumeric(doc.Remaining),
		decimalToNumeric(doc.Amount),
		decimalToNumeric(doc.OldBalance),
		decimalToNumeric(doc.NewBalance),
		timeToPgTimestamptz(doc.DocDate),
		doc.Notes,
		timeToPgTimestamptz(doc.CreatedAt),
		timeToPgTimestamptz(doc.UpdatedAt),
	)

	return err
}

// GetByID retrieves a document by ID.
func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`

	return r.scanDocument(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves a document by ID with a FOR UPDATE lock.
func (r *DocumentRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1 FOR UPDATE`

	return r.scanDocument(txQuerier(tx, r.pool).QueryRow(ctx, query, id))
}

// Update rewrites a document's mutable fields and balance snapshots.
// CreatedAt is never touched: it anchors the document's place in the
// ledger's true chronology.
func (r *DocumentRepository) Update(ctx context.Context, tx usecase.Transaction, doc *domain.Document) error {
	query := `
		UPDATE documents
		SET party_id = $2, number = $3, total = $4, paid = $5, remaining = $6,
		    amount = $7, old_balance = $8, new_balance = $9, doc_date = $10,
		    notes = $11, updated_at = $12
		WHERE id = $1
	`

	tag, err := txQuerier(tx, r.pool).Exec(ctx, query,
		doc.ID,
		doc.PartyID,
		doc.Number,
		decimalToNumeric(doc.Total),
		decimalToNumeric(doc.Paid),
		decimalToNumeric(doc.Remaining),
		decimalToNumeric(doc.Amount),
		decimalToNumeric(doc.OldBalance),
		decimalToNumeric(doc.NewBalance),
		timeToPgTimestamptz(doc.DocDate),
		doc.Notes,
		timeToPgTimestamptz(doc.UpdatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}

	return nil
}

// Delete removes a document.
func (r *DocumentRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	tag, err := txQuerier(tx, r.pool).Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}

	return nil
}

// ListByParty lists a party's documents in creation order with pagination.
func (r *DocumentRepository) ListByParty(ctx context.Context, partyID string, limit, offset int) ([]*domain.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE party_id = $1
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3
	`

	return r.queryDocuments(ctx, r.pool, query, partyID, limit, offset)
}

// ListForStatement lists a party's documents ordered by document date with
// creation time as tiebreaker, optionally bounded by a date range.
func (r *DocumentRepository) ListForStatement(ctx context.Context, partyID string, from, to *time.Time) ([]*domain.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE party_id = $1
		  AND ($2::timestamptz IS NULL OR doc_date >= $2)
		  AND ($3::timestamptz IS NULL OR doc_date <= $3)
		ORDER BY doc_date, created_at, id
	`

	return r.queryDocuments(ctx, r.pool, query, partyID, from, to)
}

// ListInCreationOrder lists all of a party's documents in creation order,
// inside the caller's transaction. Used by the balance repair path.
func (r *DocumentRepository) ListInCreationOrder(ctx context.Context, tx usecase.Transaction, partyID string) ([]*domain.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE party_id = $1
		ORDER BY created_at, id
	`

	return r.queryDocuments(ctx, txQuerier(tx, r.pool), query, partyID)
}

func (r *DocumentRepository) queryDocuments(ctx context.Context, q querier, query string, args ...any) ([]*domain.Document, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		doc, err := scanDocumentFrom(rows)
		if err != nil {
			return nil, err
		}

		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

func (r *DocumentRepository) scanDocument(row pgx.Row) (*domain.Document, error) {
	doc, err := scanDocumentFrom(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}

		return nil, err
	}

	return doc, nil
}

func scanDocumentFrom(row pgx.Row) (*domain.Document, error) {
	var (
		doc                            domain.Document
		kind                           string
		total, paid, remaining, amount pgtype.Numeric
		oldBalance, newBalance         pgtype.Numeric
		docDate, createdAt, updatedAt  pgtype.Timestamptz
	)

	err := row.Scan(
		&doc.ID,
		&doc.PartyID,
		&kind,
		&doc.Number,
		&total,
		&paid,
		&remaining,
		&amount,
		&oldBalance,
		&newBalance,
		&docDate,
		&doc.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	doc.Kind = domain.DocumentKind(kind)
	doc.Total = numericToDecimal(total)
	doc.Paid = numericToDecimal(paid)
	doc.Remaining = numericToDecimal(remaining)
	doc.Amount = numericToDecimal(amount)
	doc.OldBalance = numericToDecimal(oldBalance)
	doc.NewBalance = numericToDecimal(newBalance)
	doc.DocDate = docDate.Time
	doc.CreatedAt = createdAt.Time
	doc.UpdatedAt = updatedAt.Time

	return &doc, nil
}
