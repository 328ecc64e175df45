package postgres

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mizanhq/mizan/internal/domain"
	"github.com/mizanhq/mizan/internal/usecase"
)

const pgErrUniqueViolation = "23505"

const partyColumns = `id, code, name, kind, status, balance, opening_balance,
	first_transaction_at, last_transaction_at, version, created_at, updated_at`

// PartyRepository implements usecase.PartyRepository.
type PartyRepository struct {
	pool *pgxpool.Pool
}

// NewPartyRepository creates a new PartyRepository.
func NewPartyRepository(pool *pgxpool.Pool) *PartyRepository {
	return &PartyRepository{pool: pool}
}

// Create inserts a new party.
func (r *PartyRepository) Create(ctx context.Context, tx usecase.Transaction, party *domain.Party) error {
	query := `
		INSERT INTO parties (` + partyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := txQuerier(tx, r.pool).Exec(ctx, query,
		party.ID,
		party.Code,
		party.Name,
		string(party.Kind),
		string(party.Status),
		decimalToNumeric(party.Balance),
		decimalToNumeric(party.OpeningBalance),
		party.FirstTransactionAt,
		party.LastTransactionAt,
		party.Version,
		timeToPgTimestamptz(party.CreatedAt),
		timeToPgTimestamptz(party.UpdatedAt),
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
		return domain.ErrDuplicateCode
	}

	return err
}

// GetByID retrieves a party by ID.
func (r *PartyRepository) GetByID(ctx context.Context, id string) (*domain.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties WHERE id = $1`

	return r.scanParty(r.pool.QueryRow(ctx, query, id))
}

// GetByCode retrieves a party by its short code.
func (r *PartyRepository) GetByCode(ctx context.Context, code string) (*domain.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties WHERE code = $1`

	return r.scanParty(r.pool.QueryRow(ctx, query, code))
}

// GetByIDForUpdate retrieves a party by ID with a FOR UPDATE lock.
func (r *PartyRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties WHERE id = $1 FOR UPDATE`

	return r.scanParty(txQuerier(tx, r.pool).QueryRow(ctx, query, id))
}

// GetByIDsForUpdate retrieves multiple parties with FOR UPDATE locks. The
// caller passes IDs pre-sorted so concurrent transactions lock in the same
// order.
func (r *PartyRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Party, error) {
	query := `
		SELECT ` + partyColumns + `
		FROM parties
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE
	`

	rows, err := txQuerier(tx, r.pool).Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parties []*domain.Party
	for rows.Next() {
		party, err := r.scanPartyRow(rows)
		if err != nil {
			return nil, err
		}

		parties = append(parties, party)
	}

	return parties, rows.Err()
}

// UpdateBalance updates a party's running balance and bumps its version.
func (r *PartyRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	query := `
		UPDATE parties
		SET balance = $2, version = version + 1, updated_at = $3
		WHERE id = $1
	`

	tag, err := txQuerier(tx, r.pool).Exec(ctx, query, id, decimalToNumeric(balance), timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrPartyNotFound
	}

	return nil
}

// RefreshTransactionRange recomputes the party's first/last transaction
// timestamps from its documents' creation times.
func (r *PartyRepository) RefreshTransactionRange(ctx context.Context, tx usecase.Transaction, id string) error {
	query := `
		UPDATE parties
		SET first_transaction_at = agg.first_at, last_transaction_at = agg.last_at
		FROM (
			SELECT MIN(created_at) AS first_at, MAX(created_at) AS last_at
			FROM documents
			WHERE party_id = $1
		) agg
		WHERE parties.id = $1
	`

	_, err := txQuerier(tx, r.pool).Exec(ctx, query, id)

	return err
}

// SetStatus updates a party's lifecycle status.
func (r *PartyRepository) SetStatus(ctx context.Context, id string, status domain.PartyStatus, updatedAt time.Time) error {
	query := `UPDATE parties SET status = $2, updated_at = $3 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, string(status), timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrPartyNotFound
	}

	return nil
}

// List lists parties with pagination, optionally filtered by kind.
func (r *PartyRepository) List(ctx context.Context, kind *domain.PartyKind, limit, offset int) ([]*domain.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties`
	args := []any{}

	if kind != nil {
		query += ` WHERE kind = $1`
		args = append(args, string(*kind))
	}

	query += ` ORDER BY code`

	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	args = append(args, offset)
	query += ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parties []*domain.Party
	for rows.Next() {
		party, err := r.scanPartyRow(rows)
		if err != nil {
			return nil, err
		}

		parties = append(parties, party)
	}

	return parties, rows.Err()
}

func (r *PartyRepository) scanParty(row pgx.Row) (*domain.Party, error) {
	party, err := scanPartyFrom(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPartyNotFound
		}

		return nil, err
	}

	return party, nil
}

func (r *PartyRepository) scanPartyRow(rows pgx.Rows) (*domain.Party, error) {
	return scanPartyFrom(rows)
}

func scanPartyFrom(row pgx.Row) (*domain.Party, error) {
	var (
		party            domain.Party
		kind, status     string
		balance, opening pgtype.Numeric
		firstAt, lastAt  pgtype.Timestamptz
		createdAt        pgtype.Timestamptz
		updatedAt        pgtype.Timestamptz
	)

	err := row.Scan(
		&party.ID,
		&party.Code,
		&party.Name,
		&kind,
		&status,
		&balance,
		&opening,
		&firstAt,
		&lastAt,
		&party.Version,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	party.Kind = domain.PartyKind(kind)
	party.Status = domain.PartyStatus(status)
	party.Balance = numericToDecimal(balance)
	party.OpeningBalance = numericToDecimal(opening)
	party.FirstTransactionAt = pgTimestamptzToTimePtr(firstAt)
	party.LastTransactionAt = pgTimestamptzToTimePtr(lastAt)
	party.CreatedAt = createdAt.Time
	party.UpdatedAt = updatedAt.Time

	return &party, nil
}
