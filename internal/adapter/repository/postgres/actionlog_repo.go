package postgres

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mizanhq/mizan/internal/domain"
	"github.com/mizanhq/mizan/internal/usecase"
)

// ActionLogRepository implements usecase.ActionLogRepository.
type ActionLogRepository struct {
	pool *pgxpool.Pool
}

// NewActionLogRepository creates a new ActionLogRepository.
func NewActionLogRepository(pool *pgxpool.Pool) *ActionLogRepository {
	return &ActionLogRepository{pool: pool}
}

// Create inserts a new action log entry outside any transaction.
func (r *ActionLogRepository) Create(ctx context.Context, log *domain.ActionLog) error {
	return r.create(ctx, r.pool, log)
}

// CreateTx inserts a new action log entry within the caller's transaction,
// so the log commits or rolls back together with the ledger mutation.
func (r *ActionLogRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.ActionLog) error {
	return r.create(ctx, txQuerier(tx, r.pool), log)
}

func (r *ActionLogRepository) create(ctx context.Context, q querier, log *domain.ActionLog) error {
	var beforeJSON, afterJSON []byte
	var err error

	if log.BeforeState != nil {
		beforeJSON, err = json.Marshal(log.BeforeState)
		if err != nil {
			return err
		}
	}

	if log.AfterState != nil {
		afterJSON, err = json.Marshal(log.AfterState)
		if err != nil {
			return err
		}
	}

	query := `
		INSERT INTO action_logs (
			id, actor, action, resource_type, resource_id, request_id,
			before_state, after_state, status, error_message, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = q.Exec(ctx, query,
		log.ID,
		log.Actor,
		log.Action,
		log.ResourceType,
		log.ResourceID,
		log.RequestID,
		beforeJSON,
		afterJSON,
		log.Status,
		log.ErrorMessage,
		timeToPgTimestamptz(log.CreatedAt),
	)

	return err
}

// List retrieves action logs with filtering, newest first.
func (r *ActionLogRepository) List(ctx context.Context, filter domain.ActionFilter) ([]*domain.ActionLog, error) {
	query := `
		SELECT id, actor, action, resource_type, resource_id, request_id,
		       before_state, after_state, status, error_message, created_at
		FROM action_logs
		WHERE 1=1
	`
	args := []any{}

	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Actor != "" {
		query += ` AND actor = ` + arg(filter.Actor)
	}

	if filter.Action != "" {
		query += ` AND action = ` + arg(filter.Action)
	}

	if filter.ResourceType != "" {
		query += ` AND resource_type = ` + arg(filter.ResourceType)
	}

	if filter.ResourceID != "" {
		query += ` AND resource_id = ` + arg(filter.ResourceID)
	}

	if filter.StartDate != nil {
		query += ` AND created_at >= ` + arg(*filter.StartDate)
	}

	if filter.EndDate != nil {
		query += ` AND created_at <= ` + arg(*filter.EndDate)
	}

	query += ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ` + arg(filter.Limit)
	}

	if filter.Offset > 0 {
		query += ` OFFSET ` + arg(filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*domain.ActionLog
	for rows.Next() {
		var log domain.ActionLog
		var beforeJSON, afterJSON []byte

		err := rows.Scan(
			&log.ID,
			&log.Actor,
			&log.Action,
			&log.ResourceType,
			&log.ResourceID,
			&log.RequestID,
			&beforeJSON,
			&afterJSON,
			&log.Status,
			&log.ErrorMessage,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if beforeJSON != nil {
			_ = json.Unmarshal(beforeJSON, &log.BeforeState)
		}

		if afterJSON != nil {
			_ = json.Unmarshal(afterJSON, &log.AfterState)
		}

		logs = append(logs, &log)
	}

	return logs, rows.Err()
}
