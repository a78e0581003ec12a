package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StatusHistoryEntry records one status transition for audit display.
type StatusHistoryEntry struct {
	ID          string
	WorkOrderID string
	ActorID     string
	OldStatus   string
	NewStatus   string
	Reason      *string
	CreatedAt   time.Time
}

// HistoryRepository encapsulates the work order status audit trail.
type HistoryRepository interface {
	Create(ctx context.Context, entry *StatusHistoryEntry) error
	ListByWorkOrder(ctx context.Context, workOrderID string, limit, offset int) ([]StatusHistoryEntry, error)
}

type historyRepository struct {
	pool *pgxpool.Pool
}

// NewHistoryRepository instantiates repository.
func NewHistoryRepository(pool *pgxpool.Pool) HistoryRepository {
	return &historyRepository{pool: pool}
}

func (r *historyRepository) Create(ctx context.Context, entry *StatusHistoryEntry) error {
	const query = `
        INSERT INTO work_order_history (work_order_id, actor_id, old_status, new_status, reason)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.WorkOrderID,
		entry.ActorID,
		entry.OldStatus,
		entry.NewStatus,
		entry.Reason,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *historyRepository) ListByWorkOrder(ctx context.Context, workOrderID string, limit, offset int) ([]StatusHistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, work_order_id, actor_id, old_status, new_status, reason, created_at
         FROM work_order_history WHERE work_order_id=$1
         ORDER BY created_at DESC LIMIT $2 OFFSET $3`, workOrderID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []StatusHistoryEntry
	for rows.Next() {
		var entry StatusHistoryEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.WorkOrderID,
			&entry.ActorID,
			&entry.OldStatus,
			&entry.NewStatus,
			&entry.Reason,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
