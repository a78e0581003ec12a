package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/fieldops-service/internal/domain"
)

// HubMessageRepository encapsulates hub channel message persistence. Messages
// are append-only; removing a contact grant never rewrites history.
type HubMessageRepository interface {
	Create(ctx context.Context, msg *domain.HubMessage) error
	ListByWorkOrder(ctx context.Context, workOrderID string) ([]domain.HubMessage, error)
}

type hubMessageRepository struct {
	pool *pgxpool.Pool
}

// NewHubMessageRepository instantiates repository.
func NewHubMessageRepository(pool *pgxpool.Pool) HubMessageRepository {
	return &hubMessageRepository{pool: pool}
}

func (r *hubMessageRepository) Create(ctx context.Context, msg *domain.HubMessage) error {
	const query = `
        INSERT INTO hub_messages (work_order_id, author_id, author_name, client_name, body)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		msg.WorkOrderID,
		msg.AuthorID,
		msg.AuthorName,
		msg.ClientName,
		msg.Body,
	).Scan(&msg.ID, &msg.CreatedAt)
}

func (r *hubMessageRepository) ListByWorkOrder(ctx context.Context, workOrderID string) ([]domain.HubMessage, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, work_order_id, author_id, author_name, client_name, body, created_at
         FROM hub_messages WHERE work_order_id=$1 ORDER BY created_at ASC`, workOrderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.HubMessage
	for rows.Next() {
		var msg domain.HubMessage
		if err := rows.Scan(
			&msg.ID,
			&msg.WorkOrderID,
			&msg.AuthorID,
			&msg.AuthorName,
			&msg.ClientName,
			&msg.Body,
			&msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}
