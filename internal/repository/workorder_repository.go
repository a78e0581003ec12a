package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/fieldops-service/internal/domain"
)

// WorkOrderFilter captures listing parameters.
type WorkOrderFilter struct {
	OwnerID         *string
	ClientID        *string
	AssignedActorID *string
	Statuses        []domain.WorkOrderStatus
	SearchTerm      *string
	Limit           int
	Offset          int
}

// WorkOrderRepository encapsulates work order persistence. Updates are
// last-write-wins; there is no version token.
type WorkOrderRepository interface {
	Create(ctx context.Context, order *domain.WorkOrder) error
	Update(ctx context.Context, order *domain.WorkOrder) error
	GetByID(ctx context.Context, id string) (*domain.WorkOrder, error)
	ListWithFilter(ctx context.Context, filter WorkOrderFilter) ([]domain.WorkOrder, error)
}

type workOrderRepository struct {
	pool *pgxpool.Pool
}

// NewWorkOrderRepository instantiates repository.
func NewWorkOrderRepository(pool *pgxpool.Pool) WorkOrderRepository {
	return &workOrderRepository{pool: pool}
}

const workOrderColumns = `id, external_key, title, description, status, status_reason,
        owner_id, client_id, pm_contact_id, assigned_actor_ids, team_actor_ids, created_at, updated_at`

func (r *workOrderRepository) Create(ctx context.Context, order *domain.WorkOrder) error {
	const query = `
        INSERT INTO work_orders (external_key, title, description, status, status_reason, owner_id, client_id, pm_contact_id, assigned_actor_ids, team_actor_ids)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		order.ExternalKey,
		order.Title,
		order.Description,
		order.Status,
		order.StatusReason,
		order.OwnerID,
		order.ClientID,
		order.PMID,
		order.AssignedActorIDs,
		order.TeamActorIDs,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
}

func (r *workOrderRepository) Update(ctx context.Context, order *domain.WorkOrder) error {
	const query = `
        UPDATE work_orders SET title=$1, description=$2, status=$3, status_reason=$4,
            client_id=$5, pm_contact_id=$6, assigned_actor_ids=$7, team_actor_ids=$8, updated_at=NOW()
        WHERE id=$9`
	cmd, err := r.pool.Exec(ctx, query,
		order.Title,
		order.Description,
		order.Status,
		order.StatusReason,
		order.ClientID,
		order.PMID,
		order.AssignedActorIDs,
		order.TeamActorIDs,
		order.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *workOrderRepository) GetByID(ctx context.Context, id string) (*domain.WorkOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM work_orders WHERE id=$1`, workOrderColumns)
	var order domain.WorkOrder
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.ExternalKey,
		&order.Title,
		&order.Description,
		&order.Status,
		&order.StatusReason,
		&order.OwnerID,
		&order.ClientID,
		&order.PMID,
		&order.AssignedActorIDs,
		&order.TeamActorIDs,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, err
	}
	// Loads re-verify the reason invariant so no persistence round-trip can
	// hand out a violating (status, reason) pair.
	if err := order.CheckReasonInvariant(); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *workOrderRepository) ListWithFilter(ctx context.Context, filter WorkOrderFilter) ([]domain.WorkOrder, error) {
	base := fmt.Sprintf(`SELECT %s FROM work_orders`, workOrderColumns)
	clauses := []string{"1=1"}
	args := []any{}

	if filter.OwnerID != nil {
		args = append(args, *filter.OwnerID)
		clauses = append(clauses, fmt.Sprintf("owner_id=$%d", len(args)))
	}
	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		clauses = append(clauses, fmt.Sprintf("client_id=$%d", len(args)))
	}
	if filter.AssignedActorID != nil {
		args = append(args, *filter.AssignedActorID)
		clauses = append(clauses, fmt.Sprintf("($%d = ANY(assigned_actor_ids) OR $%d = ANY(team_actor_ids))", len(args), len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanWorkOrders(rows)
}

func scanWorkOrders(rows pgx.Rows) ([]domain.WorkOrder, error) {
	var result []domain.WorkOrder
	for rows.Next() {
		var order domain.WorkOrder
		if err := rows.Scan(
			&order.ID,
			&order.ExternalKey,
			&order.Title,
			&order.Description,
			&order.Status,
			&order.StatusReason,
			&order.OwnerID,
			&order.ClientID,
			&order.PMID,
			&order.AssignedActorIDs,
			&order.TeamActorIDs,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err := order.CheckReasonInvariant(); err != nil {
			return nil, err
		}
		result = append(result, order)
	}
	return result, rows.Err()
}
