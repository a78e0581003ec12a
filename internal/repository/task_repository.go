package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/fieldops-service/internal/domain"
)

// TaskRepository encapsulates tasks and their checklist items.
type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByWorkOrder(ctx context.Context, workOrderID string) ([]domain.Task, error)
	UpdateChecklistItem(ctx context.Context, item *domain.ChecklistItem) error
}

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository instantiates repository.
func NewTaskRepository(pool *pgxpool.Pool) TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	var task domain.Task
	if err := r.pool.QueryRow(ctx,
		`SELECT id, work_order_id, name, created_at FROM tasks WHERE id=$1`, id).Scan(
		&task.ID,
		&task.WorkOrderID,
		&task.Name,
		&task.CreatedAt,
	); err != nil {
		return nil, err
	}
	items, err := r.listItems(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	task.Items = items
	return &task, nil
}

func (r *taskRepository) ListByWorkOrder(ctx context.Context, workOrderID string) ([]domain.Task, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, work_order_id, name, created_at FROM tasks WHERE work_order_id=$1 ORDER BY created_at ASC`,
		workOrderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(&task.ID, &task.WorkOrderID, &task.Name, &task.CreatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range tasks {
		items, err := r.listItems(ctx, tasks[i].ID)
		if err != nil {
			return nil, err
		}
		tasks[i].Items = items
	}
	return tasks, nil
}

func (r *taskRepository) listItems(ctx context.Context, taskID string) ([]domain.ChecklistItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, task_id, label, position, done, completed_by_id, completed_at
         FROM checklist_items WHERE task_id=$1 ORDER BY position ASC`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.ChecklistItem
	for rows.Next() {
		var item domain.ChecklistItem
		if err := rows.Scan(
			&item.ID,
			&item.TaskID,
			&item.Label,
			&item.Position,
			&item.Done,
			&item.CompletedByID,
			&item.CompletedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *taskRepository) UpdateChecklistItem(ctx context.Context, item *domain.ChecklistItem) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE checklist_items SET done=$1, completed_by_id=$2, completed_at=$3 WHERE id=$4`,
		item.Done, item.CompletedByID, item.CompletedAt, item.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
