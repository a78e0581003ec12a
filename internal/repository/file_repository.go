package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/fieldops-service/internal/domain"
)

// FileRepository encapsulates file metadata persistence.
type FileRepository interface {
	Create(ctx context.Context, file *domain.FileRecord) error
	GetByID(ctx context.Context, id string) (*domain.FileRecord, error)
	UpdateVisibility(ctx context.Context, id string, visible bool) error
	ListByWorkOrder(ctx context.Context, workOrderID string) ([]domain.FileRecord, error)
}

type fileRepository struct {
	pool *pgxpool.Pool
}

// NewFileRepository instantiates repository.
func NewFileRepository(pool *pgxpool.Pool) FileRepository {
	return &fileRepository{pool: pool}
}

const fileColumns = `id, work_order_id, file_name, category, storage_key, mime_type, size_bytes, visible_to_client, uploaded_by_id, created_at`

func (r *fileRepository) Create(ctx context.Context, file *domain.FileRecord) error {
	const query = `
        INSERT INTO file_records (work_order_id, file_name, category, storage_key, mime_type, size_bytes, visible_to_client, uploaded_by_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		file.WorkOrderID,
		file.FileName,
		file.Category,
		file.StorageKey,
		file.MimeType,
		file.SizeBytes,
		file.VisibleToClient,
		file.UploadedByID,
	).Scan(&file.ID, &file.CreatedAt)
}

func (r *fileRepository) GetByID(ctx context.Context, id string) (*domain.FileRecord, error) {
	var file domain.FileRecord
	if err := r.pool.QueryRow(ctx, `SELECT `+fileColumns+` FROM file_records WHERE id=$1`, id).Scan(
		&file.ID,
		&file.WorkOrderID,
		&file.FileName,
		&file.Category,
		&file.StorageKey,
		&file.MimeType,
		&file.SizeBytes,
		&file.VisibleToClient,
		&file.UploadedByID,
		&file.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *fileRepository) UpdateVisibility(ctx context.Context, id string, visible bool) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE file_records SET visible_to_client=$1 WHERE id=$2`, visible, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *fileRepository) ListByWorkOrder(ctx context.Context, workOrderID string) ([]domain.FileRecord, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+fileColumns+` FROM file_records WHERE work_order_id=$1 ORDER BY created_at ASC`, workOrderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.FileRecord
	for rows.Next() {
		var file domain.FileRecord
		if err := rows.Scan(
			&file.ID,
			&file.WorkOrderID,
			&file.FileName,
			&file.Category,
			&file.StorageKey,
			&file.MimeType,
			&file.SizeBytes,
			&file.VisibleToClient,
			&file.UploadedByID,
			&file.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, file)
	}
	return result, rows.Err()
}
