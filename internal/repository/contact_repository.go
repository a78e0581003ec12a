package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/fieldops-service/internal/domain"
)

// ContactRepository encapsulates clients, contacts, and additional-contact
// grants. Grant removal is a hard delete; there is no soft-hide.
type ContactRepository interface {
	GetClient(ctx context.Context, id string) (*domain.Client, error)
	GetByID(ctx context.Context, id string) (*domain.Contact, error)
	GetByActorID(ctx context.Context, actorID string) (*domain.Contact, error)
	ListByClient(ctx context.Context, clientID string) ([]domain.Contact, error)
	AddGrant(ctx context.Context, grant *domain.ContactGrant) error
	RemoveGrant(ctx context.Context, workOrderID, contactID string) error
	HasGrant(ctx context.Context, workOrderID, contactID string) (bool, error)
	ListGrants(ctx context.Context, workOrderID string) ([]domain.ContactGrant, error)
}

type contactRepository struct {
	pool *pgxpool.Pool
}

// NewContactRepository instantiates repository.
func NewContactRepository(pool *pgxpool.Pool) ContactRepository {
	return &contactRepository{pool: pool}
}

const contactColumns = `id, client_id, actor_id, name, email, phone, created_at`

func (r *contactRepository) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	var client domain.Client
	if err := r.pool.QueryRow(ctx, `SELECT id, name, created_at FROM clients WHERE id=$1`, id).Scan(
		&client.ID,
		&client.Name,
		&client.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *contactRepository) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	return r.fetchSingle(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id=$1`, id)
}

func (r *contactRepository) GetByActorID(ctx context.Context, actorID string) (*domain.Contact, error) {
	return r.fetchSingle(ctx, `SELECT `+contactColumns+` FROM contacts WHERE actor_id=$1`, actorID)
}

func (r *contactRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Contact, error) {
	var contact domain.Contact
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&contact.ID,
		&contact.ClientID,
		&contact.ActorID,
		&contact.Name,
		&contact.Email,
		&contact.Phone,
		&contact.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *contactRepository) ListByClient(ctx context.Context, clientID string) ([]domain.Contact, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+contactColumns+` FROM contacts WHERE client_id=$1 ORDER BY name ASC`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Contact
	for rows.Next() {
		var contact domain.Contact
		if err := rows.Scan(
			&contact.ID,
			&contact.ClientID,
			&contact.ActorID,
			&contact.Name,
			&contact.Email,
			&contact.Phone,
			&contact.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, contact)
	}
	return result, rows.Err()
}

func (r *contactRepository) AddGrant(ctx context.Context, grant *domain.ContactGrant) error {
	const query = `
        INSERT INTO work_order_contact_grants (work_order_id, contact_id, granted_by_id)
        VALUES ($1,$2,$3)
        ON CONFLICT (work_order_id, contact_id) DO NOTHING
        RETURNING created_at`
	err := r.pool.QueryRow(ctx, query, grant.WorkOrderID, grant.ContactID, grant.GrantedByID).Scan(&grant.CreatedAt)
	if err == pgx.ErrNoRows {
		// Grant already existed; adding is idempotent.
		return nil
	}
	return err
}

func (r *contactRepository) RemoveGrant(ctx context.Context, workOrderID, contactID string) error {
	cmd, err := r.pool.Exec(ctx,
		`DELETE FROM work_order_contact_grants WHERE work_order_id=$1 AND contact_id=$2`,
		workOrderID, contactID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *contactRepository) HasGrant(ctx context.Context, workOrderID, contactID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM work_order_contact_grants WHERE work_order_id=$1 AND contact_id=$2)`,
		workOrderID, contactID).Scan(&exists)
	return exists, err
}

func (r *contactRepository) ListGrants(ctx context.Context, workOrderID string) ([]domain.ContactGrant, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT work_order_id, contact_id, granted_by_id, created_at FROM work_order_contact_grants WHERE work_order_id=$1`,
		workOrderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ContactGrant
	for rows.Next() {
		var grant domain.ContactGrant
		if err := rows.Scan(&grant.WorkOrderID, &grant.ContactID, &grant.GrantedByID, &grant.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, grant)
	}
	return result, rows.Err()
}
