package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/fieldops-service/internal/domain"
)

// ActorRepository reads authenticated identities. Role assignment itself is
// owned elsewhere; the core only interprets stored roles at decision time.
type ActorRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Actor, error)
	GetByEmail(ctx context.Context, email string) (*domain.Actor, error)
}

type actorRepository struct {
	pool *pgxpool.Pool
}

// NewActorRepository instantiates repository.
func NewActorRepository(pool *pgxpool.Pool) ActorRepository {
	return &actorRepository{pool: pool}
}

const actorColumns = `id, display_name, email, password_hash, role, active, created_at, updated_at`

func (r *actorRepository) GetByID(ctx context.Context, id string) (*domain.Actor, error) {
	return r.fetchSingle(ctx, `SELECT `+actorColumns+` FROM actors WHERE id=$1`, id)
}

func (r *actorRepository) GetByEmail(ctx context.Context, email string) (*domain.Actor, error) {
	return r.fetchSingle(ctx, `SELECT `+actorColumns+` FROM actors WHERE email=$1`, email)
}

func (r *actorRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Actor, error) {
	var actor domain.Actor
	var role string
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&actor.ID,
		&actor.DisplayName,
		&actor.Email,
		&actor.PasswordHash,
		&role,
		&actor.Active,
		&actor.CreatedAt,
		&actor.UpdatedAt,
	); err != nil {
		return nil, err
	}
	// Unrecognized stored roles collapse to RoleUnknown and fail closed.
	actor.Role = domain.ParseRole(role)
	return &actor, nil
}
