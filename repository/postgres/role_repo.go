package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/business-os/backend/domain"
	"github.com/business-os/backend/repository"
)

type roleRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRepository instantiates a Postgres-backed role repository.
func NewRoleRepository(pool *pgxpool.Pool) repository.RoleRepository {
	return &roleRepository{pool: pool}
}

func (r *roleRepository) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	const query = `SELECT id, name, description FROM roles WHERE id = $1`
	return scanRole(r.pool.QueryRow(ctx, query, id))
}

func (r *roleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	const query = `SELECT id, name, description FROM roles WHERE name = $1`
	return scanRole(r.pool.QueryRow(ctx, query, name))
}

func scanRole(row pgx.Row) (*domain.Role, error) {
	var role domain.Role
	if err := row.Scan(&role.ID, &role.Name, &role.Description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) Upsert(ctx context.Context, role *domain.Role) error {
	if role == nil {
		return domain.ErrInvalidPayload
	}
	if role.ID == "" {
		role.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO roles (id, name, description)
	VALUES ($1, $2, $3)
	ON CONFLICT (name) DO UPDATE
	SET description = EXCLUDED.description
	RETURNING id
	`

	return r.pool.QueryRow(ctx, query, role.ID, role.Name, role.Description).Scan(&role.ID)
}
