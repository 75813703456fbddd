package repository

import (
	"context"

	"github.com/business-os/backend/domain"
)

type RoleRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Role, error)
	GetByName(ctx context.Context, name string) (*domain.Role, error)
	Upsert(ctx context.Context, role *domain.Role) error
}
