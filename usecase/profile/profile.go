package profile

import (
	"context"

	"go.uber.org/zap"

	"github.com/business-os/backend/domain"
	"github.com/business-os/backend/repository"
)

// UseCase exposes the authenticated user's own record. Profiles are
// provisioned out-of-band and read-only here.
type UseCase struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func New(users repository.UserRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		logger: logger,
	}
}

func (uc *UseCase) GetProfile(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	return uc.users.GetByEmail(ctx, identity.Email)
}
