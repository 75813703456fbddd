// Command seed provisions the conventional roles and a test user so the
// credentials flow works on a fresh database. It is idempotent.
package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/business-os/backend/domain"
	"github.com/business-os/backend/internal/config"
	pgInfra "github.com/business-os/backend/internal/infrastructure/postgres"
	"github.com/business-os/backend/pkg/logger"
	"github.com/business-os/backend/repository/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if cfg.Seed.Password == "" {
		log.Fatal("SEED_USER_PASSWORD is required")
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: "console",
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(ctx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	defer pool.Close()

	roleRepo := postgres.NewRoleRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	roles := []domain.Role{
		{Name: domain.RoleAdmin, Description: "Full administrative access"},
		{Name: domain.RoleUser, Description: "Regular user"},
	}
	for i := range roles {
		if err := roleRepo.Upsert(ctx, &roles[i]); err != nil {
			zapLogger.Fatal("failed to seed role", zap.String("role", roles[i].Name), zap.Error(err))
		}
		zapLogger.Info("role ready", zap.String("role", roles[i].Name), zap.String("id", roles[i].ID))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Seed.Password), bcrypt.DefaultCost)
	if err != nil {
		zapLogger.Fatal("failed to hash password", zap.Error(err))
	}

	userRole, err := roleRepo.GetByName(ctx, domain.RoleUser)
	if err != nil {
		zapLogger.Fatal("user role missing after seed", zap.Error(err))
	}

	user := &domain.User{
		Name:     cfg.Seed.UserName,
		Email:    cfg.Seed.UserEmail,
		Password: string(hash),
		RoleID:   userRole.ID,
	}
	if err := userRepo.Upsert(ctx, user); err != nil {
		zapLogger.Fatal("failed to seed user", zap.Error(err))
	}

	zapLogger.Info("test user ready",
		zap.String("email", user.Email),
		zap.String("user_id", user.ID))
}
