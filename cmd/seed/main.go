// Command seed creates the default user accounts when the users table is
// empty. Safe to re-run.
package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/docvault/backend/internal/auth"
	"github.com/docvault/backend/internal/config"
	"github.com/docvault/backend/internal/db"
	"github.com/docvault/backend/internal/models"
	"github.com/docvault/backend/internal/repositories"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx := context.Background()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, "migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	userRepo := repositories.NewUserRepo(pool)

	count, err := userRepo.Count(ctx)
	if err != nil {
		log.Fatal("failed to count users", zap.Error(err))
	}
	if count > 0 {
		log.Info("users already exist, skipping seed", zap.Int("count", count))
		return
	}

	defaults := []struct {
		email string
		name  string
		role  string
	}{
		{"admin@pln.com", "Admin User", models.RoleAdmin},
		{"editor@pln.com", "Editor User", models.RoleEditor},
		{"viewer@pln.com", "Viewer User", models.RoleViewer},
		{"john.doe@pln.com", "John Doe", models.RoleEditor},
		{"jane.smith@pln.com", "Jane Smith", models.RoleViewer},
	}

	hash, err := auth.HashPassword(cfg.SeedPassword)
	if err != nil {
		log.Fatal("failed to hash seed password", zap.Error(err))
	}

	for _, d := range defaults {
		u := &models.User{
			Email:        d.email,
			Name:         d.name,
			Role:         d.role,
			Status:       models.StatusActive,
			PasswordHash: hash,
		}
		if err := userRepo.Create(ctx, u); err != nil {
			log.Fatal("failed to create user", zap.String("email", d.email), zap.Error(err))
		}
		log.Info("created user", zap.String("email", d.email), zap.String("role", d.role))
	}
}
