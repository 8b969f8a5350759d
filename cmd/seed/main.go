package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"

	_ "github.com/lib/pq"

	"github.com/vibestack/backend/internal/adapters/repository/postgres"
	"github.com/vibestack/backend/internal/config"
	"github.com/vibestack/backend/internal/core/domain"
	"github.com/vibestack/backend/internal/core/ports"
	"github.com/vibestack/backend/internal/core/services"
)

// Seeds an admin and a test account. Safe to run repeatedly: existing
// accounts are left alone.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	repo := postgres.NewUserRepository(db)
	hasher := services.NewPasswordHasher(cfg.BcryptCost)
	users := services.NewUserService(repo, hasher, logger)

	ctx := context.Background()

	adminUsername := "admin"
	admin, err := seedUser(ctx, users, ports.RegisterInput{
		Email:    envOr("ADMIN_EMAIL", "admin@vibestack.dev"),
		Password: envOr("ADMIN_PASSWORD", "Admin1234"),
		Username: &adminUsername,
	}, logger)
	if err != nil {
		os.Exit(1)
	}
	if admin != nil {
		admin.IsSuperuser = true
		admin.IsVerified = true
		admin.Role = "admin"
		if err := repo.Update(ctx, admin); err != nil {
			logger.Error("failed to promote admin user", "error", err)
			os.Exit(1)
		}
		logger.Info("admin user created", "email", admin.Email)
	}

	testUsername := "testuser"
	test, err := seedUser(ctx, users, ports.RegisterInput{
		Email:    envOr("TEST_EMAIL", "test@vibestack.dev"),
		Password: envOr("TEST_PASSWORD", "Test1234"),
		Username: &testUsername,
	}, logger)
	if err != nil {
		os.Exit(1)
	}
	if test != nil {
		logger.Info("test user created", "email", test.Email)
	}
}

func seedUser(ctx context.Context, users ports.UserService, input ports.RegisterInput, logger *slog.Logger) (*domain.User, error) {
	user, err := users.Register(ctx, input)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) || errors.Is(err, domain.ErrUsernameTaken) {
			logger.Info("user already exists, skipping", "email", input.Email)
			return nil, nil
		}
		logger.Error("failed to seed user", "email", input.Email, "error", err)
		return nil, err
	}
	return user, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
