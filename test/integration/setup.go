package integration

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"

	"github.com/vibestack/backend/internal/adapters/handler/http"
	pgrepo "github.com/vibestack/backend/internal/adapters/repository/postgres"
	"github.com/vibestack/backend/internal/core/domain"
	"github.com/vibestack/backend/internal/core/ports"
	"github.com/vibestack/backend/internal/core/services"
)

const testSecret = "test-secret"

type TestApp struct {
	Container testcontainers.Container
	DB        *sql.DB
	Server    *httptest.Server
	Client    *stdhttp.Client
	Repo      ports.UserRepository
	Users     ports.UserService
	Auth      ports.AuthService
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		fullPath := filepath.Join(dirPath, entry.Name())
		content, err := os.ReadFile(fullPath)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		_, err = db.Exec(string(content))
		if err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()

	ctx := context.Background()
	container, connStr, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	require.NoError(t, applyMigrations(db))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	codec, err := services.NewTokenCodec(testSecret, "HS256", logger)
	require.NoError(t, err)

	repo := pgrepo.NewUserRepository(db)
	denylist := pgrepo.NewRevokedTokenRepository(db)
	users := services.NewUserService(repo, services.NewPasswordHasher(bcrypt.MinCost), logger)
	auth := services.NewAuthService(users, denylist, codec, time.Hour, 7*24*time.Hour, logger)

	handler := http.NewHandler(
		auth,
		http.NewAuthHandler(auth, users, logger),
		http.NewUserHandler(users, logger),
		http.NewHealthHandler(db, "test", "testing"),
	)
	server := httptest.NewServer(handler)

	return &TestApp{
		Container: container,
		DB:        db,
		Server:    server,
		Client:    server.Client(),
		Repo:      repo,
		Users:     users,
		Auth:      auth,
	}
}

func (a *TestApp) Teardown(t *testing.T) {
	t.Helper()
	a.Server.Close()
	a.DB.Close()
	require.NoError(t, a.Container.Terminate(context.Background()))
}

func (a *TestApp) createUser(t *testing.T, email, password string, superuser bool) *domain.User {
	t.Helper()

	user, err := a.Users.Register(context.Background(), ports.RegisterInput{
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)

	if superuser {
		user.IsSuperuser = true
		user.Role = "admin"
		require.NoError(t, a.Repo.Update(context.Background(), user))
	}
	return user
}
