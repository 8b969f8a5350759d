package ports

import (
	"context"
	"time"

	"github.com/vibestack/backend/internal/core/domain"
)

// UserRepository is the credential store boundary. Lookups return
// (nil, nil) when no row matches.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context, skip, limit int, activeOnly bool) ([]domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id int64, hashedPassword string) error
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	SetActive(ctx context.Context, id int64, active bool) error
}

type RegisterInput struct {
	Email     string
	Password  string
	Username  *string
	FirstName *string
	LastName  *string
	Bio       *string
	AvatarURL *string
}

type UpdateUserInput struct {
	Email      *string
	Username   *string
	FirstName  *string
	LastName   *string
	Bio        *string
	AvatarURL  *string
	IsActive   *bool
	IsVerified *bool
}

type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, skip, limit int, activeOnly bool) ([]domain.User, error)
	Update(ctx context.Context, id int64, input UpdateUserInput) (*domain.User, error)
	Deactivate(ctx context.Context, id int64) error
	ChangePassword(ctx context.Context, id int64, currentPassword, newPassword string) error

	// Authenticate returns domain.ErrInvalidCredentials for unknown
	// email, wrong password and inactive account alike; callers cannot
	// tell the three apart. On success the last-login timestamp is
	// persisted as a side effect.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
}
