package ports

import (
	"context"
	"time"

	"github.com/vibestack/backend/internal/core/domain"
)

// TokenDenylist records explicitly revoked token ids (jti). Entries are
// only needed until the token's natural expiry.
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	PruneExpired(ctx context.Context, now time.Time) (int64, error)
}

type AuthService interface {
	// Login verifies credentials and issues an access/refresh pair.
	Login(ctx context.Context, email, password string) (*domain.TokenPair, error)

	// Refresh re-validates a refresh token and issues a new pair. The
	// old refresh token stays usable until it expires; there is no
	// rotation-time revocation.
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)

	// ResolveIdentity authenticates a bearer access token and returns
	// the caller's identity built from the live user record.
	ResolveIdentity(ctx context.Context, accessToken string) (*domain.Identity, error)

	// Revoke puts a token on the denylist until its natural expiry.
	Revoke(ctx context.Context, token string) error
}
