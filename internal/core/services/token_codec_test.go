package services

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibestack/backend/internal/core/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCodec(t *testing.T, secret string) *TokenCodec {
	t.Helper()
	codec, err := NewTokenCodec(secret, "HS256", testLogger())
	require.NoError(t, err)
	return codec
}

func testUser() *domain.User {
	username := "alice"
	return &domain.User{
		ID:          42,
		Email:       "alice@example.com",
		Username:    &username,
		IsActive:    true,
		IsSuperuser: true,
		Role:        "admin",
	}
}

func TestNewTokenCodec(t *testing.T) {
	_, err := NewTokenCodec("", "HS256", testLogger())
	assert.Error(t, err)

	_, err = NewTokenCodec("secret", "RS256", testLogger())
	assert.Error(t, err)

	_, err = NewTokenCodec("secret", "whatever", testLogger())
	assert.Error(t, err)

	_, err = NewTokenCodec("secret", "HS512", testLogger())
	assert.NoError(t, err)
}

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := testCodec(t, "test-secret")
	user := testUser()

	token, err := codec.Encode(user, domain.TokenKindAccess, time.Hour)
	require.NoError(t, err)

	claims, err := codec.Decode(token, domain.TokenKindAccess)
	require.NoError(t, err)

	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "alice@example.com", claims.Email)
	require.NotNil(t, claims.Username)
	assert.Equal(t, "alice", *claims.Username)
	assert.True(t, claims.IsSuperuser)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, domain.TokenKindAccess, claims.Kind)
	assert.NotEmpty(t, claims.ID)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenCodec_WrongSecret(t *testing.T) {
	codec := testCodec(t, "test-secret")
	other := testCodec(t, "other-secret")

	token, err := codec.Encode(testUser(), domain.TokenKindAccess, time.Hour)
	require.NoError(t, err)

	_, err = other.Decode(token, domain.TokenKindAccess)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenCodec_KindMismatch(t *testing.T) {
	codec := testCodec(t, "test-secret")

	refresh, err := codec.Encode(testUser(), domain.TokenKindRefresh, time.Hour)
	require.NoError(t, err)

	_, err = codec.Decode(refresh, domain.TokenKindAccess)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	access, err := codec.Encode(testUser(), domain.TokenKindAccess, time.Hour)
	require.NoError(t, err)

	_, err = codec.Decode(access, domain.TokenKindRefresh)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenCodec_UnknownKindRejected(t *testing.T) {
	codec := testCodec(t, "test-secret")

	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "42",
		"email": "alice@example.com",
		"type":  "session",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	token, err := raw.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = codec.Decode(token, domain.TokenKindAccess)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = codec.DecodeAny(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenCodec_Malformed(t *testing.T) {
	codec := testCodec(t, "test-secret")

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := codec.Decode(token, domain.TokenKindAccess)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
		assert.True(t, codec.IsExpired(token))
	}
}

func TestTokenCodec_ExpiredTokenStaysReadable(t *testing.T) {
	codec := testCodec(t, "test-secret")

	token, err := codec.Encode(testUser(), domain.TokenKindAccess, -time.Minute)
	require.NoError(t, err)

	// Decode does not enforce expiry; the explicit check does.
	claims, err := codec.Decode(token, domain.TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Email)

	exp, err := codec.Expiration(token)
	require.NoError(t, err)
	assert.True(t, exp.Before(time.Now()))
	assert.True(t, codec.IsExpired(token))
}

func TestTokenCodec_NotExpired(t *testing.T) {
	codec := testCodec(t, "test-secret")

	token, err := codec.Encode(testUser(), domain.TokenKindAccess, time.Hour)
	require.NoError(t, err)
	assert.False(t, codec.IsExpired(token))
}
