package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vibestack/backend/internal/core/domain"
)

// TokenClaims is the signed payload carried by both token kinds. The
// subject is the numeric user id rendered as a string.
type TokenClaims struct {
	Email       string           `json:"email"`
	Username    *string          `json:"username"`
	IsSuperuser bool             `json:"is_superuser"`
	Role        string           `json:"role"`
	Kind        domain.TokenKind `json:"type"`
	jwt.RegisteredClaims
}

// UserID parses the subject back into the user id.
func (c *TokenClaims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid token subject %q: %w", c.Subject, err)
	}
	return id, nil
}

// TokenCodec signs and verifies claim sets with a symmetric key.
// Decode deliberately does not enforce expiry; callers run the explicit
// IsExpired check so that expired payloads stay readable.
type TokenCodec struct {
	secret []byte
	method jwt.SigningMethod
	logger *slog.Logger
}

func NewTokenCodec(secret, algorithm string, logger *slog.Logger) (*TokenCodec, error) {
	if secret == "" {
		return nil, errors.New("signing secret is required")
	}
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm %q is not symmetric", algorithm)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenCodec{secret: []byte(secret), method: method, logger: logger}, nil
}

// Encode signs the user's claims with the given kind and lifetime. Each
// token gets a fresh jti so revocation can target a single token.
func (c *TokenCodec) Encode(user *domain.User, kind domain.TokenKind, ttl time.Duration) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("invalid token kind %q", kind)
	}
	now := time.Now()
	claims := TokenClaims{
		Email:       user.Email,
		Username:    user.Username,
		IsSuperuser: user.IsSuperuser,
		Role:        user.Role,
		Kind:        kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature and the token kind. Signature failures,
// malformed payloads and kind mismatches all surface as
// domain.ErrInvalidToken; the actual cause is only logged.
func (c *TokenCodec) Decode(tokenStr string, kind domain.TokenKind) (*TokenClaims, error) {
	claims, err := c.parse(tokenStr)
	if err != nil {
		c.logger.Warn("token verification failed", "error", err)
		return nil, domain.ErrInvalidToken
	}
	if claims.Kind != kind {
		c.logger.Warn("token kind mismatch", "expected", string(kind), "actual", string(claims.Kind))
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// DecodeAny verifies the signature without expecting a specific kind.
// Used by revocation, which accepts either token kind.
func (c *TokenCodec) DecodeAny(tokenStr string) (*TokenClaims, error) {
	claims, err := c.parse(tokenStr)
	if err != nil {
		c.logger.Warn("token verification failed", "error", err)
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

// Expiration returns the embedded expiry instant. It works on expired
// tokens as long as the signature checks out.
func (c *TokenCodec) Expiration(tokenStr string) (time.Time, error) {
	claims, err := c.parse(tokenStr)
	if err != nil {
		return time.Time{}, domain.ErrInvalidToken
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, domain.ErrInvalidToken
	}
	return claims.ExpiresAt.Time, nil
}

// IsExpired is the explicit expiry check run separately from Decode.
// Unreadable tokens count as expired.
func (c *TokenCodec) IsExpired(tokenStr string) bool {
	exp, err := c.Expiration(tokenStr)
	if err != nil {
		return true
	}
	return time.Now().After(exp)
}

func (c *TokenCodec) parse(tokenStr string) (*TokenClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	token, err := parser.ParseWithClaims(tokenStr, &TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if !claims.Kind.Valid() {
		return nil, fmt.Errorf("unknown token type %q", claims.Kind)
	}
	return claims, nil
}
