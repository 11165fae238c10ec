// Package session issues and verifies the signed bearer tokens that carry
// an admin's identity. Tokens are HS256 JWTs; logging out records the
// token id in Valkey until the token would have expired anyway.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"adpress/internal/models"
)

const (
	// DefaultTTL is how long an issued token stays valid.
	DefaultTTL = 7 * 24 * time.Hour

	// revokedPrefix namespaces revoked token ids in Valkey.
	revokedPrefix = "session:revoked:"
)

var (
	// ErrInvalidToken covers malformed, badly signed and expired tokens.
	ErrInvalidToken = errors.New("session: invalid token")

	// ErrRevoked is returned for a token that was logged out.
	ErrRevoked = errors.New("session: token revoked")
)

// Data is the identity carried by a verified token.
type Data struct {
	UserID    uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"-"`
}

// IsAdmin reports whether the token holder has the admin role.
func (d *Data) IsAdmin() bool {
	return d != nil && d.Role == models.RoleAdmin
}

// claims is the JWT body. The subject holds the user id.
type claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Manager signs and verifies tokens.
type Manager struct {
	secret  []byte
	ttl     time.Duration
	revoked *redis.Client
	now     func() time.Time
}

// NewManager creates a Manager signing with secret. A nil client disables
// revocation: Revoke becomes a no-op and tokens stay valid until expiry.
func NewManager(secret string, ttl time.Duration, client *redis.Client) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{secret: []byte(secret), ttl: ttl, revoked: client, now: time.Now}
}

// Issue returns a signed token for the user and its expiry time.
func (m *Manager) Issue(u *models.User) (string, time.Time, error) {
	now := m.now()
	expires := now.Add(m.ttl)
	c := claims{
		Email: u.Email,
		Role:  u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("session sign: %w", err)
	}
	return token, expires, nil
}

// Verify checks the token's signature, expiry and revocation state and
// returns the identity it carries.
func (m *Manager) Verify(ctx context.Context, token string) (*Data, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}

	if m.revoked != nil && c.ID != "" {
		n, err := m.revoked.Exists(ctx, revokedPrefix+c.ID).Result()
		if err != nil {
			return nil, fmt.Errorf("session revocation lookup: %w", err)
		}
		if n > 0 {
			return nil, ErrRevoked
		}
	}

	return &Data{
		UserID:    userID,
		Email:     c.Email,
		Role:      c.Role,
		TokenID:   c.ID,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}

// Revoke invalidates the token behind d for the rest of its lifetime.
func (m *Manager) Revoke(ctx context.Context, d *Data) error {
	if m.revoked == nil || d.TokenID == "" {
		return nil
	}
	ttl := d.ExpiresAt.Sub(m.now())
	if ttl <= 0 {
		return nil
	}
	if err := m.revoked.Set(ctx, revokedPrefix+d.TokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("session revoke: %w", err)
	}
	return nil
}
