package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/helpdesk/internal/clock"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/pkg/util"
)

// Claims is the JWT payload issued at login.
type Claims struct {
	Name  string        `json:"name"`
	Roles []domain.Role `json:"roles"`
	jwt.RegisteredClaims
}

// TokenManager signs and parses access tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

// NewTokenManager builds a manager from the auth config.
func NewTokenManager(cfg config.AuthConfig, clk clock.Clock) *TokenManager {
	return &TokenManager{
		secret: []byte(cfg.JWTSecret),
		ttl:    time.Duration(cfg.AccessTokenTTLMinutes) * time.Minute,
		clock:  clk,
	}
}

// GenerateToken issues a signed token for the user.
func (m *TokenManager) GenerateToken(user *domain.User) (string, error) {
	now := m.clock.Now()
	claims := Claims{
		Name:  user.Name,
		Roles: user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseToken validates the token string and returns its claims.
func (m *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, util.NewUnauthorized("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.clock.Now))
	if err != nil || !token.Valid {
		return nil, util.NewUnauthorized("invalid or expired token")
	}
	return claims, nil
}
