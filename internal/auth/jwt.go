package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

type Manager struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Issuer     string
}

type Claims struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
	Use      string `json:"use"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() Identity {
	return Identity{
		ID:       c.Subject,
		Username: c.Username,
		Email:    c.Email,
		Role:     c.Role,
	}
}

func (m *Manager) newToken(id Identity, use string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: id.Username,
		Email:    id.Email,
		Role:     id.Role,
		Use:      use,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   id.ID,
			Issuer:    m.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.Secret)
}

func (m *Manager) NewAccessToken(id Identity) (string, error) {
	return m.newToken(id, TokenAccess, m.AccessTTL)
}

func (m *Manager) NewRefreshToken(id Identity) (string, error) {
	return m.newToken(id, TokenRefresh, m.RefreshTTL)
}

var ErrWrongTokenUse = errors.New("token used for the wrong purpose")

// Parse verifies the signature, issuer and expiry, and that the token was
// minted for use.
func (m *Manager) Parse(tokenStr, use string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return m.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if claims.Use != use {
		return nil, ErrWrongTokenUse
	}
	return claims, nil
}
