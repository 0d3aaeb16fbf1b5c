// Package auth issues and verifies bearer tokens and resolves the caller's
// identity for the rest of the application. Services receive the identity as
// an explicit argument; nothing reads it ambiently.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pagecart/bookstore-api/internal/apperr"
)

type Identity struct {
	UserID string
	Email  string
	Roles  []string
}

func (id Identity) HasRole(role string) bool {
	for _, r := range id.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type claims struct {
	Email string   `json:"email"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

type Manager struct {
	Secret []byte
	TTL    time.Duration
}

func (m *Manager) Issue(id Identity, now time.Time) (string, error) {
	c := claims{
		Email: id.Email,
		Roles: id.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.Secret)
}

func (m *Manager) Verify(token string) (Identity, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return m.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Identity{}, apperr.Wrap(apperr.KindAuthorization, "invalid token", err)
	}
	return Identity{UserID: c.Subject, Email: c.Email, Roles: c.Roles}, nil
}
