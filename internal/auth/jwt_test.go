package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagecart/bookstore-api/internal/apperr"
)

func TestIssueAndVerify(t *testing.T) {
	m := &Manager{Secret: []byte("test-secret"), TTL: time.Hour}

	id := Identity{UserID: "u1", Email: "jo@example.com", Roles: []string{"USER", "ADMIN"}}
	token, err := m.Issue(id, time.Now())
	require.NoError(t, err)

	got, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, got)
	assert.True(t, got.HasRole("ADMIN"))
	assert.False(t, got.HasRole("ROOT"))
}

func TestVerifyExpired(t *testing.T) {
	m := &Manager{Secret: []byte("test-secret"), TTL: time.Hour}

	token, err := m.Issue(Identity{UserID: "u1"}, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	_, err = m.Verify(token)
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := &Manager{Secret: []byte("secret-a"), TTL: time.Hour}
	verifier := &Manager{Secret: []byte("secret-b"), TTL: time.Hour}

	token, err := issuer.Issue(Identity{UserID: "u1"}, time.Now())
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}
