package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheelshare/service-rental/internal/domain/user"
)

func TestGenerateAndVerify(t *testing.T) {
	m := NewJWTManager("test-secret", 15*time.Minute)

	token, err := m.Generate(user.UserID(42), user.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.UserID(42), claims.UserID)
	assert.Equal(t, user.RoleAdmin, claims.Role)
	assert.Equal(t, "42", claims.Subject)
}

func TestVerify_WrongSecret(t *testing.T) {
	token, err := NewJWTManager("secret-a", 15*time.Minute).Generate(user.UserID(1), user.RoleUser)
	require.NoError(t, err)

	_, err = NewJWTManager("secret-b", 15*time.Minute).Verify(token)
	assert.Error(t, err)
}

func TestVerify_Expired(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute)

	token, err := m.Generate(user.UserID(1), user.RoleUser)
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorContains(t, err, "invalid token")
}

func TestVerify_Garbage(t *testing.T) {
	m := NewJWTManager("test-secret", 15*time.Minute)

	_, err := m.Verify("not.a.token")
	assert.Error(t, err)
}
