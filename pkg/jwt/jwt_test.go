package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewManager("secret", time.Hour)
	id := uuid.New()

	token, err := m.GenerateToken(id, "planner@example.com", "Planner", "PLANNER", []string{"production:view"}, "v1")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.OperatorID)
	assert.Equal(t, "planner@example.com", claims.Email)
	assert.Equal(t, "PLANNER", claims.Role)
	assert.Equal(t, []string{"production:view"}, claims.Privileges)
	assert.Equal(t, "v1", claims.TokenVersion)
}

func TestValidateRejectsOtherSecret(t *testing.T) {
	token, err := NewManager("one", time.Hour).GenerateToken(uuid.New(), "a@b.c", "A", "ADMIN", nil, "v")
	require.NoError(t, err)

	_, err = NewManager("two", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	m := NewManager("secret", time.Minute)
	issued := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return issued }

	token, err := m.GenerateToken(uuid.New(), "a@b.c", "A", "ADMIN", nil, "v")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateMissingAndGarbage(t *testing.T) {
	m := NewManager("secret", time.Hour)

	_, err := m.ValidateToken("")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = m.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
