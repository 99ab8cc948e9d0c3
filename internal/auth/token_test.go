package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestIssueAndParse(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)

	token, err := m.Issue(42, "reader")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "reader", claims.Login)
}

func TestParseExpiredToken(t *testing.T) {
	m := NewTokenManager(testSecret, -time.Minute)

	token, err := m.Issue(1, "ghost")
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.Error(t, err)
}

func TestParseWrongSecret(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)
	token, err := m.Issue(7, "writer")
	require.NoError(t, err)

	other := NewTokenManager("another-secret-another-secret-xx", time.Hour)
	_, err = other.Parse(token)
	assert.Error(t, err)
}

func TestParseGarbage(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)
	_, err := m.Parse("not.a.token")
	assert.Error(t, err)
}
