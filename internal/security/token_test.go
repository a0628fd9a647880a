package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	accessSecret  = "access-secret-for-tests"
	refreshSecret = "refresh-secret-for-tests"
)

func TestIssueAndVerifyAccessToken(t *testing.T) {
	token, err := IssueAccessToken(accessSecret, "user-1", "admin", 15*time.Minute)
	require.NoError(t, err)

	claims, err := VerifyToken(token, accessSecret, TokenKindAccess)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, TokenKindAccess, claims.Kind)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := IssueAccessToken(accessSecret, "user-1", "admin", 15*time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken(token, "some-other-secret", TokenKindAccess)
	assert.Error(t, err)
}

func TestRefreshTokenCannotActAsAccessToken(t *testing.T) {
	refresh, err := IssueRefreshToken(refreshSecret, "user-1", time.Hour)
	require.NoError(t, err)

	// Wrong secret entirely.
	_, err = VerifyToken(refresh, accessSecret, TokenKindAccess)
	assert.Error(t, err)

	// Even when verified against its own secret, the kind must match.
	_, err = VerifyToken(refresh, refreshSecret, TokenKindAccess)
	assert.Error(t, err)

	claims, err := VerifyToken(refresh, refreshSecret, TokenKindRefresh)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Empty(t, claims.Role)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	token, err := IssueAccessToken(accessSecret, "user-1", "editor", -time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken(token, accessSecret, TokenKindAccess)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := VerifyToken("not-a-jwt", accessSecret, TokenKindAccess)
	assert.Error(t, err)
}
