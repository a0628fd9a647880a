package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumenstudio/api/internal/apperr"
	"lumenstudio/api/internal/config"
	"lumenstudio/api/internal/models"
	"lumenstudio/api/internal/repository/memory"
	"lumenstudio/api/internal/security"
)

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Security: config.SecurityConfig{
			JWTAccessSecret:  "access-secret-for-tests",
			JWTRefreshSecret: "refresh-secret-for-tests",
			JWTAccessTTL:     15 * time.Minute,
			JWTRefreshTTL:    168 * time.Hour,
		},
	}
}

func newAuthService(t *testing.T) (*AuthService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return NewAuthService(store.Users, testConfig(), zerolog.Nop()), store
}

func createTestUser(t *testing.T, svc *AuthService, email, password string, role models.UserRole) models.User {
	t.Helper()
	user, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email:    email,
		Password: password,
		Name:     "Test User",
		Role:     role,
	})
	require.NoError(t, err)
	return user
}

func TestLoginIssuesTokenPairWithRole(t *testing.T) {
	svc, _ := newAuthService(t)
	created := createTestUser(t, svc, "admin@lumen.studio", "s3cret!", models.UserRoleAdmin)

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    "Admin@Lumen.Studio", // case-insensitive
		Password: "s3cret!",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, result.User.ID)

	claims, err := security.VerifyToken(result.AccessToken, "access-secret-for-tests", security.TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)
	assert.Equal(t, "admin", claims.Role)

	refreshClaims, err := security.VerifyToken(result.RefreshToken, "refresh-secret-for-tests", security.TokenKindRefresh)
	require.NoError(t, err)
	assert.Equal(t, created.ID, refreshClaims.UserID)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newAuthService(t)
	createTestUser(t, svc, "editor@lumen.studio", "right-password", models.UserRoleEditor)

	_, badUser := svc.Login(context.Background(), LoginInput{Email: "nobody@lumen.studio", Password: "x"})
	_, badPass := svc.Login(context.Background(), LoginInput{Email: "editor@lumen.studio", Password: "wrong"})

	require.Error(t, badUser)
	require.Error(t, badPass)
	assert.Equal(t, badUser.Error(), badPass.Error())
	assert.True(t, apperr.IsKind(badUser, apperr.KindAuthentication))
	assert.True(t, apperr.IsKind(badPass, apperr.KindAuthentication))
}

func TestRefreshReturnsNewAccessTokenOnly(t *testing.T) {
	svc, _ := newAuthService(t)
	createTestUser(t, svc, "editor@lumen.studio", "pw", models.UserRoleEditor)

	result, err := svc.Login(context.Background(), LoginInput{Email: "editor@lumen.studio", Password: "pw"})
	require.NoError(t, err)

	newAccess, err := svc.Refresh(context.Background(), result.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, newAccess)

	// Both the old and the new access token verify: no forced revocation.
	_, err = svc.VerifyAccess(result.AccessToken)
	assert.NoError(t, err)
	_, err = svc.VerifyAccess(newAccess)
	assert.NoError(t, err)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _ := newAuthService(t)
	createTestUser(t, svc, "editor@lumen.studio", "pw", models.UserRoleEditor)

	result, err := svc.Login(context.Background(), LoginInput{Email: "editor@lumen.studio", Password: "pw"})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), result.AccessToken)
	assert.True(t, apperr.IsKind(err, apperr.KindAuthentication))
}

func TestRefreshRejectsDeletedUser(t *testing.T) {
	svc, _ := newAuthService(t)
	user := createTestUser(t, svc, "editor@lumen.studio", "pw", models.UserRoleEditor)

	result, err := svc.Login(context.Background(), LoginInput{Email: "editor@lumen.studio", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(context.Background(), user.ID))

	_, err = svc.Refresh(context.Background(), result.RefreshToken)
	assert.True(t, apperr.IsKind(err, apperr.KindAuthentication))
}

func TestCreateUserDefaultsAndConflicts(t *testing.T) {
	svc, _ := newAuthService(t)

	user, err := svc.CreateUser(context.Background(), CreateUserInput{
		Email:    "First@Lumen.Studio",
		Password: "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, "first@lumen.studio", user.Email)
	assert.Equal(t, models.UserRoleEditor, user.Role)

	_, err = svc.CreateUser(context.Background(), CreateUserInput{
		Email:    "first@lumen.studio",
		Password: "pw2",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	_, err = svc.CreateUser(context.Background(), CreateUserInput{Email: "", Password: "pw"})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = svc.CreateUser(context.Background(), CreateUserInput{
		Email: "role@lumen.studio", Password: "pw", Role: "superuser",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestUpdateUserPartial(t *testing.T) {
	svc, _ := newAuthService(t)
	user := createTestUser(t, svc, "editor@lumen.studio", "pw", models.UserRoleEditor)

	newName := "Renamed"
	updated, err := svc.UpdateUser(context.Background(), user.ID, UpdateUserInput{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, user.Email, updated.Email)

	_, err = svc.UpdateUser(context.Background(), "missing", UpdateUserInput{Name: &newName})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
