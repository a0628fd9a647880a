package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"lumenstudio/api/internal/apperr"
	"lumenstudio/api/internal/config"
	"lumenstudio/api/internal/ids"
	"lumenstudio/api/internal/models"
	"lumenstudio/api/internal/repository"
	"lumenstudio/api/internal/security"
)

// AuthService owns credential checks and the token pair lifecycle.
type AuthService struct {
	users repository.UserStore
	cfg   *config.AppConfig
	log   zerolog.Logger
}

func NewAuthService(users repository.UserStore, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		users: users,
		cfg:   cfg,
		log:   log,
	}
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	AccessToken  string
	RefreshToken string
	User         models.User
}

// Login validates credentials and issues a fresh token pair. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			s.log.Warn().Str("email", email).Msg("login failed: unknown user")
			return AuthResult{}, apperr.Authentication("invalid email or password")
		}
		return AuthResult{}, err
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		s.log.Warn().Str("email", email).Msg("login failed: bad password")
		return AuthResult{}, apperr.Authentication("invalid email or password")
	}

	accessToken, err := security.IssueAccessToken(
		s.cfg.Security.JWTAccessSecret,
		user.ID,
		string(user.Role),
		s.cfg.Security.JWTAccessTTL,
	)
	if err != nil {
		return AuthResult{}, err
	}

	refreshToken, err := security.IssueRefreshToken(
		s.cfg.Security.JWTRefreshSecret,
		user.ID,
		s.cfg.Security.JWTRefreshTTL,
	)
	if err != nil {
		return AuthResult{}, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("login successful")

	return AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The refresh
// token itself is not rotated; the previous access token stays valid until
// its own expiry.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := security.VerifyToken(refreshToken, s.cfg.Security.JWTRefreshSecret, security.TokenKindRefresh)
	if err != nil {
		return "", apperr.Authentication("invalid refresh token")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return "", apperr.Authentication("invalid refresh token")
	}

	return security.IssueAccessToken(
		s.cfg.Security.JWTAccessSecret,
		user.ID,
		string(user.Role),
		s.cfg.Security.JWTAccessTTL,
	)
}

// VerifyAccess validates an access token and returns its claims.
func (s *AuthService) VerifyAccess(tokenStr string) (*security.Claims, error) {
	claims, err := security.VerifyToken(tokenStr, s.cfg.Security.JWTAccessSecret, security.TokenKindAccess)
	if err != nil {
		return nil, apperr.Authentication("invalid or expired token")
	}
	return claims, nil
}

type CreateUserInput struct {
	Email    string
	Password string
	Name     string
	Role     models.UserRole
}

func (s *AuthService) CreateUser(ctx context.Context, input CreateUserInput) (models.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" || input.Password == "" {
		return models.User{}, apperr.Validation("email and password are required")
	}
	if input.Role == "" {
		input.Role = models.UserRoleEditor
	}
	if !input.Role.Valid() {
		return models.User{}, apperr.Validation("invalid role")
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           ids.New(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         input.Name,
		Role:         input.Role,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return models.User{}, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user created")
	return user, nil
}

type UpdateUserInput struct {
	Email    *string
	Password *string
	Name     *string
	Role     *models.UserRole
}

func (s *AuthService) UpdateUser(ctx context.Context, id string, input UpdateUserInput) (models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	if input.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*input.Email))
		if email == "" {
			return models.User{}, apperr.Validation("email must not be empty")
		}
		user.Email = email
	}
	if input.Password != nil {
		if *input.Password == "" {
			return models.User{}, apperr.Validation("password must not be empty")
		}
		hash, err := security.HashPassword(*input.Password)
		if err != nil {
			return models.User{}, err
		}
		user.PasswordHash = hash
	}
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return models.User{}, apperr.Validation("invalid role")
		}
		user.Role = *input.Role
	}

	if err := s.users.Update(ctx, user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *AuthService) DeleteUser(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}

// GetUser loads a user by ID, for the /me endpoint.
func (s *AuthService) GetUser(ctx context.Context, id string) (models.User, error) {
	return s.users.GetByID(ctx, id)
}
