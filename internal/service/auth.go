package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shelfapp/shelf-server/internal/auth"
	"github.com/shelfapp/shelf-server/internal/domain"
	domainerrors "github.com/shelfapp/shelf-server/internal/errors"
	"github.com/shelfapp/shelf-server/internal/id"
	"github.com/shelfapp/shelf-server/internal/store"
	"github.com/shelfapp/shelf-server/internal/validation"
)

// AuthService handles registration, login, and access token verification.
type AuthService struct {
	users        store.UserStore
	tokenService *auth.TokenService
	validator    *validation.Validator
	logger       *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	users store.UserStore,
	tokenService *auth.TokenService,
	validator *validation.Validator,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:        users,
		tokenService: tokenService,
		validator:    validator,
		logger:       logger,
	}
}

// RegisterRequest holds validated input for account creation.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
}

// LoginRequest holds credentials for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register creates a new user account.
// The first registered account becomes a server admin.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	role := domain.RoleUser
	existing, err := s.users.ListUsers(ctx, store.PaginationParams{Page: 1, Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if existing.Total == 0 {
		role = domain.RoleAdmin
	}

	now := time.Now()
	user := &domain.User{
		ID:           userID,
		Name:         req.Name,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("an account with this email already exists")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email, "role", user.Role)
	return user, nil
}

// Login verifies credentials and returns the user.
// The caller is responsible for creating a session.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*domain.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			// Same error as a bad password so emails cannot be probed.
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, domainerrors.ErrInvalidCredentials
	}

	if user.IsBanned(time.Now()) {
		return nil, domainerrors.Forbidden("account is banned")
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return user, nil
}

// VerifyAccessToken validates a token and loads its user.
func (s *AuthService) VerifyAccessToken(ctx context.Context, token string) (*domain.User, *auth.AccessClaims, error) {
	claims, err := s.tokenService.VerifyAccessToken(token)
	if err != nil {
		return nil, nil, domainerrors.Unauthorized("invalid or expired token").WithCause(err)
	}

	user, err := s.users.GetUser(ctx, claims.UserID)
	if err != nil {
		return nil, nil, domainerrors.Unauthorized("user not found").WithCause(err)
	}

	if user.IsBanned(time.Now()) {
		return nil, nil, domainerrors.Forbidden("account is banned")
	}

	return user, claims, nil
}
