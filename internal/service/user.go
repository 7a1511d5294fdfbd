package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shelfapp/shelf-server/internal/domain"
	domainerrors "github.com/shelfapp/shelf-server/internal/errors"
	"github.com/shelfapp/shelf-server/internal/store"
)

// UserService provides admin-level account management.
type UserService struct {
	store  store.UserStore
	logger *slog.Logger
}

// NewUserService creates a new user management service.
func NewUserService(store store.UserStore, logger *slog.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// ListUsers returns one page of accounts.
func (s *UserService) ListUsers(ctx context.Context, params store.PaginationParams) (*store.Page[*domain.User], error) {
	params.Normalize()
	page, err := s.store.ListUsers(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return page, nil
}

// BanUser bans an account. A zero expiry means a permanent ban.
func (s *UserService) BanUser(ctx context.Context, id, reason string, expires *time.Time) (*domain.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin() {
		return nil, domainerrors.Forbidden("cannot ban a server admin")
	}

	user.Banned = true
	user.BanReason = reason
	user.BanExpires = expires
	user.UpdatedAt = time.Now()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.Info("user banned", "user_id", id, "reason", reason)
	return user, nil
}

// UnbanUser lifts a ban.
func (s *UserService) UnbanUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Banned = false
	user.BanReason = ""
	user.BanExpires = nil
	user.UpdatedAt = time.Now()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.Info("user unbanned", "user_id", id)
	return user, nil
}

// DeleteUser removes an account and, via cascade, its sessions.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if user.IsAdmin() {
		return domainerrors.Forbidden("cannot delete a server admin")
	}

	if err := s.store.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.logger.Info("user deleted", "user_id", id)
	return nil
}
