package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shelfapp/shelf-server/internal/domain"
	"github.com/shelfapp/shelf-server/internal/store"
)

// makeTestUser creates a domain.User with sensible defaults for testing.
func makeTestUser(id, email string) *domain.User {
	now := time.Now()
	return &domain.User{
		ID:           id,
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := makeTestUser("user-1", "alice@example.com")
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := s.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}

	if got.Email != user.Email {
		t.Errorf("Email: got %q, want %q", got.Email, user.Email)
	}
	if got.Role != domain.RoleUser {
		t.Errorf("Role: got %q, want %q", got.Role, domain.RoleUser)
	}
	if got.PasswordHash != user.PasswordHash {
		t.Errorf("PasswordHash: got %q", got.PasswordHash)
	}
	if got.Banned {
		t.Error("Banned: expected false")
	}
}

func TestGetUserByEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := makeTestUser("user-email-1", "bob@example.com")
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := s.GetUserByEmail(ctx, "bob@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got.ID != "user-email-1" {
		t.Errorf("ID: got %q, want %q", got.ID, "user-email-1")
	}

	_, err = s.GetUserByEmail(ctx, "nobody@example.com")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u1 := makeTestUser("user-dup-1", "same@example.com")
	if err := s.CreateUser(ctx, u1); err != nil {
		t.Fatalf("CreateUser u1: %v", err)
	}

	u2 := makeTestUser("user-dup-2", "same@example.com")
	err := s.CreateUser(ctx, u2)
	if err == nil {
		t.Fatal("expected error for duplicate email, got nil")
	}
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestUpdateUser_BanFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := makeTestUser("user-ban-1", "banned@example.com")
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	expires := time.Now().Add(24 * time.Hour)
	user.Banned = true
	user.BanReason = "spam"
	user.BanExpires = &expires
	user.UpdatedAt = time.Now()

	if err := s.UpdateUser(ctx, user); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	got, err := s.GetUser(ctx, "user-ban-1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if !got.Banned {
		t.Error("Banned: expected true")
	}
	if got.BanReason != "spam" {
		t.Errorf("BanReason: got %q", got.BanReason)
	}
	if got.BanExpires == nil || got.BanExpires.Unix() != expires.Unix() {
		t.Errorf("BanExpires: got %v, want %v", got.BanExpires, expires)
	}
}

func TestUpdateUser_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := makeTestUser("user-ghost", "ghost@example.com")
	err := s.UpdateUser(ctx, user)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListUsers_Pagination(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := range 5 {
		user := makeTestUser("user-list-"+string(rune('a'+i)), string(rune('a'+i))+"@example.com")
		user.CreatedAt = time.Now().Add(time.Duration(i) * time.Second)
		if err := s.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser %d: %v", i, err)
		}
	}

	page, err := s.ListUsers(ctx, store.PaginationParams{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if page.Total != 5 {
		t.Errorf("Total: got %d, want 5", page.Total)
	}
	if len(page.Items) != 2 {
		t.Errorf("Items: got %d, want 2", len(page.Items))
	}
}

func TestDeleteUser_CascadesSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := makeTestUser("user-cascade", "cascade@example.com")
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	now := time.Now()
	sess := &domain.Session{
		ID:         "session-cascade",
		UserID:     "user-cascade",
		ExpiresAt:  now.Add(time.Hour),
		CreatedAt:  now,
		LastSeenAt: now,
	}
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if err := s.DeleteUser(ctx, "user-cascade"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	_, err := s.GetSession(ctx, "session-cascade")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected session to cascade, got %v", err)
	}
}
