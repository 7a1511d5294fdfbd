package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfapp/shelf-server/internal/auth"
	domainerrors "github.com/shelfapp/shelf-server/internal/errors"
	"github.com/shelfapp/shelf-server/internal/store/sqlite"
	"github.com/shelfapp/shelf-server/internal/validation"
)

func newTestSQLiteStore(t *testing.T) *sqlite.Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func newTestTokenService(t *testing.T) *auth.TokenService {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	svc, err := auth.NewTokenService(hex.EncodeToString(key), 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)
	return svc
}

func newTestAuthService(t *testing.T) (*AuthService, *sqlite.Store) {
	t.Helper()
	st := newTestSQLiteStore(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAuthService(st, newTestTokenService(t), validation.New(), logger), st
}

func TestRegister_FirstUserBecomesAdmin(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)
	assert.True(t, first.IsAdmin())

	second, err := svc.Register(ctx, RegisterRequest{Name: "Bob", Email: "bob@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)
	assert.False(t, second.IsAdmin())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Name: "Imposter", Email: "Alice@Example.com", Password: "hunter2hunter2"})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrAlreadyExists))
}

func TestRegister_RejectsWeakInput(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	cases := []RegisterRequest{
		{Name: "Alice", Email: "not-an-email", Password: "hunter2hunter2"},
		{Name: "Alice", Email: "alice@example.com", Password: "short"},
		{Name: "", Email: "alice@example.com", Password: "hunter2hunter2"},
	}
	for _, req := range cases {
		_, err := svc.Register(ctx, req)
		assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation), "expected validation error for %+v", req)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	user, err := svc.Login(ctx, LoginRequest{Email: "alice@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = svc.Login(ctx, LoginRequest{Email: "alice@example.com", Password: "wrong password"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidCredentials))

	// Unknown email returns the same error as a bad password.
	_, err = svc.Login(ctx, LoginRequest{Email: "ghost@example.com", Password: "hunter2hunter2"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestLogin_BannedUser(t *testing.T) {
	svc, st := newTestAuthService(t)
	ctx := context.Background()

	// Register twice so the banned user is not the admin.
	_, err := svc.Register(ctx, RegisterRequest{Name: "Admin", Email: "admin@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)
	user, err := svc.Register(ctx, RegisterRequest{Name: "Bob", Email: "bob@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	user.Banned = true
	user.BanReason = "spam"
	require.NoError(t, st.UpdateUser(ctx, user))

	_, err = svc.Login(ctx, LoginRequest{Email: "bob@example.com", Password: "hunter2hunter2"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrForbidden))
}

func TestVerifyAccessToken(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	token, err := svc.tokenService.GenerateAccessToken(registered, "session-1")
	require.NoError(t, err)

	user, claims, err := svc.VerifyAccessToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Equal(t, "session-1", claims.SessionID)

	_, _, err = svc.VerifyAccessToken(ctx, "garbage")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnauthorized))
}
