package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfapp/shelf-server/internal/domain"
	domainerrors "github.com/shelfapp/shelf-server/internal/errors"
	"github.com/shelfapp/shelf-server/internal/store/sqlite"
	"github.com/shelfapp/shelf-server/internal/validation"
)

func newTestSessionService(t *testing.T) (*SessionService, *AuthService, *sqlite.Store) {
	t.Helper()
	st := newTestSQLiteStore(t)
	tokens := newTestTokenService(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := NewSessionService(st, st, tokens, logger)
	authSvc := NewAuthService(st, tokens, validation.New(), logger)
	return sessions, authSvc, st
}

func registerTestUser(t *testing.T, authSvc *AuthService, email string) *domain.User {
	t.Helper()
	user, err := authSvc.Register(context.Background(), RegisterRequest{
		Name:     "Test User",
		Email:    email,
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	return user
}

func TestCreateSession(t *testing.T) {
	sessions, authSvc, st := newTestSessionService(t)
	ctx := context.Background()
	user := registerTestUser(t, authSvc, "alice@example.com")

	resp, err := sessions.CreateSession(ctx, user, ClientInfo{IPAddress: "10.0.0.1", UserAgent: "shelf-test"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Positive(t, resp.ExpiresIn)

	stored, err := st.GetSession(ctx, resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.UserID)
	assert.Equal(t, "10.0.0.1", stored.IPAddress)
	assert.NotEqual(t, resp.RefreshToken, stored.RefreshTokenHash)
}

func TestRefreshSession_RotatesTokens(t *testing.T) {
	sessions, authSvc, _ := newTestSessionService(t)
	ctx := context.Background()
	user := registerTestUser(t, authSvc, "alice@example.com")

	first, err := sessions.CreateSession(ctx, user, ClientInfo{})
	require.NoError(t, err)

	second, refreshedUser, err := sessions.RefreshSession(ctx, first.RefreshToken, ClientInfo{})
	require.NoError(t, err)
	assert.Equal(t, user.ID, refreshedUser.ID)
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The old refresh token is dead after rotation.
	_, _, err = sessions.RefreshSession(ctx, first.RefreshToken, ClientInfo{})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrTokenExpired))

	// The new one still works.
	_, _, err = sessions.RefreshSession(ctx, second.RefreshToken, ClientInfo{})
	require.NoError(t, err)
}

func TestRefreshSession_UnknownToken(t *testing.T) {
	sessions, _, _ := newTestSessionService(t)

	_, _, err := sessions.RefreshSession(context.Background(), "bm90LWEtcmVhbC10b2tlbg", ClientInfo{})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrTokenExpired))
}

func TestDeleteSession_EndsRefresh(t *testing.T) {
	sessions, authSvc, _ := newTestSessionService(t)
	ctx := context.Background()
	user := registerTestUser(t, authSvc, "alice@example.com")

	resp, err := sessions.CreateSession(ctx, user, ClientInfo{})
	require.NoError(t, err)

	require.NoError(t, sessions.DeleteSession(ctx, resp.SessionID))

	_, _, err = sessions.RefreshSession(ctx, resp.RefreshToken, ClientInfo{})
	require.Error(t, err)
}

func TestSetActiveOrganization(t *testing.T) {
	sessions, authSvc, st := newTestSessionService(t)
	ctx := context.Background()
	user := registerTestUser(t, authSvc, "alice@example.com")

	resp, err := sessions.CreateSession(ctx, user, ClientInfo{})
	require.NoError(t, err)

	require.NoError(t, sessions.SetActiveOrganization(ctx, resp.SessionID, "org-abc"))

	stored, err := st.GetSession(ctx, resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "org-abc", stored.ActiveOrganizationID)
}
