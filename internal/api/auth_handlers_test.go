package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth_RegisterLoginFlow(t *testing.T) {
	ts := setupTestServer(t)

	registerResp := ts.api.Post("/api/auth/register", map[string]any{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "TestPassword123!",
	})
	require.Equal(t, http.StatusOK, registerResp.Code, registerResp.Body.String())

	var registered testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(registerResp.Body.Bytes(), &registered))
	assert.NotEmpty(t, registered.Data.AccessToken)
	assert.NotEmpty(t, registered.Data.RefreshToken)
	assert.Equal(t, "Bearer", registered.Data.TokenType)
	assert.Equal(t, "admin", registered.Data.User.Role)

	loginResp := ts.api.Post("/api/auth/login", map[string]any{
		"email":    "alice@example.com",
		"password": "TestPassword123!",
	})
	require.Equal(t, http.StatusOK, loginResp.Code)

	var loggedIn testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(loginResp.Body.Bytes(), &loggedIn))
	assert.Equal(t, registered.Data.User.ID, loggedIn.Data.User.ID)
	assert.NotEqual(t, registered.Data.SessionID, loggedIn.Data.SessionID)
}

func TestAuth_LoginWrongPassword(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerUser(t, "alice@example.com")

	resp := ts.api.Post("/api/auth/login", map[string]any{
		"email":    "alice@example.com",
		"password": "wrong password",
	})
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, "INVALID_CREDENTIALS", envelope.Code)
}

func TestAuth_RefreshRotation(t *testing.T) {
	ts := setupTestServer(t)

	registerResp := ts.api.Post("/api/auth/register", map[string]any{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "TestPassword123!",
	})
	require.Equal(t, http.StatusOK, registerResp.Code)
	var registered testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(registerResp.Body.Bytes(), &registered))

	refreshResp := ts.api.Post("/api/auth/refresh", map[string]any{
		"refresh_token": registered.Data.RefreshToken,
	})
	require.Equal(t, http.StatusOK, refreshResp.Code, refreshResp.Body.String())

	var refreshed testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(refreshResp.Body.Bytes(), &refreshed))
	assert.Equal(t, registered.Data.SessionID, refreshed.Data.SessionID)
	assert.NotEqual(t, registered.Data.RefreshToken, refreshed.Data.RefreshToken)

	// The rotated-out token is no longer accepted.
	replayResp := ts.api.Post("/api/auth/refresh", map[string]any{
		"refresh_token": registered.Data.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, replayResp.Code)
}

func TestAuth_LogoutRevokesSession(t *testing.T) {
	ts := setupTestServer(t)

	registerResp := ts.api.Post("/api/auth/register", map[string]any{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "TestPassword123!",
	})
	require.Equal(t, http.StatusOK, registerResp.Code)
	var registered testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(registerResp.Body.Bytes(), &registered))

	logoutResp := ts.api.Post("/api/auth/logout",
		"Authorization: Bearer "+registered.Data.AccessToken)
	require.Equal(t, http.StatusOK, logoutResp.Code)

	refreshResp := ts.api.Post("/api/auth/refresh", map[string]any{
		"refresh_token": registered.Data.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, refreshResp.Code)
}

func TestAuth_Me(t *testing.T) {
	ts := setupTestServer(t)
	token, userID := ts.registerUser(t, "alice@example.com")

	resp := ts.api.Get("/api/auth/me", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[UserResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, userID, envelope.Data.ID)
	assert.Equal(t, "alice@example.com", envelope.Data.Email)

	unauthResp := ts.api.Get("/api/auth/me")
	assert.Equal(t, http.StatusUnauthorized, unauthResp.Code)
}

func TestAuth_RegisterDuplicateEmail(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerUser(t, "alice@example.com")

	resp := ts.api.Post("/api/auth/register", map[string]any{
		"name":     "Imposter",
		"email":    "alice@example.com",
		"password": "TestPassword123!",
	})
	require.Equal(t, http.StatusConflict, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "ALREADY_EXISTS", envelope.Code)
}
