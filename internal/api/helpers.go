package api

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfapp/shelf-server/internal/domain"
	domainerrors "github.com/shelfapp/shelf-server/internal/errors"
	"github.com/shelfapp/shelf-server/internal/service"
)

// authenticateRequest validates the Authorization header and returns the user.
func (s *Server) authenticateRequest(ctx context.Context, authHeader string) (*domain.User, error) {
	if authHeader == "" {
		return nil, huma.Error401Unauthorized("Missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, huma.Error401Unauthorized("Invalid authorization header format")
	}

	user, _, err := s.services.Auth.VerifyAccessToken(ctx, parts[1])
	if err != nil {
		return nil, huma.Error401Unauthorized("Invalid or expired token")
	}

	return user, nil
}

// authenticateWithClaims is like authenticateRequest but also returns the
// token claims, for handlers that need the session ID.
func (s *Server) authenticateWithClaims(ctx context.Context, authHeader string) (*domain.User, string, error) {
	if authHeader == "" {
		return nil, "", huma.Error401Unauthorized("Missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, "", huma.Error401Unauthorized("Invalid authorization header format")
	}

	user, claims, err := s.services.Auth.VerifyAccessToken(ctx, parts[1])
	if err != nil {
		return nil, "", huma.Error401Unauthorized("Invalid or expired token")
	}

	return user, claims.SessionID, nil
}

// authenticateAndRequireAdmin validates the token and requires the server admin role.
func (s *Server) authenticateAndRequireAdmin(ctx context.Context, authHeader string) (*domain.User, error) {
	user, err := s.authenticateRequest(ctx, authHeader)
	if err != nil {
		return nil, err
	}

	if !user.IsAdmin() {
		return nil, domainerrors.Forbidden("Admin access required")
	}

	return user, nil
}

// extractIP picks the client IP from forwarding headers.
func extractIP(xForwardedFor, xRealIP string) string {
	if xForwardedFor != "" {
		if i := strings.IndexByte(xForwardedFor, ','); i >= 0 {
			return strings.TrimSpace(xForwardedFor[:i])
		}
		return strings.TrimSpace(xForwardedFor)
	}
	return xRealIP
}

// clientInfo builds session metadata from request headers.
func clientInfo(xForwardedFor, xRealIP, userAgent string) service.ClientInfo {
	return service.ClientInfo{
		IPAddress: extractIP(xForwardedFor, xRealIP),
		UserAgent: userAgent,
	}
}
