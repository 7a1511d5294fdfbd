package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfapp/shelf-server/internal/store"
)

// Admin-only account management.
func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listUsers",
		Method:      http.MethodGet,
		Path:        "/api/admin/users",
		Summary:     "List users",
		Description: "Returns a page of user accounts",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListUsers)

	huma.Register(s.api, huma.Operation{
		OperationID: "banUser",
		Method:      http.MethodPost,
		Path:        "/api/admin/users/{id}/ban",
		Summary:     "Ban user",
		Description: "Bans an account, optionally until a given time",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleBanUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "unbanUser",
		Method:      http.MethodPost,
		Path:        "/api/admin/users/{id}/unban",
		Summary:     "Unban user",
		Description: "Lifts a ban on an account",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnbanUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteUser",
		Method:      http.MethodDelete,
		Path:        "/api/admin/users/{id}",
		Summary:     "Delete user",
		Description: "Deletes an account and its sessions",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteUser)
}

// === DTOs ===

// ListUsersInput contains parameters for listing users.
type ListUsersInput struct {
	Authorization string `header:"Authorization"`
	Page          int    `query:"page" doc:"Page number, starting at 1"`
	Limit         int    `query:"limit" doc:"Page size, at most 100"`
}

// ListUsersResponse contains one page of user accounts.
type ListUsersResponse struct {
	Users []UserResponse `json:"users" doc:"Users on this page"`
	Total int            `json:"total" doc:"Total number of users"`
	Page  int            `json:"page" doc:"Page number"`
	Limit int            `json:"limit" doc:"Page size"`
}

// ListUsersOutput wraps the list users response for Huma.
type ListUsersOutput struct {
	Body ListUsersResponse
}

// BanUserRequest is the request body for banning a user.
type BanUserRequest struct {
	Reason  string     `json:"reason,omitempty" doc:"Reason shown to the user"`
	Expires *time.Time `json:"expires,omitempty" doc:"Ban expiry; omit for a permanent ban"`
}

// BanUserInput wraps the ban user request for Huma.
type BanUserInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"User ID"`
	Body          BanUserRequest
}

// UnbanUserInput contains parameters for unbanning a user.
type UnbanUserInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"User ID"`
}

// DeleteUserInput contains parameters for deleting a user.
type DeleteUserInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"User ID"`
}

// === Handlers ===

func (s *Server) handleListUsers(ctx context.Context, input *ListUsersInput) (*ListUsersOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	page, err := s.services.User.ListUsers(ctx, store.PaginationParams{
		Page:  input.Page,
		Limit: input.Limit,
	})
	if err != nil {
		return nil, err
	}

	users := make([]UserResponse, len(page.Items))
	for i, u := range page.Items {
		users[i] = mapUserResponse(u)
	}

	return &ListUsersOutput{
		Body: ListUsersResponse{
			Users: users,
			Total: page.Total,
			Page:  page.Page,
			Limit: page.Limit,
		},
	}, nil
}

func (s *Server) handleBanUser(ctx context.Context, input *BanUserInput) (*UserOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	user, err := s.services.User.BanUser(ctx, input.ID, input.Body.Reason, input.Body.Expires)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user)}, nil
}

func (s *Server) handleUnbanUser(ctx context.Context, input *UnbanUserInput) (*UserOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	user, err := s.services.User.UnbanUser(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user)}, nil
}

func (s *Server) handleDeleteUser(ctx context.Context, input *DeleteUserInput) (*MessageOutput, error) {
	if _, err := s.authenticateAndRequireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.User.DeleteUser(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "User deleted"}}, nil
}
