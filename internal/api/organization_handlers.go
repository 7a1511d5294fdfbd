package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfapp/shelf-server/internal/domain"
	"github.com/shelfapp/shelf-server/internal/service"
)

func (s *Server) registerOrganizationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createOrganization",
		Method:      http.MethodPost,
		Path:        "/api/orgs",
		Summary:     "Create organization",
		Description: "Creates an organization with the caller as owner",
		Tags:        []string{"Organizations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateOrganization)

	huma.Register(s.api, huma.Operation{
		OperationID: "listOrganizations",
		Method:      http.MethodGet,
		Path:        "/api/orgs",
		Summary:     "List organizations",
		Description: "Returns the organizations the caller belongs to",
		Tags:        []string{"Organizations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListOrganizations)

	huma.Register(s.api, huma.Operation{
		OperationID: "getOrganization",
		Method:      http.MethodGet,
		Path:        "/api/orgs/{id}",
		Summary:     "Get organization",
		Description: "Returns an organization by ID",
		Tags:        []string{"Organizations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetOrganization)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateOrganization",
		Method:      http.MethodPatch,
		Path:        "/api/orgs/{id}",
		Summary:     "Update organization",
		Description: "Applies a partial update to an organization",
		Tags:        []string{"Organizations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateOrganization)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteOrganization",
		Method:      http.MethodDelete,
		Path:        "/api/orgs/{id}",
		Summary:     "Delete organization",
		Description: "Deletes an organization and its memberships",
		Tags:        []string{"Organizations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteOrganization)

	huma.Register(s.api, huma.Operation{
		OperationID: "activateOrganization",
		Method:      http.MethodPost,
		Path:        "/api/orgs/{id}/activate",
		Summary:     "Set active organization",
		Description: "Records the organization as active on the current session",
		Tags:        []string{"Organizations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleActivateOrganization)

	huma.Register(s.api, huma.Operation{
		OperationID: "addMember",
		Method:      http.MethodPost,
		Path:        "/api/orgs/{id}/members",
		Summary:     "Add member",
		Description: "Adds a user to the organization",
		Tags:        []string{"Organizations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddMember)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMembers",
		Method:      http.MethodGet,
		Path:        "/api/orgs/{id}/members",
		Summary:     "List members",
		Description: "Returns the members of the organization",
		Tags:        []string{"Organizations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMembers)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateMemberRole",
		Method:      http.MethodPatch,
		Path:        "/api/orgs/{id}/members/{userID}",
		Summary:     "Update member role",
		Description: "Changes a member's role in the organization",
		Tags:        []string{"Organizations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateMemberRole)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeMember",
		Method:      http.MethodDelete,
		Path:        "/api/orgs/{id}/members/{userID}",
		Summary:     "Remove member",
		Description: "Removes a user from the organization",
		Tags:        []string{"Organizations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveMember)
}

// === DTOs ===

// OrganizationResponse contains organization data in API responses.
type OrganizationResponse struct {
	ID        string    `json:"id" doc:"Organization ID"`
	Name      string    `json:"name" doc:"Organization name"`
	Slug      string    `json:"slug" doc:"URL-safe slug"`
	Logo      string    `json:"logo,omitempty" doc:"Logo URL"`
	Metadata  string    `json:"metadata,omitempty" doc:"Opaque client metadata"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

// OrganizationOutput wraps the organization response for Huma.
type OrganizationOutput struct {
	Body OrganizationResponse
}

// CreateOrganizationRequest is the request body for creating an organization.
type CreateOrganizationRequest struct {
	Name     string `json:"name" doc:"Organization name"`
	Slug     string `json:"slug" doc:"URL-safe slug (lowercase letters, digits, hyphens)"`
	Logo     string `json:"logo,omitempty" doc:"Logo URL"`
	Metadata string `json:"metadata,omitempty" doc:"Opaque client metadata"`
}

// CreateOrganizationInput wraps the create organization request for Huma.
type CreateOrganizationInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateOrganizationRequest
}

// ListOrganizationsInput contains parameters for listing organizations.
type ListOrganizationsInput struct {
	Authorization string `header:"Authorization"`
}

// ListOrganizationsResponse contains the caller's organizations.
type ListOrganizationsResponse struct {
	Organizations []OrganizationResponse `json:"organizations" doc:"Organizations the caller belongs to"`
}

// ListOrganizationsOutput wraps the list response for Huma.
type ListOrganizationsOutput struct {
	Body ListOrganizationsResponse
}

// GetOrganizationInput contains parameters for getting an organization.
type GetOrganizationInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Organization ID"`
}

// UpdateOrganizationRequest is the request body for updating an organization.
type UpdateOrganizationRequest struct {
	Name     *string `json:"name,omitempty" doc:"Organization name"`
	Logo     *string `json:"logo,omitempty" doc:"Logo URL"`
	Metadata *string `json:"metadata,omitempty" doc:"Opaque client metadata"`
}

// UpdateOrganizationInput wraps the update organization request for Huma.
type UpdateOrganizationInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Organization ID"`
	Body          UpdateOrganizationRequest
}

// DeleteOrganizationInput contains parameters for deleting an organization.
type DeleteOrganizationInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Organization ID"`
}

// ActivateOrganizationInput contains parameters for setting the active organization.
type ActivateOrganizationInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Organization ID"`
}

// MemberResponse contains membership data in API responses.
type MemberResponse struct {
	ID             string    `json:"id" doc:"Membership ID"`
	OrganizationID string    `json:"organization_id" doc:"Organization ID"`
	UserID         string    `json:"user_id" doc:"User ID"`
	Role           string    `json:"role" doc:"Member role (owner, admin, teacher, student)"`
	CreatedAt      time.Time `json:"created_at" doc:"Join time"`
}

// MemberOutput wraps the member response for Huma.
type MemberOutput struct {
	Body MemberResponse
}

// AddMemberRequest is the request body for adding a member.
type AddMemberRequest struct {
	UserID string `json:"user_id" doc:"User to add"`
	Role   string `json:"role" doc:"Member role (owner, admin, teacher, student)"`
}

// AddMemberInput wraps the add member request for Huma.
type AddMemberInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Organization ID"`
	Body          AddMemberRequest
}

// ListMembersInput contains parameters for listing members.
type ListMembersInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Organization ID"`
}

// ListMembersResponse contains the organization's members.
type ListMembersResponse struct {
	Members []MemberResponse `json:"members" doc:"Organization members"`
}

// ListMembersOutput wraps the list members response for Huma.
type ListMembersOutput struct {
	Body ListMembersResponse
}

// UpdateMemberRoleRequest is the request body for changing a member's role.
type UpdateMemberRoleRequest struct {
	Role string `json:"role" doc:"New member role"`
}

// UpdateMemberRoleInput wraps the update member role request for Huma.
type UpdateMemberRoleInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Organization ID"`
	UserID        string `path:"userID" doc:"Member's user ID"`
	Body          UpdateMemberRoleRequest
}

// RemoveMemberInput contains parameters for removing a member.
type RemoveMemberInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Organization ID"`
	UserID        string `path:"userID" doc:"Member's user ID"`
}

// === Handlers ===

func (s *Server) handleCreateOrganization(ctx context.Context, input *CreateOrganizationInput) (*OrganizationOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	org, err := s.services.Organization.CreateOrganization(ctx, user.ID, service.CreateOrganizationRequest{
		Name:     input.Body.Name,
		Slug:     input.Body.Slug,
		Logo:     input.Body.Logo,
		Metadata: input.Body.Metadata,
	})
	if err != nil {
		return nil, err
	}

	return &OrganizationOutput{Body: mapOrganizationResponse(org)}, nil
}

func (s *Server) handleListOrganizations(ctx context.Context, input *ListOrganizationsInput) (*ListOrganizationsOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	orgs, err := s.services.Organization.ListOrganizations(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]OrganizationResponse, len(orgs))
	for i, o := range orgs {
		resp[i] = mapOrganizationResponse(o)
	}

	return &ListOrganizationsOutput{Body: ListOrganizationsResponse{Organizations: resp}}, nil
}

func (s *Server) handleGetOrganization(ctx context.Context, input *GetOrganizationInput) (*OrganizationOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	org, err := s.services.Organization.GetOrganization(ctx, user.ID, input.ID)
	if err != nil {
		return nil, err
	}

	return &OrganizationOutput{Body: mapOrganizationResponse(org)}, nil
}

func (s *Server) handleUpdateOrganization(ctx context.Context, input *UpdateOrganizationInput) (*OrganizationOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	org, err := s.services.Organization.UpdateOrganization(ctx, user.ID, input.ID, service.UpdateOrganizationRequest{
		Name:     input.Body.Name,
		Logo:     input.Body.Logo,
		Metadata: input.Body.Metadata,
	})
	if err != nil {
		return nil, err
	}

	return &OrganizationOutput{Body: mapOrganizationResponse(org)}, nil
}

func (s *Server) handleDeleteOrganization(ctx context.Context, input *DeleteOrganizationInput) (*MessageOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Organization.DeleteOrganization(ctx, user.ID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Organization deleted"}}, nil
}

func (s *Server) handleActivateOrganization(ctx context.Context, input *ActivateOrganizationInput) (*MessageOutput, error) {
	user, sessionID, err := s.authenticateWithClaims(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	// Membership check keeps sessions from pointing at foreign orgs.
	if _, err := s.services.Organization.GetOrganization(ctx, user.ID, input.ID); err != nil {
		return nil, err
	}

	if err := s.services.Session.SetActiveOrganization(ctx, sessionID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Active organization set"}}, nil
}

func (s *Server) handleAddMember(ctx context.Context, input *AddMemberInput) (*MemberOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	member, err := s.services.Organization.AddMember(ctx, user.ID, input.ID, input.Body.UserID, domain.MemberRole(input.Body.Role))
	if err != nil {
		return nil, err
	}

	return &MemberOutput{Body: mapMemberResponse(member)}, nil
}

func (s *Server) handleListMembers(ctx context.Context, input *ListMembersInput) (*ListMembersOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	members, err := s.services.Organization.ListMembers(ctx, user.ID, input.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]MemberResponse, len(members))
	for i, m := range members {
		resp[i] = mapMemberResponse(m)
	}

	return &ListMembersOutput{Body: ListMembersResponse{Members: resp}}, nil
}

func (s *Server) handleUpdateMemberRole(ctx context.Context, input *UpdateMemberRoleInput) (*MessageOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Organization.UpdateMemberRole(ctx, user.ID, input.ID, input.UserID, domain.MemberRole(input.Body.Role)); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Member role updated"}}, nil
}

func (s *Server) handleRemoveMember(ctx context.Context, input *RemoveMemberInput) (*MessageOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Organization.RemoveMember(ctx, user.ID, input.ID, input.UserID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Member removed"}}, nil
}

func mapOrganizationResponse(o *domain.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:        o.ID,
		Name:      o.Name,
		Slug:      o.Slug,
		Logo:      o.Logo,
		Metadata:  o.Metadata,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func mapMemberResponse(m *domain.Member) MemberResponse {
	return MemberResponse{
		ID:             m.ID,
		OrganizationID: m.OrganizationID,
		UserID:         m.UserID,
		Role:           string(m.Role),
		CreatedAt:      m.CreatedAt,
	}
}
