package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shelfapp/shelf-server/internal/domain"
	domainerrors "github.com/shelfapp/shelf-server/internal/errors"
	"github.com/shelfapp/shelf-server/internal/id"
	"github.com/shelfapp/shelf-server/internal/store"
	"github.com/shelfapp/shelf-server/internal/validation"
)

// OrganizationService manages organizations and their memberships.
type OrganizationService struct {
	store     store.OrganizationStore
	validator *validation.Validator
	logger    *slog.Logger
}

// NewOrganizationService creates a new organization service.
func NewOrganizationService(store store.OrganizationStore, validator *validation.Validator, logger *slog.Logger) *OrganizationService {
	return &OrganizationService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// CreateOrganizationRequest holds validated input for creating an organization.
type CreateOrganizationRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Slug     string `json:"slug" validate:"required,min=1,max=50,slug"`
	Logo     string `json:"logo" validate:"omitempty,url"`
	Metadata string `json:"metadata" validate:"omitempty,max=4096"`
}

// UpdateOrganizationRequest is a partial patch for an organization.
type UpdateOrganizationRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Logo     *string `json:"logo" validate:"omitempty,url"`
	Metadata *string `json:"metadata" validate:"omitempty,max=4096"`
}

// CreateOrganization creates an organization with the creator as owner.
func (s *OrganizationService) CreateOrganization(ctx context.Context, creatorID string, req CreateOrganizationRequest) (*domain.Organization, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	orgID, err := id.Generate("org")
	if err != nil {
		return nil, fmt.Errorf("generate organization ID: %w", err)
	}

	now := time.Now()
	org := &domain.Organization{
		ID:        orgID,
		Name:      req.Name,
		Slug:      req.Slug,
		Logo:      req.Logo,
		Metadata:  req.Metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateOrganization(ctx, org); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("an organization with this slug already exists")
		}
		return nil, fmt.Errorf("create organization: %w", err)
	}

	memberID, err := id.Generate("member")
	if err != nil {
		return nil, fmt.Errorf("generate member ID: %w", err)
	}
	member := &domain.Member{
		ID:             memberID,
		OrganizationID: org.ID,
		UserID:         creatorID,
		Role:           domain.MemberRoleOwner,
		CreatedAt:      now,
	}
	if err := s.store.CreateMember(ctx, member); err != nil {
		return nil, fmt.Errorf("create owner membership: %w", err)
	}

	s.logger.Info("organization created", "org_id", org.ID, "slug", org.Slug, "owner", creatorID)
	return org, nil
}

// GetOrganization retrieves an organization visible to the given user.
func (s *OrganizationService) GetOrganization(ctx context.Context, userID, orgID string) (*domain.Organization, error) {
	if _, err := s.requireMember(ctx, orgID, userID); err != nil {
		return nil, err
	}

	org, err := s.store.GetOrganization(ctx, orgID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("organization not found")
		}
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return org, nil
}

// ListOrganizations returns the organizations the user belongs to.
func (s *OrganizationService) ListOrganizations(ctx context.Context, userID string) ([]*domain.Organization, error) {
	orgs, err := s.store.ListOrganizationsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	return orgs, nil
}

// UpdateOrganization applies a patch. Only owners and org admins may update.
func (s *OrganizationService) UpdateOrganization(ctx context.Context, userID, orgID string, req UpdateOrganizationRequest) (*domain.Organization, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	member, err := s.requireMember(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}
	if !member.CanManage() {
		return nil, domainerrors.Forbidden("only owners and admins can update the organization")
	}

	org, err := s.store.GetOrganization(ctx, orgID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("organization not found")
		}
		return nil, fmt.Errorf("get organization: %w", err)
	}

	if req.Name != nil {
		org.Name = *req.Name
	}
	if req.Logo != nil {
		org.Logo = *req.Logo
	}
	if req.Metadata != nil {
		org.Metadata = *req.Metadata
	}
	org.UpdatedAt = time.Now()

	if err := s.store.UpdateOrganization(ctx, org); err != nil {
		return nil, fmt.Errorf("update organization: %w", err)
	}
	return org, nil
}

// DeleteOrganization removes an organization. Only the owner may delete.
func (s *OrganizationService) DeleteOrganization(ctx context.Context, userID, orgID string) error {
	member, err := s.requireMember(ctx, orgID, userID)
	if err != nil {
		return err
	}
	if member.Role != domain.MemberRoleOwner {
		return domainerrors.Forbidden("only the owner can delete the organization")
	}

	if err := s.store.DeleteOrganization(ctx, orgID); err != nil {
		return fmt.Errorf("delete organization: %w", err)
	}

	s.logger.Info("organization deleted", "org_id", orgID, "deleted_by", userID)
	return nil
}

// AddMember adds a user to an organization. Only managers may add members.
func (s *OrganizationService) AddMember(ctx context.Context, actorID, orgID, userID string, role domain.MemberRole) (*domain.Member, error) {
	if !domain.ValidMemberRole(role) {
		return nil, domainerrors.Validationf("invalid member role %q", role)
	}

	actor, err := s.requireMember(ctx, orgID, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage() {
		return nil, domainerrors.Forbidden("only owners and admins can add members")
	}
	if role == domain.MemberRoleOwner && actor.Role != domain.MemberRoleOwner {
		return nil, domainerrors.Forbidden("only the owner can grant ownership")
	}

	memberID, err := id.Generate("member")
	if err != nil {
		return nil, fmt.Errorf("generate member ID: %w", err)
	}
	member := &domain.Member{
		ID:             memberID,
		OrganizationID: orgID,
		UserID:         userID,
		Role:           role,
		CreatedAt:      time.Now(),
	}

	if err := s.store.CreateMember(ctx, member); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("user is already a member")
		}
		return nil, fmt.Errorf("create member: %w", err)
	}
	return member, nil
}

// ListMembers returns the members of an organization.
func (s *OrganizationService) ListMembers(ctx context.Context, userID, orgID string) ([]*domain.Member, error) {
	if _, err := s.requireMember(ctx, orgID, userID); err != nil {
		return nil, err
	}

	members, err := s.store.ListMembers(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

// UpdateMemberRole changes a member's role. The last owner cannot be demoted.
func (s *OrganizationService) UpdateMemberRole(ctx context.Context, actorID, orgID, targetUserID string, role domain.MemberRole) error {
	if !domain.ValidMemberRole(role) {
		return domainerrors.Validationf("invalid member role %q", role)
	}

	actor, err := s.requireMember(ctx, orgID, actorID)
	if err != nil {
		return err
	}
	if !actor.CanManage() {
		return domainerrors.Forbidden("only owners and admins can change roles")
	}

	target, err := s.requireMember(ctx, orgID, targetUserID)
	if err != nil {
		return err
	}

	if target.Role == domain.MemberRoleOwner && role != domain.MemberRoleOwner {
		owners, err := s.store.CountMembersByRole(ctx, orgID, domain.MemberRoleOwner)
		if err != nil {
			return fmt.Errorf("count owners: %w", err)
		}
		if owners <= 1 {
			return domainerrors.Conflict("cannot demote the last owner")
		}
	}
	if (target.Role == domain.MemberRoleOwner || role == domain.MemberRoleOwner) && actor.Role != domain.MemberRoleOwner {
		return domainerrors.Forbidden("only the owner can change ownership")
	}

	if err := s.store.UpdateMemberRole(ctx, target.ID, role); err != nil {
		return fmt.Errorf("update member role: %w", err)
	}
	return nil
}

// RemoveMember removes a user from an organization. Members may remove
// themselves; otherwise a manager is required. The last owner cannot leave.
func (s *OrganizationService) RemoveMember(ctx context.Context, actorID, orgID, targetUserID string) error {
	target, err := s.requireMember(ctx, orgID, targetUserID)
	if err != nil {
		return err
	}

	if actorID != targetUserID {
		actor, err := s.requireMember(ctx, orgID, actorID)
		if err != nil {
			return err
		}
		if !actor.CanManage() {
			return domainerrors.Forbidden("only owners and admins can remove members")
		}
		if target.Role == domain.MemberRoleOwner && actor.Role != domain.MemberRoleOwner {
			return domainerrors.Forbidden("only the owner can remove an owner")
		}
	}

	if target.Role == domain.MemberRoleOwner {
		owners, err := s.store.CountMembersByRole(ctx, orgID, domain.MemberRoleOwner)
		if err != nil {
			return fmt.Errorf("count owners: %w", err)
		}
		if owners <= 1 {
			return domainerrors.Conflict("cannot remove the last owner")
		}
	}

	if err := s.store.DeleteMember(ctx, target.ID); err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	return nil
}

func (s *OrganizationService) requireMember(ctx context.Context, orgID, userID string) (*domain.Member, error) {
	member, err := s.store.GetMember(ctx, orgID, userID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.Forbidden("not a member of this organization")
		}
		return nil, fmt.Errorf("get member: %w", err)
	}
	return member, nil
}
