package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shelfapp/shelf-server/internal/domain"
	"github.com/shelfapp/shelf-server/internal/store"
)

// makeTestOrg creates a domain.Organization with defaults for testing.
func makeTestOrg(id, slug string) *domain.Organization {
	now := time.Now()
	return &domain.Organization{
		ID:        id,
		Name:      "Test Org",
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCreateAndGetOrganization(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	org := makeTestOrg("org-1", "acme")
	org.Logo = "https://example.com/logo.png"
	if err := s.CreateOrganization(ctx, org); err != nil {
		t.Fatalf("CreateOrganization: %v", err)
	}

	got, err := s.GetOrganization(ctx, "org-1")
	if err != nil {
		t.Fatalf("GetOrganization: %v", err)
	}
	if got.Slug != "acme" {
		t.Errorf("Slug: got %q, want %q", got.Slug, "acme")
	}
	if got.Logo != org.Logo {
		t.Errorf("Logo: got %q", got.Logo)
	}

	bySlug, err := s.GetOrganizationBySlug(ctx, "acme")
	if err != nil {
		t.Fatalf("GetOrganizationBySlug: %v", err)
	}
	if bySlug.ID != "org-1" {
		t.Errorf("ID: got %q, want %q", bySlug.ID, "org-1")
	}
}

func TestCreateOrganization_DuplicateSlug(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateOrganization(ctx, makeTestOrg("org-d1", "shared-slug")); err != nil {
		t.Fatalf("CreateOrganization: %v", err)
	}

	err := s.CreateOrganization(ctx, makeTestOrg("org-d2", "shared-slug"))
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestMembers_CreateListAndUniqueness(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("user-m1", "m1@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := s.CreateOrganization(ctx, makeTestOrg("org-m1", "members-org")); err != nil {
		t.Fatalf("CreateOrganization: %v", err)
	}

	member := &domain.Member{
		ID:             "member-1",
		OrganizationID: "org-m1",
		UserID:         "user-m1",
		Role:           domain.MemberRoleOwner,
		CreatedAt:      time.Now(),
	}
	if err := s.CreateMember(ctx, member); err != nil {
		t.Fatalf("CreateMember: %v", err)
	}

	// Same (org, user) pair is rejected.
	dup := &domain.Member{
		ID:             "member-2",
		OrganizationID: "org-m1",
		UserID:         "user-m1",
		Role:           domain.MemberRoleStudent,
		CreatedAt:      time.Now(),
	}
	if err := s.CreateMember(ctx, dup); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}

	members, err := s.ListMembers(ctx, "org-m1")
	if err != nil {
		t.Fatalf("ListMembers: %v", err)
	}
	if len(members) != 1 {
		t.Fatalf("expected 1 member, got %d", len(members))
	}
	if members[0].Role != domain.MemberRoleOwner {
		t.Errorf("Role: got %q, want %q", members[0].Role, domain.MemberRoleOwner)
	}
}

func TestUpdateMemberRole(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("user-m2", "m2@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := s.CreateOrganization(ctx, makeTestOrg("org-m2", "role-org")); err != nil {
		t.Fatalf("CreateOrganization: %v", err)
	}
	member := &domain.Member{
		ID:             "member-r1",
		OrganizationID: "org-m2",
		UserID:         "user-m2",
		Role:           domain.MemberRoleStudent,
		CreatedAt:      time.Now(),
	}
	if err := s.CreateMember(ctx, member); err != nil {
		t.Fatalf("CreateMember: %v", err)
	}

	if err := s.UpdateMemberRole(ctx, "member-r1", domain.MemberRoleTeacher); err != nil {
		t.Fatalf("UpdateMemberRole: %v", err)
	}

	got, err := s.GetMember(ctx, "org-m2", "user-m2")
	if err != nil {
		t.Fatalf("GetMember: %v", err)
	}
	if got.Role != domain.MemberRoleTeacher {
		t.Errorf("Role: got %q, want %q", got.Role, domain.MemberRoleTeacher)
	}

	if err := s.UpdateMemberRole(ctx, "member-ghost", domain.MemberRoleAdmin); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteOrganization_CascadesMembers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("user-m3", "m3@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := s.CreateOrganization(ctx, makeTestOrg("org-m3", "cascade-org")); err != nil {
		t.Fatalf("CreateOrganization: %v", err)
	}
	member := &domain.Member{
		ID:             "member-c1",
		OrganizationID: "org-m3",
		UserID:         "user-m3",
		Role:           domain.MemberRoleOwner,
		CreatedAt:      time.Now(),
	}
	if err := s.CreateMember(ctx, member); err != nil {
		t.Fatalf("CreateMember: %v", err)
	}

	if err := s.DeleteOrganization(ctx, "org-m3"); err != nil {
		t.Fatalf("DeleteOrganization: %v", err)
	}

	_, err := s.GetMember(ctx, "org-m3", "user-m3")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected member to cascade, got %v", err)
	}
}

func TestListOrganizationsForUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("user-m4", "m4@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	// Member of two orgs, not a member of the third.
	for i, slug := range []string{"org-a", "org-b", "org-c"} {
		org := makeTestOrg("org-l"+slug, slug)
		org.CreatedAt = time.Now().Add(time.Duration(i) * time.Second)
		if err := s.CreateOrganization(ctx, org); err != nil {
			t.Fatalf("CreateOrganization %s: %v", slug, err)
		}
	}
	for _, slug := range []string{"org-a", "org-b"} {
		member := &domain.Member{
			ID:             "member-l-" + slug,
			OrganizationID: "org-l" + slug,
			UserID:         "user-m4",
			Role:           domain.MemberRoleStudent,
			CreatedAt:      time.Now(),
		}
		if err := s.CreateMember(ctx, member); err != nil {
			t.Fatalf("CreateMember %s: %v", slug, err)
		}
	}

	orgs, err := s.ListOrganizationsForUser(ctx, "user-m4")
	if err != nil {
		t.Fatalf("ListOrganizationsForUser: %v", err)
	}
	if len(orgs) != 2 {
		t.Fatalf("expected 2 orgs, got %d", len(orgs))
	}
}

func TestCountMembersByRole(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateOrganization(ctx, makeTestOrg("org-count", "count-org")); err != nil {
		t.Fatalf("CreateOrganization: %v", err)
	}
	for i, role := range []domain.MemberRole{domain.MemberRoleOwner, domain.MemberRoleOwner, domain.MemberRoleStudent} {
		uid := "user-count-" + string(rune('a'+i))
		if err := s.CreateUser(ctx, makeTestUser(uid, uid+"@example.com")); err != nil {
			t.Fatalf("CreateUser: %v", err)
		}
		member := &domain.Member{
			ID:             "member-count-" + string(rune('a'+i)),
			OrganizationID: "org-count",
			UserID:         uid,
			Role:           role,
			CreatedAt:      time.Now(),
		}
		if err := s.CreateMember(ctx, member); err != nil {
			t.Fatalf("CreateMember: %v", err)
		}
	}

	owners, err := s.CountMembersByRole(ctx, "org-count", domain.MemberRoleOwner)
	if err != nil {
		t.Fatalf("CountMembersByRole: %v", err)
	}
	if owners != 2 {
		t.Errorf("owners: got %d, want 2", owners)
	}
}
