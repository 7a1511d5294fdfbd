package domain

import "time"

// Organization groups users under a shared slug.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Logo      string    `json:"logo,omitempty"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MemberRole is a user's role within an organization.
type MemberRole string

const (
	MemberRoleOwner   MemberRole = "owner"
	MemberRoleAdmin   MemberRole = "admin"
	MemberRoleTeacher MemberRole = "teacher"
	MemberRoleStudent MemberRole = "student"
)

// ValidMemberRole reports whether r is one of the known roles.
func ValidMemberRole(r MemberRole) bool {
	switch r {
	case MemberRoleOwner, MemberRoleAdmin, MemberRoleTeacher, MemberRoleStudent:
		return true
	}
	return false
}

// Member links a user to an organization with a role.
type Member struct {
	ID             string     `json:"id"`
	OrganizationID string     `json:"organizationId"`
	UserID         string     `json:"userId"`
	Role           MemberRole `json:"role"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// CanManage reports whether the member may administer the organization.
func (m *Member) CanManage() bool {
	return m.Role == MemberRoleOwner || m.Role == MemberRoleAdmin
}
