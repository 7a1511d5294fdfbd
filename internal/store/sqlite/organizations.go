package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/shelfapp/shelf-server/internal/domain"
	"github.com/shelfapp/shelf-server/internal/store"
)

// organizationColumns is the ordered list of columns selected in
// organization queries. Must match the scan order in scanOrganization.
const organizationColumns = `id, name, slug, logo, metadata, created_at, updated_at`

// scanOrganization scans a row into a domain.Organization.
func scanOrganization(scanner interface{ Scan(dest ...any) error }) (*domain.Organization, error) {
	var org domain.Organization

	var (
		logo      sql.NullString
		metadata  sql.NullString
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&org.ID,
		&org.Name,
		&org.Slug,
		&logo,
		&metadata,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	org.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	org.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	if logo.Valid {
		org.Logo = logo.String
	}
	if metadata.Valid {
		org.Metadata = metadata.String
	}

	return &org, nil
}

// CreateOrganization inserts a new organization.
// Returns store.ErrAlreadyExists if the ID or slug is taken.
func (s *Store) CreateOrganization(ctx context.Context, org *domain.Organization) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO organizations (id, name, slug, logo, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		org.ID,
		org.Name,
		org.Slug,
		nullString(org.Logo),
		nullString(org.Metadata),
		formatTime(org.CreatedAt),
		formatTime(org.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetOrganization retrieves an organization by ID.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) GetOrganization(ctx context.Context, id string) (*domain.Organization, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+organizationColumns+` FROM organizations WHERE id = ?`, id)

	org, err := scanOrganization(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return org, nil
}

// GetOrganizationBySlug retrieves an organization by slug.
// Returns store.ErrNotFound if no organization has that slug.
func (s *Store) GetOrganizationBySlug(ctx context.Context, slug string) (*domain.Organization, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+organizationColumns+` FROM organizations WHERE slug = ?`, slug)

	org, err := scanOrganization(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return org, nil
}

// ListOrganizationsForUser returns all organizations the user is a member of.
func (s *Store) ListOrganizationsForUser(ctx context.Context, userID string) ([]*domain.Organization, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT o.id, o.name, o.slug, o.logo, o.metadata, o.created_at, o.updated_at
		FROM organizations o
		JOIN members m ON m.organization_id = o.id
		WHERE m.user_id = ?
		ORDER BY o.created_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orgs := []*domain.Organization{}
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, org)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orgs, nil
}

// UpdateOrganization performs a full row update on an existing organization.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) UpdateOrganization(ctx context.Context, org *domain.Organization) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE organizations SET
			name = ?,
			slug = ?,
			logo = ?,
			metadata = ?,
			updated_at = ?
		WHERE id = ?`,
		org.Name,
		org.Slug,
		nullString(org.Logo),
		nullString(org.Metadata),
		formatTime(org.UpdatedAt),
		org.ID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteOrganization performs a hard delete of an organization.
// Member rows cascade via the schema's foreign key.
// Returns store.ErrNotFound if it does not exist.
func (s *Store) DeleteOrganization(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM organizations WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// memberColumns is the ordered list of columns selected in member queries.
const memberColumns = `id, organization_id, user_id, role, created_at`

// scanMember scans a row into a domain.Member.
func scanMember(scanner interface{ Scan(dest ...any) error }) (*domain.Member, error) {
	var m domain.Member

	var (
		role      string
		createdAt string
	)

	err := scanner.Scan(&m.ID, &m.OrganizationID, &m.UserID, &role, &createdAt)
	if err != nil {
		return nil, err
	}

	m.Role = domain.MemberRole(role)
	m.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

// CreateMember inserts a new membership row.
// Returns store.ErrAlreadyExists if the user is already a member.
func (s *Store) CreateMember(ctx context.Context, member *domain.Member) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO members (id, organization_id, user_id, role, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		member.ID,
		member.OrganizationID,
		member.UserID,
		string(member.Role),
		formatTime(member.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetMember retrieves a membership by organization and user.
// Returns store.ErrNotFound if the user is not a member.
func (s *Store) GetMember(ctx context.Context, orgID, userID string) (*domain.Member, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE organization_id = ? AND user_id = ?`,
		orgID, userID)

	member, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return member, nil
}

// ListMembers returns all members of an organization.
func (s *Store) ListMembers(ctx context.Context, orgID string) ([]*domain.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE organization_id = ? ORDER BY created_at ASC`,
		orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []*domain.Member{}
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return members, nil
}

// UpdateMemberRole changes a member's role.
// Returns store.ErrNotFound if the member does not exist.
func (s *Store) UpdateMemberRole(ctx context.Context, memberID string, role domain.MemberRole) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE members SET role = ? WHERE id = ?`, string(role), memberID)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteMember removes a membership row.
// Returns store.ErrNotFound if the member does not exist.
func (s *Store) DeleteMember(ctx context.Context, memberID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM members WHERE id = ?`, memberID)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// CountMembersByRole counts members with a given role in an organization.
func (s *Store) CountMembersByRole(ctx context.Context, orgID string, role domain.MemberRole) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM members WHERE organization_id = ? AND role = ?`,
		orgID, string(role)).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
