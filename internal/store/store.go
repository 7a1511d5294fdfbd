// Package store defines the persistence interfaces and errors shared by
// the service layer and the SQLite implementation.
package store

import (
	"context"
	"time"

	"github.com/shelfapp/shelf-server/internal/domain"
)

// BookStore is the book repository boundary. Services depend on this
// interface rather than the concrete SQLite store so it can be swapped
// in tests.
type BookStore interface {
	GetBook(ctx context.Context, id int64) (*domain.Book, error)
	ListBooks(ctx context.Context, params PaginationParams) (*Page[*domain.Book], error)
	CreateBook(ctx context.Context, insert domain.BookInsert) (*domain.Book, error)
	UpdateBook(ctx context.Context, id int64, patch domain.BookUpdate) (*domain.Book, error)
	DeleteBook(ctx context.Context, id int64) (*domain.Book, error)
}

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context, params PaginationParams) (*Page[*domain.User], error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id string) error
}

// SessionStore persists authenticated sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error)
}

// OrganizationStore persists organizations and their members.
type OrganizationStore interface {
	CreateOrganization(ctx context.Context, org *domain.Organization) error
	GetOrganization(ctx context.Context, id string) (*domain.Organization, error)
	GetOrganizationBySlug(ctx context.Context, slug string) (*domain.Organization, error)
	ListOrganizationsForUser(ctx context.Context, userID string) ([]*domain.Organization, error)
	UpdateOrganization(ctx context.Context, org *domain.Organization) error
	DeleteOrganization(ctx context.Context, id string) error

	CreateMember(ctx context.Context, member *domain.Member) error
	GetMember(ctx context.Context, orgID, userID string) (*domain.Member, error)
	ListMembers(ctx context.Context, orgID string) ([]*domain.Member, error)
	UpdateMemberRole(ctx context.Context, memberID string, role domain.MemberRole) error
	DeleteMember(ctx context.Context, memberID string) error
	CountMembersByRole(ctx context.Context, orgID string, role domain.MemberRole) (int, error)
}
