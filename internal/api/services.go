package api

import (
	"github.com/shelfapp/shelf-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth         *service.AuthService
	Session      *service.SessionService
	Book         *service.BookService
	Organization *service.OrganizationService
	User         *service.UserService
}
