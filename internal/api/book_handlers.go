package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfapp/shelf-server/internal/domain"
	"github.com/shelfapp/shelf-server/internal/service"
	"github.com/shelfapp/shelf-server/internal/store"
)

// Book procedures are RPC-style: every operation is a POST to
// /rpc/books.<op> with a JSON payload. Reads are public; mutations
// require an authenticated session.
func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "books.get",
		Method:      http.MethodPost,
		Path:        "/rpc/books.get",
		Summary:     "Get book",
		Description: "Returns a single book by ID",
		Tags:        []string{"Books"},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "books.list",
		Method:      http.MethodPost,
		Path:        "/rpc/books.list",
		Summary:     "List books",
		Description: "Returns a page of books ordered by ID",
		Tags:        []string{"Books"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "books.create",
		Method:      http.MethodPost,
		Path:        "/rpc/books.create",
		Summary:     "Create book",
		Description: "Creates a new book",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "books.update",
		Method:      http.MethodPost,
		Path:        "/rpc/books.update",
		Summary:     "Update book",
		Description: "Applies a partial update to a book",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "books.delete",
		Method:      http.MethodPost,
		Path:        "/rpc/books.delete",
		Summary:     "Delete book",
		Description: "Deletes a book and returns the deleted row",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteBook)
}

// === DTOs ===

// BookResponse contains book data in API responses.
type BookResponse struct {
	ID            int64     `json:"id" doc:"Book ID"`
	Title         string    `json:"title" doc:"Book title"`
	Author        string    `json:"author" doc:"Book author"`
	PublishedYear *int      `json:"publishedYear,omitempty" doc:"Year of publication"`
	CreatedAt     time.Time `json:"createdAt" doc:"Creation time"`
	UpdatedAt     time.Time `json:"updatedAt" doc:"Last update time"`
}

// BookOutput wraps the book response for Huma.
type BookOutput struct {
	Body BookResponse
}

// GetBookRequest is the payload for books.get.
type GetBookRequest struct {
	ID int64 `json:"id" doc:"Book ID"`
}

// GetBookInput wraps the get book request for Huma.
type GetBookInput struct {
	Body GetBookRequest
}

// ListBooksRequest is the payload for books.list.
type ListBooksRequest struct {
	Page  int `json:"page,omitempty" doc:"Page number, starting at 1"`
	Limit int `json:"limit,omitempty" doc:"Page size, kept below 100"`
}

// ListBooksInput wraps the list books request for Huma.
type ListBooksInput struct {
	Body ListBooksRequest
}

// ListBooksResponse contains one page of books. The rows are keyed
// "data" on the wire.
type ListBooksResponse struct {
	Data  []BookResponse `json:"data" doc:"Books on this page"`
	Total int            `json:"total" doc:"Total number of books"`
	Page  int            `json:"page" doc:"Page number"`
	Limit int            `json:"limit" doc:"Page size"`
}

// ListBooksOutput wraps the list books response for Huma.
type ListBooksOutput struct {
	Body ListBooksResponse
}

// CreateBookRequest is the payload for books.create.
type CreateBookRequest struct {
	Title         string `json:"title" doc:"Book title"`
	Author        string `json:"author" doc:"Book author"`
	PublishedYear *int   `json:"publishedYear,omitempty" doc:"Year of publication"`
}

// CreateBookInput wraps the create book request for Huma.
type CreateBookInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateBookRequest
}

// BookPatch holds the fields of a partial update. Absent fields are
// left unchanged.
type BookPatch struct {
	Title         *string `json:"title,omitempty" doc:"Book title"`
	Author        *string `json:"author,omitempty" doc:"Book author"`
	PublishedYear *int    `json:"publishedYear,omitempty" doc:"Year of publication"`
}

// UpdateBookRequest is the payload for books.update.
type UpdateBookRequest struct {
	ID   int64     `json:"id" doc:"Book ID"`
	Data BookPatch `json:"data" doc:"Fields to change"`
}

// UpdateBookInput wraps the update book request for Huma.
type UpdateBookInput struct {
	Authorization string `header:"Authorization"`
	Body          UpdateBookRequest
}

// DeleteBookRequest is the payload for books.delete.
type DeleteBookRequest struct {
	ID int64 `json:"id" doc:"Book ID"`
}

// DeleteBookInput wraps the delete book request for Huma.
type DeleteBookInput struct {
	Authorization string `header:"Authorization"`
	Body          DeleteBookRequest
}

// === Handlers ===

func (s *Server) handleGetBook(ctx context.Context, input *GetBookInput) (*BookOutput, error) {
	book, err := s.services.Book.GetBook(ctx, input.Body.ID)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookResponse(book)}, nil
}

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*ListBooksOutput, error) {
	page, err := s.services.Book.ListBooks(ctx, store.PaginationParams{
		Page:  input.Body.Page,
		Limit: input.Body.Limit,
	})
	if err != nil {
		return nil, err
	}

	rows := make([]BookResponse, len(page.Items))
	for i, b := range page.Items {
		rows[i] = mapBookResponse(b)
	}

	return &ListBooksOutput{
		Body: ListBooksResponse{
			Data:  rows,
			Total: page.Total,
			Page:  page.Page,
			Limit: page.Limit,
		},
	}, nil
}

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	book, err := s.services.Book.CreateBook(ctx, service.CreateBookRequest{
		Title:         input.Body.Title,
		Author:        input.Body.Author,
		PublishedYear: input.Body.PublishedYear,
	})
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookResponse(book)}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	book, err := s.services.Book.UpdateBook(ctx, input.Body.ID, service.UpdateBookRequest{
		Title:         input.Body.Data.Title,
		Author:        input.Body.Data.Author,
		PublishedYear: input.Body.Data.PublishedYear,
	})
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookResponse(book)}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *DeleteBookInput) (*BookOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	book, err := s.services.Book.DeleteBook(ctx, input.Body.ID)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookResponse(book)}, nil
}

func mapBookResponse(b *domain.Book) BookResponse {
	return BookResponse{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		PublishedYear: b.PublishedYear,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}
