// Package service provides the business logic layer for books, accounts,
// sessions, and organizations.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shelfapp/shelf-server/internal/domain"
	domainerrors "github.com/shelfapp/shelf-server/internal/errors"
	"github.com/shelfapp/shelf-server/internal/store"
	"github.com/shelfapp/shelf-server/internal/validation"
)

// BookService orchestrates book procedures. Every payload is validated
// before the repository is touched; an invalid payload never reaches
// the store.
type BookService struct {
	store     store.BookStore
	validator *validation.Validator
	logger    *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(store store.BookStore, validator *validation.Validator, logger *slog.Logger) *BookService {
	return &BookService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// CreateBookRequest holds validated input for creating a book.
type CreateBookRequest struct {
	Title         string `json:"title" validate:"required,min=1,max=200"`
	Author        string `json:"author" validate:"required,min=1"`
	PublishedYear *int   `json:"publishedYear" validate:"omitempty,gt=1800,lt=2100"`
}

// UpdateBookRequest is a partial patch; nil fields are left unchanged.
type UpdateBookRequest struct {
	Title         *string `json:"title" validate:"omitempty,min=1,max=200"`
	Author        *string `json:"author" validate:"omitempty,min=1"`
	PublishedYear *int    `json:"publishedYear" validate:"omitempty,gt=1800,lt=2100"`
}

// GetBook retrieves a single book by ID.
func (s *BookService) GetBook(ctx context.Context, id int64) (*domain.Book, error) {
	if id <= 0 {
		return nil, domainerrors.Validation("id must be a positive integer")
	}

	book, err := s.store.GetBook(ctx, id)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("book %d not found", id)
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

// ListBooks returns one page of books with the total count.
// Out-of-range paging values are clamped, never rejected.
func (s *BookService) ListBooks(ctx context.Context, params store.PaginationParams) (*store.Page[*domain.Book], error) {
	params.Normalize()

	page, err := s.store.ListBooks(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return page, nil
}

// CreateBook validates the payload and inserts a new book.
func (s *BookService) CreateBook(ctx context.Context, req CreateBookRequest) (*domain.Book, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	book, err := s.store.CreateBook(ctx, domain.BookInsert{
		Title:         req.Title,
		Author:        req.Author,
		PublishedYear: req.PublishedYear,
	})
	if err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.logger.Info("book created", "book_id", book.ID, "title", book.Title)
	return book, nil
}

// UpdateBook validates the patch and applies it. An empty patch is a
// no-op returning the unchanged book.
func (s *BookService) UpdateBook(ctx context.Context, id int64, req UpdateBookRequest) (*domain.Book, error) {
	if id <= 0 {
		return nil, domainerrors.Validation("id must be a positive integer")
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	book, err := s.store.UpdateBook(ctx, id, domain.BookUpdate{
		Title:         req.Title,
		Author:        req.Author,
		PublishedYear: req.PublishedYear,
	})
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("book %d not found", id)
		}
		return nil, fmt.Errorf("update book: %w", err)
	}
	return book, nil
}

// DeleteBook removes a book and returns the deleted row.
func (s *BookService) DeleteBook(ctx context.Context, id int64) (*domain.Book, error) {
	if id <= 0 {
		return nil, domainerrors.Validation("id must be a positive integer")
	}

	book, err := s.store.DeleteBook(ctx, id)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("book %d not found", id)
		}
		return nil, fmt.Errorf("delete book: %w", err)
	}

	s.logger.Info("book deleted", "book_id", id)
	return book, nil
}
