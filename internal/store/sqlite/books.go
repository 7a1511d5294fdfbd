package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/shelfapp/shelf-server/internal/domain"
	"github.com/shelfapp/shelf-server/internal/store"
)

// bookColumns is the ordered list of columns selected in book queries.
// Must match the scan order in scanBook.
const bookColumns = `id, title, author, published_year, created_at, updated_at`

// scanBook scans a sql.Row (or sql.Rows via its Scan method) into a domain.Book.
func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var b domain.Book

	var (
		publishedYear sql.NullInt64
		createdAt     string
		updatedAt     string
	)

	err := scanner.Scan(
		&b.ID,
		&b.Title,
		&b.Author,
		&publishedYear,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	if publishedYear.Valid {
		year := int(publishedYear.Int64)
		b.PublishedYear = &year
	}

	return &b, nil
}

// GetBook retrieves a book by ID.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) GetBook(ctx context.Context, id int64) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ?`, id)

	book, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return book, nil
}

// ListBooks returns one page of books ordered by ID, plus the total count.
func (s *Store) ListBooks(ctx context.Context, params store.PaginationParams) (*store.Page[*domain.Book], error) {
	params.Normalize()

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&total); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookColumns+` FROM books ORDER BY id ASC LIMIT ? OFFSET ?`,
		params.Limit, params.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []*domain.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &store.Page[*domain.Book]{
		Items: books,
		Total: total,
		Page:  params.Page,
		Limit: params.Limit,
	}, nil
}

// CreateBook inserts a new book and returns it with the assigned ID.
func (s *Store) CreateBook(ctx context.Context, insert domain.BookInsert) (*domain.Book, error) {
	now := time.Now()

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO books (title, author, published_year, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		insert.Title,
		insert.Author,
		nullIntPtr(insert.PublishedYear),
		formatTime(now),
		formatTime(now),
	)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return s.GetBook(ctx, id)
}

// UpdateBook applies a partial patch to an existing book and returns the
// updated row. An empty patch leaves every column unchanged.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) UpdateBook(ctx context.Context, id int64, patch domain.BookUpdate) (*domain.Book, error) {
	book, err := s.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.IsEmpty() {
		return book, nil
	}

	patch.ApplyTo(book)
	book.UpdatedAt = time.Now()

	result, err := s.db.ExecContext(ctx, `
		UPDATE books SET
			title = ?,
			author = ?,
			published_year = ?,
			updated_at = ?
		WHERE id = ?`,
		book.Title,
		book.Author,
		nullIntPtr(book.PublishedYear),
		formatTime(book.UpdatedAt),
		book.ID,
	)
	if err != nil {
		return nil, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, store.ErrNotFound
	}

	return book, nil
}

// DeleteBook removes a book and returns the deleted row.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) DeleteBook(ctx context.Context, id int64) (*domain.Book, error) {
	book, err := s.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, store.ErrNotFound
	}

	return book, nil
}
