// Package domain defines the core entities of the Shelf server.
package domain

import "time"

// Book is a catalog entry. IDs are assigned by the database
// (positive, auto-incrementing).
type Book struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	PublishedYear *int      `json:"publishedYear,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// BookInsert holds the fields required to create a book.
type BookInsert struct {
	Title         string
	Author        string
	PublishedYear *int
}

// BookUpdate is a partial patch. Nil fields are left unchanged;
// an all-nil patch is a no-op.
type BookUpdate struct {
	Title         *string
	Author        *string
	PublishedYear *int
}

// IsEmpty reports whether the patch changes nothing.
func (u BookUpdate) IsEmpty() bool {
	return u.Title == nil && u.Author == nil && u.PublishedYear == nil
}

// ApplyTo merges the patch into a book in place.
func (u BookUpdate) ApplyTo(b *Book) {
	if u.Title != nil {
		b.Title = *u.Title
	}
	if u.Author != nil {
		b.Author = *u.Author
	}
	if u.PublishedYear != nil {
		b.PublishedYear = u.PublishedYear
	}
}
