// Package store persists the collection server's books.
//
// Two backends implement BookStore: Badger (this package, the default) and
// SQLite (package sqlite). Both keep books in creation order and return
// *errors.Error values with code NOT_FOUND for unknown ids.
package store

import (
	"context"

	"github.com/listenupapp/bookshelf/internal/domain"
)

// BookStore defines the persistence operations behind the /books resource.
type BookStore interface {
	// List returns every book in creation order. Never nil.
	List(ctx context.Context) ([]domain.Book, error)
	Get(ctx context.Context, id string) (domain.Book, error)
	// Create assigns a new id and appends the book.
	Create(ctx context.Context, nb domain.NewBook) (domain.Book, error)
	// Update merges the set fields of u into the stored book.
	Update(ctx context.Context, id string, u domain.BookUpdates) (domain.Book, error)
	Delete(ctx context.Context, id string) error
	// Replace swaps the whole collection for books, keeping their order.
	// Books without an id get a generated one.
	Replace(ctx context.Context, books []domain.Book) error
	Close() error
}
