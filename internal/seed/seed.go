// Package seed loads the collection server's books from a json-server style
// db.json file:
//
//	{"books": [{"id": "1", "title": "Dune", "author": "Frank Herbert"}]}
//
// Other top-level keys are ignored.
package seed

import (
	"context"
	"encoding/json/jsontext"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/listenupapp/bookshelf/internal/domain"
	"github.com/listenupapp/bookshelf/internal/store"
)

// Database is the db.json document.
type Database struct {
	Books []domain.Book `json:"books"`
}

// Load reads and decodes path.
func Load(path string) ([]domain.Book, error) {
	f, err := os.Open(path) //#nosec G304 -- seed path comes from config
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	var db Database
	if err := json.UnmarshalRead(f, &db); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}
	if db.Books == nil {
		db.Books = []domain.Book{}
	}
	return db.Books, nil
}

// Import replaces the contents of s with the books in path.
func Import(ctx context.Context, s store.BookStore, path string, logger *slog.Logger) error {
	books, err := Load(path)
	if err != nil {
		return err
	}
	if err := s.Replace(ctx, books); err != nil {
		return fmt.Errorf("import seed file: %w", err)
	}
	if logger != nil {
		logger.Info("seed imported", "path", path, "books", len(books))
	}
	return nil
}

// Export writes the contents of s to w as a db.json document.
func Export(ctx context.Context, s store.BookStore, w io.Writer) error {
	books, err := s.List(ctx)
	if err != nil {
		return fmt.Errorf("export books: %w", err)
	}
	return json.MarshalWrite(w, Database{Books: books}, jsontext.WithIndent("  "))
}
