package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/listenupapp/bookshelf/internal/domain"
	domainerrors "github.com/listenupapp/bookshelf/internal/errors"
)

// List returns every book in insertion order.
func (s *Store) List(ctx context.Context) ([]domain.Book, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, author FROM books ORDER BY seq`)
	if err != nil {
		return nil, wrapErr(ctx, err, "list books")
	}
	defer rows.Close()

	books := []domain.Book{}
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author); err != nil {
			return nil, wrapErr(ctx, err, "scan book")
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(ctx, err, "list books")
	}
	return books, nil
}

// Get returns one book.
func (s *Store) Get(ctx context.Context, bookID string) (domain.Book, error) {
	return getBook(ctx, s.db, bookID)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getBook(ctx context.Context, q querier, bookID string) (domain.Book, error) {
	var b domain.Book
	err := q.QueryRowContext(ctx, `SELECT id, title, author FROM books WHERE id = ?`, bookID).
		Scan(&b.ID, &b.Title, &b.Author)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Book{}, domainerrors.NotFoundf("book %s not found", bookID)
	}
	if err != nil {
		return domain.Book{}, wrapErr(ctx, err, "get book")
	}
	return b, nil
}

// Create inserts a new book under a generated id.
func (s *Store) Create(ctx context.Context, nb domain.NewBook) (domain.Book, error) {
	bookID, err := s.ids.NewID()
	if err != nil {
		return domain.Book{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "create book")
	}
	book := nb.Book(bookID)
	now := formatTime(s.now())

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO books (id, title, author, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		book.ID, book.Title, book.Author, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Book{}, domainerrors.Conflictf("book %s already exists", book.ID)
		}
		return domain.Book{}, wrapErr(ctx, err, "create book")
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "book created",
		slog.String("id", book.ID),
		slog.String("title", book.Title),
	)
	return book, nil
}

// Update merges u into the stored book inside a transaction.
func (s *Store) Update(ctx context.Context, bookID string, u domain.BookUpdates) (domain.Book, error) {
	if u.Empty() {
		return s.Get(ctx, bookID)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Book{}, wrapErr(ctx, err, "update book")
	}
	defer tx.Rollback()

	current, err := getBook(ctx, tx, bookID)
	if err != nil {
		return domain.Book{}, err
	}
	updated := current.Apply(u)

	_, err = tx.ExecContext(ctx, `
		UPDATE books SET title = ?, author = ?, updated_at = ?
		WHERE id = ?`,
		updated.Title, updated.Author, formatTime(s.now()), bookID)
	if err != nil {
		return domain.Book{}, wrapErr(ctx, err, "update book")
	}
	if err := tx.Commit(); err != nil {
		return domain.Book{}, wrapErr(ctx, err, "update book")
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "book updated", slog.String("id", bookID))
	return updated, nil
}

// Delete removes a book.
func (s *Store) Delete(ctx context.Context, bookID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, bookID)
	if err != nil {
		return wrapErr(ctx, err, "delete book")
	}

	n, err := result.RowsAffected()
	if err != nil {
		return wrapErr(ctx, err, "delete book")
	}
	if n == 0 {
		return domainerrors.NotFoundf("book %s not found", bookID)
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "book deleted", slog.String("id", bookID))
	return nil
}

// Replace swaps the collection for books in one transaction.
func (s *Store) Replace(ctx context.Context, books []domain.Book) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapErr(ctx, err, "replace books")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM books`); err != nil {
		return wrapErr(ctx, err, "replace books")
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO books (id, title, author, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return wrapErr(ctx, err, "replace books")
	}
	defer stmt.Close()

	now := formatTime(s.now())
	for _, b := range books {
		if b.ID == "" {
			if b.ID, err = s.ids.NewID(); err != nil {
				return domainerrors.Wrap(err, domainerrors.CodeInternal, "replace books")
			}
		}
		if _, err := stmt.ExecContext(ctx, b.ID, b.Title, b.Author, now, now); err != nil {
			if isUniqueViolation(err) {
				return domainerrors.Conflictf("duplicate book id %s", b.ID)
			}
			return wrapErr(ctx, err, "replace books")
		}
	}

	if err := tx.Commit(); err != nil {
		return wrapErr(ctx, err, "replace books")
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "collection replaced", slog.Int("books", len(books)))
	return nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// wrapErr passes context errors through untouched so callers can tell a
// canceled request from a database failure.
func wrapErr(ctx context.Context, err error, op string) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return domainerrors.Wrap(err, domainerrors.CodeInternal, op)
}
