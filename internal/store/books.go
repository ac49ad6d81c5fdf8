package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/listenupapp/bookshelf/internal/domain"
	domainerrors "github.com/listenupapp/bookshelf/internal/errors"
)

// List returns every book in creation order.
func (s *Store) List(ctx context.Context) ([]domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	books := []domain.Book{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(orderPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			bookID, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			r, err := getRecord(txn, string(bookID))
			if errors.Is(err, badger.ErrKeyNotFound) {
				s.logger.Warn("order entry without book", "id", string(bookID))
				continue
			}
			if err != nil {
				return err
			}
			books = append(books, r.Book)
		}
		return nil
	})
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "list books")
	}
	return books, nil
}

// Get returns one book.
func (s *Store) Get(ctx context.Context, bookID string) (domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return domain.Book{}, err
	}

	var book domain.Book
	err := s.db.View(func(txn *badger.Txn) error {
		r, err := getRecord(txn, bookID)
		if err != nil {
			return err
		}
		book = r.Book
		return nil
	})
	if err != nil {
		return domain.Book{}, s.mapErr(err, bookID, "get book")
	}
	return book, nil
}

// Create stores a new book under a generated id.
func (s *Store) Create(ctx context.Context, nb domain.NewBook) (domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return domain.Book{}, err
	}

	bookID, err := s.ids.NewID()
	if err != nil {
		return domain.Book{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "create book")
	}
	seq, err := s.seq.Next()
	if err != nil {
		return domain.Book{}, domainerrors.Wrap(err, domainerrors.CodeInternal, "create book")
	}

	now := s.now()
	r := &record{Book: nb.Book(bookID), Seq: seq, CreatedAt: now, UpdatedAt: now}

	err = s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(bookKey(bookID)); err == nil {
			return domainerrors.Conflictf("book %s already exists", bookID)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return putRecord(txn, r)
	})
	if err != nil {
		return domain.Book{}, s.mapErr(err, bookID, "create book")
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "book created",
		slog.String("id", r.ID),
		slog.String("title", r.Title),
	)
	return r.Book, nil
}

// Update merges u into the stored book. The id never changes. An update with
// no field changes is a read and leaves the stored record untouched.
func (s *Store) Update(ctx context.Context, bookID string, u domain.BookUpdates) (domain.Book, error) {
	if u.Empty() {
		return s.Get(ctx, bookID)
	}
	if err := ctx.Err(); err != nil {
		return domain.Book{}, err
	}

	var updated domain.Book
	err := s.db.Update(func(txn *badger.Txn) error {
		r, err := getRecord(txn, bookID)
		if err != nil {
			return err
		}
		r.Book = r.Apply(u)
		r.UpdatedAt = s.now()
		updated = r.Book
		return putRecord(txn, r)
	})
	if err != nil {
		return domain.Book{}, s.mapErr(err, bookID, "update book")
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "book updated", slog.String("id", bookID))
	return updated, nil
}

// Delete removes a book.
func (s *Store) Delete(ctx context.Context, bookID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		r, err := getRecord(txn, bookID)
		if err != nil {
			return err
		}
		if err := txn.Delete(orderKey(r.Seq)); err != nil {
			return err
		}
		return txn.Delete(bookKey(bookID))
	})
	if err != nil {
		return s.mapErr(err, bookID, "delete book")
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "book deleted", slog.String("id", bookID))
	return nil
}

// Replace drops every book and stores books in their given order, in one
// transaction.
func (s *Store) Replace(ctx context.Context, books []domain.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	now := s.now()
	records := make([]*record, 0, len(books))
	seen := make(map[string]bool, len(books))
	for _, b := range books {
		if b.ID == "" {
			generated, err := s.ids.NewID()
			if err != nil {
				return domainerrors.Wrap(err, domainerrors.CodeInternal, "replace books")
			}
			b.ID = generated
		}
		if seen[b.ID] {
			return domainerrors.Conflictf("duplicate book id %s", b.ID)
		}
		seen[b.ID] = true

		seq, err := s.seq.Next()
		if err != nil {
			return domainerrors.Wrap(err, domainerrors.CodeInternal, "replace books")
		}
		records = append(records, &record{Book: b, Seq: seq, CreatedAt: now, UpdatedAt: now})
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		for _, prefix := range []string{bookPrefix, orderPrefix} {
			if err := deletePrefix(txn, []byte(prefix)); err != nil {
				return err
			}
		}
		for _, r := range records {
			if err := putRecord(txn, r); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "replace books")
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "collection replaced", slog.Int("books", len(records)))
	return nil
}

func deletePrefix(txn *badger.Txn, prefix []byte) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)

	var keys [][]byte
	for it.Rewind(); it.Valid(); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	it.Close()

	for _, k := range keys {
		if err := txn.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) mapErr(err error, bookID, op string) error {
	var de *domainerrors.Error
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return domainerrors.NotFoundf("book %s not found", bookID)
	case errors.As(err, &de):
		return de
	case errors.Is(err, badger.ErrConflict):
		return domainerrors.Wrap(err, domainerrors.CodeConflict, fmt.Sprintf("%s %s", op, bookID))
	default:
		return domainerrors.Wrap(err, domainerrors.CodeInternal, op)
	}
}
