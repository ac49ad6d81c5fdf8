package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/bookshelf/internal/domain"
	domainerrors "github.com/listenupapp/bookshelf/internal/errors"
	"github.com/listenupapp/bookshelf/internal/id"
	"github.com/listenupapp/bookshelf/internal/store"
	"github.com/listenupapp/bookshelf/internal/store/storetest"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	return s
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	var journalMode string
	require.NoError(t, s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	var name string
	err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='books'").Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "books", name)
}

func TestOpen_SchemaIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path, nil)
	require.NoError(t, err)
	b, err := s.Create(t.Context(), domain.NewBook{Title: "Dune", Author: "Herbert"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path, nil)
	require.NoError(t, err)
	defer s.Close()

	books, err := s.List(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []domain.Book{b}, books)
}

func TestStore_Contract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.BookStore {
		return newTestStore(t)
	})
}

func TestStore_DeletedSeqIsNotReused(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()
	ctx := t.Context()

	a, err := s.Create(ctx, domain.NewBook{Title: "A", Author: "a"})
	require.NoError(t, err)
	b, err := s.Create(ctx, domain.NewBook{Title: "B", Author: "b"})
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, b.ID))
	c, err := s.Create(ctx, domain.NewBook{Title: "C", Author: "c"})
	require.NoError(t, err)

	books, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Book{a, c}, books)
}

func TestStore_DuplicateGeneratedID(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()
	s.SetIDGenerator(id.GeneratorFunc(func() (string, error) { return "same", nil }))

	_, err := s.Create(t.Context(), domain.NewBook{Title: "A", Author: "a"})
	require.NoError(t, err)

	_, err = s.Create(t.Context(), domain.NewBook{Title: "B", Author: "b"})
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}
