// Package storetest holds the behavior every store.BookStore must share.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/bookshelf/internal/domain"
	domainerrors "github.com/listenupapp/bookshelf/internal/errors"
	"github.com/listenupapp/bookshelf/internal/store"
)

// Factory opens an empty store. The suite closes it.
type Factory func(t *testing.T) store.BookStore

// Run exercises open against the BookStore contract.
func Run(t *testing.T, open Factory) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, s store.BookStore)
	}{
		{"EmptyListIsNotNil", testEmptyList},
		{"CreateThenList", testCreateThenList},
		{"ListKeepsCreationOrder", testCreationOrder},
		{"GetUnknown", testGetUnknown},
		{"UpdateMergesPartialFields", testUpdateMerges},
		{"UpdateUnknown", testUpdateUnknown},
		{"UpdateWithoutChanges", testUpdateWithoutChanges},
		{"DeleteThenList", testDelete},
		{"DeleteTwice", testDeleteTwice},
		{"Replace", testReplace},
		{"ReplaceRejectsDuplicateIDs", testReplaceDuplicates},
		{"CanceledContext", testCanceledContext},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := open(t)
			t.Cleanup(func() { _ = s.Close() })
			tt.fn(t, s)
		})
	}
}

func testEmptyList(t *testing.T, s store.BookStore) {
	books, err := s.List(t.Context())
	require.NoError(t, err)
	assert.NotNil(t, books)
	assert.Empty(t, books)
}

func testCreateThenList(t *testing.T, s store.BookStore) {
	ctx := t.Context()

	created, err := s.Create(ctx, domain.NewBook{Title: "Dune", Author: "Frank Herbert"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Dune", created.Title)
	assert.Equal(t, "Frank Herbert", created.Author)

	books, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Book{created}, books)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func testCreationOrder(t *testing.T, s store.BookStore) {
	ctx := t.Context()

	var want []string
	for _, title := range []string{"Emma", "Beloved", "Ulysses", "Middlemarch"} {
		b, err := s.Create(ctx, domain.NewBook{Title: title, Author: "someone"})
		require.NoError(t, err)
		want = append(want, b.Title)
	}

	books, err := s.List(ctx)
	require.NoError(t, err)
	var got []string
	for _, b := range books {
		got = append(got, b.Title)
	}
	assert.Equal(t, want, got)
}

func testGetUnknown(t *testing.T, s store.BookStore) {
	_, err := s.Get(t.Context(), "missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func testUpdateMerges(t *testing.T, s store.BookStore) {
	ctx := t.Context()

	b, err := s.Create(ctx, domain.NewBook{Title: "Dune", Author: "Herbert"})
	require.NoError(t, err)

	updated, err := s.Update(ctx, b.ID, domain.BookUpdates{Author: domain.StringPtr("Frank Herbert")})
	require.NoError(t, err)
	assert.Equal(t, domain.Book{ID: b.ID, Title: "Dune", Author: "Frank Herbert"}, updated)

	// An id in the body never moves the record.
	updated, err = s.Update(ctx, b.ID, domain.BookUpdates{ID: domain.StringPtr("other"), Title: domain.StringPtr("Dune Messiah")})
	require.NoError(t, err)
	assert.Equal(t, b.ID, updated.ID)

	got, err := s.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", got.Title)
	assert.Equal(t, "Frank Herbert", got.Author)
}

func testUpdateUnknown(t *testing.T, s store.BookStore) {
	_, err := s.Update(t.Context(), "missing", domain.BookUpdates{Title: domain.StringPtr("x")})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func testUpdateWithoutChanges(t *testing.T, s store.BookStore) {
	ctx := t.Context()

	b, err := s.Create(ctx, domain.NewBook{Title: "Dune", Author: "Herbert"})
	require.NoError(t, err)

	got, err := s.Update(ctx, b.ID, domain.BookUpdates{ID: domain.StringPtr("other")})
	require.NoError(t, err)
	assert.Equal(t, b, got)

	_, err = s.Update(ctx, "missing", domain.BookUpdates{})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func testDelete(t *testing.T, s store.BookStore) {
	ctx := t.Context()

	keep, err := s.Create(ctx, domain.NewBook{Title: "Keep", Author: "a"})
	require.NoError(t, err)
	drop, err := s.Create(ctx, domain.NewBook{Title: "Drop", Author: "b"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, drop.ID))

	books, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Book{keep}, books)
}

func testDeleteTwice(t *testing.T, s store.BookStore) {
	ctx := t.Context()

	b, err := s.Create(ctx, domain.NewBook{Title: "Once", Author: "a"})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, b.ID))
	assert.ErrorIs(t, s.Delete(ctx, b.ID), domainerrors.ErrNotFound)
}

func testReplace(t *testing.T, s store.BookStore) {
	ctx := t.Context()

	_, err := s.Create(ctx, domain.NewBook{Title: "Old", Author: "gone"})
	require.NoError(t, err)

	err = s.Replace(ctx, []domain.Book{
		{ID: "1", Title: "Dune", Author: "Frank Herbert"},
		{Title: "Emma", Author: "Jane Austen"},
	})
	require.NoError(t, err)

	books, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, domain.Book{ID: "1", Title: "Dune", Author: "Frank Herbert"}, books[0])
	assert.NotEmpty(t, books[1].ID)
	assert.Equal(t, "Emma", books[1].Title)

	// New books still land after the replaced ones.
	created, err := s.Create(ctx, domain.NewBook{Title: "Last", Author: "z"})
	require.NoError(t, err)
	books, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, created.ID, books[2].ID)

	require.NoError(t, s.Replace(ctx, nil))
	books, err = s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)
}

func testReplaceDuplicates(t *testing.T, s store.BookStore) {
	ctx := t.Context()

	b, err := s.Create(ctx, domain.NewBook{Title: "Survivor", Author: "a"})
	require.NoError(t, err)

	err = s.Replace(ctx, []domain.Book{{ID: "x", Title: "A"}, {ID: "x", Title: "B"}})
	assert.ErrorIs(t, err, domainerrors.ErrConflict)

	// A rejected replace leaves the collection alone.
	books, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Book{b}, books)
}

func testCanceledContext(t *testing.T, s store.BookStore) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := s.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.Create(ctx, domain.NewBook{Title: "t", Author: "a"})
	assert.ErrorIs(t, err, context.Canceled)
}
