package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/bookshelf/internal/domain"
)

var (
	dune = domain.Book{ID: "1", Title: "Dune", Author: "Herbert"}
	emma = domain.Book{ID: "2", Title: "Emma", Author: "Austen"}
)

func TestReduce_BooksLoaded(t *testing.T) {
	s := Reduce(Session{}, BooksLoaded{Books: []domain.Book{dune, emma}})

	assert.True(t, s.Loaded)
	assert.Equal(t, []domain.Book{dune, emma}, s.Books)
	assert.Equal(t, ModeCreate, s.Mode())
}

func TestReduce_BooksLoadedNilIsEmpty(t *testing.T) {
	s := Reduce(Session{}, BooksLoaded{})

	require.NotNil(t, s.Books)
	assert.Empty(t, s.Books)
}

func TestReduce_BooksLoadedRefreshesEditTarget(t *testing.T) {
	s := Reduce(Session{}, EditStarted{Book: dune})

	renamed := dune
	renamed.Author = "F. Herbert"
	s = Reduce(s, BooksLoaded{Books: []domain.Book{renamed, emma}})

	require.NotNil(t, s.Editing)
	assert.Equal(t, renamed, *s.Editing)
}

func TestReduce_BooksLoadedDropsVanishedEditTarget(t *testing.T) {
	s := Reduce(Session{}, EditStarted{Book: dune})
	s = Reduce(s, BooksLoaded{Books: []domain.Book{emma}})

	assert.Nil(t, s.Editing)
	assert.Equal(t, ModeCreate, s.Mode())
}

func TestReduce_EditModeAndLabels(t *testing.T) {
	s := Session{}
	assert.Equal(t, LabelCreate, s.SubmitLabel())

	s = Reduce(s, EditStarted{Book: dune})
	assert.Equal(t, ModeUpdate, s.Mode())
	assert.Equal(t, "Update Book", s.SubmitLabel())

	s = Reduce(s, EditCanceled{})
	assert.Equal(t, ModeCreate, s.Mode())
	assert.Equal(t, "Add Book", s.SubmitLabel())
}

func TestReduce_MutationState(t *testing.T) {
	s := Reduce(Session{}, MutationStarted{})
	assert.Equal(t, StatePending, s.State)
	assert.Equal(t, "pending", s.State.String())

	s = Reduce(s, MutationFinished{})
	assert.Equal(t, StateIdle, s.State)
	assert.Equal(t, "idle", s.State.String())
}

func TestReduce_DoesNotModifyInput(t *testing.T) {
	before := Reduce(Session{}, BooksLoaded{Books: []domain.Book{dune}})
	before = Reduce(before, EditStarted{Book: dune})

	after := Reduce(before, BooksLoaded{Books: []domain.Book{emma}})
	after.Books[0].Title = "changed"

	assert.Equal(t, []domain.Book{dune}, before.Books)
	require.NotNil(t, before.Editing)
	assert.Equal(t, dune, *before.Editing)
}

func TestForm_Normalize(t *testing.T) {
	// Decomposed "e" + combining acute composes to a single rune.
	f := Form{Title: "  Pe\u0301rez \n", Author: "\tHerbert "}.Normalize()

	assert.Equal(t, "P\u00e9rez", f.Title)
	assert.Equal(t, "Herbert", f.Author)
}

func TestFormFor(t *testing.T) {
	assert.Equal(t, Form{Title: "Dune", Author: "Herbert"}, FormFor(dune))
}
