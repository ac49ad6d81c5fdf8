package controller

import (
	"slices"

	"github.com/listenupapp/bookshelf/internal/domain"
)

// State reports whether a mutation is in flight.
type State int

const (
	StateIdle State = iota
	StatePending
)

func (s State) String() string {
	if s == StatePending {
		return "pending"
	}
	return "idle"
}

// Mode is what a form submission will do.
type Mode int

const (
	ModeCreate Mode = iota
	ModeUpdate
)

// Submit button labels.
const (
	LabelCreate = "Add Book"
	LabelUpdate = "Update Book"
)

// Session is the state of one editing workflow: the last fetched collection
// and the record being edited, if any. It is a value; Reduce returns a new one.
type Session struct {
	Books   []domain.Book
	Editing *domain.Book
	State   State
	// Loaded is false until the first successful fetch.
	Loaded bool
}

// Mode reports create or update depending on the edit target.
func (s Session) Mode() Mode {
	if s.Editing != nil {
		return ModeUpdate
	}
	return ModeCreate
}

// SubmitLabel is the label for the form's submit action.
func (s Session) SubmitLabel() string {
	if s.Mode() == ModeUpdate {
		return LabelUpdate
	}
	return LabelCreate
}

// Event is something that happened to a session.
type Event interface {
	apply(Session) Session
}

// BooksLoaded carries a fresh collection from the catalog.
type BooksLoaded struct{ Books []domain.Book }

// EditStarted selects a record for editing.
type EditStarted struct{ Book domain.Book }

// EditCanceled leaves edit mode.
type EditCanceled struct{}

// MutationStarted marks a create, update, or delete as in flight.
type MutationStarted struct{}

// MutationFinished marks the in-flight mutation as resolved.
type MutationFinished struct{}

// Reduce returns the session that results from e. s is not modified.
func Reduce(s Session, e Event) Session {
	return e.apply(s.clone())
}

func (s Session) clone() Session {
	s.Books = slices.Clone(s.Books)
	if s.Editing != nil {
		b := *s.Editing
		s.Editing = &b
	}
	return s
}

// The collection is replaced wholesale. An edit target that no longer
// exists is dropped; one that does picks up the fresh values.
func (e BooksLoaded) apply(s Session) Session {
	s.Books = slices.Clone(e.Books)
	if s.Books == nil {
		s.Books = []domain.Book{}
	}
	s.Loaded = true

	if s.Editing != nil {
		i := slices.IndexFunc(s.Books, func(b domain.Book) bool { return b.ID == s.Editing.ID })
		if i < 0 {
			s.Editing = nil
		} else {
			fresh := s.Books[i]
			s.Editing = &fresh
		}
	}
	return s
}

func (e EditStarted) apply(s Session) Session {
	b := e.Book
	s.Editing = &b
	return s
}

func (EditCanceled) apply(s Session) Session {
	s.Editing = nil
	return s
}

func (MutationStarted) apply(s Session) Session {
	s.State = StatePending
	return s
}

func (MutationFinished) apply(s Session) Session {
	s.State = StateIdle
	return s
}
