// Package controller drives the book-editing workflow. Every mutation is sent
// to the catalog and then the whole collection is fetched again, so the view
// only ever shows what the server has.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/listenupapp/bookshelf/internal/domain"
	"github.com/listenupapp/bookshelf/internal/validation"
)

// Messages shown to the user.
const (
	MsgFetchFailed   = "Error fetching books. Is the catalog server running?"
	MsgInvalidForm   = "Title and author are required"
	MsgAddFailed     = "Failed to add book"
	MsgUpdateFailed  = "Failed to update book"
	MsgDeleteFailed  = "Failed to delete book"
	MsgConfirmDelete = "Are you sure you want to delete this book?"
)

// ErrBusy is returned when a mutation is requested while another is still in flight.
var ErrBusy = errors.New("controller: another change is still in progress")

// BookService is the remote collection. *catalog.Client satisfies it.
type BookService interface {
	List(ctx context.Context) ([]domain.Book, error)
	Create(ctx context.Context, book domain.NewBook) (*domain.Book, error)
	Update(ctx context.Context, id string, updates domain.BookUpdates) (*domain.Book, error)
	Delete(ctx context.Context, id string) error
}

// Presenter is the view. Notify and Confirm block until the user answers.
type Presenter interface {
	Render(Session)
	Notify(msg string)
	Confirm(prompt string) bool
	ResetForm()
}

// Controller owns a Session and applies user intents to it.
type Controller struct {
	books     BookService
	view      Presenter
	logger    *slog.Logger
	validator *validation.Validator

	loads singleflight.Group

	mu      sync.Mutex
	session Session
	// generation advances after every successful mutation. A fetch that
	// started in an earlier generation may predate the change and is dropped.
	generation uint64
}

// New creates a controller. Call Load to populate the initial view.
func New(books BookService, view Presenter, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{
		books:     books,
		view:      view,
		logger:    logger.With("component", "controller"),
		validator: validation.New(),
		session:   Session{Books: []domain.Book{}},
	}
}

// Session returns a copy of the current session.
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.clone()
}

// Load fetches the collection and re-renders. Concurrent calls share one
// request and one notification. On failure the previous collection stays on screen.
func (c *Controller) Load(ctx context.Context) error {
	_, err, _ := c.loads.Do("books", func() (any, error) {
		return nil, c.fetch(ctx)
	})
	return err
}

// fetch issues one List and applies the result unless a mutation has
// succeeded since the request went out.
func (c *Controller) fetch(ctx context.Context) error {
	gen := c.currentGeneration()

	books, err := c.books.List(ctx)
	if err != nil {
		c.logger.Warn("fetch books failed", "error", err)
		c.view.Notify(MsgFetchFailed)
		return err
	}

	s, ok := c.dispatchIfCurrent(gen, BooksLoaded{Books: books})
	if !ok {
		c.logger.Debug("dropping collection fetched before the last change")
		return nil
	}
	c.render(s)
	return nil
}

// StartEdit makes b the edit target. The next Submit updates it.
func (c *Controller) StartEdit(b domain.Book) {
	c.render(c.dispatch(EditStarted{Book: b}))
}

// CancelEdit leaves edit mode and clears the form. The collection is untouched.
func (c *Controller) CancelEdit() {
	s := c.dispatch(EditCanceled{})
	c.view.ResetForm()
	c.render(s)
}

// Submit creates a book, or updates the edit target when there is one.
// The form is trimmed before validation; nothing is sent if a field is blank.
func (c *Controller) Submit(ctx context.Context, f Form) error {
	f = f.Normalize()
	if err := c.validator.Validate(f); err != nil {
		c.view.Notify(MsgInvalidForm)
		return err
	}

	s, err := c.begin()
	if err != nil {
		return err
	}
	defer c.finish()

	if s.Editing == nil {
		if _, err := c.books.Create(ctx, f.newBook()); err != nil {
			c.logger.Warn("add book failed", "error", err)
			c.view.Notify(MsgAddFailed)
			return err
		}
		c.logger.Debug("book added", "title", f.Title)
	} else {
		id := s.Editing.ID
		if _, err := c.books.Update(ctx, id, f.updates()); err != nil {
			c.logger.Warn("update book failed", "id", id, "error", err)
			c.view.Notify(MsgUpdateFailed)
			return err
		}
		c.logger.Debug("book updated", "id", id)
	}

	c.dispatch(EditCanceled{})
	c.view.ResetForm()
	return c.refresh(ctx)
}

// Delete removes a book after the user confirms. Declining is not an error.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if c.Session().State == StatePending {
		return ErrBusy
	}
	if !c.view.Confirm(MsgConfirmDelete) {
		return nil
	}

	if _, err := c.begin(); err != nil {
		return err
	}
	defer c.finish()

	if err := c.books.Delete(ctx, id); err != nil {
		c.logger.Warn("delete book failed", "id", id, "error", err)
		c.view.Notify(MsgDeleteFailed)
		return err
	}
	c.logger.Debug("book deleted", "id", id)

	return c.refresh(ctx)
}

// refresh re-fetches after a successful mutation. It always sends its own
// List, never joining a Load that may have started before the change. The
// mutation stays pending until the new collection is in.
func (c *Controller) refresh(ctx context.Context) error {
	c.mu.Lock()
	c.generation++
	c.mu.Unlock()

	if err := c.fetch(ctx); err != nil {
		return fmt.Errorf("refresh after change: %w", err)
	}
	return nil
}

func (c *Controller) begin() (Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.State == StatePending {
		return Session{}, ErrBusy
	}
	c.session = Reduce(c.session, MutationStarted{})
	return c.session.clone(), nil
}

func (c *Controller) finish() {
	c.dispatch(MutationFinished{})
}

func (c *Controller) dispatch(e Event) Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = Reduce(c.session, e)
	return c.session.clone()
}

func (c *Controller) currentGeneration() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

func (c *Controller) dispatchIfCurrent(gen uint64, e Event) (Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return Session{}, false
	}
	c.session = Reduce(c.session, e)
	return c.session.clone(), true
}

func (c *Controller) render(s Session) {
	c.view.Render(s)
}
