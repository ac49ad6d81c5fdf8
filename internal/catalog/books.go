package catalog

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"net/http"

	"github.com/listenupapp/bookshelf/internal/domain"
)

// List fetches the full collection in server order.
// An empty collection is a non-nil, zero-length slice.
func (c *Client) List(ctx context.Context) ([]domain.Book, error) {
	body, err := c.doRequest(ctx, OpList, http.MethodGet, booksPath, nil)
	if err != nil {
		return nil, c.fail(OpList, err)
	}

	var books []domain.Book
	if err := json.Unmarshal(body, &books); err != nil {
		return nil, c.fail(OpList, &DecodeError{Op: OpList, Err: err})
	}
	for i := range books {
		if books[i].ID == "" {
			return nil, c.fail(OpList, &DecodeError{Op: OpList, Err: ErrRecordWithoutID})
		}
	}
	if books == nil {
		books = []domain.Book{}
	}
	return books, nil
}

// Create stores a new book and returns it with its server-assigned ID.
// Title and author are expected to be validated by the caller.
func (c *Client) Create(ctx context.Context, book domain.NewBook) (*domain.Book, error) {
	body, err := c.doRequest(ctx, OpCreate, http.MethodPost, booksPath, book)
	if err != nil {
		return nil, c.fail(OpCreate, err)
	}

	var created domain.Book
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, c.fail(OpCreate, &DecodeError{Op: OpCreate, Err: err})
	}
	if created.ID == "" {
		return nil, c.fail(OpCreate, &DecodeError{Op: OpCreate, Err: ErrRecordWithoutID})
	}
	return &created, nil
}

// Update applies a partial update to the book with the given ID and returns
// whatever the server echoes. A 2xx response without a body yields (nil, nil).
func (c *Client) Update(ctx context.Context, id string, updates domain.BookUpdates) (*domain.Book, error) {
	if id == "" {
		return nil, c.fail(OpUpdate, ErrMissingID)
	}

	body, err := c.doRequest(ctx, OpUpdate, http.MethodPut, bookPath(id), updates)
	if err != nil {
		return nil, c.fail(OpUpdate, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	var updated domain.Book
	if err := json.Unmarshal(body, &updated); err != nil {
		return nil, c.fail(OpUpdate, &DecodeError{Op: OpUpdate, Err: err})
	}
	if updated.ID == "" {
		updated.ID = id
	}
	return &updated, nil
}

// Delete removes the book with the given ID. Any response body is ignored.
func (c *Client) Delete(ctx context.Context, id string) error {
	if id == "" {
		return c.fail(OpDelete, ErrMissingID)
	}

	if _, err := c.doRequest(ctx, OpDelete, http.MethodDelete, bookPath(id), nil); err != nil {
		return c.fail(OpDelete, err)
	}
	return nil
}
