package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/bookshelf/internal/domain"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/books",
		Summary:     "List books",
		Description: "Returns the whole collection in creation order",
		Tags:        []string{"Books"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createBook",
		Method:        http.MethodPost,
		Path:          "/books",
		Summary:       "Create book",
		Description:   "Adds a book and returns it with its assigned id",
		Tags:          []string{"Books"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/books/{id}",
		Summary:     "Get book",
		Tags:        []string{"Books"},
	}, s.handleGetBook)

	// PUT merges like PATCH: fields left out of the body are kept.
	for _, op := range []struct{ id, method string }{
		{"updateBook", http.MethodPut},
		{"patchBook", http.MethodPatch},
	} {
		huma.Register(s.api, huma.Operation{
			OperationID: op.id,
			Method:      op.method,
			Path:        "/books/{id}",
			Summary:     "Update book",
			Description: "Merges the given fields into the book and returns the result",
			Tags:        []string{"Books"},
		}, s.handleUpdateBook)
	}

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteBook",
		Method:        http.MethodDelete,
		Path:          "/books/{id}",
		Summary:       "Delete book",
		Tags:          []string{"Books"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteBook)
}

// === DTOs ===

// BookListOutput is a bare JSON array of books.
type BookListOutput struct {
	Body []domain.Book
}

// BookOutput is a single book.
type BookOutput struct {
	Body domain.Book
}

// CreateBookRequest is the request body for creating a book.
type CreateBookRequest struct {
	Title  string `json:"title" minLength:"1" maxLength:"500" validate:"required,notblank,max=500" doc:"Book title"`
	Author string `json:"author" minLength:"1" maxLength:"500" validate:"required,notblank,max=500" doc:"Author name"`
}

// CreateBookInput wraps the create request for Huma.
type CreateBookInput struct {
	Body CreateBookRequest
}

// BookIDInput identifies a book by path.
type BookIDInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// UpdateBookRequest is a partial book. An id in the body is accepted and ignored.
type UpdateBookRequest struct {
	ID     *string `json:"id,omitempty" required:"false" doc:"Ignored; the path id wins"`
	Title  *string `json:"title,omitempty" required:"false" maxLength:"500" validate:"omitempty,notblank,max=500" doc:"Book title"`
	Author *string `json:"author,omitempty" required:"false" maxLength:"500" validate:"omitempty,notblank,max=500" doc:"Author name"`
}

// UpdateBookInput wraps the update request for Huma.
type UpdateBookInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body UpdateBookRequest
}

// === Handlers ===

func (s *Server) handleListBooks(ctx context.Context, _ *struct{}) (*BookListOutput, error) {
	books, err := s.store.List(ctx)
	if err != nil {
		return nil, s.toAPIError(err)
	}
	return &BookListOutput{Body: books}, nil
}

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, s.toAPIError(err)
	}

	book, err := s.store.Create(ctx, domain.NewBook{
		Title:  input.Body.Title,
		Author: input.Body.Author,
	})
	if err != nil {
		return nil, s.toAPIError(err)
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *BookIDInput) (*BookOutput, error) {
	book, err := s.store.Get(ctx, input.ID)
	if err != nil {
		return nil, s.toAPIError(err)
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, s.toAPIError(err)
	}

	book, err := s.store.Update(ctx, input.ID, domain.BookUpdates{
		Title:  input.Body.Title,
		Author: input.Body.Author,
	})
	if err != nil {
		return nil, s.toAPIError(err)
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *BookIDInput) (*struct{}, error) {
	if err := s.store.Delete(ctx, input.ID); err != nil {
		return nil, s.toAPIError(err)
	}
	return nil, nil
}
