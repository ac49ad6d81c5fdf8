package response

import (
	"encoding/json/v2"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/bookshelf/internal/domain"
	domainerrors "github.com/listenupapp/bookshelf/internal/errors"
	"github.com/listenupapp/bookshelf/internal/logger"
)

func TestJSON_WritesBareResource(t *testing.T) {
	w := httptest.NewRecorder()

	books := []domain.Book{{ID: "1", Title: "Dune", Author: "Frank Herbert"}}
	Success(w, books, logger.Discard().Logger)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `[{"id":"1","title":"Dune","author":"Frank Herbert"}]`, w.Body.String())
}

func TestCreated(t *testing.T) {
	w := httptest.NewRecorder()
	Created(w, domain.Book{ID: "7", Title: "Emma", Author: "Austen"}, nil)

	assert.Equal(t, http.StatusCreated, w.Code)

	var got domain.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "7", got.ID)
}

func TestNoContent(t *testing.T) {
	w := httptest.NewRecorder()
	NoContent(w)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestNotFound(t *testing.T) {
	w := httptest.NewRecorder()
	NotFound(w, "no such route", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"code":"NOT_FOUND","message":"no such route"}`, w.Body.String())
}

func TestTooManyRequests(t *testing.T) {
	w := httptest.NewRecorder()
	TooManyRequests(w, nil)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"code":"RATE_LIMITED","message":"too many requests, slow down"}`, w.Body.String())
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "not found",
			err:        domainerrors.NotFoundf("book %s not found", "b1"),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"code":"NOT_FOUND","message":"book b1 not found"}`,
		},
		{
			name:       "validation with details",
			err:        domainerrors.ValidationWithDetails("bad", map[string]string{"title": "is required"}),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"code":"VALIDATION","message":"bad","details":{"title":"is required"}}`,
		},
		{
			name:       "wrapped internal hides cause",
			err:        domainerrors.Wrap(errors.New("disk full"), domainerrors.CodeInternal, "save book"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"code":"INTERNAL","message":"internal server error"}`,
		},
		{
			name:       "plain error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"code":"INTERNAL","message":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleError(w, tt.err, logger.Discard().Logger)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}
