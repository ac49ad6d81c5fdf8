package api

import (
	"context"
	"encoding/json/v2"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/bookshelf/internal/domain"
	"github.com/listenupapp/bookshelf/internal/store"
)

type testServer struct {
	*Server
	api   humatest.TestAPI
	store *store.Store
}

func setupTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()

	st, err := store.New("", nil, store.InMemory())
	require.NoError(t, err)

	s := NewServer(st, opts, nil)
	t.Cleanup(func() {
		s.Close()
		_ = st.Close()
	})

	return &testServer{Server: s, api: humatest.Wrap(t, s.API()), store: st}
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func TestListBooks_EmptyIsArray(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/books")

	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `[]`, resp.Body.String())
}

func TestCreateBook(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Post("/books", map[string]any{"title": "Dune", "author": "Frank Herbert"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	created := decode[domain.Book](t, resp)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Dune", created.Title)
	assert.NotContains(t, resp.Body.String(), "$schema")

	list := decode[[]domain.Book](t, ts.api.Get("/books"))
	assert.Equal(t, []domain.Book{created}, list)
}

func TestCreateBook_Invalid(t *testing.T) {
	ts := setupTestServer(t, Options{})

	tests := []struct {
		name       string
		body       map[string]any
		wantStatus int
	}{
		{"missing author", map[string]any{"title": "Dune"}, http.StatusUnprocessableEntity},
		{"empty title", map[string]any{"title": "", "author": "Herbert"}, http.StatusUnprocessableEntity},
		{"blank title", map[string]any{"title": "   ", "author": "Herbert"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/books", tt.body)
			require.Equal(t, tt.wantStatus, resp.Code, resp.Body.String())

			body := decode[APIError](t, resp)
			assert.Equal(t, "VALIDATION", body.Code)
		})
	}

	list := decode[[]domain.Book](t, ts.api.Get("/books"))
	assert.Empty(t, list, "nothing is stored on a rejected create")
}

func TestGetBook(t *testing.T) {
	ts := setupTestServer(t, Options{})
	created, err := ts.store.Create(t.Context(), domain.NewBook{Title: "Emma", Author: "Jane Austen"})
	require.NoError(t, err)

	resp := ts.api.Get("/books/" + created.ID)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, created, decode[domain.Book](t, resp))

	resp = ts.api.Get("/books/missing")
	require.Equal(t, http.StatusNotFound, resp.Code)
	body := decode[APIError](t, resp)
	assert.Equal(t, "NOT_FOUND", body.Code)
	assert.Equal(t, "book missing not found", body.Message)
}

func TestUpdateBook_MergesPartialFields(t *testing.T) {
	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		t.Run(method, func(t *testing.T) {
			ts := setupTestServer(t, Options{})
			created, err := ts.store.Create(t.Context(), domain.NewBook{Title: "Dune", Author: "Herbert"})
			require.NoError(t, err)

			resp := ts.api.Do(method, "/books/"+created.ID, map[string]any{"author": "Frank Herbert"})
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

			assert.Equal(t, domain.Book{ID: created.ID, Title: "Dune", Author: "Frank Herbert"}, decode[domain.Book](t, resp))
		})
	}
}

func TestUpdateBook_BodyIDIgnored(t *testing.T) {
	ts := setupTestServer(t, Options{})
	created, err := ts.store.Create(t.Context(), domain.NewBook{Title: "Dune", Author: "Herbert"})
	require.NoError(t, err)

	resp := ts.api.Put("/books/"+created.ID, map[string]any{"id": "hijack", "title": "Dune Messiah"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	got := decode[domain.Book](t, resp)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Dune Messiah", got.Title)
}

func TestUpdateBook_EmptyBodyReturnsCurrent(t *testing.T) {
	ts := setupTestServer(t, Options{})
	created, err := ts.store.Create(t.Context(), domain.NewBook{Title: "Dune", Author: "Herbert"})
	require.NoError(t, err)

	resp := ts.api.Patch("/books/"+created.ID, map[string]any{})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, created, decode[domain.Book](t, resp))

	resp = ts.api.Patch("/books/missing", map[string]any{})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestUpdateBook_Unknown(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Put("/books/missing", map[string]any{"title": "x"})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeleteBook(t *testing.T) {
	ts := setupTestServer(t, Options{})
	created, err := ts.store.Create(t.Context(), domain.NewBook{Title: "Dune", Author: "Herbert"})
	require.NoError(t, err)

	resp := ts.api.Delete("/books/" + created.ID)
	require.Equal(t, http.StatusNoContent, resp.Code)
	assert.Empty(t, resp.Body.String())

	resp = ts.api.Delete("/books/" + created.ID)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	body := decode[HealthResponse](t, resp)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "healthy", body.Components["store"].Status)
}

type brokenStore struct{ store.BookStore }

func (brokenStore) List(context.Context) ([]domain.Book, error) {
	return nil, errors.New("disk on fire")
}

func (brokenStore) Close() error { return nil }

func TestStoreFailureIsOpaque(t *testing.T) {
	s := NewServer(brokenStore{}, Options{}, nil)
	defer s.Close()

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/books", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "disk on fire")
	assert.Contains(t, rec.Body.String(), `"INTERNAL"`)

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	ts := setupTestServer(t, Options{})

	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/authors", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"NOT_FOUND"`)
}

func TestRequestIDEchoed(t *testing.T) {
	ts := setupTestServer(t, Options{})

	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	req.Header.Set("X-Request-Id", "req-123")
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get("X-Request-Id"))
}

func TestCORSPreflight(t *testing.T) {
	ts := setupTestServer(t, Options{CORSOrigins: []string{"http://localhost:5173"}})

	req := httptest.NewRequest(http.MethodOptions, "/books", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.True(t, strings.Contains(rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost))
}

func TestRateLimit(t *testing.T) {
	ts := setupTestServer(t, Options{RateLimitRPS: 0.001, RateLimitBurst: 2})

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/books", nil)
		req.RemoteAddr = "192.0.2.10:5555"
		rec := httptest.NewRecorder()
		ts.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// Another client is unaffected.
	req := httptest.NewRequest(http.MethodGet, "/books", nil)
	req.RemoteAddr = "192.0.2.11:5555"
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "[2001:db8::1]:443"
	assert.Equal(t, "2001:db8::1", clientIP(req))

	req.RemoteAddr = "203.0.113.9"
	assert.Equal(t, "203.0.113.9", clientIP(req))
}
