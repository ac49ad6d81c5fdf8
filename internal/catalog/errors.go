package catalog

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for catalog operations.
var (
	// ErrMissingID is returned when Update or Delete is called without a book ID.
	// No request is issued.
	ErrMissingID = errors.New("catalog: book id is required")

	// ErrRecordWithoutID is wrapped in a DecodeError when the server returns a
	// record that has no id.
	ErrRecordWithoutID = errors.New("catalog: record without id")
)

// Op names a catalog operation.
type Op string

// Catalog operations.
const (
	OpList   Op = "list"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// NetworkError means no response was received: DNS, connection refused,
// timeouts, canceled contexts and truncated bodies all end up here.
type NetworkError struct {
	Op  Op
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("catalog %s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// FetchError means the server answered with a non-2xx status.
type FetchError struct {
	Op         Op
	StatusCode int
	Status     string // Status text without the code, e.g. "Not Found"
}

// Error names the status text for deletes and the numeric code otherwise.
func (e *FetchError) Error() string {
	if e.Op == OpDelete {
		return fmt.Sprintf("catalog %s: failed to delete book: %s", e.Op, e.Status)
	}
	return fmt.Sprintf("catalog %s: failed to %s books: %d", e.Op, verb(e.Op), e.StatusCode)
}

// NotFound reports whether the server answered 404.
func (e *FetchError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// DecodeError means the response body was not the expected JSON shape.
type DecodeError struct {
	Op  Op
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("catalog %s: decode response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a FetchError carrying a 404.
func IsNotFound(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.NotFound()
}

func verb(op Op) string {
	switch op {
	case OpList:
		return "fetch"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	default:
		return string(op)
	}
}
