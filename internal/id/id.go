// Package id generates record identifiers.
package id

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// BookPrefix prefixes every book id.
const BookPrefix = "book"

// alphabet leaves out '-' and '_' so ids survive copy and paste from a terminal
// and never need escaping in a URL path.
const (
	alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	size     = 12
)

// Generator produces unique ids. Stores take one so tests can pin ids.
type Generator interface {
	NewID() (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func() (string, error)

// NewID calls f.
func (f GeneratorFunc) NewID() (string, error) { return f() }

// Prefixed returns a Generator of ids shaped "prefix-xxxxxxxxxxxx".
func Prefixed(prefix string) Generator {
	return GeneratorFunc(func() (string, error) { return Generate(prefix) })
}

// Generate creates a prefixed NanoID, e.g. "book-V1StGXR8Z5jd".
// Fails only when the system is out of entropy.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.Generate(alphabet, size)
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}

// MustGenerate is like Generate but panics if ID generation fails.
func MustGenerate(prefix string) string {
	id, err := Generate(prefix)
	if err != nil {
		panic(fmt.Sprintf("failed to generate ID: %v", err))
	}
	return id
}
