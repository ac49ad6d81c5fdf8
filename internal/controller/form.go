package controller

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/listenupapp/bookshelf/internal/domain"
)

// Form is what the user typed.
type Form struct {
	Title  string `json:"title" validate:"required"`
	Author string `json:"author" validate:"required"`
}

// FormFor pre-fills a form with a record's current values.
func FormFor(b domain.Book) Form {
	return Form{Title: b.Title, Author: b.Author}
}

// Normalize trims surrounding space and composes Unicode to NFC, so
// "Pérez" typed on one keyboard matches "Pérez" typed on another.
func (f Form) Normalize() Form {
	return Form{
		Title:  norm.NFC.String(strings.TrimSpace(f.Title)),
		Author: norm.NFC.String(strings.TrimSpace(f.Author)),
	}
}

func (f Form) newBook() domain.NewBook {
	return domain.NewBook{Title: f.Title, Author: f.Author}
}

func (f Form) updates() domain.BookUpdates {
	return domain.BookUpdates{Title: domain.StringPtr(f.Title), Author: domain.StringPtr(f.Author)}
}
