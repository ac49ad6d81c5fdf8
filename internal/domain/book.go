// Package domain contains the book record model shared by the catalog client and the collection server.
package domain

// Book is a single record in the catalog.
// ID is assigned by the server and never changes once created.
type Book struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// NewBook is a book that has not been stored yet. The server assigns the ID.
type NewBook struct {
	Title  string `json:"title" validate:"required"`
	Author string `json:"author" validate:"required"`
}

// BookUpdates is a partial book. Only non-nil fields are sent and applied;
// absent fields keep their stored value.
// omitzero keeps a pointer to "" on the wire so a field can be cleared explicitly.
type BookUpdates struct {
	ID     *string `json:"id,omitzero"`
	Title  *string `json:"title,omitzero"`
	Author *string `json:"author,omitzero"`
}

// Empty reports whether the update carries no field changes.
// ID alone does not count as a change.
func (u BookUpdates) Empty() bool {
	return u.Title == nil && u.Author == nil
}

// Apply returns a copy of b with the non-nil fields of u applied.
// The ID is never changed by an update.
func (b Book) Apply(u BookUpdates) Book {
	if u.Title != nil {
		b.Title = *u.Title
	}
	if u.Author != nil {
		b.Author = *u.Author
	}
	return b
}

// Book converts a NewBook into a Book with the given server-assigned ID.
func (n NewBook) Book(id string) Book {
	return Book{ID: id, Title: n.Title, Author: n.Author}
}

// StringPtr returns a pointer to s. Handy when building BookUpdates.
func StringPtr(s string) *string {
	return &s
}
