package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/listenupapp/bookshelf/internal/controller"
	"github.com/listenupapp/bookshelf/internal/domain"
)

func newTestTerminal(input string) (*Terminal, *bytes.Buffer) {
	var out bytes.Buffer
	return NewTerminal(strings.NewReader(input), &out), &out
}

func TestRender_Empty(t *testing.T) {
	term, out := newTestTerminal("")

	term.Render(controller.Session{Books: []domain.Book{}})

	assert.Contains(t, out.String(), EmptyMessage)
}

func TestRender_NumberedList(t *testing.T) {
	term, out := newTestTerminal("")
	dune := domain.Book{ID: "1", Title: "Dune", Author: "Herbert"}

	term.Render(controller.Session{
		Books:   []domain.Book{dune, {ID: "2", Title: "Emma", Author: "Austen"}},
		Editing: &dune,
	})

	got := out.String()
	assert.Contains(t, got, "  1. Dune by Herbert\n")
	assert.Contains(t, got, "  2. Emma by Austen\n")
	assert.Contains(t, got, `Editing "Dune". 'add' to update book`)
	assert.NotContains(t, got, EmptyMessage)
}

func TestNotify_WaitsForEnter(t *testing.T) {
	term, out := newTestTerminal("\nnext\n")

	term.Notify("Failed to add book")

	assert.Equal(t, "! Failed to add book\n(press Enter) ", out.String())
	line, ok := term.readLine()
	assert.True(t, ok)
	assert.Equal(t, "next", line, "only one line is consumed")
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" y \r\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"sure\n", false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			term, out := newTestTerminal(tt.input)

			assert.Equal(t, tt.want, term.Confirm("Delete?"))
			assert.Equal(t, "Delete? [y/N] ", out.String())
		})
	}
}

func TestReadForm_BlankKeepsDraft(t *testing.T) {
	term, out := newTestTerminal("\nF. Herbert\n")
	term.prefill(controller.Form{Title: "Dune", Author: "Herbert"})

	f, ok := term.readForm("Update Book")

	assert.True(t, ok)
	assert.Equal(t, controller.Form{Title: "Dune", Author: "F. Herbert"}, f)
	assert.Contains(t, out.String(), "-- Update Book --\nTitle [Dune]: Author [Herbert]: ")
}

func TestReadForm_EOF(t *testing.T) {
	term, _ := newTestTerminal("Dune\n")

	_, ok := term.readForm("Add Book")

	assert.False(t, ok)
}

func TestResetForm(t *testing.T) {
	term, _ := newTestTerminal("")
	term.prefill(controller.Form{Title: "Dune", Author: "Herbert"})

	term.ResetForm()

	assert.Equal(t, controller.Form{}, term.draft)
}

func TestReadLine_LastLineWithoutNewline(t *testing.T) {
	term, _ := newTestTerminal("quit")

	line, ok := term.readLine()
	assert.True(t, ok)
	assert.Equal(t, "quit", line)

	_, ok = term.readLine()
	assert.False(t, ok)
}
