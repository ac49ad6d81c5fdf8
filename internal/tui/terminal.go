// Package tui is a line-oriented terminal front end for the controller.
package tui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/listenupapp/bookshelf/internal/controller"
)

// EmptyMessage is shown when the collection has no records.
const EmptyMessage = "No books found. Add one!"

// Terminal renders sessions as text and reads answers line by line.
// It implements controller.Presenter.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer

	// draft is what the form shows next: the last typed values, or the
	// edit target's values right after an edit starts.
	draft controller.Form
	eof   bool
}

var _ controller.Presenter = (*Terminal)(nil)

// NewTerminal creates a terminal over in and out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// Render prints the numbered collection and, in edit mode, the record being edited.
func (t *Terminal) Render(s controller.Session) {
	fmt.Fprintln(t.out)
	if len(s.Books) == 0 {
		fmt.Fprintln(t.out, EmptyMessage)
	} else {
		fmt.Fprintln(t.out, "Books:")
		for i, b := range s.Books {
			fmt.Fprintf(t.out, "%3d. %s by %s\n", i+1, b.Title, b.Author)
		}
	}
	if s.Editing != nil {
		fmt.Fprintf(t.out, "Editing %q. 'add' to %s, 'cancel' to stop.\n", s.Editing.Title, strings.ToLower(s.SubmitLabel()))
	}
}

// Notify prints msg and waits for Enter.
func (t *Terminal) Notify(msg string) {
	fmt.Fprintf(t.out, "! %s\n", msg)
	fmt.Fprint(t.out, "(press Enter) ")
	t.readLine()
}

// Confirm asks a yes/no question. Anything but y or yes is no.
func (t *Terminal) Confirm(prompt string) bool {
	fmt.Fprintf(t.out, "%s [y/N] ", prompt)
	answer, _ := t.readLine()
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// ResetForm clears the draft.
func (t *Terminal) ResetForm() {
	t.draft = controller.Form{}
}

// prefill loads the form with values to edit.
func (t *Terminal) prefill(f controller.Form) {
	t.draft = f
}

// readForm prompts for each field. An empty answer keeps the draft value.
func (t *Terminal) readForm(label string) (controller.Form, bool) {
	fmt.Fprintf(t.out, "-- %s --\n", label)
	title, ok := t.ask("Title", t.draft.Title)
	if !ok {
		return controller.Form{}, false
	}
	author, ok := t.ask("Author", t.draft.Author)
	if !ok {
		return controller.Form{}, false
	}
	t.draft = controller.Form{Title: title, Author: author}
	return t.draft, true
}

func (t *Terminal) ask(field, current string) (string, bool) {
	if current != "" {
		fmt.Fprintf(t.out, "%s [%s]: ", field, current)
	} else {
		fmt.Fprintf(t.out, "%s: ", field)
	}
	line, ok := t.readLine()
	if !ok {
		return "", false
	}
	if strings.TrimSpace(line) == "" {
		return current, true
	}
	return line, true
}

// readLine returns the next line without its terminator. ok is false once
// input is exhausted and nothing was read.
func (t *Terminal) readLine() (string, bool) {
	if t.eof {
		return "", false
	}
	line, err := t.in.ReadString('\n')
	if err != nil {
		t.eof = true
		if line == "" {
			return "", false
		}
	}
	return strings.TrimRight(line, "\r\n"), true
}
