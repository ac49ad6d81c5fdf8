package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/listenupapp/bookshelf/internal/controller"
	"github.com/listenupapp/bookshelf/internal/domain"
)

// Controller is the part of *controller.Controller the command loop drives.
type Controller interface {
	Load(ctx context.Context) error
	Submit(ctx context.Context, f controller.Form) error
	StartEdit(b domain.Book)
	CancelEdit()
	Delete(ctx context.Context, id string) error
	Session() controller.Session
}

const helpText = `Commands:
  list          reload the collection
  add           fill in the form (updates the record when editing)
  edit N        edit book N
  cancel        stop editing
  delete N      delete book N
  help          show this help
  quit          exit`

// Run reads commands until quit, end of input, or ctx is done.
// Failures have already been shown to the user by the controller, so they
// are only logged here.
func (t *Terminal) Run(ctx context.Context, c Controller, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	t.report(logger, "load", c.Load(ctx))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(t.out, "> ")
		line, ok := t.readLine()
		if !ok {
			fmt.Fprintln(t.out)
			return nil
		}

		cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
		arg = strings.TrimSpace(arg)

		switch strings.ToLower(cmd) {
		case "":
		case "list", "ls":
			t.report(logger, "load", c.Load(ctx))
		case "add", "submit":
			t.submit(ctx, c, logger)
		case "edit":
			b, ok := t.pick(c, arg)
			if !ok {
				continue
			}
			c.StartEdit(b)
			t.prefill(controller.FormFor(b))
			t.submit(ctx, c, logger)
		case "cancel":
			c.CancelEdit()
		case "delete", "rm":
			b, ok := t.pick(c, arg)
			if !ok {
				continue
			}
			t.report(logger, "delete", c.Delete(ctx, b.ID))
		case "help", "?":
			fmt.Fprintln(t.out, helpText)
		case "quit", "exit", "q":
			return nil
		default:
			fmt.Fprintf(t.out, "unknown command %q, try 'help'\n", cmd)
		}
	}
}

func (t *Terminal) submit(ctx context.Context, c Controller, logger *slog.Logger) {
	f, ok := t.readForm(c.Session().SubmitLabel())
	if !ok {
		return
	}
	t.report(logger, "submit", c.Submit(ctx, f))
}

// pick resolves a 1-based list position to a book.
func (t *Terminal) pick(c Controller, arg string) (domain.Book, bool) {
	books := c.Session().Books
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(books) {
		fmt.Fprintf(t.out, "no book %q (1-%d)\n", arg, len(books))
		return domain.Book{}, false
	}
	return books[n-1], true
}

func (t *Terminal) report(logger *slog.Logger, op string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, controller.ErrBusy):
		fmt.Fprintln(t.out, "still working on the last change")
	default:
		logger.Debug("command failed", "op", op, "error", err)
	}
}
