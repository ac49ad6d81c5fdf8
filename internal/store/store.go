package store

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/listenupapp/bookshelf/internal/domain"
	"github.com/listenupapp/bookshelf/internal/id"
)

// record is the stored form of a book.
type record struct {
	domain.Book `json:",inline"`
	Seq         uint64    `json:"seq"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Store is the Badger-backed BookStore.
type Store struct {
	db     *badger.DB
	seq    *badger.Sequence
	logger *slog.Logger
	ids    id.Generator
	now    func() time.Time
}

var _ BookStore = (*Store)(nil)

type options struct {
	inMemory bool
	ids      id.Generator
	now      func() time.Time
}

// Option configures a Store.
type Option func(*options)

// InMemory keeps the database in memory; path is ignored.
func InMemory() Option {
	return func(o *options) { o.inMemory = true }
}

// WithIDGenerator overrides the "book-" NanoID generator.
func WithIDGenerator(g id.Generator) Option {
	return func(o *options) { o.ids = g }
}

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New opens (or creates) a Badger database at path.
func New(path string, logger *slog.Logger, opts ...Option) (*Store, error) {
	o := options{ids: id.Prefixed(id.BookPrefix), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	bopts := badger.DefaultOptions(path)
	if o.inMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts.Logger = nil // Disable Badger's internal logging
	bopts.SyncWrites = !o.inMemory
	bopts.CompactL0OnClose = true

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	seq, err := db.GetSequence([]byte(seqKey), 64)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open sequence: %w", err)
	}

	logger.Info("Badger database opened", "path", path, "in_memory", o.inMemory)

	return &Store{db: db, seq: seq, logger: logger, ids: o.ids, now: o.now}, nil
}

// Close releases the sequence lease and closes the database.
func (s *Store) Close() error {
	s.logger.Info("Closing database connection")
	return errors.Join(s.seq.Release(), s.db.Close())
}

// getRecord reads and decodes a book inside txn.
func getRecord(txn *badger.Txn, bookID string) (*record, error) {
	item, err := txn.Get(bookKey(bookID))
	if err != nil {
		return nil, err
	}
	var r record
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &r)
	}); err != nil {
		return nil, fmt.Errorf("decode book %s: %w", bookID, err)
	}
	return &r, nil
}

// putRecord writes the record and its order entry inside txn.
func putRecord(txn *badger.Txn, r *record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal book: %w", err)
	}
	if err := txn.Set(bookKey(r.ID), data); err != nil {
		return err
	}
	return txn.Set(orderKey(r.Seq), []byte(r.ID))
}
