// Package board keeps a live, per-user mirror of columns, tasks and
// comments and routes every mutation through the realtime store.
//
// Writes are optimistic: a mutation is visible in the mirror as soon as it
// is issued and is rolled back if the store rejects it. Remote snapshots
// replace a collection wholesale and pending writes are replayed on top.
package board

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/thenoetrevino/listboard/internal/models"
	"github.com/thenoetrevino/listboard/internal/notify"
	"github.com/thenoetrevino/listboard/internal/realtime"
	"github.com/thenoetrevino/listboard/internal/reorder"
	"github.com/thenoetrevino/listboard/internal/types"
)

// Store is one user's board. It is safe for concurrent use.
type Store struct {
	uid      types.UserID
	db       realtime.Store
	notifier notify.Notifier
	logger   *slog.Logger

	mu        sync.Mutex
	base      mirror
	pending   []patch
	seq       uint64
	columns   []models.Column
	tasks     []models.Task
	comments  []models.Comment
	drag      reorder.Drag
	listeners map[int]func()
	nextID    int
}

// Option configures a Store
type Option func(*Store)

// WithNotifier routes warnings and write failures to n
func WithNotifier(n notify.Notifier) Option {
	return func(s *Store) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithLogger sets the store logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type discard struct{}

func (discard) Show(notify.Severity, string) {}

// New creates an empty board for uid. Call Bootstrap to load it.
func New(db realtime.Store, uid types.UserID, opts ...Option) *Store {
	s := &Store{
		uid:       uid,
		db:        db,
		notifier:  discard{},
		logger:    slog.Default(),
		base:      make(mirror),
		listeners: make(map[int]func()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UserID returns the board owner
func (s *Store) UserID() types.UserID {
	return s.uid
}

// ============================================================================
// READS
// ============================================================================

// Columns returns the columns sorted by order
func (s *Store) Columns() []models.Column {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boardLocked().SortedColumns()
}

// Tasks returns a column's tasks sorted by order
func (s *Store) Tasks(columnID types.ColumnID) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boardLocked().TasksIn(columnID)
}

// TaskCount returns the number of tasks across all columns
func (s *Store) TaskCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Column looks up a column
func (s *Store) Column(id types.ColumnID) (models.Column, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boardLocked().Column(id)
}

// Task looks up a task
func (s *Store) Task(id types.TaskID) (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boardLocked().Task(id)
}

// Comments returns a task's comments oldest first
func (s *Store) Comments(taskID types.TaskID) []models.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Comment
	for _, c := range s.comments {
		if c.TaskID == taskID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Snapshot returns a copy of the current columns and tasks
func (s *Store) Snapshot() reorder.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.boardLocked()
	return reorder.Board{Columns: b.SortedColumns(), Tasks: append([]models.Task(nil), b.Tasks...)}
}

// boardLocked shares the view slices; callers must not mutate them
func (s *Store) boardLocked() reorder.Board {
	return reorder.Board{Columns: s.columns, Tasks: s.tasks}
}

// ============================================================================
// CHANGE LISTENERS
// ============================================================================

// OnChange registers fn to run after every change to the mirror. fn runs
// without the store lock held, so it may read the store.
func (s *Store) OnChange(fn func()) (unregister func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) emit() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// ============================================================================
// SYNC
// ============================================================================

// ApplyRemoteSnapshot replaces one collection with the store's view of it.
// Pending optimistic writes are replayed on top. No validation is done.
func (s *Store) ApplyRemoteSnapshot(c realtime.Collection, snap realtime.Snapshot) {
	recs := make(records, len(snap.Records))
	for k, v := range snap.Records {
		recs[k] = v
	}

	s.mu.Lock()
	s.base[c] = recs
	s.rebuildLocked()
	s.mu.Unlock()

	s.emit()
}

// Bootstrap seeds the default columns for a new user and loads every
// collection.
func (s *Store) Bootstrap(ctx context.Context) error {
	snap, err := s.db.Get(ctx, realtime.CollectionPath(s.uid, realtime.Columns))
	if err != nil {
		return fmt.Errorf("failed to load columns: %w", err)
	}

	if !snap.Exists() {
		updates := make(realtime.Updates, len(models.DefaultColumnTitles))
		for i, title := range models.DefaultColumnTitles {
			key := s.db.NewKey()
			updates[realtime.RecordPath(s.uid, realtime.Columns, key)] = models.Column{
				ID:        types.ColumnID(key),
				Title:     title,
				IsDefault: true,
				Order:     i,
			}
		}
		if err := s.db.Update(ctx, updates); err != nil {
			return fmt.Errorf("failed to seed default columns: %w", err)
		}
		s.logger.Info("seeded default columns", "user_id", s.uid)
	}

	for _, c := range realtime.Collections {
		snap, err := s.db.Get(ctx, realtime.CollectionPath(s.uid, c))
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", c, err)
		}
		s.ApplyRemoteSnapshot(c, snap)
	}
	return nil
}

// Subscribe keeps the mirror in sync with the store until the returned
// function is called or ctx ends.
func (s *Store) Subscribe(ctx context.Context) (realtime.Unsubscribe, error) {
	var unsubs []realtime.Unsubscribe
	stop := func() {
		for _, u := range unsubs {
			u()
		}
	}

	for _, c := range realtime.Collections {
		c := c
		u, err := s.db.Subscribe(ctx, realtime.CollectionPath(s.uid, c), func(snap realtime.Snapshot) {
			s.ApplyRemoteSnapshot(c, snap)
		})
		if err != nil {
			stop()
			return nil, fmt.Errorf("failed to subscribe to %s: %w", c, err)
		}
		unsubs = append(unsubs, u)
	}

	var once sync.Once
	return func() { once.Do(stop) }, nil
}

// ============================================================================
// OPTIMISTIC WRITES
// ============================================================================

// commit shows updates in the mirror at once, then writes them. A failed
// write is rolled back, reported through the notifier and returned.
func (s *Store) commit(ctx context.Context, updates realtime.Updates) error {
	return s.commitWith(ctx, func() (realtime.Updates, error) { return updates, nil })
}

// commitWith runs build and stages its updates under one lock hold, so the
// checks build makes against the view still hold when the patch lands.
// build must not call other Store methods.
func (s *Store) commitWith(ctx context.Context, build func() (realtime.Updates, error)) error {
	s.mu.Lock()
	updates, err := build()
	if err != nil || len(updates) == 0 {
		s.mu.Unlock()
		var r *rejection
		if errors.As(err, &r) {
			return s.warn(r.msg, r.err)
		}
		return err
	}
	ops, err := encode(updates)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to encode changes: %w", err)
	}

	s.seq++
	p := patch{seq: s.seq, ops: ops}
	s.pending = append(s.pending, p)
	s.rebuildLocked()
	s.mu.Unlock()
	s.emit()

	writeErr := s.db.Update(ctx, updates)

	s.mu.Lock()
	for i := range s.pending {
		if s.pending[i].seq == p.seq {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			break
		}
	}
	if writeErr == nil {
		s.base.apply(s.uid, p.ops)
	}
	s.rebuildLocked()
	s.mu.Unlock()
	s.emit()

	if writeErr != nil {
		s.logger.Error("write rejected, rolled back", "user_id", s.uid, "error", writeErr)
		s.notifier.Show(notify.Error, MsgSaveFailed)
		return fmt.Errorf("failed to save changes: %w", writeErr)
	}
	return nil
}

// rejection is a validation failure found while building a commit. The
// warning is shown once the lock is released.
type rejection struct {
	msg string
	err error
}

func (r *rejection) Error() string { return r.err.Error() }
func (r *rejection) Unwrap() error { return r.err }

// rebuildLocked recomputes the typed view as base plus pending patches
func (s *Store) rebuildLocked() {
	view := s.base.clone()
	for _, p := range s.pending {
		view.apply(s.uid, p.ops)
	}

	s.columns = decodeRecords[models.Column](s.logger, realtime.Columns, view[realtime.Columns])
	s.tasks = decodeRecords[models.Task](s.logger, realtime.Tasks, view[realtime.Tasks])
	s.comments = decodeRecords[models.Comment](s.logger, realtime.Comments, view[realtime.Comments])
}

// decodeRecords decodes in key order, skipping records that do not parse
func decodeRecords[T any](logger *slog.Logger, c realtime.Collection, recs records) []T {
	keys := make([]string, 0, len(recs))
	for k := range recs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]T, 0, len(keys))
	for _, k := range keys {
		var v T
		if err := json.Unmarshal(recs[k], &v); err != nil {
			logger.Warn("skipping malformed record", "collection", c, "key", k, "error", err)
			continue
		}
		out = append(out, v)
	}
	return out
}

// warn reports rejected input and returns err unchanged
func (s *Store) warn(msg string, err error) error {
	s.notifier.Show(notify.Warning, msg)
	return err
}
