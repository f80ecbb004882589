package realtime

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/thenoetrevino/listboard/internal/database"
	"github.com/thenoetrevino/listboard/internal/events"
)

// publishTimeout bounds the background announcement of one commit
const publishTimeout = 2 * time.Second

// SQLiteStore keeps records as JSON documents in the local database.
// Subscribers in this process are notified after each commit, and other
// processes hear about it through the event daemon when a publisher is set.
type SQLiteStore struct {
	db        *sql.DB
	hub       *hub
	publisher events.EventPublisher
	logger    *slog.Logger
	ownsDB    bool
	closeOnce sync.Once
}

// SQLiteOption configures a SQLiteStore
type SQLiteOption func(*SQLiteStore)

// WithPublisher announces committed changes to other processes
func WithPublisher(p events.EventPublisher) SQLiteOption {
	return func(s *SQLiteStore) {
		s.publisher = p
	}
}

// WithLogger sets the store logger
func WithLogger(logger *slog.Logger) SQLiteOption {
	return func(s *SQLiteStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOwnedDB makes Close also close the database handle
func WithOwnedDB() SQLiteOption {
	return func(s *SQLiteStore) {
		s.ownsDB = true
	}
}

// NewSQLiteStore wraps an initialized database (see database.InitDB)
func NewSQLiteStore(db *sql.DB, opts ...SQLiteOption) *SQLiteStore {
	s := &SQLiteStore{
		db:     db,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hub = newHub(s.Get, s.logger)
	return s
}

// Get reads a collection, a record or a single field
func (s *SQLiteStore) Get(ctx context.Context, p Path) (Snapshot, error) {
	if err := p.Validate(); err != nil {
		return Snapshot{}, err
	}

	var (
		rows *sql.Rows
		err  error
	)
	switch p.Level() {
	case LevelCollection:
		rows, err = s.db.QueryContext(ctx,
			`SELECT id, data FROM records WHERE user_id = ? AND collection = ?`,
			string(p.UserID), string(p.Collection))
	case LevelRecord:
		rows, err = s.db.QueryContext(ctx,
			`SELECT id, data FROM records WHERE user_id = ? AND collection = ? AND id = ?`,
			string(p.UserID), string(p.Collection), p.Key)
	default:
		rows, err = s.db.QueryContext(ctx,
			`SELECT id, data -> ? FROM records
			 WHERE user_id = ? AND collection = ? AND id = ? AND data -> ? IS NOT NULL`,
			jsonPath(p.Field), string(p.UserID), string(p.Collection), p.Key, jsonPath(p.Field))
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read %s: %w", p, err)
	}
	defer rows.Close()

	snap := Snapshot{Path: p, Records: make(map[string]json.RawMessage)}
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return Snapshot{}, fmt.Errorf("failed to scan %s: %w", p, err)
		}
		snap.Records[id] = json.RawMessage(data)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("failed to read %s: %w", p, err)
	}
	return snap, nil
}

// Set writes a single path
func (s *SQLiteStore) Set(ctx context.Context, p Path, value any) error {
	if value == nil {
		return s.Remove(ctx, p)
	}
	return s.Update(ctx, Updates{p: value})
}

// Remove deletes a single path
func (s *SQLiteStore) Remove(ctx context.Context, p Path) error {
	return s.Update(ctx, Updates{p: nil})
}

// Update applies all writes in one transaction. Field writes against a
// record that does not exist are dropped rather than creating a partial
// record.
func (s *SQLiteStore) Update(ctx context.Context, updates Updates) error {
	writes, err := prepare(updates)
	if err != nil {
		return err
	}
	if len(writes) == 0 {
		return nil
	}

	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, w := range writes {
			if err := applyWrite(ctx, tx, w); err != nil {
				return fmt.Errorf("failed to write %s: %w", w.path, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, sc := range touched(writes) {
		s.hub.notify(sc.userID, sc.collection)
		s.publish(sc)
	}
	return nil
}

func applyWrite(ctx context.Context, tx *sql.Tx, w write) error {
	p := w.path
	uid, coll := string(p.UserID), string(p.Collection)

	var err error
	switch {
	case p.Level() == LevelCollection:
		_, err = tx.ExecContext(ctx,
			`DELETE FROM records WHERE user_id = ? AND collection = ?`, uid, coll)

	case p.Level() == LevelRecord && w.value == nil:
		_, err = tx.ExecContext(ctx,
			`DELETE FROM records WHERE user_id = ? AND collection = ? AND id = ?`, uid, coll, p.Key)

	case p.Level() == LevelRecord:
		_, err = tx.ExecContext(ctx,
			`INSERT INTO records (user_id, collection, id, data) VALUES (?, ?, ?, ?)
			 ON CONFLICT (user_id, collection, id)
			 DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
			uid, coll, p.Key, string(w.value))

	case w.value == nil:
		_, err = tx.ExecContext(ctx,
			`UPDATE records SET data = json_remove(data, ?), updated_at = CURRENT_TIMESTAMP
			 WHERE user_id = ? AND collection = ? AND id = ?`,
			jsonPath(p.Field), uid, coll, p.Key)

	default:
		_, err = tx.ExecContext(ctx,
			`UPDATE records SET data = json_set(data, ?, json(?)), updated_at = CURRENT_TIMESTAMP
			 WHERE user_id = ? AND collection = ? AND id = ?`,
			jsonPath(p.Field), string(w.value), uid, coll, p.Key)
	}
	return err
}

func jsonPath(field string) string {
	return "$." + field
}

func (s *SQLiteStore) publish(sc scope) {
	if s.publisher == nil {
		return
	}
	ev := events.Event{
		Type:       events.EventBoardChanged,
		UserID:     sc.userID,
		Collection: string(sc.collection),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		_ = events.Publish(ctx, s.publisher, ev, 3)
	}()
}

// Subscribe watches a collection. The first snapshot is delivered
// asynchronously right away; later ones follow each committed change.
func (s *SQLiteStore) Subscribe(ctx context.Context, p Path, fn func(Snapshot)) (Unsubscribe, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Level() != LevelCollection {
		return nil, fmt.Errorf("%w: %s", ErrSubscribeLevel, p)
	}
	return s.hub.subscribe(ctx, p, fn)
}

// Follow refreshes local subscribers when other processes report changes.
// It returns when ctx is done or the event stream ends.
func (s *SQLiteStore) Follow(ctx context.Context, client events.EventPublisher) error {
	ch, err := client.Listen(ctx)
	if err != nil {
		return fmt.Errorf("failed to listen for changes: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			if ev.Type != events.EventBoardChanged {
				continue
			}
			s.logger.Debug("remote change", "user_id", ev.UserID, "collection", ev.Collection, "seq", ev.SequenceID)
			s.hub.notify(ev.UserID, Collection(ev.Collection))
		}
	}
}

// NewKey mints a time-ordered key
func (s *SQLiteStore) NewKey() string {
	return NewKey()
}

// Close stops every subscription
func (s *SQLiteStore) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.hub.close()
		if s.ownsDB {
			err = s.db.Close()
		}
	})
	return err
}

var _ Store = (*SQLiteStore)(nil)
