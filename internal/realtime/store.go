// Package realtime is the user-scoped, path-addressed store boundary the
// board is persisted through. It supports one-shot reads, atomic
// multi-location writes and collection subscriptions.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Updates maps paths to values for an atomic multi-location write.
// A nil value deletes what the path addresses.
type Updates map[Path]any

// Unsubscribe stops a subscription. It is safe to call more than once.
type Unsubscribe func()

// Store is a realtime database scoped by user
type Store interface {
	// Get reads a collection or a single record
	Get(ctx context.Context, p Path) (Snapshot, error)

	// Set writes a whole record or a single field
	Set(ctx context.Context, p Path, value any) error

	// Update applies every entry atomically: all or none
	Update(ctx context.Context, updates Updates) error

	// Remove deletes a collection, record or field
	Remove(ctx context.Context, p Path) error

	// Subscribe delivers the collection snapshot now and after every change
	Subscribe(ctx context.Context, p Path, fn func(Snapshot)) (Unsubscribe, error)

	// NewKey mints a time-ordered record key
	NewKey() string

	Close() error
}

// NewKey returns a UUIDv7 string, which sorts by creation time
func NewKey() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// write is one validated, encoded entry of an Updates batch
type write struct {
	path  Path
	value json.RawMessage // nil means delete
}

// prepare validates and encodes an update batch in a deterministic order
func prepare(updates Updates) ([]write, error) {
	writes := make([]write, 0, len(updates))
	for p, v := range updates {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		w := write{path: p}
		if v != nil {
			if p.Level() == LevelCollection {
				return nil, fmt.Errorf("%w: %s", ErrCollectionWrite, p)
			}
			raw, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("failed to encode %s: %w", p, err)
			}
			if p.Level() == LevelRecord && (len(raw) == 0 || raw[0] != '{') {
				return nil, fmt.Errorf("%w: %s", ErrNotObject, p)
			}
			w.value = raw
		}
		writes = append(writes, w)
	}

	sort.Slice(writes, func(i, j int) bool {
		return writes[i].path.String() < writes[j].path.String()
	})

	ancestors := make(map[Path]bool, len(writes))
	for _, w := range writes {
		if w.path.Level() != LevelField {
			ancestors[w.path] = true
		}
	}
	for _, w := range writes {
		p := w.path
		parents := []Path{CollectionPath(p.UserID, p.Collection)}
		if p.Level() == LevelField {
			parents = append(parents, p.Record())
		}
		for _, parent := range parents {
			if parent != p && ancestors[parent] {
				return nil, fmt.Errorf("%w: %s and %s", ErrOverlappingPaths, parent, p)
			}
		}
	}
	return writes, nil
}

// scope identifies a user's collection for change notification
type scope struct {
	userID     string
	collection Collection
}

func touched(writes []write) []scope {
	seen := make(map[scope]bool)
	var out []scope
	for _, w := range writes {
		s := scope{userID: string(w.path.UserID), collection: w.path.Collection}
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
