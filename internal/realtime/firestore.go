package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreConfig selects the hosted project
type FirestoreConfig struct {
	ProjectID       string
	CredentialsFile string
}

// FirestoreStore maps paths onto users/{uid}/{collection}/{key} documents
type FirestoreStore struct {
	client *firestore.Client
	logger *slog.Logger

	mu     sync.Mutex
	cancel map[*int]context.CancelFunc
	wg     sync.WaitGroup
}

// NewFirebaseApp initializes the Firebase app shared by the store and the
// token verifier.
func NewFirebaseApp(ctx context.Context, cfg FirestoreConfig) (*firebase.App, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	return app, nil
}

// NewFirestoreStore opens a Firestore client from the Firebase app
func NewFirestoreStore(ctx context.Context, app *firebase.App, logger *slog.Logger) (*FirestoreStore, error) {
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get firestore client: %w", err)
	}
	return NewFirestoreStoreFromClient(client, logger), nil
}

// NewFirestoreStoreFromClient wraps an existing client
func NewFirestoreStoreFromClient(client *firestore.Client, logger *slog.Logger) *FirestoreStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FirestoreStore{
		client: client,
		logger: logger,
		cancel: make(map[*int]context.CancelFunc),
	}
}

func (s *FirestoreStore) collection(p Path) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(string(p.UserID)).Collection(string(p.Collection))
}

func (s *FirestoreStore) doc(p Path) *firestore.DocumentRef {
	return s.collection(p).Doc(p.Key)
}

// Get reads a collection, a record or a single field
func (s *FirestoreStore) Get(ctx context.Context, p Path) (Snapshot, error) {
	if err := p.Validate(); err != nil {
		return Snapshot{}, err
	}
	snap := Snapshot{Path: p, Records: make(map[string]json.RawMessage)}

	if p.Level() == LevelCollection {
		docs, err := s.collection(p).Documents(ctx).GetAll()
		if err != nil {
			return Snapshot{}, fmt.Errorf("failed to read %s: %w", p, err)
		}
		for _, d := range docs {
			raw, err := json.Marshal(d.Data())
			if err != nil {
				return Snapshot{}, fmt.Errorf("failed to encode %s/%s: %w", p, d.Ref.ID, err)
			}
			snap.Records[d.Ref.ID] = raw
		}
		return snap, nil
	}

	d, err := s.doc(p).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return snap, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read %s: %w", p, err)
	}

	var value any = d.Data()
	if p.Level() == LevelField {
		v, ok := d.Data()[p.Field]
		if !ok {
			return snap, nil
		}
		value = v
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to encode %s: %w", p, err)
	}
	snap.Records[p.Key] = raw
	return snap, nil
}

// Set writes a single path
func (s *FirestoreStore) Set(ctx context.Context, p Path, value any) error {
	if value == nil {
		return s.Remove(ctx, p)
	}
	return s.Update(ctx, Updates{p: value})
}

// Remove deletes a single path
func (s *FirestoreStore) Remove(ctx context.Context, p Path) error {
	return s.Update(ctx, Updates{p: nil})
}

// Update applies every write inside one transaction. Firestore requires all
// reads to precede writes, so field targets and collection contents are
// read first.
func (s *FirestoreStore) Update(ctx context.Context, updates Updates) error {
	writes, err := prepare(updates)
	if err != nil {
		return err
	}
	if len(writes) == 0 {
		return nil
	}

	return s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// Reads
		var fieldRefs []*firestore.DocumentRef
		for _, w := range writes {
			if w.path.Level() == LevelField {
				fieldRefs = append(fieldRefs, s.doc(w.path))
			}
		}
		exists := make(map[string]bool)
		if len(fieldRefs) > 0 {
			docs, err := tx.GetAll(fieldRefs)
			if err != nil {
				return fmt.Errorf("failed to read update targets: %w", err)
			}
			for _, d := range docs {
				exists[d.Ref.Path] = d.Exists()
			}
		}
		collectionDocs := make(map[Path][]*firestore.DocumentRef)
		for _, w := range writes {
			if w.path.Level() != LevelCollection {
				continue
			}
			docs, err := tx.Documents(s.collection(w.path)).GetAll()
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", w.path, err)
			}
			for _, d := range docs {
				collectionDocs[w.path] = append(collectionDocs[w.path], d.Ref)
			}
		}

		// Writes, grouped per document so several fields land in one update
		fieldUpdates := make(map[string][]firestore.Update)
		fieldDocs := make(map[string]*firestore.DocumentRef)
		for _, w := range writes {
			switch w.path.Level() {
			case LevelCollection:
				for _, ref := range collectionDocs[w.path] {
					if err := tx.Delete(ref); err != nil {
						return err
					}
				}
			case LevelRecord:
				ref := s.doc(w.path)
				if w.value == nil {
					if err := tx.Delete(ref); err != nil {
						return err
					}
					continue
				}
				data, err := decodeObject(w.value)
				if err != nil {
					return fmt.Errorf("failed to encode %s: %w", w.path, err)
				}
				if err := tx.Set(ref, data); err != nil {
					return err
				}
			case LevelField:
				ref := s.doc(w.path)
				if !exists[ref.Path] {
					continue
				}
				var value any = firestore.Delete
				if w.value != nil {
					v, err := decodeValue(w.value)
					if err != nil {
						return fmt.Errorf("failed to encode %s: %w", w.path, err)
					}
					value = v
				}
				fieldDocs[ref.Path] = ref
				fieldUpdates[ref.Path] = append(fieldUpdates[ref.Path], firestore.Update{Path: w.path.Field, Value: value})
			}
		}
		for key, ups := range fieldUpdates {
			if err := tx.Update(fieldDocs[key], ups); err != nil {
				return err
			}
		}
		return nil
	})
}

// Subscribe streams collection snapshots until ctx is done or the returned
// function is called.
func (s *FirestoreStore) Subscribe(ctx context.Context, p Path, fn func(Snapshot)) (Unsubscribe, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Level() != LevelCollection {
		return nil, fmt.Errorf("%w: %s", ErrSubscribeLevel, p)
	}

	subCtx, cancel := context.WithCancel(ctx)
	token := new(int)

	s.mu.Lock()
	if s.cancel == nil {
		s.mu.Unlock()
		cancel()
		return nil, ErrClosed
	}
	s.cancel[token] = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	it := s.collection(p).Snapshots(subCtx)
	go func() {
		defer s.wg.Done()
		defer it.Stop()
		for {
			qs, err := it.Next()
			if err != nil {
				if status.Code(err) == codes.Canceled || errors.Is(err, context.Canceled) || errors.Is(err, iterator.Done) {
					return
				}
				s.logger.Warn("snapshot stream ended", "path", p.String(), "error", err)
				return
			}
			snap := Snapshot{Path: p, Records: make(map[string]json.RawMessage)}
			for {
				d, err := qs.Documents.Next()
				if errors.Is(err, iterator.Done) {
					break
				}
				if err != nil {
					s.logger.Warn("failed to read snapshot document", "path", p.String(), "error", err)
					break
				}
				raw, err := json.Marshal(d.Data())
				if err != nil {
					continue
				}
				snap.Records[d.Ref.ID] = raw
			}
			fn(snap)
		}
	}()

	return func() {
		s.mu.Lock()
		delete(s.cancel, token)
		s.mu.Unlock()
		cancel()
	}, nil
}

// NewKey mints a time-ordered key
func (s *FirestoreStore) NewKey() string {
	return NewKey()
}

// Close cancels every subscription and closes the client
func (s *FirestoreStore) Close() error {
	s.mu.Lock()
	cancels := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	s.wg.Wait()
	return s.client.Close()
}

// decodeValue turns encoded JSON into Firestore-friendly Go values, keeping
// integral numbers as int64.
func decodeValue(raw json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return normalize(v), nil
}

func decodeObject(raw json.RawMessage) (map[string]any, error) {
	v, err := decodeValue(raw)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return obj, nil
}

func normalize(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case map[string]any:
		for k, e := range t {
			t[k] = normalize(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = normalize(e)
		}
		return t
	default:
		return v
	}
}

var _ Store = (*FirestoreStore)(nil)
