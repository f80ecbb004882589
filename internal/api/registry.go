package api

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/thenoetrevino/listboard/internal/board"
	"github.com/thenoetrevino/listboard/internal/notify"
	"github.com/thenoetrevino/listboard/internal/realtime"
	"github.com/thenoetrevino/listboard/internal/types"
)

// Board is one user's live board plus the notification channel its
// websocket clients listen on.
type Board struct {
	*board.Store
	Notifier *notify.Manager

	unsubscribe realtime.Unsubscribe
}

// Registry hands out one live board per user. Boards are created on first
// use and stay subscribed until Close.
type Registry struct {
	db        realtime.Store
	logger    *slog.Logger
	autoClose time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	group  singleflight.Group
	mu     sync.Mutex
	boards map[types.UserID]*Board
	closed bool
}

// NewRegistry creates an empty registry over db
func NewRegistry(db realtime.Store, logger *slog.Logger, autoClose time.Duration) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		db:        db,
		logger:    logger,
		autoClose: autoClose,
		ctx:       ctx,
		cancel:    cancel,
		boards:    make(map[types.UserID]*Board),
	}
}

func (r *Registry) lookup(uid types.UserID) (*Board, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, false, ErrShuttingDown
	}
	b, ok := r.boards[uid]
	return b, ok, nil
}

// Get returns uid's board, loading and subscribing it on first use.
// Concurrent first requests for the same user share one load.
func (r *Registry) Get(ctx context.Context, uid types.UserID) (*Board, error) {
	if b, ok, err := r.lookup(uid); err != nil || ok {
		return b, err
	}

	v, err, _ := r.group.Do(string(uid), func() (any, error) {
		if b, ok, err := r.lookup(uid); err != nil || ok {
			return b, err
		}
		return r.load(ctx, uid)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Board), nil
}

func (r *Registry) load(ctx context.Context, uid types.UserID) (*Board, error) {
	logger := r.logger.With("user_id", string(uid))
	notifier := notify.NewManager(r.autoClose)
	notifier.Init(notify.LogSink{Logger: logger})

	store := board.New(r.db, uid,
		board.WithNotifier(notifier),
		board.WithLogger(logger))
	if err := store.Bootstrap(ctx); err != nil {
		return nil, fmt.Errorf("failed to load board: %w", err)
	}

	unsub, err := store.Subscribe(r.ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe board: %w", err)
	}

	b := &Board{Store: store, Notifier: notifier, unsubscribe: unsub}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		unsub()
		return nil, ErrShuttingDown
	}
	r.boards[uid] = b
	logger.Info("board loaded")
	return b, nil
}

// Len returns the number of live boards
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.boards)
}

// Close unsubscribes every board. Later Gets fail with ErrShuttingDown.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	boards := r.boards
	r.boards = make(map[types.UserID]*Board)
	r.mu.Unlock()

	r.cancel()
	for _, b := range boards {
		b.unsubscribe()
		b.Notifier.Reset()
	}
	r.logger.Info("board registry closed", "boards", len(boards))
}
