package realtime

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// loader reads the current snapshot for a subscription
type loader func(ctx context.Context, p Path) (Snapshot, error)

// subscriber owns a goroutine that reloads and delivers snapshots. kick has
// a buffer of one, so a burst of changes collapses into a single reload.
type subscriber struct {
	path Path
	fn   func(Snapshot)
	kick chan struct{}
	stop chan struct{}
	once sync.Once
}

func (s *subscriber) poke() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

func (s *subscriber) cancel() {
	s.once.Do(func() { close(s.stop) })
}

// hub fans local change notifications out to subscribers
type hub struct {
	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	load   loader
	logger *slog.Logger
	wg     sync.WaitGroup
	closed bool
}

func newHub(load loader, logger *slog.Logger) *hub {
	return &hub{
		subs:   make(map[*subscriber]struct{}),
		load:   load,
		logger: logger,
	}
}

func (h *hub) subscribe(ctx context.Context, p Path, fn func(Snapshot)) (Unsubscribe, error) {
	sub := &subscriber{
		path: p,
		fn:   fn,
		kick: make(chan struct{}, 1),
		stop: make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrClosed
	}
	h.subs[sub] = struct{}{}
	h.wg.Add(1)
	h.mu.Unlock()

	sub.poke() // initial snapshot
	go h.run(ctx, sub)

	return func() {
		h.mu.Lock()
		delete(h.subs, sub)
		h.mu.Unlock()
		sub.cancel()
	}, nil
}

func (h *hub) run(ctx context.Context, sub *subscriber) {
	defer h.wg.Done()
	defer func() {
		h.mu.Lock()
		delete(h.subs, sub)
		h.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.stop:
			return
		case <-sub.kick:
		}

		snap, err := h.load(ctx, sub.path)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				h.logger.Warn("failed to load snapshot", "path", sub.path.String(), "error", err)
			}
			continue
		}

		// Unsubscribed while loading
		select {
		case <-sub.stop:
			return
		default:
		}
		sub.fn(snap)
	}
}

// notify wakes every subscriber watching the user's collection. An empty
// user or collection matches all.
func (h *hub) notify(userID string, c Collection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		if userID != "" && string(sub.path.UserID) != userID {
			continue
		}
		if c != "" && sub.path.Collection != c {
			continue
		}
		sub.poke()
	}
}

// close stops all subscribers and waits for their goroutines
func (h *hub) close() {
	h.mu.Lock()
	h.closed = true
	subs := make([]*subscriber, 0, len(h.subs))
	for sub := range h.subs {
		subs = append(subs, sub)
	}
	h.subs = make(map[*subscriber]struct{})
	h.mu.Unlock()

	for _, sub := range subs {
		sub.cancel()
	}
	h.wg.Wait()
}
