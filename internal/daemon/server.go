// Package daemon fans board change events out between listboard processes
// sharing a local store.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/thenoetrevino/listboard/internal/events"
)

// client represents a connected client to the daemon
type client struct {
	conn         net.Conn
	send         chan events.Message
	subscription events.SubscribeMessage
	lastPong     time.Time
	closed       bool
	mu           sync.Mutex // Protects subscription, lastPong and closed
}

// envelope carries an event with the connection that published it, so the
// publisher is not echoed its own change.
type envelope struct {
	event  events.Event
	origin *client
}

// Server represents the listboard event daemon
type Server struct {
	socketPath       string
	listener         net.Listener
	clients          map[*client]bool
	mu               sync.RWMutex
	ctx              context.Context
	cancel           context.CancelFunc
	broadcast        chan envelope
	metrics          *Metrics
	sequenceCounter  atomic.Int64
	clientBufferSize int // Configurable client send queue size
	pingInterval     time.Duration
	staleAfter       time.Duration
	logger           *slog.Logger
	shutdownOnce     sync.Once
}

// ServerOption configures a Server
type ServerOption func(*Server)

// WithHealthInterval sets how often clients are pinged. Clients silent for
// three intervals are dropped.
func WithHealthInterval(d time.Duration) ServerOption {
	return func(s *Server) {
		if d > 0 {
			s.pingInterval = d
			s.staleAfter = 3 * d
		}
	}
}

// WithLogger sets the daemon logger
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// getEnvInt reads an integer from an environment variable, returning defaultVal if not set or invalid
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultVal
}

// NewServer creates a new daemon server listening on socketPath
func NewServer(socketPath string, opts ...ServerOption) (*Server, error) {
	dir := filepath.Dir(socketPath)
	if dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create socket directory: %w", err)
		}
	}

	// Remove stale socket file if it exists
	if _, err := os.Stat(socketPath); err == nil {
		if err := os.Remove(socketPath); err != nil {
			return nil, fmt.Errorf("failed to remove stale socket: %w", err)
		}
	}

	lc := net.ListenConfig{}
	listener, err := lc.Listen(context.Background(), "unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create socket listener: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	// Buffer sizes are tunable for heavy multi-process use
	broadcastBuffer := getEnvInt("LISTBOARD_DAEMON_BROADCAST_BUFFER", 100)
	clientBuffer := getEnvInt("LISTBOARD_DAEMON_CLIENT_BUFFER", 10)

	s := &Server{
		socketPath:       socketPath,
		listener:         listener,
		clients:          make(map[*client]bool),
		ctx:              ctx,
		cancel:           cancel,
		broadcast:        make(chan envelope, broadcastBuffer),
		metrics:          NewMetrics(),
		clientBufferSize: clientBuffer,
		pingInterval:     30 * time.Second,
		staleAfter:       90 * time.Second,
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Metrics exposes the daemon counters
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Start runs the daemon server until ctx is cancelled or Shutdown is called.
// It starts three main goroutines: accept, broadcast, and health monitoring
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("daemon starting", "socket_path", s.socketPath)

	combinedCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-s.ctx.Done():
			cancel()
		case <-combinedCtx.Done():
		}
	}()

	acceptErr := make(chan error, 1)
	go func() {
		acceptErr <- s.acceptLoop(combinedCtx)
	}()

	go s.broadcastLoop(combinedCtx)
	go s.monitorHealth(combinedCtx)

	select {
	case <-combinedCtx.Done():
		s.logger.Info("daemon context cancelled, shutting down")
	case err := <-acceptErr:
		if err != nil {
			s.logger.Error("accept loop error", "error", err)
		}
	}

	return s.Shutdown()
}

// acceptLoop accepts incoming client connections
func (s *Server) acceptLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		// Deadline so cancellation is noticed
		if ul, ok := s.listener.(*net.UnixListener); ok {
			if err := ul.SetDeadline(time.Now().Add(1 * time.Second)); err != nil {
				s.logger.Warn("error setting listener deadline", "error", err)
			}
		}

		conn, err := s.listener.Accept()
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept error: %w", err)
		}

		c := &client{
			conn:     conn,
			send:     make(chan events.Message, s.clientBufferSize),
			lastPong: time.Now(),
		}

		s.mu.Lock()
		s.clients[c] = true
		s.mu.Unlock()
		s.updateClientCount()

		s.logger.Debug("client connected", "clients", s.getClientCount())

		go s.handleClient(c)
		go s.clientWriter(c)
	}
}

// broadcastLoop distributes events to subscribed clients
func (s *Server) broadcastLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case env := <-s.broadcast:
			event := env.event
			event.SequenceID = s.sequenceCounter.Add(1)
			s.metrics.IncBroadcastsTotal()

			s.mu.RLock()
			for c := range s.clients {
				if c == env.origin {
					continue
				}
				c.mu.Lock()
				subscribed := event.Matches(c.subscription)
				c.mu.Unlock()
				if !subscribed {
					continue
				}

				msg := events.Message{
					Version: events.ProtocolVersion,
					Type:    "event",
					Event:   &event,
				}
				// Slow clients miss events rather than stall the daemon
				if !s.sendToClient(c, msg) {
					s.logger.Warn("client send queue full, event dropped", "user_id", event.UserID)
				}
			}
			s.mu.RUnlock()
		}
	}
}

// handleClient reads messages from a connected client
func (s *Server) handleClient(c *client) {
	defer func() {
		s.removeClient(c)
		s.logger.Debug("client disconnected", "clients", s.getClientCount())
	}()

	decoder := json.NewDecoder(c.conn)

	for {
		var msg events.Message
		if err := decoder.Decode(&msg); err != nil {
			return
		}

		if msg.Version != 0 && msg.Version != events.ProtocolVersion {
			s.logger.Warn("protocol version mismatch", "got", msg.Version, "want", events.ProtocolVersion)
		}

		switch msg.Type {
		case "event":
			if msg.Event == nil {
				continue
			}
			s.metrics.IncEventsReceived()
			select {
			case s.broadcast <- envelope{event: *msg.Event, origin: c}:
			default:
				s.metrics.IncEventsDropped()
				s.logger.Warn("broadcast channel full")
			}

		case "subscribe":
			if msg.Subscribe != nil {
				c.mu.Lock()
				c.subscription = *msg.Subscribe
				c.mu.Unlock()
				s.logger.Debug("client subscribed", "user_id", msg.Subscribe.UserID)
			}

		case "pong":
			c.mu.Lock()
			c.lastPong = time.Now()
			c.mu.Unlock()
		}
	}
}

// clientWriter sends messages to a client
func (s *Server) clientWriter(c *client) {
	encoder := json.NewEncoder(c.conn)

	for msg := range c.send {
		if err := encoder.Encode(msg); err != nil {
			return
		}
	}
}

// monitorHealth sends ping messages and removes stale clients
func (s *Server) monitorHealth(ctx context.Context) {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()

	pingMsg := events.Message{
		Version: events.ProtocolVersion,
		Type:    "ping",
		Event:   &events.Event{Type: events.EventPing},
	}

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			// Collect under the server lock, act outside it
			s.mu.RLock()
			clients := make([]*client, 0, len(s.clients))
			for c := range s.clients {
				clients = append(clients, c)
			}
			s.mu.RUnlock()

			now := time.Now()
			for _, c := range clients {
				c.mu.Lock()
				silent := now.Sub(c.lastPong)
				c.mu.Unlock()

				if silent > s.staleAfter {
					s.logger.Info("removing stale client", "silent_for", silent)
					s.metrics.IncStaleClients()
					s.removeClient(c)
					continue
				}
				if !s.sendToClient(c, pingMsg) {
					s.logger.Debug("failed to send ping to client (queue full)")
				}
			}

			snap := s.metrics.GetSnapshot()
			s.logger.Debug("daemon metrics",
				"clients", snap.ConnectedClients,
				"broadcasts", snap.BroadcastsTotal,
				"dropped", snap.EventsDropped)
		}
	}
}

// Broadcast publishes an event from the daemon itself (non-blocking)
func (s *Server) Broadcast(event events.Event) error {
	select {
	case <-s.ctx.Done():
		return fmt.Errorf("daemon is shut down")
	default:
	}

	select {
	case s.broadcast <- envelope{event: event}:
		return nil
	default:
		s.metrics.IncEventsDropped()
		return fmt.Errorf("broadcast channel full")
	}
}

// Shutdown gracefully shuts down the server. It is safe to call more than once.
func (s *Server) Shutdown() error {
	var err error
	s.shutdownOnce.Do(func() {
		s.logger.Info("shutting down daemon", "metrics", s.metrics.GetSnapshot())

		s.cancel()

		if s.listener != nil {
			if closeErr := s.listener.Close(); closeErr != nil && !errors.Is(closeErr, net.ErrClosed) {
				s.logger.Warn("error closing listener", "error", closeErr)
			}
		}

		s.mu.Lock()
		clients := make([]*client, 0, len(s.clients))
		for c := range s.clients {
			clients = append(clients, c)
		}
		s.clients = make(map[*client]bool)
		s.mu.Unlock()

		for _, c := range clients {
			s.closeClient(c)
		}
		s.updateClientCount()

		if removeErr := os.Remove(s.socketPath); removeErr != nil && !os.IsNotExist(removeErr) {
			s.logger.Warn("failed to remove socket file", "error", removeErr)
		}
	})

	return err
}

func (s *Server) getClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) updateClientCount() {
	s.metrics.SetConnectedClients(int32(s.getClientCount()))
}

// removeClient safely removes a client from the server
func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()

	s.closeClient(c)
	s.updateClientCount()
}

func (s *Server) closeClient(c *client) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	if err := c.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		s.logger.Debug("error closing client connection", "error", err)
	}
	close(c.send)
}

// sendToClient attempts to send a message to a client (non-blocking)
// Returns true if successful, false if the queue is full or the client is gone
func (s *Server) sendToClient(c *client, msg events.Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		s.metrics.IncEventsSent()
		return true
	default:
		s.metrics.IncEventsDropped()
		return false
	}
}
