// Package api serves the board over HTTP. Every authenticated route works
// on the caller's own board, held live by a Registry.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/thenoetrevino/listboard/internal/app"
	"github.com/thenoetrevino/listboard/internal/auth"
)

const shutdownTimeout = 5 * time.Second

// Server is the HTTP surface over an App
type Server struct {
	addr     string
	origins  []string
	verifier auth.Verifier
	provider auth.Provider
	boards   *Registry
	logger   *slog.Logger
	router   *gin.Engine
}

// Option configures a Server
type Option func(*Server)

// WithAddr overrides the configured listen address
func WithAddr(addr string) Option {
	return func(s *Server) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// NewServer builds the router. The server shares a's store and identity
// provider but keeps its own per-user boards.
func NewServer(a *app.App, opts ...Option) *Server {
	cfg := a.Config.Server
	s := &Server{
		addr:     cfg.Addr,
		origins:  cfg.AllowedOrigins,
		verifier: a.Verifier,
		provider: a.Provider,
		logger:   a.Logger.With("component", "api"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.boards = NewRegistry(a.Store, s.logger, a.Config.Notify.AutoClose())

	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Api is running!"})
	})

	api := router.Group("/api")
	authGroup := api.Group("/auth")
	authGroup.POST("/register", s.register)
	authGroup.POST("/login", s.login)

	protected := api.Group("", s.AccessTokenMiddleware())
	protected.GET("/me", s.me)
	protected.GET("/board", s.getBoard)
	protected.GET("/ws", s.websocket)

	protected.POST("/columns", s.createColumn)
	protected.PATCH("/columns/:id", s.updateColumn)
	protected.DELETE("/columns/:id", s.deleteColumn)
	protected.POST("/columns/:id/tasks", s.createTask)
	protected.DELETE("/columns/:id/tasks", s.deleteAllTasks)

	protected.GET("/tasks/:id", s.getTask)
	protected.PATCH("/tasks/:id", s.updateTask)
	protected.DELETE("/tasks/:id", s.deleteTask)
	protected.POST("/tasks/:id/comments", s.addComment)
	protected.DELETE("/comments/:id", s.deleteComment)

	drag := protected.Group("/drag")
	drag.POST("/start", s.dragStart)
	drag.POST("/over", s.dragOver)
	drag.POST("/end", s.dragEnd)
	drag.POST("/cancel", s.dragCancel)

	s.router = router
	return s
}

// Handler returns the router, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Registry returns the live boards
func (s *Server) Registry() *Registry {
	return s.boards
}

// Run serves until ctx ends, then drains requests and closes every board
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("api listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		s.boards.Close()
		if err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		return nil
	})
	return g.Wait()
}
