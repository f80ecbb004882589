package app

import (
	"database/sql"
	"log/slog"

	"github.com/thenoetrevino/listboard/internal/events"
	"github.com/thenoetrevino/listboard/internal/notify"
)

// Option is a functional option for configuring App initialization
type Option func(*appConfig)

// appConfig holds the configuration for App initialization
type appConfig struct {
	eventClient events.EventPublisher
	logger      *slog.Logger
	db          *sql.DB
	sinks       []notify.Sink
}

// WithEventPublisher connects the local store to the change daemon
func WithEventPublisher(ec events.EventPublisher) Option {
	return func(cfg *appConfig) {
		cfg.eventClient = ec
	}
}

// WithLogger sets the logger for the application
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *appConfig) {
		cfg.logger = logger
	}
}

// WithDB uses an already initialized database instead of opening the
// configured file. The caller keeps ownership of db.
func WithDB(db *sql.DB) Option {
	return func(cfg *appConfig) {
		cfg.db = db
	}
}

// WithNotifySinks adds notification sinks beyond the log sink
func WithNotifySinks(sinks ...notify.Sink) Option {
	return func(cfg *appConfig) {
		cfg.sinks = append(cfg.sinks, sinks...)
	}
}
