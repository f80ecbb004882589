package app

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/thenoetrevino/listboard/internal/auth"
	"github.com/thenoetrevino/listboard/internal/board"
	"github.com/thenoetrevino/listboard/internal/config"
	"github.com/thenoetrevino/listboard/internal/database"
	"github.com/thenoetrevino/listboard/internal/events"
	"github.com/thenoetrevino/listboard/internal/models"
	"github.com/thenoetrevino/listboard/internal/notify"
	"github.com/thenoetrevino/listboard/internal/realtime"
	"github.com/thenoetrevino/listboard/internal/types"
)

// App holds all application services and provides dependency injection.
// This is the main application container that manages service lifecycles.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Store    realtime.Store
	Notifier *notify.Manager
	Session  *auth.Session

	// Verifier checks bearer tokens for every backend
	Verifier auth.Verifier

	// Provider registers and signs in local accounts. It is nil with the
	// firestore backend, where the Firebase client SDKs handle sign-in.
	Provider auth.Provider

	db          *sql.DB
	ownsDB      bool
	local       *realtime.SQLiteStore
	eventClient events.EventPublisher
}

// New creates a new App with all services initialized.
// This is the single entry point for creating the application container.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	var ac appConfig
	for _, opt := range opts {
		opt(&ac)
	}
	if ac.logger == nil {
		ac.logger = slog.Default()
	}

	a := &App{
		Config:      cfg,
		Logger:      ac.logger,
		Notifier:    notify.NewManager(cfg.Notify.AutoClose()),
		eventClient: ac.eventClient,
	}
	a.Notifier.Init(append([]notify.Sink{notify.LogSink{Logger: ac.logger}}, ac.sinks...)...)

	var err error
	switch cfg.Backend {
	case config.BackendFirestore:
		err = a.initFirestore(ctx)
	default:
		err = a.initSQLite(ctx, ac.db)
	}
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.Session, err = auth.OpenSession(ctx, cfg.SessionPath(), a.Verifier)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) initSQLite(ctx context.Context, db *sql.DB) error {
	if db == nil {
		var err error
		db, err = database.InitDB(ctx, a.Config.DBPath())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		a.ownsDB = true
	}
	a.db = db

	storeOpts := []realtime.SQLiteOption{realtime.WithLogger(a.Logger)}
	if a.eventClient != nil {
		storeOpts = append(storeOpts, realtime.WithPublisher(a.eventClient))
	}
	a.local = realtime.NewSQLiteStore(db, storeOpts...)
	a.Store = a.local

	secret, err := a.jwtSecret()
	if err != nil {
		return err
	}
	provider, err := auth.NewLocalProvider(db, secret,
		auth.WithTokenTTL(a.Config.Server.TokenTTL),
		auth.WithLogger(a.Logger))
	if err != nil {
		return err
	}
	a.Provider = provider
	a.Verifier = provider
	return nil
}

func (a *App) initFirestore(ctx context.Context) error {
	fbApp, err := realtime.NewFirebaseApp(ctx, realtime.FirestoreConfig{
		ProjectID:       a.Config.Firestore.ProjectID,
		CredentialsFile: a.Config.Firestore.CredentialsFile,
	})
	if err != nil {
		return err
	}

	store, err := realtime.NewFirestoreStore(ctx, fbApp, a.Logger)
	if err != nil {
		return err
	}
	a.Store = store

	verifier, err := auth.NewFirebaseVerifier(ctx, fbApp)
	if err != nil {
		return err
	}
	a.Verifier = verifier
	return nil
}

// jwtSecret returns the configured secret, or one generated on first use
// and kept in the data dir so tokens survive restarts.
func (a *App) jwtSecret() ([]byte, error) {
	if a.Config.Server.JWTSecret != "" {
		return []byte(a.Config.Server.JWTSecret), nil
	}

	path := filepath.Join(a.Config.DataDir, "jwt_secret")
	data, err := os.ReadFile(path)
	if err == nil && len(strings.TrimSpace(string(data))) > 0 {
		return []byte(strings.TrimSpace(string(data))), nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read jwt secret: %w", err)
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate jwt secret: %w", err)
	}
	secret := hex.EncodeToString(buf)

	if err := os.MkdirAll(a.Config.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	if err := atomic.WriteFile(path, strings.NewReader(secret)); err != nil {
		return nil, fmt.Errorf("failed to save jwt secret: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		return nil, fmt.Errorf("failed to protect jwt secret: %w", err)
	}
	a.Logger.Info("generated jwt secret", "path", path)
	return []byte(secret), nil
}

// CurrentUser returns the signed-in user or auth.ErrNotSignedIn
func (a *App) CurrentUser() (models.User, error) {
	user, ok := a.Session.CurrentUser()
	if !ok {
		return models.User{}, auth.ErrNotSignedIn
	}
	return user, nil
}

// Board loads the signed-in user's board
func (a *App) Board(ctx context.Context) (*board.Store, error) {
	user, err := a.CurrentUser()
	if err != nil {
		return nil, err
	}
	return a.BoardFor(ctx, user.ID)
}

// BoardFor loads any user's board, seeding defaults for a new user
func (a *App) BoardFor(ctx context.Context, uid types.UserID) (*board.Store, error) {
	b := board.New(a.Store, uid,
		board.WithNotifier(a.Notifier),
		board.WithLogger(a.Logger.With("user_id", string(uid))))
	if err := b.Bootstrap(ctx); err != nil {
		return nil, fmt.Errorf("failed to load board: %w", err)
	}
	return b, nil
}

// Follow relays other processes' changes to local subscribers until ctx
// ends. It returns nil at once when there is nothing to follow.
func (a *App) Follow(ctx context.Context) error {
	if a.local == nil || a.eventClient == nil {
		return nil
	}
	return a.local.Follow(ctx, a.eventClient)
}

// Close performs cleanup of application resources.
func (a *App) Close() error {
	var errs []error
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	if a.eventClient != nil {
		errs = append(errs, a.eventClient.Close())
	}
	if a.ownsDB && a.db != nil {
		errs = append(errs, a.db.Close())
	}
	a.Notifier.Reset()
	return errors.Join(errs...)
}

// ConnectEvents dials the change daemon for uid. When the daemon is not
// running it logs why and returns nil, and the app runs without
// cross-process updates.
func ConnectEvents(ctx context.Context, socketPath string, uid types.UserID, logger *slog.Logger) events.EventPublisher {
	client, err := events.NewClient(socketPath)
	if err != nil {
		logger.Warn("event client disabled", "error", err)
		return nil
	}
	if uid != "" {
		_ = client.Subscribe(string(uid))
	}
	if err := client.Connect(ctx); err != nil {
		de := events.ClassifyDaemonError(err)
		logger.Info("running without live updates", "reason", de.Error())
		_ = client.Close()
		return nil
	}
	return client
}
