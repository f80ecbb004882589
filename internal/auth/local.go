package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/thenoetrevino/listboard/internal/models"
	"github.com/thenoetrevino/listboard/internal/types"
)

const (
	issuer         = "listboard"
	minPasswordLen = 8
	minNameLen     = 3
	maxNameLen     = 25
)

// tokenClaims is the JWT body
type tokenClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// LocalProvider keeps accounts in the local database and signs HS256 tokens
type LocalProvider struct {
	db     *sql.DB
	secret []byte
	ttl    time.Duration
	cost   int
	logger *slog.Logger
	now    func() time.Time
}

// LocalOption configures a LocalProvider
type LocalOption func(*LocalProvider)

// WithTokenTTL sets how long issued tokens stay valid
func WithTokenTTL(ttl time.Duration) LocalOption {
	return func(p *LocalProvider) {
		if ttl > 0 {
			p.ttl = ttl
		}
	}
}

// WithBcryptCost overrides the hashing cost; tests use bcrypt.MinCost
func WithBcryptCost(cost int) LocalOption {
	return func(p *LocalProvider) {
		p.cost = cost
	}
}

// WithLogger sets the provider logger
func WithLogger(logger *slog.Logger) LocalOption {
	return func(p *LocalProvider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewLocalProvider creates a provider over an initialized database
func NewLocalProvider(db *sql.DB, secret []byte, opts ...LocalOption) (*LocalProvider, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret is empty")
	}
	p := &LocalProvider{
		db:     db,
		secret: secret,
		ttl:    7 * 24 * time.Hour,
		cost:   bcrypt.DefaultCost,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Register creates an account and signs the new user in
func (p *LocalProvider) Register(ctx context.Context, email, password, name string) (Result, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)

	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return Result{}, ErrInvalidEmail
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return Result{}, ErrWeakPassword
	}
	if n := utf8.RuneCountInString(name); n < minNameLen || n > maxNameLen {
		return Result{}, ErrInvalidName
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return Result{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:        types.UserID(uuid.NewString()),
		Email:     email,
		Name:      name,
		CreatedAt: p.now().UTC(),
	}

	var exists int
	err = p.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&exists)
	if err != nil {
		return Result{}, fmt.Errorf("failed to check email: %w", err)
	}
	if exists > 0 {
		return Result{}, ErrEmailInUse
	}

	_, err = p.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		string(user.ID), user.Email, user.Name, string(hash), user.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return Result{}, fmt.Errorf("failed to create user: %w", err)
	}
	p.logger.Info("user registered", "user_id", user.ID)

	token, err := p.issue(user)
	if err != nil {
		return Result{}, err
	}
	return Result{Token: token, User: user}, nil
}

// Login checks the password and issues a token
func (p *LocalProvider) Login(ctx context.Context, email, password string) (Result, error) {
	var (
		user    models.User
		id      string
		hash    string
		created string
	)
	err := p.db.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, created_at FROM users WHERE email = ?`,
		strings.TrimSpace(email)).Scan(&id, &user.Email, &user.Name, &hash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Result{}, ErrInvalidCredential
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return Result{}, ErrInvalidCredential
	}

	user.ID = types.UserID(id)
	if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
		user.CreatedAt = t
	}

	token, err := p.issue(user)
	if err != nil {
		return Result{}, err
	}
	return Result{Token: token, User: user}, nil
}

// Verify parses and validates a token this provider signed
func (p *LocalProvider) Verify(_ context.Context, token string) (Claims, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(p.now))
	if err != nil || !parsed.Valid {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID == "" {
		return Claims{}, fmt.Errorf("%w: missing userId", ErrInvalidToken)
	}

	return Claims{UserID: types.UserID(claims.UserID), Email: claims.Email, Name: claims.Name}, nil
}

func (p *LocalProvider) issue(user models.User) (string, error) {
	now := p.now()
	claims := &tokenClaims{
		UserID: string(user.ID),
		Email:  user.Email,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   string(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

var _ Provider = (*LocalProvider)(nil)
