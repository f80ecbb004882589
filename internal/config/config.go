package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// Storage backends
const (
	BackendSQLite    = "sqlite"
	BackendFirestore = "firestore"
)

// Config represents the application configuration
type Config struct {
	DataDir     string          `yaml:"data_dir"`
	Backend     string          `yaml:"backend"`
	Log         LogConfig       `yaml:"log"`
	Server      ServerConfig    `yaml:"server"`
	Firestore   FirestoreConfig `yaml:"firestore"`
	Daemon      DaemonConfig    `yaml:"daemon"`
	Notify      NotifyConfig    `yaml:"notify"`
	KeyMappings KeyMappings     `yaml:"key_mappings"`
	Theme       Theme           `yaml:"theme"`
}

// LogConfig controls the log file
type LogConfig struct {
	Level string `yaml:"level"`
}

// ServerConfig controls the HTTP API and token issuing
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	JWTSecret      string        `yaml:"jwt_secret"`
	TokenTTL       time.Duration `yaml:"token_ttl"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

// FirestoreConfig selects the hosted backend
type FirestoreConfig struct {
	ProjectID       string `yaml:"project_id"`
	CredentialsFile string `yaml:"credentials_file"`
}

// DaemonConfig locates the change notification daemon
type DaemonConfig struct {
	SocketPath string `yaml:"socket_path"`
}

// NotifyConfig controls transient notifications
type NotifyConfig struct {
	AutoCloseMS int `yaml:"auto_close_ms"`
}

// AutoClose returns the notification lifetime
func (n NotifyConfig) AutoClose() time.Duration {
	return time.Duration(n.AutoCloseMS) * time.Millisecond
}

// Default returns a config with every value filled in
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads config from the user's config directory.
// Returns default config if file doesn't exist.
// A .env file in the working directory is loaded first so its values can
// feed the LISTBOARD_* overrides.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config

	configPath, err := getConfigPath()
	if err == nil {
		data, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// defaults only
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", configPath, err)
			}
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save saves the config to the user's config directory
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := atomic.WriteFile(configPath, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate rejects settings no component can run with
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSQLite:
	case BackendFirestore:
		if c.Firestore.ProjectID == "" {
			return errors.New("firestore backend requires firestore.project_id")
		}
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendSQLite, BackendFirestore)
	}
	if c.Notify.AutoCloseMS <= 0 {
		return fmt.Errorf("notify.auto_close_ms must be positive, got %d", c.Notify.AutoCloseMS)
	}
	return nil
}

// DBPath is the local SQLite database file
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "listboard.db")
}

// SessionPath stores the signed-in user's token
func (c *Config) SessionPath() string {
	return filepath.Join(c.DataDir, "session")
}

// LogDir holds listboard.log
func (c *Config) LogDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	// Try XDG_CONFIG_HOME first
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "listboard", "config.yaml"), nil
	}

	// Fall back to ~/.config
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "listboard", "config.yaml"), nil
}

// applyEnv lets LISTBOARD_* variables override the file
func (c *Config) applyEnv() {
	if v := os.Getenv("LISTBOARD_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("LISTBOARD_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("LISTBOARD_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LISTBOARD_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("LISTBOARD_JWT_SECRET"); v != "" {
		c.Server.JWTSecret = v
	}
	if v := os.Getenv("LISTBOARD_FIRESTORE_PROJECT"); v != "" {
		c.Firestore.ProjectID = v
	}
	if v := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); v != "" && c.Firestore.CredentialsFile == "" {
		c.Firestore.CredentialsFile = v
	}
	if v := os.Getenv("LISTBOARD_SOCKET"); v != "" {
		c.Daemon.SocketPath = v
	}
	if v := os.Getenv("LISTBOARD_NOTIFY_AUTO_CLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			c.Notify.AutoCloseMS = ms
		}
	}
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.DataDir = filepath.Join(home, ".listboard")
		} else {
			c.DataDir = ".listboard"
		}
	}
	if c.Backend == "" {
		c.Backend = BackendSQLite
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = "127.0.0.1:8080"
	}
	if c.Server.TokenTTL == 0 {
		c.Server.TokenTTL = 7 * 24 * time.Hour
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if c.Daemon.SocketPath == "" {
		c.Daemon.SocketPath = filepath.Join(c.DataDir, "listboard.sock")
	}
	if c.Notify.AutoCloseMS == 0 {
		c.Notify.AutoCloseMS = 2000
	}
	c.KeyMappings.applyDefaults()
	c.Theme.applyDefaults()
}
