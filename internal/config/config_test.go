package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// isolate points every lookup at fresh temp dirs. Tests using it call
// t.Setenv, so they cannot run in parallel.
func isolate(t *testing.T) string {
	t.Helper()

	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{
		"LISTBOARD_DATA_DIR", "LISTBOARD_BACKEND", "LISTBOARD_LOG_LEVEL",
		"LISTBOARD_ADDR", "LISTBOARD_JWT_SECRET", "LISTBOARD_FIRESTORE_PROJECT",
		"LISTBOARD_SOCKET", "LISTBOARD_NOTIFY_AUTO_CLOSE_MS", "GOOGLE_APPLICATION_CREDENTIALS",
	} {
		t.Setenv(key, "")
	}

	// Keep godotenv away from any .env in the package dir
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	return configHome
}

func writeConfig(t *testing.T, configHome, content string) {
	t.Helper()

	dir := filepath.Join(configHome, "listboard")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
}

func TestLoadConfigWithoutFile(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() without config file failed: %v", err)
	}

	if cfg.Backend != BackendSQLite {
		t.Errorf("Backend = %q, want %q", cfg.Backend, BackendSQLite)
	}
	if cfg.Notify.AutoClose() != 2*time.Second {
		t.Errorf("AutoClose = %v, want 2s", cfg.Notify.AutoClose())
	}
	if cfg.KeyMappings.Quit != "q" {
		t.Errorf("Quit key = %q, want q", cfg.KeyMappings.Quit)
	}
	if filepath.Base(cfg.DBPath()) != "listboard.db" {
		t.Errorf("DBPath = %q", cfg.DBPath())
	}
	if cfg.Daemon.SocketPath != filepath.Join(cfg.DataDir, "listboard.sock") {
		t.Errorf("SocketPath = %q", cfg.Daemon.SocketPath)
	}
}

func TestLoadConfigWithFile(t *testing.T) {
	home := isolate(t)
	writeConfig(t, home, `data_dir: /tmp/lb
log:
  level: debug
server:
  addr: ":9090"
  token_ttl: 1h
notify:
  auto_close_ms: 500
key_mappings:
  quit: "x"
theme:
  accent: "#FFFFFF"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.DataDir != "/tmp/lb" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.TokenTTL != time.Hour {
		t.Errorf("TokenTTL = %v", cfg.Server.TokenTTL)
	}
	if cfg.Notify.AutoCloseMS != 500 {
		t.Errorf("AutoCloseMS = %d", cfg.Notify.AutoCloseMS)
	}
	if cfg.KeyMappings.Quit != "x" {
		t.Errorf("Quit = %q, want x", cfg.KeyMappings.Quit)
	}
	// Unset keys keep their defaults
	if cfg.KeyMappings.AddTask != "n" {
		t.Errorf("AddTask = %q, want default n", cfg.KeyMappings.AddTask)
	}
	if cfg.Theme.Accent != "#FFFFFF" || cfg.Theme.ErrorFg != DefaultTheme().ErrorFg {
		t.Errorf("Theme merge failed: %+v", cfg.Theme)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	home := isolate(t)
	writeConfig(t, home, "server:\n  addr: \":1\"\n")

	t.Setenv("LISTBOARD_ADDR", ":2")
	t.Setenv("LISTBOARD_DATA_DIR", "/data")
	t.Setenv("LISTBOARD_JWT_SECRET", "s3cret")
	t.Setenv("LISTBOARD_NOTIFY_AUTO_CLOSE_MS", "750")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Addr != ":2" {
		t.Errorf("Addr = %q, want env override", cfg.Server.Addr)
	}
	if cfg.Server.JWTSecret != "s3cret" {
		t.Errorf("JWTSecret = %q", cfg.Server.JWTSecret)
	}
	if cfg.SessionPath() != filepath.Join("/data", "session") {
		t.Errorf("SessionPath = %q", cfg.SessionPath())
	}
	if cfg.Notify.AutoCloseMS != 750 {
		t.Errorf("AutoCloseMS = %d", cfg.Notify.AutoCloseMS)
	}
}

func TestLoadConfigDotEnv(t *testing.T) {
	isolate(t)

	if err := os.WriteFile(".env", []byte("LISTBOARD_LOG_LEVEL=warn\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	// godotenv never overrides variables that are already set
	if err := os.Unsetenv("LISTBOARD_LOG_LEVEL"); err != nil {
		t.Fatalf("Unsetenv: %v", err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("LISTBOARD_LOG_LEVEL") })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn from .env", cfg.Log.Level)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown backend", "backend: postgres\n"},
		{"firestore without project", "backend: firestore\n"},
		{"negative auto close", "notify:\n  auto_close_ms: -5\n"},
		{"bad yaml", "server: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := isolate(t)
			writeConfig(t, home, tt.content)

			if _, err := Load(); err == nil {
				t.Error("Load() succeeded, want error")
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	isolate(t)

	cfg := Default()
	cfg.Server.Addr = ":7070"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.Server.Addr != ":7070" {
		t.Errorf("Addr = %q, want :7070", loaded.Server.Addr)
	}
}
