package cli

import (
	"context"
	"testing"

	"github.com/thenoetrevino/listboard/internal/app"
	"github.com/thenoetrevino/listboard/internal/config"
	"github.com/thenoetrevino/listboard/internal/models"
	"github.com/thenoetrevino/listboard/internal/testutil"
)

// Test account registered by SetupCLITest
const (
	TestEmail    = "ada@example.com"
	TestPassword = "correct horse"
	TestName     = "Ada"
)

// SetupSignedOutCLITest creates an App over an in-memory DB with nobody
// signed in. This function is only for CLI tests and is isolated in a
// separate package to avoid import cycles when app tests import testutil.
func SetupSignedOutCLITest(t *testing.T) *app.App {
	t.Helper()

	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.Server.JWTSecret = "test-secret"

	// Note: EventPublisher is nil - event publishing is tested elsewhere
	appInstance, err := app.New(context.Background(), cfg, app.WithDB(testutil.SetupTestDB(t)))
	if err != nil {
		t.Fatalf("Failed to create app: %v", err)
	}
	t.Cleanup(func() { _ = appInstance.Close() })

	return appInstance
}

// SetupCLITest creates an App with TestEmail registered and signed in
func SetupCLITest(t *testing.T) (*app.App, models.User) {
	t.Helper()
	ctx := context.Background()

	appInstance := SetupSignedOutCLITest(t)
	res, err := appInstance.Provider.Register(ctx, TestEmail, TestPassword, TestName)
	if err != nil {
		t.Fatalf("Failed to register test user: %v", err)
	}
	user, err := appInstance.Session.Login(ctx, res.Token)
	if err != nil {
		t.Fatalf("Failed to sign in test user: %v", err)
	}

	return appInstance, user
}
