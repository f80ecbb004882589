package events

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestNilClientMethods verifies that calling methods on a nil *Client doesn't panic
func TestNilClientMethods(t *testing.T) {
	var client *Client

	t.Run("SetNotifyFunc on nil client", func(t *testing.T) {
		client.SetNotifyFunc(func(level, message string) {})
	})

	t.Run("Connect on nil client", func(t *testing.T) {
		if err := client.Connect(context.Background()); !errors.Is(err, ErrNilClient) {
			t.Errorf("expected ErrNilClient, got %v", err)
		}
	})

	t.Run("Listen on nil client", func(t *testing.T) {
		eventChan, err := client.Listen(context.Background())
		if err == nil {
			t.Error("expected error from Listen on nil client")
		}
		select {
		case _, ok := <-eventChan:
			if ok {
				t.Error("expected closed channel from nil client Listen")
			}
		case <-time.After(100 * time.Millisecond):
			t.Error("channel should be immediately readable (closed)")
		}
	})

	t.Run("Subscribe on nil client", func(t *testing.T) {
		if err := client.Subscribe("u1"); err == nil {
			t.Error("expected error from Subscribe on nil client")
		}
	})

	t.Run("SendEvent on nil client", func(t *testing.T) {
		if err := client.SendEvent(Event{Type: EventBoardChanged}); err == nil {
			t.Error("expected error from SendEvent on nil client")
		}
	})

	t.Run("Close on nil client", func(t *testing.T) {
		if err := client.Close(); err != nil {
			t.Errorf("Close should return nil error on nil client, got: %v", err)
		}
	})
}
