package events

import (
	"context"
	"log/slog"
	"time"
)

// retryBaseDelay is the wait after the first failed send; it doubles per attempt
const retryBaseDelay = 50 * time.Millisecond

// Publish sends event, retrying up to attempts times with exponential
// backoff. It returns the last send error, or ctx's error if ctx ends
// while waiting. A nil client is a no-op.
func Publish(ctx context.Context, client EventPublisher, event Event, attempts int) error {
	if client == nil {
		return nil // No daemon connection (tests, single process mode)
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay << (attempt - 1)
			slog.Debug("board change publish failed, retrying",
				"attempt", attempt,
				"max_attempts", attempts,
				"retry_delay", delay,
				"error", lastErr)

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		if lastErr = client.SendEvent(event); lastErr == nil {
			return nil
		}
	}

	if lastErr != nil {
		// Other processes miss this refresh until their next change
		slog.Warn("board change publish failed",
			"attempts", attempts,
			"user_id", event.UserID,
			"collection", event.Collection,
			"error", lastErr)
	}
	return lastErr
}
