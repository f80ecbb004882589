package testutil

import (
	"context"
	"sync"

	"github.com/thenoetrevino/listboard/internal/events"
)

// MockEventPublisher is a mock implementation of events.EventPublisher for testing.
// It records all published events for verification in tests.
type MockEventPublisher struct {
	mu sync.Mutex

	// Recorded events
	SentEvents []events.Event

	// Tracking
	CloseCalled   bool
	ConnectCalled bool

	// Subscription tracking
	SubscriptionHistory []string

	// Incoming feeds events to Listen callers
	Incoming chan events.Event
}

// NewMockEventPublisher creates a new mock event publisher.
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{
		Incoming: make(chan events.Event, 16),
	}
}

// Connect records the call.
func (m *MockEventPublisher) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConnectCalled = true
	return nil
}

// SendEvent records the event for later verification.
func (m *MockEventPublisher) SendEvent(event events.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentEvents = append(m.SentEvents, event)
	return nil
}

// Listen forwards Incoming until ctx is done.
func (m *MockEventPublisher) Listen(ctx context.Context) (<-chan events.Event, error) {
	out := make(chan events.Event)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-m.Incoming:
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Subscribe records the subscription.
func (m *MockEventPublisher) Subscribe(userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SubscriptionHistory = append(m.SubscriptionHistory, userID)
	return nil
}

// SetNotifyFunc is a no-op for the mock.
func (m *MockEventPublisher) SetNotifyFunc(fn events.NotifyFunc) {}

// Close marks the publisher as closed.
func (m *MockEventPublisher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
	return nil
}

// Events returns a copy of the recorded events.
func (m *MockEventPublisher) Events() []events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]events.Event, len(m.SentEvents))
	copy(out, m.SentEvents)
	return out
}

// Compile-time interface verification
var _ events.EventPublisher = (*MockEventPublisher)(nil)
