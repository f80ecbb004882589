package events

import "time"

// ProtocolVersion is the wire protocol version sent with every message
const ProtocolVersion = 1

// EventType indicates what kind of message travels on the socket
type EventType string

const (
	EventBoardChanged EventType = "board_changed"
	EventPing         EventType = "ping"
	EventPong         EventType = "pong"
)

// Event announces that records under one user's board were written
type Event struct {
	Type       EventType
	UserID     string    // Whose board changed; empty means every board
	Collection string    // columns, tasks or comments; empty means all of them
	Timestamp  time.Time // Stamped by the daemon on broadcast
	SequenceID int64     // Daemon-assigned, increasing per broadcast
}

// SubscribeMessage narrows a connection to one user's boards
type SubscribeMessage struct {
	UserID string // "" = all users
}

// Message is one newline-delimited JSON frame on the socket
type Message struct {
	Version   int               // Protocol version
	Type      string            // "event", "subscribe", "ping", "pong"
	Event     *Event            `json:",omitempty"`
	Subscribe *SubscribeMessage `json:",omitempty"`
}

// NotifyFunc receives connection status messages meant for the user
type NotifyFunc func(level, message string)

// Matches reports whether an event is relevant to a subscription
func (e Event) Matches(sub SubscribeMessage) bool {
	return e.UserID == "" || sub.UserID == "" || e.UserID == sub.UserID
}
