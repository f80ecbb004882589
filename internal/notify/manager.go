// Package notify is the transient notification channel. A Manager holds at
// most one active message and fans each new message out to its sinks.
package notify

import (
	"sync"
	"time"
)

// DefaultAutoClose is how long a message stays active
const DefaultAutoClose = 2000 * time.Millisecond

// Notifier shows a transient message to the user
type Notifier interface {
	Show(sev Severity, text string)
}

// Message is a single notification
type Message struct {
	ID       uint64    `json:"id"`
	Severity Severity  `json:"severity"`
	Text     string    `json:"message"`
	Shown    time.Time `json:"shown"`
}

// Sink receives every shown message
type Sink interface {
	Deliver(m Message)
}

// Manager replaces global toast state with an explicit object. The newest
// Show wins: it replaces the active message and restarts the auto-close
// timer.
type Manager struct {
	mu        sync.Mutex
	sinks     map[int]Sink
	nextSink  int
	active    *Message
	timer     *time.Timer
	seq       uint64
	autoClose time.Duration
}

// NewManager creates a manager. A non-positive autoClose uses the default.
func NewManager(autoClose time.Duration) *Manager {
	if autoClose <= 0 {
		autoClose = DefaultAutoClose
	}
	return &Manager{
		sinks:     make(map[int]Sink),
		autoClose: autoClose,
	}
}

// Init replaces the sink set and clears any active message
func (m *Manager) Init(sinks ...Sink) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clearLocked()
	m.sinks = make(map[int]Sink, len(sinks))
	for _, s := range sinks {
		m.addLocked(s)
	}
}

// Reset drops every sink and the active message
func (m *Manager) Reset() {
	m.Init()
}

// AddSink attaches a sink until the returned function is called
func (m *Manager) AddSink(s Sink) (remove func()) {
	m.mu.Lock()
	id := m.addLocked(s)
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.sinks, id)
			m.mu.Unlock()
		})
	}
}

func (m *Manager) addLocked(s Sink) int {
	id := m.nextSink
	m.nextSink++
	m.sinks[id] = s
	return id
}

// Show makes text the active message and delivers it to every sink.
// Sinks run outside the lock, so a sink may call back into the manager.
func (m *Manager) Show(sev Severity, text string) {
	m.mu.Lock()
	m.seq++
	msg := Message{ID: m.seq, Severity: sev, Text: text, Shown: time.Now()}
	m.clearLocked()
	m.active = &msg
	m.timer = time.AfterFunc(m.autoClose, func() { m.expire(msg.ID) })

	sinks := make([]Sink, 0, len(m.sinks))
	for _, s := range m.sinks {
		sinks = append(sinks, s)
	}
	m.mu.Unlock()

	for _, s := range sinks {
		s.Deliver(msg)
	}
}

// Active returns the message currently shown, if any
func (m *Manager) Active() (Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return Message{}, false
	}
	return *m.active, true
}

// Dismiss closes the active message early
func (m *Manager) Dismiss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearLocked()
}

func (m *Manager) expire(id uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// A newer message may have replaced this one
	if m.active != nil && m.active.ID == id {
		m.active = nil
		m.timer = nil
	}
}

func (m *Manager) clearLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.active = nil
}

var _ Notifier = (*Manager)(nil)
