package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/thenoetrevino/listboard/internal/config"
)

// FuncSink adapts a function to a Sink
type FuncSink func(Message)

// Deliver calls f
func (f FuncSink) Deliver(m Message) { f(m) }

// LogSink records notifications in the application log
type LogSink struct {
	Logger *slog.Logger
}

// Deliver logs at a level matching the severity
func (s LogSink) Deliver(m Message) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	level := slog.LevelInfo
	switch m.Severity {
	case Warning:
		level = slog.LevelWarn
	case Error:
		level = slog.LevelError
	}
	logger.Log(context.Background(), level, "notification", "severity", m.Severity.String(), "message", m.Text)
}

// WriterSink prints a colored one-line notice, typically to stderr
type WriterSink struct {
	mu    sync.Mutex
	w     io.Writer
	theme config.Theme
}

// NewWriterSink writes to w using the theme's notification colors
func NewWriterSink(w io.Writer, theme config.Theme) *WriterSink {
	return &WriterSink{w: w, theme: theme}
}

// Deliver writes the inline render followed by a newline
func (s *WriterSink) Deliver(m Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, RenderInline(s.theme, m.Severity, m.Text))
}

// RecordingSink keeps every delivered message. The TUI and tests read it.
type RecordingSink struct {
	mu   sync.Mutex
	msgs []Message
}

// Deliver appends m
func (r *RecordingSink) Deliver(m Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, m)
}

// Messages returns a copy of everything delivered so far
func (r *RecordingSink) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.msgs))
	copy(out, r.msgs)
	return out
}

// Last returns the most recent message
func (r *RecordingSink) Last() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.msgs) == 0 {
		return Message{}, false
	}
	return r.msgs[len(r.msgs)-1], true
}

var (
	_ Sink = FuncSink(nil)
	_ Sink = LogSink{}
	_ Sink = (*WriterSink)(nil)
	_ Sink = (*RecordingSink)(nil)
)
