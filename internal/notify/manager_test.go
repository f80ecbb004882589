package notify

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/listboard/internal/config"
)

func TestManager_NewestWins(t *testing.T) {
	t.Parallel()

	rec := &RecordingSink{}
	m := NewManager(time.Minute)
	m.Init(rec)

	m.Show(Warning, "Task cannot be empty")
	m.Show(Error, "write failed")

	active, ok := m.Active()
	require.True(t, ok)
	assert.Equal(t, Error, active.Severity)
	assert.Equal(t, "write failed", active.Text)

	msgs := rec.Messages()
	require.Len(t, msgs, 2)
	assert.Less(t, msgs[0].ID, msgs[1].ID)
}

func TestManager_AutoClose(t *testing.T) {
	t.Parallel()

	m := NewManager(20 * time.Millisecond)
	m.Show(Info, "saved")

	_, ok := m.Active()
	require.True(t, ok)

	require.Eventually(t, func() bool {
		_, ok := m.Active()
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestManager_ReplacementRestartsTimer(t *testing.T) {
	t.Parallel()

	m := NewManager(80 * time.Millisecond)
	m.Show(Info, "first")
	time.Sleep(50 * time.Millisecond)
	m.Show(Info, "second")
	time.Sleep(50 * time.Millisecond)

	// first's timer would have fired by now; second must survive it
	active, ok := m.Active()
	require.True(t, ok)
	assert.Equal(t, "second", active.Text)
}

func TestManager_ResetAndSinks(t *testing.T) {
	t.Parallel()

	rec := &RecordingSink{}
	extra := &RecordingSink{}
	m := NewManager(0)
	m.Init(rec)

	remove := m.AddSink(extra)
	m.Show(Success, "one")
	remove()
	remove()
	m.Show(Success, "two")

	assert.Len(t, rec.Messages(), 2)
	assert.Len(t, extra.Messages(), 1)

	m.Reset()
	_, ok := m.Active()
	assert.False(t, ok)

	m.Show(Info, "three")
	assert.Len(t, rec.Messages(), 2, "reset detaches sinks")
}

func TestManager_Dismiss(t *testing.T) {
	t.Parallel()

	m := NewManager(time.Minute)
	m.Show(Warning, "x")
	m.Dismiss()
	_, ok := m.Active()
	assert.False(t, ok)
}

func TestFuncSinkCanReenter(t *testing.T) {
	t.Parallel()

	m := NewManager(time.Minute)
	var seen Message
	m.Init(FuncSink(func(msg Message) {
		// Sinks run outside the manager lock
		seen, _ = m.Active()
	}))

	m.Show(Info, "hello")
	assert.Equal(t, "hello", seen.Text)
}

func TestLogSink(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	LogSink{Logger: logger}.Deliver(Message{Severity: Warning, Text: "Column with same name already exists"})

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "severity=warning")
	assert.Contains(t, out, "Column with same name already exists")
}

func TestWriterSink(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	sink := NewWriterSink(&buf, config.DefaultTheme())
	sink.Deliver(Message{Severity: Error, Text: "boom"})

	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
	assert.Contains(t, buf.String(), "boom")
}

func TestMessageJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Message{ID: 1, Severity: Warning, Text: "Please select a todo"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"severity":"warning"`)
	assert.Contains(t, string(data), `"message":"Please select a todo"`)

	var got Message
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, Warning, got.Severity)
}

func TestParseSeverity(t *testing.T) {
	t.Parallel()

	for _, sev := range []Severity{Success, Info, Warning, Error} {
		assert.Equal(t, sev, ParseSeverity(sev.String()))
	}
	assert.Equal(t, Info, ParseSeverity("bogus"))
}

func TestRenderIncludesTitle(t *testing.T) {
	t.Parallel()

	out := Render(config.DefaultTheme(), Warning, "Default columns cannot be deleted")
	assert.Contains(t, out, "Warning")
	assert.Contains(t, out, "Default columns cannot be deleted")
}
