package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/listboard/internal/models"
)

// ============================================================================
// Mock Types for Testing
// ============================================================================

type mockDataWithID struct {
	ID   string
	Name string
}

func (m mockDataWithID) GetID() string {
	return m.ID
}

type mockDataWithoutID struct {
	Name  string
	Value int
}

type mockStringer struct{}

func (mockStringer) String() string { return "stringer output" }

// capture swaps *target (os.Stdout or os.Stderr) for a pipe while fn runs
func capture(t *testing.T, target **os.File, fn func()) string {
	t.Helper()

	old := *target
	r, w, err := os.Pipe()
	require.NoError(t, err)
	*target = w

	fn()

	_ = w.Close()
	*target = old

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	return buf.String()
}

// ============================================================================
// Success Method Tests
// ============================================================================

func TestOutputFormatter_Success_JSON(t *testing.T) {
	tests := []struct {
		name     string
		data     interface{}
		validate func(t *testing.T, result map[string]interface{})
	}{
		{
			name: "model data uses json field names",
			data: models.Column{ID: "c1", Title: "Todo", IsDefault: true},
			validate: func(t *testing.T, result map[string]interface{}) {
				data := result["data"].(map[string]interface{})
				assert.Equal(t, "c1", data["id"])
				assert.Equal(t, "Todo", data["title"])
			},
		},
		{
			name: "string data",
			data: "simple string",
			validate: func(t *testing.T, result map[string]interface{}) {
				assert.Equal(t, "simple string", result["data"])
			},
		},
		{
			name: "nil data",
			data: nil,
			validate: func(t *testing.T, result map[string]interface{}) {
				assert.Nil(t, result["data"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := &OutputFormatter{JSON: true}
			output := capture(t, &os.Stdout, func() {
				require.NoError(t, formatter.Success(tt.data, "ignored in json mode"))
			})

			var result map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(output), &result), "output: %s", output)
			assert.Equal(t, true, result["success"])
			tt.validate(t, result)
		})
	}
}

func TestOutputFormatter_Success_Quiet(t *testing.T) {
	tests := []struct {
		name       string
		data       interface{}
		wantOutput string
	}{
		{name: "value with ID", data: mockDataWithID{ID: "abc", Name: "Test"}, wantOutput: "abc\n"},
		{name: "pointer with ID", data: &mockDataWithID{ID: "def"}, wantOutput: "def\n"},
		{name: "model task", data: models.Task{ID: "t1", Content: "A"}, wantOutput: "t1\n"},
		{name: "data without ID prints nothing", data: mockDataWithoutID{Name: "x"}, wantOutput: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := &OutputFormatter{Quiet: true}
			output := capture(t, &os.Stdout, func() {
				require.NoError(t, formatter.Success(tt.data, "ignored in quiet mode"))
			})
			assert.Equal(t, tt.wantOutput, output)
		})
	}
}

func TestOutputFormatter_Success_Human(t *testing.T) {
	formatter := &OutputFormatter{}

	output := capture(t, &os.Stdout, func() {
		require.NoError(t, formatter.Success(mockDataWithID{ID: "abc"}, "✓ Done"))
	})
	assert.Equal(t, "✓ Done\n", output)

	// Without a message the data itself is printed
	output = capture(t, &os.Stdout, func() {
		require.NoError(t, formatter.Success(mockStringer{}, ""))
	})
	assert.Equal(t, "stringer output\n", output)

	output = capture(t, &os.Stdout, func() {
		require.NoError(t, formatter.Success(mockDataWithoutID{Name: "n", Value: 3}, ""))
	})
	assert.Equal(t, "{Name:n Value:3}\n", output)
}

// ============================================================================
// Error Method Tests
// ============================================================================

func TestOutputFormatter_Error_JSON(t *testing.T) {
	formatter := &OutputFormatter{JSON: true}

	output := capture(t, &os.Stdout, func() {
		require.NoError(t, formatter.ErrorWithSuggestion("NOT_FOUND", "task not found", "run task list"))
	})

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.Equal(t, false, result["success"])
	errData := result["error"].(map[string]interface{})
	assert.Equal(t, "NOT_FOUND", errData["code"])
	assert.Equal(t, "task not found", errData["message"])
	assert.Equal(t, "run task list", errData["suggestion"])

	output = capture(t, &os.Stdout, func() {
		require.NoError(t, formatter.Error("ERROR", "boom"))
	})
	require.NoError(t, json.Unmarshal([]byte(output), &result))
	assert.NotContains(t, result["error"], "suggestion")
}

func TestOutputFormatter_Error_HumanGoesToStderr(t *testing.T) {
	formatter := &OutputFormatter{}

	var stdout string
	stderr := capture(t, &os.Stderr, func() {
		stdout = capture(t, &os.Stdout, func() {
			require.NoError(t, formatter.ErrorWithSuggestion("ERROR", "boom", "try again"))
		})
	})

	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Error: boom")
	assert.Contains(t, stderr, "Suggestion: try again")
}
