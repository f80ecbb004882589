package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"testing"
)

// CaptureOutput captures stdout during function execution
func CaptureOutput(t *testing.T, fn func()) string {
	t.Helper()
	return capture(t, &os.Stdout, fn)
}

// CaptureStderr captures stderr during function execution
func CaptureStderr(t *testing.T, fn func()) string {
	t.Helper()
	return capture(t, &os.Stderr, fn)
}

func capture(t *testing.T, target **os.File, fn func()) string {
	t.Helper()

	orig := *target
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	*target = w

	// Drain concurrently so large outputs cannot fill the pipe
	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	defer func() { *target = orig }()
	fn()
	_ = w.Close()

	return <-outC
}

// ParseJSON parses the JSON envelope printed by --json commands
func ParseJSON(t *testing.T, output string) map[string]interface{} {
	t.Helper()

	var result map[string]interface{}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("Failed to parse JSON output: %v\nOutput: %s", err, output)
	}

	return result
}

// ParseData returns the "data" object of a successful JSON envelope
func ParseData(t *testing.T, output string) map[string]interface{} {
	t.Helper()

	result := ParseJSON(t, output)
	if ok, _ := result["success"].(bool); !ok {
		t.Fatalf("Command did not succeed\nOutput: %s", output)
	}
	data, ok := result["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("JSON data is not an object\nOutput: %s", output)
	}
	return data
}
