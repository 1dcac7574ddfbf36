package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
)

// TestInitJSONLogger_OutputFormat verifies that InitJSONLogger sets up
// JSON formatted output for slog.
func TestInitJSONLogger_OutputFormat(t *testing.T) {
	// Save original stdout to restore later
	oldStdout := os.Stdout

	// Create a pipe to capture output
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}

	// Replace stdout with our write pipe
	os.Stdout = w

	// Initialize the JSON logger
	InitJSONLogger(false)

	// Log a test message
	slog.Info("test initialization", slog.String("service", "test"), slog.Int("rows", 120))

	// Close the write pipe and restore stdout
	w.Close()
	os.Stdout = oldStdout

	// Read the captured output
	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	if err != nil {
		t.Fatalf("Failed to read from pipe: %v", err)
	}
	output := buf.Bytes()

	// Parse the output as JSON
	var logEntry map[string]interface{}
	err = json.Unmarshal(output, &logEntry)
	if err != nil {
		t.Fatalf("Failed to parse log output as JSON: %v\nOutput: %s", err, string(output))
	}

	// Verify expected fields
	if logEntry["msg"] != "test initialization" {
		t.Errorf("Expected msg to be 'test initialization', got '%v'", logEntry["msg"])
	}

	if logEntry["service"] != "test" {
		t.Errorf("Expected service to be 'test', got '%v'", logEntry["service"])
	}

	if logEntry["rows"] != float64(120) {
		t.Errorf("Expected rows to be 120, got '%v'", logEntry["rows"])
	}

	if logEntry["level"] != "INFO" {
		t.Errorf("Expected level to be 'INFO', got '%v'", logEntry["level"])
	}

	// Verify time field exists
	if _, ok := logEntry["time"]; !ok {
		t.Error("Expected 'time' field in JSON log output")
	}
}

// TestInitJSONLogger_DebugLevel verifies that debug mode enables
// debug-level records.
func TestInitJSONLogger_DebugLevel(t *testing.T) {
	oldStdout := os.Stdout

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout = w

	InitJSONLogger(true)
	slog.Debug("coercion detail", slog.String("field", "cdate"))

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	if _, err = buf.ReadFrom(r); err != nil {
		t.Fatalf("Failed to read from pipe: %v", err)
	}

	var logEntry map[string]interface{}
	if err = json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse log output as JSON: %v\nOutput: %s", err, buf.String())
	}

	if logEntry["level"] != "DEBUG" {
		t.Errorf("Expected level to be 'DEBUG', got '%v'", logEntry["level"])
	}
}
