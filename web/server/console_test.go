package server

import (
	"bytes"
	"encoding/json"
	"log"
	"strings"
	"testing"
)

// captureLog redirects the standard logger for the duration of a test
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(previous) })
	return &buf
}

func TestWebLogger_TagsMessagesWithRenderID(t *testing.T) {
	captureLog(t)
	consoleChan := make(chan ConsoleMessage, 4)
	logger := NewWebLogger("sphere-row", consoleChan)

	logger.Printf("Pass %d: Target %d samples per pixel\n", 2, 9)

	if len(consoleChan) != 1 {
		t.Fatalf("Expected 1 queued message, got %d", len(consoleChan))
	}
	msg := <-consoleChan
	if msg.RenderID != "sphere-row" {
		t.Errorf("Expected render ID 'sphere-row', got %q", msg.RenderID)
	}
	if msg.Message != "Pass 2: Target 9 samples per pixel\n" {
		t.Errorf("Unexpected message %q", msg.Message)
	}
	if msg.Level != "info" || msg.Timestamp.IsZero() {
		t.Errorf("Expected timestamped info message, got %+v", msg)
	}
}

func TestWebLogger_CopiesToServerLog(t *testing.T) {
	buf := captureLog(t)
	logger := NewWebLogger("single", nil)

	logger.Printf("Starting progressive rendering with %d passes...\n", 3)

	if !strings.Contains(buf.String(), "[single] Starting progressive rendering with 3 passes...") {
		t.Errorf("Expected tagged copy in server log, got %q", buf.String())
	}
}

func TestWebLogger_DropsWhenConsoleFull(t *testing.T) {
	buf := captureLog(t)
	consoleChan := make(chan ConsoleMessage, 2)
	logger := NewWebLogger("default", consoleChan)

	for i := 1; i <= 5; i++ {
		logger.Printf("line %d\n", i)
	}

	if len(consoleChan) != 2 {
		t.Fatalf("Expected console to hold 2 messages, got %d", len(consoleChan))
	}
	if first := <-consoleChan; first.Message != "line 1\n" {
		t.Errorf("Expected oldest message kept, got %q", first.Message)
	}
	// Dropped console messages still reach the server log
	if !strings.Contains(buf.String(), "[default] line 5") {
		t.Errorf("Expected every line in server log, got %q", buf.String())
	}
}

func TestConsoleMessage_JSON(t *testing.T) {
	captureLog(t)
	consoleChan := make(chan ConsoleMessage, 1)
	NewWebLogger("sphere-row", consoleChan).Printf("hello\n")

	data, err := json.Marshal(<-consoleChan)
	if err != nil {
		t.Fatalf("Failed to marshal console message: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal console message: %v", err)
	}
	if decoded["renderId"] != "sphere-row" || decoded["message"] != "hello\n" || decoded["level"] != "info" {
		t.Errorf("Unexpected console message JSON: %s", data)
	}
	if _, ok := decoded["timestamp"]; !ok {
		t.Errorf("Expected timestamp in console message JSON: %s", data)
	}
}
