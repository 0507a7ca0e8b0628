package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testStringer string

func (s testStringer) String() string { return string(s) }

func TestInitAndLoggingToFile(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "nested", "synod.log")

	if err := Init(logPath); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(func() {
		_ = Close()
	})

	LogEvent("hello %s", "world")
	LogRequest("synod->llm", "openai/gpt-4o", map[string]any{"ok": true})
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "hello world") {
		t.Fatalf("expected LogEvent content, got: %s", content)
	}
	if !strings.Contains(content, "[SYNOD->LLM]") {
		t.Fatalf("expected uppercased direction, got: %s", content)
	}
	if !strings.Contains(content, "model=openai/gpt-4o") {
		t.Fatalf("expected model tag, got: %s", content)
	}
	if !strings.Contains(content, `payload={"ok":true}`) {
		t.Fatalf("expected payload json, got: %s", content)
	}
}

func TestLogRequestOmitsEmptyModel(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "synod.log")

	if err := Init(logPath); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	t.Cleanup(func() {
		_ = Close()
	})

	LogRequest("http", "  ", "GET /api/conversations")
	_ = Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if strings.Contains(content, "model=") {
		t.Fatalf("expected model tag omitted, got: %s", content)
	}
	if !strings.Contains(content, "[HTTP]") {
		t.Fatalf("expected direction tag, got: %s", content)
	}
}

func TestFormatPayloadVariants(t *testing.T) {
	if got := formatPayload(nil); got != "null" {
		t.Fatalf("nil payload: %s", got)
	}
	if got := formatPayload(" "); got != `""` {
		t.Fatalf("empty string payload: %s", got)
	}
	if got := formatPayload([]byte("hi")); got != "hi" {
		t.Fatalf("byte payload: %s", got)
	}
	if got := formatPayload(testStringer("ok")); got != "ok" {
		t.Fatalf("stringer payload: %s", got)
	}
	if got := formatPayload([]byte{}); got != "[]" {
		t.Fatalf("empty byte payload: %s", got)
	}
}
