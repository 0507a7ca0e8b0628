// internal/logging/logging.go

// Package logging wires the standard logger to stdout plus an optional log
// file and provides small helpers for event and request logging.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu      sync.Mutex
	logFile *os.File
)

// Init points the standard logger at stdout, and additionally at logPath when
// it is non-empty, creating parent directories as needed. Calling Init again
// closes any previously opened file.
func Init(logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	writers := []io.Writer{os.Stdout}

	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		writers = append(writers, logFile)
	}

	log.SetOutput(io.MultiWriter(writers...))
	return nil
}

// Close detaches and closes the log file, if one was opened.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	log.SetOutput(os.Stderr)
	err := logFile.Close()
	logFile = nil
	return err
}

// LogEvent writes a formatted application event.
func LogEvent(format string, args ...any) {
	log.Println(fmt.Sprintf(format, args...))
}

// LogRequest records one request or response crossing a process boundary.
// direction is a tag like "SYNOD->LLM" or "HTTP"; model may be empty for
// non-model traffic.
func LogRequest(direction, model string, payload any) {
	dir := strings.ToUpper(strings.TrimSpace(direction))
	parts := []string{fmt.Sprintf("[%s]", dir)}
	if model = strings.TrimSpace(model); model != "" {
		parts = append(parts, fmt.Sprintf("model=%s", model))
	}
	parts = append(parts, fmt.Sprintf("payload=%s", formatPayload(payload)))
	log.Println(strings.Join(parts, " "))
}

func formatPayload(payload any) string {
	switch v := payload.(type) {
	case nil:
		return "null"
	case string:
		if strings.TrimSpace(v) == "" {
			return `""`
		}
		return v
	case []byte:
		if len(v) == 0 {
			return "[]"
		}
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
