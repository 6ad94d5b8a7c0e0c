package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
)

// NopLogger returns a logger that discards all output.
// Use this in tests to avoid log noise.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// LogBuffer collects JSON log output for assertions
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write implements io.Writer
func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// Records decodes every line logged so far. Lines that are not JSON are skipped.
func (b *LogBuffer) Records() []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()

	var records []map[string]any
	for _, line := range bytes.Split(b.buf.Bytes(), []byte("\n")) {
		var record map[string]any
		if err := json.Unmarshal(line, &record); err == nil {
			records = append(records, record)
		}
	}
	return records
}

// Messages returns the msg field of every record at the given level
func (b *LogBuffer) Messages(level slog.Level) []string {
	var msgs []string
	for _, r := range b.Records() {
		if r[slog.LevelKey] == level.String() {
			msg, _ := r[slog.MessageKey].(string)
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

// CaptureLogger returns a debug-level JSON logger writing to a LogBuffer
func CaptureLogger() (*slog.Logger, *LogBuffer) {
	buf := &LogBuffer{}
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}
