package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// #region trace-logger
// TraceLogger writes per-tick trace events to a JSONL file. It is safe for
// concurrent use, and a nil TraceLogger is safe to use: all methods are
// no-ops on a nil receiver.
type TraceLogger struct {
	mu   sync.Mutex
	file *os.File
}

// NewTraceLogger opens path for append, creating it if needed.
func NewTraceLogger(path string) (*TraceLogger, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open trace file %s: %w", path, err)
	}
	return &TraceLogger{file: f}, nil
}

// Log writes one event as a single JSONL line. A "time" field is added
// automatically; the caller's map is not mutated. Safe on a nil receiver.
func (tl *TraceLogger) Log(event map[string]any) {
	if tl == nil || tl.file == nil {
		return
	}

	entry := make(map[string]any, len(event)+1)
	for k, v := range event {
		entry[k] = v
	}
	entry["time"] = time.Now().UTC().Format(time.RFC3339Nano)

	tl.mu.Lock()
	defer tl.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')
	_, _ = tl.file.Write(data)
}

// Close closes the underlying file. Safe on a nil receiver.
func (tl *TraceLogger) Close() {
	if tl == nil || tl.file == nil {
		return
	}

	tl.mu.Lock()
	defer tl.mu.Unlock()

	tl.file.Close()
	tl.file = nil
}

// #endregion trace-logger
