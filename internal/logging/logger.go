// Package logging provides leveled operational logging and per-tick trace
// output. It offers two complementary writers:
//   - a leveled slog.Logger with JSON output (operational events)
//   - a TraceLogger writing one JSONL object per simulation tick
//
// The model core itself never logs; tracing happens in the runner that
// drives it.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// #region levels
// LevelTrace is a custom slog level below Debug. At this level the runner
// emits one record per simulated tick.
const LevelTrace = slog.LevelDebug - 4

// ParseLevel maps a level name to a slog.Level. Supported values are
// "info", "debug", and "trace" (case-insensitive); unknown values default
// to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// #endregion levels

// #region constructor
// NewLogger creates a leveled slog.Logger writing JSON records to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Label the custom trace level
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// #endregion constructor
