// Package logging builds the structured loggers the Engine's decode
// loop writes CannotDecode/Failed outcomes to. No call in this package
// gates any control-flow decision elsewhere in the module: removing
// every log call leaves every function's return value unchanged.
package logging

import (
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a JSON-handler logger writing to w at the given minimum
// level. addSource attaches the call site (file:line) to every record,
// at the usual cost of a runtime.Caller lookup per log call.
func New(w io.Writer, addSource bool, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: addSource,
		Level:     level,
	}))
}

// NewRotating returns a JSON-handler logger backed by a size- and
// age-rotated file at path, for long-running host processes that
// shouldn't grow an unbounded log file.
func NewRotating(path string) *slog.Logger {
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    100, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	return New(w, false, slog.LevelInfo)
}
