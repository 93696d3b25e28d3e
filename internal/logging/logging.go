// Package logging sets up the optional debug log. Output goes to a
// rotating file so long-running cleanups of huge trees cannot grow an
// unbounded log.
package logging

import (
	"io"
	"log"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger writes operational messages. The zero value discards
// everything; construct with NewFileLogger or NewDiscard.
type Logger struct {
	*log.Logger
	closer io.Closer
}

// NewFileLogger creates a logger writing to path with rotation: files
// are capped at 10 MB, three old files are kept for a month.
func NewFileLogger(path string) *Logger {
	rotator := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     30, // days
		Compress:   true,
	}
	return &Logger{
		Logger: log.New(rotator, "", log.LstdFlags),
		closer: rotator,
	}
}

// NewDiscard creates a logger that drops all output.
func NewDiscard() *Logger {
	return &Logger{Logger: log.New(io.Discard, "", 0)}
}

// Close releases the underlying log file, if any.
func (l *Logger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}
