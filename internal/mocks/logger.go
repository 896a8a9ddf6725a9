package mocks

import (
	"sync"

	"weathermail.app/internal/ports"
)

// LogEntry is a single message captured by Logger
type LogEntry struct {
	Level   string
	Message string
	Fields  []ports.Field
}

// Logger records log calls in memory instead of asserting on them
type Logger struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewLogger creates an in-memory logger
func NewLogger() *Logger {
	return &Logger{}
}

func (l *Logger) Debug(msg string, fields ...ports.Field) { l.record("DEBUG", msg, fields) }
func (l *Logger) Info(msg string, fields ...ports.Field)  { l.record("INFO", msg, fields) }
func (l *Logger) Warn(msg string, fields ...ports.Field)  { l.record("WARN", msg, fields) }
func (l *Logger) Error(msg string, fields ...ports.Field) { l.record("ERROR", msg, fields) }

func (l *Logger) record(level, msg string, fields []ports.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, Message: msg, Fields: fields})
}

// Entries returns a copy of the captured entries
func (l *Logger) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// HasMessage reports whether a message was logged at the given level
func (l *Logger) HasMessage(level, msg string) bool {
	for _, e := range l.Entries() {
		if e.Level == level && e.Message == msg {
			return true
		}
	}
	return false
}
