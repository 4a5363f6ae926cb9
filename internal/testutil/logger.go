package testutil

import (
	"sync"

	"github.com/hupe1980/alertmesh/logging"
)

var _ logging.Logger = (*RecordingLogger)(nil)

// Record is one captured log call.
type Record struct {
	Level logging.LogLevel
	Msg   string
	Args  []any
}

// Attr returns the value paired with key in the record's args.
func (r Record) Attr(key string) (any, bool) {
	for i := 0; i+1 < len(r.Args); i += 2 {
		if k, ok := r.Args[i].(string); ok && k == key {
			return r.Args[i+1], true
		}
	}

	return nil, false
}

// RecordingLogger captures log calls for assertions.
type RecordingLogger struct {
	mu      sync.Mutex
	records []Record
}

// NewRecordingLogger creates an empty RecordingLogger.
func NewRecordingLogger() *RecordingLogger { return &RecordingLogger{} }

func (l *RecordingLogger) add(level logging.LogLevel, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append(l.records, Record{Level: level, Msg: msg, Args: append([]any(nil), args...)})
}

// Debug records a debug message.
func (l *RecordingLogger) Debug(msg string, args ...any) { l.add(logging.LogLevelDebug, msg, args) }

// Info records an info message.
func (l *RecordingLogger) Info(msg string, args ...any) { l.add(logging.LogLevelInfo, msg, args) }

// Warn records a warning message.
func (l *RecordingLogger) Warn(msg string, args ...any) { l.add(logging.LogLevelWarn, msg, args) }

// Error records an error message.
func (l *RecordingLogger) Error(msg string, args ...any) { l.add(logging.LogLevelError, msg, args) }

// Records returns a copy of everything logged so far.
func (l *RecordingLogger) Records() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]Record(nil), l.records...)
}

// Find returns the records with the given message.
func (l *RecordingLogger) Find(msg string) []Record {
	var out []Record

	for _, r := range l.Records() {
		if r.Msg == msg {
			out = append(out, r)
		}
	}

	return out
}
