package logger

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Event types written by the shell.
const (
	EventSessionStart      = "session_start"
	EventSessionEnd        = "session_end"
	EventRunCommand        = "run_command"
	EventBuiltin           = "builtin"
	EventUnknownCommand    = "unknown_command"
	EventInvalidInvocation = "invalid_invocation"
	EventHistoryRecall     = "history_recall"
)

// Fields holds the payload of an event. Values must be representable as
// JSON: strings, numbers, booleans, nil, []interface{} or
// map[string]interface{}.
type Fields = map[string]interface{}

// LogEntry is a single decoded event.
type LogEntry struct {
	TimestampMicros int64
	SessionID       string
	Type            string
	Fields          Fields
}

func (le *LogEntry) toStruct() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"timestamp_micros": le.TimestampMicros,
		"session_id":       le.SessionID,
		"type":             le.Type,
		"fields":           le.Fields,
	})
}

func fromStruct(s *structpb.Struct) *LogEntry {
	le := &LogEntry{}
	m := s.AsMap()

	if ts, ok := m["timestamp_micros"].(float64); ok {
		le.TimestampMicros = int64(ts)
	}
	le.SessionID, _ = m["session_id"].(string)
	le.Type, _ = m["type"].(string)
	le.Fields, _ = m["fields"].(map[string]interface{})
	if le.Fields == nil {
		le.Fields = Fields{}
	}

	return le
}

// LogRecorder is a callback that stores events in an external datastore.
type LogRecorder func(le *LogEntry) error

// Logger captures interaction event logs for the shell.
type Logger struct {
	Record LogRecorder
	// Now returns the current time, it defaults to time.Now.
	Now func() time.Time
}

// NewJsonLinesLogRecorder creates a Logger that exports logs in newline
// delimited JSON object format.
func NewJsonLinesLogRecorder(w io.Writer) *Logger {
	return &Logger{
		Record: func(le *LogEntry) error {
			msg, err := le.toStruct()
			if err != nil {
				return err
			}
			entry, err := protojson.Marshal(msg)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
	}
}

func (l *Logger) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

func (l *Logger) recordEvent(sessionID, eventType string, fields Fields) error {
	le := &LogEntry{
		TimestampMicros: l.now().UnixNano() / int64(time.Microsecond),
		SessionID:       sessionID,
		Type:            eventType,
		Fields:          fields,
	}

	return l.Record(le)
}

// NewSession creates a logger with a new random session ID.
func (l *Logger) NewSession() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: uuid.NewString()}
}

// SessionLogger logs messages with a shared session ID.
type SessionLogger struct {
	*Logger
	sessionID string
}

// SessionID returns the ID attached to every event.
func (l *SessionLogger) SessionID() string {
	return l.sessionID
}

// Record writes an event.
func (l *SessionLogger) Record(eventType string, fields Fields) error {
	return l.recordEvent(l.sessionID, eventType, fields)
}

// EventRecorder records session events.
type EventRecorder interface {
	Record(eventType string, fields Fields) error
}

var _ EventRecorder = (*SessionLogger)(nil)

// NopEventRecorder discards all events.
type NopEventRecorder struct{}

func (NopEventRecorder) Record(string, Fields) error {
	return nil
}

// Strings converts a string slice to a value accepted in Fields.
func Strings(s []string) []interface{} {
	out := make([]interface{}, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
