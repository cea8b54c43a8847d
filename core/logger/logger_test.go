package logger

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedTime() time.Time {
	return time.Date(2006, 1, 2, 3, 4, 5, 0, time.UTC)
}

func TestJsonLinesRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewJsonLinesLogRecorder(buf)
	l.Now = fixedTime

	session := l.NewSession()
	require.NoError(t, session.Record(EventRunCommand, Fields{
		"command":       Strings([]string{"ls", "-la"}),
		"resolved_path": "/bin/ls",
		"exit_status":   0,
	}))
	require.NoError(t, session.Record(EventSessionEnd, nil))

	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))

	var entries []*LogEntry
	require.NoError(t, ReadJSONLinesLog(buf, func(le *LogEntry) {
		entries = append(entries, le)
	}))

	require.Len(t, entries, 2)
	assert.Equal(t, session.SessionID(), entries[0].SessionID)
	assert.Equal(t, EventRunCommand, entries[0].Type)
	assert.Equal(t, fixedTime().UnixNano()/int64(time.Microsecond), entries[0].TimestampMicros)
	assert.Equal(t, "/bin/ls", entries[0].Fields["resolved_path"])
	assert.Equal(t, []interface{}{"ls", "-la"}, entries[0].Fields["command"])

	assert.Equal(t, EventSessionEnd, entries[1].Type)
	assert.Empty(t, entries[1].Fields)
}

func TestReadJSONLinesLog_invalid(t *testing.T) {
	err := ReadJSONLinesLog(strings.NewReader("{}\nnot json\n"), func(*LogEntry) {})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "line 2")
	}
}

func TestReport(t *testing.T) {
	buf := &bytes.Buffer{}
	session := NewJsonLinesLogRecorder(buf).NewSession()

	session.Record(EventSessionStart, nil)
	session.Record(EventRunCommand, Fields{"command": Strings([]string{"ls"}), "resolved_path": "/bin/ls", "exit_status": 0})
	session.Record(EventRunCommand, Fields{"command": Strings([]string{"ls", "/nope"}), "resolved_path": "/bin/ls", "exit_status": 2})
	session.Record(EventBuiltin, Fields{"command": Strings([]string{"cd", "/tmp"})})
	session.Record(EventUnknownCommand, Fields{"command": Strings([]string{"nope"}), "error": "not found"})
	session.Record(EventInvalidInvocation, Fields{"command": Strings([]string{"cd", "a", "b"}), "error": "too many arguments"})
	session.Record(EventHistoryRecall, Fields{"line": "ls"})
	session.Record("mystery", nil)
	session.Record(EventSessionEnd, nil)

	var report Report
	require.NoError(t, ReadJSONLinesLog(buf, report.Update))

	assert.Equal(t, 9, report.LogEntries)
	assert.Equal(t, 1, report.Sessions.Get(session.SessionID()))
	assert.Equal(t, 2, report.RunCommand.CommandNames.Get("ls"))
	assert.Equal(t, 1, report.RunCommand.ExitStatuses.Get("2"))
	assert.Equal(t, 1, report.Builtin.CommandNames.Get("cd"))
	assert.Equal(t, 1, report.UnknownCommand.CommandNames.Get("nope"))
	assert.Equal(t, 1, report.InvalidInvocation.Errors.Get("too many arguments"))
	assert.Equal(t, 1, report.HistoryRecall.Count)
	assert.Equal(t, 1, report.InvalidEntries.Get("mystery"))
}

func TestStrCounter_Keys(t *testing.T) {
	var ctr StrCounter
	for _, k := range []string{"b", "a", "c", "a", "c", "c"} {
		ctr.Increment(k)
	}

	assert.Equal(t, []string{"c", "a", "b"}, ctr.Keys())
}
