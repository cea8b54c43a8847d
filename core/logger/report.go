package logger

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var msg structpb.Struct
		if err := protojson.Unmarshal([]byte(line), &msg); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}

		handler(fromStruct(&msg))
	}

	return scanner.Err()
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	Sessions       StrCounter `json:"sessions"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`

	RunCommand        RunCommandReport        `json:"run_command_report"`
	Builtin           BuiltinReport           `json:"builtin_report"`
	UnknownCommand    UnknownCommandReport    `json:"unknown_command_report"`
	InvalidInvocation InvalidInvocationReport `json:"invalid_invocation_report"`
	HistoryRecall     HistoryRecallReport     `json:"history_recall_report"`
}

func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	switch le.Type {
	case EventSessionStart:
		r.Sessions.Increment(le.SessionID)
	case EventRunCommand:
		r.RunCommand.update(le.Fields)
	case EventBuiltin:
		r.Builtin.update(le.Fields)
	case EventUnknownCommand:
		r.UnknownCommand.update(le.Fields)
	case EventInvalidInvocation:
		r.InvalidInvocation.update(le.Fields)
	case EventHistoryRecall:
		r.HistoryRecall.update(le.Fields)
	case EventSessionEnd:
		// Ignore
	default:
		r.InvalidEntries.Increment(le.Type)
	}
}

type RunCommandReport struct {
	// Name of the resolved command
	ResolvedCommandPaths StrCounter `json:"resolved_command_paths"`
	// Name of the command
	CommandNames StrCounter `json:"command_names"`
	// Exit statuses of commands that ran
	ExitStatuses StrCounter `json:"exit_statuses"`
}

func (r *RunCommandReport) update(fields Fields) {
	r.ResolvedCommandPaths.Increment(stringField(fields, "resolved_path"))
	if name := commandName(fields); name != "" {
		r.CommandNames.Increment(name)
	}
	if status, ok := fields["exit_status"].(float64); ok {
		r.ExitStatuses.Increment(fmt.Sprintf("%d", int(status)))
	}
}

type BuiltinReport struct {
	CommandNames StrCounter `json:"command_names"`
}

func (r *BuiltinReport) update(fields Fields) {
	if name := commandName(fields); name != "" {
		r.CommandNames.Increment(name)
	}
}

type UnknownCommandReport struct {
	CommandNames StrCounter `json:"command_names"`
	Errors       StrCounter `json:"errors"`
}

func (r *UnknownCommandReport) update(fields Fields) {
	if name := commandName(fields); name != "" {
		r.CommandNames.Increment(name)
	}
	r.Errors.Increment(stringField(fields, "error"))
}

type InvalidInvocationReport struct {
	CommandNames StrCounter `json:"command_counts"`
	Errors       StrCounter `json:"errors"`
}

func (r *InvalidInvocationReport) update(fields Fields) {
	if name := commandName(fields); name != "" {
		r.CommandNames.Increment(name)
	}
	r.Errors.Increment(stringField(fields, "error"))
}

type HistoryRecallReport struct {
	Count int        `json:"count"`
	Lines StrCounter `json:"lines"`
}

func (r *HistoryRecallReport) update(fields Fields) {
	r.Count++
	r.Lines.Increment(stringField(fields, "line"))
}

func stringField(fields Fields, key string) string {
	s, _ := fields[key].(string)
	return s
}

func commandName(fields Fields) string {
	command, _ := fields["command"].([]interface{})
	if len(command) == 0 {
		return ""
	}
	name, _ := command[0].(string)
	return name
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the count for key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// Keys returns the counted keys, most frequent first.
func (s *StrCounter) Keys() []string {
	var keys []string
	for k := range s.internal {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		ci, cj := s.internal[keys[i]], s.internal[keys[j]]
		if ci == cj {
			return keys[i] < keys[j]
		}
		return ci > cj
	})
	return keys
}

// MarshalJSON implements a custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.internal)
}
