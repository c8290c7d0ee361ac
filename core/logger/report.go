package logger

import (
	"encoding/json"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
)

// LogEntry is a single decoded event.
type LogEntry struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level"`
	Event   string    `json:"msg"`
	Session string    `json:"session,omitempty"`

	Source    string `json:"source,omitempty"`
	Statement string `json:"statement,omitempty"`
	Command   string `json:"command,omitempty"`
	ExitCode  int    `json:"exit_code,omitempty"`
	Kind      string `json:"kind,omitempty"`
	Error     string `json:"error,omitempty"`
	Path      string `json:"path,omitempty"`
	Depth     int    `json:"depth,omitempty"`
}

// Verb is the upper-cased first word of the statement.
func (le *LogEntry) Verb() string {
	fields := strings.Fields(le.Statement)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var logEntry LogEntry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`

	Statement StatementReport `json:"statement_report"`
	Exec      ExecReport      `json:"exec_report"`
	Error     ErrorReport     `json:"error_report"`
	Script    ScriptReport    `json:"script_report"`
}

func NewReport() *Report {
	return &Report{
		Error: ErrorReport{Errors: NewPathCounter("kind", "error")},
	}
}

func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	switch le.Event {
	case EventStatement:
		r.Statement.update(le)
	case EventExec:
		r.Exec.update(le)
	case EventError:
		r.Error.update(le)
	case EventScript:
		r.Script.update(le)
	default:
		r.InvalidEntries.Increment(le.Event)
	}
}

type StatementReport struct {
	Verbs   StrCounter `json:"verbs"`
	Sources StrCounter `json:"sources"`
}

func (r *StatementReport) update(le *LogEntry) {
	r.Verbs.Increment(le.Verb())
	r.Sources.Increment(le.Source)
}

type ExecReport struct {
	Count     int        `json:"count"`
	Failures  int        `json:"failures"`
	Programs  StrCounter `json:"programs"`
	ExitCodes StrCounter `json:"exit_codes"`
}

func (r *ExecReport) update(le *LogEntry) {
	r.Count++
	if le.ExitCode != 0 {
		r.Failures++
	}
	if fields := strings.Fields(le.Command); len(fields) > 0 {
		r.Programs.Increment(fields[0])
	}
	r.ExitCodes.Increment(strconv.Itoa(le.ExitCode))
}

type ErrorReport struct {
	Errors *PathCounter `json:"errors"`
}

func (r *ErrorReport) update(le *LogEntry) {
	if r.Errors == nil {
		r.Errors = NewPathCounter("kind", "error")
	}
	r.Errors.Increment(le.Kind, le.Error)
}

type ScriptReport struct {
	Paths    StrCounter `json:"paths"`
	MaxDepth int        `json:"max_depth"`
}

func (r *ScriptReport) update(le *LogEntry) {
	r.Paths.Increment(le.Path)
	if le.Depth > r.MaxDepth {
		r.MaxDepth = le.Depth
	}
}

// SessionReport groups the statements of each session.
type SessionReport struct {
	// Map of sessionID -> statements
	sessions map[string][]string
}

func (s *SessionReport) init() {
	if s.sessions == nil {
		s.sessions = make(map[string][]string)
	}
}

func (s *SessionReport) Update(le *LogEntry) {
	s.init()

	if le.Session == "" || le.Event != EventStatement {
		return
	}
	s.sessions[le.Session] = append(s.sessions[le.Session], le.Statement)
}

// MarshalJSON implements custom JSON marshaler.
func (s *SessionReport) MarshalJSON() ([]byte, error) {
	s.init()

	return json.Marshal(s.sessions)
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

// MarshalJSON implements custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts tuples of strings.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// Get returns the count for the tuple.
func (ctr *PathCounter) Get(vals ...string) int {
	return ctr.internal[toKey(vals...)]
}

// MarshalJSON implements custom JSON marshaler.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	out := []Count{}
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}
