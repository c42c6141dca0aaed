package logger

import (
	"sync"

	"github.com/corey/aoi/internal/ports"
)

// Entry is one recorded log call.
type Entry struct {
	Level string
	Msg   string
	KV    []interface{}
}

// Recorder keeps log calls in memory. Tests use it to assert on diagnostics.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

var _ ports.Logger = (*Recorder)(nil)

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) record(level, msg string, kv []interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Msg: msg, KV: append([]interface{}(nil), kv...)})
}

func (r *Recorder) Debug(msg string, kv ...interface{}) { r.record("debug", msg, kv) }
func (r *Recorder) Info(msg string, kv ...interface{})  { r.record("info", msg, kv) }
func (r *Recorder) Warn(msg string, kv ...interface{})  { r.record("warn", msg, kv) }
func (r *Recorder) Error(msg string, kv ...interface{}) { r.record("error", msg, kv) }
func (r *Recorder) Close() error                        { return nil }

// Entries returns a snapshot of recorded calls.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Messages returns the recorded messages at level ("" for all levels).
func (r *Recorder) Messages(level string) []string {
	var out []string
	for _, e := range r.Entries() {
		if level == "" || e.Level == level {
			out = append(out, e.Msg)
		}
	}
	return out
}
