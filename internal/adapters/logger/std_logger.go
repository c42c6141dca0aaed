// Package logger adapts github.com/baditaflorin/l to ports.Logger.
package logger

import (
	"io"
	"os"

	"github.com/baditaflorin/l"
	"github.com/corey/aoi/internal/ports"
)

// Options controls the adapter. Output defaults to os.Stderr so log lines
// never mix with command output on stdout.
type Options struct {
	Output  io.Writer
	JSON    bool
	Verbose bool // emit Debug lines
}

// StdLogger adapts the l.Logger to the ports.Logger interface.
type StdLogger struct {
	logger  l.Logger
	verbose bool
}

// New creates a logger writing to opts.Output.
func New(opts Options) (ports.Logger, error) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	lg, err := l.NewStandardFactory().CreateLogger(l.Config{
		Output:      out,
		JsonFormat:  opts.JSON,
		AsyncWrite:  false,
		BufferSize:  64 * 1024,
		MaxFileSize: 10 * 1024 * 1024,
		MaxBackups:  3,
		AddSource:   false,
		Metrics:     false,
	})
	if err != nil {
		return nil, err
	}
	return &StdLogger{logger: lg, verbose: opts.Verbose}, nil
}

// Debug logs a debug message when verbose output is enabled.
func (s *StdLogger) Debug(msg string, keysAndValues ...interface{}) {
	if !s.verbose {
		return
	}
	s.logger.Debug(msg, keysAndValues...)
}

// Info logs an info message.
func (s *StdLogger) Info(msg string, keysAndValues ...interface{}) {
	s.logger.Info(msg, keysAndValues...)
}

// Warn logs a warning message.
func (s *StdLogger) Warn(msg string, keysAndValues ...interface{}) {
	s.logger.Warn(msg, keysAndValues...)
}

// Error logs an error message.
func (s *StdLogger) Error(msg string, keysAndValues ...interface{}) {
	s.logger.Error(msg, keysAndValues...)
}

// Close flushes and closes the logger.
func (s *StdLogger) Close() error {
	return s.logger.Close()
}
