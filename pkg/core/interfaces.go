package core

import "log"

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// StdLogger implements Logger on top of a standard library *log.Logger
type StdLogger struct {
	logger *log.Logger
}

// NewStdLogger wraps l; a nil l uses the package-level log output
func NewStdLogger(l *log.Logger) *StdLogger {
	if l == nil {
		l = log.Default()
	}
	return &StdLogger{logger: l}
}

// Printf implements Logger
func (s *StdLogger) Printf(format string, args ...interface{}) {
	s.logger.Printf(format, args...)
}

// NopLogger discards all messages
type NopLogger struct{}

// Printf implements Logger
func (NopLogger) Printf(string, ...interface{}) {}
