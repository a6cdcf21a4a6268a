// Package telemetry provides the default LogSink and ReportSink
// implementations used outside of tests: a leveled logger built on
// github.com/charmbracelet/log (the logging library doismellburning-samoyed
// wires for its device logging) and an in-memory telemetry counter set.
package telemetry

import (
	"fmt"
	"io"
	"os"
	"sync"

	charmlog "github.com/charmbracelet/log"

	"github.com/ftl/tetra-downlink/sink"
)

// Logger adapts charmbracelet/log to the decoder's five-level LogSink.
type Logger struct {
	level   sink.LogLevel
	charmed *charmlog.Logger
}

// NewLogger returns a Logger writing to w at the given level. Messages
// below level are not formatted or written.
func NewLogger(w io.Writer, level sink.LogLevel) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return &Logger{
		level:   level,
		charmed: charmlog.NewWithOptions(w, charmlog.Options{ReportTimestamp: true, Level: charmlog.DebugLevel}),
	}
}

// Log implements sink.LogSink, routing each of the decoder's five levels to
// the closest charmbracelet/log level.
func (l *Logger) Log(level sink.LogLevel, format string, args ...interface{}) {
	if level == sink.LogNone || level > l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	switch level {
	case sink.LogVeryHigh:
		l.charmed.Debug(msg)
	case sink.LogHigh:
		l.charmed.Info(msg)
	case sink.LogMedium:
		l.charmed.Warn(msg)
	case sink.LogLow:
		l.charmed.Error(msg)
	}
}

// Counters is a simple thread-safe ReportSink backed by an in-memory map,
// suitable for both the demonstration command and tests that assert on
// telemetry (§8 scenario S6's "null-pdu" counter, CRC-failure counters, etc).
type Counters struct {
	mu     sync.Mutex
	values map[string]int
}

// NewCounters returns an empty Counters set.
func NewCounters() *Counters {
	return &Counters{values: make(map[string]int)}
}

// Count implements sink.ReportSink.
func (c *Counters) Count(key string, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] += delta
}

// Get returns the current value of key (0 if never counted).
func (c *Counters) Get(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[key]
}

// Snapshot returns a copy of all counters, for reporting.
func (c *Counters) Snapshot() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make(map[string]int, len(c.values))
	for k, v := range c.values {
		result[k] = v
	}
	return result
}
