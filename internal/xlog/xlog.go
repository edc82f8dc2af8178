// Package xlog is the compiler's logging seam: a thin, nil-safe
// wrapper over a [logrus.Entry] that mirrors the nil-check discipline
// of yammm's internal/trace package (built on log/slog there),
// adapted here to logrus since the rest of the example corpus
// (Consensys-go-corset, dolthub-go-mysql-server) reaches for logrus
// rather than slog for structured logging.
//
// The compiler core has no cancellation semantics and no concurrency,
// so unlike yammm's trace package there is no context.Context to
// thread — every call here is synchronous within one compile
// invocation.
package xlog

import (
	"time"

	"github.com/sirupsen/logrus"
)

// defaultLogger is the package-level *logrus.Logger backing [Default],
// [Debugf] and [Warnf]. It starts out as logrus.StandardLogger() and
// can be redirected wholesale with [SetLogger] — callers that want
// dependency-injected logging build their own Logger via [New] instead.
var defaultLogger = logrus.StandardLogger()

// SetLogger replaces the package-level default logger used by
// [Default], [Debugf] and [Warnf].
func SetLogger(l *logrus.Logger) {
	defaultLogger = l
}

// Default returns a Logger bound to the package-level default logger.
func Default() Logger {
	return Logger{entry: logrus.NewEntry(defaultLogger)}
}

// Debugf logs a formatted phase-internal detail through the default
// logger.
func Debugf(format string, args ...any) {
	defaultLogger.Debugf(format, args...)
}

// Warnf logs a formatted recoverable oddity through the default
// logger.
func Warnf(format string, args ...any) {
	defaultLogger.Warnf(format, args...)
}

// Logger is safe to use as a zero value: every method no-ops when its
// entry is nil, so callers that don't want logging can simply pass
// a zero Logger instead of branching on a bool everywhere.
type Logger struct {
	entry *logrus.Entry
}

// New wraps entry. Passing a nil entry is valid and yields a Logger
// whose methods are all no-ops.
func New(entry *logrus.Entry) Logger {
	return Logger{entry: entry}
}

// Nop returns a Logger that discards everything, for callers (such as
// tests) that don't want log output but still need a Logger value to
// pass around. Its nil entry makes every method a no-op.
func Nop() Logger {
	return Logger{}
}

// With returns a child Logger with additional structured fields
// attached to every subsequent log line.
func (l Logger) With(fields logrus.Fields) Logger {
	if l.entry == nil {
		return l
	}
	return Logger{entry: l.entry.WithFields(fields)}
}

// Debug logs a phase-internal detail (e.g. one merged pointer, one
// traced reference) useful when diagnosing a miscompile but too noisy
// for every run.
func (l Logger) Debug(msg string, fields logrus.Fields) {
	if l.entry == nil {
		return
	}
	l.entry.WithFields(fields).Debug(msg)
}

// Info logs a phase boundary (begin/end of layout tracing, merging,
// dependency tracing, sorting).
func (l Logger) Info(msg string, fields logrus.Fields) {
	if l.entry == nil {
		return
	}
	l.entry.WithFields(fields).Info(msg)
}

// Warn logs a recoverable oddity that isn't itself a diag.Error (for
// example, a hint computation that found zero near-matches).
func (l Logger) Warn(msg string, fields logrus.Fields) {
	if l.entry == nil {
		return
	}
	l.entry.WithFields(fields).Warn(msg)
}

// Phase begins a phase-boundary log pair and returns a span whose End
// method logs its completion, along with the elapsed duration. It
// returns nil for a no-op Logger; End is safe on nil. Mirrors
// yammm's trace.Begin/Op.End shape, simplified for a context-free,
// single-threaded core.
//
// Usage: defer l.Phase("layout").End(nil)
func (l Logger) Phase(name string) *phaseSpan {
	if l.entry == nil {
		return nil
	}
	l.entry.WithField("phase", name).Debug("phase started")
	return &phaseSpan{logger: l, name: name, start: time.Now()}
}

type phaseSpan struct {
	logger Logger
	name   string
	start  time.Time
}

// End logs the phase's completion and elapsed duration. Safe to call
// on a nil *phaseSpan (the case when the underlying Logger was itself
// nil/no-op). err, if non-nil, is logged alongside the duration but
// not wrapped or altered.
func (p *phaseSpan) End(err error) {
	if p == nil || p.logger.entry == nil {
		return
	}
	fields := logrus.Fields{
		"phase":       p.name,
		"elapsed_ms":  time.Since(p.start).Milliseconds(),
	}
	if err != nil {
		fields["error"] = err.Error()
		p.logger.entry.WithFields(fields).Warn("phase ended with error")
		return
	}
	p.logger.entry.WithFields(fields).Debug("phase ended")
}
