// Package log provides a simple, structured logging abstraction for the
// screp2 library.
//
// By default the library uses a no-op logger that discards all output.
// Callers configure logging by calling SetLogger with their preferred
// implementation; a built-in adapter for zerolog is provided via
// NewZerologAdapter, but any type implementing Logger works.
//
// Example with zerolog:
//
//	import (
//	    "os"
//	    "github.com/rs/zerolog"
//	    "github.com/sc2rep/screp2/log"
//	)
//
//	func main() {
//	    zlog := zerolog.New(os.Stderr).With().Timestamp().Logger()
//	    log.SetLogger(log.NewZerologAdapter(zlog))
//	}
package log

import "sync"

// Field is a key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value any
}

// F is a convenience constructor for a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Logger is the interface the library logs through. Implementations should
// tolerate being called with zero fields.
type Logger interface {
	Debug(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...Field) {}
func (noopLogger) Warn(string, ...Field)  {}
func (noopLogger) Error(string, ...Field) {}

var (
	mu      sync.RWMutex
	current Logger = noopLogger{}
)

// SetLogger installs l as the package-wide logger. Passing nil restores the
// no-op logger.
func SetLogger(l Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		l = noopLogger{}
	}
	current = l
}

// Debug logs a debug-level message through the installed logger.
func Debug(msg string, fields ...Field) {
	mu.RLock()
	l := current
	mu.RUnlock()
	l.Debug(msg, fields...)
}

// Warn logs a warn-level message through the installed logger.
func Warn(msg string, fields ...Field) {
	mu.RLock()
	l := current
	mu.RUnlock()
	l.Warn(msg, fields...)
}

// Error logs an error-level message through the installed logger.
func Error(msg string, fields ...Field) {
	mu.RLock()
	l := current
	mu.RUnlock()
	l.Error(msg, fields...)
}
