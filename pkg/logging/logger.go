package logging

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// colorEnabled controls whether or not colorized output is emitted. It is
// disabled automatically when standard error isn't a real terminal, matching
// common CLI conventions.
var colorEnabled = isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())

// writer is an io.Writer that splits its input stream into lines and writes
// those lines to an underlying logger.
type writer struct {
	// callback is the logging callback.
	callback func(string)
	// buffer is any incomplete line fragment left over from a previous write.
	buffer []byte
}

// trimCarriageReturn trims any single trailing carriage return from the end of
// a byte slice.
func trimCarriageReturn(buffer []byte) []byte {
	if len(buffer) > 0 && buffer[len(buffer)-1] == '\r' {
		return buffer[:len(buffer)-1]
	}
	return buffer
}

// Write implements io.Writer.Write.
func (w *writer) Write(buffer []byte) (int, error) {
	w.buffer = append(w.buffer, buffer...)

	var processed int
	remaining := w.buffer
	for {
		index := bytes.IndexByte(remaining, '\n')
		if index == -1 {
			break
		}

		w.callback(string(trimCarriageReturn(remaining[:index])))

		processed += index + 1
		remaining = remaining[index+1:]
	}

	if processed > 0 {
		leftover := len(w.buffer) - processed
		if leftover > 0 {
			copy(w.buffer[:leftover], w.buffer[processed:])
		}
		w.buffer = w.buffer[:leftover]
	}

	return len(buffer), nil
}

// Logger is the main logger type. It has the property that it still functions
// if nil, but doesn't log anything in that case. It wraps the standard
// logger provided by the log package, so it respects any flags set for that
// logger. It is safe for concurrent usage.
type Logger struct {
	// prefix is any prefix specified for the logger.
	prefix string
	// level is the minimum severity that this logger (and its subloggers,
	// unless overridden) will emit.
	level Level
}

// RootLogger is the root logger from which all other loggers derive. Its
// level defaults to LevelInfo.
var RootLogger = &Logger{level: LevelInfo}

// NewRoot creates a new root logger at the specified level.
func NewRoot(level Level) *Logger {
	return &Logger{level: level}
}

// Sublogger creates a new sublogger with the specified name, inheriting the
// parent's level.
func (l *Logger) Sublogger(name string) *Logger {
	if l == nil {
		return nil
	}

	prefix := name
	if l.prefix != "" {
		prefix = l.prefix + "." + name
	}

	return &Logger{
		prefix: prefix,
		level:  l.level,
	}
}

// output is the internal logging method.
func (l *Logger) output(calldepth int, line string) {
	if l.prefix != "" {
		line = fmt.Sprintf("[%s] %s", l.prefix, line)
	}
	log.Output(calldepth, line)
}

func (l *Logger) enabled(level Level) bool {
	return l != nil && l.level >= level
}

// Print logs information with semantics equivalent to fmt.Print.
func (l *Logger) Print(v ...interface{}) {
	if l.enabled(LevelInfo) {
		l.output(3, fmt.Sprint(v...))
	}
}

// Printf logs information with semantics equivalent to fmt.Printf.
func (l *Logger) Printf(format string, v ...interface{}) {
	if l.enabled(LevelInfo) {
		l.output(3, fmt.Sprintf(format, v...))
	}
}

// Infof logs informational messages, the common case for request-scoped
// progress reporting in the service.
func (l *Logger) Infof(format string, v ...interface{}) {
	if l.enabled(LevelInfo) {
		l.output(3, fmt.Sprintf(format, v...))
	}
}

// Writer returns an io.Writer that writes lines using Print.
func (l *Logger) Writer() io.Writer {
	if l == nil {
		return io.Discard
	}
	return &writer{callback: func(s string) { l.Print(s) }}
}

// Debug logs information with semantics equivalent to fmt.Print, but only if
// debug-level logging is enabled (otherwise it's a no-op).
func (l *Logger) Debug(v ...interface{}) {
	if l.enabled(LevelDebug) {
		l.output(3, fmt.Sprint(v...))
	}
}

// Debugf logs information with semantics equivalent to fmt.Printf, but only
// if debug-level logging is enabled (otherwise it's a no-op).
func (l *Logger) Debugf(format string, v ...interface{}) {
	if l.enabled(LevelDebug) {
		l.output(3, fmt.Sprintf(format, v...))
	}
}

// DebugWriter returns an io.Writer that writes lines using Debug.
func (l *Logger) DebugWriter() io.Writer {
	if l == nil {
		return io.Discard
	}
	return &writer{callback: func(s string) { l.Debug(s) }}
}

// Warnf logs a warning with a yellow prefix, if warn-level logging is
// enabled.
func (l *Logger) Warnf(format string, v ...interface{}) {
	if !l.enabled(LevelWarn) {
		return
	}
	message := fmt.Sprintf(format, v...)
	if colorEnabled {
		message = color.YellowString("Warning: %s", message)
	} else {
		message = "Warning: " + message
	}
	l.output(3, message)
}

// Warn logs error information with a warning prefix and yellow color.
func (l *Logger) Warn(err error) {
	l.Warnf("%v", err)
}

// Errorf logs an error with a red prefix, if error-level logging is enabled.
func (l *Logger) Errorf(format string, v ...interface{}) {
	if !l.enabled(LevelError) {
		return
	}
	message := fmt.Sprintf(format, v...)
	if colorEnabled {
		message = color.RedString("Error: %s", message)
	} else {
		message = "Error: " + message
	}
	l.output(3, message)
}

// Error logs error information with an error prefix and red color.
func (l *Logger) Error(err error) {
	l.Errorf("%v", err)
}
