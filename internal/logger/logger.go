package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Logger writes key=value lines in the format journald ingests.
type Logger struct {
	writer io.Writer
	fields []Field
}

// New creates a new logger instance
func New() *Logger {
	return &Logger{
		writer: os.Stdout,
	}
}

// NewWithWriter creates a logger with a custom writer
func NewWithWriter(w io.Writer) *Logger {
	return &Logger{
		writer: w,
	}
}

// Info logs informational messages
func (l *Logger) Info(msg string, fields ...Field) {
	l.log("INFO", msg, fields...)
}

// Error logs error messages
func (l *Logger) Error(msg string, fields ...Field) {
	l.log("ERROR", msg, fields...)
}

// Warn logs warning messages
func (l *Logger) Warn(msg string, fields ...Field) {
	l.log("WARNING", msg, fields...)
}

// Debug logs debug messages
func (l *Logger) Debug(msg string, fields ...Field) {
	l.log("DEBUG", msg, fields...)
}

// With returns a logger that appends fields to every line.
func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{
		writer: l.writer,
		fields: append(append([]Field(nil), l.fields...), fields...),
	}
}

func (l *Logger) log(level, msg string, fields ...Field) {
	var b strings.Builder
	fmt.Fprintf(&b, "LEVEL=%s MESSAGE=%s", level, msg)
	for _, field := range l.fields {
		fmt.Fprintf(&b, " %s=%v", field.Key, field.Value)
	}
	for _, field := range fields {
		fmt.Fprintf(&b, " %s=%v", field.Key, field.Value)
	}
	_, _ = fmt.Fprintln(l.writer, b.String())
}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

// F creates a new field (shorthand)
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Common field constructors
func Action(value string) Field           { return F("ACTION", value) }
func Status(value string) Field           { return F("STATUS", value) }
func VM(value string) Field               { return F("VM", value) }
func Count(value int) Field               { return F("COUNT", value) }
func Error(value error) Field             { return F("ERROR", value) }
func Snapshot(value string) Field         { return F("SNAPSHOT", value) }
func Stale(value int) Field               { return F("STALE", value) }
func Age(value string) Field              { return F("AGE", value) }
func Skipped(value int) Field             { return F("SKIPPED", value) }
func RunID(value string) Field            { return F("RUN_ID", value) }
func Host(value string) Field             { return F("HOST", value) }
func Recipients(value []string) Field     { return F("RECIPIENTS", strings.Join(value, ",")) }
func Reason(value string) Field           { return F("REASON", value) }
func Threshold(value time.Duration) Field { return F("THRESHOLD", value.String()) }
