// Package interfaces defines core domain contracts.
//
//nolint:revive // Package name 'interfaces' is intentional for domain layer
package interfaces

import (
	"fmt"
	"strings"
)

// Logger is the structured logger every orchestrator and gateway writes
// through. Composed command lines go out at Info.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field is one key=value pair appended to a log line
type Field struct {
	Key   string
	Value interface{}
}

// F creates a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// String renders the field as key=value, quoting values that hold
// whitespace or quotes.
func (f Field) String() string {
	s := fmt.Sprint(f.Value)
	if s == "" || strings.ContainsAny(s, " \t\"") {
		s = fmt.Sprintf("%q", s)
	}
	return f.Key + "=" + s
}

// Line joins a message and its fields into a single log line.
func Line(msg string, fields []Field) string {
	if len(fields) == 0 {
		return msg
	}
	var b strings.Builder
	b.WriteString(msg)
	for _, f := range fields {
		b.WriteByte(' ')
		b.WriteString(f.String())
	}
	return b.String()
}

// NoOpLogger discards everything. Constructors fall back to it when
// handed a nil Logger.
type NoOpLogger struct{}

func (n *NoOpLogger) Debug(_ string, _ ...Field) {}
func (n *NoOpLogger) Info(_ string, _ ...Field)  {}
func (n *NoOpLogger) Warn(_ string, _ ...Field)  {}
func (n *NoOpLogger) Error(_ string, _ ...Field) {}
