// Package logging adapts github.com/schollz/logger to interfaces.Logger.
package logging

import (
	"fmt"
	"io"
	"strings"

	log "github.com/schollz/logger"

	"github.com/ochairo/shipyard/internal/domain/interfaces"
)

// Levels accepted by --log-level, most verbose first.
var Levels = []string{"trace", "debug", "info", "warn", "error"}

// DefaultLevel is used when no level is configured.
const DefaultLevel = "info"

// Logger writes key=value structured lines through schollz/logger.
// schollz/logger keeps package-level state, so every Logger shares one
// level and one output. Lines are passed as a %s argument, never as the
// format, since commands and paths carry their own % signs.
type Logger struct{}

// New configures the shared logger and returns an adapter for it.
func New(level string, out io.Writer) (*Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	log.SetLevel(lvl)
	if out != nil {
		log.SetOutput(out)
	}
	return &Logger{}, nil
}

// ParseLevel validates a level name, defaulting the empty string.
func ParseLevel(level string) (string, error) {
	if level == "" {
		return DefaultLevel, nil
	}
	l := strings.ToLower(level)
	for _, valid := range Levels {
		if l == valid {
			return l, nil
		}
	}
	return "", fmt.Errorf("invalid log level %q (valid: %s)", level, strings.Join(Levels, ", "))
}

// Debug logs debug-level messages
func (l *Logger) Debug(msg string, fields ...interfaces.Field) {
	log.Debugf("%s", interfaces.Line(msg, fields))
}

// Info logs informational messages
func (l *Logger) Info(msg string, fields ...interfaces.Field) {
	log.Infof("%s", interfaces.Line(msg, fields))
}

// Warn logs warning messages
func (l *Logger) Warn(msg string, fields ...interfaces.Field) {
	log.Warnf("%s", interfaces.Line(msg, fields))
}

// Error logs error messages
func (l *Logger) Error(msg string, fields ...interfaces.Field) {
	log.Errorf("%s", interfaces.Line(msg, fields))
}
