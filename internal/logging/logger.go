package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

type Level int

const (
	LevelDebug   Level = 10
	LevelInfo    Level = 20
	LevelWarning Level = 30
	LevelError   Level = 40
	LevelProd    Level = 50
)

var levelNames = map[Level]string{
	LevelDebug:   "DEBUG",
	LevelInfo:    "INFO",
	LevelWarning: "WARNING",
	LevelError:   "ERROR",
	LevelProd:    "PROD",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", int(l))
}

// ParseLevel maps a level name to its severity. Unknown names fall back to
// DEBUG so that a typo never hides output.
func ParseLevel(name string) Level {
	name = strings.ToUpper(strings.TrimSpace(name))
	for lvl, n := range levelNames {
		if n == name {
			return lvl
		}
	}
	return LevelDebug
}

// Logger writes "LEVEL: message" lines for messages at or above its minimum level.
type Logger struct {
	out    *log.Logger
	min    Level
	closer io.Closer
}

func New(w io.Writer, min Level) *Logger {
	return &Logger{
		out: log.New(w, "", 0),
		min: min,
	}
}

// NewFile appends to the file at path, creating it when needed.
func NewFile(path string, min Level) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	l := New(f, min)
	l.closer = f
	return l, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return New(io.Discard, LevelProd+1)
}

func (l *Logger) Enabled(level Level) bool {
	return l != nil && level >= l.min
}

func (l *Logger) Logf(level Level, format string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	l.out.Printf("%s: %s", level, fmt.Sprintf(format, args...))
}

func (l *Logger) Debugf(format string, args ...any)   { l.Logf(LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...any)    { l.Logf(LevelInfo, format, args...) }
func (l *Logger) Warningf(format string, args ...any) { l.Logf(LevelWarning, format, args...) }
func (l *Logger) Errorf(format string, args ...any)   { l.Logf(LevelError, format, args...) }
func (l *Logger) Prodf(format string, args ...any)    { l.Logf(LevelProd, format, args...) }

func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
