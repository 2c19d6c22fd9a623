// Package logger provides the leveled console logger used by the srcbundle
// commands. Output is timestamped, optionally colored when attached to a
// TTY, and safe for concurrent use.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

const (
	levelDebug = iota
	levelInfo
	levelWarn
	levelError
)

var levelNames = map[string]int{
	"debug": levelDebug,
	"info":  levelInfo,
	"warn":  levelWarn,
	"error": levelError,
}

// ConsoleLogger writes leveled, timestamped messages to a writer.
// Messages below the configured level are dropped. A nil writer discards
// everything.
type ConsoleLogger struct {
	writer   io.Writer
	level    int
	mu       sync.Mutex
	colorize bool
}

// NewConsoleLogger creates a logger writing to w at the given level
// ("debug", "info", "warn", "error"; empty or unknown defaults to "info").
// Color is enabled automatically when w is a terminal.
func NewConsoleLogger(w io.Writer, level string) *ConsoleLogger {
	lvl, ok := levelNames[strings.ToLower(strings.TrimSpace(level))]
	if !ok {
		lvl = levelInfo
	}
	return &ConsoleLogger{writer: w, level: lvl, colorize: isTerminal(w)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return (f == os.Stdout || f == os.Stderr) &&
		(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) &&
		!color.NoColor
}

// Debugf logs a debug-level message.
func (l *ConsoleLogger) Debugf(format string, args ...any) {
	l.logf(levelDebug, color.FgHiBlack, format, args...)
}

// Infof logs an info-level message.
func (l *ConsoleLogger) Infof(format string, args ...any) {
	l.logf(levelInfo, 0, format, args...)
}

// Warnf logs a warning.
func (l *ConsoleLogger) Warnf(format string, args ...any) {
	l.logf(levelWarn, color.FgYellow, format, args...)
}

// Errorf logs an error.
func (l *ConsoleLogger) Errorf(format string, args ...any) {
	l.logf(levelError, color.FgRed, format, args...)
}

func (l *ConsoleLogger) logf(level int, attr color.Attribute, format string, args ...any) {
	if l == nil || l.writer == nil || level < l.level {
		return
	}

	message := fmt.Sprintf(format, args...)
	if l.colorize && attr != 0 {
		message = color.New(attr).Sprint(message)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.writer, "[%s] %s\n", time.Now().Format("15:04:05"), message)
}
