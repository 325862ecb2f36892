// Package colors provides styled console output for propdesk.
// Every message is mirrored to the structured logger when one is set.
package colors

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// ANSI palette numbers shared with the TUI renderers.
const (
	Red    = "1"
	Green  = "2"
	Yellow = "3"
	Blue   = "4"
	Cyan   = "6"
	Gray   = "241"
)

const checkmark = "✓"

var (
	errorLabel   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Red))
	warningLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Yellow))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(Blue))
	successMark  = lipgloss.NewStyle().Foreground(lipgloss.Color(Green))
	debugLabel   = lipgloss.NewStyle().Foreground(lipgloss.Color(Cyan))
)

// Logger defines the interface for structured logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

var (
	debugEnabled = false
	quiet        = false
	logger       Logger
	loggerMu     sync.RWMutex

	outMu  sync.Mutex
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func init() {
	if val := os.Getenv("PROPDESK_DEBUG"); val == "true" || val == "1" {
		debugEnabled = true
	}
}

// SetDebug enables or disables debug output.
func SetDebug(enabled bool) {
	debugEnabled = enabled
}

// SetQuiet suppresses Info and Success output. Errors and warnings still print.
func SetQuiet(enabled bool) {
	quiet = enabled
}

// SetLogger sets the structured logger to mirror console output.
func SetLogger(l Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}

// SetOutput redirects console output. Nil writers restore the process defaults.
func SetOutput(out, errOut io.Writer) {
	outMu.Lock()
	defer outMu.Unlock()
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	stdout = out
	stderr = errOut
}

func currentLogger() Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// write prints a line and falls back to a plain stderr write when the
// target writer fails. The fallback never recurses into this package.
func write(toStderr bool, line string) {
	outMu.Lock()
	w := stdout
	if toStderr {
		w = stderr
	}
	_, err := fmt.Fprintln(w, line)
	outMu.Unlock()
	if err != nil {
		fmt.Fprintf(os.Stderr, "colors: write failed: %v\n", err)
	}
}

// Error outputs an error message to stderr.
func Error(msgs ...string) {
	msg := strings.Join(msgs, " ")
	if l := currentLogger(); l != nil {
		l.Error(msg)
	}
	write(true, errorLabel.Render("Error:")+" "+msg)
}

// Warning outputs a warning message to stderr.
func Warning(msgs ...string) {
	msg := strings.Join(msgs, " ")
	if l := currentLogger(); l != nil {
		l.Warn(msg)
	}
	write(true, warningLabel.Render("Warning:")+" "+msg)
}

// Info outputs an informational message to stdout.
func Info(msgs ...string) {
	msg := strings.Join(msgs, " ")
	if l := currentLogger(); l != nil {
		l.Info(msg)
	}
	if quiet {
		return
	}
	write(false, infoStyle.Render(msg))
}

// Success outputs a success message to stdout.
func Success(msgs ...string) {
	msg := strings.Join(msgs, " ")
	if l := currentLogger(); l != nil {
		l.Info(msg, "type", "success")
	}
	if quiet {
		return
	}
	write(false, successMark.Render(checkmark)+" "+msg)
}

// Debug outputs a debug message to stderr if debug is enabled.
func Debug(msgs ...string) {
	if !debugEnabled {
		return
	}
	msg := strings.Join(msgs, " ")
	if l := currentLogger(); l != nil {
		l.Debug(msg)
	}
	write(true, debugLabel.Render("Debug:")+" "+msg)
}
