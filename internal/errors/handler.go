package errors

// ErrorHandler is the interface for error handling.
// The CLI prints, the TUI keeps messages for the status bar.
type ErrorHandler interface {
	Error(msg string)
	Warning(msg string)
	Info(msg string)
	Success(msg string)
}

// CLIHandler prints messages through a ColorOutput, normally the colors package.
// Errors and warnings carry the failing command's path when one is set.
type CLIHandler struct {
	colors  ColorOutput
	command string
}

// ColorOutput is the subset of the colors package the CLI handler uses.
type ColorOutput interface {
	Error(msgs ...string)
	Warning(msgs ...string)
	Info(msgs ...string)
	Success(msgs ...string)
}

func NewCLIHandler(colors ColorOutput) *CLIHandler {
	return &CLIHandler{colors: colors}
}

// WithCommand returns a copy of h that prefixes errors and warnings with
// path, e.g. "propdesk draft resume".
func (h *CLIHandler) WithCommand(path string) *CLIHandler {
	c := *h
	c.command = path
	return &c
}

func (h *CLIHandler) prefixed(msg string) string {
	if h.command == "" {
		return msg
	}
	return h.command + ": " + msg
}

func (h *CLIHandler) Error(msg string) {
	h.colors.Error(h.prefixed(msg))
}

func (h *CLIHandler) Warning(msg string) {
	h.colors.Warning(h.prefixed(msg))
}

func (h *CLIHandler) Info(msg string) {
	h.colors.Info(msg)
}

func (h *CLIHandler) Success(msg string) {
	h.colors.Success(msg)
}
