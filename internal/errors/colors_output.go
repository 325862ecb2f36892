package errors

import "github.com/propdesk/propdesk/internal/colors"

// ColorsOutput adapts the colors package to implement ColorOutput.
type ColorsOutput struct{}

var _ ColorOutput = (*ColorsOutput)(nil)

func (o *ColorsOutput) Error(msgs ...string) {
	colors.Error(msgs...)
}

func (o *ColorsOutput) Warning(msgs ...string) {
	colors.Warning(msgs...)
}

func (o *ColorsOutput) Info(msgs ...string) {
	colors.Info(msgs...)
}

func (o *ColorsOutput) Success(msgs ...string) {
	colors.Success(msgs...)
}

// NewDefaultCLIHandler creates a CLI handler using ColorsOutput.
func NewDefaultCLIHandler() *CLIHandler {
	return NewCLIHandler(&ColorsOutput{})
}

// Report describes err and routes it to h at the matching severity.
// Stale listing responses are dropped.
func Report(h ErrorHandler, err error) {
	if err == nil {
		return
	}
	msg, sev := Describe(err)
	switch sev {
	case SeverityIgnore:
	case SeverityWarning:
		h.Warning(msg)
	default:
		h.Error(msg)
	}
}
