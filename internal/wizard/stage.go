// Package wizard implements the property creation flow:
// category, purpose, NOC document, then the full form. A NOC can also
// be generated inline, and saved drafts or existing properties open
// straight on the form.
package wizard

import (
	"errors"
	"fmt"
)

// Step is a position in the linear flow.
type Step int

const (
	StepCategory Step = iota
	StepPurpose
	StepNocUpload
	StepFormDetails
)

func (s Step) String() string {
	switch s {
	case StepCategory:
		return "category"
	case StepPurpose:
		return "purpose"
	case StepNocUpload:
		return "noc"
	case StepFormDetails:
		return "details"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Stage is either Linear or NocSubflow. The sub-flow can only be open
// over the NOC step, so it carries no step of its own.
type Stage interface {
	stage()
	String() string
}

// Linear is the wizard sitting on one step.
type Linear struct {
	Step Step
}

func (Linear) stage() {}

func (l Linear) String() string { return l.Step.String() }

// NocSubflow is the inline NOC generator, opened from StepNocUpload.
type NocSubflow struct{}

func (NocSubflow) stage() {}

func (NocSubflow) String() string { return "noc-subflow" }

// Mode records how the wizard was entered.
type Mode int

const (
	ModeCreate Mode = iota
	ModeResumeDraft
	ModeEditExisting
)

func (m Mode) String() string {
	switch m {
	case ModeResumeDraft:
		return "resume-draft"
	case ModeEditExisting:
		return "edit-existing"
	default:
		return "create"
	}
}

var (
	// ErrPreconditionUnmet is matched by every ValidationError.
	ErrPreconditionUnmet = errors.New("step precondition not met")

	// ErrInvalidTransition is returned for actions that do not apply to
	// the current stage.
	ErrInvalidTransition = errors.New("invalid wizard transition")
)

// ValidationError reports which requirement blocked a transition.
type ValidationError struct {
	Step   Step
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Step, e.Reason)
}

// Is makes errors.Is(err, ErrPreconditionUnmet) true.
func (e *ValidationError) Is(target error) bool {
	return target == ErrPreconditionUnmet
}
