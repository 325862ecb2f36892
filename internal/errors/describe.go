package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/propdesk/propdesk/internal/api"
	"github.com/propdesk/propdesk/internal/drafts"
	"github.com/propdesk/propdesk/internal/listing"
	"github.com/propdesk/propdesk/internal/wizard"
)

// Severity is how loudly an error should be surfaced.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityIgnore
)

// Describe turns err into a one-line message for the user.
func Describe(err error) (string, Severity) {
	if err == nil {
		return "", SeverityIgnore
	}

	if stderrors.Is(err, listing.ErrStaleResponse) || stderrors.Is(err, context.Canceled) {
		return "", SeverityIgnore
	}
	if stderrors.Is(err, listing.ErrNoMorePages) {
		return "All results loaded", SeverityWarning
	}

	var valErr *wizard.ValidationError
	if stderrors.As(err, &valErr) {
		return fmt.Sprintf("Cannot continue from %s: %s", valErr.Step, valErr.Reason), SeverityWarning
	}
	if stderrors.Is(err, wizard.ErrInvalidTransition) {
		return "That action is not available at this step", SeverityWarning
	}
	if stderrors.Is(err, drafts.ErrNotFound) {
		return "Draft not found", SeverityError
	}

	var netErr *api.NetworkError
	if stderrors.As(err, &netErr) {
		return "Cannot reach the server, check your connection and retry", SeverityError
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return "The server took too long to respond, retry", SeverityError
	}

	var srvErr *api.ServerError
	if stderrors.As(err, &srvErr) {
		switch {
		case srvErr.Status == http.StatusNotFound:
			return "Not found", SeverityError
		case srvErr.Status == http.StatusUnauthorized || srvErr.Status == http.StatusForbidden:
			return "Not authorised, check api_token", SeverityError
		case srvErr.ClientError():
			if srvErr.Message != "" {
				return "Rejected: " + srvErr.Message, SeverityError
			}
			return fmt.Sprintf("Rejected by server (%d)", srvErr.Status), SeverityError
		default:
			return fmt.Sprintf("Server error (%d), retry later", srvErr.Status), SeverityError
		}
	}

	return err.Error(), SeverityError
}
