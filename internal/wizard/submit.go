package wizard

import (
	"context"
	"fmt"
	"maps"

	"github.com/propdesk/propdesk/internal/domain"
)

// Submitter is the API surface used to submit a finished wizard.
type Submitter interface {
	Upload(ctx context.Context, name, contentType string, data []byte) (string, error)
	CreateProperty(ctx context.Context, payload map[string]any) (domain.Property, error)
	UpdateProperty(ctx context.Context, id string, payload map[string]any) (domain.Property, error)
	DeleteDraft(ctx context.Context, id string) error
}

// Payload merges the initial record, the selections, the NOC reference
// and the form fields. Form fields win over initial data; selections win
// over both. A nil form value clears a field the initial record has and
// is left out otherwise, so an update sends it as null.
func (w *Wizard) Payload(form map[string]any) map[string]any {
	out := maps.Clone(w.initial)
	if out == nil {
		out = map[string]any{}
	}
	for k, v := range form {
		if v == nil {
			if _, had := out[k]; !had {
				continue
			}
		}
		out[k] = v
	}
	if w.category != "" {
		out["category"] = string(w.category)
	}
	if w.purpose != "" {
		out["purpose"] = string(w.purpose)
	}
	if w.nocRecord != nil {
		out["nocId"] = w.nocRecord.ID
	}
	if w.noc != nil && w.noc.URL != "" {
		out["nocDocumentUrl"] = w.noc.URL
	}
	return out
}

// Submit uploads a pending NOC document, then creates or updates the
// property. The draft the wizard was saved as, if any, is deleted after
// a successful create.
func (w *Wizard) Submit(ctx context.Context, api Submitter, form map[string]any) (domain.Property, error) {
	if !w.isAt(StepFormDetails) {
		return domain.Property{}, &ValidationError{Step: StepFormDetails, Reason: "submit is only available on the form step"}
	}
	if w.submitted {
		return domain.Property{}, fmt.Errorf("%w: already submitted", ErrInvalidTransition)
	}

	if w.noc != nil && w.noc.URL == "" {
		url, err := api.Upload(ctx, w.noc.Name, w.noc.ContentType, w.noc.Data)
		if err != nil {
			return domain.Property{}, fmt.Errorf("upload noc document: %w", err)
		}
		w.noc.URL = url
	}

	payload := w.Payload(form)
	var (
		prop domain.Property
		err  error
	)
	if w.mode == ModeEditExisting {
		prop, err = api.UpdateProperty(ctx, w.propertyID, payload)
	} else {
		prop, err = api.CreateProperty(ctx, payload)
	}
	if err != nil {
		return domain.Property{}, fmt.Errorf("submit property: %w", err)
	}
	w.submitted = true

	if w.mode != ModeEditExisting && w.draftID != "" {
		if err := api.DeleteDraft(ctx, w.draftID); err != nil {
			// non-fatal, the property already exists
			w.logger.Warn("failed to delete submitted draft", "draft_id", w.draftID, "error", err.Error())
		}
	}
	w.logger.Info("property submitted", "mode", w.mode.String(), "property_id", prop.ID)
	return prop, nil
}
