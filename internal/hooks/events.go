package hooks

import (
	"encoding/json"

	"github.com/propdesk/propdesk/internal/domain"
)

// PropertyEnv describes a saved property to hook scripts.
func PropertyEnv(p domain.Property) []string {
	return []string{
		"PROPDESK_PROPERTY_ID=" + p.ID,
		"PROPDESK_PROPERTY_TITLE=" + p.Title,
		"PROPDESK_PROPERTY_REFERENCE=" + p.Reference,
		"PROPDESK_PROPERTY_CATEGORY=" + string(p.Category),
		"PROPDESK_PROPERTY_PURPOSE=" + string(p.Purpose),
	}
}

// PayloadEnv passes a pending submission as JSON in PROPDESK_PAYLOAD.
// id is empty for new properties.
func PayloadEnv(id string, payload map[string]any) []string {
	data, err := json.Marshal(payload)
	if err != nil {
		data = []byte("{}")
	}
	return []string{"PROPDESK_PROPERTY_ID=" + id, "PROPDESK_PAYLOAD=" + string(data)}
}

// DraftEnv describes a draft.
func DraftEnv(id string) []string {
	return []string{"PROPDESK_DRAFT_ID=" + id}
}
