package wizard

import (
	"fmt"
	"strconv"
	"strings"
)

// Field is one input of the form step.
type Field struct {
	Key      string
	Label    string
	Numeric  bool
	Required bool
}

// Fields lists the form step inputs in display order.
var Fields = []Field{
	{Key: "propertyTitle", Label: "Title", Required: true},
	{Key: "reference", Label: "Reference"},
	{Key: "propertyType", Label: "Type"},
	{Key: "location", Label: "Location", Required: true},
	{Key: "price", Label: "Price", Numeric: true, Required: true},
	{Key: "area", Label: "Area (sqft)", Numeric: true},
	{Key: "permitNumber", Label: "Permit number"},
	{Key: "status", Label: "Status"},
}

// LookupField returns the field with the given key.
func LookupField(key string) (Field, bool) {
	for _, f := range Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Parse converts raw input into the value sent to the API. Numeric
// fields become float64; empty input yields ok=false.
func (f Field) Parse(raw string) (any, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false, nil
	}
	if !f.Numeric {
		return raw, true, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return nil, false, fmt.Errorf("%s must be a number, got %q", strings.ToLower(f.Label), raw)
	}
	if v < 0 {
		return nil, false, fmt.Errorf("%s must not be negative", strings.ToLower(f.Label))
	}
	return v, true, nil
}

// Display renders a record value for prefilling an input.
func (f Field) Display(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	default:
		return fmt.Sprint(x)
	}
}

// BuildForm parses raw values keyed by field key. Unknown keys are kept
// as strings so extra record fields survive a round trip. An empty value
// becomes nil, which clears the field in Payload.
func BuildForm(raw map[string]string) (map[string]any, error) {
	form := make(map[string]any, len(raw))
	for k, r := range raw {
		f, known := LookupField(k)
		if !known {
			f = Field{Key: k, Label: k}
		}
		v, ok, err := f.Parse(r)
		if err != nil {
			return nil, err
		}
		if !ok {
			form[k] = nil
			continue
		}
		form[k] = v
	}
	return form, nil
}

// Missing returns the labels of required fields absent from the merged
// payload.
func Missing(payload map[string]any) []string {
	var out []string
	for _, f := range Fields {
		if !f.Required {
			continue
		}
		v, ok := payload[f.Key]
		if !ok || v == nil || v == "" {
			out = append(out, f.Label)
		}
	}
	return out
}

// ParseAssignments turns key=value pairs into raw form input.
func ParseAssignments(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid assignment %q, expected key=value", p)
		}
		out[k] = v
	}
	return out, nil
}
