package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldParse(t *testing.T) {
	price, _ := LookupField("price")
	title, _ := LookupField("propertyTitle")

	tests := []struct {
		name    string
		field   Field
		raw     string
		want    any
		ok      bool
		wantErr bool
	}{
		{"text", title, "  Sea view ", "Sea view", true, false},
		{"empty", title, "   ", nil, false, false},
		{"number", price, "1,250,000", 1250000.0, true, false},
		{"not a number", price, "lots", nil, false, true},
		{"negative", price, "-1", nil, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := tt.field.Parse(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildFormKeepsUnknownKeys(t *testing.T) {
	form, err := BuildForm(map[string]string{"price": "900", "bedrooms": "3", "location": ""})

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"price": 900.0, "bedrooms": "3", "location": nil}, form)
}

func TestMissing(t *testing.T) {
	assert.Equal(t, []string{"Title", "Location", "Price"}, Missing(map[string]any{}))
	assert.Empty(t, Missing(map[string]any{"propertyTitle": "X", "location": "Marina", "price": 1.0}))
}

func TestParseAssignments(t *testing.T) {
	got, err := ParseAssignments([]string{"propertyTitle=Villa = 1", "price=10"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"propertyTitle": "Villa = 1", "price": "10"}, got)

	_, err = ParseAssignments([]string{"novalue"})
	assert.Error(t, err)
}

func TestFieldDisplay(t *testing.T) {
	price, _ := LookupField("price")
	assert.Equal(t, "2500000", price.Display(2500000.0))
	assert.Equal(t, "", price.Display(nil))
	assert.Equal(t, "x", price.Display("x"))
}
