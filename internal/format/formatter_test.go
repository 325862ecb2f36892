package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/propdesk/propdesk/internal/domain"
	"github.com/propdesk/propdesk/internal/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var sampleProps = []domain.Property{
	{
		ID:        "p1",
		Reference: "PD-0001",
		Title:     "Palm Jumeirah Villa with a private beach and a very long description",
		Category:  domain.CategoryResidential,
		Purpose:   domain.PurposeSale,
		Location:  "Palm Jumeirah",
		Price:     12500000,
		Area:      7200,
		Status:    domain.StatusAvailable,
	},
	{ID: "p2", Reference: "PD-0002", Title: "Studio", Price: 45000.5},
}

func TestFormatterFactory(t *testing.T) {
	tests := []struct {
		name     string
		ftype    FormatterType
		expected interface{}
	}{
		{"Simple", FormatterTypeSimple, &SimpleFormatter{}},
		{"Table", FormatterTypeTable, &TableFormatter{}},
		{"JSON", FormatterTypeJSON, &JSONFormatter{}},
		{"YAML", FormatterTypeYAML, &YAMLFormatter{}},
		{"Unknown", FormatterType("unknown"), &SimpleFormatter{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.IsType(t, tt.expected, NewFormatter(tt.ftype, nil))
		})
	}
}

func TestParseFormatterType(t *testing.T) {
	got, err := ParseFormatterType(" YAML ")
	require.NoError(t, err)
	assert.Equal(t, FormatterTypeYAML, got)

	_, err = ParseFormatterType("csv")
	assert.Error(t, err)
}

func TestPrice(t *testing.T) {
	assert.Equal(t, "12,500,000", Price(12500000))
	assert.Equal(t, "45,000.5", Price(45000.5))
	assert.Equal(t, "999", Price(999))
	assert.Equal(t, "-", Price(0))
	assert.Equal(t, "7200 sqft", Area(7200))
}

func TestSimpleFormatterProperties(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewSimpleFormatter().FormatProperties(sampleProps, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "PD-0001")
	assert.Contains(t, lines[0], "Palm Jumeirah Villa with a private be...")
	assert.Contains(t, lines[0], "12,500,000")
	assert.Contains(t, lines[1], "-")
}

func TestSimpleFormatterDrafts(t *testing.T) {
	var buf bytes.Buffer
	drafts := []domain.Draft{
		{ID: "d1", Data: map[string]any{"propertyTitle": "Marina flat"}},
		{ID: "d2"},
	}
	require.NoError(t, NewSimpleFormatter().FormatDrafts(drafts, &buf))
	assert.Contains(t, buf.String(), "Marina flat")
	assert.Contains(t, buf.String(), "(untitled)")
}

func TestTableFormatterSelectsColumns(t *testing.T) {
	var buf bytes.Buffer
	f := NewTableFormatter([]string{settings.ColumnReference, settings.ColumnPrice, "bogus"})
	require.NoError(t, f.FormatProperties(sampleProps, &buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Reference")
	assert.Contains(t, lines[0], "Price")
	assert.NotContains(t, lines[0], "Title")
	assert.Contains(t, lines[2], "PD-0001")
	assert.True(t, strings.HasSuffix(lines[2], "12,500,000"))
}

func TestTableFormatterEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(nil).FormatWatermarks(nil, &buf))
	assert.Empty(t, buf.String())
}

func TestTableFormatterPasswords(t *testing.T) {
	var buf bytes.Buffer
	entries := []domain.PasswordEntry{domain.PasswordEntry{ID: "pw1", Title: "Portal", Username: "agent", Password: "hunter2"}.Redacted()}
	require.NoError(t, NewTableFormatter(nil).FormatPasswords(entries, &buf))
	assert.Contains(t, buf.String(), "********")
	assert.NotContains(t, buf.String(), "hunter2")
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter().FormatProperties(sampleProps, &buf))

	var decoded []domain.Property
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, sampleProps, decoded)

	buf.Reset()
	require.NoError(t, NewJSONFormatter().FormatDrafts(nil, &buf))
	assert.Equal(t, "[]\n", buf.String())
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewYAMLFormatter().FormatWatermarks([]domain.Watermark{{ID: "w1", Name: "Logo", Opacity: 0.5}}, &buf))

	assert.Contains(t, buf.String(), "name: Logo")

	var decoded []domain.Watermark
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, 0.5, decoded[0].Opacity)
}
