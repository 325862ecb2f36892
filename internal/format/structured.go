package format

import (
	"encoding/json"
	"io"

	"github.com/propdesk/propdesk/internal/domain"
	"gopkg.in/yaml.v3"
)

// JSONFormatter prints records as an indented JSON array.
type JSONFormatter struct{}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func writeJSON[T any](items []T, writer io.Writer) error {
	if items == nil {
		items = []T{}
	}
	enc := json.NewEncoder(writer)
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}

func (f *JSONFormatter) FormatProperties(props []domain.Property, writer io.Writer) error {
	return writeJSON(props, writer)
}

func (f *JSONFormatter) FormatDrafts(drafts []domain.Draft, writer io.Writer) error {
	return writeJSON(drafts, writer)
}

func (f *JSONFormatter) FormatPasswords(entries []domain.PasswordEntry, writer io.Writer) error {
	return writeJSON(entries, writer)
}

func (f *JSONFormatter) FormatWatermarks(items []domain.Watermark, writer io.Writer) error {
	return writeJSON(items, writer)
}

// YAMLFormatter prints records as a YAML sequence.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAMLFormatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

func writeYAML[T any](items []T, writer io.Writer) error {
	if items == nil {
		items = []T{}
	}
	enc := yaml.NewEncoder(writer)
	enc.SetIndent(2)
	if err := enc.Encode(items); err != nil {
		return err
	}
	return enc.Close()
}

func (f *YAMLFormatter) FormatProperties(props []domain.Property, writer io.Writer) error {
	return writeYAML(props, writer)
}

func (f *YAMLFormatter) FormatDrafts(drafts []domain.Draft, writer io.Writer) error {
	return writeYAML(drafts, writer)
}

func (f *YAMLFormatter) FormatPasswords(entries []domain.PasswordEntry, writer io.Writer) error {
	return writeYAML(entries, writer)
}

func (f *YAMLFormatter) FormatWatermarks(items []domain.Watermark, writer io.Writer) error {
	return writeYAML(items, writer)
}
