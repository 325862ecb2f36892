// Package format provides output formatting for CLI commands.
// It renders properties, drafts, vault entries and watermarks.
package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/propdesk/propdesk/internal/domain"
)

// Formatter defines the interface for output formatters.
type Formatter interface {
	FormatProperties(props []domain.Property, writer io.Writer) error
	FormatDrafts(drafts []domain.Draft, writer io.Writer) error
	FormatPasswords(entries []domain.PasswordEntry, writer io.Writer) error
	FormatWatermarks(items []domain.Watermark, writer io.Writer) error
}

// FormatterType represents the type of formatter to use.
type FormatterType string

const (
	// FormatterTypeSimple prints one line per record.
	FormatterTypeSimple FormatterType = "simple"

	// FormatterTypeTable prints aligned columns with headers.
	FormatterTypeTable FormatterType = "table"

	// FormatterTypeJSON prints a JSON array.
	FormatterTypeJSON FormatterType = "json"

	// FormatterTypeYAML prints a YAML sequence.
	FormatterTypeYAML FormatterType = "yaml"
)

// FormatterTypes lists the accepted --format values.
var FormatterTypes = []FormatterType{
	FormatterTypeSimple,
	FormatterTypeTable,
	FormatterTypeJSON,
	FormatterTypeYAML,
}

// ParseFormatterType validates a --format value.
func ParseFormatterType(s string) (FormatterType, error) {
	t := FormatterType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range FormatterTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid format: %s (expected simple, table, json or yaml)", s)
}

// NewFormatter creates a new formatter of the specified type. columns
// only affects the table formatter.
func NewFormatter(formatterType FormatterType, columns []string) Formatter {
	switch formatterType {
	case FormatterTypeTable:
		return NewTableFormatter(columns)
	case FormatterTypeJSON:
		return NewJSONFormatter()
	case FormatterTypeYAML:
		return NewYAMLFormatter()
	default:
		return NewSimpleFormatter()
	}
}

// Price renders a price without a trailing fraction when whole.
func Price(v float64) string {
	if v == 0 {
		return "-"
	}
	return groupThousands(strconv.FormatFloat(v, 'f', -1, 64))
}

func groupThousands(s string) string {
	intPart, frac, hasFrac := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// Area renders an area in square feet.
func Area(v float64) string {
	if v == 0 {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + " sqft"
}

// truncate shortens s to width runes, adding "..." if truncated.
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width < 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
