// Package search matches properties against free-text queries. The
// fixture API uses it for the search parameter of listing endpoints.
package search

import (
	"fmt"
	"strings"

	"github.com/propdesk/propdesk/internal/domain"
)

// Provider matches a property against a query.
type Provider interface {
	// Match returns true if p matches query. An empty query matches
	// everything.
	Match(p domain.Property, query string) bool

	Name() string
}

// Searchable fields.
const (
	FieldTitle     = "title"
	FieldReference = "reference"
	FieldLocation  = "location"
	FieldPermit    = "permit"
	FieldCategory  = "category"
	FieldPurpose   = "purpose"
)

// Options holds configuration options for creating search providers.
type Options struct {
	CaseInsensitive bool
	Fields          []string
}

// DefaultOptions searches the text fields a user would type, ignoring case.
func DefaultOptions() Options {
	return Options{
		CaseInsensitive: true,
		Fields:          []string{FieldTitle, FieldReference, FieldLocation, FieldPermit},
	}
}

// Option is a function that modifies search options.
type Option func(*Options)

// WithCaseInsensitive sets case-insensitive search.
func WithCaseInsensitive(enabled bool) Option {
	return func(o *Options) {
		o.CaseInsensitive = enabled
	}
}

// WithFields sets the fields to search in.
func WithFields(fields ...string) Option {
	return func(o *Options) {
		o.Fields = fields
	}
}

func applyOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func fieldValue(p domain.Property, field string) string {
	switch field {
	case FieldTitle:
		return p.Title
	case FieldReference:
		return p.Reference
	case FieldLocation:
		return p.Location
	case FieldPermit:
		return p.PermitNumber
	case FieldCategory:
		return string(p.Category)
	case FieldPurpose:
		return string(p.Purpose)
	}
	return ""
}

// New returns the provider called name: substring, token or regex.
func New(name string, opts ...Option) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "substring":
		return NewSubstringProvider(opts...), nil
	case "token":
		return NewTokenProvider(opts...), nil
	case "regex":
		return NewRegexProvider(opts...), nil
	}
	return nil, fmt.Errorf("unknown search mode: %s", name)
}

// Filter keeps the properties p matches, in order.
func Filter(props []domain.Property, p Provider, query string) []domain.Property {
	if strings.TrimSpace(query) == "" {
		return props
	}
	out := make([]domain.Property, 0)
	for _, prop := range props {
		if p.Match(prop, query) {
			out = append(out, prop)
		}
	}
	return out
}
