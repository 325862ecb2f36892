package search

import (
	"strings"

	"github.com/propdesk/propdesk/internal/domain"
)

// SubstringProvider matches if any configured field contains the query.
type SubstringProvider struct {
	opts Options
}

// NewSubstringProvider creates a new substring search provider.
func NewSubstringProvider(opts ...Option) Provider {
	return &SubstringProvider{opts: applyOptions(opts)}
}

// Match returns true if any configured field contains the trimmed query.
func (s *SubstringProvider) Match(p domain.Property, query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	if s.opts.CaseInsensitive {
		query = strings.ToLower(query)
	}
	for _, field := range s.opts.Fields {
		value := fieldValue(p, field)
		if value == "" {
			continue
		}
		if s.opts.CaseInsensitive {
			value = strings.ToLower(value)
		}
		if strings.Contains(value, query) {
			return true
		}
	}
	return false
}

// Name returns the provider name.
func (s *SubstringProvider) Name() string {
	return "substring"
}
