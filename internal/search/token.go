package search

import (
	"strings"

	"github.com/propdesk/propdesk/internal/domain"
)

// TokenProvider splits the query on whitespace. Each token must match at
// least one field (AND logic). The tokens "sale" and "rent" filter by
// purpose instead of matching text.
type TokenProvider struct {
	opts Options
}

// NewTokenProvider creates a new token search provider.
func NewTokenProvider(opts ...Option) Provider {
	return &TokenProvider{opts: applyOptions(opts)}
}

// Match returns true if every text token matches a field and the
// property has the requested purpose, if any.
func (t *TokenProvider) Match(p domain.Property, query string) bool {
	tokens := strings.Fields(query)
	if len(tokens) == 0 {
		return true
	}

	var (
		purposes   []domain.Purpose
		textTokens []string
	)
	for _, token := range tokens {
		switch strings.ToLower(token) {
		case "sale":
			purposes = append(purposes, domain.PurposeSale)
		case "rent":
			purposes = append(purposes, domain.PurposeRent)
		default:
			if t.opts.CaseInsensitive {
				token = strings.ToLower(token)
			}
			textTokens = append(textTokens, token)
		}
	}

	// "sale rent" asks for both, which is everything.
	if len(purposes) == 1 && p.Purpose != purposes[0] {
		return false
	}

	for _, token := range textTokens {
		if !t.matchToken(p, token) {
			return false
		}
	}
	return true
}

func (t *TokenProvider) matchToken(p domain.Property, token string) bool {
	for _, field := range t.opts.Fields {
		value := fieldValue(p, field)
		if value == "" {
			continue
		}
		if t.opts.CaseInsensitive {
			value = strings.ToLower(value)
		}
		if strings.Contains(value, token) {
			return true
		}
	}
	return false
}

// Name returns the provider name.
func (t *TokenProvider) Name() string {
	return "token"
}
