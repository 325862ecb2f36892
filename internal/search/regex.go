package search

import (
	"regexp"
	"sync"

	"github.com/propdesk/propdesk/internal/domain"
)

// RegexProvider matches if any configured field matches the query as a
// regular expression. Compiled patterns are cached.
type RegexProvider struct {
	opts    Options
	cache   map[string]*regexp.Regexp
	cacheMu sync.RWMutex
}

// NewRegexProvider creates a new regex search provider.
func NewRegexProvider(opts ...Option) Provider {
	return &RegexProvider{
		opts:  applyOptions(opts),
		cache: make(map[string]*regexp.Regexp),
	}
}

// Match returns true if any configured field matches query. An invalid
// pattern matches nothing.
func (r *RegexProvider) Match(p domain.Property, query string) bool {
	if query == "" {
		return true
	}
	re, err := r.compile(query)
	if err != nil {
		return false
	}
	for _, field := range r.opts.Fields {
		value := fieldValue(p, field)
		if value != "" && re.MatchString(value) {
			return true
		}
	}
	return false
}

func (r *RegexProvider) compile(pattern string) (*regexp.Regexp, error) {
	r.cacheMu.RLock()
	re, ok := r.cache[pattern]
	r.cacheMu.RUnlock()
	if ok {
		return re, nil
	}

	expr := pattern
	if r.opts.CaseInsensitive {
		expr = "(?i)" + pattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}

	r.cacheMu.Lock()
	r.cache[pattern] = re
	r.cacheMu.Unlock()
	return re, nil
}

// Name returns the provider name.
func (r *RegexProvider) Name() string {
	return "regex"
}
