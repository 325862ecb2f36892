package logging

import (
	"regexp"
	"strings"
)

const redacted = "[REDACTED]"

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// redactor redacts sensitive values in log key-value pairs.
type redactor struct {
	sensitiveWords map[string]bool
}

func newRedactor() *redactor {
	words := []string{"secret", "password", "token", "key", "auth", "authorization", "credential", "bearer"}
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return &redactor{sensitiveWords: m}
}

// redact walks flattened key-value pairs and replaces the value of any
// sensitive key. The input slice is not modified.
func (r *redactor) redact(pairs []any) []any {
	if len(pairs) == 0 {
		return pairs
	}
	result := make([]any, len(pairs))
	copy(result, pairs)
	for i := 0; i+1 < len(result); i += 2 {
		key, ok := result[i].(string)
		if !ok {
			continue
		}
		if r.isSensitive(key) {
			result[i+1] = redacted
		}
	}
	return result
}

// isSensitive reports whether any segment of key is a sensitive word.
// camelCase keys are split too, so apiToken and api_token both match.
func (r *redactor) isSensitive(key string) bool {
	for _, part := range nonAlphanumeric.Split(splitCamel(key), -1) {
		if r.sensitiveWords[part] {
			return true
		}
	}
	return false
}

func splitCamel(s string) string {
	var b strings.Builder
	for i, c := range s {
		if i > 0 && c >= 'A' && c <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteRune(c)
	}
	return strings.ToLower(b.String())
}
