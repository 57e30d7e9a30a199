package schema

import (
	"fmt"
	"net/url"
	"strings"
)

// Composite primary keys travel as a single opaque path token. Parts are
// query-escaped individually and joined with commas, so key values that
// themselves contain a comma round-trip.

// EncodeKey renders primary-key values (already in string form) as one
// path token.
func EncodeKey(parts []string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.QueryEscape(p)
	}
	return strings.Join(escaped, ",")
}

// DecodeKey splits a path token into exactly n key parts. Splitting into
// the wrong arity or failing to unescape a part is the caller's 404: the
// token names no persistable key.
func DecodeKey(token string, n int) ([]string, error) {
	escaped := strings.Split(token, ",")
	if len(escaped) != n {
		return nil, fmt.Errorf("key %q: expected %d parts, got %d", token, n, len(escaped))
	}
	parts := make([]string, len(escaped))
	for i, e := range escaped {
		p, err := url.QueryUnescape(e)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", token, err)
		}
		parts[i] = p
	}
	return parts, nil
}
