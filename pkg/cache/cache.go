// Package cache defines the response-cache capability contract and the
// request fingerprint used as the cache key.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"time"
)

// Entry is a cached response: the serialized body and its status code.
// Entries are invalidated by expiry only; there is no explicit
// invalidation API.
type Entry struct {
	Body   []byte `json:"body"`
	Status int    `json:"status"`
}

// Cache stores response entries under fingerprint keys. A ttl of zero
// means the implementation's configured default TTL.
//
// Implementations are not required to serialize concurrent fills: two
// requests computing the same key may both miss and both write. Last
// write wins.
type Cache interface {
	Get(ctx context.Context, key string) (*Entry, bool)
	Set(ctx context.Context, key string, entry Entry, ttl time.Duration)
}

// Fingerprint computes a deterministic cache key from the
// request-identifying attributes: method, normalized path, sorted query
// string, body (when present), and the authenticated subject. Including
// the subject means cached responses are never shared across identities.
func Fingerprint(method, path string, queryParams url.Values, body []byte, subject string) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{0})
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write([]byte(queryParams.Encode())) // Encode sorts by key
	h.Write([]byte{0})
	h.Write(body)
	h.Write([]byte{0})
	h.Write([]byte(subject))
	return hex.EncodeToString(h.Sum(nil))
}
