// Package endpoint contains the per-request dispatch core: the endpoint
// configuration that names which capability plugins apply, the request
// context, the two-phase middleware contract, and the dispatcher that
// ties them together around a transactional session.
package endpoint

import (
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/veldt-io/tabular/pkg/auth"
	"github.com/veldt-io/tabular/pkg/cache"
	"github.com/veldt-io/tabular/pkg/query"
)

// Validator transforms a request body field by field before the handler
// persists anything. See pkg/validate for the standard implementation.
type Validator interface {
	Validate(data map[string]any) (map[string]any, error)
}

// Filter narrows a candidate set using request query parameters.
type Filter interface {
	Apply(sel *query.Select, params url.Values)
}

// Paginator slices a (possibly filtered, possibly sorted) candidate set
// and reports pagination metadata.
type Paginator interface {
	Paginate(sel *query.Select, params url.Values, total int64) query.PageMeta
}

// Config is the declarative capability bundle for one endpoint. It is
// constructed once at registration and never mutated afterward: every
// in-flight request shares it read-only. A nil plugin field means the
// capability does not apply.
type Config struct {
	// Verbs are the allowed lowercase HTTP verbs.
	Verbs []string

	// Auth rejects requests without valid credentials. Nil = always allow.
	Auth auth.Authenticator

	// Validator transforms body fields on write verbs.
	Validator Validator

	// Filter and Paginator apply on read paths.
	Filter    Filter
	Paginator Paginator

	// Cache serves and populates responses for verbs in CacheVerbs.
	Cache      cache.Cache
	CacheVerbs []string

	// CacheTTL bounds stored entries. Zero = the cache's default TTL.
	CacheTTL time.Duration
}

// Allows reports whether the verb is allowed on this endpoint.
func (c *Config) Allows(verb string) bool {
	return slices.Contains(c.Verbs, strings.ToLower(verb))
}

// CacheEligible reports whether responses for the verb may be cached.
func (c *Config) CacheEligible(verb string) bool {
	return c.Cache != nil && slices.Contains(c.CacheVerbs, strings.ToLower(verb))
}
