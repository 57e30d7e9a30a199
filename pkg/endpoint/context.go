package endpoint

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veldt-io/tabular/pkg/auth"
)

// Session is the per-request transactional handle. It is exclusively
// owned by one in-flight request and released on every exit path.
// pgx.Tx satisfies it.
type Session interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// SessionFactory opens a new session per request.
type SessionFactory interface {
	Begin(ctx context.Context) (Session, error)
}

// PoolSessions adapts a pgx connection pool to the SessionFactory
// contract: each Begin starts one transaction.
type PoolSessions struct {
	Pool *pgxpool.Pool
}

func (p PoolSessions) Begin(ctx context.Context) (Session, error) {
	return p.Pool.Begin(ctx)
}

// Context carries everything a handler needs about one in-flight
// request. It is created at dispatch start and must not outlive the
// request.
type Context struct {
	// Request is the underlying HTTP request.
	Request *http.Request

	// Body is the parsed JSON body, empty when absent or malformed.
	// After validation it holds the transform results.
	Body map[string]any

	// RawBody is the body as read from the wire, used for cache keying.
	RawBody []byte

	// PathParams maps placeholder names to raw path segment values.
	PathParams map[string]string

	// Query holds the (possibly multi-valued) query parameters.
	Query url.Values

	// Identity is the authenticated caller, nil until authentication ran.
	Identity *auth.Identity

	// Session is the request's transaction.
	Session Session

	// Endpoint is the resolved endpoint configuration.
	Endpoint *Config
}

// newContext builds the request context, parsing the body for verbs
// that imply one. A malformed body never fails here: it parses to an
// empty map and downstream validation reports the missing fields.
func newContext(r *http.Request, paramNames []string) *Context {
	rc := &Context{
		Request:    r,
		Body:       map[string]any{},
		PathParams: make(map[string]string, len(paramNames)),
		Query:      r.URL.Query(),
	}
	for _, name := range paramNames {
		rc.PathParams[name] = r.PathValue(name)
	}

	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			break
		}
		rc.RawBody = raw
		var body map[string]any
		if json.Unmarshal(raw, &body) == nil && body != nil {
			rc.Body = body
		}
	}
	return rc
}

// Subject returns the authenticated subject, or empty when anonymous.
func (rc *Context) Subject() string {
	if rc.Identity == nil {
		return ""
	}
	return rc.Identity.Subject
}
