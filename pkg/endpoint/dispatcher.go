package endpoint

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/veldt-io/tabular/pkg/api"
	"github.com/veldt-io/tabular/pkg/auth"
	"github.com/veldt-io/tabular/pkg/cache"
	"github.com/veldt-io/tabular/pkg/observability"
)

// Handler is one endpoint method behavior. Handlers are stateless across
// invocations; the only state is the per-request session in rc. Errors
// are typed (*api.Error or the auth sentinels) and translated to HTTP
// responses in exactly one place, the dispatcher boundary.
type Handler interface {
	Handle(ctx context.Context, rc *Context) (*Response, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, rc *Context) (*Response, error)

func (f HandlerFunc) Handle(ctx context.Context, rc *Context) (*Response, error) {
	return f(ctx, rc)
}

// Dispatcher orchestrates one request: body parsing, the middleware
// chain, capability plugins, handler invocation, and the transactional
// session around all of it.
type Dispatcher struct {
	// Sessions opens the per-request transaction.
	Sessions SessionFactory

	// Middlewares run in registration order (pre) and reverse (post).
	// They are long-lived instances shared across requests.
	Middlewares []Middleware

	// Logger receives dispatch failures. Nil means slog.Default.
	Logger *slog.Logger

	// Debug includes internal error details in 500 bodies. Never enable
	// in production.
	Debug bool
}

func (d *Dispatcher) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// Handler binds an endpoint configuration and a method handler into an
// http.HandlerFunc. paramNames lists the route's path placeholders.
func (d *Dispatcher) Handler(cfg *Config, paramNames []string, h Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.dispatch(cfg, paramNames, h, w, r)
	}
}

// dispatch runs the fixed step order: parse body, pre-hooks (any may
// short-circuit), authentication, cache lookup, validation, handler,
// cache fill, session commit/rollback, post-hooks in reverse, write.
func (d *Dispatcher) dispatch(cfg *Config, paramNames []string, h Handler, w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rc := newContext(r, paramNames)
	rc.Endpoint = cfg

	session, err := d.Sessions.Begin(ctx)
	if err != nil {
		d.logger().Error("opening session failed", "error", err)
		d.internal(err).write(w)
		return
	}
	rc.Session = session

	// Pre-processing phase. Track how far the chain got: post-hooks run
	// only for middlewares whose pre-hook executed.
	var resp *Response
	executed := 0
	for _, m := range d.Middlewares {
		executed++
		if out := m.Process(rc, nil); out != nil {
			resp = out
			break
		}
	}

	if resp == nil {
		resp = d.invoke(ctx, rc, cfg, h)
	}

	// Release the session before responding: commit for success,
	// rollback otherwise. A failed commit downgrades the response.
	if resp.Status < 400 {
		if err := session.Commit(ctx); err != nil {
			d.logger().Error("commit failed", "error", err)
			resp = d.internal(err)
		}
	} else {
		if err := session.Rollback(ctx); err != nil {
			d.logger().Warn("rollback failed", "error", err)
		}
	}

	// Post-processing phase, reverse order.
	for i := executed - 1; i >= 0; i-- {
		if out := d.Middlewares[i].Process(rc, resp); out != nil {
			resp = out
		}
	}

	resp.write(w)
}

// invoke runs authentication, the cache, validation, and the handler.
// Panics and typed errors are both converted to responses here; nothing
// propagates past the dispatcher.
func (d *Dispatcher) invoke(ctx context.Context, rc *Context, cfg *Config, h Handler) (resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			d.logger().Error("handler panicked", "panic", r, "path", rc.Request.URL.Path)
			resp = d.internal(errors.New("internal server error"))
		}
	}()

	if cfg.Auth != nil {
		identity, err := cfg.Auth.Authenticate(ctx, rc.Request)
		if err != nil {
			return rejectAuth(err)
		}
		rc.Identity = identity
	}

	verb := strings.ToLower(rc.Request.Method)
	cacheable := cfg.CacheEligible(verb)
	var key string
	if cacheable {
		key = cache.Fingerprint(rc.Request.Method, rc.Request.URL.Path, rc.Query, rc.RawBody, rc.Subject())
		if entry, ok := cfg.Cache.Get(ctx, key); ok {
			observability.CacheEvents.WithLabelValues("hit").Inc()
			return &Response{Status: entry.Status, Raw: entry.Body}
		}
		observability.CacheEvents.WithLabelValues("miss").Inc()
	}

	if cfg.Validator != nil && hasBody(verb) && len(rc.Body) > 0 {
		validated, err := cfg.Validator.Validate(rc.Body)
		if err != nil {
			return d.respondError(err)
		}
		rc.Body = validated
	}

	resp, err := h.Handle(ctx, rc)
	if err != nil {
		return d.respondError(err)
	}

	if cacheable && resp.Status < 400 {
		// Pin the serialized bytes so the stored entry and this
		// response are bit-identical.
		resp.Raw = resp.marshal()
		cfg.Cache.Set(ctx, key, cache.Entry{Body: resp.Raw, Status: resp.Status}, cfg.CacheTTL)
	}
	return resp
}

func hasBody(verb string) bool {
	return verb == "post" || verb == "put" || verb == "patch"
}

// rejectAuth maps authentication failures: a missing or unverifiable
// credential is 401, a verified identity denied by policy is 403.
func rejectAuth(err error) *Response {
	status := http.StatusUnauthorized
	if errors.Is(err, auth.ErrForbidden) {
		status = http.StatusForbidden
	}
	return NewResponse(status, api.ErrorResponse{Error: err.Error()})
}

// respondError translates a typed handler or plugin error to a response.
func (d *Dispatcher) respondError(err error) *Response {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		// Internal detail (driver messages included) stays out of the
		// body unless debug mode is on.
		if apiErr.Kind == api.KindInternal {
			d.logger().Error("internal handler error", "error", apiErr.Message)
			return d.internal(apiErr)
		}
		return NewResponse(statusFor(apiErr.Kind), api.ErrorResponse{
			Error: apiErr.Message,
			Field: apiErr.Field,
		})
	}
	d.logger().Error("unhandled handler error", "error", err)
	return d.internal(err)
}

func statusFor(kind api.ErrorKind) int {
	switch kind {
	case api.KindValidation, api.KindIntegrity:
		return http.StatusBadRequest
	case api.KindUnauthenticated:
		return http.StatusUnauthorized
	case api.KindForbidden:
		return http.StatusForbidden
	case api.KindNotFound:
		return http.StatusNotFound
	case api.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// internal builds a 500 response. The client sees a generic message
// unless debug mode is on.
func (d *Dispatcher) internal(err error) *Response {
	message := "internal server error"
	if d.Debug && err != nil {
		message = err.Error()
	}
	return NewResponse(http.StatusInternalServerError, api.ErrorResponse{Error: message})
}
