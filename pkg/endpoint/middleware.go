package endpoint

// Middleware wraps handler invocation with a two-phase hook.
//
// Process is called once per phase:
//
//   - Pre-processing: resp is nil, before authentication and the
//     handler. Returning a non-nil response short-circuits the request:
//     no later middleware's pre-hook, no authenticator, and no handler
//     runs.
//   - Post-processing: resp is the actual response. Returning non-nil
//     replaces the response; returning nil keeps it.
//
// Post-hooks run in the exact reverse of pre-hook order, and only for
// middlewares whose pre-hook actually executed.
//
// The dispatcher holds one long-lived instance of each middleware and
// reuses it across requests, so implementations carrying per-client
// state (a rate limiter, say) must guard it themselves. Stateless
// middlewares are indifferent to the lifetime.
type Middleware interface {
	Process(rc *Context, resp *Response) *Response
}

// MiddlewareFunc adapts a function to the Middleware interface.
type MiddlewareFunc func(rc *Context, resp *Response) *Response

func (f MiddlewareFunc) Process(rc *Context, resp *Response) *Response {
	return f(rc, resp)
}
