// Package http adapts registered endpoints to net/http: it builds the
// routing table, answers OPTIONS with the allowed-verb list, and wraps
// the mux in the standard middleware stack.
package http

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/veldt-io/tabular/pkg/api"
	"github.com/veldt-io/tabular/pkg/crud"
	"github.com/veldt-io/tabular/pkg/endpoint"
)

// Router accumulates routes over a ServeMux. Path+verb pairs must be
// unique within a registration batch; duplicates are registration
// errors, not last-wins.
type Router struct {
	mux        *http.ServeMux
	dispatcher *endpoint.Dispatcher
	registered map[string]bool
	allowed    map[string][]string
}

// NewRouter creates a router dispatching through d.
func NewRouter(d *endpoint.Dispatcher) *Router {
	return &Router{
		mux:        http.NewServeMux(),
		dispatcher: d,
		registered: map[string]bool{},
		allowed:    map[string][]string{},
	}
}

// Register binds one (verb, path) pair to a handler under the given
// endpoint configuration. paramNames lists the path placeholders the
// handler reads.
func (rt *Router) Register(verb, path string, cfg *endpoint.Config, paramNames []string, h endpoint.Handler) error {
	verb = strings.ToUpper(verb)
	key := verb + " " + path
	if rt.registered[key] {
		return fmt.Errorf("route %s already registered", key)
	}
	rt.registered[key] = true

	if len(rt.allowed[path]) == 0 {
		rt.registerOptions(path)
	}
	rt.allowed[path] = append(rt.allowed[path], verb)

	rt.mux.HandleFunc(key, rt.dispatcher.Handler(cfg, paramNames, h))
	return nil
}

// RegisterEntity wires the CRUD handler set for one entity using the
// verb→path table: post and list on the collection path, read-one,
// update, partial-update, and delete on the keyed path.
func (rt *Router) RegisterEntity(handlers *crud.Handlers, cfg *endpoint.Config) error {
	table := handlers.Entity().Table
	collection := "/" + table + "/{$}"
	keyed := "/" + table + "/{id}"

	type route struct {
		verb   string
		path   string
		params []string
		handle endpoint.HandlerFunc
	}
	var routes []route
	for _, verb := range cfg.Verbs {
		switch strings.ToLower(verb) {
		case "post":
			routes = append(routes, route{"POST", collection, nil, handlers.Create})
		case "get":
			routes = append(routes,
				route{"GET", collection, nil, handlers.List},
				route{"GET", keyed, []string{"id"}, handlers.Read})
		case "put":
			routes = append(routes, route{"PUT", keyed, []string{"id"}, handlers.Update})
		case "patch":
			routes = append(routes, route{"PATCH", keyed, []string{"id"}, handlers.Patch})
		case "delete":
			routes = append(routes, route{"DELETE", keyed, []string{"id"}, handlers.Delete})
		default:
			return fmt.Errorf("table %q: unknown verb %q", table, verb)
		}
	}

	for _, r := range routes {
		if err := rt.Register(r.verb, r.path, cfg, r.params, r.handle); err != nil {
			return err
		}
	}
	return nil
}

// registerOptions answers OPTIONS for a path with the verbs registered
// on it. The Allow header and the body carry the same list. The
// response passes through the dispatcher's middleware post-phase, so
// response-decorating middleware (CORS preflight headers) applies here
// the same as on dispatched requests.
func (rt *Router) registerOptions(path string) {
	rt.mux.HandleFunc("OPTIONS "+path, func(w http.ResponseWriter, r *http.Request) {
		verbs := append([]string(nil), rt.allowed[path]...)
		verbs = append(verbs, "OPTIONS")
		sort.Strings(verbs)

		resp := endpoint.NewResponse(http.StatusOK,
			api.ResultResponse{Result: map[string]any{"verbs": verbs}})
		resp.SetHeader("Allow", strings.Join(verbs, ", "))

		rc := &endpoint.Context{Request: r, Query: r.URL.Query()}
		for i := len(rt.dispatcher.Middlewares) - 1; i >= 0; i-- {
			if out := rt.dispatcher.Middlewares[i].Process(rc, resp); out != nil {
				resp = out
			}
		}

		for k, v := range resp.Headers {
			w.Header().Set(k, v)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.Status)
		writeJSON(w, resp.Body)
	})
}

// Mux returns the underlying ServeMux for mounting auxiliary routes
// (health, metrics).
func (rt *Router) Mux() *http.ServeMux {
	return rt.mux
}
