package lhttp

import (
	"net/http"
	"strings"
)

// Router dispatches requests to handlers registered per route pattern and
// method. It implements [Handler] so it slots into an [App] layer like any
// other handler; a router that cannot serve a request returns [Next] so the
// enclosing stack keeps scanning, unless it runs in preemptive mode.
//
// Patterns support ":name" parameters and a trailing "*" wildcard:
//
//	r := lhttp.NewRouter()
//	r.Get("/items/:id", getItem)
//	r.All("/admin/*", adminHandler)
//
// Registration must complete before requests are served; only the internal
// fallback cache is written during request handling.
type Router struct {
	table      *routeTable
	reverser   *Reverser
	preemptive bool
}

// RouterOption configures a [Router].
type RouterOption func(*Router)

// Preemptive makes the router claim every request it sees: an unmatched
// path fails with a not-found error and an unmatched method with a
// method-not-allowed error, instead of passing the request on to the next
// layer.
func Preemptive() RouterOption {
	return func(r *Router) { r.preemptive = true }
}

// Preemtive is honored identically to [Preemptive].
//
// Deprecated: kept for backward compatibility with configurations carrying
// the historical misspelling.
func Preemtive() RouterOption {
	return Preemptive()
}

// WithReverser makes the router record named routes on an existing
// [Reverser] instead of its own.
func WithReverser(rev *Reverser) RouterOption {
	return func(r *Router) { r.reverser = rev }
}

// NewRouter inits an empty router.
func NewRouter(opts ...RouterOption) *Router {
	r := &Router{table: newRouteTable()}
	for _, opt := range opts {
		opt(r)
	}

	if r.reverser == nil {
		r.reverser = NewReverser()
	}

	return r
}

// Add registers handler for the given methods against pattern. Without
// methods the handler registers as the [MethodAll] wildcard. The handler
// may be any shape supported by [Adapt]. Returns the router for chaining.
func (r *Router) Add(pattern string, handler any, methods ...string) *Router {
	h := MustAdapt(handler)
	node := r.table.node(pattern)

	if len(methods) == 0 {
		node.register(MethodAll, h)
		return r
	}

	for _, m := range methods {
		node.register(strings.ToUpper(m), h)
	}

	return r
}

// All registers handler as the wildcard for any method.
func (r *Router) All(pattern string, handler any) *Router {
	return r.Add(pattern, handler)
}

// Get registers handler for GET requests.
func (r *Router) Get(pattern string, handler any) *Router {
	return r.Add(pattern, handler, http.MethodGet)
}

// Post registers handler for POST requests.
func (r *Router) Post(pattern string, handler any) *Router {
	return r.Add(pattern, handler, http.MethodPost)
}

// Put registers handler for PUT requests.
func (r *Router) Put(pattern string, handler any) *Router {
	return r.Add(pattern, handler, http.MethodPut)
}

// Patch registers handler for PATCH requests.
func (r *Router) Patch(pattern string, handler any) *Router {
	return r.Add(pattern, handler, http.MethodPatch)
}

// Delete registers handler for DELETE requests.
func (r *Router) Delete(pattern string, handler any) *Router {
	return r.Add(pattern, handler, http.MethodDelete)
}

// Head registers handler for HEAD requests.
func (r *Router) Head(pattern string, handler any) *Router {
	return r.Add(pattern, handler, http.MethodHead)
}

// Options registers handler for OPTIONS requests.
func (r *Router) Options(pattern string, handler any) *Router {
	return r.Add(pattern, handler, http.MethodOptions)
}

// Name records a name for a pattern so urls can be built with [Router.Reverse].
func (r *Router) Name(name, pattern string) *Router {
	r.reverser.Named(name, normalizeRoute(pattern))
	return r
}

// Reverse returns the url for a named pattern and parameter values.
func (r *Router) Reverse(name string, vals ...string) (string, error) {
	return r.reverser.Reverse(name, vals...)
}

// ServeLHTTP implements [Handler]: it resolves the request path against the
// route table and invokes the selected handler with the matched route and
// extracted parameters stashed on the context.
func (r *Router) ServeLHTTP(c *Context) (any, error) {
	path := c.Path()
	if idx := strings.IndexByte(path, '?'); idx >= 0 {
		path = path[:idx]
	}

	node, params, ok := r.table.lookup(path)
	if !ok {
		if r.preemptive {
			return nil, NewErrorf(CodeNotFound, "cannot find any route matching %q", path)
		}

		return Next, nil
	}

	method := c.Method()

	h, ok := node.handler(method)
	if !ok {
		h, ok = r.fallbackHandler(node, path, method)
	}
	if !ok {
		if r.preemptive {
			return nil, NewErrorf(CodeMethodNotAllowed, "method %s is not allowed on %q", method, path)
		}

		return Next, nil
	}

	v, err := h.ServeLHTTP(c.withMatch(node.pattern, params))
	if err != nil {
		return nil, err
	}

	if v == Next && r.preemptive {
		// A preemptive router never lets a request pass through unhandled:
		// an undecided handler result becomes an explicit no-content.
		return nil, nil
	}

	return v, err
}

// fallbackHandler resolves the shadow-route case: the structurally best
// pattern for the path has no handler for the method, but another pattern
// matching the same path may. Every matching pattern is tried from most to
// least specific; the first hit is memoized onto the originally matched
// node so future identical lookups skip the search.
func (r *Router) fallbackHandler(origin *RouteNode, path, method string) (Handler, bool) {
	shadows := r.table.matchAll(path)

	for i := len(shadows) - 1; i >= 0; i-- {
		node := shadows[i]
		if node == origin {
			continue
		}

		if h, ok := node.registered(method); ok {
			origin.memoize(method, h)
			return h, true
		}
	}

	return nil, false
}
