package lhttp

import (
	"context"
	"net/http"
	"strings"
)

// Context carries a single request through the layer stack. It exposes the
// request path as seen from the current mount point: when a layer is mounted
// at "/api" its handler observes "/users" for an external "/api/users".
//
// A Context is only valid for the duration of one request and must not be
// retained or used from other goroutines after the handler returns.
type Context struct {
	req  *http.Request
	resp ResponseWriter

	path     string // path relative to the current mount point
	origPath string // the external path, kept for diagnostics

	route  string
	params map[string]string

	handled *bool
	values  *valueBag
}

// valueBag is shared between all views of the same request.
type valueBag struct {
	m map[any]any
}

// NewContext inits a request context for the given request and buffered
// response writer.
func NewContext(resp ResponseWriter, req *http.Request) *Context {
	handled := false

	return &Context{
		req:      req,
		resp:     resp,
		path:     req.URL.Path,
		origPath: req.URL.Path,
		handled:  &handled,
		values:   &valueBag{},
	}
}

// Context returns the request's context.
func (c *Context) Context() context.Context { return c.req.Context() }

// Request returns the underlying http request.
func (c *Context) Request() *http.Request { return c.req }

// Writer returns the buffered response writer.
func (c *Context) Writer() ResponseWriter { return c.resp }

// Path returns the request path relative to the current mount point.
func (c *Context) Path() string { return c.path }

// OriginalPath returns the path exactly as it arrived, regardless of any
// prefix stripping performed by enclosing layers.
func (c *Context) OriginalPath() string { return c.origPath }

// Method returns the request method, defaulting to GET when absent.
func (c *Context) Method() string {
	if c.req.Method == "" {
		return http.MethodGet
	}

	return strings.ToUpper(c.req.Method)
}

// MatchedRoute returns the route pattern the router resolved this request
// to, or the empty string when no router matched (yet).
func (c *Context) MatchedRoute() string { return c.route }

// Param returns the named path parameter extracted by the router.
func (c *Context) Param(name string) string { return c.params[name] }

// Params returns all extracted path parameters.
func (c *Context) Params() map[string]string { return c.params }

// Handled reports whether a response has already been written in full
// through some lower-level primitive. Once true, no later layer may produce
// output for this request.
func (c *Context) Handled() bool { return *c.handled }

// MarkHandled records that the response has been fully written.
func (c *Context) MarkHandled() { *c.handled = true }

// Set stores a request-scoped value shared between all views of the request.
func (c *Context) Set(key, value any) {
	if c.values.m == nil {
		c.values.m = make(map[any]any)
	}

	c.values.m[key] = value
}

// Value returns a request-scoped value stored with Set.
func (c *Context) Value(key any) any { return c.values.m[key] }

// withPath returns a view of the context whose visible path is the given
// suffix. The clone shares the request, writer, handled flag and value bag;
// only the path differs. This keeps the external path intact while nested
// dispatchers always see the path relative to their mount point.
func (c *Context) withPath(suffix string) *Context {
	clone := *c
	clone.path = suffix

	return &clone
}

// withMatch returns a view carrying the router's match results.
func (c *Context) withMatch(route string, params map[string]string) *Context {
	clone := *c
	clone.route = route
	clone.params = params

	return &clone
}
