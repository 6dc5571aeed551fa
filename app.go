package lhttp

import (
	"log"
	"net/http"
)

// PendingResponse wraps the value a handler returned, after the layer scan
// decided to respond but before coercion. The OnBeforeResponse hook may
// mutate Value in place to replace the response entirely.
type PendingResponse struct {
	Value any
}

// App executes an ordered stack of layers for every request. Layers are
// tried in registration order; the first layer that produces a value (or
// marks the request handled) concludes the request, see [App.ServeLHTTP].
//
// The stack may be appended to at any point before requests are served.
// Registration is not synchronized with request processing: callers must
// finish all Use/Mount calls before the app starts serving (single writer,
// then multiple readers).
type App struct {
	stack []layer
	opts  appOptions
}

type appOptions struct {
	debug    bool
	bufLimit int
	logs     Logger

	onRequest        func(*Context) error
	onBeforeResponse func(*Context, *PendingResponse) error
	onAfterResponse  func(*Context, *PendingResponse) error
	onError          func(*Context, error)
}

// Option configures an [App].
type Option func(*appOptions)

// Debug enables pretty-printed JSON responses.
func Debug() Option {
	return func(o *appOptions) { o.debug = true }
}

// WithBufferLimit caps the in-memory response buffer, -1 leaves it
// unbounded.
func WithBufferLimit(limit int) Option {
	return func(o *appOptions) { o.bufLimit = limit }
}

// WithLogger provides the logger informed about unhandled errors.
func WithLogger(logs Logger) Option {
	return func(o *appOptions) { o.logs = logs }
}

// OnRequest runs before the layer scan. An error aborts the dispatch.
func OnRequest(hook func(*Context) error) Option {
	return func(o *appOptions) { o.onRequest = hook }
}

// OnBeforeResponse runs after a layer produced a value, before coercion.
// The hook may mutate the pending response in place.
func OnBeforeResponse(hook func(*Context, *PendingResponse) error) Option {
	return func(o *appOptions) { o.onBeforeResponse = hook }
}

// OnAfterResponse runs after the response was written. When a handler wrote
// the response through a lower-level primitive without returning a value the
// hook receives a nil pending response.
func OnAfterResponse(hook func(*Context, *PendingResponse) error) Option {
	return func(o *appOptions) { o.onAfterResponse = hook }
}

// OnError observes errors right before they are rendered by the
// [App.ServeHTTP] bridge. Dispatch itself never recovers from errors.
func OnError(hook func(*Context, error)) Option {
	return func(o *appOptions) { o.onError = hook }
}

// New inits an app with an empty layer stack.
func New(opts ...Option) *App {
	o := appOptions{
		bufLimit: -1,
		logs:     NewStdLogger(log.Default()),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &App{opts: o}
}

// Use appends one layer per unit, mounted at the root. Units may be any
// handler shape supported by [Adapt], a [Layer] value carrying its own
// route, or a []any of those, expanded recursively in order. Returns the
// app for chaining.
func (a *App) Use(units ...any) *App {
	a.stack = append(a.stack, expandUnits("/", units)...)
	return a
}

// Mount appends one layer per unit, mounted at the given route prefix. The
// mounted handlers see the request path with the prefix stripped. A [Layer]
// unit keeps its own route.
func (a *App) Mount(route string, units ...any) *App {
	a.stack = append(a.stack, expandUnits(route, units)...)
	return a
}

// ServeLHTTP dispatches the request over the layer stack, making the app
// usable as a layer inside another app. Layers are scanned in registration
// order; for each layer whose route prefixes the current path (and whose
// matcher, if any, accepts the suffix) the handler runs on a view of the
// context exposing only the suffix. The scan concludes when a handler
// returns a value, which is coerced and written, or marks the request
// handled. When the scan exhausts the stack a not-found error referencing
// the original request path is returned.
func (a *App) ServeLHTTP(c *Context) (any, error) {
	if a.opts.onRequest != nil {
		if err := a.opts.onRequest(c); err != nil {
			return nil, err
		}
	}

	for i := range a.stack {
		lay := &a.stack[i]

		suffix, ok := lay.match(c.Path(), c)
		if !ok {
			continue
		}

		v, err := lay.handler.ServeLHTTP(c.withPath(suffix))
		if err != nil {
			return nil, err
		}

		if v != Next {
			pending := &PendingResponse{Value: v}
			if a.opts.onBeforeResponse != nil {
				if err := a.opts.onBeforeResponse(c, pending); err != nil {
					return nil, err
				}
			}

			if err := Respond(c, pending.Value, a.indent()); err != nil {
				return nil, err
			}

			if a.opts.onAfterResponse != nil {
				if err := a.opts.onAfterResponse(c, pending); err != nil {
					return nil, err
				}
			}

			return Next, nil
		}

		if c.Handled() {
			// Some handler wrote a full response through a lower-level
			// primitive without returning a value: stop the scan, only the
			// post hook still runs.
			if a.opts.onAfterResponse != nil {
				if err := a.opts.onAfterResponse(c, nil); err != nil {
					return nil, err
				}
			}

			return Next, nil
		}
	}

	return nil, NewErrorf(CodeNotFound, "cannot find any layer matching %q", c.OriginalPath())
}

// ServeHTTP makes the app implement http.Handler: it creates the buffered
// response writer, runs the dispatch and renders any error it propagates.
// Errors without a status code are logged as unhandled and render as plain
// 500s; structured status errors render with their code and message.
func (a *App) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	bresp := newBufferResponse(resp, a.opts.bufLimit)
	defer bresp.Free()

	c := NewContext(bresp, req)

	v, err := a.ServeLHTTP(c)
	if err == nil && v != Next && v != nil {
		err = Respond(c, v, a.indent())
	}

	if err != nil {
		if a.opts.onError != nil {
			a.opts.onError(c, err)
		}
		if CodeOf(err) == CodeUnknown {
			a.opts.logs.LogUnhandledServeError(err)
		}

		renderError(bresp, err)
	}

	if err := bresp.FlushBuffer(); err != nil {
		a.opts.logs.LogImplicitFlushError(err)
	}
}

func (a *App) indent() string {
	if a.opts.debug {
		return "  "
	}

	return ""
}
