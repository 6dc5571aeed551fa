package lhttp

import (
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/cockroachdb/errors"
)

// ResponseWriter implements the http.ResponseWriter but the underlying bytes are buffered. This allows
// middleware to reset the writer and formulate a completely new response.
type ResponseWriter interface {
	http.ResponseWriter
	Reset()
	Free()
	FlushBuffer() error
}

// Handler is the unit of request-processing logic. A handler may return:
//
//   - [Next] to decline the request, letting the enclosing [App] try
//     the next layer;
//   - any other value, which is coerced into a wire response (see [Respond]
//     for the coercion rules);
//   - an error, which propagates unchanged to the caller of the dispatch.
//
// Both [Router] and [App] implement Handler themselves, so they nest.
type Handler interface {
	ServeLHTTP(c *Context) (any, error)
}

// HandlerFunc allows casting a function to a [Handler] implementation.
type HandlerFunc func(*Context) (any, error)

// ServeLHTTP implements the [Handler] interface.
func (f HandlerFunc) ServeLHTTP(c *Context) (any, error) {
	return f(c)
}

// Next is the sentinel a handler returns to signal it produced no value for
// this request. It is never passed to response coercion.
var Next any = next{}

type next struct{}

// Adapt normalizes any supported handler shape into a canonical [Handler],
// once, at registration time. Supported shapes are [Handler], [HandlerFunc],
// func(*Context) (any, error), func(*Context) error and [http.Handler].
//
// A func(*Context) error handler writes its response through the buffered
// writer directly; when it returns nil the request is considered handled.
// The same goes for a mounted [http.Handler].
func Adapt(v any) (Handler, error) {
	switch h := v.(type) {
	case Handler:
		return h, nil
	case func(*Context) (any, error):
		return HandlerFunc(h), nil
	case func(*Context) error:
		return HandlerFunc(func(c *Context) (any, error) {
			if err := h(c); err != nil {
				return nil, err
			}

			c.MarkHandled()
			return Next, nil
		}), nil
	case http.Handler:
		return HandlerFunc(func(c *Context) (any, error) {
			h.ServeHTTP(c.Writer(), requestWithPath(c.Request(), c.Path()))

			c.MarkHandled()
			return Next, nil
		}), nil
	default:
		return nil, errors.Newf("lhttp: unsupported handler type: %T", v)
	}
}

// MustAdapt is like [Adapt] but panics on unsupported shapes. Registration
// happens at setup time where a panic is the appropriate failure mode.
func MustAdapt(v any) Handler {
	h, err := Adapt(v)
	if err != nil {
		panic(err)
	}

	return h
}

// Lazy defers construction of a handler until its first use. The init
// function runs at most once; an init failure is returned on every
// subsequent request.
func Lazy(init func() (Handler, error)) Handler {
	return &lazyHandler{init: init}
}

type lazyHandler struct {
	once sync.Once
	init func() (Handler, error)

	h   Handler
	err error
}

func (l *lazyHandler) ServeLHTTP(c *Context) (any, error) {
	l.once.Do(func() {
		l.h, l.err = l.init()
	})

	if l.err != nil {
		return nil, errors.Wrap(l.err, "init lazy handler")
	}

	return l.h.ServeLHTTP(c)
}

// requestWithPath shallow-clones the request with a different visible path,
// leaving the shared request untouched.
func requestWithPath(r *http.Request, path string) *http.Request {
	if r.URL.Path == path {
		return r
	}

	r2 := new(http.Request)
	*r2 = *r
	r2.URL = new(url.URL)
	*r2.URL = *r.URL
	r2.URL.Path = path
	r2.URL.RawPath = ""

	return r2
}

// ToStd converts a handler into a standard library http.Handler. The
// implementation creates a buffered response writer, coerces the handler's
// return value into a response and flushes implicitly afterwards. A handler
// that declines the request renders into the not-found error response.
func ToStd(h Handler, bufLimit int, logs Logger) http.Handler {
	return http.HandlerFunc(func(resp http.ResponseWriter, req *http.Request) {
		bresp := newBufferResponse(resp, bufLimit)
		defer bresp.Free()

		c := NewContext(bresp, req)

		v, err := h.ServeLHTTP(c)
		if err == nil && v != Next {
			err = Respond(c, v, "")
		}

		if err == nil && v == Next && !c.Handled() {
			err = NewErrorf(CodeNotFound, "no handler matched %q", c.OriginalPath())
		}

		if err != nil {
			if CodeOf(err) == CodeUnknown {
				logs.LogUnhandledServeError(err)
			}

			renderError(bresp, err)
		}

		if err := bresp.FlushBuffer(); err != nil {
			logs.LogImplicitFlushError(err)
		}
	})
}

// renderError resets the buffered response and renders err in the way of
// http.Error. Errors without a status code render as a plain 500 so the
// client never ends up with a white screen.
func renderError(w ResponseWriter, err error) {
	if fl, ok := w.(interface{ Flushed() bool }); ok && fl.Flushed() {
		// Part of a response already reached the client, nothing sane
		// can be rendered on top of it.
		return
	}

	w.Reset()

	code := CodeOf(err)
	msg := http.StatusText(http.StatusInternalServerError)
	if code == CodeUnknown {
		code = CodeInternalServerError
	} else {
		msg = err.Error()
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(int(code))
	fmt.Fprintln(w, msg)
}
