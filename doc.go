// Package lhttp provides layered HTTP request dispatch with buffered
// responses and value-returning handlers.
//
// # Overview
//
// lhttp turns request handling into a sequential scan over an ordered stack
// of layers. Each layer couples a mount prefix to a handler; handlers return
// a value that is coerced into the wire response, instead of writing it out
// inline. Responses are buffered in memory until the dispatch concludes,
// which allows a response to be discarded and rewritten completely when a
// later step fails.
//
// A minimal example:
//
//	router := lhttp.NewRouter()
//	router.Get("/items/:id", func(c *lhttp.Context) (any, error) {
//	    item, err := db.GetItem(c.Param("id"))
//	    if err != nil {
//	        return nil, lhttp.NewError(lhttp.CodeNotFound, err)
//	    }
//	    return item, nil // JSON encoded
//	})
//
//	app := lhttp.New().Mount("/api", router)
//	http.ListenAndServe(":8080", app)
//
// # Handler Signature
//
// lhttp handlers differ from standard http.Handlers in three ways:
//
//   - They receive a single [*Context] carrying the request, the buffered
//     writer, and the path as seen from their mount point
//   - They return the response as a value; the coercion rules in [Respond]
//     turn it into status, headers and body
//   - They return an error that triggers automatic response handling
//
// The handler signature is:
//
//	func(c *lhttp.Context) (any, error)
//
// Returning [Next] means the handler declines the request and the enclosing
// [App] tries the next layer. Returning nil (with a nil error) produces an
// empty 204 No Content response.
//
// # Layer Stack
//
// An [App] owns an append-only stack of layers, tried strictly in
// registration order. [App.Use] mounts handlers at the root, [App.Mount] at
// a path prefix. A layer mounted at "/api" sees "/users" for an external
// request to "/api/users", and "/" for a request to "/api" exactly; the
// original path remains available via [Context.OriginalPath]. Mounts nest:
// an App or [Router] is itself a handler and can be mounted inside another
// App, observing paths relative to its own mount point.
//
// The scan concludes with the first layer that returns a value or marks the
// request handled; when no layer does either, dispatch fails with a
// not-found error carrying the original path.
//
// # Routing
//
// A [Router] maps ":param" and trailing "*" wildcard patterns to handlers
// per request method, with [MethodAll] as the per-pattern fallback. When the
// structurally best pattern for a path has no handler for the request
// method, the router searches every other pattern matching the same path,
// most specific first, and memoizes the resolution. By default an unmatched
// request is passed back to the enclosing stack; in [Preemptive] mode it
// fails immediately with a not-found or method-not-allowed error.
//
// # Buffered Response Writer
//
// The [ResponseWriter] interface extends http.ResponseWriter with
// buffering. All writes are held in memory until flushed, enabling:
//
//   - Complete response replacement when errors occur mid-handler
//   - Headers modification after initial writes
//   - Clean error responses without partial content
//
// Key methods:
//   - [ResponseBuffer.Reset] clears the buffer and headers for a fresh response
//   - [ResponseBuffer.FlushBuffer] writes buffered content to the underlying writer
//   - [ResponseBuffer.Free] returns the buffer to a pool (called automatically)
//
// # Error Handling
//
// Errors propagate upward unchanged through the layer scan; no retries, no
// local recovery. The [App.ServeHTTP] bridge renders them at the very top:
//
//   - [*Error] (created with [NewError] or [NewErrorf]): uses the error's
//     code and message
//   - Other errors: logged and converted to 500 Internal Server Error
//
// Create errors with specific HTTP status codes using [NewError]:
//
//	return nil, lhttp.NewError(lhttp.CodeBadRequest, errors.New("invalid input"))
//	return nil, lhttp.NewErrorf(lhttp.CodeForbidden, "access denied for %q", user)
//
// All standard HTTP 4xx and 5xx status codes are available as [Code]
// constants.
//
// # Lifecycle Hooks
//
// An App accepts three hooks through its options: [OnRequest] runs before
// the scan, [OnBeforeResponse] runs after a layer produced a value and may
// mutate the [PendingResponse] in place, and [OnAfterResponse] runs once the
// response was written. A hook failure aborts the dispatch like any handler
// failure. [OnError] observes errors right before they render.
//
// # Middleware
//
// Middleware wraps handlers to add cross-cutting concerns:
//
//	func logging(next lhttp.Handler) lhttp.Handler {
//	    return lhttp.HandlerFunc(func(c *lhttp.Context) (any, error) {
//	        start := time.Now()
//	        v, err := next.ServeLHTTP(c)
//	        log.Printf("%s %s took %v", c.Method(), c.Path(), time.Since(start))
//	        return v, err
//	    })
//	}
//
//	app.Use(lhttp.Wrap(router, logging))
//
// # Named Routes and URL Reversing
//
// Routes can be named for URL generation, avoiding hardcoded paths:
//
//	router.Get("/users/:id", getUser).Name("get-user", "/users/:id")
//
//	url, err := router.Reverse("get-user", "123") // returns "/users/123"
//
// # Concurrency
//
// Registration (Use, Mount, Add) must finish before serving begins: the
// stack and the route table follow a single-writer, then multiple-reader
// discipline with no built-in locking. The only state written during
// request handling is the router's fallback cache, which is race-safe.
// Each request owns its own [*Context]; a context must not be retained
// after the handler returns.
package lhttp
