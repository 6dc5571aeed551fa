// Package example implements example middleware in an outside package.
package example

import (
	"log/slog"

	"github.com/advdv/lhttp"
)

// ctxKey type scopes middlware values.
type ctxKey string

// Middleware provides an example for middleware that adds a logger to the context.
func Middleware(logs *slog.Logger) lhttp.Middleware {
	return func(n lhttp.Handler) lhttp.Handler {
		return lhttp.HandlerFunc(func(c *lhttp.Context) (any, error) {
			logs := logs.With(slog.String("method", c.Method()))
			c.Set(ctxKey("slog"), logs)

			return n.ServeLHTTP(c)
		})
	}
}

// Log returns the logger stashed on the request by [Middleware].
func Log(c *lhttp.Context) *slog.Logger {
	v, _ := c.Value(ctxKey("slog")).(*slog.Logger)

	return v
}
