package lapp

import (
	"context"
	"time"

	"github.com/advdv/lhttp"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request id on both the request and the
// response.
const RequestIDHeader = "X-Request-Id"

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeyLogger
)

// WithRequestID assigns every request a unique id, unless the client already
// provided one. The id is echoed on the response and stored on the request
// context for RequestID.
func WithRequestID() lhttp.Middleware {
	return func(next lhttp.Handler) lhttp.Handler {
		return lhttp.HandlerFunc(func(c *lhttp.Context) (any, error) {
			id := c.Request().Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}

			c.Writer().Header().Set(RequestIDHeader, id)

			ctx := context.WithValue(c.Context(), ctxKeyRequestID, id)
			*c.Request() = *c.Request().WithContext(ctx)

			return next.ServeLHTTP(c)
		})
	}
}

// RequestID returns the id assigned by [WithRequestID], or the empty string.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}

// WithAccessLog emits one structured log line per request, after the handler
// chain finished. The request id, when present, is included.
func WithAccessLog(logs *zap.Logger) lhttp.Middleware {
	return func(next lhttp.Handler) lhttp.Handler {
		return lhttp.HandlerFunc(func(c *lhttp.Context) (any, error) {
			start := time.Now()

			v, err := next.ServeLHTTP(c)

			fields := []zap.Field{
				zap.String("method", c.Method()),
				zap.String("path", c.OriginalPath()),
				zap.Duration("duration", time.Since(start)),
			}
			if id := RequestID(c.Context()); id != "" {
				fields = append(fields, zap.String("request_id", id))
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
				logs.Warn("request failed", fields...)
			} else {
				logs.Info("request served", fields...)
			}

			return v, err
		})
	}
}

// WithLogger stores a request-scoped zap logger on the request context,
// retrievable with [Log].
func WithLogger(logs *zap.Logger) lhttp.Middleware {
	return func(next lhttp.Handler) lhttp.Handler {
		return lhttp.HandlerFunc(func(c *lhttp.Context) (any, error) {
			reqLogs := logs
			if id := RequestID(c.Context()); id != "" {
				reqLogs = logs.With(zap.String("request_id", id))
			}

			ctx := context.WithValue(c.Context(), ctxKeyLogger, reqLogs)
			*c.Request() = *c.Request().WithContext(ctx)

			return next.ServeLHTTP(c)
		})
	}
}

// Log returns the request-scoped logger stored by [WithLogger]. It returns
// the nop logger outside of a request so call sites never nil-check.
func Log(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(ctxKeyLogger).(*zap.Logger); ok {
		return l
	}

	return zap.NewNop()
}

// WithRecovery converts a handler panic into an error so a misbehaving
// handler cannot take the whole server down. The error carries no status
// code on purpose: it renders as a generic 500 and is logged as unhandled,
// the panic value never reaches the client.
func WithRecovery() lhttp.Middleware {
	return func(next lhttp.Handler) lhttp.Handler {
		return lhttp.HandlerFunc(func(c *lhttp.Context) (v any, err error) {
			defer func() {
				if rec := recover(); rec != nil {
					v = nil
					err = errors.Newf("handler panic: %v", rec)
				}
			}()

			return next.ServeLHTTP(c)
		})
	}
}

// WithRequestTimeout bounds each request with a context deadline. Handlers
// and their downstream calls observe the deadline through the request
// context; a handler that overruns it fails with a timeout error.
func WithRequestTimeout(timeout time.Duration) lhttp.Middleware {
	return func(next lhttp.Handler) lhttp.Handler {
		return lhttp.HandlerFunc(func(c *lhttp.Context) (any, error) {
			if timeout <= 0 {
				return next.ServeLHTTP(c)
			}

			ctx, cancel := context.WithTimeout(c.Context(), timeout)
			defer cancel()

			*c.Request() = *c.Request().WithContext(ctx)

			v, err := next.ServeLHTTP(c)
			if err == nil && ctx.Err() != nil {
				err = lhttp.NewError(lhttp.CodeGatewayTimeout,
					errors.Wrap(ctx.Err(), "request deadline exceeded"))
			}

			return v, err
		})
	}
}

// RequestRemainingTime returns the duration until the request context
// deadline, or 0 when no deadline is set or it has passed.
func RequestRemainingTime(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return 0
	}

	remaining := time.Until(deadline)
	if remaining < 0 {
		return 0
	}

	return remaining
}
