package lapp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/advdv/lhttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// ServerConfig holds optional configuration for the HTTP server.
type ServerConfig struct {
	HealthHandler func(http.ResponseWriter, *http.Request)
}

// ServerParams holds the dependencies for creating an HTTP server.
type ServerParams struct {
	fx.In

	Env        Environment
	App        *lhttp.App
	Logger     *zap.Logger
	TracerProv trace.TracerProvider
	Propagator propagation.TextMapPropagator
}

// NewServer creates an HTTP server with middleware, readiness endpoint and
// tracing configured around the dispatch app.
func NewServer(params ServerParams, cfg ServerConfig) *http.Server {
	// The readiness endpoint sits in front of the layer stack so probes
	// never run user middleware; tracing also skips it to avoid noisy
	// orphan traces.
	healthPath := params.Env.readinessPath()
	healthHandler := cfg.HealthHandler
	if healthHandler == nil {
		healthHandler = defaultHealthHandler
	}

	dispatch := lhttp.Wrap(params.App,
		WithRequestID(),
		WithLogger(params.Logger),
		WithAccessLog(params.Logger),
		WithRecovery(),
		WithRequestTimeout(params.Env.requestTimeout()),
	)
	std := lhttp.ToStd(dispatch, -1, newZapHTTPLogger(params.Logger))

	var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == healthPath {
			healthHandler(w, r)
			return
		}

		std.ServeHTTP(w, r)
	})

	handler = withTracing(params.TracerProv, params.Propagator, params.Env.serviceName(), healthPath)(handler)

	if params.Env.enableH2C() {
		// Cleartext HTTP/2 for deployments behind a TLS-terminating proxy.
		handler = h2c.NewHandler(handler, &http2.Server{})
	}

	tc := TimeoutConfig{RequestTimeout: params.Env.requestTimeout()}
	readHeaderTimeout, readTimeout, writeTimeout, idleTimeout := tc.ServerTimeouts()

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", params.Env.port()),
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}

// startServerHook registers lifecycle hooks for the HTTP server.
func startServerHook(lc fx.Lifecycle, server *http.Server, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("starting server", zap.String("addr", server.Addr))
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping server")
			return server.Shutdown(ctx)
		},
	})
}

func defaultHealthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
