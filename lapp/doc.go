// Package lapp provides a batteries-included bootstrap for HTTP services
// built on the lhttp dispatch core.
//
// # Overview
//
// lapp handles the boilerplate of setting up a production HTTP server:
// environment parsing, structured logging, OpenTelemetry tracing, standard
// middleware and graceful shutdown. A complete application can be created in
// a single call:
//
//	lapp.NewApp[Env](func(app *lhttp.App, h *Handlers) {
//	    r := lhttp.NewRouter()
//	    r.Get("/items", h.ListItems)
//	    r.Get("/items/:id", h.GetItem)
//	    app.Use(r)
//	},
//	    lapp.WithFx(fx.Provide(NewHandlers)),
//	).Run()
//
// # Environment Configuration
//
// Define your environment by embedding [BaseEnvironment]:
//
//	type Env struct {
//	    lapp.BaseEnvironment
//	    UpstreamURL string `env:"UPSTREAM_URL,required"`
//	}
//
// BaseEnvironment provides the following environment variables:
//
//	| Variable               | Required | Default  | Description                                |
//	|------------------------|----------|----------|--------------------------------------------|
//	| LHTTP_PORT             | Yes      | -        | Port the HTTP server listens on            |
//	| LHTTP_SERVICE_NAME     | Yes      | -        | Service name for logging and tracing       |
//	| LHTTP_READINESS_PATH   | No       | /healthz | Health check endpoint path                 |
//	| LHTTP_LOG_LEVEL        | No       | info     | Log level (debug, info, warn, error)       |
//	| LHTTP_DEBUG            | No       | false    | Pretty-print JSON responses                |
//	| LHTTP_OTEL_EXPORTER    | No       | stdout   | Trace exporter: "stdout" or "none"         |
//	| LHTTP_REQUEST_TIMEOUT  | No       | 30s      | Per-request deadline (e.g., "30s", "5m")   |
//	| LHTTP_ENABLE_H2C       | No       | false    | Serve cleartext HTTP/2 behind a TLS proxy  |
//
// # Middleware
//
// Every request passes through the standard middleware stack before the
// layer-stack dispatch: request id assignment ([WithRequestID]), a
// request-scoped logger ([WithLogger]), access logging ([WithAccessLog]),
// panic recovery ([WithRecovery]) and the per-request deadline
// ([WithRequestTimeout]). Handlers fetch the request-scoped logger with
// [Log]:
//
//	func (h *Handlers) GetItem(c *lhttp.Context) (any, error) {
//	    lapp.Log(c.Context()).Info("fetching item", zap.String("id", c.Param("id")))
//	    ...
//	}
//
// # Tracing
//
// Inbound requests are instrumented with otelhttp; the readiness path is
// excluded. For traced outbound calls inject the instrumented *http.Client
// or start from [NewRequest].
package lapp
