package lapptest

import (
	"strconv"
	"testing"
)

// Env provides a chainable builder for setting [lapp.BaseEnvironment] env
// vars via t.Setenv. Create one with [SetBaseEnv].
type Env struct {
	t testing.TB
}

// SetBaseEnv sets all [lapp.BaseEnvironment] env vars to sensible test
// defaults. Port is required because each test must use a unique port to
// avoid collisions.
//
// Defaults:
//   - LHTTP_SERVICE_NAME: "test"
//   - LHTTP_READINESS_PATH: "/healthz"
//   - LHTTP_OTEL_EXPORTER: "none"
//   - LHTTP_REQUEST_TIMEOUT: "30s"
//
// Use the returned [Env] to override individual values:
//
//	lapptest.SetBaseEnv(t, 18085).ServiceName("billing").RequestTimeout("5s")
func SetBaseEnv(t testing.TB, port int) *Env {
	t.Helper()
	t.Setenv("LHTTP_PORT", strconv.Itoa(port))
	t.Setenv("LHTTP_SERVICE_NAME", "test")
	t.Setenv("LHTTP_READINESS_PATH", "/healthz")
	t.Setenv("LHTTP_OTEL_EXPORTER", "none")
	t.Setenv("LHTTP_REQUEST_TIMEOUT", "30s")
	return &Env{t: t}
}

// ServiceName overrides LHTTP_SERVICE_NAME.
func (e *Env) ServiceName(name string) *Env {
	e.t.Helper()
	e.t.Setenv("LHTTP_SERVICE_NAME", name)
	return e
}

// ReadinessPath overrides LHTTP_READINESS_PATH.
func (e *Env) ReadinessPath(path string) *Env {
	e.t.Helper()
	e.t.Setenv("LHTTP_READINESS_PATH", path)
	return e
}

// LogLevel overrides LHTTP_LOG_LEVEL.
func (e *Env) LogLevel(level string) *Env {
	e.t.Helper()
	e.t.Setenv("LHTTP_LOG_LEVEL", level)
	return e
}

// Debug overrides LHTTP_DEBUG.
func (e *Env) Debug(on bool) *Env {
	e.t.Helper()
	e.t.Setenv("LHTTP_DEBUG", strconv.FormatBool(on))
	return e
}

// RequestTimeout overrides LHTTP_REQUEST_TIMEOUT.
func (e *Env) RequestTimeout(d string) *Env {
	e.t.Helper()
	e.t.Setenv("LHTTP_REQUEST_TIMEOUT", d)
	return e
}

// EnableH2C overrides LHTTP_ENABLE_H2C.
func (e *Env) EnableH2C(on bool) *Env {
	e.t.Helper()
	e.t.Setenv("LHTTP_ENABLE_H2C", strconv.FormatBool(on))
	return e
}
