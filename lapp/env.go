package lapp

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"
)

// Environment defines the interface that all environment configurations must
// implement. Embed BaseEnvironment in your struct to satisfy this interface.
type Environment interface {
	port() int
	serviceName() string
	readinessPath() string
	logLevel() zapcore.Level
	debug() bool
	otelExporter() string
	requestTimeout() time.Duration
	enableH2C() bool
}

// BaseEnvironment contains the required environment variables. Embed this in
// your custom environment struct.
type BaseEnvironment struct {
	Port           int           `env:"LHTTP_PORT,required"`
	ServiceName    string        `env:"LHTTP_SERVICE_NAME,required"`
	ReadinessPath  string        `env:"LHTTP_READINESS_PATH" envDefault:"/healthz"`
	LogLevel       zapcore.Level `env:"LHTTP_LOG_LEVEL" envDefault:"info"`
	Debug          bool          `env:"LHTTP_DEBUG" envDefault:"false"`
	OtelExporter   string        `env:"LHTTP_OTEL_EXPORTER" envDefault:"stdout"`
	RequestTimeout time.Duration `env:"LHTTP_REQUEST_TIMEOUT" envDefault:"30s"`
	EnableH2C      bool          `env:"LHTTP_ENABLE_H2C" envDefault:"false"`
}

func (e BaseEnvironment) port() int {
	return e.Port
}

func (e BaseEnvironment) serviceName() string {
	return e.ServiceName
}

func (e BaseEnvironment) readinessPath() string {
	return e.ReadinessPath
}

func (e BaseEnvironment) logLevel() zapcore.Level {
	return e.LogLevel
}

func (e BaseEnvironment) debug() bool {
	return e.Debug
}

func (e BaseEnvironment) otelExporter() string {
	return e.OtelExporter
}

func (e BaseEnvironment) requestTimeout() time.Duration {
	return e.RequestTimeout
}

func (e BaseEnvironment) enableH2C() bool {
	return e.EnableH2C
}

var _ Environment = BaseEnvironment{}

// ParseEnv parses environment variables into the given Environment type.
func ParseEnv[E Environment]() func() (E, error) {
	return func() (e E, err error) {
		if err := env.Parse(&e); err != nil {
			return e, errors.Wrap(err, "failed to parse environment")
		}
		return e, nil
	}
}
