package lapp

import (
	intervals "github.com/MawKKe/integer-interval-expressions-go"
	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"
)

// PayloadFormat selects which gateway event shape the process decodes.
type PayloadFormat string

const (
	// PayloadFormatREST is API Gateway payload format version 1.0.
	PayloadFormatREST PayloadFormat = "rest"
	// PayloadFormatHTTP is API Gateway payload format version 2.0.
	PayloadFormatHTTP PayloadFormat = "http"
)

// Environment defines the interface that all environment configurations
// must implement. Embed BaseEnvironment in your struct to satisfy it.
type Environment interface {
	serviceName() string
	logLevel() zapcore.Level
	otelExporter() string
	payloadFormat() PayloadFormat
	errorStatusCodes() string
	localTestMode() bool
	localTestPort() int
	awsRegion() string
}

// BaseEnvironment contains the environment variables every olat-hosted
// function reads. Embed this in your custom environment struct and add
// your own `env`-tagged fields next to it.
type BaseEnvironment struct {
	ServiceName  string        `env:"OLAT_SERVICE_NAME,required"`
	LogLevel     zapcore.Level `env:"OLAT_LOG_LEVEL" envDefault:"info"`
	OtelExporter string        `env:"OLAT_OTEL_EXPORTER" envDefault:"stdout"`

	// PayloadFormat picks the event adapter at configuration time, never
	// per request: "rest" for API Gateway payload 1.0, "http" for 2.0.
	PayloadFormat PayloadFormat `env:"OLAT_PAYLOAD_FORMAT" envDefault:"http"`

	// ErrorStatusCodes is an integer interval expression (e.g. "500-599"
	// or "500,502-504") naming the response statuses that get logged at
	// error level even though the handler produced them normally.
	ErrorStatusCodes string `env:"OLAT_ERROR_STATUS_CODES" envDefault:"500-599"`

	// LocalTestMode switches startup from awaiting platform-driven
	// invocations to serving the local test front end.
	LocalTestMode bool `env:"LOCAL_TEST_MODE" envDefault:"false"`
	LocalTestPort int  `env:"LOCAL_TEST_PORT" envDefault:"7000"`

	// AWSRegion is set automatically by the Lambda runtime. It is only
	// needed when AWS clients or secrets are wired in.
	AWSRegion string `env:"AWS_REGION"`
}

func (e BaseEnvironment) serviceName() string          { return e.ServiceName }
func (e BaseEnvironment) logLevel() zapcore.Level      { return e.LogLevel }
func (e BaseEnvironment) otelExporter() string         { return e.OtelExporter }
func (e BaseEnvironment) payloadFormat() PayloadFormat { return e.PayloadFormat }
func (e BaseEnvironment) errorStatusCodes() string     { return e.ErrorStatusCodes }
func (e BaseEnvironment) localTestMode() bool          { return e.LocalTestMode }
func (e BaseEnvironment) localTestPort() int           { return e.LocalTestPort }
func (e BaseEnvironment) awsRegion() string            { return e.AWSRegion }

var _ Environment = BaseEnvironment{}

// ParseEnv parses environment variables into the given Environment type
// and validates the fields whose values feed configuration-time choices.
func ParseEnv[E Environment]() func() (E, error) {
	return func() (e E, err error) {
		if err := env.Parse(&e); err != nil {
			return e, errors.Wrap(err, "failed to parse environment")
		}

		switch e.payloadFormat() {
		case PayloadFormatREST, PayloadFormatHTTP:
		default:
			return e, errors.Newf("unsupported OLAT_PAYLOAD_FORMAT: %q (supported: rest, http)", e.payloadFormat())
		}

		if _, err := intervals.ParseExpression(e.errorStatusCodes()); err != nil {
			return e, errors.Wrapf(err, "failed to parse OLAT_ERROR_STATUS_CODES %q", e.errorStatusCodes())
		}

		return e, nil
	}
}
