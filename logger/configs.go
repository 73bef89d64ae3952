package logger

// Log level names accepted in Config.Level.
const (
	// Debug enables every message, including per-record decode diagnostics.
	Debug = "debug"

	// Info is the default: request lifecycle and forwarded server messages.
	Info = "info"

	// Warning limits output to truncated streams, omitted records and server warnings.
	Warning = "warning"

	// Error limits output to failed requests and server-side exceptions.
	Error = "error"
)

// Config controls the zap logger built by NewLoggerClient.
type Config struct {
	// Level is the minimum level written. Unknown values fall back to "info".
	//
	// This setting can be configured via:
	//   - YAML configuration with the "level" key
	//   - Environment variable SLIDERULE_LOGGER_LEVEL
	Level string `yaml:"level" envconfig:"LEVEL"`

	// EnableTracing adds trace_id and span_id to every *WithContext entry
	// whose context carries a recording OpenTelemetry span.
	EnableTracing bool `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`

	// ServiceName populates the "service" field of every entry.
	ServiceName string `yaml:"service_name" envconfig:"SERVICE_NAME"`

	// CallerSkip is the number of wrapper frames hidden from the caller field.
	// Zero means 1, which is right when the wrapper is called directly.
	CallerSkip int `yaml:"caller_skip" envconfig:"CALLER_SKIP"`

	// Encoding is "json" (default) or "console".
	Encoding string `yaml:"encoding" envconfig:"ENCODING"`
}
