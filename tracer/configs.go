package tracer

// Config controls the OpenTelemetry tracer provider.
type Config struct {
	// ServiceName is recorded as the service.name resource attribute.
	ServiceName string `yaml:"service_name" envconfig:"SERVICE_NAME"`

	// AppEnv is recorded as deployment.environment, e.g. "development".
	AppEnv string `yaml:"app_env" envconfig:"APP_ENV"`

	// EnableExport sends spans to an OTLP/HTTP collector. When false spans are
	// still created (so trace headers propagate to the service) but never leave
	// the process.
	EnableExport bool `yaml:"enable_export" envconfig:"ENABLE_EXPORT"`

	// Endpoint overrides the collector host:port. Empty uses the
	// OTEL_EXPORTER_OTLP_ENDPOINT environment variable or the exporter default.
	Endpoint string `yaml:"endpoint" envconfig:"ENDPOINT"`

	// Insecure disables TLS towards the collector.
	Insecure bool `yaml:"insecure" envconfig:"INSECURE"`

	// SampleRatio is the fraction of root spans sampled. Zero means always.
	SampleRatio float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO"`
}
