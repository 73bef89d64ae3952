package metrics

// DefaultAddress is where the metrics endpoint listens when Config.Address is nil.
const DefaultAddress = ":9091"

// DefaultNamespace prefixes every series created by the client observer.
const DefaultNamespace = "sliderule"

// Config controls the Prometheus registry and its HTTP endpoint.
type Config struct {
	// Address is the listen address of the /metrics endpoint.
	//   - nil            → DefaultAddress
	//   - Ptr("")        → no HTTP server; the registry is still usable
	//   - "127.0.0.1:0"  → loopback, random port
	//
	// This setting can be configured via:
	//   - YAML configuration with the "address" key
	//   - Environment variable SLIDERULE_METRICS_ADDRESS
	Address *string `yaml:"address" envconfig:"ADDRESS"`

	// Namespace prefixes client metric names. Empty means DefaultNamespace.
	Namespace string `yaml:"namespace" envconfig:"NAMESPACE"`

	// ServiceName is attached as a constant "service" label to every series.
	ServiceName string `yaml:"service_name" envconfig:"SERVICE_NAME"`

	// IncludeRuntime registers the Go runtime and process collectors.
	IncludeRuntime bool `yaml:"include_runtime" envconfig:"INCLUDE_RUNTIME"`
}

// Ptr returns a pointer to s.
//
// Example:
//
//	cfg := metrics.Config{Address: metrics.Ptr("")} // registry only, no server
func Ptr(s string) *string {
	return &s
}
