package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/aalemi-dev/sliderule-go/cmr"
	"github.com/aalemi-dev/sliderule-go/icesat2"
	"github.com/aalemi-dev/sliderule-go/logger"
	"github.com/aalemi-dev/sliderule-go/metrics"
	"github.com/aalemi-dev/sliderule-go/sliderule"
	"github.com/aalemi-dev/sliderule-go/tracer"
)

// EnvPrefix prefixes every environment override, e.g. SLIDERULE_CLIENT_URL.
const EnvPrefix = "SLIDERULE"

// Config is the complete client configuration.
type Config struct {
	Logger  logger.Config    `yaml:"logger" envconfig:"LOGGER"`
	Client  sliderule.Config `yaml:"client" envconfig:"CLIENT"`
	CMR     cmr.Config       `yaml:"cmr" envconfig:"CMR"`
	ICESat2 icesat2.Config   `yaml:"icesat2" envconfig:"ICESAT2"`
	Metrics metrics.Config   `yaml:"metrics" envconfig:"METRICS"`
	Tracer  tracer.Config    `yaml:"tracer" envconfig:"TRACER"`
}

// DefaultConfig returns the configuration for the public service with the
// metrics server and trace export disabled.
func DefaultConfig() *Config {
	return &Config{
		Logger: logger.Config{
			Level:       logger.Info,
			ServiceName: "sliderule",
			Encoding:    "json",
		},
		Client:  sliderule.DefaultConfig(),
		CMR:     cmr.DefaultConfig(),
		ICESat2: icesat2.DefaultConfig(),
		Metrics: metrics.Config{
			Address:     metrics.Ptr(""),
			Namespace:   metrics.DefaultNamespace,
			ServiceName: "sliderule",
		},
		Tracer: tracer.Config{
			ServiceName: "sliderule",
			SampleRatio: 1,
		},
	}
}

// Load reads the YAML file at path over DefaultConfig, then applies
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if !filepath.IsAbs(path) {
			abs, err := filepath.Abs(path)
			if err != nil {
				return nil, fmt.Errorf("invalid config path: %w", err)
			}
			path = abs
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}
	if err := cfg.Client.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as YAML with owner-only permissions.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
