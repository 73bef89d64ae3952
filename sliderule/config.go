package sliderule

import (
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultURL is the public SlideRule deployment.
	DefaultURL = "https://slideruleearth.io"

	// DefaultOrganization is the public cluster.
	DefaultOrganization = "sliderule"

	// DefaultTimeout bounds one request, response stream included.
	DefaultTimeout = 10 * time.Minute

	// DefaultChunkSize is the read size used against response bodies.
	DefaultChunkSize = 64 << 10

	// DefaultWorkers bounds the parallel APIs.
	DefaultWorkers = 4
)

// Config holds configuration for the service client.
type Config struct {
	// URL is the service domain, with or without scheme
	// (e.g., "slideruleearth.io", "http://localhost:9081").
	URL string `yaml:"url" envconfig:"URL"`

	// Organization selects the cluster; it becomes a host prefix.
	Organization string `yaml:"organization" envconfig:"ORGANIZATION"`

	// Timeout for each request including its response stream.
	Timeout time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`

	// Token is sent as a bearer token when set.
	Token string `yaml:"token" envconfig:"TOKEN" json:"-"` //nolint:gosec

	// Compression asks the service for zstd encoded responses.
	Compression bool `yaml:"compression" envconfig:"COMPRESSION"`

	// MaxRecordSize bounds a single framed record; 0 means the stream default.
	MaxRecordSize int `yaml:"max_record_size" envconfig:"MAX_RECORD_SIZE"`

	// ChunkSize is the read size used against response bodies.
	ChunkSize int `yaml:"chunk_size" envconfig:"CHUNK_SIZE"`

	// Workers bounds concurrent requests issued by the parallel APIs.
	Workers int `yaml:"workers" envconfig:"WORKERS"`
}

// DefaultConfig returns the configuration for the public service.
func DefaultConfig() Config {
	return Config{
		URL:          DefaultURL,
		Organization: DefaultOrganization,
		Timeout:      DefaultTimeout,
		ChunkSize:    DefaultChunkSize,
		Workers:      DefaultWorkers,
	}
}

func (c Config) withDefaults() Config {
	if c.URL == "" {
		c.URL = DefaultURL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	return c
}

// Validate reports configuration errors.
func (c Config) Validate() error {
	if _, err := c.baseURL(); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: negative timeout %s", ErrInvalidConfig, c.Timeout)
	}
	if c.MaxRecordSize < 0 {
		return fmt.Errorf("%w: negative max record size %d", ErrInvalidConfig, c.MaxRecordSize)
	}
	return nil
}

// ServiceURL returns the endpoint of api, e.g. https://sliderule.slideruleearth.io/source/atl06.
func (c Config) ServiceURL(api string) (string, error) {
	base, err := c.baseURL()
	if err != nil {
		return "", err
	}
	return base.JoinPath("source", api).String(), nil
}

func (c Config) baseURL() (*url.URL, error) {
	raw := strings.TrimSpace(c.URL)
	if raw == "" {
		raw = DefaultURL
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: url %q: %v", ErrInvalidConfig, c.URL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: url %q has no host", ErrInvalidConfig, c.URL)
	}

	host := u.Hostname()
	if c.Organization != "" && host != "localhost" && net.ParseIP(host) == nil {
		u.Host = c.Organization + "." + u.Host
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
