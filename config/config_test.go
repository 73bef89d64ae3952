package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aalemi-dev/sliderule-go/config"
	"github.com/aalemi-dev/sliderule-go/logger"
	"github.com/aalemi-dev/sliderule-go/sliderule"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, sliderule.DefaultURL, cfg.Client.URL)
	assert.Equal(t, sliderule.DefaultOrganization, cfg.Client.Organization)
	assert.Equal(t, logger.Info, cfg.Logger.Level)
	require.NotNil(t, cfg.Metrics.Address)
	assert.Empty(t, *cfg.Metrics.Address)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sliderule.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logger:
  level: debug
client:
  url: http://localhost:9081
  organization: ""
  timeout: 30s
  compression: true
cmr:
  page_size: 100
`), 0o600))

	t.Setenv("SLIDERULE_CLIENT_TIMEOUT", "45s")
	t.Setenv("SLIDERULE_ICESAT2_ASSET", "atlas-local")
	t.Setenv("SLIDERULE_METRICS_ADDRESS", ":9191")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "http://localhost:9081", cfg.Client.URL)
	assert.Equal(t, "", cfg.Client.Organization)
	assert.True(t, cfg.Client.Compression)
	assert.Equal(t, 45*time.Second, cfg.Client.Timeout)
	assert.Equal(t, 100, cfg.CMR.PageSize)
	assert.Equal(t, "atlas-local", cfg.ICESat2.Asset)
	assert.Equal(t, ":9191", *cfg.Metrics.Address)
	// untouched sections keep their defaults
	assert.Equal(t, sliderule.DefaultWorkers, cfg.Client.Workers)
}

func TestLoadErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("client: [1, 2"), 0o600))
	_, err = config.Load(path)
	assert.Error(t, err)

	t.Setenv("SLIDERULE_CLIENT_TIMEOUT", "soon")
	_, err = config.Load("")
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sliderule.yaml")
	cfg := config.DefaultConfig()
	cfg.Client.URL = "http://127.0.0.1:9081"
	require.NoError(t, config.Save(cfg, path))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9081", loaded.Client.URL)
}
