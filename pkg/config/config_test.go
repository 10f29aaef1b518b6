package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fetchanything/pkg/utils"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fetchanything.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFile_OverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
level: 4
filter: "*.pdf"
visited_store: badger
http_client_settings:
  timeout: 90s
  max_idle_conns_per_host: 8
`)

	cfg := Default()
	require.NoError(t, LoadFile(path, &cfg))

	assert.Equal(t, 4, cfg.Level)
	assert.Equal(t, "*.pdf", cfg.Filter)
	assert.Equal(t, VisitedStoreBadger, cfg.VisitedStore)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir, "keys absent from the file keep defaults")
	assert.Equal(t, 90*time.Second, cfg.HTTPClientSettings.Timeout)
	assert.Equal(t, 8, cfg.HTTPClientSettings.MaxIdleConnsPerHost)
}

func TestLoadFile_LevelZeroIsExplicit(t *testing.T) {
	path := writeConfig(t, "level: 0\n")

	cfg := Default()
	require.NoError(t, LoadFile(path, &cfg))

	assert.Equal(t, 0, cfg.Level)
}

func TestLoadFile_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		cfg := Default()
		err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"), &cfg)
		require.Error(t, err)
		assert.True(t, errors.Is(err, utils.ErrFilesystem))
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "level: [unterminated\n")
		cfg := Default()
		err := LoadFile(path, &cfg)
		require.Error(t, err)
		assert.True(t, errors.Is(err, utils.ErrConfigValidation))
	})
}

func TestAppConfig_Request(t *testing.T) {
	cfg := Default()
	cfg.Level = 1
	cfg.Filter = "*.pdf"
	cfg.OutputDir = "out"

	req, err := cfg.Request("http://x/index.html")
	require.NoError(t, err)
	assert.Equal(t, "http://x/index.html", req.SeedURL)
	assert.Equal(t, 1, req.MaxDepth)
	assert.Equal(t, "*.pdf", req.Filter)
	assert.Equal(t, "out", req.OutputDir)
}

func TestAppConfig_Request_InvalidSeed(t *testing.T) {
	cfg := Default()
	for _, seed := range []string{"", "example.com", "/index.html", "http://"} {
		_, err := cfg.Request(seed)
		require.Error(t, err, "seed %q", seed)
		assert.True(t, errors.Is(err, utils.ErrInvalidSeed), "seed %q", seed)
	}
}
