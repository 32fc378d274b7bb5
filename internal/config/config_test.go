package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fragmede/tagterm/internal/form"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, form.DefaultRedirectDelay, cfg.RedirectDelay)
	assert.Equal(t, form.DefaultRequestTimeout, cfg.RequestTimeout)
	assert.Equal(t, "en", cfg.Locale)
	assert.Equal(t, filepath.Join(cfg.ConfigDir, "tagterm.db"), cfg.DBPath)
}

func TestLoadFromMissingFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yml")
	cfg, err := LoadFrom(path, Default())
	require.NoError(t, err)
	assert.Equal(t, Default().BaseURL, cfg.BaseURL)
	assert.Equal(t, path, cfg.ConfigPath)
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	yml := "base_url: http://auth.internal:8080\nlocale: zh\nredirect_delay: 250ms\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	t.Setenv("TAGTERM_BASE_URL", "http://override:9000")

	cfg, err := LoadFrom(path, Default())
	require.NoError(t, err)
	assert.Equal(t, "http://override:9000", cfg.BaseURL)
	assert.Equal(t, "zh", cfg.Locale)
	assert.Equal(t, 250*time.Millisecond, cfg.RedirectDelay)
	// Untouched fields keep their defaults.
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestLoadFromRejectsBadDurations(t *testing.T) {
	for _, yml := range []string{"request_timeout: 0s\n", "redirect_delay: 0s\n", "redirect_delay: -1s\n"} {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

		_, err := LoadFrom(path, Default())
		assert.Error(t, err, yml)
	}
}
