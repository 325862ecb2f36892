package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/propdesk/propdesk/internal/colors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmpDir, "state"))
	t.Setenv("HOME", tmpDir)
	colors.SetOutput(os.Stdout, &discard{})
	t.Cleanup(func() {
		colors.SetOutput(nil, nil)
		reset()
	})
	return tmpDir
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestLoadDefaults(t *testing.T) {
	tmpDir := isolate(t)
	Load()

	assert.Equal(t, filepath.Join(tmpDir, "config", "propdesk"), Get("config_dir", ""))
	assert.Equal(t, filepath.Join(tmpDir, "state", "propdesk"), Get("state_dir", ""))
	assert.Equal(t, 10, GetInt("page_size", 0))
	assert.Equal(t, 2, GetInt("max_retries", 0))
	assert.Equal(t, 250*time.Millisecond, GetDuration("retry_delay_ms", time.Millisecond, 0))
	assert.True(t, GetBool("draft_cache_enabled", false))
	assert.Equal(t, "default", Get("missing", "default"))
}

func TestLoadCreatesSampleConfig(t *testing.T) {
	tmpDir := isolate(t)
	Load()

	data, err := os.ReadFile(filepath.Join(tmpDir, "config", "propdesk", "config.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# propdesk configuration")
	assert.Contains(t, string(data), "page_size = 10")
}

func TestConfigLoadingPrecedence(t *testing.T) {
	tmpDir := isolate(t)
	configFile := filepath.Join(tmpDir, "custom.toml")
	content := `
api_base_url = "https://crm.example.com/api/"
page_size = 25
max_retries = 0
output_format = "table"
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))
	t.Setenv("PROPDESK_CONFIG_PATH", configFile)
	t.Setenv("PROPDESK_PAGE_SIZE", "12")

	Load()

	assert.Equal(t, "12", Get("page_size", ""), "environment should override config file")
	assert.Equal(t, "https://crm.example.com/api", Get("api_base_url", ""), "trailing slash is trimmed")
	assert.Equal(t, 0, GetInt("max_retries", -1), "zero retries is allowed")
	assert.Equal(t, "table", Get("output_format", ""))
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("PROPDESK_PAGE_SIZE", "-3")
	t.Setenv("PROPDESK_OUTPUT_FORMAT", "xml")
	t.Setenv("PROPDESK_API_BASE_URL", "not a url")
	t.Setenv("PROPDESK_DEBUG", "maybe")

	Load()

	assert.Equal(t, "10", Get("page_size", ""))
	assert.Equal(t, "simple", Get("output_format", ""))
	assert.Equal(t, "http://localhost:8787/api", Get("api_base_url", ""))
	assert.Equal(t, "false", Get("debug", ""))
}

func TestBoolNormalization(t *testing.T) {
	isolate(t)
	t.Setenv("PROPDESK_QUIET", "yes")
	t.Setenv("PROPDESK_LOGGING_ENABLED", "0")

	Load()

	assert.True(t, GetBool("quiet", false))
	assert.False(t, GetBool("logging_enabled", true))
}

func TestSetOverridesValue(t *testing.T) {
	isolate(t)
	Load()

	Set("api_base_url", "http://127.0.0.1:9000/api")
	assert.Equal(t, "http://127.0.0.1:9000/api", Get("api_base_url", ""))
}

func TestRegisterValidatorPanicsOnDuplicate(t *testing.T) {
	assert.Panics(t, func() {
		RegisterValidator("page_size", PositiveIntValidator())
	})
}
