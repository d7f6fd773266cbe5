package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("FINGRAPH_API_BASE_URL", "")
	t.Setenv("FINGRAPH_API_URL", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIBaseURL, cfg.API.BaseURL)
	assert.Equal(t, defaultAPITimeout, cfg.API.TimeoutSeconds)
	assert.Equal(t, ":9991", cfg.App.HTTPAddr)
	assert.Equal(t, "default_data", cfg.Submit.DataID)
	assert.Equal(t, float64(10000), cfg.Submit.InitialCash)
	assert.Equal(t, "400px", cfg.Chart.Height)
}

func TestLoadEnvOverridesBaseURL(t *testing.T) {
	t.Setenv("FINGRAPH_API_BASE_URL", "")
	t.Setenv("FINGRAPH_API_URL", "http://engine:9000/")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://engine:9000", cfg.API.BaseURL)
}

func TestLoadFileWithInclude(t *testing.T) {
	t.Setenv("FINGRAPH_API_BASE_URL", "")
	t.Setenv("FINGRAPH_API_URL", "")
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", `
api:
  base_url: http://backtest.internal:8080
  timeout_seconds: 5
`)
	main := writeFile(t, dir, "config.yaml", `
include:
  - base.yaml
app:
  log_level: debug
submit:
  initial_cash: 2500
`)

	cfg, err := Load(main)
	require.NoError(t, err)
	assert.Equal(t, "http://backtest.internal:8080", cfg.API.BaseURL)
	assert.Equal(t, 5, cfg.API.TimeoutSeconds)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, 2500.0, cfg.Submit.InitialCash)
	assert.Equal(t, "default_data", cfg.Submit.DataID)
}

func TestLoadRejectsBadBaseURL(t *testing.T) {
	t.Setenv("FINGRAPH_API_BASE_URL", "ftp://nowhere")
	t.Setenv("FINGRAPH_API_URL", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api.base_url")
}

func TestLoadDetectsIncludeCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "include: [b.yaml]\n")
	writeFile(t, dir, "b.yaml", "include: [a.yaml]\n")

	_, err := Load(filepath.Join(dir, "a.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "include cycle")
}

func TestLoadBreakerSettings(t *testing.T) {
	t.Setenv("FINGRAPH_API_BASE_URL", "")
	t.Setenv("FINGRAPH_API_URL", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.API.BreakerThreshold)
	assert.Equal(t, defaultBreakerCooldown, cfg.API.BreakerCooldownSeconds)

	dir := t.TempDir()
	path := writeFile(t, dir, "fingraph.yaml", "api:\n  breaker_threshold: 3\n  breaker_cooldown_seconds: 5\n")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.API.BreakerThreshold)
	assert.Equal(t, 5, cfg.API.BreakerCooldownSeconds)

	path = writeFile(t, dir, "bad.yaml", "api:\n  breaker_threshold: -1\n")
	_, err = Load(path)
	assert.Error(t, err)
}

func TestLoadEnvOverridesEverySection(t *testing.T) {
	t.Setenv("FINGRAPH_API_BASE_URL", "")
	t.Setenv("FINGRAPH_API_URL", "")
	t.Setenv("FINGRAPH_APP_HTTP_ADDR", ":7777")
	t.Setenv("FINGRAPH_APP_LOG_LEVEL", "debug")
	t.Setenv("FINGRAPH_API_TIMEOUT_SECONDS", "3")
	t.Setenv("FINGRAPH_CHART_HEIGHT", "640px")
	t.Setenv("FINGRAPH_SUBMIT_INITIAL_CASH", "2500.5")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.App.HTTPAddr)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, 3, cfg.API.TimeoutSeconds)
	assert.Equal(t, "640px", cfg.Chart.Height)
	assert.Equal(t, 2500.5, cfg.Submit.InitialCash)
}

func TestLoadEnvBeatsFile(t *testing.T) {
	t.Setenv("FINGRAPH_API_BASE_URL", "")
	t.Setenv("FINGRAPH_API_URL", "")
	t.Setenv("FINGRAPH_APP_HTTP_ADDR", "127.0.0.1:8000")
	path := writeFile(t, t.TempDir(), "fingraph.yaml", "app:\n  http_addr: \":9000\"\n  env: prod\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8000", cfg.App.HTTPAddr)
	assert.Equal(t, "prod", cfg.App.Env)
}

func TestLoadExplicitZeroTimeout(t *testing.T) {
	t.Setenv("FINGRAPH_API_BASE_URL", "")
	t.Setenv("FINGRAPH_API_URL", "")
	dir := t.TempDir()

	cfg, err := Load(writeFile(t, dir, "zero.yaml", "api:\n  timeout_seconds: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.API.TimeoutSeconds)

	_, err = Load(writeFile(t, dir, "neg.yaml", "api:\n  timeout_seconds: -2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api.timeout_seconds")
}

func TestSettingKeysFollowTags(t *testing.T) {
	keys := settingKeys(reflect.TypeOf(Config{}), "")
	assert.Contains(t, keys, "app.http_addr")
	assert.Contains(t, keys, "api.breaker_cooldown_seconds")
	assert.Contains(t, keys, "chart.snapshot_timeout_seconds")
	assert.Contains(t, keys, "submit.initial_cash")
	assert.NotContains(t, keys, "api")
}
