package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReloadNotifiesListeners(t *testing.T) {
	t.Setenv("FINGRAPH_API_BASE_URL", "")
	t.Setenv("FINGRAPH_API_URL", "")
	dir := t.TempDir()
	path := writeFile(t, dir, "fingraph.yaml", "chart:\n  height: 300px\n")

	w, err := newWatcher(path)
	require.NoError(t, err)
	assert.Equal(t, "300px", w.Current().Chart.Height)

	var got []*Config
	w.Subscribe(func(cfg *Config) { got = append(got, cfg) })
	w.Subscribe(nil)

	writeFile(t, dir, "fingraph.yaml", "chart:\n  height: 520px\n")
	w.reload(path)

	require.Len(t, got, 1)
	assert.Equal(t, "520px", got[0].Chart.Height)
	assert.Same(t, got[0], w.Current())
}

func TestWatcherKeepsLastGoodConfig(t *testing.T) {
	t.Setenv("FINGRAPH_API_BASE_URL", "")
	t.Setenv("FINGRAPH_API_URL", "")
	dir := t.TempDir()
	path := writeFile(t, dir, "fingraph.yaml", "api:\n  base_url: http://engine:8080\n")

	w, err := newWatcher(path)
	require.NoError(t, err)

	called := false
	w.Subscribe(func(*Config) { called = true })

	writeFile(t, dir, "fingraph.yaml", "api:\n  base_url: ftp://nowhere\n")
	w.reload(path)

	assert.False(t, called)
	assert.Equal(t, "http://engine:8080", w.Current().API.BaseURL)
}

func TestWatcherListenerPanicIsContained(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "fingraph.yaml", "app:\n  env: test\n")

	w, err := newWatcher(path)
	require.NoError(t, err)

	second := false
	w.Subscribe(func(*Config) { panic("boom") })
	w.Subscribe(func(*Config) { second = true })

	assert.NotPanics(t, func() { w.reload(path) })
	assert.True(t, second)
}

func TestNewWatcherRequiresPath(t *testing.T) {
	_, err := NewWatcher(" ")
	assert.Error(t, err)
}

func TestNewWatcherStartsFromFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "fingraph.yaml", "app:\n  http_addr: 127.0.0.1:7000\n")

	w, err := NewWatcher(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", w.Current().App.HTTPAddr)
}
