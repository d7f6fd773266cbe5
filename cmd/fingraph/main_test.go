package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"fingraph/internal/view"
)

func sampleView() view.StrategyView {
	return view.StrategyView{
		ID:          "sma",
		Name:        "SMA Crossover",
		Description: view.DefaultDescription,
		PriceSeries: view.TimeSeries{Dates: []string{"2024-01-01"}, Values: []float64{100}},
		EquitySeries: view.TimeSeries{
			Dates: []string{}, Values: []float64{},
		},
		Trades:  []view.TradeEvent{{Date: "2024-01-01", Side: view.SideBuy, Price: 100, Quantity: 10}},
		Metrics: view.MetricsSnapshot{TotalReturnPct: 15.2, SharpeRatio: 1.34, TotalTrades: 1},
	}
}

func TestWriteViewFormats(t *testing.T) {
	v := sampleView()

	var buf bytes.Buffer
	require.NoError(t, writeView(&buf, v, "json"))
	var fromJSON view.StrategyView
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fromJSON))
	assert.Equal(t, "SMA Crossover", fromJSON.Name)

	buf.Reset()
	require.NoError(t, writeView(&buf, v, "YAML"))
	var fromYAML map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &fromYAML))
	assert.Equal(t, "sma", fromYAML["id"])
	assert.Contains(t, fromYAML, "price_series")

	buf.Reset()
	require.NoError(t, writeView(&buf, v, ""))
	text := buf.String()
	assert.Contains(t, text, "SMA Crossover (sma)")
	assert.Contains(t, text, "15.20%")
	assert.Contains(t, text, "BUY")
	assert.Contains(t, text, "$100.00")
	assert.Contains(t, text, "10 shares")

	assert.Error(t, writeView(io.Discard, v, "xml"))
}

func TestWriteListing(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeListing(&buf, nil))
	assert.Contains(t, buf.String(), "No strategies found.")

	buf.Reset()
	require.NoError(t, writeListing(&buf, []view.StrategyView{{ID: "a", Name: "Alpha", Description: "d"}}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[1], "a "))
	assert.Contains(t, lines[1], "Alpha")
}

func TestParseParams(t *testing.T) {
	got, err := parseParams([]string{"fast=5", "slow = 20", "mode=ema", "long=true"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"fast": 5.0, "slow": 20.0, "mode": "ema", "long": true}, got)

	_, err = parseParams([]string{"novalue"})
	assert.Error(t, err)
	_, err = parseParams([]string{"=1"})
	assert.Error(t, err)
}

func TestSafeFileName(t *testing.T) {
	assert.Equal(t, "run_1.2-x", safeFileName("run/1.2-x"))
	assert.Equal(t, "a_b", safeFileName("a b"))
}

func writeTestConfig(t *testing.T, baseURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fingraph.yaml")
	body := "api:\n  base_url: " + baseURL + "\nsubmit:\n  data_id: spy\n  initial_cash: 5000\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestShowCommand(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/backtest/sma" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"strategy":"SMA","metrics":{"totalReturn":3.5}}`))
	}))
	defer upstream.Close()
	cfgPath := writeTestConfig(t, upstream.URL)

	out, err := execute(t, "show", "sma", "--config", cfgPath, "--output", "json")
	require.NoError(t, err)
	var v view.StrategyView
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "SMA", v.Name)
	assert.Equal(t, 3.5, v.Metrics.TotalReturnPct)

	_, err = execute(t, "show", "missing", "--config", cfgPath, "--output", "json")
	assert.Error(t, err)
}

func TestSubmitCommand(t *testing.T) {
	var got map[string]any
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"strategyId":"bt-9"}`))
	}))
	defer upstream.Close()
	cfgPath := writeTestConfig(t, upstream.URL)

	out, err := execute(t, "submit", "--config", cfgPath, "--strategy", "sma", "--param", "fast=5")
	require.NoError(t, err)
	assert.Equal(t, "bt-9", strings.TrimSpace(out))
	assert.Equal(t, "spy", got["dataId"])
	assert.Equal(t, 5000.0, got["initialCash"])
	assert.Equal(t, map[string]any{"fast": 5.0}, got["parameters"])
}
