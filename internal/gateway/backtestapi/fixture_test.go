package backtestapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fingraph/internal/config"

	"github.com/stretchr/testify/require"
)

// sampleBacktest builds a canned backtest result in the service's wire shape:
// a daily random-walk-free price path, an equity curve and alternating trades.
func sampleBacktest(id string, days int) map[string]any {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	dates := make([]string, days)
	prices := make([]float64, days)
	equity := make([]float64, days)
	for i := 0; i < days; i++ {
		dates[i] = start.AddDate(0, 0, i).Format(time.DateOnly)
		prices[i] = 100 + float64(i%7) - float64(i%3)
		equity[i] = 10000 + float64(i)*12.5
	}
	trades := []map[string]any{}
	for i := 0; i+5 < days; i += 10 {
		trades = append(trades,
			map[string]any{"date": dates[i], "type": "buy", "price": prices[i], "quantity": 10},
			map[string]any{"date": dates[i+5], "type": "sell", "price": prices[i+5], "quantity": 10},
		)
	}
	return map[string]any{
		"strategy":   fmt.Sprintf("Moving Average %s", id),
		"priceData":  map[string]any{"dates": dates, "prices": prices},
		"equityData": map[string]any{"dates": dates, "equity": equity},
		"trades":     trades,
		"metrics": map[string]any{
			"totalReturn": 15.2,
			"sharpeRatio": 1.34,
			"maxDrawdown": -8.2,
			"winRate":     62.5,
			"totalTrades": len(trades),
		},
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(config.APIConfig{BaseURL: srv.URL, TimeoutSeconds: 2, UserAgent: "fingraph-test"})
	require.NoError(t, err)
	return client
}

func requirePath(t *testing.T, r *http.Request, method, path string) {
	t.Helper()
	require.Equal(t, method, r.Method)
	require.True(t, strings.HasSuffix(r.URL.EscapedPath(), path), "path %s", r.URL.EscapedPath())
}
