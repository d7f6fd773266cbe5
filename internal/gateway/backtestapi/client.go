// Package backtestapi talks to the remote backtest service. Reads never fail
// loudly: any transport, status or decoding problem is logged and turned into
// NotFound (or an empty list). Submissions are the exception and report
// ErrSubmissionFailed to the caller.
package backtestapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"fingraph/internal/config"
	"fingraph/internal/logger"
	"fingraph/internal/pkg/circuit"
	"fingraph/internal/pkg/text"
	"fingraph/internal/telemetry"
)

var (
	// ErrNotFound marks a read miss: absent resource, transport failure,
	// non-2xx status or an unparseable body.
	ErrNotFound = errors.New("backtest resource not found")
	// ErrSubmissionFailed marks a backtest request the service did not accept.
	ErrSubmissionFailed = errors.New("backtest submission failed")
	// ErrInvalidRequest marks a submission rejected before it was sent.
	ErrInvalidRequest = errors.New("invalid backtest request")
)

const (
	pathStrategies = "/api/v1/strategies"
	pathBacktest   = "/api/v1/backtest"

	maxBodyBytes  = 32 << 20
	maxErrorBytes = 4096
	maxErrorText  = 512
)

// Endpoint labels used for metrics and logs.
const (
	endpointDetail     = "backtest_detail"
	endpointStrategies = "strategies"
	endpointBacktests  = "backtests"
)

// StatusError describes a non-2xx response.
type StatusError struct {
	Code    int
	Status  string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backtest service returned %s", e.Status)
	}
	return fmt.Sprintf("backtest service returned %s: %s", e.Status, e.Message)
}

// Client wraps the backtest service REST API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	userAgent  string
	metrics    *telemetry.Metrics
	breaker    *circuit.Breaker
	log        *slog.Logger
}

type Option func(*Client)

// WithMetrics records fetch and submission outcomes in m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient constructs a client for the service at cfg.BaseURL.
func NewClient(cfg config.APIConfig, opts ...Option) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		raw = config.DefaultAPIBaseURL
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse api.base_url failed: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("api.base_url must be absolute, got %q", raw)
	}
	// 0 leaves the request bounded only by ctx and the transport's own timeouts.
	timeout := time.Duration(max(cfg.TimeoutSeconds, 0)) * time.Second
	c := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: timeout, Transport: http.DefaultTransport.(*http.Transport).Clone()},
		userAgent:  strings.TrimSpace(cfg.UserAgent),
		log:        logger.Component("backtestapi"),
	}
	if cfg.BreakerThreshold > 0 {
		cooldown := time.Duration(cfg.BreakerCooldownSeconds) * time.Second
		c.breaker = circuit.New("backtestapi", cfg.BreakerThreshold, cooldown)
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.breaker != nil {
		m := c.metrics
		m.SetBreakerState("backtestapi", int(circuit.StateClosed))
		c.breaker.OnStateChange(func(name string, _, to circuit.State) {
			m.SetBreakerState(name, int(to))
		})
	}
	return c, nil
}

// BaseURL returns the configured service address.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchRaw loads the backtest result for id. Every failure yields NotFound.
func (c *Client) FetchRaw(ctx context.Context, id string) RawPayload {
	payload, err := c.fetchDetail(ctx, id)
	if err != nil {
		c.log.Warn("fetch backtest result failed", "id", id, "error", err)
		return NotFound
	}
	return payload
}

func (c *Client) fetchDetail(ctx context.Context, id string) (payload RawPayload, err error) {
	start := time.Now()
	defer func() { c.metrics.ObserveFetch(endpointDetail, fetchOutcome(err), time.Since(start)) }()

	id = strings.TrimSpace(id)
	if id == "" {
		return NotFound, fmt.Errorf("%w: empty id", ErrNotFound)
	}
	body, err := c.doRequest(ctx, http.MethodGet, pathBacktest+"/"+url.PathEscape(id), nil)
	if err != nil {
		return NotFound, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	payload, err = NewRawPayload(body)
	if err != nil {
		return NotFound, fmt.Errorf("%w: decode body: %w", ErrNotFound, err)
	}
	return payload, nil
}

// FetchStrategyList returns the available strategies, or an empty slice on
// any failure.
func (c *Client) FetchStrategyList(ctx context.Context) []RawPayload {
	return c.fetchList(ctx, endpointStrategies, pathStrategies)
}

// FetchBacktestList returns previously run backtests, or an empty slice on
// any failure.
func (c *Client) FetchBacktestList(ctx context.Context) []RawPayload {
	return c.fetchList(ctx, endpointBacktests, pathBacktest)
}

func (c *Client) fetchList(ctx context.Context, endpoint, path string) []RawPayload {
	items, err := c.readList(ctx, endpoint, path)
	if err != nil {
		c.log.Warn("fetch list failed", "endpoint", endpoint, "error", err)
		return []RawPayload{}
	}
	return items
}

func (c *Client) readList(ctx context.Context, endpoint, path string) (items []RawPayload, err error) {
	start := time.Now()
	defer func() { c.metrics.ObserveFetch(endpoint, fetchOutcome(err), time.Since(start)) }()

	body, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	items, err = newRawPayloadList(body)
	if err != nil {
		return nil, fmt.Errorf("%w: decode body: %w", ErrNotFound, err)
	}
	return items, nil
}

func fetchOutcome(err error) string {
	if err == nil {
		return telemetry.OutcomeOK
	}
	return telemetry.OutcomeNotFound
}

// doRequest performs a single attempt and returns the body of a 2xx response.
func (c *Client) doRequest(ctx context.Context, method, path string, payload any) ([]byte, error) {
	if c == nil || c.httpClient == nil {
		return nil, fmt.Errorf("backtest client not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	endpoint := c.resolveEndpoint(path)

	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request failed: %w", err)
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	if c.breaker != nil && !c.breaker.Allow() {
		return nil, fmt.Errorf("call backtest service skipped: %w", circuit.ErrOpen)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordOutcome(false)
		return nil, fmt.Errorf("call backtest service failed: %w", err)
	}
	defer resp.Body.Close()
	c.recordOutcome(resp.StatusCode < 500)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status, Message: errorMessage(data)}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response failed: %w", err)
	}
	return data, nil
}

// recordOutcome feeds the breaker. 4xx responses count as healthy.
func (c *Client) recordOutcome(ok bool) {
	if c.breaker == nil {
		return
	}
	if ok {
		c.breaker.RecordSuccess()
		return
	}
	c.breaker.RecordFailure()
}

// errorMessage prefers the service's {"error": "..."} field over the raw body.
func errorMessage(data []byte) string {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return ""
	}
	if doc, err := parseDocument(data); err == nil {
		if msg := strings.TrimSpace(doc.Get("error").String()); msg != "" {
			return text.Truncate(msg, maxErrorText)
		}
	}
	return text.Truncate(trimmed, maxErrorText)
}

// resolveEndpoint joins an already escaped path onto the base URL.
func (c *Client) resolveEndpoint(path string) *url.URL {
	trimmed := strings.TrimSpace(path)
	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}
	base := *c.baseURL
	rawPath := strings.TrimSuffix(base.EscapedPath(), "/") + trimmed
	decoded, err := url.PathUnescape(rawPath)
	if err != nil {
		decoded = rawPath
	}
	base.Path = decoded
	base.RawPath = rawPath
	base.RawQuery = ""
	base.Fragment = ""
	return &base
}
