package backtestapi

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"fingraph/internal/telemetry"
)

//go:embed submit_schema.json
var submitSchemaJSON string

var (
	submitSchemaOnce sync.Once
	submitSchema     *jsonschema.Schema
	submitSchemaErr  error
)

// BacktestRequest is the body of POST /api/v1/backtest. Parameter values must
// be strings, numbers or booleans.
type BacktestRequest struct {
	DataID      string         `json:"dataId"`
	Strategy    string         `json:"strategy"`
	InitialCash float64        `json:"initialCash"`
	Parameters  map[string]any `json:"parameters"`
	StartDate   string         `json:"startDate,omitempty"`
	EndDate     string         `json:"endDate,omitempty"`
}

// Validate checks the request against the submission schema and the date
// range ordering.
func (r BacktestRequest) Validate() error {
	schema, err := compiledSubmitSchema()
	if err != nil {
		return fmt.Errorf("compile submission schema: %w", err)
	}
	if r.Parameters == nil {
		r.Parameters = map[string]any{}
	}
	buf, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	var doc any
	if err := json.Unmarshal(buf, &doc); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if r.StartDate != "" && r.EndDate != "" {
		start, errStart := time.Parse(time.DateOnly, r.StartDate)
		end, errEnd := time.Parse(time.DateOnly, r.EndDate)
		if errStart != nil || errEnd != nil {
			return fmt.Errorf("%w: dates must be YYYY-MM-DD", ErrInvalidRequest)
		}
		if end.Before(start) {
			return fmt.Errorf("%w: endDate %s before startDate %s", ErrInvalidRequest, r.EndDate, r.StartDate)
		}
	}
	return nil
}

func compiledSubmitSchema() (*jsonschema.Schema, error) {
	submitSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("submit_schema.json", strings.NewReader(submitSchemaJSON)); err != nil {
			submitSchemaErr = err
			return
		}
		submitSchema, submitSchemaErr = compiler.Compile("submit_schema.json")
	})
	return submitSchema, submitSchemaErr
}

// SubmitBacktest queues a backtest and returns the identifier assigned by the
// service. A rejected request, a non-2xx response, or a response without an
// identifier yields an error wrapping ErrSubmissionFailed (or ErrInvalidRequest
// when the request never left the process); no identifier is returned then.
func (c *Client) SubmitBacktest(ctx context.Context, req BacktestRequest) (string, error) {
	if req.Parameters == nil {
		req.Parameters = map[string]any{}
	}
	if err := req.Validate(); err != nil {
		c.metrics.ObserveSubmission(telemetry.OutcomeInvalid)
		return "", err
	}
	body, err := c.doRequest(ctx, http.MethodPost, pathBacktest, req)
	if err != nil {
		c.metrics.ObserveSubmission(telemetry.OutcomeFailed)
		c.log.Error("submit backtest failed", "strategy", req.Strategy, "error", err)
		return "", fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}
	payload, err := NewRawPayload(body)
	if err != nil {
		c.metrics.ObserveSubmission(telemetry.OutcomeFailed)
		c.log.Error("submit backtest returned unreadable body", "strategy", req.Strategy, "error", err)
		return "", fmt.Errorf("%w: decode response: %w", ErrSubmissionFailed, err)
	}
	id := submissionID(payload)
	if id == "" {
		c.metrics.ObserveSubmission(telemetry.OutcomeFailed)
		c.log.Error("submit backtest response missing id", "strategy", req.Strategy)
		return "", fmt.Errorf("%w: response carries neither strategyId nor id", ErrSubmissionFailed)
	}
	c.metrics.ObserveSubmission(telemetry.OutcomeOK)
	c.log.Info("backtest submitted", "strategy", req.Strategy, "id", id)
	return id, nil
}

func submissionID(p RawPayload) string {
	for _, key := range []string{"strategyId", "id"} {
		if s := strings.TrimSpace(p.Get(key).String()); s != "" {
			return s
		}
	}
	return ""
}
