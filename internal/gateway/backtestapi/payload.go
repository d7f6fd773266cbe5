package backtestapi

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// RawPayload is a loosely-typed record decoded from the backtest service.
// Fields may be missing, renamed or of the wrong type; the view package is
// responsible for reconciling them. The zero value is NotFound.
type RawPayload struct {
	gjson.Result
}

// NotFound is the payload returned for any read miss.
var NotFound = RawPayload{}

// Found reports whether the payload carries a JSON object.
func (p RawPayload) Found() bool {
	return p.Result.IsObject()
}

// NewRawPayload parses body as a single JSON object.
func NewRawPayload(body []byte) (RawPayload, error) {
	doc, err := parseDocument(body)
	if err != nil {
		return NotFound, err
	}
	if !doc.IsObject() {
		return NotFound, fmt.Errorf("expected JSON object, got %s", describeType(doc))
	}
	return RawPayload{Result: doc}, nil
}

// newRawPayloadList parses body as a JSON array and keeps its object items.
// Non-object items are dropped.
func newRawPayloadList(body []byte) ([]RawPayload, error) {
	doc, err := parseDocument(body)
	if err != nil {
		return nil, err
	}
	if !doc.IsArray() {
		return nil, fmt.Errorf("expected JSON array, got %s", describeType(doc))
	}
	items := doc.Array()
	out := make([]RawPayload, 0, len(items))
	for _, item := range items {
		if item.IsObject() {
			out = append(out, RawPayload{Result: item})
		}
	}
	return out, nil
}

func parseDocument(body []byte) (gjson.Result, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return gjson.Result{}, fmt.Errorf("empty body")
	}
	if !gjson.Valid(trimmed) {
		return gjson.Result{}, fmt.Errorf("invalid JSON")
	}
	return gjson.Parse(trimmed), nil
}

func describeType(r gjson.Result) string {
	switch {
	case r.IsArray():
		return "array"
	case r.IsObject():
		return "object"
	default:
		return strings.ToLower(r.Type.String())
	}
}
