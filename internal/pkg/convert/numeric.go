// Package convert provides type conversion utilities.
package convert

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Number reports the value of r when it is a JSON number. Numeric strings,
// booleans and nulls are rejected so that a malformed field falls back to the
// caller's default instead of being coerced.
func Number(r gjson.Result) (float64, bool) {
	if r.Type != gjson.Number {
		return 0, false
	}
	return r.Num, true
}

// ParseScalar turns a command-line value into the JSON scalar it most likely
// denotes: bool for true/false, float64 for numbers, otherwise the trimmed string.
func ParseScalar(raw string) any {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return s
}
