package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestNumber(t *testing.T) {
	doc := gjson.Parse(`{"a":1.5,"b":"2","c":null,"d":true}`)

	v, ok := Number(doc.Get("a"))
	assert.True(t, ok)
	assert.Equal(t, 1.5, v)

	for _, key := range []string{"b", "c", "d", "missing"} {
		_, ok := Number(doc.Get(key))
		assert.False(t, ok, key)
	}
}

func TestParseScalar(t *testing.T) {
	assert.Equal(t, true, ParseScalar("TRUE"))
	assert.Equal(t, false, ParseScalar(" false "))
	assert.Equal(t, 14.0, ParseScalar("14"))
	assert.Equal(t, -0.5, ParseScalar("-0.5"))
	assert.Equal(t, "sma", ParseScalar(" sma "))
	assert.Equal(t, "NaN", ParseScalar("NaN"))
	assert.Equal(t, "inf", ParseScalar("inf"))
}
