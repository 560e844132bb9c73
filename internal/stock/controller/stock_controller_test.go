package controller

import (
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestQueryLimit(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"missing falls back", "", 20},
		{"valid value kept", "limit=50", 50},
		{"upper bound kept", "limit=100", 100},
		{"oversized falls back", "limit=5000", 20},
		{"zero falls back", "limit=0", 20},
		{"negative falls back", "limit=-5", 20},
		{"garbage falls back", "limit=abc", 20},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/stock/movements/7?"+tc.query, nil)
			assert.Equal(t, tc.want, queryLimit(r, 20))
		})
	}
}

func TestParseThreshold(t *testing.T) {
	r := httptest.NewRequest("GET", "/stock/alerts/low-stock", nil)
	threshold, ok := parseThreshold(httptest.NewRecorder(), r)
	require.True(t, ok)
	assert.True(t, threshold.Equal(dec("10")))

	r = httptest.NewRequest("GET", "/stock/alerts/low-stock?threshold=2.5", nil)
	threshold, ok = parseThreshold(httptest.NewRecorder(), r)
	require.True(t, ok)
	assert.True(t, threshold.Equal(dec("2.5")))

	r = httptest.NewRequest("GET", "/stock/alerts/low-stock?threshold=lots", nil)
	w := httptest.NewRecorder()
	_, ok = parseThreshold(w, r)
	require.False(t, ok)
	assert.Equal(t, 400, w.Code)
}
