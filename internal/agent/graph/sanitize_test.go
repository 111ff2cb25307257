package graph

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmate-poc/server/internal/agent/graph/tools"
)

func sanitized(t *testing.T, toolName, args string) map[string]any {
	t.Helper()
	out, err := sanitizeToolArguments(context.Background(), toolName, args)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	return m
}

func TestSanitizeToolArguments(t *testing.T) {
	t.Run("search strings are trimmed and coerced", func(t *testing.T) {
		m := sanitized(t, tools.ToolSearchProducts,
			`{"name":"  sneakers ","size":8,"price_range":" under 70 "}`)
		assert.Equal(t, "sneakers", m["name"])
		assert.Equal(t, "8", m["size"])
		assert.Equal(t, "under 70", m["price_range"])
	})

	t.Run("max_results clamped", func(t *testing.T) {
		m := sanitized(t, tools.ToolSearchProducts, `{"max_results":100}`)
		assert.Equal(t, float64(20), m["max_results"])

		m = sanitized(t, tools.ToolSearchProducts, `{"max_results":"5"}`)
		assert.Equal(t, float64(5), m["max_results"])

		m = sanitized(t, tools.ToolSearchProducts, `{"max_results":"lots"}`)
		assert.NotContains(t, m, "max_results")
	})

	t.Run("in_stock string coerced to bool", func(t *testing.T) {
		m := sanitized(t, tools.ToolSearchProducts, `{"in_stock":"true"}`)
		assert.Equal(t, true, m["in_stock"])

		m = sanitized(t, tools.ToolSearchProducts, `{"in_stock":"maybe"}`)
		assert.NotContains(t, m, "in_stock")
	})

	t.Run("numeric zip coerced to string", func(t *testing.T) {
		m := sanitized(t, tools.ToolEstimateShipping,
			`{"product_name":" Floral Skirt ","zip_code":12345}`)
		assert.Equal(t, "Floral Skirt", m["product_name"])
		assert.Equal(t, "12345", m["zip_code"])
	})

	t.Run("non-JSON passes through untouched", func(t *testing.T) {
		out, err := sanitizeToolArguments(context.Background(), tools.ToolCheckDiscounts, "not json")
		require.NoError(t, err)
		assert.Equal(t, "not json", out)
	})
}

func TestClampInt(t *testing.T) {
	assert.Equal(t, 1, clampInt(0, 1, 20))
	assert.Equal(t, 20, clampInt(99, 1, 20))
	assert.Equal(t, 10, clampInt(10, 1, 20))
}
