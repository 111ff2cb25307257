package prompts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmate-poc/server/internal/agent/model"
)

func TestRenderResponseSystem(t *testing.T) {
	cfg := model.ResponsePromptConfig{
		BusinessType:  "online fashion retail",
		AssistantName: "ShopMate",
	}

	t.Run("plain mode", func(t *testing.T) {
		got, err := RenderResponseSystem(context.Background(), cfg, false)
		require.NoError(t, err)

		assert.Contains(t, got, "You are ShopMate")
		assert.Contains(t, got, "online fashion retail")
		for _, toolName := range []string{
			"search_products", "estimate_shipping", "check_discounts",
			"check_return_policy", "compare_prices",
		} {
			assert.Contains(t, got, toolName)
		}
		assert.NotContains(t, got, "Self-critique mode is active")
		// no leftover template syntax
		assert.NotContains(t, got, "{{")
	})

	t.Run("self-critique mode appends revision instructions", func(t *testing.T) {
		got, err := RenderResponseSystem(context.Background(), cfg, true)
		require.NoError(t, err)
		assert.Contains(t, got, "Self-critique mode is active")
	})
}

func TestRenderCriticSystem(t *testing.T) {
	got, err := RenderCriticSystem(context.Background())
	require.NoError(t, err)

	// delimiter tokens must be substituted with their literal values
	assert.Contains(t, got, "<||>")
	assert.Contains(t, got, "##")
	assert.Contains(t, got, "<|COMPLETE|>")
	assert.NotContains(t, got, "{TD}")
	assert.NotContains(t, got, "{RD}")
	assert.NotContains(t, got, "{CD}")

	// the six issue categories the parser accepts
	for _, category := range []string{
		"ungrounded_price", "ungrounded_discount", "unknown_product",
		"unknown_store", "unverified_delivery", "missing_check",
	} {
		assert.Contains(t, got, category)
	}
}
