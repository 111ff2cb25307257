package model

import (
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
)

func TestResolvePricing(t *testing.T) {
	p := ResolvePricing("gemini-2.5-flash")
	assert.Equal(t, 0.30, p.InputPerM)
	assert.Equal(t, 2.50, p.OutputPerM)

	p = ResolvePricing("gemini-2.5-flash-lite")
	assert.Equal(t, 0.10, p.InputPerM)

	// unknown model falls back to zero pricing
	p = ResolvePricing("some-future-model")
	assert.Zero(t, p.InputPerM)
	assert.Zero(t, p.OutputPerM)
}

func TestComputeCost(t *testing.T) {
	pricing := Pricing{InputPerM: 0.30, OutputPerM: 2.50}

	in, out, total := ComputeCost(&schema.TokenUsage{
		PromptTokens:     500_000,
		CompletionTokens: 100_000,
	}, pricing)

	assert.InDelta(t, 0.15, in, 1e-9)
	assert.InDelta(t, 0.25, out, 1e-9)
	assert.InDelta(t, 0.40, total, 1e-9)

	in, out, total = ComputeCost(nil, pricing)
	assert.Zero(t, in)
	assert.Zero(t, out)
	assert.Zero(t, total)
}
