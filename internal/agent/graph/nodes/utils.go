package nodes

import (
	"fmt"

	"github.com/cloudwego/eino/schema"

	"github.com/shopmate-poc/server/internal/agent/model"
	logx "github.com/shopmate-poc/server/pkg/logger"
)

const (
	DefaultMaxToolCalls = 5
	DefaultMaxRevisions = 2
)

// ===== Small helpers to keep handlers simple/readable =====

// normalizeMaxToolCalls returns a sane default when the provided value is invalid.
func normalizeMaxToolCalls(n int) int {
	if n <= 0 {
		return DefaultMaxToolCalls
	}
	return n
}

// normalizeMaxRevisions returns a sane default when the provided value is invalid.
func normalizeMaxRevisions(n int) int {
	if n < 0 {
		return DefaultMaxRevisions
	}
	return n
}

// checkAndMarkToolLimit evaluates whether another tool call would exceed the
// limit and, if so, marks the state accordingly. Returns true when marked now.
func checkAndMarkToolLimit(state *model.AppState, max int) bool {
	max = normalizeMaxToolCalls(max)
	if !state.ToolCallLimitReached && state.ToolCallCount >= max {
		state.ToolCallLimitReached = true
		return true
	}
	return false
}

// incrementToolCallAndCheck increments the count and marks the state if it
// exceeds the limit after incrementing. Returns true when exceeded.
func incrementToolCallAndCheck(state *model.AppState, max int) bool {
	max = normalizeMaxToolCalls(max)
	state.ToolCallCount++
	if state.ToolCallCount > max {
		state.ToolCallLimitReached = true
		return true
	}
	return false
}

// applyUsageCost computes the USD cost of one model call, records it on the
// message Extra, accumulates the per-query total in state, and logs it.
func applyUsageCost(node, modelName string, out *schema.Message, state *model.AppState) {
	if !model.CostEnabled() || out == nil || out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
		return
	}
	pricing := model.ResolvePricing(modelName)
	inC, outC, totalC := model.ComputeCost(out.ResponseMeta.Usage, pricing)
	if out.Extra == nil {
		out.Extra = map[string]any{}
	}
	out.Extra["usage_cost"] = map[string]any{
		"currency":          "USD",
		"model":             modelName,
		"prompt_tokens":     out.ResponseMeta.Usage.PromptTokens,
		"completion_tokens": out.ResponseMeta.Usage.CompletionTokens,
		"total_tokens":      out.ResponseMeta.Usage.TotalTokens,
		"input_cost":        inC,
		"output_cost":       outC,
		"total_cost":        totalC,
	}
	logx.Debug().
		Str("conversation_id", state.ConversationID).
		Str("node", node).
		Str("model", modelName).
		Int("prompt_tokens", out.ResponseMeta.Usage.PromptTokens).
		Int("completion_tokens", out.ResponseMeta.Usage.CompletionTokens).
		Int("total_tokens", out.ResponseMeta.Usage.TotalTokens).
		Float64("input_cost_usd", inC).
		Float64("output_cost_usd", outC).
		Float64("total_cost_usd", totalC).
		Msg("LLM usage")

	// Accumulate only total cost into state
	state.TotalCostUSD += totalC
	// Also expose running total in the message Extra for visibility
	out.Extra["usage_cost_total_usd"] = state.TotalCostUSD
}

// synthesizeToolCallIDs fills in tool_call IDs some providers omit
// (Gemini OpenAI-compat) so tool results can be matched back.
func synthesizeToolCallIDs(out *schema.Message, state *model.AppState) {
	if out == nil || len(out.ToolCalls) == 0 {
		return
	}
	for i := range out.ToolCalls {
		if out.ToolCalls[i].ID == "" {
			state.ToolCallIDSeq++
			out.ToolCalls[i].ID = fmt.Sprintf("call_%d", state.ToolCallIDSeq)
		}
	}
}
