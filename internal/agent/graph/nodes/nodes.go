package nodes

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/shopmate-poc/server/internal/agent/graph/conversations"
	"github.com/shopmate-poc/server/internal/agent/graph/parsers"
	"github.com/shopmate-poc/server/internal/agent/graph/prompts"
	"github.com/shopmate-poc/server/internal/agent/model"
	logx "github.com/shopmate-poc/server/pkg/logger"
)

// Graph node names.
const (
	NodeInputConverter    = "input_converter"
	NodeResponseChatModel = "response_chat_model"
	NodeToolExecutor      = "tool_executor"
	NodeCritiqueAssembler = "critique_assembler"
	NodeCriticChatModel   = "critic_chat_model"
	NodeCritiqueParser    = "critique_parser"
	NodeRevisionAssembler = "revision_assembler"
	NodeFinalizer         = "finalizer"
)

// NewInputConverterPreHandler creates the pre-handler for InputConverter node
func NewInputConverterPreHandler() func(context.Context, model.QueryInput, *model.AppState) (model.QueryInput, error) {
	return func(ctx context.Context, in model.QueryInput, s *model.AppState) (model.QueryInput, error) {
		if s.ConversationID == "" {
			s.ConversationID = in.ConversationID
		}
		// Reset per-query counters and carried results
		s.ToolCallCount = 0
		s.ToolCallLimitReached = false
		s.ToolCallIDSeq = 0
		s.RevisionCount = 0
		s.Draft = nil
		s.Critique = nil
		s.TotalCostUSD = 0
		return in, nil
	}
}

// NewInputConverterNode creates the InputConverter node: persists the user
// message and assembles the tool-aware model context.
func NewInputConverterNode(
	mm *conversations.MessagesManager,
	promptCfg *model.ResponsePromptConfig,
	selfCritique bool,
) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, input model.QueryInput) ([]*schema.Message, error) {
		if err := mm.SaveUserMessage(ctx, input.ConversationID, input.Query); err != nil {
			return nil, fmt.Errorf("save user message: %w", err)
		}

		// Generate system prompt via Eino prompt component (enables prompt callbacks)
		systemPrompt, err := prompts.RenderResponseSystem(ctx, *promptCfg, selfCritique)
		if err != nil {
			return nil, fmt.Errorf("render response system prompt: %w", err)
		}

		messages, err := mm.BuildResponseContext(ctx, input.ConversationID, systemPrompt)
		if err != nil {
			return nil, fmt.Errorf("build response context: %w", err)
		}

		return messages, nil
	})
}

// NewResponseChatModelPreHandler creates the pre-handler for ResponseChatModel node
func NewResponseChatModelPreHandler(maxToolCalls int) func(context.Context, []*schema.Message, *model.AppState) ([]*schema.Message, error) {
	return func(ctx context.Context, in []*schema.Message, state *model.AppState) ([]*schema.Message, error) {
		// Heuristic fix for Gemini OpenAI-compat: ensure tool results carry tool_call_id
		if len(in) > 0 {
			last := in[len(in)-1]
			if last != nil && last.Role == schema.Tool && strings.TrimSpace(last.ToolCallID) == "" {
				// Try to find the most recent assistant tool call id from history
				for i := len(state.History) - 1; i >= 0; i-- {
					msg := state.History[i]
					if msg == nil || msg.Role != schema.Assistant || len(msg.ToolCalls) == 0 {
						continue
					}
					if id := msg.ToolCalls[0].ID; strings.TrimSpace(id) != "" {
						last.ToolCallID = id
					}
					break
				}
			}
		}

		state.History = append(state.History, in...)

		if checkAndMarkToolLimit(state, maxToolCalls) {
			maxToolCalls = normalizeMaxToolCalls(maxToolCalls)
			wrapUp := &schema.Message{
				Role: schema.System,
				Content: fmt.Sprintf(
					"SYSTEM NOTICE: You have reached the maximum tool call limit (%d). "+
						"Please synthesize a helpful response using the information you've already gathered. "+
						"Acknowledge any limitations in your response if you couldn't complete all necessary tool calls.",
					maxToolCalls,
				),
			}
			state.History = append(state.History, wrapUp)
		}

		logx.Debug().Msg("AI thinking...")

		return state.History, nil
	}
}

// NewResponseChatModelPostHandler creates the post-handler for ResponseChatModel
// node. persistFinal saves tool-free answers directly; self-critique mode passes
// false and defers persistence to the Finalizer, after the audit settles.
func NewResponseChatModelPostHandler(
	mm *conversations.MessagesManager,
	modelName string,
	persistFinal bool,
) func(context.Context, *schema.Message, *model.AppState) (*schema.Message, error) {
	return func(ctx context.Context, out *schema.Message, state *model.AppState) (*schema.Message, error) {
		applyUsageCost(NodeResponseChatModel, modelName, out, state)
		synthesizeToolCallIDs(out, state)

		state.History = append(state.History, out)

		if len(out.ToolCalls) > 0 {
			logx.Debug().Int("tool_count", len(out.ToolCalls)).Msg("Calling tools")
		} else {
			logx.Debug().Msg("AI response ready")
		}

		// A tool-free assistant answer (or the wrap-up after hitting the tool
		// limit) is the current draft.
		isFinal := out.Role == schema.Assistant &&
			(len(out.ToolCalls) == 0 || state.ToolCallLimitReached) &&
			strings.TrimSpace(out.Content) != ""
		if isFinal {
			state.Draft = out
		}

		if isFinal && persistFinal {
			if err := mm.SaveResponse(ctx, state.ConversationID, out.Content); err != nil {
				logx.Error().
					Str("conversation_id", state.ConversationID).
					Err(err).
					Msg("Error saving assistant response in postHandlerResponse")
			} else {
				logx.Debug().
					Str("conversation_id", state.ConversationID).
					Msg("Successfully saved assistant response to Redis")
			}
		}

		return out, nil
	}
}

// NewResponseRouteCondition routes the response model output: tool calls go to
// the executor; otherwise the answer either ends the run (ReAct mode) or is
// handed to the critic (self-critique mode). Limit-reached wrap-ups skip the
// audit, they already acknowledge their gaps.
func NewResponseRouteCondition(selfCritique bool) func(context.Context, *schema.Message) (string, error) {
	return func(ctx context.Context, input *schema.Message) (string, error) {
		var limitReached bool
		compose.ProcessState(ctx, func(_ context.Context, state *model.AppState) error {
			limitReached = state.ToolCallLimitReached
			return nil
		})

		if limitReached {
			logx.Debug().Msg("Tool limit reached previously - wrapping up")
			if selfCritique {
				return NodeFinalizer, nil
			}
			return compose.END, nil
		}

		if len(input.ToolCalls) > 0 {
			logx.Debug().Int("tool_count", len(input.ToolCalls)).Msg("Routing to ToolExecutor")
			return NodeToolExecutor, nil
		}

		if selfCritique {
			logx.Debug().Msg("Draft ready - routing to critic")
			return NodeCritiqueAssembler, nil
		}

		logx.Debug().Msg("No tool calls - continuing to end")
		return compose.END, nil
	}
}

// NewToolExecutorPreHandler creates the pre-handler for ToolExecutor node
func NewToolExecutorPreHandler(maxToolCalls int) func(context.Context, *schema.Message, *model.AppState) (*schema.Message, error) {
	return func(ctx context.Context, in *schema.Message, state *model.AppState) (*schema.Message, error) {
		// Increment tool call counter
		exceeded := incrementToolCallAndCheck(state, maxToolCalls)

		logx.Debug().
			Int("tool_call_count", state.ToolCallCount).
			Str("conversation_id", state.ConversationID).
			Msg("Tool execution attempt")

		if exceeded {
			maxToolCalls = normalizeMaxToolCalls(maxToolCalls)
			logx.Warn().
				Int("tool_call_count", state.ToolCallCount).
				Int("max_tool_calls", maxToolCalls).
				Str("conversation_id", state.ConversationID).
				Msg("Tool call limit exceeded - flagging and continuing")
		}

		return in, nil
	}
}

// NewCritiqueAssemblerNode creates the CritiqueAssembler node: it packages the
// draft answer and every tool observation into the critic's audit context.
func NewCritiqueAssemblerNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, draft *schema.Message) ([]*schema.Message, error) {
		var auditInput string
		err := compose.ProcessState(ctx, func(_ context.Context, state *model.AppState) error {
			if state.Draft == nil {
				return fmt.Errorf("missing draft answer in state")
			}
			auditInput = buildAuditContext(state.Draft, state.History)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}

		criticSystem, err := prompts.RenderCriticSystem(ctx)
		if err != nil {
			return nil, fmt.Errorf("render critic system prompt: %w", err)
		}

		return []*schema.Message{
			schema.SystemMessage(criticSystem),
			schema.UserMessage(auditInput),
		}, nil
	})
}

// buildAuditContext renders the draft plus the tool calls and observations
// from this query so the critic can check every claim against them.
func buildAuditContext(draft *schema.Message, history []*schema.Message) string {
	var b strings.Builder
	b.WriteString("<draft_answer>\n")
	b.WriteString(draft.Content)
	b.WriteString("\n</draft_answer>\n\n<tool_observations>\n")

	n := 0
	for _, msg := range history {
		if msg == nil {
			continue
		}
		switch {
		case msg.Role == schema.Assistant && len(msg.ToolCalls) > 0:
			for _, tc := range msg.ToolCalls {
				fmt.Fprintf(&b, "Call %s(%s)\n", tc.Function.Name, tc.Function.Arguments)
			}
		case msg.Role == schema.Tool:
			fmt.Fprintf(&b, "Result: %s\n", strings.TrimSpace(msg.Content))
			n++
		}
	}
	if n == 0 {
		b.WriteString("(no tools were called)\n")
	}
	b.WriteString("</tool_observations>")
	return b.String()
}

// NewCriticChatModelPostHandler accounts the critic model's usage cost. The
// critic exchange stays out of conversation history on purpose.
func NewCriticChatModelPostHandler(modelName string) func(context.Context, *schema.Message, *model.AppState) (*schema.Message, error) {
	return func(ctx context.Context, out *schema.Message, state *model.AppState) (*schema.Message, error) {
		applyUsageCost(NodeCriticChatModel, modelName, out, state)
		return out, nil
	}
}

// NewCritiqueParserNode creates the CritiqueParser node.
func NewCritiqueParserNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, resp *schema.Message) (model.Critique, error) {
		result, err := parsers.ParseCritique(resp.Content)
		if err != nil {
			logx.Error().Err(err).Msg("Error parsing critique")
			return model.Critique{}, err
		}
		if result == nil {
			logx.Error().Msg("Critique parsing returned nil result")
			return model.Critique{}, fmt.Errorf("critique parsing returned nil result")
		}
		return *result, nil
	})
}

// NewCritiqueParserPostHandler creates the post-handler for CritiqueParser node
func NewCritiqueParserPostHandler() func(context.Context, model.Critique, *model.AppState) (model.Critique, error) {
	return func(ctx context.Context, out model.Critique, state *model.AppState) (model.Critique, error) {
		state.Critique = &out

		logx.Debug().
			Str("conversation_id", state.ConversationID).
			Str("verdict", out.Verdict).
			Float64("confidence", out.Confidence).
			Int("issues", len(out.Issues)).
			Int("revision_count", state.RevisionCount).
			Msg("Critique evaluated")
		return out, nil
	}
}

// NewCritiqueRouteCondition routes an audited draft to revision or finalization.
func NewCritiqueRouteCondition(maxRevisions int) func(context.Context, model.Critique) (string, error) {
	maxRevisions = normalizeMaxRevisions(maxRevisions)
	return func(ctx context.Context, crit model.Critique) (string, error) {
		var revisions int
		compose.ProcessState(ctx, func(_ context.Context, state *model.AppState) error {
			revisions = state.RevisionCount
			return nil
		})

		if crit.ShouldRevise() && revisions < maxRevisions {
			logx.Debug().Int("issues", len(crit.Issues)).Msg("Routing to RevisionAssembler")
			return NodeRevisionAssembler, nil
		}

		if crit.ShouldRevise() {
			logx.Warn().
				Int("max_revisions", maxRevisions).
				Int("issues", len(crit.Issues)).
				Msg("Revision budget exhausted - finalizing draft with open issues")
		}
		return NodeFinalizer, nil
	}
}

// NewRevisionAssemblerNode creates the RevisionAssembler node: it turns the
// critique into a rewrite instruction for the response model.
func NewRevisionAssemblerNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, crit model.Critique) ([]*schema.Message, error) {
		err := compose.ProcessState(ctx, func(_ context.Context, state *model.AppState) error {
			state.RevisionCount++
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}

		var b strings.Builder
		b.WriteString("AUDIT NOTICE: Your previous answer contains claims not supported by tool results. ")
		b.WriteString("Rewrite it so every flagged claim is corrected, verified with a tool, or removed:\n")
		for _, issue := range crit.Issues {
			fmt.Fprintf(&b, "- [%s] %q", issue.Category, issue.Claim)
			if issue.Note != "" {
				fmt.Fprintf(&b, ": %s", issue.Note)
			}
			b.WriteString("\n")
		}

		return []*schema.Message{{Role: schema.System, Content: b.String()}}, nil
	})
}

// NewFinalizerNode creates the Finalizer node: it returns the audited draft,
// annotated with the critique summary, and persists it as the final answer.
// The input is deliberately untyped: the node is reached both from the
// critique branch (model.Critique) and from the tool-limit wrap-up route
// (*schema.Message), so everything it needs comes from state.
func NewFinalizerNode(mm *conversations.MessagesManager) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, _ any) (*schema.Message, error) {
		var out *schema.Message
		var crit *model.Critique
		var conversationID string
		var revisions int
		err := compose.ProcessState(ctx, func(_ context.Context, state *model.AppState) error {
			out = state.Draft
			crit = state.Critique
			conversationID = state.ConversationID
			revisions = state.RevisionCount
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}

		if out == nil || strings.TrimSpace(out.Content) == "" {
			logx.Error().Str("conversation_id", conversationID).Msg("No draft available at finalization")
			return schema.AssistantMessage(
				"I could not produce a grounded answer for this request. Please try rephrasing it.",
				nil,
			), nil
		}

		if out.Extra == nil {
			out.Extra = map[string]any{}
		}
		summary := map[string]any{
			"verdict":   "skipped",
			"revisions": revisions,
		}
		if crit != nil {
			summary["verdict"] = crit.Verdict
			summary["confidence"] = crit.Confidence
			summary["open_issues"] = len(crit.Issues)
		}
		out.Extra["critique"] = summary

		if err := mm.SaveResponse(ctx, conversationID, out.Content); err != nil {
			logx.Error().
				Str("conversation_id", conversationID).
				Err(err).
				Msg("Error saving finalized response")
		}

		return out, nil
	})
}
