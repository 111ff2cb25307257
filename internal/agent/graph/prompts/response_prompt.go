package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/shopmate-poc/server/internal/agent/graph/tools"
	"github.com/shopmate-poc/server/internal/agent/model"
)

//go:embed template/response_prompt.txt
var coreSystemPrompt string

// RenderResponseSystem renders the shopping-assistant system prompt and
// triggers prompt callbacks. selfCritique appends the revision instructions
// used when the critique loop is active.
func RenderResponseSystem(ctx context.Context, config model.ResponsePromptConfig, selfCritique bool) (string, error) {
	// Render via Eino prompt component (Go template) to both format and emit callbacks
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(coreSystemPrompt),
	)
	vars := map[string]any{
		"AssistantName": config.AssistantName,
		"BusinessType":  config.BusinessType,
		"SelfCritique":  selfCritique,
		"SearchTool":    tools.ToolSearchProducts,
		"ShippingTool":  tools.ToolEstimateShipping,
		"DiscountTool":  tools.ToolCheckDiscounts,
		"ReturnsTool":   tools.ToolCheckReturnPolicy,
		"CompareTool":   tools.ToolComparePrices,
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("response prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("response prompt render: empty result")
	}
	return msgs[0].Content, nil
}
