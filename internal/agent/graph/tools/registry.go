package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
)

// Tool name constants shared with prompts and argument sanitizers.
const (
	ToolSearchProducts    = "search_products"
	ToolEstimateShipping  = "estimate_shipping"
	ToolCheckDiscounts    = "check_discounts"
	ToolCheckReturnPolicy = "check_return_policy"
	ToolComparePrices     = "compare_prices"
)

// GetQueryTools returns the shopping tools bound to the response model.
func GetQueryTools() []tool.BaseTool {
	return []tool.BaseTool{
		createSearchProductsTool(),
		createEstimateShippingTool(),
		createCheckDiscountsTool(),
		createCheckReturnPolicyTool(),
		createComparePricesTool(),
	}
}

// GetToolInfos resolves ToolInfo for each tool so they can be bound to the model.
func GetToolInfos(ctx context.Context, ts []tool.BaseTool) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(ts))
	for _, t := range ts {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("get tool info: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}
