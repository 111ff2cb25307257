package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/shopmate-poc/server/internal/agent/model"
)

// ===================================
// Check Discounts Tool
// ===================================

type CheckDiscountsInput struct {
	ProductName string `json:"product_name"`
}

type CheckDiscountsOutput struct {
	Product   string           `json:"product"`
	Discounts []model.Discount `json:"discounts"`
}

func createCheckDiscountsTool() tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolCheckDiscounts,
			Desc: "List the promo codes currently valid for a product with their percent-off values. An empty list means no codes exist; never suggest codes that are not in this list.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"product_name": {
					Type:     "string",
					Desc:     "Exact product name from search_products results.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *CheckDiscountsInput) (*CheckDiscountsOutput, error) {
			if strings.TrimSpace(in.ProductName) == "" {
				return nil, fmt.Errorf("product_name is required")
			}
			name, discounts := lookupDiscounts(in.ProductName)
			return &CheckDiscountsOutput{Product: name, Discounts: discounts}, nil
		},
	)
}

// lookupDiscounts resolves codes for a product, case-insensitively. Unknown
// products yield an empty list rather than an error so the model reports
// "no codes" instead of retrying.
func lookupDiscounts(productName string) (string, []model.Discount) {
	for name, discounts := range mockDiscounts {
		if strings.EqualFold(name, productName) {
			out := make([]model.Discount, len(discounts))
			copy(out, discounts)
			return name, out
		}
	}
	return productName, []model.Discount{}
}
