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
// Compare Prices Tool
// ===================================

type ComparePricesInput struct {
	ProductName string `json:"product_name"`
}

type ComparePricesOutput struct {
	Product string             `json:"product"`
	Prices  []model.StorePrice `json:"prices"`
}

func createComparePricesTool() tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolComparePrices,
			Desc: "Compare a product's price and stock status across SiteA, SiteB and SiteC. Requires the exact product name; an empty list means no comparison data exists.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"product_name": {
					Type:     "string",
					Desc:     "Exact product name from search_products results.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *ComparePricesInput) (*ComparePricesOutput, error) {
			if strings.TrimSpace(in.ProductName) == "" {
				return nil, fmt.Errorf("product_name is required")
			}
			name, prices := lookupPriceComparison(in.ProductName)
			return &ComparePricesOutput{Product: name, Prices: prices}, nil
		},
	)
}

// lookupPriceComparison matches the product name case-insensitively but
// exactly; partial names are deliberately rejected so price claims always
// refer to one specific product.
func lookupPriceComparison(productName string) (string, []model.StorePrice) {
	for name, prices := range mockPriceComparisons {
		if strings.EqualFold(name, productName) {
			out := make([]model.StorePrice, len(prices))
			copy(out, prices)
			return name, out
		}
	}
	return productName, []model.StorePrice{}
}
