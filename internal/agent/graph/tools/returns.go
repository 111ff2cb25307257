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
// Check Return Policy Tool
// ===================================

type CheckReturnPolicyInput struct {
	StoreName string `json:"store_name"`
}

type CheckReturnPolicyOutput struct {
	Store  string             `json:"store"`
	Policy model.ReturnPolicy `json:"policy"`
}

func createCheckReturnPolicyTool() tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolCheckReturnPolicy,
			Desc: "Get the return policy of a store (SiteA, SiteB or SiteC): return window, free-return status, conditions and refund processing time. A product name also works; it resolves to the store that carries it.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"store_name": {
					Type:     "string",
					Desc:     "Store name (SiteA, SiteB, SiteC) or a product name to resolve the store from.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *CheckReturnPolicyInput) (*CheckReturnPolicyOutput, error) {
			if strings.TrimSpace(in.StoreName) == "" {
				return nil, fmt.Errorf("store_name is required")
			}
			store, policy, err := lookupReturnPolicy(in.StoreName)
			if err != nil {
				return nil, err
			}
			return &CheckReturnPolicyOutput{Store: store, Policy: policy}, nil
		},
	)
}

// lookupReturnPolicy resolves a policy by store name; if the argument is not a
// known store it is treated as a product name and resolved to that product's
// store first. Exact product names win over partial matches so similarly named
// products never shadow each other.
func lookupReturnPolicy(storeName string) (string, model.ReturnPolicy, error) {
	for store, policy := range mockReturnPolicies {
		if strings.EqualFold(store, storeName) {
			return store, policy, nil
		}
	}

	for _, p := range MockCatalog {
		if strings.EqualFold(p.Name, storeName) {
			if policy, ok := mockReturnPolicies[p.Store]; ok {
				return p.Store, policy, nil
			}
		}
	}

	if found := findByName(storeName); len(found) > 0 {
		store := found[0].Store
		if policy, ok := mockReturnPolicies[store]; ok {
			return store, policy, nil
		}
	}

	return "", model.ReturnPolicy{}, fmt.Errorf("store not found: %s", storeName)
}
