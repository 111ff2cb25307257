package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/shopmate-poc/server/internal/agent/model"
)

// ===================================
// Search Products Tool
// ===================================

type SearchProductsInput struct {
	Name       string `json:"name,omitempty"`
	Color      string `json:"color,omitempty"`
	Size       string `json:"size,omitempty"`
	Store      string `json:"store,omitempty"`
	PriceRange string `json:"price_range,omitempty"`
	InStock    *bool  `json:"in_stock,omitempty"`
	MaxResults int    `json:"max_results,omitempty"`
}

type SearchProductsOutput struct {
	Products []model.Product `json:"products"`
	Total    int             `json:"total"`
}

func createSearchProductsTool() tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolSearchProducts,
			Desc: "Search and filter the aggregated product inventory across SiteA, SiteB and SiteC. Name matching is partial and case-insensitive, so broad terms like 'sneakers' or 'dress' work. Always returns structured rows with exact name, color, price, size, stock status, store and standard delivery window. Use this first to resolve exact product names before calling other tools.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"name": {
					Type: "string",
					Desc: "Product name keywords, e.g. 'sneakers', 'floral skirt', 'denim jacket'.",
				},
				"color": {
					Type: "string",
					Desc: "Exact color match. Known colors: white, blue, multi, red, yellow.",
				},
				"size": {
					Type: "string",
					Desc: "Exact size match, e.g. 'S', 'M', '8'.",
				},
				"store": {
					Type: "string",
					Desc: "Filter by store: SiteA, SiteB or SiteC.",
				},
				"price_range": {
					Type: "string",
					Desc: "Price constraint: 'under 70', 'between 50 and 80', '50-80', or a bare number treated as a maximum.",
				},
				"in_stock": {
					Type: "boolean",
					Desc: "Filter by availability.",
				},
				"max_results": {
					Type: "number",
					Desc: "Maximum number of products to return (default: 10, max: 20)",
				},
			}),
		},
		func(ctx context.Context, in *SearchProductsInput) (*SearchProductsOutput, error) {
			if in.MaxResults == 0 {
				in.MaxResults = 10
			}

			matched, err := searchCatalog(in)
			if err != nil {
				return nil, err
			}
			if len(matched) > in.MaxResults {
				matched = matched[:in.MaxResults]
			}

			return &SearchProductsOutput{Products: matched, Total: len(matched)}, nil
		},
	)
}

// searchCatalog applies all filters of the input over the mock catalog.
func searchCatalog(in *SearchProductsInput) ([]model.Product, error) {
	var minPrice, maxPrice float64
	havePriceRange := false
	if strings.TrimSpace(in.PriceRange) != "" {
		var ok bool
		minPrice, maxPrice, ok = ParsePriceRange(in.PriceRange)
		if !ok {
			return nil, fmt.Errorf("invalid price_range: %q", in.PriceRange)
		}
		havePriceRange = true
	}

	matched := []model.Product{}
	for _, p := range MockCatalog {
		if in.Name != "" && !matchesName(p.Name, in.Name) {
			continue
		}
		if in.Color != "" && !strings.EqualFold(p.Color, in.Color) {
			continue
		}
		if in.Size != "" && !strings.EqualFold(p.Size, in.Size) {
			continue
		}
		if in.Store != "" && !strings.EqualFold(p.Store, in.Store) {
			continue
		}
		if havePriceRange && (p.Price < minPrice || p.Price > maxPrice) {
			continue
		}
		if in.InStock != nil && p.InStock != *in.InStock {
			continue
		}
		matched = append(matched, p)
	}
	return matched, nil
}

// ParsePriceRange parses a natural-language price constraint into [min, max].
// Supported forms: "under 70" / "less than 70", "between 50 and 80", "50-80",
// and a bare number which is treated as a maximum.
func ParsePriceRange(s string) (min, max float64, ok bool) {
	q := strings.ToLower(strings.TrimSpace(s))
	if q == "" {
		return 0, 0, false
	}

	if v, err := strconv.ParseFloat(q, 64); err == nil {
		return 0, v, true
	}

	nums := extractNumbers(q)
	switch {
	case strings.Contains(q, "under") || strings.Contains(q, "less than"):
		if len(nums) != 1 {
			return 0, 0, false
		}
		return 0, nums[0], true
	case strings.Contains(q, "between"), strings.Contains(q, "-"):
		if len(nums) < 2 {
			return 0, 0, false
		}
		lo, hi := nums[0], nums[1]
		if lo > hi {
			lo, hi = hi, lo
		}
		return lo, hi, true
	}
	return 0, 0, false
}

// extractNumbers pulls every decimal number out of a query string.
func extractNumbers(s string) []float64 {
	var nums []float64
	var cur strings.Builder
	flush := func() {
		if cur.Len() == 0 {
			return
		}
		if v, err := strconv.ParseFloat(cur.String(), 64); err == nil {
			nums = append(nums, v)
		}
		cur.Reset()
	}
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			cur.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return nums
}
