package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/shopmate-poc/server/internal/agent/model"
)

// ===================================
// Estimate Shipping Tool
// ===================================

const feasibilityDateFormat = "Monday, January 2"

type EstimateShippingInput struct {
	ProductName    string `json:"product_name"`
	DeliveryTarget string `json:"delivery_target,omitempty"`
	ZipCode        string `json:"zip_code,omitempty"`
}

func createEstimateShippingTool() tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolEstimateShipping,
			Desc: "Estimate shipping cost and delivery window for a product, optionally checking whether it can arrive by a target day. Product matching is partial and case-insensitive; the first catalog match is used, so prefer exact names from search_products results.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"product_name": {
					Type:     "string",
					Desc:     "Product name, ideally the exact name returned by search_products.",
					Required: true,
				},
				"delivery_target": {
					Type: "string",
					Desc: "Optional target: a weekday name like 'Friday' or a day of month like '15th'.",
				},
				"zip_code": {
					Type: "string",
					Desc: "Optional delivery ZIP code for ZIP-specific rates.",
				},
			}),
		},
		func(ctx context.Context, in *EstimateShippingInput) (*model.ShippingQuote, error) {
			if strings.TrimSpace(in.ProductName) == "" {
				return nil, fmt.Errorf("product_name is required")
			}
			return estimateShipping(in, time.Now())
		},
	)
}

// estimateShipping resolves the product, picks the store's ZIP-specific rate
// and, when a target is given, evaluates feasibility relative to now.
func estimateShipping(in *EstimateShippingInput, now time.Time) (*model.ShippingQuote, error) {
	found := findByName(in.ProductName)
	if len(found) == 0 {
		return nil, fmt.Errorf("product not found: %s", in.ProductName)
	}
	product := found[0]

	storeRates, ok := mockShippingRates[product.Name]
	if !ok {
		return nil, fmt.Errorf("shipping information not available for %s", product.Name)
	}
	zipRates, ok := storeRates[product.Store]
	if !ok {
		return nil, fmt.Errorf("shipping information not available from %s", product.Store)
	}

	rate, ok := zipRates[in.ZipCode]
	if !ok {
		rate, ok = zipRates[defaultZip]
	}
	if !ok {
		return nil, fmt.Errorf("shipping not available to ZIP code %s", in.ZipCode)
	}

	quote := rate // copy; the rate tables stay immutable
	if in.ZipCode != "" {
		quote.ZipCode = in.ZipCode
	}

	if target := strings.TrimSpace(in.DeliveryTarget); target != "" {
		days, err := parseDeliveryDays(quote.EstimatedDelivery)
		if err != nil {
			return nil, err
		}
		feas, err := deliveryFeasibility(now, days, target)
		if err != nil {
			return nil, err
		}
		quote.CanDeliver = &feas.canDeliver
		quote.DeliveryDate = feas.deliveryDate
		quote.RequestedDate = feas.requestedDate
	}

	return &quote, nil
}

// parseDeliveryDays extracts the day count from a window like "3-day".
func parseDeliveryDays(window string) (int, error) {
	head, _, ok := strings.Cut(window, "-")
	if !ok {
		return 0, fmt.Errorf("invalid delivery window: %q", window)
	}
	n, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid delivery window: %q", window)
	}
	return n, nil
}

type feasibility struct {
	canDeliver    bool
	deliveryDate  string
	requestedDate string
}

// deliveryFeasibility reports whether a shipment taking daysNeeded days from
// now arrives by the target. The target is either a weekday name ("friday")
// or a day-of-month ordinal ("15th"); ordinals earlier than today's date roll
// into the next month.
func deliveryFeasibility(now time.Time, daysNeeded int, target string) (*feasibility, error) {
	target = strings.ToLower(strings.TrimSpace(target))
	deliveryDate := now.AddDate(0, 0, daysNeeded)

	if targetDay, ok := parseOrdinalDay(target); ok {
		year, month := now.Year(), now.Month()
		if targetDay < now.Day() {
			month++
			if month > time.December {
				month = time.January
				year++
			}
		}
		targetDate := time.Date(year, month, targetDay, 0, 0, 0, 0, now.Location())
		if targetDate.Day() != targetDay {
			// e.g. "31st" in a 30-day month normalized past the intent
			return nil, fmt.Errorf("invalid delivery target: %q", target)
		}
		return &feasibility{
			canDeliver:    !startOfDay(deliveryDate).After(targetDate),
			deliveryDate:  deliveryDate.Format(feasibilityDateFormat),
			requestedDate: targetDate.Format(feasibilityDateFormat),
		}, nil
	}

	if wd, ok := parseWeekday(target); ok {
		daysUntil := int(wd-now.Weekday()+7) % 7
		if daysUntil == 0 {
			daysUntil = 7
		}
		targetDate := now.AddDate(0, 0, daysUntil)
		return &feasibility{
			canDeliver:    !startOfDay(deliveryDate).After(startOfDay(targetDate)),
			deliveryDate:  deliveryDate.Format(feasibilityDateFormat),
			requestedDate: targetDate.Format(feasibilityDateFormat),
		}, nil
	}

	return nil, fmt.Errorf("invalid delivery target: %q", target)
}

// parseOrdinalDay parses targets like "7th", "15th", "22nd" into a day of month.
func parseOrdinalDay(s string) (int, bool) {
	for _, suffix := range []string{"st", "nd", "rd", "th"} {
		if !strings.HasSuffix(s, suffix) {
			continue
		}
		digits := strings.TrimSpace(strings.TrimSuffix(s, suffix))
		n, err := strconv.Atoi(digits)
		if err != nil || n < 1 || n > 31 {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func parseWeekday(s string) (time.Weekday, bool) {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if strings.EqualFold(wd.String(), s) {
			return wd, true
		}
	}
	return 0, false
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
