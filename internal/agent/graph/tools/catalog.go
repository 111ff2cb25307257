package tools

import (
	"strings"

	"github.com/shopmate-poc/server/internal/agent/model"
)

// MockCatalog aggregates the inventory of the three partner storefronts.
// Data is intentionally static so every tool answer can be traced to a row here.
var MockCatalog = []model.Product{
	{Name: "Floral Skirt", Color: "multi", Price: 35, Size: "S", InStock: true, Store: "SiteA", Delivery: "3-day"},
	{Name: "White Sneakers", Color: "white", Price: 65, Size: "8", InStock: true, Store: "SiteB", Delivery: "2-day"},
	{Name: "Casual Denim Jacket", Color: "blue", Price: 80, Size: "M", InStock: true, Store: "SiteA", Delivery: "2-day"},
	{Name: "Cocktail Dress", Color: "red", Price: 120, Size: "M", InStock: true, Store: "SiteB", Delivery: "4-day"},
	{Name: "Summer Floral Dress", Color: "yellow", Price: 75, Size: "S", InStock: true, Store: "SiteC", Delivery: "3-day"},
	{Name: "Classic White Sneakers", Color: "white", Price: 55, Size: "8", InStock: true, Store: "SiteA", Delivery: "5-day"},
	{Name: "Vintage Denim Jacket", Color: "blue", Price: 75, Size: "M", InStock: true, Store: "SiteC", Delivery: "2-day"},
	{Name: "Sport White Sneakers", Color: "white", Price: 65.00, Size: "8", InStock: true, Store: "SiteB", Delivery: "2-day"},
	{Name: "Canvas White Sneakers", Color: "white", Price: 45.99, Size: "8", InStock: true, Store: "SiteC", Delivery: "3-day"},
}

// mockShippingRates maps product -> store -> ZIP -> quote. The "default" ZIP
// entry is the fallback when no ZIP-specific rate exists.
const defaultZip = "default"

var mockShippingRates = map[string]map[string]map[string]model.ShippingQuote{
	"Floral Skirt": {
		"SiteA": {
			"12345":    {EstimatedDelivery: "2-day", Cost: 4.99},
			"67890":    {EstimatedDelivery: "3-day", Cost: 5.99},
			defaultZip: {EstimatedDelivery: "3-day", Cost: 4.99},
		},
		"SiteB": {
			"12345":    {EstimatedDelivery: "3-day", Cost: 5.99},
			"67890":    {EstimatedDelivery: "4-day", Cost: 6.99},
			defaultZip: {EstimatedDelivery: "4-day", Cost: 5.99},
		},
		"SiteC": {
			"12345":    {EstimatedDelivery: "2-day", Cost: 4.99},
			"67890":    {EstimatedDelivery: "3-day", Cost: 5.99},
			defaultZip: {EstimatedDelivery: "3-day", Cost: 4.99},
		},
	},
	"White Sneakers": {
		"SiteA": {defaultZip: {EstimatedDelivery: "3-day", Cost: 5.99}},
		"SiteB": {defaultZip: {EstimatedDelivery: "2-day", Cost: 4.99}},
		"SiteC": {defaultZip: {EstimatedDelivery: "3-day", Cost: 4.99}},
	},
	"Casual Denim Jacket": {
		"SiteA": {defaultZip: {EstimatedDelivery: "2-day", Cost: 5.99}},
		"SiteB": {defaultZip: {EstimatedDelivery: "3-day", Cost: 6.99}},
		"SiteC": {defaultZip: {EstimatedDelivery: "3-day", Cost: 5.99}},
	},
	"Cocktail Dress": {
		"SiteA": {defaultZip: {EstimatedDelivery: "3-day", Cost: 6.99}},
		"SiteB": {defaultZip: {EstimatedDelivery: "4-day", Cost: 7.99}},
		"SiteC": {defaultZip: {EstimatedDelivery: "3-day", Cost: 6.99}},
	},
	"Summer Floral Dress": {
		"SiteA": {defaultZip: {EstimatedDelivery: "3-day", Cost: 4.99}},
		"SiteB": {defaultZip: {EstimatedDelivery: "3-day", Cost: 5.99}},
		"SiteC": {defaultZip: {EstimatedDelivery: "3-day", Cost: 4.99}},
	},
	"Classic White Sneakers": {
		"SiteA": {defaultZip: {EstimatedDelivery: "5-day", Cost: 4.99}},
		"SiteB": {defaultZip: {EstimatedDelivery: "3-day", Cost: 5.99}},
		"SiteC": {defaultZip: {EstimatedDelivery: "4-day", Cost: 4.99}},
	},
	"Vintage Denim Jacket": {
		"SiteA": {defaultZip: {EstimatedDelivery: "3-day", Cost: 5.99}},
		"SiteB": {defaultZip: {EstimatedDelivery: "3-day", Cost: 6.99}},
		"SiteC": {defaultZip: {EstimatedDelivery: "2-day", Cost: 5.99}},
	},
	"Sport White Sneakers": {
		"SiteA": {defaultZip: {EstimatedDelivery: "3-day", Cost: 5.99}},
		"SiteB": {defaultZip: {EstimatedDelivery: "2-day", Cost: 4.99}},
		"SiteC": {defaultZip: {EstimatedDelivery: "3-day", Cost: 4.99}},
	},
	"Canvas White Sneakers": {
		"SiteA": {defaultZip: {EstimatedDelivery: "4-day", Cost: 4.99}},
		"SiteB": {defaultZip: {EstimatedDelivery: "3-day", Cost: 5.99}},
		"SiteC": {defaultZip: {EstimatedDelivery: "3-day", Cost: 4.99}},
	},
}

var mockDiscounts = map[string][]model.Discount{
	"Floral Skirt":           {{Code: "SPRING10", Percent: 10}, {Code: "SAVE20", Percent: 20}, {Code: "NEW15", Percent: 15}},
	"White Sneakers":         {{Code: "SHOES15", Percent: 15}, {Code: "NEW10", Percent: 10}},
	"Casual Denim Jacket":    {{Code: "DENIM10", Percent: 10}, {Code: "SAVE20", Percent: 20}},
	"Cocktail Dress":         {{Code: "PARTY25", Percent: 25}, {Code: "NEW15", Percent: 15}},
	"Summer Floral Dress":    {{Code: "SUMMER", Percent: 15}, {Code: "NEW10", Percent: 10}},
	"Classic White Sneakers": {{Code: "SHOES15", Percent: 15}, {Code: "NEW10", Percent: 10}},
	"Vintage Denim Jacket":   {{Code: "DENIM10", Percent: 10}, {Code: "SAVE20", Percent: 20}},
	"Sport White Sneakers":   {{Code: "SHOES15", Percent: 15}, {Code: "NEW10", Percent: 10}},
	"Canvas White Sneakers":  {{Code: "SHOES10", Percent: 10}, {Code: "NEW10", Percent: 10}},
}

var mockReturnPolicies = map[string]model.ReturnPolicy{
	"SiteA": {
		Window:         "30 days",
		FreeReturns:    true,
		Conditions:     "Must have original tags",
		ProcessingTime: "3-5 business days",
	},
	"SiteB": {
		Window:         "14 days",
		FreeReturns:    false,
		Conditions:     "Return shipping fee applies",
		ProcessingTime: "5-7 business days",
	},
	"SiteC": {
		Window:         "45 days",
		FreeReturns:    true,
		Conditions:     "Items must be unworn with tags attached",
		ProcessingTime: "2-4 business days",
	},
}

var mockPriceComparisons = map[string][]model.StorePrice{
	"Floral Skirt": {
		{Store: "SiteA", Price: 35.00, InStock: true},
		{Store: "SiteB", Price: 37.99, InStock: true},
		{Store: "SiteC", Price: 36.50, InStock: true},
	},
	"White Sneakers": {
		{Store: "SiteA", Price: 63.99, InStock: true},
		{Store: "SiteB", Price: 65.00, InStock: true},
		{Store: "SiteC", Price: 67.99, InStock: true},
	},
	"Casual Denim Jacket": {
		{Store: "SiteA", Price: 80.00, InStock: true},
		{Store: "SiteB", Price: 85.99, InStock: true},
		{Store: "SiteC", Price: 82.99, InStock: true},
	},
	"Cocktail Dress": {
		{Store: "SiteA", Price: 118.99, InStock: true},
		{Store: "SiteB", Price: 120.00, InStock: true},
		{Store: "SiteC", Price: 122.99, InStock: true},
	},
	"Summer Floral Dress": {
		{Store: "SiteA", Price: 72.99, InStock: true},
		{Store: "SiteB", Price: 77.99, InStock: true},
		{Store: "SiteC", Price: 75.00, InStock: true},
	},
	"Classic White Sneakers": {
		{Store: "SiteA", Price: 55.00, InStock: true},
		{Store: "SiteB", Price: 57.99, InStock: true},
		{Store: "SiteC", Price: 56.50, InStock: true},
	},
	"Vintage Denim Jacket": {
		{Store: "SiteA", Price: 77.99, InStock: true},
		{Store: "SiteB", Price: 75.00, InStock: true},
		{Store: "SiteC", Price: 75.00, InStock: true},
	},
	"Sport White Sneakers": {
		{Store: "SiteA", Price: 67.99, InStock: true},
		{Store: "SiteB", Price: 65.00, InStock: true},
		{Store: "SiteC", Price: 66.50, InStock: true},
	},
	"Canvas White Sneakers": {
		{Store: "SiteA", Price: 47.99, InStock: true},
		{Store: "SiteB", Price: 46.50, InStock: true},
		{Store: "SiteC", Price: 45.99, InStock: true},
	},
}

// matchesName reports whether any term of the search query appears in the
// product name. Matching is case-insensitive and partial, so "sneakers"
// matches every sneaker variant.
func matchesName(productName, query string) bool {
	name := strings.ToLower(productName)
	for _, term := range strings.Fields(strings.ToLower(query)) {
		if strings.Contains(name, term) {
			return true
		}
	}
	return false
}

// findByName returns catalog rows whose name partially matches the query.
func findByName(query string) []model.Product {
	var out []model.Product
	for _, p := range MockCatalog {
		if matchesName(p.Name, query) {
			out = append(out, p)
		}
	}
	return out
}
