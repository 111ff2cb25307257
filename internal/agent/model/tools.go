package model

// Product is one catalog row as aggregated across the partner storefronts.
type Product struct {
	Name     string  `json:"name"`
	Color    string  `json:"color"`
	Price    float64 `json:"price"`
	Size     string  `json:"size"`
	InStock  bool    `json:"in_stock"`
	Store    string  `json:"store"`
	Delivery string  `json:"delivery"` // standard delivery window, e.g. "3-day"
}

// Discount is a promo code valid for a specific product.
type Discount struct {
	Code    string `json:"code"`
	Percent int    `json:"percent"`
}

// ReturnPolicy describes how a storefront handles returns.
type ReturnPolicy struct {
	Window         string `json:"window"`
	FreeReturns    bool   `json:"free_returns"`
	Conditions     string `json:"conditions"`
	ProcessingTime string `json:"processing_time"`
}

// StorePrice is one entry of a cross-store price comparison.
type StorePrice struct {
	Store   string  `json:"store"`
	Price   float64 `json:"price"`
	InStock bool    `json:"in_stock"`
}

// ShippingQuote is the result of a shipping estimate, optionally including
// feasibility against a requested delivery target.
type ShippingQuote struct {
	EstimatedDelivery string  `json:"estimated_delivery"` // shipping window, e.g. "2-day"
	Cost              float64 `json:"cost"`
	ZipCode           string  `json:"zip_code,omitempty"`
	CanDeliver        *bool   `json:"can_deliver,omitempty"`
	DeliveryDate      string  `json:"delivery_date,omitempty"`
	RequestedDate     string  `json:"requested_date,omitempty"`
}
