package quotes

import "context"

// SupplierQuote is one supplier's offer for a product. Quotes are ephemeral:
// produced per pricing request and never persisted.
type SupplierQuote struct {
	SupplierID   string  `json:"supplier_id"`
	Price        float64 `json:"price"`
	ShippingCost float64 `json:"shipping_cost"`
	InStock      bool    `json:"in_stock"`
	Region       string  `json:"region"`
}

// Total returns the landed cost of the quote.
func (q SupplierQuote) Total() float64 {
	return q.Price + q.ShippingCost
}

// Source yields supplier quotes for a product. Real implementations call
// external supplier APIs; the simulated source stands in where no integration
// is available.
type Source interface {
	GetQuotes(ctx context.Context, productID string) ([]SupplierQuote, error)
}
