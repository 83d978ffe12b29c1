package pricing

import (
	"math"
	"sort"

	"github.com/angelmondragon/flipradar-backend/internal/quotes"
	"github.com/angelmondragon/flipradar-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/flipradar-backend/pkg/errors"
)

const decoySupplierID = "verified-partner"

// Result is the internal pricing record. TrueCost and TrueSupplier never
// leave the engine: callers hand presentation layers the View projection,
// which structurally omits them.
type Result struct {
	ProductID       string                 `json:"product_id"`
	TrueCost        float64                `json:"-"`
	TrueSupplier    string                 `json:"-"`
	CustomerPrice   float64                `json:"customer_price"`
	Markup          float64                `json:"-"`
	Profit          float64                `json:"-"`
	DisplayedQuotes []quotes.SupplierQuote `json:"displayed_quotes"`
	Breakdown       *Breakdown             `json:"-"`
}

// View is the customer-facing projection of a pricing result.
type View struct {
	ProductID       string                 `json:"product_id"`
	CustomerPrice   float64                `json:"customer_price"`
	DisplayedQuotes []quotes.SupplierQuote `json:"displayed_quotes"`
}

// View projects the result to the customer DTO.
func (r *Result) View() View {
	return View{
		ProductID:       r.ProductID,
		CustomerPrice:   r.CustomerPrice,
		DisplayedQuotes: r.DisplayedQuotes,
	}
}

// aggregate selects the true cost, conceals its supplier, synthesizes a decoy
// when no real competitor can be displayed, and applies the markup policy.
func aggregate(cfg config.PricingConfig, productID string, supplierQuotes []quotes.SupplierQuote) (*Result, error) {
	for _, q := range supplierQuotes {
		if q.Price < 0 || q.ShippingCost < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quote prices must be non-negative").
				WithDetails(map[string]string{"supplier_id": q.SupplierID})
		}
	}

	if len(supplierQuotes) == 0 {
		// no quotes at all: deterministic fallback, never an error
		trueCost := cfg.FallbackCost
		markup := SmallestFlatMarkup
		return buildResult(cfg, productID, trueCost, "", 0, markup, nil), nil
	}

	trueQuote := cheapestQuote(supplierQuotes)
	trueCost := trueQuote.Total()

	displayed := make([]quotes.SupplierQuote, 0, len(supplierQuotes))
	for _, q := range supplierQuotes {
		if q.SupplierID == trueQuote.SupplierID {
			continue
		}
		if !q.InStock {
			continue
		}
		displayed = append(displayed, q)
	}
	sort.SliceStable(displayed, func(i, j int) bool {
		return displayed[i].Total() < displayed[j].Total()
	})

	var competitorHigh float64
	if len(displayed) > 0 {
		competitorHigh = displayed[len(displayed)-1].Total()
	}

	markup := ComputeMarkup(trueCost, competitorHigh)
	return buildResult(cfg, productID, trueCost, trueQuote.SupplierID, trueQuote.ShippingCost, markup, displayed), nil
}

// cheapestQuote prefers the cheapest in-stock quote; when nothing is in
// stock it falls back to the cheapest quote overall so pricing still has a
// cost basis.
func cheapestQuote(supplierQuotes []quotes.SupplierQuote) quotes.SupplierQuote {
	var best *quotes.SupplierQuote
	for i := range supplierQuotes {
		q := supplierQuotes[i]
		if !q.InStock {
			continue
		}
		if best == nil || q.Total() < best.Total() {
			best = &supplierQuotes[i]
		}
	}
	if best != nil {
		return *best
	}

	fallback := supplierQuotes[0]
	for _, q := range supplierQuotes[1:] {
		if q.Total() < fallback.Total() {
			fallback = q
		}
	}
	return fallback
}

func buildResult(cfg config.PricingConfig, productID string, trueCost float64, trueSupplier string, trueShipping float64, markup float64, displayed []quotes.SupplierQuote) *Result {
	if len(displayed) == 0 {
		displayed = []quotes.SupplierQuote{decoyQuote(cfg, trueCost)}
	}

	sourceCost := trueCost - trueShipping
	breakdown := gapBreakdown(sourceCost, trueShipping, markup)
	customerPrice := round2(trueCost + markup)

	return &Result{
		ProductID:       productID,
		TrueCost:        trueCost,
		TrueSupplier:    trueSupplier,
		CustomerPrice:   customerPrice,
		Markup:          markup,
		Profit:          round2(customerPrice - trueCost),
		DisplayedQuotes: displayed,
		Breakdown:       breakdown,
	}
}

// decoyQuote fabricates a competitor priced deterministically above the true
// cost plus the fixed service fee, so the true cost itself is never shown.
func decoyQuote(cfg config.PricingConfig, trueCost float64) quotes.SupplierQuote {
	factor := cfg.DecoyFactor
	if factor <= 1 {
		factor = 1.15
	}
	return quotes.SupplierQuote{
		SupplierID:   decoySupplierID,
		Price:        round2(trueCost*factor + cfg.ServiceFee),
		ShippingCost: 0,
		InStock:      true,
		Region:       cfg.DecoyRegion,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
