package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/flipradar-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/flipradar-backend/pkg/errors"
)

// platformFeeRate is applied to the source cost in category mode.
const platformFeeRate = 0.03

// Breakdown is the full cost report both markup modes produce. All money
// fields are rounded to two decimals with standard rounding.
type Breakdown struct {
	SourceCost          decimal.Decimal `json:"source_cost"`
	Shipping            decimal.Decimal `json:"shipping"`
	PlatformFee         decimal.Decimal `json:"platform_fee"`
	Markup              decimal.Decimal `json:"markup"`
	TotalCost           decimal.Decimal `json:"total_cost"`
	SellingPrice        decimal.Decimal `json:"selling_price"`
	Profit              decimal.Decimal `json:"profit"`
	ProfitMarginPercent decimal.Decimal `json:"profit_margin_percent"`
}

// CategoryBreakdown prices a catalog item without per-unit competitor data:
//
//	sellingPrice = (cost + shipping + platformFee) × (1 + categoryRate)
func CategoryBreakdown(cost, shipping float64, category enums.ProductCategory) (*Breakdown, error) {
	if cost < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cost must be non-negative")
	}
	if shipping < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping must be non-negative")
	}

	costDec := decimal.NewFromFloat(cost)
	shippingDec := decimal.NewFromFloat(shipping)
	fee := costDec.Mul(decimal.NewFromFloat(platformFeeRate))
	totalCost := costDec.Add(shippingDec).Add(fee)

	rate := decimal.NewFromFloat(CategoryMarkupRate(category))
	selling := totalCost.Mul(decimal.NewFromInt(1).Add(rate))
	markup := selling.Sub(totalCost)

	return finishBreakdown(costDec, shippingDec, fee, totalCost, markup, selling), nil
}

// gapBreakdown reports the competitor-gap mode numbers. No platform fee is
// charged in this mode; the markup comes from the tier policy.
func gapBreakdown(sourceCost, shipping, markup float64) *Breakdown {
	costDec := decimal.NewFromFloat(sourceCost)
	shippingDec := decimal.NewFromFloat(shipping)
	fee := decimal.Zero
	totalCost := costDec.Add(shippingDec)
	markupDec := decimal.NewFromFloat(markup)
	selling := totalCost.Add(markupDec)

	return finishBreakdown(costDec, shippingDec, fee, totalCost, markupDec, selling)
}

func finishBreakdown(cost, shipping, fee, totalCost, markup, selling decimal.Decimal) *Breakdown {
	profit := selling.Sub(totalCost)

	margin := decimal.Zero
	if selling.IsPositive() {
		margin = profit.Div(selling).Mul(decimal.NewFromInt(100))
	}

	return &Breakdown{
		SourceCost:          cost.Round(2),
		Shipping:            shipping.Round(2),
		PlatformFee:         fee.Round(2),
		Markup:              markup.Round(2),
		TotalCost:           totalCost.Round(2),
		SellingPrice:        selling.Round(2),
		Profit:              profit.Round(2),
		ProfitMarginPercent: margin.Round(2),
	}
}
