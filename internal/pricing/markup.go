package pricing

import "github.com/angelmondragon/flipradar-backend/pkg/enums"

// Gap-tier caps. The markup scales with the competitor price gap but is
// capped per tier so the engine never prices the product out of the market it
// is hiding.
const (
	wideGapRate   = 0.08
	wideGapCap    = 15.0
	midGapRate    = 0.05
	midGapCap     = 5.0
	narrowGapRate = 0.03
	narrowGapCap  = 2.0
)

// SmallestFlatMarkup is the floor tier used when no competitor data exists.
const SmallestFlatMarkup = 0.10

// categoryMarkupRates drive the catalog mode for items without per-unit
// competitor data.
var categoryMarkupRates = map[enums.ProductCategory]float64{
	enums.ProductCategoryElectronics: 0.15,
	enums.ProductCategoryAutomotive:  0.08,
	enums.ProductCategoryRealEstate:  0.03,
	enums.ProductCategoryAccessories: 0.25,
	enums.ProductCategoryOther:       0.20,
}

// CategoryMarkupRate returns the fixed markup percentage for a category,
// falling back to the "other" rate for unknown values.
func CategoryMarkupRate(category enums.ProductCategory) float64 {
	if rate, ok := categoryMarkupRates[category]; ok {
		return rate
	}
	return categoryMarkupRates[enums.ProductCategoryOther]
}

// ComputeMarkup returns the bounded markup for a true cost given the highest
// displayed competitor price. The policy is tiered and monotonic in the gap
// competitorHigh - trueCost; once the gap collapses to 20 or less (including
// negative gaps) the markup falls back to a flat tier on the cost alone.
func ComputeMarkup(trueCost, competitorHigh float64) float64 {
	delta := competitorHigh - trueCost

	switch {
	case delta > 100:
		return minFloat(wideGapRate*delta, wideGapCap)
	case delta > 50:
		return minFloat(midGapRate*delta, midGapCap)
	case delta > 20:
		return minFloat(narrowGapRate*delta, narrowGapCap)
	}

	return flatMarkup(trueCost)
}

// flatMarkup is the Δ≤20 tier table keyed on true cost.
func flatMarkup(trueCost float64) float64 {
	switch {
	case trueCost < 10:
		return 0.10
	case trueCost < 25:
		if trueCost < 15 {
			return 0.15
		}
		return 0.25
	case trueCost < 50:
		if trueCost < 35 {
			return 0.35
		}
		return 0.50
	case trueCost < 100:
		if trueCost < 75 {
			return 0.50
		}
		return 0.75
	default:
		return 0.75
	}
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
