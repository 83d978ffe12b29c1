package enums

// BidStrategyKind is the aggressiveness tier of a derived bidding strategy.
type BidStrategyKind string

const (
	BidStrategyAggressive   BidStrategyKind = "aggressive"
	BidStrategyModerate     BidStrategyKind = "moderate"
	BidStrategyConservative BidStrategyKind = "conservative"
)

var validBidStrategyKinds = []BidStrategyKind{
	BidStrategyAggressive,
	BidStrategyModerate,
	BidStrategyConservative,
}

// IsValid reports whether the value matches the canonical strategy enum.
func (b BidStrategyKind) IsValid() bool {
	for _, candidate := range validBidStrategyKinds {
		if candidate == b {
			return true
		}
	}
	return false
}
