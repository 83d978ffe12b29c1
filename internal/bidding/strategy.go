package bidding

import (
	"github.com/angelmondragon/flipradar-backend/internal/arbitrage"
	"github.com/angelmondragon/flipradar-backend/pkg/enums"
)

// Strategy tier thresholds and increments.
const (
	aggressiveScoreFloor = 75
	moderateScoreFloor   = 60
	autoBidScoreFloor    = 65

	aggressiveIncrement   = 500
	moderateIncrement     = 250
	conservativeIncrement = 100

	stopLossBuffer = 3000
)

// Strategy is the immutable bidding plan derived from one analysis.
type Strategy struct {
	VehicleID       string                `json:"vehicle_id"`
	Kind            enums.BidStrategyKind `json:"strategy"`
	MaxBid          float64               `json:"max_bid"`
	IncrementAmount float64               `json:"increment_amount"`
	AutoBidEnabled  bool                  `json:"auto_bid_enabled"`
	StopLoss        float64               `json:"stop_loss"`
	TargetProfit    float64               `json:"target_profit"`
}

// DeriveStrategy maps an arbitrage analysis to a bidding plan. Pure function
// of the score and confidence.
func DeriveStrategy(vehicle arbitrage.Vehicle, analysis arbitrage.Analysis) Strategy {
	kind := enums.BidStrategyConservative
	increment := float64(conservativeIncrement)
	switch {
	case analysis.ArbitrageScore >= aggressiveScoreFloor && analysis.Confidence == enums.ConfidenceHigh:
		kind = enums.BidStrategyAggressive
		increment = aggressiveIncrement
	case analysis.ArbitrageScore >= moderateScoreFloor || analysis.Confidence == enums.ConfidenceMedium:
		kind = enums.BidStrategyModerate
		increment = moderateIncrement
	}

	return Strategy{
		VehicleID:       vehicle.ID,
		Kind:            kind,
		MaxBid:          analysis.RecommendedMaxBid,
		IncrementAmount: increment,
		AutoBidEnabled:  analysis.ArbitrageScore >= autoBidScoreFloor,
		StopLoss:        vehicle.EstimatedRetailValue - analysis.RepairCostEstimate - stopLossBuffer,
		TargetProfit:    analysis.ProfitPotential,
	}
}
