package bidding

import (
	"testing"

	"github.com/angelmondragon/flipradar-backend/internal/arbitrage"
	"github.com/angelmondragon/flipradar-backend/pkg/enums"
)

func TestDeriveStrategyTiers(t *testing.T) {
	t.Parallel()

	vehicle := arbitrage.Vehicle{ID: "veh-1", EstimatedRetailValue: 24000}

	tests := []struct {
		name          string
		score         float64
		confidence    enums.Confidence
		wantKind      enums.BidStrategyKind
		wantIncrement float64
		wantAutoBid   bool
	}{
		{"high score high confidence", 80, enums.ConfidenceHigh, enums.BidStrategyAggressive, 500, true},
		{"high score low confidence", 80, enums.ConfidenceLow, enums.BidStrategyModerate, 250, true},
		{"mid score", 62, enums.ConfidenceLow, enums.BidStrategyModerate, 250, false},
		{"low score medium confidence", 50, enums.ConfidenceMedium, enums.BidStrategyModerate, 250, false},
		{"low score low confidence", 50, enums.ConfidenceLow, enums.BidStrategyConservative, 100, false},
		{"auto bid boundary", 65, enums.ConfidenceMedium, enums.BidStrategyModerate, 250, true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			strategy := DeriveStrategy(vehicle, arbitrage.Analysis{
				VehicleID:      vehicle.ID,
				ArbitrageScore: tc.score,
				Confidence:     tc.confidence,
			})
			if strategy.Kind != tc.wantKind {
				t.Fatalf("kind = %s, want %s", strategy.Kind, tc.wantKind)
			}
			if strategy.IncrementAmount != tc.wantIncrement {
				t.Fatalf("increment = %v, want %v", strategy.IncrementAmount, tc.wantIncrement)
			}
			if strategy.AutoBidEnabled != tc.wantAutoBid {
				t.Fatalf("auto bid = %v, want %v", strategy.AutoBidEnabled, tc.wantAutoBid)
			}
		})
	}
}

func TestDeriveStrategyComputedAmounts(t *testing.T) {
	t.Parallel()

	vehicle := arbitrage.Vehicle{ID: "veh-1", EstimatedRetailValue: 24000}
	analysis := arbitrage.Analysis{
		VehicleID:          "veh-1",
		ArbitrageScore:     70,
		RepairCostEstimate: 6000,
		RecommendedMaxBid:  13000,
		ProfitPotential:    3500,
		Confidence:         enums.ConfidenceMedium,
	}

	strategy := DeriveStrategy(vehicle, analysis)
	if strategy.MaxBid != 13000 {
		t.Fatalf("max bid = %v, want recommended 13000", strategy.MaxBid)
	}
	// 24000 - 6000 - 3000
	if strategy.StopLoss != 15000 {
		t.Fatalf("stop loss = %v, want 15000", strategy.StopLoss)
	}
	if strategy.TargetProfit != 3500 {
		t.Fatalf("target profit = %v, want 3500", strategy.TargetProfit)
	}
}
