package arbitrage

import (
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/flipradar-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/flipradar-backend/pkg/errors"
)

// Vehicle is one auction listing snapshot. Sourced externally and read-only
// to the scorer.
type Vehicle struct {
	ID                   string              `json:"id"`
	Year                 int                 `json:"year"`
	Make                 string              `json:"make"`
	Model                string              `json:"model"`
	Mileage              int                 `json:"mileage"`
	CurrentBid           float64             `json:"current_bid"`
	EstimatedRetailValue float64             `json:"estimated_retail_value"`
	DamageType           enums.DamageType    `json:"damage_type"`
	TitleStatus          enums.TitleStatus   `json:"title_status"`
	FuelType             enums.FuelType      `json:"fuel_type"`
	AuctionStatus        enums.AuctionStatus `json:"auction_status"`
}

// Analysis is the derived acquisition report for one vehicle. Recomputed on
// demand, never mutated in place.
type Analysis struct {
	VehicleID          string           `json:"vehicle_id"`
	ArbitrageScore     float64          `json:"arbitrage_score"`
	ProfitPotential    float64          `json:"profit_potential"`
	RepairCostEstimate float64          `json:"repair_cost_estimate"`
	MarketDemandScore  float64          `json:"market_demand_score"`
	RecommendedMaxBid  float64          `json:"recommended_max_bid"`
	Confidence         enums.Confidence `json:"confidence"`
	Reasoning          []string         `json:"reasoning"`
	Risks              []string         `json:"risks"`
	Opportunities      []string         `json:"opportunities"`
}

// Fixed dollar constants in the scoring model.
const (
	acquisitionOverhead = 2000
	minProfitFloor      = 5000
	luxuryRepairFactor  = 1.5
	salvageRepairAdder  = 1000
)

// repairBaseCosts estimates the shop bill by damage classification.
var repairBaseCosts = map[enums.DamageType]float64{
	enums.DamageTypeNone:       0,
	enums.DamageTypeMinor:      1500,
	enums.DamageTypeHail:       2500,
	enums.DamageTypeRearEnd:    4000,
	enums.DamageTypeFrontEnd:   5000,
	enums.DamageTypeSideImpact: 4500,
	enums.DamageTypeMechanical: 6000,
	enums.DamageTypeFlood:      8000,
}

const unknownDamageRepairCost = 3000

var luxuryMakes = map[string]bool{
	"bmw":           true,
	"mercedes-benz": true,
	"audi":          true,
	"lexus":         true,
	"porsche":       true,
	"jaguar":        true,
	"land rover":    true,
	"maserati":      true,
}

var popularMakes = map[string]bool{
	"toyota":    true,
	"honda":     true,
	"ford":      true,
	"chevrolet": true,
	"nissan":    true,
	"subaru":    true,
	"jeep":      true,
}

// Scorer rates auction vehicles for acquisition. The clock is injectable so
// age brackets stay testable.
type Scorer struct {
	now func() time.Time
}

func NewScorer() *Scorer {
	return &Scorer{now: time.Now}
}

// NewScorerAt pins the scorer's clock.
func NewScorerAt(now func() time.Time) *Scorer {
	if now == nil {
		now = time.Now
	}
	return &Scorer{now: now}
}

// ScoreVehicle computes the full analysis for one vehicle. Deterministic for
// a fixed clock.
func (s *Scorer) ScoreVehicle(vehicle Vehicle) (*Analysis, error) {
	if vehicle.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle id is required")
	}
	if vehicle.CurrentBid < 0 || vehicle.EstimatedRetailValue < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bid and retail value must be non-negative").
			WithDetails(map[string]string{"vehicle_id": vehicle.ID})
	}

	age := s.now().Year() - vehicle.Year
	repairCost := s.estimateRepairCost(vehicle)
	demand := s.marketDemand(vehicle, age)
	profit := vehicle.EstimatedRetailValue - vehicle.CurrentBid - repairCost - acquisitionOverhead

	score := clamp(
		0.4*minScore(100, profit/10000*100)+
			0.3*demand+
			0.2*maxScore(0, 100-repairCost/10000*100)+
			0.1*titleScore(vehicle.TitleStatus),
		0, 100)

	confidence := enums.ConfidenceLow
	switch {
	case score >= 75 && vehicle.TitleStatus == enums.TitleStatusClean && vehicle.Mileage < 50000:
		confidence = enums.ConfidenceHigh
	case score >= 60:
		confidence = enums.ConfidenceMedium
	}

	analysis := &Analysis{
		VehicleID:          vehicle.ID,
		ArbitrageScore:     score,
		ProfitPotential:    profit,
		RepairCostEstimate: repairCost,
		MarketDemandScore:  demand,
		RecommendedMaxBid:  vehicle.EstimatedRetailValue - repairCost - minProfitFloor,
		Confidence:         confidence,
	}
	s.annotate(analysis, vehicle, age)
	return analysis, nil
}

func (s *Scorer) estimateRepairCost(vehicle Vehicle) float64 {
	cost, ok := repairBaseCosts[vehicle.DamageType]
	if !ok {
		cost = unknownDamageRepairCost
	}
	if luxuryMakes[normalizeMake(vehicle.Make)] {
		cost *= luxuryRepairFactor
	}
	if vehicle.TitleStatus == enums.TitleStatusSalvage {
		cost += salvageRepairAdder
	}
	return cost
}

func (s *Scorer) marketDemand(vehicle Vehicle, age int) float64 {
	demand := 50.0
	if popularMakes[normalizeMake(vehicle.Make)] {
		demand += 20
	}
	switch {
	case age <= 3:
		demand += 15
	case age <= 5:
		demand += 10
	case age <= 7:
		demand += 5
	}
	switch {
	case vehicle.Mileage < 30000:
		demand += 15
	case vehicle.Mileage < 50000:
		demand += 10
	case vehicle.Mileage < 75000:
		demand += 5
	}
	if vehicle.TitleStatus == enums.TitleStatusClean {
		demand += 10
	}
	if vehicle.FuelType == enums.FuelTypeElectric {
		demand += 10
	}
	return clamp(demand, 0, 100)
}

// annotate fills the ordered reasoning, risk and opportunity lists. Rule
// order is fixed so callers can assert on positions.
func (s *Scorer) annotate(analysis *Analysis, vehicle Vehicle, age int) {
	reasoning := []string{}
	switch {
	case analysis.ProfitPotential > 8000:
		reasoning = append(reasoning, fmt.Sprintf("high profit potential of $%.0f after repairs and overhead", analysis.ProfitPotential))
	case analysis.ProfitPotential > 3000:
		reasoning = append(reasoning, fmt.Sprintf("solid profit margin of $%.0f", analysis.ProfitPotential))
	default:
		reasoning = append(reasoning, "thin profit margin at the current bid")
	}
	if analysis.MarketDemandScore >= 80 {
		reasoning = append(reasoning, "strong market demand for this make and age")
	}
	if analysis.RepairCostEstimate == 0 {
		reasoning = append(reasoning, "no repairs expected")
	}

	risks := []string{}
	if vehicle.TitleStatus == enums.TitleStatusSalvage {
		risks = append(risks, "salvage title caps resale value")
	}
	if vehicle.DamageType == enums.DamageTypeFlood {
		risks = append(risks, "flood damage carries hidden electrical failure risk")
	}
	if vehicle.Mileage > 100000 {
		risks = append(risks, "high mileage shortens the resale window")
	}
	if analysis.ProfitPotential < 1000 {
		risks = append(risks, "profit does not clear the overhead buffer")
	}

	opportunities := []string{}
	if vehicle.FuelType == enums.FuelTypeElectric {
		opportunities = append(opportunities, "electric drivetrain commands a resale premium")
	}
	if age <= 3 {
		opportunities = append(opportunities, "late model year attracts retail buyers")
	}
	if analysis.MarketDemandScore >= 80 && vehicle.TitleStatus == enums.TitleStatusClean {
		opportunities = append(opportunities, "clean title plus high demand supports a fast flip")
	}

	analysis.Reasoning = reasoning
	analysis.Risks = risks
	analysis.Opportunities = opportunities
}

func titleScore(status enums.TitleStatus) float64 {
	switch status {
	case enums.TitleStatusClean:
		return 100
	case enums.TitleStatusSalvage:
		return 50
	default:
		return 25
	}
}

func normalizeMake(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minScore(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxScore(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
