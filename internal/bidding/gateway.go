package bidding

import (
	"context"
	"hash/fnv"
	"math/rand"
	"sync"
)

// BidOutcome is the auction platform's response to one submitted bid.
type BidOutcome struct {
	Accepted   bool    `json:"accepted"`
	NewHighBid float64 `json:"new_high_bid"`
	Winning    bool    `json:"winning"`
	Message    string  `json:"message"`
}

// Gateway is the auction platform surface. Production implementations call a
// real API; tests inject scripted responses.
type Gateway interface {
	CurrentHighBid(ctx context.Context, vehicleID string) (float64, error)
	SubmitBid(ctx context.Context, vehicleID string, amount float64) (BidOutcome, error)
}

// SimulatedGateway stands in for a real auction platform in dev mode. Each
// vehicle gets a deterministic competing-bidder stream seeded off its id.
type SimulatedGateway struct {
	mu       sync.Mutex
	highBids map[string]float64
	rng      map[string]*rand.Rand

	// WinChance is the per-cycle probability a submitted highest bid holds.
	WinChance float64
}

func NewSimulatedGateway(openingBids map[string]float64) *SimulatedGateway {
	bids := make(map[string]float64, len(openingBids))
	for id, bid := range openingBids {
		bids[id] = bid
	}
	return &SimulatedGateway{
		highBids:  bids,
		rng:       map[string]*rand.Rand{},
		WinChance: 0.35,
	}
}

func (g *SimulatedGateway) vehicleRNG(vehicleID string) *rand.Rand {
	if rng, ok := g.rng[vehicleID]; ok {
		return rng
	}
	hasher := fnv.New64a()
	_, _ = hasher.Write([]byte(vehicleID))
	rng := rand.New(rand.NewSource(int64(hasher.Sum64())))
	g.rng[vehicleID] = rng
	return rng
}

func (g *SimulatedGateway) CurrentHighBid(_ context.Context, vehicleID string) (float64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.highBids[vehicleID], nil
}

func (g *SimulatedGateway) SubmitBid(_ context.Context, vehicleID string, amount float64) (BidOutcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	current := g.highBids[vehicleID]
	if amount <= current {
		return BidOutcome{
			Accepted:   false,
			NewHighBid: current,
			Message:    "bid does not beat the current high bid",
		}, nil
	}

	g.highBids[vehicleID] = amount
	rng := g.vehicleRNG(vehicleID)
	if rng.Float64() < g.WinChance {
		return BidOutcome{Accepted: true, NewHighBid: amount, Winning: true, Message: "bid holding"}, nil
	}

	// a competing bidder raises before the next cycle
	raise := float64(rng.Intn(4)+1) * 100
	g.highBids[vehicleID] = amount + raise
	return BidOutcome{
		Accepted:   true,
		NewHighBid: amount + raise,
		Winning:    false,
		Message:    "outbid by a competing bidder",
	}, nil
}
