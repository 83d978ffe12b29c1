package metrics

import "github.com/prometheus/client_golang/prometheus"

// EngineMetrics counts the decision engine's externally visible outcomes.
type EngineMetrics struct {
	dealsDetected *prometheus.CounterVec
	bidsSubmitted *prometheus.CounterVec
	auctionsWon   prometheus.Counter
}

// NewEngineMetrics registers engine counters on the provided registerer.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	if reg == nil {
		return &EngineMetrics{}
	}
	dealsDetected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "deals_detected",
		Help: "Deals detected by the monitor.",
	}, []string{"auto_checkout"})
	bidsSubmitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bids_submitted",
		Help: "Bids submitted to the auction gateway.",
	}, []string{"strategy"})
	auctionsWon := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auctions_won",
		Help: "Auctions won by the auto-bid loop.",
	})
	reg.MustRegister(dealsDetected, bidsSubmitted, auctionsWon)
	return &EngineMetrics{
		dealsDetected: dealsDetected,
		bidsSubmitted: bidsSubmitted,
		auctionsWon:   auctionsWon,
	}
}

// IncDealDetected counts one detected deal.
func (e *EngineMetrics) IncDealDetected(autoCheckout bool) {
	if e == nil || e.dealsDetected == nil {
		return
	}
	label := "false"
	if autoCheckout {
		label = "true"
	}
	e.dealsDetected.WithLabelValues(label).Inc()
}

// IncBidSubmitted counts one submitted bid for the given strategy.
func (e *EngineMetrics) IncBidSubmitted(strategy string) {
	if e == nil || e.bidsSubmitted == nil {
		return
	}
	e.bidsSubmitted.WithLabelValues(normalizeLabel(strategy)).Inc()
}

// IncAuctionWon counts one won auction.
func (e *EngineMetrics) IncAuctionWon() {
	if e == nil || e.auctionsWon == nil {
		return
	}
	e.auctionsWon.Inc()
}
