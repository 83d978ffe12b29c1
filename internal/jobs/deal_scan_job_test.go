package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/flipradar-backend/internal/deals"
	"github.com/angelmondragon/flipradar-backend/internal/pricing"
)

type stubPricing struct {
	prices map[string]float64
	err    error
	calls  []string
}

func (s *stubPricing) PriceProduct(_ context.Context, productID string) (*pricing.Result, error) {
	s.calls = append(s.calls, productID)
	if s.err != nil {
		return nil, s.err
	}
	return &pricing.Result{ProductID: productID, CustomerPrice: s.prices[productID]}, nil
}

func (s *stubPricing) PriceCatalogItem(context.Context, pricing.CatalogItemInput) (*pricing.Breakdown, error) {
	return nil, errors.New("not used")
}

type stubDeals struct {
	deals.Service
	evaluated []deals.Candidate
	err       error
	expired   int64
}

func (s *stubDeals) EvaluateCandidate(_ context.Context, candidate deals.Candidate) (*deals.Evaluation, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.evaluated = append(s.evaluated, candidate)
	return &deals.Evaluation{}, nil
}

func (s *stubDeals) ExpireStale(context.Context) (int64, error) {
	return s.expired, s.err
}

func TestDealScanJobFeedsEveryProduct(t *testing.T) {
	t.Parallel()

	pricingStub := &stubPricing{prices: map[string]float64{"prod-1": 50.90, "prod-2": 75.25}}
	dealStub := &stubDeals{}
	now := time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)

	job, err := NewDealScanJob(DealScanJobParams{
		Pricing:  pricingStub,
		Deals:    dealStub,
		Products: []string{"prod-1", "prod-2"},
		Logger:   newJobsLogger(),
		Now:      func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(dealStub.evaluated) != 2 {
		t.Fatalf("evaluated %d candidates, want 2", len(dealStub.evaluated))
	}
	first := dealStub.evaluated[0]
	if first.ProductID != "prod-1" || first.CurrentPrice != 50.90 {
		t.Fatalf("unexpected candidate: %+v", first)
	}
	if !first.ObservedAt.Equal(now) {
		t.Fatalf("observed at = %v, want pinned clock", first.ObservedAt)
	}
}

func TestDealScanJobReportsPartialFailure(t *testing.T) {
	t.Parallel()

	pricingStub := &stubPricing{err: errors.New("source down")}
	job, err := NewDealScanJob(DealScanJobParams{
		Pricing:  pricingStub,
		Deals:    &stubDeals{},
		Products: []string{"prod-1", "prod-2"},
		Logger:   newJobsLogger(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = job.Run(context.Background())
	if err == nil {
		t.Fatal("expected aggregate failure")
	}
	if len(pricingStub.calls) != 2 {
		t.Fatalf("scan stopped early: %d calls, want 2", len(pricingStub.calls))
	}
}

func TestDealExpiryJobDelegates(t *testing.T) {
	t.Parallel()

	dealStub := &stubDeals{expired: 3}
	job, err := NewDealExpiryJob(dealStub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if job.Name() != "deal-expiry" {
		t.Fatalf("unexpected name %q", job.Name())
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
