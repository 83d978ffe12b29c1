package jobs

import (
	"context"
	"fmt"

	"github.com/angelmondragon/flipradar-backend/internal/deals"
)

// DealExpiryJob moves stale active deals to expired.
type DealExpiryJob struct {
	deals deals.Service
}

func NewDealExpiryJob(dealService deals.Service) (*DealExpiryJob, error) {
	if dealService == nil {
		return nil, fmt.Errorf("deal service required")
	}
	return &DealExpiryJob{deals: dealService}, nil
}

func (j *DealExpiryJob) Name() string { return "deal-expiry" }

func (j *DealExpiryJob) Run(ctx context.Context) error {
	_, err := j.deals.ExpireStale(ctx)
	return err
}
