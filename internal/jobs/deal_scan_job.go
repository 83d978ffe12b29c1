package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/flipradar-backend/internal/deals"
	"github.com/angelmondragon/flipradar-backend/internal/pricing"
	"github.com/angelmondragon/flipradar-backend/pkg/enums"
	"github.com/angelmondragon/flipradar-backend/pkg/logger"
)

// scanSource labels price observations produced by the scan worker.
const scanSource = "scan"

// DealScanJob reprices the watched products and feeds each fresh customer
// price through the deal monitor.
type DealScanJob struct {
	pricing  pricing.Service
	deals    deals.Service
	products []string
	logg     *logger.Logger
	now      func() time.Time
}

type DealScanJobParams struct {
	Pricing  pricing.Service
	Deals    deals.Service
	Products []string
	Logger   *logger.Logger
	Now      func() time.Time
}

func NewDealScanJob(params DealScanJobParams) (*DealScanJob, error) {
	if params.Pricing == nil {
		return nil, fmt.Errorf("pricing service required")
	}
	if params.Deals == nil {
		return nil, fmt.Errorf("deal service required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &DealScanJob{
		pricing:  params.Pricing,
		deals:    params.Deals,
		products: params.Products,
		logg:     params.Logger,
		now:      params.Now,
	}, nil
}

func (j *DealScanJob) Name() string { return "deal-scan" }

// Run prices every watched product and evaluates the result. One product's
// failure does not stop the rest of the scan.
func (j *DealScanJob) Run(ctx context.Context) error {
	var failed int
	for _, productID := range j.products {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := j.scanProduct(ctx, productID); err != nil {
			failed++
			j.logg.Error(j.logg.WithProductID(ctx, productID), "product scan failed", err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d product scans failed", failed, len(j.products))
	}
	return nil
}

func (j *DealScanJob) scanProduct(ctx context.Context, productID string) error {
	result, err := j.pricing.PriceProduct(ctx, productID)
	if err != nil {
		return err
	}

	_, err = j.deals.EvaluateCandidate(ctx, deals.Candidate{
		ProductID:    productID,
		Category:     enums.ProductCategoryOther,
		CurrentPrice: result.CustomerPrice,
		Source:       scanSource,
		ObservedAt:   j.now(),
	})
	return err
}
