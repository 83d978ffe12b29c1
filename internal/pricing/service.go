package pricing

import (
	"context"

	"github.com/angelmondragon/flipradar-backend/internal/quotes"
	"github.com/angelmondragon/flipradar-backend/pkg/config"
	"github.com/angelmondragon/flipradar-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/flipradar-backend/pkg/errors"
	"github.com/angelmondragon/flipradar-backend/pkg/logger"
)

// Service is the pricing engine: it aggregates supplier quotes, hides the
// true supplier behind displayed competitors, and applies the markup policy.
type Service interface {
	PriceProduct(ctx context.Context, productID string) (*Result, error)
	PriceCatalogItem(ctx context.Context, input CatalogItemInput) (*Breakdown, error)
}

// CatalogItemInput prices an item by category instead of competitor data.
type CatalogItemInput struct {
	Cost     float64               `json:"cost" validate:"gte=0"`
	Shipping float64               `json:"shipping" validate:"gte=0"`
	Category enums.ProductCategory `json:"category" validate:"required"`
}

type ServiceParams struct {
	Source quotes.Source
	Config config.PricingConfig
	Log    *logger.Logger
}

type service struct {
	source quotes.Source
	cfg    config.PricingConfig
	log    *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Source == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "pricing service requires a quote source")
	}
	if params.Log == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "pricing service requires a logger")
	}
	return &service{
		source: params.Source,
		cfg:    params.Config,
		log:    params.Log,
	}, nil
}

func (s *service) PriceProduct(ctx context.Context, productID string) (*Result, error) {
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	ctx = s.log.WithProductID(ctx, productID)

	supplierQuotes, err := s.source.GetQuotes(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetching supplier quotes")
	}

	result, err := aggregate(s.cfg, productID, supplierQuotes)
	if err != nil {
		return nil, err
	}

	ctx = s.log.WithFields(ctx, map[string]any{
		"quotes":         len(supplierQuotes),
		"displayed":      len(result.DisplayedQuotes),
		"customer_price": result.CustomerPrice,
	})
	s.log.Info(ctx, "priced product")

	return result, nil
}

func (s *service) PriceCatalogItem(ctx context.Context, input CatalogItemInput) (*Breakdown, error) {
	breakdown, err := CategoryBreakdown(input.Cost, input.Shipping, input.Category)
	if err != nil {
		return nil, err
	}

	ctx = s.log.WithFields(ctx, map[string]any{
		"category":      input.Category,
		"selling_price": breakdown.SellingPrice,
	})
	s.log.Info(ctx, "priced catalog item")

	return breakdown, nil
}
