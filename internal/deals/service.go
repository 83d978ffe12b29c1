package deals

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/flipradar-backend/pkg/config"
	"github.com/angelmondragon/flipradar-backend/pkg/db/models"
	"github.com/angelmondragon/flipradar-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/flipradar-backend/pkg/errors"
	"github.com/angelmondragon/flipradar-backend/pkg/logger"
	"github.com/angelmondragon/flipradar-backend/pkg/metrics"
)

// Candidate is a freshly observed price being evaluated against history and
// operator criteria.
type Candidate struct {
	ProductID    string                `json:"product_id"`
	Category     enums.ProductCategory `json:"category"`
	CurrentPrice float64               `json:"current_price"`
	Source       string                `json:"source"`
	ObservedAt   time.Time             `json:"observed_at"`
}

// Evaluation reports what the monitor decided about a candidate.
type Evaluation struct {
	IsDeal          bool         `json:"is_deal"`
	AveragePrice    float64      `json:"average_price"`
	DiscountPercent float64      `json:"discount_percent"`
	Matched         *uuid.UUID   `json:"matched_criteria_id,omitempty"`
	Deal            *models.Deal `json:"deal,omitempty"`
}

// Service is the deal monitor: it tracks observed prices, detects drops
// against the trailing average, and records deals that match operator rules.
type Service interface {
	TrackPrice(ctx context.Context, productID string, price float64, source string, observedAt time.Time) error
	IsDeal(ctx context.Context, productID string, price float64) (bool, float64, error)
	MatchCriteria(ctx context.Context, candidate Candidate) (*models.DealCriteria, error)
	EvaluateCandidate(ctx context.Context, candidate Candidate) (*Evaluation, error)

	CreateCriteria(ctx context.Context, criteria *models.DealCriteria) error
	ListCriteria(ctx context.Context) ([]models.DealCriteria, error)
	SetCriteriaEnabled(ctx context.Context, id uuid.UUID, enabled bool) error

	GetDeal(ctx context.Context, id uuid.UUID) (*models.Deal, error)
	ListDeals(ctx context.Context, status *enums.DealStatus) ([]models.Deal, error)
	MarkPurchased(ctx context.Context, id uuid.UUID) (*models.Deal, error)
	MarkExpired(ctx context.Context, id uuid.UUID) (*models.Deal, error)
	ExpireStale(ctx context.Context) (int64, error)
}

type ServiceParams struct {
	History   HistoryStore
	Criteria  CriteriaRepository
	Deals     DealRepository
	Publisher EventPublisher
	Config    config.DealsConfig
	Metrics   *metrics.EngineMetrics
	Log       *logger.Logger
	Now       func() time.Time
}

type service struct {
	history   HistoryStore
	criteria  CriteriaRepository
	deals     DealRepository
	publisher EventPublisher
	cfg       config.DealsConfig
	metrics   *metrics.EngineMetrics
	log       *logger.Logger
	now       func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.History == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "deal service requires a history store")
	}
	if params.Criteria == nil || params.Deals == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "deal service requires repositories")
	}
	if params.Log == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "deal service requires a logger")
	}
	if params.Publisher == nil {
		params.Publisher = NopPublisher{}
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	if params.Config.MinDiscountPercent <= 0 {
		params.Config.MinDiscountPercent = 15
	}
	return &service{
		history:   params.History,
		criteria:  params.Criteria,
		deals:     params.Deals,
		publisher: params.Publisher,
		cfg:       params.Config,
		metrics:   params.Metrics,
		log:       params.Log,
		now:       params.Now,
	}, nil
}

func (s *service) TrackPrice(ctx context.Context, productID string, price float64, source string, observedAt time.Time) error {
	if productID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if price < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}
	if observedAt.IsZero() {
		observedAt = s.now()
	}
	return s.history.Record(ctx, PricePoint{
		ProductID:  productID,
		Price:      price,
		Source:     source,
		ObservedAt: observedAt,
	})
}

// IsDeal reports whether price sits at least the configured discount below
// the trailing average. An empty history is never a deal.
func (s *service) IsDeal(ctx context.Context, productID string, price float64) (bool, float64, error) {
	points, err := s.history.Recent(ctx, productID)
	if err != nil {
		return false, 0, err
	}
	if len(points) == 0 {
		return false, 0, nil
	}

	var sum float64
	for _, point := range points {
		sum += point.Price
	}
	avg := sum / float64(len(points))
	if avg <= 0 {
		return false, avg, nil
	}

	discount := (avg - price) / avg * 100
	return discount >= s.cfg.MinDiscountPercent, avg, nil
}

// MatchCriteria returns the first enabled rule the candidate satisfies, in
// insertion order. No match is a nil rule, not an error.
func (s *service) MatchCriteria(ctx context.Context, candidate Candidate) (*models.DealCriteria, error) {
	rules, err := s.criteria.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}

	for i := range rules {
		rule := rules[i]
		if rule.ProductID != nil && *rule.ProductID != candidate.ProductID {
			continue
		}
		if rule.Category != nil && *rule.Category != candidate.Category {
			continue
		}
		if candidate.CurrentPrice > rule.MaxPrice {
			continue
		}
		if rule.MinDiscountPercent != nil {
			_, avg, err := s.IsDeal(ctx, candidate.ProductID, candidate.CurrentPrice)
			if err != nil {
				return nil, err
			}
			if avg <= 0 {
				continue
			}
			discount := (avg - candidate.CurrentPrice) / avg * 100
			if discount < *rule.MinDiscountPercent {
				continue
			}
		}
		return &rule, nil
	}
	return nil, nil
}

// EvaluateCandidate runs the full pipeline: record the observation, check the
// price-drop rule, match operator criteria, and persist a deal when either
// fires. Criteria matches are deals even when the trailing-average rule
// stayed quiet.
func (s *service) EvaluateCandidate(ctx context.Context, candidate Candidate) (*Evaluation, error) {
	if candidate.ProductID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if candidate.CurrentPrice < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}

	ctx = s.log.WithProductID(ctx, candidate.ProductID)

	isDeal, avg, err := s.IsDeal(ctx, candidate.ProductID, candidate.CurrentPrice)
	if err != nil {
		return nil, err
	}

	matched, err := s.MatchCriteria(ctx, candidate)
	if err != nil {
		return nil, err
	}

	if err := s.TrackPrice(ctx, candidate.ProductID, candidate.CurrentPrice, candidate.Source, candidate.ObservedAt); err != nil {
		return nil, err
	}

	evaluation := &Evaluation{IsDeal: isDeal, AveragePrice: avg}
	if avg > 0 {
		evaluation.DiscountPercent = (avg - candidate.CurrentPrice) / avg * 100
	}

	if !isDeal && matched == nil {
		return evaluation, nil
	}

	deal := &models.Deal{
		ProductID:       candidate.ProductID,
		CurrentPrice:    candidate.CurrentPrice,
		OriginalPrice:   avg,
		DiscountPercent: evaluation.DiscountPercent,
		Savings:         avg - candidate.CurrentPrice,
		Status:          enums.DealStatusActive,
		DetectedAt:      s.now(),
	}
	if matched != nil {
		id := matched.ID
		deal.CriteriaID = &id
		deal.AutoCheckoutEligible = matched.AutoCheckout
		evaluation.Matched = &id
	}
	if deal.OriginalPrice <= 0 {
		// first sighting matched a criterion; no average to anchor on yet
		deal.OriginalPrice = candidate.CurrentPrice
		deal.Savings = 0
	}

	if err := s.deals.Create(ctx, deal); err != nil {
		return nil, err
	}

	s.metrics.IncDealDetected(deal.AutoCheckoutEligible)
	s.log.Info(s.log.WithFields(ctx, map[string]any{
		"deal_id":          deal.ID,
		"discount_percent": deal.DiscountPercent,
		"auto_checkout":    deal.AutoCheckoutEligible,
	}), "deal detected")

	if err := s.publisher.PublishDeal(ctx, DealEvent{
		DealID:          deal.ID,
		ProductID:       deal.ProductID,
		CurrentPrice:    deal.CurrentPrice,
		OriginalPrice:   deal.OriginalPrice,
		DiscountPercent: deal.DiscountPercent,
		AutoCheckout:    deal.AutoCheckoutEligible,
		DetectedAt:      deal.DetectedAt,
	}); err != nil {
		// the deal is already durable; publishing is best effort
		s.log.Error(ctx, "publishing deal event failed", err)
	}

	evaluation.Deal = deal
	return evaluation, nil
}

func (s *service) CreateCriteria(ctx context.Context, criteria *models.DealCriteria) error {
	if criteria == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "criteria payload is required")
	}
	if criteria.MaxPrice <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "max price must be positive")
	}
	if criteria.MinDiscountPercent != nil && (*criteria.MinDiscountPercent < 0 || *criteria.MinDiscountPercent > 100) {
		return pkgerrors.New(pkgerrors.CodeValidation, "min discount must be within 0..100")
	}
	return s.criteria.Create(ctx, criteria)
}

func (s *service) ListCriteria(ctx context.Context) ([]models.DealCriteria, error) {
	return s.criteria.List(ctx)
}

func (s *service) SetCriteriaEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	return s.criteria.SetEnabled(ctx, id, enabled)
}

func (s *service) GetDeal(ctx context.Context, id uuid.UUID) (*models.Deal, error) {
	return s.deals.GetByID(ctx, id)
}

func (s *service) ListDeals(ctx context.Context, status *enums.DealStatus) ([]models.Deal, error) {
	return s.deals.List(ctx, status)
}

func (s *service) MarkPurchased(ctx context.Context, id uuid.UUID) (*models.Deal, error) {
	return s.transition(ctx, id, enums.DealStatusPurchased)
}

func (s *service) MarkExpired(ctx context.Context, id uuid.UUID) (*models.Deal, error) {
	return s.transition(ctx, id, enums.DealStatusExpired)
}

// transition applies a lifecycle move. Re-entering the current state is a
// no-op; any other move out of a terminal state is a state conflict.
func (s *service) transition(ctx context.Context, id uuid.UUID, target enums.DealStatus) (*models.Deal, error) {
	deal, err := s.deals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if deal.Status == target {
		return deal, nil
	}
	if !deal.Status.CanTransitionTo(target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "deal status transition disallowed").
			WithDetails(map[string]string{
				"from": string(deal.Status),
				"to":   string(target),
			})
	}

	if err := s.deals.UpdateStatus(ctx, id, target); err != nil {
		return nil, err
	}
	deal.Status = target
	return deal, nil
}

func (s *service) ExpireStale(ctx context.Context) (int64, error) {
	if s.cfg.ActiveTTL <= 0 {
		return 0, nil
	}
	cutoff := s.now().Add(-s.cfg.ActiveTTL)
	expired, err := s.deals.ExpireOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if expired > 0 {
		s.log.Info(s.log.WithField(ctx, "expired", expired), "expired stale deals")
	}
	return expired, nil
}
