package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/flipradar-backend/internal/arbitrage"
	"github.com/angelmondragon/flipradar-backend/internal/bidding"
	"github.com/angelmondragon/flipradar-backend/internal/deals"
	"github.com/angelmondragon/flipradar-backend/internal/pricing"
	"github.com/angelmondragon/flipradar-backend/internal/quotes"
	"github.com/angelmondragon/flipradar-backend/pkg/config"
	"github.com/angelmondragon/flipradar-backend/pkg/db/models"
	"github.com/angelmondragon/flipradar-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/flipradar-backend/pkg/errors"
	"github.com/angelmondragon/flipradar-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

type stubPricingService struct {
	result *pricing.Result
	err    error
}

func (s *stubPricingService) PriceProduct(context.Context, string) (*pricing.Result, error) {
	return s.result, s.err
}

func (s *stubPricingService) PriceCatalogItem(context.Context, pricing.CatalogItemInput) (*pricing.Breakdown, error) {
	return &pricing.Breakdown{}, s.err
}

type stubDealService struct {
	deals.Service
	deal       *models.Deal
	evaluation *deals.Evaluation
	err        error
}

func (s *stubDealService) TrackPrice(context.Context, string, float64, string, time.Time) error {
	return s.err
}

func (s *stubDealService) EvaluateCandidate(context.Context, deals.Candidate) (*deals.Evaluation, error) {
	return s.evaluation, s.err
}

func (s *stubDealService) MarkPurchased(context.Context, uuid.UUID) (*models.Deal, error) {
	return s.deal, s.err
}

func (s *stubDealService) ListDeals(context.Context, *enums.DealStatus) ([]models.Deal, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.deal == nil {
		return []models.Deal{}, nil
	}
	return []models.Deal{*s.deal}, nil
}

type stubBidService struct {
	outcome *bidding.SessionOutcome
	err     error
}

func (s *stubBidService) RunAutoBid(_ context.Context, vehicle arbitrage.Vehicle, _ arbitrage.Analysis) (*bidding.SessionOutcome, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.outcome != nil {
		return s.outcome, nil
	}
	return &bidding.SessionOutcome{VehicleID: vehicle.ID, State: enums.BidStateDisabled}, nil
}

func (s *stubBidService) ListSessions(context.Context, string) ([]models.BidSession, error) {
	return []models.BidSession{}, s.err
}

func decodeEnvelope(t *testing.T, body *bytes.Buffer) map[string]any {
	t.Helper()
	var envelope map[string]any
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return envelope
}

func TestProductPriceHidesTrueSupplier(t *testing.T) {
	t.Parallel()

	svc := &stubPricingService{result: &pricing.Result{
		ProductID:     "prod-1",
		TrueCost:      50,
		TrueSupplier:  "sup-secret",
		CustomerPrice: 50.90,
		Markup:        0.90,
		DisplayedQuotes: []quotes.SupplierQuote{
			{SupplierID: "sup-b", Price: 80, InStock: true},
		},
	}}

	r := chi.NewRouter()
	r.Get("/products/{productId}/price", ProductPrice(svc, testLogger()))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/prod-1/price", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	raw := rec.Body.String()
	if bytes.Contains([]byte(raw), []byte("sup-secret")) {
		t.Fatalf("response leaked the true supplier: %s", raw)
	}

	envelope := decodeEnvelope(t, rec.Body)
	data := envelope["data"].(map[string]any)
	if data["customer_price"].(float64) != 50.90 {
		t.Fatalf("customer price = %v", data["customer_price"])
	}
	if _, present := data["true_cost"]; present {
		t.Fatal("true cost must not be serialized")
	}
}

func TestProductPriceSourceFailure(t *testing.T) {
	t.Parallel()

	svc := &stubPricingService{err: pkgerrors.New(pkgerrors.CodeDependency, "supplier api down")}
	r := chi.NewRouter()
	r.Get("/products/{productId}/price", ProductPrice(svc, testLogger()))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products/prod-1/price", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestDealEvaluateValidatesBody(t *testing.T) {
	t.Parallel()

	handler := DealEvaluate(&stubDealService{evaluation: &deals.Evaluation{}}, testLogger())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/deals/evaluate",
		bytes.NewBufferString(`{"current_price": 10}`))
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for missing product_id", rec.Code)
	}
}

func TestDealTrackAcceptsObservation(t *testing.T) {
	t.Parallel()

	handler := DealTrack(&stubDealService{}, testLogger())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/deals/track",
		bytes.NewBufferString(`{"product_id": "prod-1", "price": 42.50}`))
	handler(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202, body %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/deals/track",
		bytes.NewBufferString(`{"price": 42.50}`))
	handler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for missing product_id", rec.Code)
	}
}

func TestDealPurchaseStateConflictMapsTo422(t *testing.T) {
	t.Parallel()

	svc := &stubDealService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "deal status transition disallowed")}
	r := chi.NewRouter()
	r.Post("/deals/{dealId}/purchase", DealPurchase(svc, testLogger()))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/deals/"+uuid.NewString()+"/purchase", nil)
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestDealPurchaseRejectsBadID(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.Post("/deals/{dealId}/purchase", DealPurchase(&stubDealService{}, testLogger()))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/deals/not-a-uuid/purchase", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestVehicleScoreEndToEnd(t *testing.T) {
	t.Parallel()

	scorer := arbitrage.NewScorerAt(func() time.Time {
		return time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	})
	handler := VehicleScore(scorer, testLogger())

	payload := `{"vehicle": {
		"id": "veh-1", "year": 2021, "make": "Honda", "model": "Accord",
		"mileage": 28000, "current_bid": 12500, "estimated_retail_value": 24000,
		"damage_type": "front-end", "title_status": "salvage", "fuel_type": "gasoline",
		"auction_status": "live"
	}}`

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/vehicles/score", bytes.NewBufferString(payload)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	envelope := decodeEnvelope(t, rec.Body)
	data := envelope["data"].(map[string]any)
	if data["arbitrage_score"].(float64) != 55.5 {
		t.Fatalf("score = %v, want 55.5", data["arbitrage_score"])
	}
}

func TestVehicleAutoBidPathBodyMismatch(t *testing.T) {
	t.Parallel()

	scorer := arbitrage.NewScorer()
	r := chi.NewRouter()
	r.Post("/vehicles/{vehicleId}/auto-bid", VehicleAutoBid(scorer, &stubBidService{}, testLogger()))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/vehicles/veh-other/auto-bid",
		bytes.NewBufferString(`{"vehicle": {"id": "veh-1"}}`))
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHealthReadyReportsDownDependency(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	handler := HealthReady(cfg, testLogger(), map[string]Pinger{
		"db":    pingerFunc(func(context.Context) error { return nil }),
		"redis": pingerFunc(func(context.Context) error { return errors.New("down") }),
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }
