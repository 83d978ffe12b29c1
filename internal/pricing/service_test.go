package pricing

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/flipradar-backend/internal/quotes"
	"github.com/angelmondragon/flipradar-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/flipradar-backend/pkg/errors"
	"github.com/angelmondragon/flipradar-backend/pkg/logger"
)

type stubSource struct {
	quotes []quotes.SupplierQuote
	err    error
}

func (s *stubSource) GetQuotes(_ context.Context, _ string) ([]quotes.SupplierQuote, error) {
	return s.quotes, s.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestService(t *testing.T, source quotes.Source) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Source: source,
		Config: testPricingConfig(),
		Log:    testLogger(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	t.Parallel()

	if _, err := NewService(ServiceParams{Log: testLogger()}); err == nil {
		t.Fatal("expected error for missing source")
	}
	if _, err := NewService(ServiceParams{Source: &stubSource{}}); err == nil {
		t.Fatal("expected error for missing logger")
	}
}

func TestPriceProductRequiresProductID(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubSource{})
	_, err := svc.PriceProduct(context.Background(), "")
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPriceProductWrapsSourceFailures(t *testing.T) {
	t.Parallel()

	cause := errors.New("supplier api down")
	svc := newTestService(t, &stubSource{err: cause})

	_, err := svc.PriceProduct(context.Background(), "prod-1")
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to survive")
	}
}

func TestPriceProductEndToEnd(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubSource{quotes: []quotes.SupplierQuote{
		{SupplierID: "sup-a", Price: 50, InStock: true},
		{SupplierID: "sup-b", Price: 80, InStock: true},
	}})

	result, err := svc.PriceProduct(context.Background(), "prod-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !closeEnough(result.CustomerPrice, 50.90) {
		t.Fatalf("customer price = %v, want 50.90", result.CustomerPrice)
	}
	if result.Breakdown == nil {
		t.Fatal("expected a cost breakdown")
	}
	if !result.Breakdown.SellingPrice.Equal(decimal.NewFromFloat(50.90)) {
		t.Fatalf("breakdown selling price = %s, want 50.90", result.Breakdown.SellingPrice)
	}
}

func TestPriceCatalogItem(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubSource{})
	breakdown, err := svc.PriceCatalogItem(context.Background(), CatalogItemInput{
		Cost:     100,
		Shipping: 10,
		Category: enums.ProductCategoryElectronics,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// totalCost = 100 + 10 + 3 = 113; selling = 113 * 1.15 = 129.95
	if !breakdown.TotalCost.Equal(decimal.NewFromFloat(113)) {
		t.Fatalf("total cost = %s, want 113", breakdown.TotalCost)
	}
	if !breakdown.SellingPrice.Equal(decimal.NewFromFloat(129.95)) {
		t.Fatalf("selling price = %s, want 129.95", breakdown.SellingPrice)
	}
	if !breakdown.Profit.Equal(decimal.NewFromFloat(16.95)) {
		t.Fatalf("profit = %s, want 16.95", breakdown.Profit)
	}

	if _, err := svc.PriceCatalogItem(context.Background(), CatalogItemInput{Cost: -1}); err == nil {
		t.Fatal("expected validation error for negative cost")
	}
}
