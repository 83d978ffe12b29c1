package quotes

import (
	"context"
	"testing"
)

func TestSimulatedSourceIsDeterministic(t *testing.T) {
	t.Parallel()

	source := NewSimulatedSource()
	first, err := source.GetQuotes(context.Background(), "prod-1001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := source.GetQuotes(context.Background(), "prod-1001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) == 0 {
		t.Fatal("expected at least one quote")
	}
	if len(first) != len(second) {
		t.Fatalf("expected stable quote count, got %d then %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("quote %d differs between calls: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestSimulatedSourceQuotesAreSane(t *testing.T) {
	t.Parallel()

	source := NewSimulatedSource()
	for _, productID := range []string{"prod-1", "prod-2", "widget", "x"} {
		qs, err := source.GetQuotes(context.Background(), productID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(qs) < 2 || len(qs) > 5 {
			t.Fatalf("expected 2..5 quotes, got %d", len(qs))
		}
		seen := map[string]bool{}
		for _, q := range qs {
			if q.Price <= 0 {
				t.Fatalf("non-positive price in %+v", q)
			}
			if q.ShippingCost < 0 {
				t.Fatalf("negative shipping in %+v", q)
			}
			if seen[q.SupplierID] {
				t.Fatalf("duplicate supplier id %s", q.SupplierID)
			}
			seen[q.SupplierID] = true
		}
	}
}

func TestSimulatedSourceHonorsCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewSimulatedSource().GetQuotes(ctx, "prod-1"); err == nil {
		t.Fatal("expected context error")
	}
}
