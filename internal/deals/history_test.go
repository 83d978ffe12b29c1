package deals

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestMemoryHistoryEvictsOldestBeyondLimit(t *testing.T) {
	t.Parallel()

	store := NewMemoryHistory(100)
	ctx := context.Background()

	for i := 0; i < 150; i++ {
		err := store.Record(ctx, PricePoint{
			ProductID:  "prod-1",
			Price:      float64(i),
			ObservedAt: time.Unix(int64(i), 0),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	points, err := store.Recent(ctx, "prod-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 100 {
		t.Fatalf("retained %d points, want 100", len(points))
	}
	if points[0].Price != 149 {
		t.Fatalf("newest point price = %v, want 149", points[0].Price)
	}
	if points[99].Price != 50 {
		t.Fatalf("oldest retained price = %v, want 50", points[99].Price)
	}
}

func TestMemoryHistoryKeepsObservationSource(t *testing.T) {
	t.Parallel()

	store := NewMemoryHistory(10)
	ctx := context.Background()

	observations := []PricePoint{
		{ProductID: "prod-1", Price: 20, Source: "scan", ObservedAt: time.Unix(1, 0)},
		{ProductID: "prod-1", Price: 18, Source: "api", ObservedAt: time.Unix(2, 0)},
	}
	for _, point := range observations {
		if err := store.Record(ctx, point); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	points, err := store.Recent(ctx, "prod-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("retained %d points, want 2", len(points))
	}
	if points[0].Source != "api" {
		t.Fatalf("newest source = %q, want %q", points[0].Source, "api")
	}
	if points[1].Source != "scan" {
		t.Fatalf("oldest source = %q, want %q", points[1].Source, "scan")
	}
}

func TestMemoryHistoryIsolatesProducts(t *testing.T) {
	t.Parallel()

	store := NewMemoryHistory(10)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		productID := fmt.Sprintf("prod-%d", i%2)
		if err := store.Record(ctx, PricePoint{ProductID: productID, Price: float64(i)}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	first, err := store.Recent(ctx, "prod-0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := store.Recent(ctx, "prod-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != 3 || len(second) != 2 {
		t.Fatalf("got %d and %d points, want 3 and 2", len(first), len(second))
	}
}

func TestMemoryHistoryRecentReturnsCopy(t *testing.T) {
	t.Parallel()

	store := NewMemoryHistory(10)
	ctx := context.Background()
	if err := store.Record(ctx, PricePoint{ProductID: "prod-1", Price: 10}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	points, _ := store.Recent(ctx, "prod-1")
	points[0].Price = 999

	again, _ := store.Recent(ctx, "prod-1")
	if again[0].Price != 10 {
		t.Fatalf("stored point mutated through returned slice: %v", again[0].Price)
	}
}
