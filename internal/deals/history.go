package deals

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	pkgerrors "github.com/angelmondragon/flipradar-backend/pkg/errors"
	"github.com/angelmondragon/flipradar-backend/pkg/redis"
)

// PricePoint is one observed price for a product. Source names where the
// observation came from (scan worker, api caller, supplier feed).
type PricePoint struct {
	ProductID  string    `json:"product_id"`
	Price      float64   `json:"price"`
	Source     string    `json:"source"`
	ObservedAt time.Time `json:"observed_at"`
}

// HistoryStore keeps a bounded, newest-first price history per product. Once
// the cap is reached the oldest entries are evicted.
type HistoryStore interface {
	Record(ctx context.Context, point PricePoint) error
	Recent(ctx context.Context, productID string) ([]PricePoint, error)
}

// RedisHistory backs the ring buffer with a capped Redis list per product.
type RedisHistory struct {
	client *redis.Client
	limit  int
}

func NewRedisHistory(client *redis.Client, limit int) (*RedisHistory, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "history store requires a redis client")
	}
	if limit <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "history limit must be positive")
	}
	return &RedisHistory{client: client, limit: limit}, nil
}

func (h *RedisHistory) Record(ctx context.Context, point PricePoint) error {
	payload, err := json.Marshal(point)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding price point")
	}

	key := h.client.HistoryKey(point.ProductID)
	if err := h.client.LPush(ctx, key, payload); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recording price point")
	}
	if err := h.client.LTrim(ctx, key, 0, int64(h.limit)-1); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "trimming price history")
	}
	return nil
}

func (h *RedisHistory) Recent(ctx context.Context, productID string) ([]PricePoint, error) {
	raw, err := h.client.LRange(ctx, h.client.HistoryKey(productID), 0, int64(h.limit)-1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading price history")
	}

	points := make([]PricePoint, 0, len(raw))
	for _, entry := range raw {
		var point PricePoint
		if err := json.Unmarshal([]byte(entry), &point); err != nil {
			// skip corrupt entries instead of poisoning the whole read
			continue
		}
		points = append(points, point)
	}
	return points, nil
}

// MemoryHistory is the in-process HistoryStore used in dev mode and tests.
// Eviction semantics match the Redis list: newest first, capped at limit.
type MemoryHistory struct {
	mu     sync.Mutex
	limit  int
	points map[string][]PricePoint
}

func NewMemoryHistory(limit int) *MemoryHistory {
	if limit <= 0 {
		limit = 100
	}
	return &MemoryHistory{
		limit:  limit,
		points: make(map[string][]PricePoint),
	}
}

func (h *MemoryHistory) Record(_ context.Context, point PricePoint) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	existing := h.points[point.ProductID]
	updated := make([]PricePoint, 0, len(existing)+1)
	updated = append(updated, point)
	updated = append(updated, existing...)
	if len(updated) > h.limit {
		updated = updated[:h.limit]
	}
	h.points[point.ProductID] = updated
	return nil
}

func (h *MemoryHistory) Recent(_ context.Context, productID string) ([]PricePoint, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	existing := h.points[productID]
	out := make([]PricePoint, len(existing))
	copy(out, existing)
	return out, nil
}
