package quotes

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
)

var simulatedSuppliers = []struct {
	id     string
	region string
}{
	{"supplier-apex", "US"},
	{"supplier-borealis", "CA"},
	{"supplier-cascade", "US"},
	{"supplier-dynamo", "EU"},
	{"supplier-eastgate", "APAC"},
}

// SimulatedSource produces deterministic synthetic quotes keyed off the
// product ID, so repeated calls for the same product agree and tests can
// assert exact values.
type SimulatedSource struct{}

// NewSimulatedSource builds the synthetic quote source.
func NewSimulatedSource() *SimulatedSource {
	return &SimulatedSource{}
}

// GetQuotes returns between two and five supplier quotes for the product.
func (s *SimulatedSource) GetQuotes(ctx context.Context, productID string) ([]SupplierQuote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seed := hashString(productID)
	base := basePrice(seed)
	count := 2 + int(seed%4)

	result := make([]SupplierQuote, 0, count)
	for i := 0; i < count; i++ {
		supplier := simulatedSuppliers[i%len(simulatedSuppliers)]
		spread := float64((seed>>(uint(i)*3))%2000) / 100.0
		price := round2(base + spread)
		shipping := round2(2.0 + float64((seed>>(uint(i)*2))%700)/100.0)
		inStock := (seed>>(uint(i)+1))%4 != 0

		result = append(result, SupplierQuote{
			SupplierID:   fmt.Sprintf("%s-%d", supplier.id, i+1),
			Price:        price,
			ShippingCost: shipping,
			InStock:      inStock,
			Region:       supplier.region,
		})
	}
	return result, nil
}

func basePrice(seed uint64) float64 {
	// keep simulated catalog prices in a believable 5..205 range
	return 5.0 + float64(seed%20000)/100.0
}

func hashString(value string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(value))
	return h.Sum64()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
