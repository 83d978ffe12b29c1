package arbitrage

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
)

// batchConcurrency caps how many vehicles are scored at once.
const batchConcurrency = 8

// ScoreBatch analyzes vehicles concurrently and returns one analysis per
// input, sorted by descending score. Ties keep input order.
func (s *Scorer) ScoreBatch(ctx context.Context, vehicles []Vehicle) ([]Analysis, error) {
	if len(vehicles) == 0 {
		return []Analysis{}, nil
	}

	analyses := make([]Analysis, len(vehicles))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(batchConcurrency)

	for i := range vehicles {
		i := i
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			analysis, err := s.ScoreVehicle(vehicles[i])
			if err != nil {
				return err
			}
			analyses[i] = *analysis
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(analyses, func(i, j int) bool {
		return analyses[i].ArbitrageScore > analyses[j].ArbitrageScore
	})
	return analyses, nil
}
