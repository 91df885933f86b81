package threatintel

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Aggregate fetches every source concurrently and returns the union of their
// records. It fails as a whole when any single fetch fails; the remaining
// fetches are not cancelled but their results are dropped.
func (f *Fetcher) Aggregate(ctx context.Context, sources []FeedSource) (HashSet, error) {
	results := make([]HashSet, len(sources))

	var g errgroup.Group
	for i, src := range sources {
		g.Go(func() error {
			set, err := f.Fetch(ctx, src)
			if err != nil {
				return err
			}
			results[i] = set
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := NewHashSet()
	for _, set := range results {
		merged.Merge(set)
	}

	log.Debug().Int("sources", len(sources)).Int("records", merged.Len()).Msg("feeds aggregated")
	return merged, nil
}
