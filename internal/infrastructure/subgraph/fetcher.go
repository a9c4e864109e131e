package subgraph

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bimakw/dex-volume-checker/internal/config"
	"github.com/bimakw/dex-volume-checker/internal/domain/entities"
)

// Fetcher runs the origin, sender and recipient queries against a prioritized
// list of endpoints and returns the results of the first endpoint that completes all three
type Fetcher struct {
	config config.SubgraphConfig
	logger *zap.Logger
}

// NewFetcher creates a new endpoint-fallback fetcher
func NewFetcher(cfg config.SubgraphConfig, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		config: cfg,
		logger: logger,
	}
}

// FetchSwaps returns the three raw result sets and the endpoint that produced them
func (f *Fetcher) FetchSwaps(ctx context.Context, addresses []string, start, end int64) (*entities.SwapSets, error) {
	filter := SwapFilter{
		Addresses: addresses,
		Start:     start,
		End:       end,
	}

	lastErr := errNoEndpoints
	for i, endpoint := range f.config.Endpoints {
		// Caller cancellation is not an endpoint failure
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		f.logger.Debug("Trying endpoint",
			zap.String("endpoint", endpoint),
			zap.Int("priority", i),
		)

		sets, err := f.fetchFromEndpoint(ctx, endpoint, filter)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			lastErr = &EndpointError{Endpoint: endpoint, Err: err}
			endpointFailures.WithLabelValues(endpoint).Inc()

			f.logger.Warn("Endpoint failed, falling back",
				zap.String("endpoint", endpoint),
				zap.Int("priority", i),
				zap.Error(err),
			)
			continue
		}

		f.logger.Info("Fetched swaps",
			zap.String("endpoint", endpoint),
			zap.Int("by_origin", len(sets.ByOrigin)),
			zap.Int("by_sender", len(sets.BySender)),
			zap.Int("by_recipient", len(sets.ByRecipient)),
		)
		return sets, nil
	}

	return nil, &AllEndpointsFailedError{
		Tried: len(f.config.Endpoints),
		Last:  lastErr,
	}
}

// fetchFromEndpoint is all-or-nothing: any failed query discards the other two
func (f *Fetcher) fetchFromEndpoint(ctx context.Context, endpoint string, filter SwapFilter) (*entities.SwapSets, error) {
	client := NewClient(endpoint, f.config.RequestTimeout, f.logger)
	paginator := NewPaginator(client, f.config.PageSize, f.logger)

	results := make([][]entities.SwapRecord, len(AllQueryKinds))

	if f.config.ParallelQueries {
		g, gCtx := errgroup.WithContext(ctx)
		for i, kind := range AllQueryKinds {
			i, kind := i, kind
			g.Go(func() error {
				records, err := paginator.FetchAll(gCtx, kind, filter)
				if err != nil {
					return err
				}
				results[i] = records
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, kind := range AllQueryKinds {
			records, err := paginator.FetchAll(ctx, kind, filter)
			if err != nil {
				return nil, err
			}
			results[i] = records
		}
	}

	return &entities.SwapSets{
		Endpoint:    endpoint,
		ByOrigin:    results[0],
		BySender:    results[1],
		ByRecipient: results[2],
	}, nil
}
