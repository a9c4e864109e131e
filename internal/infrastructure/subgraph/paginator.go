package subgraph

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bimakw/dex-volume-checker/internal/domain/entities"
)

// DefaultPageSize is the largest page the indexing service serves per request
const DefaultPageSize = 1000

// Paginator drives one logical query against one endpoint to exhaustion
type Paginator struct {
	client   *Client
	pageSize int
	logger   *zap.Logger
}

// NewPaginator creates a paginator; non-positive page sizes fall back to DefaultPageSize
func NewPaginator(client *Client, pageSize int, logger *zap.Logger) *Paginator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Paginator{
		client:   client,
		pageSize: pageSize,
		logger:   logger,
	}
}

// FetchAll requests successive pages until one comes back shorter than the page size.
// Records are returned in source order. Any failed page aborts the whole query.
func (p *Paginator) FetchAll(ctx context.Context, kind QueryKind, filter SwapFilter) ([]entities.SwapRecord, error) {
	query := kind.Query()
	records := make([]entities.SwapRecord, 0)

	for offset := 0; ; offset += p.pageSize {
		page, err := p.fetchPage(ctx, kind, query, filter, offset)
		if err != nil {
			return nil, err
		}

		records = append(records, page...)

		if len(page) < p.pageSize {
			return records, nil
		}
	}
}

func (p *Paginator) fetchPage(ctx context.Context, kind QueryKind, query string, filter SwapFilter, offset int) ([]entities.SwapRecord, error) {
	start := time.Now()
	raws, err := p.client.QuerySwaps(ctx, query, filter.variables(p.pageSize, offset))
	requestDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())

	if err == nil {
		var records []entities.SwapRecord
		records, err = parseSwaps(raws)
		if err == nil {
			requestsTotal.WithLabelValues(p.client.Endpoint(), string(kind), "ok").Inc()
			recordsFetched.WithLabelValues(string(kind)).Add(float64(len(records)))

			p.logger.Debug("Fetched page",
				zap.String("endpoint", p.client.Endpoint()),
				zap.String("query", string(kind)),
				zap.Int("offset", offset),
				zap.Int("rows", len(records)),
			)
			return records, nil
		}
	}

	requestsTotal.WithLabelValues(p.client.Endpoint(), string(kind), "error").Inc()
	return nil, &RequestError{
		Endpoint: p.client.Endpoint(),
		Query:    kind,
		Offset:   offset,
		Err:      err,
	}
}
