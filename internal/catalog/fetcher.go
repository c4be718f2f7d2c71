package catalog

import (
	"context"
	"fmt"

	"scraper-dashboard/internal/domain"
	"scraper-dashboard/internal/logging"
	"scraper-dashboard/internal/observability"
	"scraper-dashboard/internal/store"

	"go.uber.org/zap"
)

// DefaultPageSize matches the hosted store's default response cap.
const DefaultPageSize = 1000

// Fetcher reads whole tables by paging through range queries.
type Fetcher struct {
	store    store.Executor
	pageSize int
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewFetcher uses DefaultPageSize when pageSize is not positive.
func NewFetcher(exec store.Executor, pageSize int, metrics *observability.Metrics, logger *zap.Logger) *Fetcher {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Fetcher{
		store:    exec,
		pageSize: pageSize,
		metrics:  metrics,
		logger:   logging.OrNop(logger),
	}
}

// FetchAll returns every row of table in fetch order. It stops at the first empty page or at the
// first page shorter than the page size; a short page is kept. Query errors are returned as-is,
// discarding anything fetched so far.
func (f *Fetcher) FetchAll(ctx context.Context, table string) (domain.Collection, error) {
	var (
		all    []domain.Record
		offset int
		pages  int
	)
	for {
		rows, err := f.store.Execute(ctx, store.From(table).Select("*").Range(offset, offset+f.pageSize-1))
		if err != nil {
			f.logger.Error("catalog: fetch page failed", zap.String("table", table), zap.Int("offset", offset), zap.Error(err))
			return domain.Collection{}, fmt.Errorf("fetch %s at offset %d: %w", table, offset, err)
		}
		pages++
		f.logger.Debug("catalog: fetched page", zap.String("table", table), zap.Int("offset", offset), zap.Int("count", len(rows)))

		if len(rows) == 0 {
			break
		}
		all = append(all, rows...)
		if len(rows) < f.pageSize {
			break
		}
		offset += f.pageSize
	}

	f.metrics.AddRows(table, len(all))
	f.logger.Info("catalog: fetched table", zap.String("table", table), zap.Int("rows", len(all)), zap.Int("pages", pages))
	return domain.CollectionFromRecords(all), nil
}
