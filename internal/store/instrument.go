package store

import (
	"context"
	"time"

	"scraper-dashboard/internal/domain"
	"scraper-dashboard/internal/observability"
)

type instrumented struct {
	next    Executor
	metrics *observability.Metrics
}

// Instrument records count and latency of every query executed through next.
func Instrument(next Executor, metrics *observability.Metrics) Executor {
	if metrics == nil {
		return next
	}
	return &instrumented{next: next, metrics: metrics}
}

func (i *instrumented) Execute(ctx context.Context, q Query) ([]domain.Record, error) {
	start := time.Now()
	rows, err := i.next.Execute(ctx, q)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	i.metrics.ObserveQuery(q.Table, outcome, time.Since(start).Seconds())
	return rows, err
}
