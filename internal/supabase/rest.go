package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"scraper-dashboard/internal/domain"
	"scraper-dashboard/internal/store"

	"go.uber.org/zap"
)

// Execute runs q against the PostgREST endpoint; ranges travel in the Range header.
func (c *Client) Execute(ctx context.Context, q store.Query) ([]domain.Record, error) {
	if q.Table == "" {
		return nil, fmt.Errorf("supabase: table required")
	}
	columns := q.Columns
	if columns == "" {
		columns = "*"
	}
	path := "/rest/v1/" + url.PathEscape(q.Table) + "?select=" + url.QueryEscape(columns)

	req, err := c.newRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	if q.Ranged {
		req.Header.Set("Range-Unit", "items")
		req.Header.Set("Range", fmt.Sprintf("%d-%d", q.From, q.To))
	}

	var rows []map[string]any
	if err := c.do(req, &rows); err != nil {
		return nil, err
	}

	out := make([]domain.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Record(r))
	}
	c.logger.Debug("supabase: executed", zap.String("query", q.String()), zap.Int("count", len(out)))
	return out, nil
}

var _ store.Executor = (*Client)(nil)
