package store

import (
	"context"
	"fmt"
	"strings"

	"scraper-dashboard/internal/domain"
	"scraper-dashboard/internal/logging"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Postgres executes queries directly against a Postgres database, returning each row as a JSON object.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) *Postgres {
	return &Postgres{pool: pool, logger: logging.OrNop(logger)}
}

func (p *Postgres) Execute(ctx context.Context, q Query) ([]domain.Record, error) {
	sql, args, err := buildSQL(q)
	if err != nil {
		return nil, err
	}

	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		p.logger.Error("postgres store: query failed", zap.String("table", q.Table), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.Record
	for rows.Next() {
		var rec map[string]any
		if err := rows.Scan(&rec); err != nil {
			return nil, err
		}
		result = append(result, domain.Record(rec))
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("postgres store: rows failed", zap.String("table", q.Table), zap.Error(err))
		return nil, err
	}
	p.logger.Debug("postgres store: executed", zap.String("query", q.String()), zap.Int("count", len(result)))
	return result, nil
}

// buildSQL renders q as a single query returning one JSON object per row.
// Ranged pages are ordered by ctid so consecutive offsets walk the table once.
func buildSQL(q Query) (string, []any, error) {
	if strings.TrimSpace(q.Table) == "" {
		return "", nil, fmt.Errorf("postgres store: table required")
	}
	table := pgx.Identifier{q.Table}.Sanitize()

	sql := fmt.Sprintf("SELECT to_jsonb(t) FROM %s t", table)
	if cols := strings.TrimSpace(q.Columns); cols != "" && cols != "*" {
		var ids []string
		for _, c := range strings.Split(cols, ",") {
			if c = strings.TrimSpace(c); c != "" {
				ids = append(ids, "t."+pgx.Identifier{c}.Sanitize())
			}
		}
		sql = fmt.Sprintf("SELECT to_jsonb(s) FROM %s t CROSS JOIN LATERAL (SELECT %s) s", table, strings.Join(ids, ", "))
	}

	if !q.Ranged {
		return sql, nil, nil
	}
	return sql + " ORDER BY t.ctid LIMIT $1 OFFSET $2", []any{q.Limit(), q.From}, nil
}
