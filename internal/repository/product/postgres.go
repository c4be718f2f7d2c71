package product

import (
	"context"
	"strings"

	"scraper-dashboard/internal/domain"
	"scraper-dashboard/internal/logging"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrNop(logger)}
}

// Upsert inserts p or updates the row with the same product_url. Absent fields are stored as NULL.
func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (int64, error) {
	url := strings.TrimSpace(p.ProductURL.OrElse(""))
	if url == "" {
		return 0, ErrMissingURL
	}
	const q = `
INSERT INTO products (name, marketplace, price, in_stock, product_url, image_url, scraped_at)
VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7::text, '')::timestamptz)
ON CONFLICT (product_url) DO UPDATE SET
    name = EXCLUDED.name,
    marketplace = EXCLUDED.marketplace,
    price = EXCLUDED.price,
    in_stock = EXCLUDED.in_stock,
    image_url = EXCLUDED.image_url,
    scraped_at = EXCLUDED.scraped_at
RETURNING id
`
	var id int64
	err := r.pool.QueryRow(ctx, q,
		p.Name.Ptr(),
		p.Marketplace.Ptr(),
		p.Price.Ptr(),
		p.InStock.Ptr(),
		url,
		p.ImageURL.Ptr(),
		p.ScrapedAt.Ptr(),
	).Scan(&id)
	if err != nil {
		r.logger.Error("product repo: upsert", zap.String("product_url", url), zap.Error(err))
		return 0, err
	}
	return id, nil
}

func (r *postgresRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
