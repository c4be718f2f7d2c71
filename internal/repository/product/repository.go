package product

import (
	"context"
	"errors"

	"scraper-dashboard/internal/domain"
)

// ErrMissingURL is returned when a product has no product_url to key on.
var ErrMissingURL = errors.New("product_url required")

// Repository writes scraped products into the products table.
type Repository interface {
	Upsert(ctx context.Context, p domain.Product) (int64, error)
	Count(ctx context.Context) (int, error)
}
