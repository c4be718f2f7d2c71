package seed

import (
	"context"
	"errors"
	"fmt"

	"scraper-dashboard/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, p domain.Product) (int64, error)
}

type UserCreator interface {
	CreateUser(ctx context.Context, email, password string) (*domain.User, error)
}

// Admin is the dashboard account created by Apply.
type Admin struct {
	Email    string
	Password string
}

var demoProducts = []domain.Record{
	{
		"name":        "Álbum Copa Mundial 2026 Tapa Dura",
		"marketplace": "MercadoLibre",
		"price":       "$14.990",
		"in_stock":    true,
		"product_url": "https://example.com/mercadolibre/album-tapa-dura",
		"scraped_at":  "2026-01-05T09:30:00Z",
	},
	{
		"name":        "Sobres Copa Mundial 2026 x50",
		"marketplace": "Falabella",
		"price":       "$39.950",
		"in_stock":    true,
		"product_url": "https://example.com/falabella/sobres-x50",
		"scraped_at":  "2026-01-05T10:00:00Z",
	},
	{
		"name":        "Álbum Copa Mundial 2026 Tapa Blanda",
		"marketplace": "Ripley",
		"price":       "$6.990",
		"in_stock":    false,
		"product_url": "https://example.com/ripley/album-tapa-blanda",
		"scraped_at":  "2026-01-04T18:15:00Z",
	},
	{
		"name":        "Caja Display 104 Sobres",
		"marketplace": "MercadoLibre",
		"price":       nil,
		"in_stock":    false,
		"product_url": "https://example.com/mercadolibre/caja-display",
		"scraped_at":  nil,
	},
}

// Apply inserts demo products and the admin account for manual testing. It is idempotent.
func Apply(ctx context.Context, products ProductWriter, users UserCreator, admin Admin) error {
	for _, rec := range demoProducts {
		p := domain.ProductFromRecord(rec)
		if _, err := products.Upsert(ctx, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.ProductURL.OrElse(""), err)
		}
	}

	if admin.Email == "" {
		return nil
	}
	if _, err := users.CreateUser(ctx, admin.Email, admin.Password); err != nil && !errors.Is(err, domain.ErrAlreadyExists) {
		return fmt.Errorf("create admin %s: %w", admin.Email, err)
	}
	return nil
}
