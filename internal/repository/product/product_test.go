package product

import (
	"context"
	"os"
	"testing"

	"scraper-dashboard/internal/catalog"
	"scraper-dashboard/internal/domain"
	"scraper-dashboard/internal/migrate"
	"scraper-dashboard/internal/store"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestPostgres_UpsertAndFetch(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool, nil)

	first := domain.ProductFromRecord(domain.Record{
		"name":        "Album Mundial",
		"marketplace": "MercadoLibre",
		"price":       "$12.990",
		"in_stock":    true,
		"product_url": "https://example.com/album",
		"scraped_at":  "2026-01-02T10:00:00Z",
	})
	id, err := repo.Upsert(ctx, first)
	if err != nil {
		t.Fatalf("Upsert insert: %v", err)
	}

	second := domain.ProductFromRecord(domain.Record{
		"name":        "Album Mundial",
		"marketplace": "MercadoLibre",
		"price":       nil,
		"in_stock":    false,
		"product_url": "https://example.com/album",
	})
	again, err := repo.Upsert(ctx, second)
	if err != nil {
		t.Fatalf("Upsert update: %v", err)
	}
	if again != id {
		t.Fatalf("expected same id after update, got %d and %d", id, again)
	}

	if _, err := repo.Upsert(ctx, domain.ProductFromRecord(domain.Record{"name": "no url"})); err != ErrMissingURL {
		t.Fatalf("expected ErrMissingURL, got %v", err)
	}

	n, err := repo.Count(ctx)
	if err != nil || n != 1 {
		t.Fatalf("Count = %d, %v", n, err)
	}

	col, err := catalog.NewFetcher(store.NewPostgres(pool, nil), 10, nil, nil).FetchAll(ctx, "products")
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if col.Len() != 1 {
		t.Fatalf("expected 1 product, got %d", col.Len())
	}
	p := col.Rows()[0]
	if p.Price.IsPresent() || p.InStock.OrElse(true) || p.ScrapedAt.IsPresent() {
		t.Fatalf("unexpected product %+v", p)
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE auth_tokens, dashboard_users, products RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}
