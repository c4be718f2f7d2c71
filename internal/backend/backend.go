package backend

import (
	"context"
	"fmt"

	"scraper-dashboard/internal/config"
	"scraper-dashboard/internal/db"
	"scraper-dashboard/internal/identity"
	"scraper-dashboard/internal/logging"
	"scraper-dashboard/internal/observability"
	tokenrepo "scraper-dashboard/internal/repository/token"
	userrepo "scraper-dashboard/internal/repository/user"
	"scraper-dashboard/internal/store"
	"scraper-dashboard/internal/supabase"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Backend is the process-wide store client and identity provider, created once at startup.
type Backend struct {
	Executor store.Executor
	Identity identity.Provider
	// Pool is nil for the supabase backend.
	Pool *pgxpool.Pool
}

// Open builds the backend selected by cfg.Backend. Query metrics are recorded when metrics is non-nil.
func Open(ctx context.Context, cfg config.Config, metrics *observability.Metrics, logger *zap.Logger) (*Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger = logging.OrNop(logger)

	switch cfg.Backend {
	case config.BackendPostgres:
		pool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			return nil, fmt.Errorf("connect db: %w", err)
		}
		local := identity.NewLocal(
			userrepo.NewPostgres(pool, logger),
			tokenrepo.NewPostgres(pool),
			identity.NewLogMailer(logger),
			logger,
		)
		return &Backend{
			Executor: store.Instrument(store.NewPostgres(pool, logger), metrics),
			Identity: local,
			Pool:     pool,
		}, nil
	default:
		client, err := supabase.New(cfg.StoreURL, cfg.StoreKey, supabase.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		return &Backend{
			Executor: store.Instrument(client, metrics),
			Identity: client.Auth(),
		}, nil
	}
}

// Ping checks the database for the postgres backend.
func (b *Backend) Ping(ctx context.Context) error {
	if b.Pool == nil {
		return nil
	}
	return b.Pool.Ping(ctx)
}

func (b *Backend) Close() {
	if b.Pool != nil {
		b.Pool.Close()
	}
}
