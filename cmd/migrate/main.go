package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"scraper-dashboard/internal/config"
	"scraper-dashboard/internal/db"
	"scraper-dashboard/internal/logging"
	"scraper-dashboard/internal/migrate"

	"go.uber.org/zap"
)

func main() {
	down := flag.Bool("down", false, "Roll back the latest migration instead of applying")
	flag.Parse()

	cfg := config.FromEnv()
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	logger = logger.Named("migrate")

	if cfg.DBConnString == "" {
		logger.Fatal("DB_DSN must be set")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	if *down {
		if err := migrate.Rollback(ctx, pool); err != nil {
			logger.Fatal("rollback migration", zap.Error(err))
		}
	} else if err := migrate.Apply(ctx, pool); err != nil {
		logger.Fatal("apply migrations", zap.Error(err))
	}

	version, dirty, err := migrate.Version(ctx, pool)
	if err != nil {
		logger.Fatal("read schema version", zap.Error(err))
	}
	logger.Info("migrations done", zap.Uint("version", version), zap.Bool("dirty", dirty))
}
