package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"scraper-dashboard/internal/config"
	"scraper-dashboard/internal/db"
	"scraper-dashboard/internal/identity"
	"scraper-dashboard/internal/logging"
	productrepo "scraper-dashboard/internal/repository/product"
	tokenrepo "scraper-dashboard/internal/repository/token"
	userrepo "scraper-dashboard/internal/repository/user"
	"scraper-dashboard/internal/seed"

	"go.uber.org/zap"
)

func main() {
	cfg := config.FromEnv()

	var admin seed.Admin
	flag.StringVar(&admin.Email, "admin-email", cfg.SeedAdminEmail, "Dashboard admin email (skipped when empty)")
	flag.StringVar(&admin.Password, "admin-password", cfg.SeedAdminPassword, "Dashboard admin password")
	flag.Parse()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	logger = logger.Named("seed")

	if cfg.DBConnString == "" {
		logger.Fatal("DB_DSN must be set")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	products := productrepo.NewPostgres(pool, logger)
	users := identity.NewLocal(userrepo.NewPostgres(pool, logger), tokenrepo.NewPostgres(pool), nil, logger)
	if err := seed.Apply(ctx, products, users, admin); err != nil {
		logger.Fatal("seed apply", zap.Error(err))
	}

	total, err := products.Count(ctx)
	if err != nil {
		logger.Fatal("count products", zap.Error(err))
	}
	logger.Info("seed applied", zap.String("admin", admin.Email), zap.Int("products", total))
}
