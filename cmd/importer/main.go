package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"scraper-dashboard/internal/config"
	"scraper-dashboard/internal/db"
	"scraper-dashboard/internal/importer"
	"scraper-dashboard/internal/logging"
	"scraper-dashboard/internal/repository/product"

	"go.uber.org/zap"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to scraped products CSV")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	logger = logger.Named("importer")

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatal("open file", zap.Error(err))
	}
	defer f.Close()

	repo := product.NewPostgres(pool, logger)
	imp := importer.NewCSVImporter(f, repo, logger)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		logger.Fatal("import failed", zap.Int("imported", count), zap.Error(err))
	}

	elapsed := time.Since(start).Truncate(time.Millisecond)

	total, err := repo.Count(ctx)
	if err != nil {
		logger.Fatal("count products", zap.Error(err))
	}
	fmt.Printf("Imported %d products in %s (%d in table)\n", count, elapsed, total)
}
