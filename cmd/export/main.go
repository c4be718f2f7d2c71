package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"scraper-dashboard/internal/backend"
	"scraper-dashboard/internal/catalog"
	"scraper-dashboard/internal/config"
	"scraper-dashboard/internal/logging"

	"go.uber.org/zap"
)

func main() {
	var (
		outPath     string
		search      string
		marketplace string
		stock       string
	)
	flag.StringVar(&outPath, "out", "", "Output CSV file (stdout when empty)")
	flag.StringVar(&search, "q", "", "Search product names (all words must match)")
	flag.StringVar(&marketplace, "marketplace", catalog.AllMarketplaces, "Marketplace filter")
	flag.StringVar(&stock, "stock", "all", "Stock filter: all, in, out")
	flag.Parse()

	cfg := config.FromEnv()
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	logger = logger.Named("export")

	ctx := context.Background()
	be, err := backend.Open(ctx, cfg, nil, logger)
	if err != nil {
		logger.Fatal("open backend", zap.Error(err))
	}
	defer be.Close()

	col, err := catalog.NewFetcher(be.Executor, catalog.DefaultPageSize, nil, logger).FetchAll(ctx, cfg.ProductsTable)
	if err != nil {
		logger.Fatal("fetch products", zap.Error(err))
	}
	filtered := catalog.Apply(col, catalog.Criteria{
		Marketplace: marketplace,
		Stock:       catalog.ParseStockFilter(stock),
		Search:      search,
	})

	var w io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			logger.Fatal("create output", zap.Error(err))
		}
		defer f.Close()
		w = f
	}
	if err := catalog.WriteCSV(w, filtered); err != nil {
		logger.Fatal("write csv", zap.Error(err))
	}
	logger.Info("exported products", zap.Int("count", filtered.Len()), zap.Int("total", col.Len()))
}
