package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"scraper-dashboard/internal/domain"
	"scraper-dashboard/internal/logging"

	"go.uber.org/zap"
)

type ProductWriter interface {
	Upsert(ctx context.Context, p domain.Product) (int64, error)
}

// CSVImporter reads scraper CSV exports (one product per row, headers named after
// product columns) and upserts them by product_url.
type CSVImporter struct {
	reader *csv.Reader
	repo   ProductWriter
	logger *zap.Logger
}

func NewCSVImporter(r io.Reader, repo ProductWriter, logger *zap.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader: csvr,
		repo:   repo,
		logger: logging.OrNop(logger),
	}
}

// Run upserts every row and returns the number of products written.
// Blank lines are skipped; a row without product_url aborts the import.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index[domain.ColumnProductURL]; !ok {
		return 0, fmt.Errorf("missing %q column", domain.ColumnProductURL)
	}

	imported := 0
	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return imported, fmt.Errorf("read row %d: %w", line, err)
		}

		rec := parseRow(record, headers)
		if rec == nil {
			continue
		}
		p := domain.ProductFromRecord(rec)
		if !p.ProductURL.IsPresent() {
			return imported, fmt.Errorf("invalid product row %d (missing product_url)", line)
		}
		if _, err := i.repo.Upsert(ctx, p); err != nil {
			return imported, fmt.Errorf("upsert product %q: %w", p.ProductURL.OrElse(""), err)
		}
		imported++
	}

	i.logger.Info("importer: done", zap.Int("count", imported))
	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

// parseRow maps cells to columns; empty cells become null. A row with no values returns nil.
func parseRow(record []string, headers []string) domain.Record {
	rec := make(domain.Record, len(headers))
	empty := true
	for i, h := range headers {
		v := pick(record, i)
		if v == "" {
			rec[strings.TrimSpace(h)] = nil
			continue
		}
		rec[strings.TrimSpace(h)] = v
		empty = false
	}
	if empty {
		return nil
	}
	return rec
}

func pick(record []string, pos int) string {
	if pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
