package store

import (
	"context"
	"errors"
	"testing"

	"scraper-dashboard/internal/domain"
	"scraper-dashboard/internal/observability"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestQueryBuilder(t *testing.T) {
	q := From("products").Range(1000, 1999)
	if q.Columns != "*" || !q.Ranged || q.Limit() != 1000 {
		t.Fatalf("unexpected query %+v", q)
	}
	if q.String() != "select * from products range 1000-1999" {
		t.Fatalf("unexpected string %q", q.String())
	}
	if From("products").Limit() != 0 {
		t.Fatalf("expected unranged query to have no limit")
	}
}

func TestBuildSQL(t *testing.T) {
	sql, args, err := buildSQL(From("products").Range(0, 999))
	if err != nil {
		t.Fatalf("build sql: %v", err)
	}
	if sql != `SELECT to_jsonb(t) FROM "products" t ORDER BY t.ctid LIMIT $1 OFFSET $2` {
		t.Fatalf("unexpected sql %s", sql)
	}
	if len(args) != 2 || args[0] != 1000 || args[1] != 0 {
		t.Fatalf("unexpected args %v", args)
	}

	sql, args, err = buildSQL(From("products").Select("name, price"))
	if err != nil {
		t.Fatalf("build sql: %v", err)
	}
	if sql != `SELECT to_jsonb(s) FROM "products" t CROSS JOIN LATERAL (SELECT t."name", t."price") s` || len(args) != 0 {
		t.Fatalf("unexpected sql %s args %v", sql, args)
	}

	sql, args, err = buildSQL(From("products").Select("name").Range(1000, 1999))
	if err != nil {
		t.Fatalf("build sql: %v", err)
	}
	want := `SELECT to_jsonb(s) FROM "products" t CROSS JOIN LATERAL (SELECT t."name") s ORDER BY t.ctid LIMIT $1 OFFSET $2`
	if sql != want || len(args) != 2 || args[0] != 1000 || args[1] != 1000 {
		t.Fatalf("unexpected sql %s args %v", sql, args)
	}

	if _, _, err := buildSQL(From(" ")); err == nil {
		t.Fatalf("expected error for empty table")
	}
}

type stubExecutor struct {
	rows []domain.Record
	err  error
}

func (s *stubExecutor) Execute(_ context.Context, _ Query) ([]domain.Record, error) {
	return s.rows, s.err
}

func TestInstrument_CountsOutcomes(t *testing.T) {
	m := observability.New(prometheus.NewRegistry())
	ok := Instrument(&stubExecutor{rows: []domain.Record{{"name": "a"}}}, m)
	bad := Instrument(&stubExecutor{err: errors.New("boom")}, m)

	if _, err := ok.Execute(context.Background(), From("products")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := bad.Execute(context.Background(), From("products")); err == nil {
		t.Fatalf("expected error to propagate")
	}

	if got := testutil.ToFloat64(m.StoreQueries.WithLabelValues("products", "ok")); got != 1 {
		t.Fatalf("expected 1 ok query, got %v", got)
	}
	if got := testutil.ToFloat64(m.StoreQueries.WithLabelValues("products", "error")); got != 1 {
		t.Fatalf("expected 1 failed query, got %v", got)
	}
}

func TestInstrument_NilMetricsReturnsNext(t *testing.T) {
	next := &stubExecutor{}
	if Instrument(next, nil) != Executor(next) {
		t.Fatalf("expected executor unchanged without metrics")
	}
}
