package store

import (
	"context"
	"fmt"

	"scraper-dashboard/internal/domain"
)

// Query selects columns from a table, optionally bounded to an inclusive row range.
type Query struct {
	Table   string
	Columns string
	From    int
	To      int
	Ranged  bool
}

// From starts a query that selects all columns of table.
func From(table string) Query {
	return Query{Table: table, Columns: "*"}
}

// Select sets the column list; "*" selects everything.
func (q Query) Select(columns string) Query {
	q.Columns = columns
	return q
}

// Range bounds the query to rows [from, to], both inclusive and zero-based.
func (q Query) Range(from, to int) Query {
	q.From = from
	q.To = to
	q.Ranged = true
	return q
}

// Limit is the number of rows the range covers.
func (q Query) Limit() int {
	if !q.Ranged || q.To < q.From {
		return 0
	}
	return q.To - q.From + 1
}

func (q Query) String() string {
	if q.Ranged {
		return fmt.Sprintf("select %s from %s range %d-%d", q.Columns, q.Table, q.From, q.To)
	}
	return fmt.Sprintf("select %s from %s", q.Columns, q.Table)
}

// Executor runs a query synchronously and returns the matching rows.
type Executor interface {
	Execute(ctx context.Context, q Query) ([]domain.Record, error)
}
