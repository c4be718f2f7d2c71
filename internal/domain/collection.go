package domain

import "sort"

// Collection is an ordered, immutable set of products with the union of their columns.
type Collection struct {
	rows    []Product
	columns []string
}

// NewCollection keeps rows in the given order.
func NewCollection(rows []Product) Collection {
	if len(rows) == 0 {
		return Collection{}
	}
	cp := make([]Product, len(rows))
	copy(cp, rows)
	return Collection{rows: cp, columns: unionColumns(cp)}
}

// CollectionFromRecords decodes every record into a Product.
func CollectionFromRecords(records []Record) Collection {
	rows := make([]Product, 0, len(records))
	for _, r := range records {
		rows = append(rows, ProductFromRecord(r))
	}
	return NewCollection(rows)
}

func (c Collection) Len() int {
	return len(c.rows)
}

// Rows returns a copy of the products.
func (c Collection) Rows() []Product {
	out := make([]Product, len(c.rows))
	copy(out, c.rows)
	return out
}

// Columns returns well-known product columns first, then any other columns sorted by name.
func (c Collection) Columns() []string {
	out := make([]string, len(c.columns))
	copy(out, c.columns)
	return out
}

func (c Collection) HasColumn(name string) bool {
	for _, col := range c.columns {
		if col == name {
			return true
		}
	}
	return false
}

// Filter returns the products for which keep is true, in their original order.
// The result keeps every column of c, even when no surviving row carries it or no row survives.
func (c Collection) Filter(keep func(Product) bool) Collection {
	var out []Product
	for _, p := range c.rows {
		if keep(p) {
			out = append(out, p)
		}
	}
	return newCollectionWithColumns(out, c.columns)
}

func newCollectionWithColumns(rows []Product, columns []string) Collection {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return Collection{rows: rows, columns: cols}
}

func unionColumns(rows []Product) []string {
	seen := make(map[string]struct{})
	for _, p := range rows {
		for k := range p.raw {
			seen[k] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for _, k := range knownColumns {
		if _, ok := seen[k]; ok {
			cols = append(cols, k)
			delete(seen, k)
		}
	}
	rest := make([]string, 0, len(seen))
	for k := range seen {
		rest = append(rest, k)
	}
	sort.Strings(rest)
	return append(cols, rest...)
}
