package catalog

import (
	"sort"
	"strings"

	"scraper-dashboard/internal/domain"
)

// Matches reports whether every whitespace-separated token of query occurs in name, ignoring case.
// An absent name never matches; an empty query matches any present name.
func Matches(name domain.Optional[string], query string) bool {
	n, ok := name.Get()
	if !ok {
		return false
	}
	n = strings.ToLower(n)
	for _, token := range strings.Fields(strings.ToLower(query)) {
		if !strings.Contains(n, token) {
			return false
		}
	}
	return true
}

// FilterByName keeps the products whose name matches query.
func FilterByName(c domain.Collection, query string) domain.Collection {
	return c.Filter(func(p domain.Product) bool {
		return Matches(p.Name, query)
	})
}

type StockFilter string

const (
	StockAll        StockFilter = "all"
	StockInStock    StockFilter = "in"
	StockOutOfStock StockFilter = "out"
)

// ParseStockFilter accepts "in", "in_stock", "out", "out_of_stock" and the UI labels; anything else is StockAll.
func ParseStockFilter(s string) StockFilter {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in", "in_stock", "in stock", "true":
		return StockInStock
	case "out", "out_of_stock", "out of stock", "false":
		return StockOutOfStock
	}
	return StockAll
}

// AllMarketplaces disables the marketplace filter.
const AllMarketplaces = "All"

// Criteria combines the product page filters.
type Criteria struct {
	Marketplace string
	Stock       StockFilter
	Search      string
}

// Apply filters c by marketplace, then stock status, then name search. Order is preserved.
func Apply(c domain.Collection, cr Criteria) domain.Collection {
	marketplace := strings.TrimSpace(cr.Marketplace)
	filterMarket := marketplace != "" && marketplace != AllMarketplaces
	search := strings.TrimSpace(cr.Search)

	return c.Filter(func(p domain.Product) bool {
		if filterMarket {
			if m, ok := p.Marketplace.Get(); !ok || m != marketplace {
				return false
			}
		}
		switch cr.Stock {
		case StockInStock, StockOutOfStock:
			in, ok := p.InStock.Get()
			if !ok || in != (cr.Stock == StockInStock) {
				return false
			}
		}
		if search != "" && !Matches(p.Name, search) {
			return false
		}
		return true
	})
}

// Marketplaces returns the distinct present marketplaces, sorted.
func Marketplaces(c domain.Collection) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range c.Rows() {
		m, ok := p.Marketplace.Get()
		if !ok {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
