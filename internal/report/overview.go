package report

import (
	"sort"

	"scraper-dashboard/internal/catalog"
	"scraper-dashboard/internal/domain"
)

const (
	StatusInStock    = "In Stock"
	StatusOutOfStock = "Out of Stock"
)

type Metrics struct {
	TotalProducts int     `json:"totalProducts"`
	InStock       int     `json:"inStock"`
	Marketplaces  int     `json:"marketplaces"`
	AvgPrice      float64 `json:"avgPrice"`
}

type MarketplaceCount struct {
	Marketplace string `json:"marketplace"`
	Count       int    `json:"count"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// Overview is the home page summary.
type Overview struct {
	Metrics       Metrics            `json:"metrics"`
	ByMarketplace []MarketplaceCount `json:"byMarketplace"`
	Stock         []StatusCount      `json:"stock"`
	Recent        []domain.Product   `json:"-"`
}

// BuildOverview summarises c; recentLimit bounds the most recently scraped list.
func BuildOverview(c domain.Collection, recentLimit int) Overview {
	rows := c.Rows()
	return Overview{
		Metrics: Metrics{
			TotalProducts: len(rows),
			InStock:       countInStock(rows),
			Marketplaces:  len(catalog.Marketplaces(c)),
			AvgPrice:      averagePrice(rows),
		},
		ByMarketplace: countByMarketplace(rows),
		Stock:         stockDistribution(rows),
		Recent:        MostRecent(c, recentLimit),
	}
}

// MostRecent returns up to limit products by descending scraped_at; products without a timestamp sort last.
func MostRecent(c domain.Collection, limit int) []domain.Product {
	if !c.HasColumn(domain.ColumnScrapedAt) {
		return nil
	}
	rows := c.Rows()
	sort.SliceStable(rows, func(i, j int) bool {
		a, aok := rows[i].ScrapedAt.Get()
		b, bok := rows[j].ScrapedAt.Get()
		if aok != bok {
			return aok
		}
		return a > b
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

func countInStock(rows []domain.Product) int {
	n := 0
	for _, p := range rows {
		if p.InStock.OrElse(false) {
			n++
		}
	}
	return n
}

// averagePrice ignores products whose price field is absent.
func averagePrice(rows []domain.Product) float64 {
	var sum int64
	var n int
	for _, p := range rows {
		if !p.Price.IsPresent() {
			continue
		}
		sum += catalog.PriceOf(p)
		n++
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func countByMarketplace(rows []domain.Product) []MarketplaceCount {
	counts := make(map[string]int)
	for _, p := range rows {
		if m, ok := p.Marketplace.Get(); ok {
			counts[m]++
		}
	}
	out := make([]MarketplaceCount, 0, len(counts))
	for m, n := range counts {
		out = append(out, MarketplaceCount{Marketplace: m, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Marketplace < out[j].Marketplace
	})
	return out
}

func stockDistribution(rows []domain.Product) []StatusCount {
	var in, out int
	for _, p := range rows {
		v, ok := p.InStock.Get()
		if !ok {
			continue
		}
		if v {
			in++
		} else {
			out++
		}
	}
	var res []StatusCount
	if in > 0 {
		res = append(res, StatusCount{Status: StatusInStock, Count: in})
	}
	if out > 0 {
		res = append(res, StatusCount{Status: StatusOutOfStock, Count: out})
	}
	return res
}
