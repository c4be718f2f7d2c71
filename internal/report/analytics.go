package report

import (
	"sort"

	"scraper-dashboard/internal/catalog"
	"scraper-dashboard/internal/domain"
)

// DefaultHistogramBins matches the analytics page's price distribution.
const DefaultHistogramBins = 30

type MarketplaceStock struct {
	Marketplace string `json:"marketplace"`
	Status      string `json:"status"`
	Count       int    `json:"count"`
}

type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

type MarketplacePrice struct {
	Marketplace  string  `json:"marketplace"`
	AveragePrice float64 `json:"averagePrice"`
}

// ComparisonRow has nil prices when the marketplace has no priced products.
type ComparisonRow struct {
	Marketplace   string   `json:"marketplace"`
	TotalProducts int      `json:"totalProducts"`
	InStock       int      `json:"inStock"`
	AvgPrice      *float64 `json:"avgPrice"`
	MinPrice      *int64   `json:"minPrice"`
	MaxPrice      *int64   `json:"maxPrice"`
}

type Summary struct {
	TotalProducts     int    `json:"totalProducts"`
	TotalMarketplaces int    `json:"totalMarketplaces"`
	HighestPrice      *int64 `json:"highestPrice"`
	LowestPrice       *int64 `json:"lowestPrice"`
}

type Analytics struct {
	ProductsPerMarketplace []MarketplaceCount `json:"productsPerMarketplace"`
	StockByMarketplace     []MarketplaceStock `json:"stockByMarketplace"`
	PriceHistogram         []Bin              `json:"priceHistogram"`
	AvgPriceByMarketplace  []MarketplacePrice `json:"avgPriceByMarketplace"`
	Comparison             []ComparisonRow    `json:"comparison"`
	Summary                Summary            `json:"summary"`
}

type priceStats struct {
	total    int
	inStock  int
	priced   int
	sum      int64
	min, max int64
}

func (s *priceStats) add(p domain.Product) {
	s.total++
	if p.InStock.OrElse(false) {
		s.inStock++
	}
	if !p.Price.IsPresent() {
		return
	}
	v := catalog.PriceOf(p)
	if s.priced == 0 || v < s.min {
		s.min = v
	}
	if s.priced == 0 || v > s.max {
		s.max = v
	}
	s.priced++
	s.sum += v
}

func (s *priceStats) avg() (float64, bool) {
	if s.priced == 0 {
		return 0, false
	}
	return float64(s.sum) / float64(s.priced), true
}

// BuildAnalytics computes the analytics page series; prices are normalised with catalog.ParsePrice.
func BuildAnalytics(c domain.Collection, bins int) Analytics {
	rows := c.Rows()
	marketplaces := catalog.Marketplaces(c)

	overall := &priceStats{}
	per := make(map[string]*priceStats, len(marketplaces))
	stock := make(map[string]map[bool]int)
	var prices []int64
	for _, p := range rows {
		overall.add(p)
		if p.Price.IsPresent() {
			prices = append(prices, catalog.PriceOf(p))
		}
		m, ok := p.Marketplace.Get()
		if !ok {
			continue
		}
		if per[m] == nil {
			per[m] = &priceStats{}
		}
		per[m].add(p)
		if v, ok := p.InStock.Get(); ok {
			if stock[m] == nil {
				stock[m] = make(map[bool]int)
			}
			stock[m][v]++
		}
	}

	a := Analytics{
		ProductsPerMarketplace: countByMarketplace(rows),
		StockByMarketplace:     []MarketplaceStock{},
		PriceHistogram:         Histogram(prices, bins),
		AvgPriceByMarketplace:  []MarketplacePrice{},
		Comparison:             []ComparisonRow{},
		Summary: Summary{
			TotalProducts:     len(rows),
			TotalMarketplaces: len(marketplaces),
		},
	}
	if overall.priced > 0 {
		hi, lo := overall.max, overall.min
		a.Summary.HighestPrice = &hi
		a.Summary.LowestPrice = &lo
	}

	for _, m := range marketplaces {
		s := per[m]
		if n := stock[m][true]; n > 0 {
			a.StockByMarketplace = append(a.StockByMarketplace, MarketplaceStock{Marketplace: m, Status: StatusInStock, Count: n})
		}
		if n := stock[m][false]; n > 0 {
			a.StockByMarketplace = append(a.StockByMarketplace, MarketplaceStock{Marketplace: m, Status: StatusOutOfStock, Count: n})
		}

		row := ComparisonRow{Marketplace: m, TotalProducts: s.total, InStock: s.inStock}
		if avg, ok := s.avg(); ok {
			lo, hi := s.min, s.max
			row.AvgPrice = &avg
			row.MinPrice = &lo
			row.MaxPrice = &hi
			a.AvgPriceByMarketplace = append(a.AvgPriceByMarketplace, MarketplacePrice{Marketplace: m, AveragePrice: avg})
		}
		a.Comparison = append(a.Comparison, row)
	}
	return a
}

// Histogram splits [min, max] of values into equal-width bins; the last bin is closed on the right.
func Histogram(values []int64, bins int) []Bin {
	if len(values) == 0 {
		return []Bin{}
	}
	if bins <= 0 {
		bins = DefaultHistogramBins
	}
	sorted := make([]int64, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	lo, hi := float64(sorted[0]), float64(sorted[len(sorted)-1])
	if lo == hi {
		return []Bin{{Lower: lo, Upper: hi, Count: len(sorted)}}
	}

	width := (hi - lo) / float64(bins)
	out := make([]Bin, bins)
	for i := range out {
		out[i].Lower = lo + float64(i)*width
		out[i].Upper = lo + float64(i+1)*width
	}
	out[bins-1].Upper = hi
	for _, v := range sorted {
		idx := int((float64(v) - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		out[idx].Count++
	}
	return out
}
