package catalog

import (
	"strconv"
	"strings"

	"scraper-dashboard/internal/domain"
)

// ParsePrice turns a price such as "$148.900,00" into whole currency units (148900).
// '.' is a thousands separator and everything after the first ',' is dropped.
// Absent or unparseable prices yield 0.
func ParsePrice(raw domain.Optional[string]) int64 {
	s, ok := raw.Get()
	if !ok {
		return 0
	}
	s = strings.TrimSpace(strings.ReplaceAll(s, "$", ""))
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(s, ".", "")
	if s == "" {
		return 0
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// PriceOf is ParsePrice applied to the product's price field.
func PriceOf(p domain.Product) int64 {
	return ParsePrice(p.Price)
}
