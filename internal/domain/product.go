package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Record is a loosely-typed row as returned by the table store.
type Record map[string]any

// Well-known product columns, in display order.
const (
	ColumnID          = "id"
	ColumnName        = "name"
	ColumnMarketplace = "marketplace"
	ColumnPrice       = "price"
	ColumnInStock     = "in_stock"
	ColumnProductURL  = "product_url"
	ColumnImageURL    = "image_url"
	ColumnScrapedAt   = "scraped_at"
)

var knownColumns = []string{
	ColumnID,
	ColumnName,
	ColumnMarketplace,
	ColumnPrice,
	ColumnInStock,
	ColumnProductURL,
	ColumnImageURL,
	ColumnScrapedAt,
}

// Product is a scraped catalog entry. Every named field may be absent.
type Product struct {
	Name        Optional[string]
	Marketplace Optional[string]
	Price       Optional[string]
	InStock     Optional[bool]
	ProductURL  Optional[string]
	ImageURL    Optional[string]
	ScrapedAt   Optional[string]

	raw Record
}

// ProductFromRecord decodes the named fields of a store row; the row itself is kept for pass-through columns.
func ProductFromRecord(r Record) Product {
	return Product{
		Name:        textField(r, ColumnName),
		Marketplace: textField(r, ColumnMarketplace),
		Price:       textField(r, ColumnPrice),
		InStock:     boolField(r, ColumnInStock),
		ProductURL:  textField(r, ColumnProductURL),
		ImageURL:    textField(r, ColumnImageURL),
		ScrapedAt:   textField(r, ColumnScrapedAt),
		raw:         r,
	}
}

// Field returns the raw value stored under column.
func (p Product) Field(column string) (any, bool) {
	v, ok := p.raw[column]
	return v, ok
}

// FormatValue renders a raw store value as text; nil becomes the empty string.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	case float64:
		if math.IsNaN(t) {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int, int32, int64:
		return fmt.Sprintf("%d", t)
	case map[string]any, []any:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	default:
		return fmt.Sprint(t)
	}
}

func textField(r Record, column string) Optional[string] {
	v, ok := r[column]
	if !ok || v == nil {
		return None[string]()
	}
	if f, ok := v.(float64); ok && math.IsNaN(f) {
		return None[string]()
	}
	return Some(FormatValue(v))
}

func boolField(r Record, column string) Optional[bool] {
	v, ok := r[column]
	if !ok || v == nil {
		return None[bool]()
	}
	switch t := v.(type) {
	case bool:
		return Some(t)
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		if err != nil {
			return None[bool]()
		}
		return Some(b)
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return None[bool]()
		}
		return Some(n != 0)
	case float64:
		if math.IsNaN(t) {
			return None[bool]()
		}
		return Some(t != 0)
	}
	return None[bool]()
}
