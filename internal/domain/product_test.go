package domain

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
)

func TestProductFromRecord_AbsentFields(t *testing.T) {
	p := ProductFromRecord(Record{"name": nil, "price": math.NaN(), "marketplace": "falabella"})
	if p.Name.IsPresent() {
		t.Fatalf("expected nil name to be absent")
	}
	if p.Price.IsPresent() {
		t.Fatalf("expected NaN price to be absent")
	}
	if p.InStock.IsPresent() || p.ScrapedAt.IsPresent() {
		t.Fatalf("expected missing columns to be absent, got %+v", p)
	}
	if got := p.Marketplace.OrElse(""); got != "falabella" {
		t.Fatalf("expected marketplace falabella, got %q", got)
	}
}

func TestProductFromRecord_Coercions(t *testing.T) {
	p := ProductFromRecord(Record{
		"price":    json.Number("12990"),
		"in_stock": "true",
	})
	if got := p.Price.OrElse(""); got != "12990" {
		t.Fatalf("expected numeric price rendered as text, got %q", got)
	}
	if v, ok := p.InStock.Get(); !ok || !v {
		t.Fatalf("expected in_stock parsed from string, got %v %v", v, ok)
	}

	p = ProductFromRecord(Record{"in_stock": "maybe"})
	if p.InStock.IsPresent() {
		t.Fatalf("expected unparseable in_stock to be absent")
	}
}

func TestOptional_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		A Optional[string] `json:"a"`
		B Optional[int]    `json:"b"`
	}{A: Some("x")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"a":"x","b":null}` {
		t.Fatalf("unexpected json %s", b)
	}

	var o Optional[string]
	if err := json.Unmarshal([]byte(`null`), &o); err != nil || o.IsPresent() {
		t.Fatalf("expected null to decode as absent, got %+v err=%v", o, err)
	}
	if o.Ptr() != nil {
		t.Fatalf("expected nil pointer for absent value")
	}
}

func TestCollection_ColumnsAndOrder(t *testing.T) {
	c := CollectionFromRecords([]Record{
		{"zeta": 1, "price": "$1", "name": "a"},
		{"name": "b", "alpha": true, "in_stock": false},
	})
	want := []string{"name", "price", "in_stock", "alpha", "zeta"}
	if got := c.Columns(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected columns %v, got %v", want, got)
	}

	rows := c.Rows()
	if rows[0].Name.OrElse("") != "a" || rows[1].Name.OrElse("") != "b" {
		t.Fatalf("expected fetch order preserved, got %+v", rows)
	}
}

func TestCollection_EmptyHasNoColumns(t *testing.T) {
	c := CollectionFromRecords(nil)
	if c.Len() != 0 || len(c.Columns()) != 0 {
		t.Fatalf("expected empty collection, got len=%d cols=%v", c.Len(), c.Columns())
	}
}

func TestCollection_FilterReturnsNewCollection(t *testing.T) {
	c := CollectionFromRecords([]Record{{"name": "a"}, {"name": "b"}, {"name": "c"}})
	f := c.Filter(func(p Product) bool { return p.Name.OrElse("") != "b" })
	if f.Len() != 2 || c.Len() != 3 {
		t.Fatalf("expected filter to leave source untouched, got %d and %d", f.Len(), c.Len())
	}
	rows := f.Rows()
	if rows[0].Name.OrElse("") != "a" || rows[1].Name.OrElse("") != "c" {
		t.Fatalf("unexpected filtered order %+v", rows)
	}
}

func TestCollection_FilterKeepsParentColumns(t *testing.T) {
	c := CollectionFromRecords([]Record{
		{"name": "a", "marketplace": "paris", "price": "$1"},
		{"name": "b", "marketplace": "lider", "image_url": "http://img/b"},
	})
	f := c.Filter(func(p Product) bool { return p.Marketplace.OrElse("") == "paris" })
	if !reflect.DeepEqual(f.Columns(), c.Columns()) {
		t.Fatalf("expected columns %v, got %v", c.Columns(), f.Columns())
	}

	none := c.Filter(func(Product) bool { return false })
	if none.Len() != 0 || !reflect.DeepEqual(none.Columns(), c.Columns()) {
		t.Fatalf("expected empty view with columns %v, got len=%d cols=%v", c.Columns(), none.Len(), none.Columns())
	}
}
