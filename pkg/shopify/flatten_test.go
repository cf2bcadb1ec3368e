package shopify

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func intPtr(v int) *int { return &v }

func TestFlattenDefaults(t *testing.T) {
	products := []Product{
		{
			ID:          "11",
			Title:       "Shirt",
			ProductType: "",
			Variants: []Variant{
				{ID: "101", Title: "Small", Price: decimal.RequireFromString("19.99")},
				{ID: "102", Title: "Large", Price: decimal.RequireFromString("21.50"), InventoryQuantity: intPtr(7)},
			},
		},
	}

	flat := Flatten(products)
	if len(flat) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(flat))
	}

	first := flat[0]
	if first.ProductType != DefaultProductType {
		t.Fatalf("expected empty product_type to default to %q, got %q", DefaultProductType, first.ProductType)
	}
	if first.InventoryQuantity != 0 {
		t.Fatalf("expected missing inventory to default to 0, got %d", first.InventoryQuantity)
	}
	if first.VariantID != "101" || first.ProductID != "11" {
		t.Fatalf("unexpected identifiers %q/%q", first.VariantID, first.ProductID)
	}
	if flat[1].InventoryQuantity != 7 {
		t.Fatalf("expected inventory 7, got %d", flat[1].InventoryQuantity)
	}
}

func TestFlattenEmptyCatalog(t *testing.T) {
	if got := Flatten(nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestFlexibleIDAcceptsNumbersAndStrings(t *testing.T) {
	var payload struct {
		Numeric FlexibleID `json:"numeric"`
		Quoted  FlexibleID `json:"quoted"`
		Null    FlexibleID `json:"null"`
	}

	raw := `{"numeric": 45678901234, "quoted": "45678901234", "null": null}`
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if payload.Numeric != payload.Quoted {
		t.Fatalf("numeric and quoted forms must canonicalize equally: %q vs %q", payload.Numeric, payload.Quoted)
	}
	if payload.Numeric.String() != "45678901234" {
		t.Fatalf("unexpected canonical form %q", payload.Numeric)
	}
	if payload.Null != "" {
		t.Fatalf("expected null to decode as empty, got %q", payload.Null)
	}
}

func TestVariantPriceDecodesFromString(t *testing.T) {
	var variant Variant
	if err := json.Unmarshal([]byte(`{"id": 101, "price": "15.00"}`), &variant); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !variant.Price.Equal(decimal.RequireFromString("15.00")) {
		t.Fatalf("unexpected price %s", variant.Price)
	}
}
