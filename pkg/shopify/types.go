package shopify

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FlexibleID tolerates the Shopify Admin API emitting identifiers as JSON
// numbers while locally stored records may carry them as strings. Both decode
// to the same canonical string form.
type FlexibleID string

func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || string(raw) == "null" {
		*f = ""
		return nil
	}
	value := strings.Trim(string(raw), `"`)
	if strings.ContainsAny(value, "{}[]") {
		return fmt.Errorf("invalid id value %q", string(raw))
	}
	*f = FlexibleID(strings.TrimSpace(value))
	return nil
}

func (f FlexibleID) String() string {
	return string(f)
}

// Product mirrors one entry of the Admin REST products.json payload.
type Product struct {
	ID          FlexibleID `json:"id"`
	Title       string     `json:"title"`
	ProductType string     `json:"product_type"`
	Variants    []Variant  `json:"variants"`
}

// Variant mirrors one product variant as returned by the Admin REST API.
// Price arrives as a decimal string; decimal.Decimal accepts both quoted and
// bare numbers.
type Variant struct {
	ID                FlexibleID      `json:"id"`
	Title             string          `json:"title"`
	Price             decimal.Decimal `json:"price"`
	InventoryQuantity *int            `json:"inventory_quantity"`
	CreatedAt         string          `json:"created_at"`
	UpdatedAt         string          `json:"updated_at"`
	RequiresShipping  bool            `json:"requires_shipping"`
	Weight            float64         `json:"weight"`
	WeightUnit        string          `json:"weight_unit"`
}

type productsResponse struct {
	Products []Product `json:"products"`
}

// CatalogVariant is the flattened, ephemeral view of one purchasable variant.
// It is derived per call from the external fetch and never persisted.
type CatalogVariant struct {
	VariantID         string          `json:"variant_id"`
	ProductID         string          `json:"product_id"`
	ProductTitle      string          `json:"product_title"`
	VariantTitle      string          `json:"variant_title"`
	ProductType       string          `json:"product_type"`
	Price             decimal.Decimal `json:"price"`
	InventoryQuantity int             `json:"inventory_quantity"`
	CreatedAt         string          `json:"created_at"`
	UpdatedAt         string          `json:"updated_at"`
	RequiresShipping  bool            `json:"requires_shipping"`
	Weight            float64         `json:"weight"`
	WeightUnit        string          `json:"weight_unit"`
}
