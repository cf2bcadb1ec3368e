package shopify

// DefaultProductType is the bucket assigned to products whose upstream
// product_type is null or empty. It participates in category matching like
// any other category label.
const DefaultProductType = "Uncategorized"

// Flatten normalizes the nested product/variant tree into a flat sequence of
// catalog variants. Pure and total: well-formed input never fails. Variant
// and product identifiers are canonicalized to strings at this boundary; all
// downstream comparison is string equality.
func Flatten(products []Product) []CatalogVariant {
	variants := make([]CatalogVariant, 0, len(products))
	for _, product := range products {
		productType := product.ProductType
		if productType == "" {
			productType = DefaultProductType
		}
		for _, variant := range product.Variants {
			inventory := 0
			if variant.InventoryQuantity != nil {
				inventory = *variant.InventoryQuantity
			}
			variants = append(variants, CatalogVariant{
				VariantID:         variant.ID.String(),
				ProductID:         product.ID.String(),
				ProductTitle:      product.Title,
				VariantTitle:      variant.Title,
				ProductType:       productType,
				Price:             variant.Price,
				InventoryQuantity: inventory,
				CreatedAt:         variant.CreatedAt,
				UpdatedAt:         variant.UpdatedAt,
				RequiresShipping:  variant.RequiresShipping,
				Weight:            variant.Weight,
				WeightUnit:        variant.WeightUnit,
			})
		}
	}
	return variants
}
