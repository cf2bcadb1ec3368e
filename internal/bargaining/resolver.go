package bargaining

import "github.com/bargainly/bargainly-backend/pkg/shopify"

// variantsInCategory filters the flattened catalog down to variants whose
// product type matches the requested category. Matching is exact and
// case-sensitive; catalog types are merchant-controlled labels.
func variantsInCategory(variants []shopify.CatalogVariant, category string) []shopify.CatalogVariant {
	matched := make([]shopify.CatalogVariant, 0, len(variants))
	for _, variant := range variants {
		if variant.ProductType == category {
			matched = append(matched, variant)
		}
	}
	return matched
}

// findVariant locates a single variant by its canonical string ID.
func findVariant(variants []shopify.CatalogVariant, variantID string) (shopify.CatalogVariant, bool) {
	for _, variant := range variants {
		if variant.VariantID == variantID {
			return variant, true
		}
	}
	return shopify.CatalogVariant{}, false
}
