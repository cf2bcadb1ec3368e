package catalog

import (
	"context"
	"sort"

	pkgerrors "github.com/bargainly/bargainly-backend/pkg/errors"
	"github.com/bargainly/bargainly-backend/pkg/shopify"
	"github.com/google/uuid"
)

// CredentialSource yields the catalog fetch credentials for a merchant.
type CredentialSource interface {
	Resolve(ctx context.Context, merchantID uuid.UUID) (shopify.Credentials, error)
}

// CatalogFetcher pulls the merchant's live product catalog.
type CatalogFetcher interface {
	FetchProducts(ctx context.Context, creds shopify.Credentials) ([]shopify.Product, error)
}

// Collection groups the flattened variants that share one product type.
type Collection struct {
	Category string                   `json:"category"`
	Variants []shopify.CatalogVariant `json:"variants"`
}

// ServiceParams groups dependencies for the catalog read service.
type ServiceParams struct {
	Credentials CredentialSource
	Catalog     CatalogFetcher
}

// Service exposes read-only views over the merchant's live catalog.
type Service interface {
	ListVariants(ctx context.Context, merchantID uuid.UUID) ([]shopify.CatalogVariant, error)
	ListCollections(ctx context.Context, merchantID uuid.UUID) ([]Collection, error)
}

type service struct {
	credentials CredentialSource
	catalog     CatalogFetcher
}

// NewService builds a catalog service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Credentials == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "credential source is required")
	}
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog fetcher is required")
	}
	return &service{
		credentials: params.Credentials,
		catalog:     params.Catalog,
	}, nil
}

// ListVariants returns the flattened catalog, one row per purchasable variant.
func (s *service) ListVariants(ctx context.Context, merchantID uuid.UUID) ([]shopify.CatalogVariant, error) {
	return s.fetch(ctx, merchantID)
}

// ListCollections returns the catalog grouped by product type, sorted by
// category name for a stable response shape.
func (s *service) ListCollections(ctx context.Context, merchantID uuid.UUID) ([]Collection, error) {
	variants, err := s.fetch(ctx, merchantID)
	if err != nil {
		return nil, err
	}

	grouped := map[string][]shopify.CatalogVariant{}
	for _, variant := range variants {
		grouped[variant.ProductType] = append(grouped[variant.ProductType], variant)
	}

	categories := make([]string, 0, len(grouped))
	for category := range grouped {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	collections := make([]Collection, 0, len(categories))
	for _, category := range categories {
		collections = append(collections, Collection{
			Category: category,
			Variants: grouped[category],
		})
	}
	return collections, nil
}

func (s *service) fetch(ctx context.Context, merchantID uuid.UUID) ([]shopify.CatalogVariant, error) {
	if merchantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "merchant id is required")
	}
	creds, err := s.credentials.Resolve(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	products, err := s.catalog.FetchProducts(ctx, creds)
	if err != nil {
		return nil, err
	}
	return shopify.Flatten(products), nil
}
