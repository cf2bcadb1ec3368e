package bargaining

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bargainly/bargainly-backend/pkg/db/models"
	pkgerrors "github.com/bargainly/bargainly-backend/pkg/errors"
	"github.com/bargainly/bargainly-backend/pkg/logger"
	"github.com/bargainly/bargainly-backend/pkg/metrics"
	"github.com/bargainly/bargainly-backend/pkg/shopify"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

// Sync scopes reported to metrics and carried on published events.
const (
	scopeCategory = "category"
	scopeCatalog  = "all-products"
	scopeVariant  = "variant"
)

// Policy event types published after successful writes.
const (
	EventPolicyApplied     = "policy.applied"
	EventPolicyMinPriceSet = "policy.min_price_set"
	EventPolicyDeactivated = "policy.deactivated"
)

// CredentialSource yields the catalog fetch credentials for a merchant.
type CredentialSource interface {
	Resolve(ctx context.Context, merchantID uuid.UUID) (shopify.Credentials, error)
}

// CatalogFetcher pulls the merchant's live product catalog.
type CatalogFetcher interface {
	FetchProducts(ctx context.Context, creds shopify.Credentials) ([]shopify.Product, error)
}

// EventPublisher emits policy lifecycle events. Publishing is best-effort;
// failures are logged and never fail the originating write.
type EventPublisher interface {
	PublishPolicyEvent(ctx context.Context, eventType string, payload any) error
}

// ServiceParams groups dependencies for the bargaining service. Events and
// Metrics are optional.
type ServiceParams struct {
	PolicyRepo  *Repository
	Credentials CredentialSource
	Catalog     CatalogFetcher
	Events      EventPublisher
	Metrics     *metrics.SyncMetrics
	Logger      *logger.Logger
}

// Service exposes the policy synchronization and resolution operations.
type Service interface {
	ApplyToCategory(ctx context.Context, merchantID uuid.UUID, category string, input ApplyInput) (BatchResult, error)
	ApplyToAllProducts(ctx context.Context, merchantID uuid.UUID, input ApplyInput) (BatchResult, error)
	ApplyToVariant(ctx context.Context, merchantID uuid.UUID, variantID string, input ApplyInput) (VariantResult, error)
	SetMinPrice(ctx context.Context, merchantID uuid.UUID, variantID string, minPrice decimal.Decimal) (VariantResult, error)
	Deactivate(ctx context.Context, merchantID uuid.UUID, variantID string) (VariantResult, error)
	ListPolicies(ctx context.Context, merchantID uuid.UUID) (PolicyList, error)
}

type service struct {
	policyRepo  *Repository
	credentials CredentialSource
	catalog     CatalogFetcher
	events      EventPublisher
	metrics     *metrics.SyncMetrics
	logg        *logger.Logger
}

// NewService builds a bargaining service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.PolicyRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "policy repo is required")
	}
	if params.Credentials == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "credential source is required")
	}
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog fetcher is required")
	}
	return &service{
		policyRepo:  params.PolicyRepo,
		credentials: params.Credentials,
		catalog:     params.Catalog,
		events:      params.Events,
		metrics:     params.Metrics,
		logg:        params.Logger,
	}, nil
}

// ApplyToCategory configures every variant whose product type matches the
// category. The category must match at least one catalog variant.
func (s *service) ApplyToCategory(ctx context.Context, merchantID uuid.UUID, category string, input ApplyInput) (BatchResult, error) {
	start := time.Now()
	if strings.TrimSpace(category) == "" {
		return BatchResult{}, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if err := validateApplyInput(input); err != nil {
		return BatchResult{}, err
	}

	variants, err := s.fetchCatalogVariants(ctx, merchantID)
	if err != nil {
		s.metrics.IncFailure(scopeCategory)
		return BatchResult{}, err
	}

	matched := variantsInCategory(variants, category)
	if len(matched) == 0 {
		return BatchResult{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("no products found in category %q", category))
	}

	result, err := s.applyToVariants(ctx, merchantID, matched, input)
	s.metrics.ObserveDuration(scopeCategory, time.Since(start))
	s.metrics.AddApplied(scopeCategory, result.AffectedCount)
	if err != nil {
		s.metrics.IncFailure(scopeCategory)
		return result, err
	}

	s.publishEvent(ctx, EventPolicyApplied, map[string]any{
		"merchant_id": merchantID,
		"scope":       scopeCategory,
		"category":    category,
		"affected":    result.AffectedCount,
	})
	return result, nil
}

// ApplyToAllProducts configures every variant in the merchant's catalog.
func (s *service) ApplyToAllProducts(ctx context.Context, merchantID uuid.UUID, input ApplyInput) (BatchResult, error) {
	start := time.Now()
	if err := validateApplyInput(input); err != nil {
		return BatchResult{}, err
	}

	variants, err := s.fetchCatalogVariants(ctx, merchantID)
	if err != nil {
		s.metrics.IncFailure(scopeCatalog)
		return BatchResult{}, err
	}
	if len(variants) == 0 {
		return BatchResult{}, pkgerrors.New(pkgerrors.CodeNotFound, "catalog has no products")
	}

	result, err := s.applyToVariants(ctx, merchantID, variants, input)
	s.metrics.ObserveDuration(scopeCatalog, time.Since(start))
	s.metrics.AddApplied(scopeCatalog, result.AffectedCount)
	if err != nil {
		s.metrics.IncFailure(scopeCatalog)
		return result, err
	}

	s.publishEvent(ctx, EventPolicyApplied, map[string]any{
		"merchant_id": merchantID,
		"scope":       scopeCatalog,
		"affected":    result.AffectedCount,
	})
	return result, nil
}

// ApplyToVariant configures a single catalog variant. The variant must exist
// in the live catalog.
func (s *service) ApplyToVariant(ctx context.Context, merchantID uuid.UUID, variantID string, input ApplyInput) (VariantResult, error) {
	start := time.Now()
	if strings.TrimSpace(variantID) == "" {
		return VariantResult{}, pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}
	if err := validateApplyInput(input); err != nil {
		return VariantResult{}, err
	}

	variants, err := s.fetchCatalogVariants(ctx, merchantID)
	if err != nil {
		s.metrics.IncFailure(scopeVariant)
		return VariantResult{}, err
	}

	variant, ok := findVariant(variants, variantID)
	if !ok {
		return VariantResult{}, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("variant %q not found in catalog", variantID))
	}

	if err := s.policyRepo.Upsert(ctx, policyFromVariant(merchantID, variant, input)); err != nil {
		s.metrics.IncFailure(scopeVariant)
		return VariantResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing policy")
	}

	// read back: a pre-existing deactivated policy keeps is_active = false
	record, err := s.policyRepo.FindByVariant(ctx, merchantID, variantID)
	if err != nil {
		s.metrics.IncFailure(scopeVariant)
		return VariantResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading stored policy")
	}

	s.metrics.ObserveDuration(scopeVariant, time.Since(start))
	s.metrics.AddApplied(scopeVariant, 1)
	s.publishEvent(ctx, EventPolicyApplied, map[string]any{
		"merchant_id": merchantID,
		"scope":       scopeVariant,
		"variant_id":  variantID,
	})

	return VariantResult{VariantID: record.VariantID, MinPrice: record.MinPrice, IsActive: record.IsActive}, nil
}

// SetMinPrice overwrites the floor price on an already configured variant and
// reactivates it. It never creates a policy and never touches the catalog.
func (s *service) SetMinPrice(ctx context.Context, merchantID uuid.UUID, variantID string, minPrice decimal.Decimal) (VariantResult, error) {
	if merchantID == uuid.Nil {
		return VariantResult{}, pkgerrors.New(pkgerrors.CodeValidation, "merchant id is required")
	}
	if strings.TrimSpace(variantID) == "" {
		return VariantResult{}, pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}
	if minPrice.IsNegative() {
		return VariantResult{}, pkgerrors.New(pkgerrors.CodeValidation, "min price must not be negative")
	}

	record, err := s.policyRepo.UpdateMinPrice(ctx, merchantID, variantID, minPrice)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return VariantResult{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "no policy configured for variant")
		}
		return VariantResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating min price")
	}

	s.publishEvent(ctx, EventPolicyMinPriceSet, map[string]any{
		"merchant_id": merchantID,
		"variant_id":  variantID,
		"min_price":   minPrice,
	})

	return VariantResult{VariantID: record.VariantID, MinPrice: record.MinPrice, IsActive: record.IsActive}, nil
}

// Deactivate turns off negotiation for the variant and zeroes its floor price.
// The policy row is kept.
func (s *service) Deactivate(ctx context.Context, merchantID uuid.UUID, variantID string) (VariantResult, error) {
	if merchantID == uuid.Nil {
		return VariantResult{}, pkgerrors.New(pkgerrors.CodeValidation, "merchant id is required")
	}
	if strings.TrimSpace(variantID) == "" {
		return VariantResult{}, pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}

	record, err := s.policyRepo.Deactivate(ctx, merchantID, variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return VariantResult{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "no policy configured for variant")
		}
		return VariantResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deactivating policy")
	}

	s.publishEvent(ctx, EventPolicyDeactivated, map[string]any{
		"merchant_id": merchantID,
		"variant_id":  variantID,
	})

	return VariantResult{VariantID: record.VariantID, MinPrice: record.MinPrice, IsActive: record.IsActive}, nil
}

// ListPolicies returns every stored policy for the merchant together with
// the active-policy count.
func (s *service) ListPolicies(ctx context.Context, merchantID uuid.UUID) (PolicyList, error) {
	if merchantID == uuid.Nil {
		return PolicyList{}, pkgerrors.New(pkgerrors.CodeValidation, "merchant id is required")
	}

	records, err := s.policyRepo.ListByMerchant(ctx, merchantID)
	if err != nil {
		return PolicyList{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing policies")
	}

	activeCount, err := s.policyRepo.CountActive(ctx, merchantID)
	if err != nil {
		return PolicyList{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "counting active policies")
	}

	dtos := make([]PolicyDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, PolicyDTO{
			VariantID:   record.VariantID,
			Behavior:    record.Behavior,
			MinPrice:    record.MinPrice,
			IsActive:    record.IsActive,
			IsAvailable: record.IsAvailable,
			CreatedAt:   record.CreatedAt,
			UpdatedAt:   record.UpdatedAt,
		})
	}
	return PolicyList{Policies: dtos, ActiveCount: activeCount}, nil
}

func (s *service) fetchCatalogVariants(ctx context.Context, merchantID uuid.UUID) ([]shopify.CatalogVariant, error) {
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

// applyToVariants upserts one policy per variant sequentially, accumulating
// per-variant failures so one bad row does not abort the run.
func (s *service) applyToVariants(ctx context.Context, merchantID uuid.UUID, variants []shopify.CatalogVariant, input ApplyInput) (BatchResult, error) {
	var errs error
	applied := 0

	for _, variant := range variants {
		if err := s.policyRepo.Upsert(ctx, policyFromVariant(merchantID, variant, input)); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("variant %s: %w", variant.VariantID, err))
			continue
		}
		applied++
	}

	result := BatchResult{AffectedCount: applied}
	if errs != nil {
		return result, pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "applying policies")
	}
	return result, nil
}

func (s *service) publishEvent(ctx context.Context, eventType string, payload map[string]any) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishPolicyEvent(ctx, eventType, payload); err != nil && s.logg != nil {
		ctx = s.logg.WithField(ctx, "event_type", eventType)
		s.logg.Warn(ctx, "publishing policy event failed")
	}
}

func validateApplyInput(input ApplyInput) error {
	if !input.Behavior.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown bargain behavior %q", input.Behavior))
	}
	if input.MinPrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "min price must not be negative")
	}
	return nil
}

func policyFromVariant(merchantID uuid.UUID, variant shopify.CatalogVariant, input ApplyInput) *models.BargainingPolicy {
	return &models.BargainingPolicy{
		MerchantID:  merchantID,
		VariantID:   variant.VariantID,
		Behavior:    input.Behavior,
		MinPrice:    input.MinPrice,
		IsActive:    true,
		IsAvailable: variant.InventoryQuantity > 0,
	}
}
