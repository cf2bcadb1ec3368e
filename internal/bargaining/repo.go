package bargaining

import (
	"context"

	"github.com/bargainly/bargainly-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository encapsulates bargaining policy persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a policy repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert inserts the policy or, when a row already exists for the merchant and
// variant, overwrites its negotiation fields in a single statement. The unique
// index on (merchant_id, variant_id) makes concurrent writers converge on one row.
// An existing row keeps its is_active flag so bulk re-applies cannot undo a
// merchant's deactivation; only UpdateMinPrice flips a policy back on.
func (r *Repository) Upsert(ctx context.Context, policy *models.BargainingPolicy) error {
	if policy == nil || policy.MerchantID == uuid.Nil || policy.VariantID == "" {
		return gorm.ErrInvalidValue
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "merchant_id"}, {Name: "variant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"behavior", "min_price", "is_available", "updated_at",
			}),
		}).
		Create(policy).
		Error
}

// FindByVariant loads the policy row for a merchant-variant pair.
func (r *Repository) FindByVariant(ctx context.Context, merchantID uuid.UUID, variantID string) (models.BargainingPolicy, error) {
	var record models.BargainingPolicy
	err := r.db.WithContext(ctx).
		Where("merchant_id = ? AND variant_id = ?", merchantID, variantID).
		First(&record).
		Error
	return record, err
}

// UpdateMinPrice overwrites the floor price on an existing policy and forces it
// active. Returns gorm.ErrRecordNotFound when no row exists for the pair.
func (r *Repository) UpdateMinPrice(ctx context.Context, merchantID uuid.UUID, variantID string, minPrice decimal.Decimal) (models.BargainingPolicy, error) {
	result := r.db.WithContext(ctx).
		Model(&models.BargainingPolicy{}).
		Where("merchant_id = ? AND variant_id = ?", merchantID, variantID).
		Updates(map[string]any{
			"min_price": minPrice,
			"is_active": true,
		})
	if result.Error != nil {
		return models.BargainingPolicy{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.BargainingPolicy{}, gorm.ErrRecordNotFound
	}
	return r.FindByVariant(ctx, merchantID, variantID)
}

// Deactivate disables the policy and zeroes its floor price, keeping the row
// for audit. Returns gorm.ErrRecordNotFound when no row exists for the pair.
func (r *Repository) Deactivate(ctx context.Context, merchantID uuid.UUID, variantID string) (models.BargainingPolicy, error) {
	result := r.db.WithContext(ctx).
		Model(&models.BargainingPolicy{}).
		Where("merchant_id = ? AND variant_id = ?", merchantID, variantID).
		Updates(map[string]any{
			"min_price": decimal.Zero,
			"is_active": false,
		})
	if result.Error != nil {
		return models.BargainingPolicy{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.BargainingPolicy{}, gorm.ErrRecordNotFound
	}
	return r.FindByVariant(ctx, merchantID, variantID)
}

// ListByMerchant returns every policy the merchant has, newest first.
func (r *Repository) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]models.BargainingPolicy, error) {
	var records []models.BargainingPolicy
	err := r.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("created_at DESC").
		Find(&records).
		Error
	return records, err
}

// CountActive returns how many active policies the merchant has.
func (r *Repository) CountActive(ctx context.Context, merchantID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BargainingPolicy{}).
		Where("merchant_id = ? AND is_active = ?", merchantID, true).
		Count(&count).
		Error
	return count, err
}
