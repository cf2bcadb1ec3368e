package credentials

import (
	"context"

	"github.com/bargainly/bargainly-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository encapsulates catalog credential persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a credential repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByMerchant loads the single credential row for a merchant.
func (r *Repository) FindByMerchant(ctx context.Context, merchantID uuid.UUID) (models.CatalogCredential, error) {
	var record models.CatalogCredential
	err := r.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		First(&record).
		Error
	return record, err
}

// Create inserts a new credential row for the merchant.
func (r *Repository) Create(ctx context.Context, record *models.CatalogCredential) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// Update persists changed connection fields on an existing row.
func (r *Repository) Update(ctx context.Context, record *models.CatalogCredential) error {
	return r.db.WithContext(ctx).
		Model(record).
		Select("shop_name", "access_token", "api_version").
		Updates(record).
		Error
}

// Delete removes the merchant's credential row if present.
func (r *Repository) Delete(ctx context.Context, merchantID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Delete(&models.CatalogCredential{}).
		Error
}
