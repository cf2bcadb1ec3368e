package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogCredential holds a merchant's Shopify Admin API access details.
// One row per merchant.
type CatalogCredential struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	MerchantID  uuid.UUID `gorm:"column:merchant_id;type:uuid;not null;uniqueIndex:catalog_credentials_merchant_key"`
	ShopName    string    `gorm:"column:shop_name;not null"`
	AccessToken string    `gorm:"column:access_token;not null"`
	APIVersion  string    `gorm:"column:api_version;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (CatalogCredential) TableName() string {
	return "catalog_credentials"
}

func (c *CatalogCredential) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
