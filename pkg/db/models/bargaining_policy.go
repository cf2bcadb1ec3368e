package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bargainly/bargainly-backend/pkg/enums"
)

// BargainingPolicy stores the negotiation configuration for one catalog
// variant of one merchant. Deactivated policies are kept for audit; the row
// is never hard-deleted.
type BargainingPolicy struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	MerchantID  uuid.UUID             `gorm:"column:merchant_id;type:uuid;not null;index:bargaining_policies_merchant_id_idx;uniqueIndex:bargaining_policies_merchant_variant_key"`
	VariantID   string                `gorm:"column:variant_id;not null;uniqueIndex:bargaining_policies_merchant_variant_key"`
	Behavior    enums.BargainBehavior `gorm:"column:behavior;not null"`
	MinPrice    decimal.Decimal       `gorm:"column:min_price;type:numeric(12,2);not null"`
	IsActive    bool                  `gorm:"column:is_active;not null;default:true"`
	IsAvailable bool                  `gorm:"column:is_available;not null;default:true"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (BargainingPolicy) TableName() string {
	return "bargaining_policies"
}

func (p *BargainingPolicy) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
