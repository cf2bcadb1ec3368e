package bargaining

import (
	"time"

	"github.com/bargainly/bargainly-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// ApplyInput is the negotiation configuration applied to one or more variants.
type ApplyInput struct {
	Behavior enums.BargainBehavior `json:"behavior" validate:"required"`
	MinPrice decimal.Decimal       `json:"min_price"`
}

// BatchResult summarizes a category-wide or catalog-wide apply run.
type BatchResult struct {
	AffectedCount int `json:"affected_count"`
}

// VariantResult reports the stored state of a single variant policy after a write.
type VariantResult struct {
	VariantID string          `json:"variant_id"`
	MinPrice  decimal.Decimal `json:"min_price"`
	IsActive  bool            `json:"is_active"`
}

// PolicyList is the details read projection: every stored policy plus how
// many of them are currently active.
type PolicyList struct {
	Policies    []PolicyDTO `json:"policies"`
	ActiveCount int64       `json:"active_count"`
}

// PolicyDTO is the read projection of one stored policy.
type PolicyDTO struct {
	VariantID   string                `json:"variant_id"`
	Behavior    enums.BargainBehavior `json:"behavior"`
	MinPrice    decimal.Decimal       `json:"min_price"`
	IsActive    bool                  `json:"is_active"`
	IsAvailable bool                  `json:"is_available"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}
