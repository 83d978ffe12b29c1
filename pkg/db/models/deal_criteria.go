package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/flipradar-backend/pkg/enums"
)

// DealCriteria is an operator-defined rule describing which price drops count
// as actionable deals. Rules are evaluated in insertion order.
type DealCriteria struct {
	ID                 uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID          *string                `gorm:"column:product_id"`
	Category           *enums.ProductCategory `gorm:"column:category"`
	MaxPrice           float64                `gorm:"column:max_price;not null"`
	MinDiscountPercent *float64               `gorm:"column:min_discount_percent"`
	AutoCheckout       bool                   `gorm:"column:auto_checkout;not null;default:false"`
	Enabled            bool                   `gorm:"column:enabled;not null;default:true"`
	CreatedAt          time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName overrides the default GORM pluralization.
func (DealCriteria) TableName() string {
	return "deal_criteria"
}
