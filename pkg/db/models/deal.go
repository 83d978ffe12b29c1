package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/flipradar-backend/pkg/enums"
)

// Deal records a quote that matched a criterion or dropped far enough below
// the trailing average to count as actionable.
type Deal struct {
	ID                   uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID            string           `gorm:"column:product_id;not null"`
	CriteriaID           *uuid.UUID       `gorm:"column:criteria_id;type:uuid"`
	CurrentPrice         float64          `gorm:"column:current_price;not null"`
	OriginalPrice        float64          `gorm:"column:original_price;not null"`
	DiscountPercent      float64          `gorm:"column:discount_percent;not null"`
	Savings              float64          `gorm:"column:savings;not null"`
	AutoCheckoutEligible bool             `gorm:"column:auto_checkout_eligible;not null;default:false"`
	Status               enums.DealStatus `gorm:"column:status;not null;default:'active'"`
	DetectedAt           time.Time        `gorm:"column:detected_at;not null"`
	CreatedAt            time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
