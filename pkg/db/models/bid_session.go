package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/angelmondragon/flipradar-backend/pkg/enums"
)

// BidSession is the audit record of one auto-bid run against an auction
// vehicle. The attempt log keeps per-cycle messages in submission order.
type BidSession struct {
	ID         uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VehicleID  string                `gorm:"column:vehicle_id;not null"`
	Strategy   enums.BidStrategyKind `gorm:"column:strategy;not null"`
	MaxBid     float64               `gorm:"column:max_bid;not null"`
	StopLoss   float64               `gorm:"column:stop_loss;not null"`
	FinalBid   float64               `gorm:"column:final_bid;not null"`
	Won        bool                  `gorm:"column:won;not null;default:false"`
	State      enums.BidState        `gorm:"column:state;not null"`
	Message    string                `gorm:"column:message"`
	AttemptLog pq.StringArray        `gorm:"column:attempt_log;type:text[]"`
	CreatedAt  time.Time             `gorm:"column:created_at;autoCreateTime"`
}
