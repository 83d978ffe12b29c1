package bidding

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/flipradar-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/flipradar-backend/pkg/errors"
)

// SessionRepository persists auto-bid audit rows.
type SessionRepository interface {
	Create(ctx context.Context, session *models.BidSession) error
	ListByVehicle(ctx context.Context, vehicleID string) ([]models.BidSession, error)
}

type gormSessionRepository struct {
	conn *gorm.DB
}

func NewSessionRepository(conn *gorm.DB) SessionRepository {
	return &gormSessionRepository{conn: conn}
}

func (r *gormSessionRepository) Create(ctx context.Context, session *models.BidSession) error {
	if err := r.conn.WithContext(ctx).Create(session).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating bid session")
	}
	return nil
}

func (r *gormSessionRepository) ListByVehicle(ctx context.Context, vehicleID string) ([]models.BidSession, error) {
	var out []models.BidSession
	err := r.conn.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("created_at desc").
		Find(&out).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing bid sessions")
	}
	return out, nil
}
