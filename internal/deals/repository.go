package deals

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/flipradar-backend/pkg/db/models"
	"github.com/angelmondragon/flipradar-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/flipradar-backend/pkg/errors"
)

// CriteriaRepository persists operator deal rules.
type CriteriaRepository interface {
	Create(ctx context.Context, criteria *models.DealCriteria) error
	ListEnabled(ctx context.Context) ([]models.DealCriteria, error)
	List(ctx context.Context) ([]models.DealCriteria, error)
	SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) error
}

// DealRepository persists detected deals.
type DealRepository interface {
	Create(ctx context.Context, deal *models.Deal) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Deal, error)
	List(ctx context.Context, status *enums.DealStatus) ([]models.Deal, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.DealStatus) error
	ExpireOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type gormCriteriaRepository struct {
	conn *gorm.DB
}

func NewCriteriaRepository(conn *gorm.DB) CriteriaRepository {
	return &gormCriteriaRepository{conn: conn}
}

func (r *gormCriteriaRepository) Create(ctx context.Context, criteria *models.DealCriteria) error {
	if err := r.conn.WithContext(ctx).Create(criteria).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating deal criteria")
	}
	return nil
}

// ListEnabled returns rules in insertion order; match evaluation depends on it.
func (r *gormCriteriaRepository) ListEnabled(ctx context.Context) ([]models.DealCriteria, error) {
	var out []models.DealCriteria
	err := r.conn.WithContext(ctx).
		Where("enabled = ?", true).
		Order("created_at asc").
		Find(&out).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing enabled criteria")
	}
	return out, nil
}

func (r *gormCriteriaRepository) List(ctx context.Context) ([]models.DealCriteria, error) {
	var out []models.DealCriteria
	if err := r.conn.WithContext(ctx).Order("created_at asc").Find(&out).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing criteria")
	}
	return out, nil
}

func (r *gormCriteriaRepository) SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	result := r.conn.WithContext(ctx).
		Model(&models.DealCriteria{}).
		Where("id = ?", id).
		Update("enabled", enabled)
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, result.Error, "updating criteria")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "criteria not found")
	}
	return nil
}

type gormDealRepository struct {
	conn *gorm.DB
}

func NewDealRepository(conn *gorm.DB) DealRepository {
	return &gormDealRepository{conn: conn}
}

func (r *gormDealRepository) Create(ctx context.Context, deal *models.Deal) error {
	if err := r.conn.WithContext(ctx).Create(deal).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating deal")
	}
	return nil
}

func (r *gormDealRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Deal, error) {
	var deal models.Deal
	err := r.conn.WithContext(ctx).First(&deal, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "deal not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading deal")
	}
	return &deal, nil
}

func (r *gormDealRepository) List(ctx context.Context, status *enums.DealStatus) ([]models.Deal, error) {
	query := r.conn.WithContext(ctx).Order("detected_at desc")
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var out []models.Deal
	if err := query.Find(&out).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing deals")
	}
	return out, nil
}

func (r *gormDealRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.DealStatus) error {
	result := r.conn.WithContext(ctx).
		Model(&models.Deal{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, result.Error, "updating deal status")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "deal not found")
	}
	return nil
}

func (r *gormDealRepository) ExpireOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.conn.WithContext(ctx).
		Model(&models.Deal{}).
		Where("status = ? AND detected_at < ?", enums.DealStatusActive, cutoff).
		Update("status", enums.DealStatusExpired)
	if result.Error != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, result.Error, "expiring stale deals")
	}
	return result.RowsAffected, nil
}
