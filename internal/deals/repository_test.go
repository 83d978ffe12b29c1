package deals

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/flipradar-backend/pkg/db/models"
	"github.com/angelmondragon/flipradar-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/flipradar-backend/pkg/errors"
)

func setupDealsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	dealCriteria := `
CREATE TABLE IF NOT EXISTS deal_criteria (
  id TEXT PRIMARY KEY,
  product_id TEXT,
  category TEXT,
  max_price REAL NOT NULL,
  min_discount_percent REAL,
  auto_checkout INTEGER NOT NULL DEFAULT 0,
  enabled INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	dealsTable := `
CREATE TABLE IF NOT EXISTS deals (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  criteria_id TEXT,
  current_price REAL NOT NULL,
  original_price REAL NOT NULL,
  discount_percent REAL NOT NULL,
  savings REAL NOT NULL,
  auto_checkout_eligible INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'active',
  detected_at DATETIME NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(dealCriteria).Error)
	require.NoError(t, db.Exec(dealsTable).Error)
	return db
}

func seedCriteria(t *testing.T, repo CriteriaRepository, enabled bool, createdAt time.Time) *models.DealCriteria {
	t.Helper()
	criteria := &models.DealCriteria{
		ID:        uuid.New(),
		MaxPrice:  100,
		Enabled:   enabled,
		CreatedAt: createdAt,
	}
	require.NoError(t, repo.Create(context.Background(), criteria))
	return criteria
}

func TestCriteriaRepository_ListEnabledKeepsInsertionOrder(t *testing.T) {
	db := setupDealsTestDB(t)
	repo := NewCriteriaRepository(db)
	ctx := context.Background()

	base := time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC)
	first := seedCriteria(t, repo, true, base)
	seedCriteria(t, repo, false, base.Add(time.Second))
	third := seedCriteria(t, repo, true, base.Add(2*time.Second))

	enabled, err := repo.ListEnabled(ctx)
	require.NoError(t, err)
	require.Len(t, enabled, 2)
	assert.Equal(t, first.ID, enabled[0].ID)
	assert.Equal(t, third.ID, enabled[1].ID)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCriteriaRepository_SetEnabled(t *testing.T) {
	db := setupDealsTestDB(t)
	repo := NewCriteriaRepository(db)
	ctx := context.Background()

	criteria := seedCriteria(t, repo, true, time.Now().UTC())

	require.NoError(t, repo.SetEnabled(ctx, criteria.ID, false))

	enabled, err := repo.ListEnabled(ctx)
	require.NoError(t, err)
	assert.Empty(t, enabled)

	err = repo.SetEnabled(ctx, uuid.New(), true)
	require.Error(t, err)
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeNotFound, coded.Code())
}

func TestDealRepository_Lifecycle(t *testing.T) {
	db := setupDealsTestDB(t)
	repo := NewDealRepository(db)
	ctx := context.Background()

	deal := &models.Deal{
		ID:              uuid.New(),
		ProductID:       "prod-1001",
		CurrentPrice:    80,
		OriginalPrice:   100,
		DiscountPercent: 20,
		Savings:         20,
		Status:          enums.DealStatusActive,
		DetectedAt:      time.Date(2026, time.May, 2, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Create(ctx, deal))

	loaded, err := repo.GetByID(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, "prod-1001", loaded.ProductID)
	assert.Equal(t, enums.DealStatusActive, loaded.Status)

	require.NoError(t, repo.UpdateStatus(ctx, deal.ID, enums.DealStatusPurchased))

	purchased := enums.DealStatusPurchased
	listed, err := repo.List(ctx, &purchased)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, deal.ID, listed[0].ID)

	active := enums.DealStatusActive
	listed, err = repo.List(ctx, &active)
	require.NoError(t, err)
	assert.Empty(t, listed)

	_, err = repo.GetByID(ctx, uuid.New())
	require.Error(t, err)
	coded := pkgerrors.As(err)
	require.NotNil(t, coded)
	assert.Equal(t, pkgerrors.CodeNotFound, coded.Code())
}

func TestDealRepository_ExpireOlderThan(t *testing.T) {
	db := setupDealsTestDB(t)
	repo := NewDealRepository(db)
	ctx := context.Background()

	cutoff := time.Date(2026, time.May, 3, 0, 0, 0, 0, time.UTC)
	stale := &models.Deal{
		ID:            uuid.New(),
		ProductID:     "prod-old",
		CurrentPrice:  50,
		OriginalPrice: 70,
		Status:        enums.DealStatusActive,
		DetectedAt:    cutoff.Add(-2 * time.Hour),
	}
	fresh := &models.Deal{
		ID:            uuid.New(),
		ProductID:     "prod-new",
		CurrentPrice:  60,
		OriginalPrice: 80,
		Status:        enums.DealStatusActive,
		DetectedAt:    cutoff.Add(time.Hour),
	}
	purchased := &models.Deal{
		ID:            uuid.New(),
		ProductID:     "prod-done",
		CurrentPrice:  40,
		OriginalPrice: 90,
		Status:        enums.DealStatusPurchased,
		DetectedAt:    cutoff.Add(-3 * time.Hour),
	}
	for _, deal := range []*models.Deal{stale, fresh, purchased} {
		require.NoError(t, repo.Create(ctx, deal))
	}

	expired, err := repo.ExpireOlderThan(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)

	loaded, err := repo.GetByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.DealStatusExpired, loaded.Status)

	loaded, err = repo.GetByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.DealStatusActive, loaded.Status)

	loaded, err = repo.GetByID(ctx, purchased.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.DealStatusPurchased, loaded.Status)
}
