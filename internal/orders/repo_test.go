package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adiletbaev/distribo-backend/pkg/db/models"
	"github.com/adiletbaev/distribo-backend/pkg/enums"
	"github.com/adiletbaev/distribo-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	storeOrders := `
CREATE TABLE IF NOT EXISTS store_orders (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  partner_id TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  total_amount TEXT NOT NULL DEFAULT '0',
  prepayment_amount TEXT NOT NULL DEFAULT '0',
  paid_amount TEXT NOT NULL DEFAULT '0',
  debt_amount TEXT NOT NULL DEFAULT '0',
  idempotency_key TEXT,
  comment TEXT,
  reject_reason TEXT,
  created_by TEXT NOT NULL,
  reviewed_by TEXT,
  reviewed_at DATETIME,
  confirmed_by TEXT,
  confirmed_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	storeOrderItems := `
CREATE TABLE IF NOT EXISTS store_order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity TEXT NOT NULL,
  price TEXT NOT NULL,
  is_bonus INTEGER NOT NULL DEFAULT 0,
  is_cancelled INTEGER NOT NULL DEFAULT 0,
  cancelled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(storeOrders).Error)
	require.NoError(t, db.Exec(storeOrderItems).Error)
	return db
}

func seedOrder(t *testing.T, repo Repository, storeID uuid.UUID) *models.StoreOrder {
	t.Helper()
	orderID := uuid.New()
	order := &models.StoreOrder{
		ID:          orderID,
		StoreID:     storeID,
		Status:      enums.StoreOrderStatusPending,
		TotalAmount: dec("90"),
		CreatedBy:   uuid.New(),
		Items: []models.StoreOrderItem{
			{ID: uuid.New(), OrderID: orderID, ProductID: uuid.New(), Quantity: dec("10"), Price: dec("5")},
			{ID: uuid.New(), OrderID: orderID, ProductID: uuid.New(), Quantity: dec("2"), Price: dec("20")},
		},
	}
	require.NoError(t, repo.Create(context.Background(), order))
	return order
}

func TestRepositoryCreateAndFind(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo, err := NewRepository(db)
	require.NoError(t, err)

	order := seedOrder(t, repo, uuid.New())

	found, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
	assert.Len(t, found.Items, 2)
	assert.True(t, found.TotalAmount.Equal(dec("90")))
}

func TestRepositoryFindByIdempotencyKey(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo, err := NewRepository(db)
	require.NoError(t, err)

	missing, err := repo.FindByIdempotencyKey(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, missing)

	key := uuid.NewString()
	order := seedOrder(t, repo, uuid.New())
	require.NoError(t, db.Model(&models.StoreOrder{}).Where("id = ?", order.ID).Update("idempotency_key", key).Error)

	found, err := repo.FindByIdempotencyKey(context.Background(), key)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, order.ID, found.ID)
}

func TestRepositoryUpdateIfStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo, err := NewRepository(db)
	require.NoError(t, err)

	order := seedOrder(t, repo, uuid.New())

	affected, err := repo.UpdateIfStatus(context.Background(), order.ID, enums.StoreOrderStatusPending, map[string]any{
		"status": enums.StoreOrderStatusInTransit,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	// Second caller loses the race: the expected status is gone.
	affected, err = repo.UpdateIfStatus(context.Background(), order.ID, enums.StoreOrderStatusPending, map[string]any{
		"status": enums.StoreOrderStatusRejected,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	found, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.StoreOrderStatusInTransit, found.Status)
}

func TestRepositoryCancelItems(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo, err := NewRepository(db)
	require.NoError(t, err)

	order := seedOrder(t, repo, uuid.New())
	itemID := order.Items[0].ID

	affected, err := repo.CancelItems(context.Background(), order.ID, []uuid.UUID{itemID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = repo.CancelItems(context.Background(), order.ID, []uuid.UUID{itemID})
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected, "already cancelled rows are untouched")

	found, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	for _, item := range found.Items {
		if item.ID == itemID {
			assert.True(t, item.IsCancelled)
			assert.NotNil(t, item.CancelledAt)
		}
	}
}

func TestRepositoryListOrdersFilters(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo, err := NewRepository(db)
	require.NoError(t, err)

	storeID := uuid.New()
	seedOrder(t, repo, storeID)
	seedOrder(t, repo, storeID)
	seedOrder(t, repo, uuid.New())

	rows, err := repo.ListOrders(context.Background(), Filters{StoreID: &storeID}, pagination.Params{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	status := enums.StoreOrderStatusAccepted
	rows, err = repo.ListOrders(context.Background(), Filters{StoreID: &storeID, Status: &status}, pagination.Params{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, rows)
}
