package reports

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adiletbaev/distribo-backend/pkg/auth"
	"github.com/adiletbaev/distribo-backend/pkg/enums"
	pkgerrors "github.com/adiletbaev/distribo-backend/pkg/errors"
)

func setupReportsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	storeOrders := `
CREATE TABLE store_orders (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  status TEXT NOT NULL,
  total_amount NUMERIC NOT NULL DEFAULT 0,
  debt_amount NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`
	defectiveProducts := `
CREATE TABLE defective_products (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  status TEXT NOT NULL,
  total_amount NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`
	require.NoError(t, db.Exec(storeOrders).Error)
	require.NoError(t, db.Exec(defectiveProducts).Error)
	return db
}

func admin() auth.Actor {
	return auth.Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin}
}

func TestOrdersSummary(t *testing.T) {
	db := setupReportsTestDB(t)
	svc, err := NewService(db)
	require.NoError(t, err)

	storeID := uuid.NewString()
	require.NoError(t, db.Exec(`INSERT INTO store_orders (id, store_id, status, total_amount, debt_amount) VALUES
		(?, ?, 'pending', 40, 0),
		(?, ?, 'accepted', 90, 70),
		(?, ?, 'rejected', 10, 0)`,
		uuid.NewString(), storeID, uuid.NewString(), storeID, uuid.NewString(), storeID).Error)

	summary, err := svc.Orders(context.Background(), admin(), Range{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.TotalOrders)
	assert.Equal(t, int64(1), summary.PendingCount)
	assert.Equal(t, int64(1), summary.AcceptedCount)
	assert.Equal(t, int64(1), summary.RejectedCount)
	assert.True(t, summary.TotalAmount.Equal(decimal.RequireFromString("140")))
	assert.True(t, summary.TotalDebt.Equal(decimal.RequireFromString("70")))
}

func TestOutstandingDebtsGroupsByStore(t *testing.T) {
	db := setupReportsTestDB(t)
	svc, err := NewService(db)
	require.NoError(t, err)

	storeA := uuid.NewString()
	storeB := uuid.NewString()
	require.NoError(t, db.Exec(`INSERT INTO store_orders (id, store_id, status, total_amount, debt_amount) VALUES
		(?, ?, 'accepted', 90, 70),
		(?, ?, 'accepted', 50, 20),
		(?, ?, 'accepted', 30, 0)`,
		uuid.NewString(), storeA, uuid.NewString(), storeA, uuid.NewString(), storeB).Error)

	rows, err := svc.OutstandingDebts(context.Background(), admin())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(2), rows[0].OrderCount)
	assert.True(t, rows[0].DebtAmount.Equal(decimal.RequireFromString("90")))
}

func TestDefectsSummary(t *testing.T) {
	db := setupReportsTestDB(t)
	svc, err := NewService(db)
	require.NoError(t, err)

	require.NoError(t, db.Exec(`INSERT INTO defective_products (id, order_id, status, total_amount) VALUES
		(?, ?, 'approved', 15),
		(?, ?, 'rejected', 40),
		(?, ?, 'pending', 5)`,
		uuid.NewString(), uuid.NewString(), uuid.NewString(), uuid.NewString(), uuid.NewString(), uuid.NewString()).Error)

	summary, err := svc.Defects(context.Background(), admin(), Range{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.ClaimCount)
	assert.Equal(t, int64(1), summary.ApprovedCount)
	assert.Equal(t, int64(1), summary.RejectedCount)
	assert.True(t, summary.ApprovedTotal.Equal(decimal.RequireFromString("15")))
}

func TestReportsAdminOnly(t *testing.T) {
	db := setupReportsTestDB(t)
	svc, err := NewService(db)
	require.NoError(t, err)

	store := auth.Actor{UserID: uuid.New(), Role: enums.UserRoleStore}
	_, err = svc.Orders(context.Background(), store, Range{})
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}
