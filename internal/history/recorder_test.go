package history

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/adiletbaev/distribo-backend/pkg/enums"
	pkgerrors "github.com/adiletbaev/distribo-backend/pkg/errors"
	"github.com/adiletbaev/distribo-backend/pkg/pagination"
)

func setupHistoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS order_histories (
  id TEXT PRIMARY KEY,
  ref_type TEXT NOT NULL,
  order_id TEXT NOT NULL,
  seq INTEGER NOT NULL,
  old_status TEXT,
  new_status TEXT NOT NULL,
  changed_by TEXT,
  comment TEXT,
  created_at DATETIME,
  UNIQUE (ref_type, order_id, seq)
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func TestRecorderAppendAssignsMonotonicSeq(t *testing.T) {
	db := setupHistoryTestDB(t)
	rec, err := NewRecorder(db)
	require.NoError(t, err)

	orderID := uuid.New()
	pending := "pending"
	require.NoError(t, rec.AppendTx(context.Background(), db, Entry{
		RefType:   enums.OrderRefTypeStoreOrder,
		OrderID:   orderID,
		NewStatus: pending,
	}))
	require.NoError(t, rec.AppendTx(context.Background(), db, Entry{
		RefType:   enums.OrderRefTypeStoreOrder,
		OrderID:   orderID,
		OldStatus: &pending,
		NewStatus: "in_transit",
	}))

	rows, err := rec.List(context.Background(), enums.OrderRefTypeStoreOrder, orderID, pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0].Seq)
	assert.Equal(t, int64(2), rows[1].Seq)
	assert.Nil(t, rows[0].OldStatus)
	assert.Equal(t, "in_transit", rows[1].NewStatus)
}

func TestRecorderAppendValidatesEntry(t *testing.T) {
	db := setupHistoryTestDB(t)
	rec, err := NewRecorder(db)
	require.NoError(t, err)

	err = rec.AppendTx(context.Background(), db, Entry{
		RefType:   enums.OrderRefType("bogus"),
		OrderID:   uuid.New(),
		NewStatus: "pending",
	})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	err = rec.AppendTx(context.Background(), db, Entry{
		RefType:   enums.OrderRefTypeStoreOrder,
		NewStatus: "pending",
	})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestAppendErrorMapsSeqSlotRaceToConflict(t *testing.T) {
	raced := errors.New(`duplicate key value violates unique constraint "ux_order_histories_ref_seq"`)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(appendError(raced)).Code())

	other := errors.New("connection refused")
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(appendError(other)).Code())
}
