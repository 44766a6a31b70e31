package history

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/adiletbaev/distribo-backend/pkg/db"
	"github.com/adiletbaev/distribo-backend/pkg/db/models"
	"github.com/adiletbaev/distribo-backend/pkg/enums"
	pkgerrors "github.com/adiletbaev/distribo-backend/pkg/errors"
	"github.com/adiletbaev/distribo-backend/pkg/pagination"
)

// Entry carries one audit line for an order transition. OldStatus is nil
// for the creation line.
type Entry struct {
	RefType   enums.OrderRefType
	OrderID   uuid.UUID
	OldStatus *string
	NewStatus string
	ChangedBy *uuid.UUID
	Comment   *string
}

// Recorder appends and reads the order audit trail.
type Recorder interface {
	AppendTx(ctx context.Context, tx *gorm.DB, entry Entry) error
	List(ctx context.Context, refType enums.OrderRefType, orderID uuid.UUID, params pagination.Params) ([]models.OrderHistory, error)
}

type recorder struct {
	db *gorm.DB
}

// NewRecorder builds the history recorder bound to the provided DB.
func NewRecorder(db *gorm.DB) (Recorder, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle required")
	}
	return &recorder{db: db}, nil
}

// AppendTx assigns the next per-order seq inside the caller's transaction.
// The unique index on (ref_type, order_id, seq) rejects concurrent writers
// racing for the same slot; those transactions roll back and retry upstream.
func (r *recorder) AppendTx(ctx context.Context, tx *gorm.DB, entry Entry) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for history append")
	}
	if !entry.RefType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid history ref type")
	}
	if entry.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if entry.NewStatus == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "history status required")
	}

	res := tx.WithContext(ctx).Exec(`
		INSERT INTO order_histories (id, ref_type, order_id, seq, old_status, new_status, changed_by, comment, created_at)
		VALUES (?, ?, ?,
			(SELECT COALESCE(MAX(seq), 0) + 1 FROM order_histories WHERE ref_type = ? AND order_id = ?),
			?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, uuid.New(), entry.RefType, entry.OrderID, entry.RefType, entry.OrderID,
		entry.OldStatus, entry.NewStatus, entry.ChangedBy, entry.Comment)
	if res.Error != nil {
		return appendError(res.Error)
	}
	return nil
}

// appendError maps a lost race for the next seq slot to a retryable
// conflict; anything else is a dependency failure.
func appendError(err error) error {
	if dbpkg.IsUniqueViolation(err, "ux_order_histories_ref_seq") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "history sequence slot already taken")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append order history")
}

func (r *recorder) List(ctx context.Context, refType enums.OrderRefType, orderID uuid.UUID, params pagination.Params) ([]models.OrderHistory, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	var rows []models.OrderHistory
	err := r.db.WithContext(ctx).
		Where("ref_type = ? AND order_id = ?", refType, orderID).
		Order("seq ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list order history")
	}
	return rows, nil
}
