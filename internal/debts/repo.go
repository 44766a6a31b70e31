package debts

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/adiletbaev/distribo-backend/pkg/db/models"
	pkgerrors "github.com/adiletbaev/distribo-backend/pkg/errors"
	"github.com/adiletbaev/distribo-backend/pkg/pagination"
)

// Repository persists the debt ledger. ApplyPayment is the single write path
// for balances so two racing payments can never both drain the same debt.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindOrderByID(ctx context.Context, id uuid.UUID) (*models.StoreOrder, error)

	// ApplyPayment moves the balance only while the order is accepted and
	// still owes at least the paid amount. Zero rows means the guard failed.
	ApplyPayment(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal) (int64, error)

	InsertPayment(ctx context.Context, payment *models.DebtPayment) error
	ListPayments(ctx context.Context, orderID uuid.UUID, params pagination.Params) ([]models.DebtPayment, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds the debts repository bound to the provided DB.
func NewRepository(db *gorm.DB) (Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle required")
	}
	return &repository{db: db}, nil
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindOrderByID(ctx context.Context, id uuid.UUID) (*models.StoreOrder, error) {
	var order models.StoreOrder
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store order")
	}
	return &order, nil
}

func (r *repository) ApplyPayment(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE store_orders
		SET paid_amount = paid_amount + ?,
			debt_amount = debt_amount - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = 'accepted' AND debt_amount >= ?
	`, amount, amount, orderID, amount)
	if res.Error != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "apply debt payment")
	}
	return res.RowsAffected, nil
}

func (r *repository) InsertPayment(ctx context.Context, payment *models.DebtPayment) error {
	if payment == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment payload required")
	}
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert debt payment")
	}
	return nil
}

func (r *repository) ListPayments(ctx context.Context, orderID uuid.UUID, params pagination.Params) ([]models.DebtPayment, error) {
	var rows []models.DebtPayment
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC, id ASC").
		Limit(pagination.NormalizeLimit(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list debt payments")
	}
	return rows, nil
}
