package defects

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adiletbaev/distribo-backend/pkg/db/models"
	"github.com/adiletbaev/distribo-backend/pkg/enums"
	pkgerrors "github.com/adiletbaev/distribo-backend/pkg/errors"
	"github.com/adiletbaev/distribo-backend/pkg/pagination"
)

// Repository persists defect claims.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindOrderByID(ctx context.Context, id uuid.UUID) (*models.StoreOrder, error)
	Insert(ctx context.Context, defect *models.DefectiveProduct) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.DefectiveProduct, error)

	// UpdateIfStatus applies updates only while the claim still holds the
	// expected status and reports how many rows matched.
	UpdateIfStatus(ctx context.Context, id uuid.UUID, expected enums.DefectStatus, updates map[string]any) (int64, error)

	List(ctx context.Context, filters Filters, params pagination.Params) ([]models.DefectiveProduct, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds the defects repository bound to the provided DB.
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
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store order")
	}
	return &order, nil
}

func (r *repository) Insert(ctx context.Context, defect *models.DefectiveProduct) error {
	if defect == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "defect payload required")
	}
	if err := r.db.WithContext(ctx).Create(defect).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert defect claim")
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.DefectiveProduct, error) {
	var defect models.DefectiveProduct
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&defect).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "defect claim not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load defect claim")
	}
	return &defect, nil
}

func (r *repository) UpdateIfStatus(ctx context.Context, id uuid.UUID, expected enums.DefectStatus, updates map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.DefectiveProduct{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(updates)
	if res.Error != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "update defect claim")
	}
	return res.RowsAffected, nil
}

func (r *repository) List(ctx context.Context, filters Filters, params pagination.Params) ([]models.DefectiveProduct, error) {
	query := r.db.WithContext(ctx).Model(&models.DefectiveProduct{})

	if filters.OrderID != nil {
		query = query.Where("defective_products.order_id = ?", *filters.OrderID)
	}
	if filters.Status != nil {
		query = query.Where("defective_products.status = ?", *filters.Status)
	}
	if filters.StoreID != nil {
		query = query.
			Joins("JOIN store_orders ON store_orders.id = defective_products.order_id").
			Where("store_orders.store_id = ?", *filters.StoreID)
	}

	var rows []models.DefectiveProduct
	err := query.
		Order("defective_products.created_at DESC").
		Limit(pagination.NormalizeLimit(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list defect claims")
	}
	return rows, nil
}
