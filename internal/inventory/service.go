package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/adiletbaev/distribo-backend/pkg/db/models"
	pkgerrors "github.com/adiletbaev/distribo-backend/pkg/errors"
)

// Service adjusts and reads the two inventory ledgers. The Tx variants must
// run inside the caller's transaction so stock moves commit with the order
// transition that caused them.
type Service interface {
	CreditStoreTx(ctx context.Context, tx *gorm.DB, storeID, productID uuid.UUID, qty decimal.Decimal) error
	DebitPartnerTx(ctx context.Context, tx *gorm.DB, partnerID, productID uuid.UUID, qty decimal.Decimal) error
	StoreLevels(ctx context.Context, storeID uuid.UUID) ([]models.StoreInventory, error)
	PartnerLevels(ctx context.Context, partnerID uuid.UUID) ([]models.PartnerInventory, error)
}

type service struct {
	db *gorm.DB
}

// NewService builds the inventory service bound to the provided DB.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle required")
	}
	return &service{db: db}, nil
}

func (s *service) CreditStoreTx(ctx context.Context, tx *gorm.DB, storeID, productID uuid.UUID, qty decimal.Decimal) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for inventory credit")
	}
	if qty.Sign() <= 0 {
		return nil
	}

	res := tx.WithContext(ctx).Exec(`
		INSERT INTO store_inventories (id, store_id, product_id, quantity, last_updated)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (store_id, product_id) DO UPDATE
		SET quantity = store_inventories.quantity + excluded.quantity,
			last_updated = CURRENT_TIMESTAMP
	`, uuid.New(), storeID, productID, qty)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "credit store inventory")
	}
	return nil
}

func (s *service) DebitPartnerTx(ctx context.Context, tx *gorm.DB, partnerID, productID uuid.UUID, qty decimal.Decimal) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for inventory debit")
	}
	if qty.Sign() <= 0 {
		return nil
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE partner_inventories
		SET quantity = quantity - ?,
			last_updated = CURRENT_TIMESTAMP
		WHERE partner_id = ? AND product_id = ? AND quantity >= ?
	`, qty, partnerID, productID, qty)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "debit partner inventory")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "insufficient partner stock").
			WithDetails(map[string]any{"product_id": productID.String()})
	}
	return nil
}

func (s *service) StoreLevels(ctx context.Context, storeID uuid.UUID) ([]models.StoreInventory, error) {
	var rows []models.StoreInventory
	err := s.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("last_updated DESC").
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list store inventory")
	}
	return rows, nil
}

func (s *service) PartnerLevels(ctx context.Context, partnerID uuid.UUID) ([]models.PartnerInventory, error) {
	var rows []models.PartnerInventory
	err := s.db.WithContext(ctx).
		Where("partner_id = ?", partnerID).
		Order("last_updated DESC").
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list partner inventory")
	}
	return rows, nil
}
