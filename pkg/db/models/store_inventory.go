package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StoreInventory tracks on-hand quantity per product at a store.
type StoreInventory struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	StoreID     uuid.UUID       `gorm:"column:store_id;type:uuid;not null;uniqueIndex:ux_store_inventories_store_product"`
	ProductID   uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:ux_store_inventories_store_product"`
	Quantity    decimal.Decimal `gorm:"column:quantity;type:numeric(14,3);not null;default:0"`
	LastUpdated time.Time       `gorm:"column:last_updated;autoUpdateTime"`
}
