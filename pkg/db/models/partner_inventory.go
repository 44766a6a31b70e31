package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PartnerInventory tracks on-hand quantity per product at a partner warehouse.
type PartnerInventory struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	PartnerID   uuid.UUID       `gorm:"column:partner_id;type:uuid;not null;uniqueIndex:ux_partner_inventories_partner_product"`
	ProductID   uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:ux_partner_inventories_partner_product"`
	Quantity    decimal.Decimal `gorm:"column:quantity;type:numeric(14,3);not null;default:0"`
	LastUpdated time.Time       `gorm:"column:last_updated;autoUpdateTime"`
}
