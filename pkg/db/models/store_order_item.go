package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StoreOrderItem is a line of a store order. Price is captured at order time
// so later catalog edits never move a placed order's total.
type StoreOrderItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID       `gorm:"column:order_id;type:uuid;not null"`
	ProductID   uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Quantity    decimal.Decimal `gorm:"column:quantity;type:numeric(14,3);not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(14,2);not null"`
	IsBonus     bool            `gorm:"column:is_bonus;not null;default:false"`
	IsCancelled bool            `gorm:"column:is_cancelled;not null;default:false"`
	CancelledAt *time.Time      `gorm:"column:cancelled_at"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// Total returns the line total, zero when the line is cancelled.
func (i StoreOrderItem) Total() decimal.Decimal {
	if i.IsCancelled {
		return decimal.Zero
	}
	return i.Price.Mul(i.Quantity)
}
