package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DebtPayment is an append-only record of money received against an order's
// outstanding debt. Rows are never updated or deleted.
type DebtPayment struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	Amount     decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	PaidBy     uuid.UUID       `gorm:"column:paid_by;type:uuid;not null"`
	ReceivedBy uuid.UUID       `gorm:"column:received_by;type:uuid;not null"`
	Comment    *string         `gorm:"column:comment"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}
