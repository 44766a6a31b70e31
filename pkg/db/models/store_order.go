package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adiletbaev/distribo-backend/pkg/enums"
)

// StoreOrder is the workflow aggregate. Monetary invariants:
// TotalAmount equals the sum of price*quantity over non-cancelled items, and
// DebtAmount equals max(TotalAmount - PrepaymentAmount - PaidAmount, 0).
type StoreOrder struct {
	ID               uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID          uuid.UUID              `gorm:"column:store_id;type:uuid;not null"`
	PartnerID        *uuid.UUID             `gorm:"column:partner_id;type:uuid"`
	Status           enums.StoreOrderStatus `gorm:"column:status;type:store_order_status;not null;default:'pending'"`
	TotalAmount      decimal.Decimal        `gorm:"column:total_amount;type:numeric(14,2);not null"`
	PrepaymentAmount decimal.Decimal        `gorm:"column:prepayment_amount;type:numeric(14,2);not null;default:0"`
	PaidAmount       decimal.Decimal        `gorm:"column:paid_amount;type:numeric(14,2);not null;default:0"`
	DebtAmount       decimal.Decimal        `gorm:"column:debt_amount;type:numeric(14,2);not null;default:0"`
	IdempotencyKey   *string                `gorm:"column:idempotency_key;uniqueIndex:ux_store_orders_idempotency_key"`
	Comment          *string                `gorm:"column:comment"`
	RejectReason     *string                `gorm:"column:reject_reason"`
	CreatedBy        uuid.UUID              `gorm:"column:created_by;type:uuid;not null"`
	ReviewedBy       *uuid.UUID             `gorm:"column:reviewed_by;type:uuid"`
	ReviewedAt       *time.Time             `gorm:"column:reviewed_at"`
	ConfirmedBy      *uuid.UUID             `gorm:"column:confirmed_by;type:uuid"`
	ConfirmedAt      *time.Time             `gorm:"column:confirmed_at"`
	Items            []StoreOrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
