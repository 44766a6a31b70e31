package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adiletbaev/distribo-backend/pkg/enums"
)

// DefectiveProduct is a defect claim raised against an accepted order.
// Approved claims feed downstream revenue reporting; decisions never touch
// the order's debt figures.
type DefectiveProduct struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID          `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID   uuid.UUID          `gorm:"column:product_id;type:uuid;not null"`
	Quantity    decimal.Decimal    `gorm:"column:quantity;type:numeric(14,3);not null"`
	Price       decimal.Decimal    `gorm:"column:price;type:numeric(14,2);not null"`
	TotalAmount decimal.Decimal    `gorm:"column:total_amount;type:numeric(14,2);not null"`
	Reason      string             `gorm:"column:reason;not null"`
	Status      enums.DefectStatus `gorm:"column:status;type:defect_status;not null;default:'pending'"`
	ReportedBy  uuid.UUID          `gorm:"column:reported_by;type:uuid;not null"`
	ReviewedBy  *uuid.UUID         `gorm:"column:reviewed_by;type:uuid"`
	ReviewedAt  *time.Time         `gorm:"column:reviewed_at"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
