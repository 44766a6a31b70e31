package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adiletbaev/distribo-backend/pkg/enums"
)

// Product represents a distributable catalog listing.
type Product struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU       string            `gorm:"column:sku;not null;uniqueIndex"`
	Title     string            `gorm:"column:title;not null"`
	Unit      enums.ProductUnit `gorm:"column:unit;type:product_unit;not null"`
	Price     decimal.Decimal   `gorm:"column:price;type:numeric(14,2);not null"`
	IsActive  bool              `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
