package models

import (
	"time"

	"github.com/google/uuid"
)

// Store represents a retail point that places orders.
type Store struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string     `gorm:"column:name;not null"`
	Address   *string    `gorm:"column:address"`
	Phone     *string    `gorm:"column:phone"`
	OwnerID   uuid.UUID  `gorm:"column:owner_id;type:uuid;not null"`
	PartnerID *uuid.UUID `gorm:"column:partner_id;type:uuid"`
	IsActive  bool       `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
