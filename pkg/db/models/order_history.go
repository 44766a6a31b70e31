package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/adiletbaev/distribo-backend/pkg/enums"
)

// OrderHistory is an append-only audit line, one per observed transition.
// Seq is monotonic per (ref_type, order_id) and assigned inside the writing
// transaction.
type OrderHistory struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RefType   enums.OrderRefType `gorm:"column:ref_type;type:order_ref_type;not null;uniqueIndex:ux_order_histories_ref_seq"`
	OrderID   uuid.UUID          `gorm:"column:order_id;type:uuid;not null;uniqueIndex:ux_order_histories_ref_seq"`
	Seq       int64              `gorm:"column:seq;not null;uniqueIndex:ux_order_histories_ref_seq"`
	OldStatus *string            `gorm:"column:old_status"`
	NewStatus string             `gorm:"column:new_status;not null"`
	ChangedBy *uuid.UUID         `gorm:"column:changed_by;type:uuid"`
	Comment   *string            `gorm:"column:comment"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
}
