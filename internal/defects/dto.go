package defects

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adiletbaev/distribo-backend/pkg/enums"
)

// ReportInput files a defect claim against a product line of an accepted
// order.
type ReportInput struct {
	OrderID   uuid.UUID       `json:"order_id" validate:"required"`
	ProductID uuid.UUID       `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
	Reason    string          `json:"reason" validate:"required"`
}

// DecideInput resolves a pending claim one way or the other.
type DecideInput struct {
	Approve bool    `json:"approve"`
	Comment *string `json:"comment,omitempty"`
}

// Filters narrows defect listings. Zero values mean no constraint.
type Filters struct {
	OrderID *uuid.UUID
	StoreID *uuid.UUID
	Status  *enums.DefectStatus
}
