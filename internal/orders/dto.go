package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adiletbaev/distribo-backend/pkg/db/models"
	"github.com/adiletbaev/distribo-backend/pkg/enums"
)

// CreateItemInput is one requested order line. Price overrides the catalog
// snapshot when supplied. Bonus lines are priced at zero regardless.
type CreateItemInput struct {
	ProductID uuid.UUID        `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal  `json:"quantity" validate:"required"`
	Price     *decimal.Decimal `json:"price,omitempty"`
	IsBonus   bool             `json:"is_bonus"`
}

type CreateOrderInput struct {
	Items          []CreateItemInput `json:"items" validate:"required,min=1,dive"`
	Comment        *string           `json:"comment,omitempty"`
	IdempotencyKey *string           `json:"idempotency_key,omitempty"`
}

type ApproveInput struct {
	PartnerID *uuid.UUID `json:"partner_id,omitempty"`
}

type RejectInput struct {
	Reason string `json:"reason" validate:"required"`
}

type AssignPartnerInput struct {
	PartnerID uuid.UUID `json:"partner_id" validate:"required"`
}

type ConfirmInput struct {
	PrepaymentAmount decimal.Decimal `json:"prepayment_amount"`
	ItemsToRemove    []uuid.UUID     `json:"items_to_remove,omitempty"`
}

type CancelItemsInput struct {
	ItemIDs []uuid.UUID `json:"item_ids" validate:"required,min=1"`
}

// Filters narrows order listings. Zero values mean no constraint.
type Filters struct {
	StoreID   *uuid.UUID
	PartnerID *uuid.UUID
	Status    *enums.StoreOrderStatus
	From      *time.Time
	To        *time.Time
}

// List is one page of orders plus the cursor for the next page.
type List struct {
	Orders     []models.StoreOrder `json:"orders"`
	NextCursor *string             `json:"next_cursor,omitempty"`
}
