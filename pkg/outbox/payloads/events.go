package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adiletbaev/distribo-backend/pkg/enums"
)

// OrderCreatedEvent signals a store placed a new order.
type OrderCreatedEvent struct {
	OrderID     uuid.UUID       `json:"order_id"`
	StoreID     uuid.UUID       `json:"store_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemCount   int             `json:"item_count"`
}

// OrderApprovedEvent is emitted when admin moves an order into transit.
type OrderApprovedEvent struct {
	OrderID    uuid.UUID  `json:"order_id"`
	StoreID    uuid.UUID  `json:"store_id"`
	PartnerID  *uuid.UUID `json:"partner_id,omitempty"`
	ApprovedBy uuid.UUID  `json:"approved_by"`
}

// OrderRejectedEvent is emitted when admin terminally rejects a pending order.
type OrderRejectedEvent struct {
	OrderID    uuid.UUID `json:"order_id"`
	StoreID    uuid.UUID `json:"store_id"`
	RejectedBy uuid.UUID `json:"rejected_by"`
	Reason     string    `json:"reason,omitempty"`
}

// OrderConfirmedEvent surfaces the settlement figures when a partner accepts delivery.
type OrderConfirmedEvent struct {
	OrderID          uuid.UUID       `json:"order_id"`
	StoreID          uuid.UUID       `json:"store_id"`
	PartnerID        uuid.UUID       `json:"partner_id"`
	PrepaymentAmount decimal.Decimal `json:"prepayment_amount"`
	DebtAmount       decimal.Decimal `json:"debt_amount"`
	RemovedItemIDs   []uuid.UUID     `json:"removed_item_ids,omitempty"`
}

// OrderItemsCancelledEvent is emitted whenever a store trims a pending order.
type OrderItemsCancelledEvent struct {
	OrderID     uuid.UUID       `json:"order_id"`
	StoreID     uuid.UUID       `json:"store_id"`
	ItemIDs     []uuid.UUID     `json:"item_ids"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// PartnerAssignedEvent reports a partner being attached to a pending order.
type PartnerAssignedEvent struct {
	OrderID    uuid.UUID `json:"order_id"`
	StoreID    uuid.UUID `json:"store_id"`
	PartnerID  uuid.UUID `json:"partner_id"`
	AssignedBy uuid.UUID `json:"assigned_by"`
}

// DebtPaymentRecordedEvent carries the ledger line and the resulting balance.
type DebtPaymentRecordedEvent struct {
	OrderID       uuid.UUID       `json:"order_id"`
	PaymentID     uuid.UUID       `json:"payment_id"`
	StoreID       uuid.UUID       `json:"store_id"`
	Amount        decimal.Decimal `json:"amount"`
	RemainingDebt decimal.Decimal `json:"remaining_debt"`
	RecordedAt    time.Time       `json:"recorded_at"`
}

// DefectReportedEvent signals a defect claim was filed against an accepted order.
type DefectReportedEvent struct {
	DefectID   uuid.UUID       `json:"defect_id"`
	OrderID    uuid.UUID       `json:"order_id"`
	StoreID    uuid.UUID       `json:"store_id"`
	ProductID  uuid.UUID       `json:"product_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	ReportedBy uuid.UUID       `json:"reported_by"`
}

// DefectDecidedEvent reports the admin decision on a defect claim.
type DefectDecidedEvent struct {
	DefectID  uuid.UUID          `json:"defect_id"`
	OrderID   uuid.UUID          `json:"order_id"`
	StoreID   uuid.UUID          `json:"store_id"`
	Status    enums.DefectStatus `json:"status"`
	DecidedBy uuid.UUID          `json:"decided_by"`
}
