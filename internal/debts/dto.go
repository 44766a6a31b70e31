package debts

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adiletbaev/distribo-backend/pkg/db/models"
)

// PayDebtInput records one repayment against an accepted order. PaidBy
// defaults to the user who placed the order.
type PayDebtInput struct {
	Amount  decimal.Decimal `json:"amount" validate:"required"`
	PaidBy  *uuid.UUID      `json:"paid_by,omitempty"`
	Comment *string         `json:"comment,omitempty"`
}

// PaymentResult is the ledger line plus the balance it left behind.
type PaymentResult struct {
	Payment       models.DebtPayment `json:"payment"`
	RemainingDebt decimal.Decimal    `json:"remaining_debt"`
}

// Outstanding summarizes an order's settlement state.
type Outstanding struct {
	OrderID          uuid.UUID       `json:"order_id"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	PrepaymentAmount decimal.Decimal `json:"prepayment_amount"`
	PaidAmount       decimal.Decimal `json:"paid_amount"`
	DebtAmount       decimal.Decimal `json:"debt_amount"`
}
