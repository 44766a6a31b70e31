package debts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adiletbaev/distribo-backend/internal/history"
	"github.com/adiletbaev/distribo-backend/pkg/auth"
	"github.com/adiletbaev/distribo-backend/pkg/db/models"
	"github.com/adiletbaev/distribo-backend/pkg/enums"
	pkgerrors "github.com/adiletbaev/distribo-backend/pkg/errors"
	"github.com/adiletbaev/distribo-backend/pkg/outbox"
	"github.com/adiletbaev/distribo-backend/pkg/outbox/payloads"
	"github.com/adiletbaev/distribo-backend/pkg/pagination"
)

// Service manages the debt ledger of accepted orders. Payments append to the
// ledger and move the order balance in the same transaction.
type Service interface {
	PayDebt(ctx context.Context, actor auth.Actor, orderID uuid.UUID, input PayDebtInput) (*PaymentResult, error)
	GetOutstanding(ctx context.Context, actor auth.Actor, orderID uuid.UUID) (*Outstanding, error)
	ListPayments(ctx context.Context, actor auth.Actor, orderID uuid.UUID, params pagination.Params) ([]models.DebtPayment, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type service struct {
	repo    Repository
	tx      txRunner
	outbox  outboxPublisher
	history history.Recorder
}

// NewService wires the debt ledger with its collaborators.
func NewService(repo Repository, tx txRunner, publisher outboxPublisher, rec history.Recorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("debts repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if rec == nil {
		return nil, fmt.Errorf("history recorder required")
	}
	return &service{repo: repo, tx: tx, outbox: publisher, history: rec}, nil
}

func (s *service) PayDebt(ctx context.Context, actor auth.Actor, orderID uuid.UUID, input PayDebtInput) (*PaymentResult, error) {
	if input.Amount.Sign() <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment amount must be positive")
	}

	var result *PaymentResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrderByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := assertCanCollect(actor, order); err != nil {
			return err
		}
		if order.Status != enums.StoreOrderStatusAccepted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "debt can only be paid on accepted orders").
				WithDetails(map[string]any{"status": order.Status.String()})
		}
		if input.Amount.GreaterThan(order.DebtAmount) {
			return pkgerrors.New(pkgerrors.CodeOverpayment, "payment exceeds outstanding debt").
				WithDetails(map[string]any{"debt_amount": order.DebtAmount.String()})
		}

		affected, err := repo.ApplyPayment(ctx, orderID, input.Amount)
		if err != nil {
			return err
		}
		if affected == 0 {
			// A concurrent payment drained the balance between our read and
			// the guarded write.
			fresh, ferr := repo.FindOrderByID(ctx, orderID)
			if ferr == nil && input.Amount.GreaterThan(fresh.DebtAmount) {
				return pkgerrors.New(pkgerrors.CodeOverpayment, "payment exceeds outstanding debt").
					WithDetails(map[string]any{"debt_amount": fresh.DebtAmount.String()})
			}
			return pkgerrors.New(pkgerrors.CodeConflict, "debt was modified concurrently")
		}

		paidBy := order.CreatedBy
		if input.PaidBy != nil {
			paidBy = *input.PaidBy
		}
		payment := &models.DebtPayment{
			ID:         uuid.New(),
			OrderID:    orderID,
			Amount:     input.Amount,
			PaidBy:     paidBy,
			ReceivedBy: actor.UserID,
			Comment:    input.Comment,
		}
		if err := repo.InsertPayment(ctx, payment); err != nil {
			return err
		}

		remaining := order.DebtAmount.Sub(input.Amount)
		comment := "debt payment recorded"
		status := order.Status.String()
		if err := s.history.AppendTx(ctx, tx, history.Entry{
			RefType:   enums.OrderRefTypeStoreOrder,
			OrderID:   orderID,
			OldStatus: &status,
			NewStatus: status,
			ChangedBy: &actor.UserID,
			Comment:   &comment,
		}); err != nil {
			return err
		}
		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventDebtPaymentRecorded,
			AggregateType: enums.AggregateDebtPayment,
			AggregateID:   payment.ID,
			Actor: &outbox.ActorRef{
				UserID:  actor.UserID,
				StoreID: actor.StoreID,
				Role:    actor.Role.String(),
			},
			Data: payloads.DebtPaymentRecordedEvent{
				OrderID:       orderID,
				PaymentID:     payment.ID,
				StoreID:       order.StoreID,
				Amount:        input.Amount,
				RemainingDebt: remaining,
				RecordedAt:    time.Now(),
			},
			Version: 1,
		}); err != nil {
			return err
		}
		result = &PaymentResult{Payment: *payment, RemainingDebt: remaining}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) GetOutstanding(ctx context.Context, actor auth.Actor, orderID uuid.UUID) (*Outstanding, error) {
	order, err := s.repo.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := assertCanView(actor, order); err != nil {
		return nil, err
	}
	return &Outstanding{
		OrderID:          order.ID,
		TotalAmount:      order.TotalAmount,
		PrepaymentAmount: order.PrepaymentAmount,
		PaidAmount:       order.PaidAmount,
		DebtAmount:       order.DebtAmount,
	}, nil
}

func (s *service) ListPayments(ctx context.Context, actor auth.Actor, orderID uuid.UUID, params pagination.Params) ([]models.DebtPayment, error) {
	order, err := s.repo.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := assertCanView(actor, order); err != nil {
		return nil, err
	}
	return s.repo.ListPayments(ctx, orderID, params)
}

func assertCanCollect(actor auth.Actor, order *models.StoreOrder) error {
	switch actor.Role {
	case enums.UserRoleAdmin:
		return nil
	case enums.UserRolePartner:
		if order.PartnerID != nil && *order.PartnerID == actor.UserID {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "not allowed to record payments for this order")
}

func assertCanView(actor auth.Actor, order *models.StoreOrder) error {
	switch actor.Role {
	case enums.UserRoleAdmin:
		return nil
	case enums.UserRoleStore:
		if actor.StoreID != nil && *actor.StoreID == order.StoreID {
			return nil
		}
	case enums.UserRolePartner:
		if order.PartnerID != nil && *order.PartnerID == actor.UserID {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "no access to this order")
}
