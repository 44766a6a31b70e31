package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/adiletbaev/distribo-backend/internal/catalog"
	"github.com/adiletbaev/distribo-backend/internal/history"
	"github.com/adiletbaev/distribo-backend/internal/inventory"
	"github.com/adiletbaev/distribo-backend/pkg/auth"
	dbpkg "github.com/adiletbaev/distribo-backend/pkg/db"
	"github.com/adiletbaev/distribo-backend/pkg/db/models"
	"github.com/adiletbaev/distribo-backend/pkg/enums"
	pkgerrors "github.com/adiletbaev/distribo-backend/pkg/errors"
	"github.com/adiletbaev/distribo-backend/pkg/outbox"
	"github.com/adiletbaev/distribo-backend/pkg/outbox/payloads"
	"github.com/adiletbaev/distribo-backend/pkg/pagination"
)

// Service drives the order lifecycle. Every transition runs in one
// transaction that covers the status flip, inventory moves, the audit line
// and the outbox event.
type Service interface {
	CreateOrder(ctx context.Context, actor auth.Actor, input CreateOrderInput) (*models.StoreOrder, error)
	AdminApprove(ctx context.Context, actor auth.Actor, orderID uuid.UUID, input ApproveInput) (*models.StoreOrder, error)
	AdminReject(ctx context.Context, actor auth.Actor, orderID uuid.UUID, input RejectInput) (*models.StoreOrder, error)
	AssignPartner(ctx context.Context, actor auth.Actor, orderID uuid.UUID, input AssignPartnerInput) (*models.StoreOrder, error)
	PartnerConfirm(ctx context.Context, actor auth.Actor, orderID uuid.UUID, input ConfirmInput) (*models.StoreOrder, error)
	StoreCancelItems(ctx context.Context, actor auth.Actor, orderID uuid.UUID, input CancelItemsInput) (*models.StoreOrder, error)
	GetOrder(ctx context.Context, actor auth.Actor, orderID uuid.UUID) (*models.StoreOrder, error)
	ListOrders(ctx context.Context, actor auth.Actor, filters Filters, params pagination.Params) (*List, error)
}

type service struct {
	repo      Repository
	tx        txRunner
	outbox    outboxPublisher
	inventory inventory.Service
	history   history.Recorder
	catalog   catalog.Service
}

// NewService wires the order workflow with its collaborators.
func NewService(
	repo Repository,
	tx txRunner,
	publisher outboxPublisher,
	inv inventory.Service,
	rec history.Recorder,
	cat catalog.Service,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if inv == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	if rec == nil {
		return nil, fmt.Errorf("history recorder required")
	}
	if cat == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		outbox:    publisher,
		inventory: inv,
		history:   rec,
		catalog:   cat,
	}, nil
}

func (s *service) CreateOrder(ctx context.Context, actor auth.Actor, input CreateOrderInput) (*models.StoreOrder, error) {
	if actor.Role != enums.UserRoleStore {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only stores can place orders")
	}
	if actor.StoreID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "actor has no store attached")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must have at least one item")
	}
	for _, item := range input.Items {
		if item.Quantity.Sign() <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive").
				WithDetails(map[string]any{"product_id": item.ProductID.String()})
		}
		if item.Price != nil && item.Price.Sign() < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item price cannot be negative").
				WithDetails(map[string]any{"product_id": item.ProductID.String()})
		}
	}

	if input.IdempotencyKey != nil && *input.IdempotencyKey != "" {
		existing, err := s.repo.FindByIdempotencyKey(ctx, *input.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}

	productIDs := make([]uuid.UUID, 0, len(input.Items))
	for _, item := range input.Items {
		productIDs = append(productIDs, item.ProductID)
	}
	products, err := s.catalog.ResolveActive(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	order := &models.StoreOrder{
		ID:        uuid.New(),
		StoreID:   *actor.StoreID,
		Status:    enums.StoreOrderStatusPending,
		Comment:   input.Comment,
		CreatedBy: actor.UserID,
	}
	if input.IdempotencyKey != nil && *input.IdempotencyKey != "" {
		order.IdempotencyKey = input.IdempotencyKey
	}

	total := decimal.Zero
	for _, item := range input.Items {
		price := products[item.ProductID].Price
		if item.Price != nil {
			price = *item.Price
		}
		if item.IsBonus {
			price = decimal.Zero
		}
		order.Items = append(order.Items, models.StoreOrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     price,
			IsBonus:   item.IsBonus,
		})
		total = total.Add(price.Mul(item.Quantity))
	}
	order.TotalAmount = total
	order.PrepaymentAmount = decimal.Zero
	order.PaidAmount = decimal.Zero
	order.DebtAmount = decimal.Zero

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}
		if err := s.history.AppendTx(ctx, tx, history.Entry{
			RefType:   enums.OrderRefTypeStoreOrder,
			OrderID:   order.ID,
			NewStatus: order.Status.String(),
			ChangedBy: &actor.UserID,
			Comment:   input.Comment,
		}); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateStoreOrder,
			AggregateID:   order.ID,
			Actor:         buildActor(actor),
			Data: payloads.OrderCreatedEvent{
				OrderID:     order.ID,
				StoreID:     order.StoreID,
				TotalAmount: order.TotalAmount,
				ItemCount:   len(order.Items),
			},
			Version: 1,
		})
	})
	if err != nil {
		// A racing request with the same key committed first. Return its order.
		if input.IdempotencyKey != nil && dbpkg.IsUniqueViolation(err, "ux_store_orders_idempotency_key") {
			existing, ferr := s.repo.FindByIdempotencyKey(ctx, *input.IdempotencyKey)
			if ferr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, err
	}
	return order, nil
}

func (s *service) AdminApprove(ctx context.Context, actor auth.Actor, orderID uuid.UUID, input ApproveInput) (*models.StoreOrder, error) {
	if actor.Role != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can approve orders")
	}

	var result *models.StoreOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status != enums.StoreOrderStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is not pending").
				WithDetails(map[string]any{"status": order.Status.String()})
		}

		now := time.Now()
		updates := map[string]any{
			"status":      enums.StoreOrderStatusInTransit,
			"reviewed_by": actor.UserID,
			"reviewed_at": now,
		}
		if input.PartnerID != nil {
			updates["partner_id"] = *input.PartnerID
		}
		affected, err := repo.UpdateIfStatus(ctx, orderID, enums.StoreOrderStatusPending, updates)
		if err != nil {
			return err
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "order was modified concurrently")
		}

		for _, item := range order.Items {
			if item.IsCancelled {
				continue
			}
			if err := s.inventory.CreditStoreTx(ctx, tx, order.StoreID, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		oldStatus := order.Status.String()
		order.Status = enums.StoreOrderStatusInTransit
		order.ReviewedBy = &actor.UserID
		order.ReviewedAt = &now
		if input.PartnerID != nil {
			order.PartnerID = input.PartnerID
		}

		if err := s.history.AppendTx(ctx, tx, history.Entry{
			RefType:   enums.OrderRefTypeStoreOrder,
			OrderID:   order.ID,
			OldStatus: &oldStatus,
			NewStatus: order.Status.String(),
			ChangedBy: &actor.UserID,
		}); err != nil {
			return err
		}
		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderApproved,
			AggregateType: enums.AggregateStoreOrder,
			AggregateID:   order.ID,
			Actor:         buildActor(actor),
			Data: payloads.OrderApprovedEvent{
				OrderID:    order.ID,
				StoreID:    order.StoreID,
				PartnerID:  order.PartnerID,
				ApprovedBy: actor.UserID,
			},
			Version: 1,
		}); err != nil {
			return err
		}
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) AdminReject(ctx context.Context, actor auth.Actor, orderID uuid.UUID, input RejectInput) (*models.StoreOrder, error) {
	if actor.Role != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can reject orders")
	}
	if input.Reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reject reason required")
	}

	var result *models.StoreOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status != enums.StoreOrderStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is not pending").
				WithDetails(map[string]any{"status": order.Status.String()})
		}

		now := time.Now()
		affected, err := repo.UpdateIfStatus(ctx, orderID, enums.StoreOrderStatusPending, map[string]any{
			"status":        enums.StoreOrderStatusRejected,
			"reject_reason": input.Reason,
			"reviewed_by":   actor.UserID,
			"reviewed_at":   now,
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "order was modified concurrently")
		}

		oldStatus := order.Status.String()
		order.Status = enums.StoreOrderStatusRejected
		order.RejectReason = &input.Reason
		order.ReviewedBy = &actor.UserID
		order.ReviewedAt = &now

		if err := s.history.AppendTx(ctx, tx, history.Entry{
			RefType:   enums.OrderRefTypeStoreOrder,
			OrderID:   order.ID,
			OldStatus: &oldStatus,
			NewStatus: order.Status.String(),
			ChangedBy: &actor.UserID,
			Comment:   &input.Reason,
		}); err != nil {
			return err
		}
		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderRejected,
			AggregateType: enums.AggregateStoreOrder,
			AggregateID:   order.ID,
			Actor:         buildActor(actor),
			Data: payloads.OrderRejectedEvent{
				OrderID:    order.ID,
				StoreID:    order.StoreID,
				RejectedBy: actor.UserID,
				Reason:     input.Reason,
			},
			Version: 1,
		}); err != nil {
			return err
		}
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) AssignPartner(ctx context.Context, actor auth.Actor, orderID uuid.UUID, input AssignPartnerInput) (*models.StoreOrder, error) {
	if actor.Role != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can assign partners")
	}
	if input.PartnerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "partner id required")
	}

	var result *models.StoreOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status != enums.StoreOrderStatusInTransit {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is not in transit").
				WithDetails(map[string]any{"status": order.Status.String()})
		}
		if order.PartnerID != nil {
			if *order.PartnerID == input.PartnerID {
				result = order
				return nil
			}
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order already has a partner assigned")
		}

		affected, err := repo.UpdateIfStatus(ctx, orderID, enums.StoreOrderStatusInTransit, map[string]any{
			"partner_id": input.PartnerID,
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "order was modified concurrently")
		}

		order.PartnerID = &input.PartnerID
		comment := "partner assigned"
		status := order.Status.String()
		if err := s.history.AppendTx(ctx, tx, history.Entry{
			RefType:   enums.OrderRefTypeStoreOrder,
			OrderID:   order.ID,
			OldStatus: &status,
			NewStatus: status,
			ChangedBy: &actor.UserID,
			Comment:   &comment,
		}); err != nil {
			return err
		}
		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventPartnerAssigned,
			AggregateType: enums.AggregateStoreOrder,
			AggregateID:   order.ID,
			Actor:         buildActor(actor),
			Data: payloads.PartnerAssignedEvent{
				OrderID:    order.ID,
				StoreID:    order.StoreID,
				PartnerID:  input.PartnerID,
				AssignedBy: actor.UserID,
			},
			Version: 1,
		}); err != nil {
			return err
		}
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) PartnerConfirm(ctx context.Context, actor auth.Actor, orderID uuid.UUID, input ConfirmInput) (*models.StoreOrder, error) {
	if actor.Role != enums.UserRolePartner {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only partners can confirm orders")
	}
	if input.PrepaymentAmount.Sign() < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "prepayment cannot be negative")
	}

	var result *models.StoreOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order.PartnerID == nil || *order.PartnerID != actor.UserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order is not assigned to this partner")
		}
		if order.Status != enums.StoreOrderStatusInTransit {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is not in transit").
				WithDetails(map[string]any{"status": order.Status.String()})
		}
		if input.PrepaymentAmount.GreaterThan(order.TotalAmount) {
			return pkgerrors.New(pkgerrors.CodeValidation, "prepayment exceeds order total")
		}

		itemsByID := make(map[uuid.UUID]models.StoreOrderItem, len(order.Items))
		for _, item := range order.Items {
			itemsByID[item.ID] = item
		}
		removed := make([]models.StoreOrderItem, 0, len(input.ItemsToRemove))
		seen := make(map[uuid.UUID]struct{}, len(input.ItemsToRemove))
		for _, id := range input.ItemsToRemove {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			item, ok := itemsByID[id]
			if !ok {
				return pkgerrors.New(pkgerrors.CodeValidation, "item does not belong to order").
					WithDetails(map[string]any{"item_id": id.String()})
			}
			if item.IsCancelled {
				continue
			}
			removed = append(removed, item)
		}

		now := time.Now()
		debt := computeDebt(order.TotalAmount, input.PrepaymentAmount, order.PaidAmount)
		affected, err := repo.UpdateIfStatus(ctx, orderID, enums.StoreOrderStatusInTransit, map[string]any{
			"status":            enums.StoreOrderStatusAccepted,
			"prepayment_amount": input.PrepaymentAmount,
			"debt_amount":       debt,
			"confirmed_by":      actor.UserID,
			"confirmed_at":      now,
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "order was modified concurrently")
		}

		// Removed lines are fulfilled from the partner's own stock, so the
		// order total stays put and the partner ledger goes down.
		for _, item := range removed {
			if err := s.inventory.DebitPartnerTx(ctx, tx, actor.UserID, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		oldStatus := order.Status.String()
		order.Status = enums.StoreOrderStatusAccepted
		order.PrepaymentAmount = input.PrepaymentAmount
		order.DebtAmount = debt
		order.ConfirmedBy = &actor.UserID
		order.ConfirmedAt = &now

		if err := s.history.AppendTx(ctx, tx, history.Entry{
			RefType:   enums.OrderRefTypeStoreOrder,
			OrderID:   order.ID,
			OldStatus: &oldStatus,
			NewStatus: order.Status.String(),
			ChangedBy: &actor.UserID,
		}); err != nil {
			return err
		}
		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderConfirmed,
			AggregateType: enums.AggregateStoreOrder,
			AggregateID:   order.ID,
			Actor:         buildActor(actor),
			Data: payloads.OrderConfirmedEvent{
				OrderID:          order.ID,
				StoreID:          order.StoreID,
				PartnerID:        actor.UserID,
				PrepaymentAmount: order.PrepaymentAmount,
				DebtAmount:       order.DebtAmount,
				RemovedItemIDs:   input.ItemsToRemove,
			},
			Version: 1,
		}); err != nil {
			return err
		}
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) StoreCancelItems(ctx context.Context, actor auth.Actor, orderID uuid.UUID, input CancelItemsInput) (*models.StoreOrder, error) {
	if actor.Role != enums.UserRoleStore {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only stores can cancel items")
	}
	if actor.StoreID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "actor has no store attached")
	}
	if len(input.ItemIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item ids required")
	}

	var result *models.StoreOrder
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order.StoreID != *actor.StoreID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another store")
		}
		if order.Status != enums.StoreOrderStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "items can only be cancelled while pending").
				WithDetails(map[string]any{"status": order.Status.String()})
		}

		itemsByID := make(map[uuid.UUID]int, len(order.Items))
		for i, item := range order.Items {
			itemsByID[item.ID] = i
		}
		toCancel := make([]uuid.UUID, 0, len(input.ItemIDs))
		for _, id := range input.ItemIDs {
			idx, ok := itemsByID[id]
			if !ok {
				return pkgerrors.New(pkgerrors.CodeValidation, "item does not belong to order").
					WithDetails(map[string]any{"item_id": id.String()})
			}
			if order.Items[idx].IsCancelled {
				continue
			}
			toCancel = append(toCancel, id)
		}
		if len(toCancel) == 0 {
			result = order
			return nil
		}

		if _, err := repo.CancelItems(ctx, orderID, toCancel); err != nil {
			return err
		}

		now := time.Now()
		for _, id := range toCancel {
			idx := itemsByID[id]
			order.Items[idx].IsCancelled = true
			order.Items[idx].CancelledAt = &now
		}
		total := decimal.Zero
		for _, item := range order.Items {
			total = total.Add(item.Total())
		}
		affected, err := repo.UpdateIfStatus(ctx, orderID, enums.StoreOrderStatusPending, map[string]any{
			"total_amount": total,
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "order was modified concurrently")
		}
		order.TotalAmount = total

		comment := "items cancelled"
		status := order.Status.String()
		if err := s.history.AppendTx(ctx, tx, history.Entry{
			RefType:   enums.OrderRefTypeStoreOrder,
			OrderID:   order.ID,
			OldStatus: &status,
			NewStatus: status,
			ChangedBy: &actor.UserID,
			Comment:   &comment,
		}); err != nil {
			return err
		}
		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderItemsCancelled,
			AggregateType: enums.AggregateStoreOrder,
			AggregateID:   order.ID,
			Actor:         buildActor(actor),
			Data: payloads.OrderItemsCancelledEvent{
				OrderID:     order.ID,
				StoreID:     order.StoreID,
				ItemIDs:     toCancel,
				TotalAmount: order.TotalAmount,
			},
			Version: 1,
		}); err != nil {
			return err
		}
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) GetOrder(ctx context.Context, actor auth.Actor, orderID uuid.UUID) (*models.StoreOrder, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := assertCanView(actor, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) ListOrders(ctx context.Context, actor auth.Actor, filters Filters, params pagination.Params) (*List, error) {
	switch actor.Role {
	case enums.UserRoleAdmin:
	case enums.UserRoleStore:
		if actor.StoreID == nil {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "actor has no store attached")
		}
		filters.StoreID = actor.StoreID
	case enums.UserRolePartner:
		partnerID := actor.UserID
		filters.PartnerID = &partnerID
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "unknown role")
	}

	rows, err := s.repo.ListOrders(ctx, filters, params)
	if err != nil {
		return nil, err
	}

	limit := pagination.NormalizeLimit(params.Limit)
	list := &List{Orders: rows}
	if len(rows) > limit {
		list.Orders = rows[:limit]
		last := list.Orders[limit-1]
		cursor := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		list.NextCursor = &cursor
	}
	return list, nil
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

func buildActor(actor auth.Actor) *outbox.ActorRef {
	return &outbox.ActorRef{
		UserID:  actor.UserID,
		StoreID: actor.StoreID,
		Role:    actor.Role.String(),
	}
}

func computeDebt(total, prepayment, paid decimal.Decimal) decimal.Decimal {
	debt := total.Sub(prepayment).Sub(paid)
	if debt.Sign() < 0 {
		return decimal.Zero
	}
	return debt
}
