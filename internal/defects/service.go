package defects

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adiletbaev/distribo-backend/pkg/auth"
	"github.com/adiletbaev/distribo-backend/pkg/db/models"
	"github.com/adiletbaev/distribo-backend/pkg/enums"
	pkgerrors "github.com/adiletbaev/distribo-backend/pkg/errors"
	"github.com/adiletbaev/distribo-backend/pkg/outbox"
	"github.com/adiletbaev/distribo-backend/pkg/outbox/payloads"
	"github.com/adiletbaev/distribo-backend/pkg/pagination"
)

// Service runs the defect claim workflow. Claims can only target accepted
// orders and their decisions never move the order's debt figures.
type Service interface {
	Report(ctx context.Context, actor auth.Actor, input ReportInput) (*models.DefectiveProduct, error)
	Decide(ctx context.Context, actor auth.Actor, defectID uuid.UUID, input DecideInput) (*models.DefectiveProduct, error)
	Get(ctx context.Context, actor auth.Actor, defectID uuid.UUID) (*models.DefectiveProduct, error)
	List(ctx context.Context, actor auth.Actor, filters Filters, params pagination.Params) ([]models.DefectiveProduct, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
}

// NewService wires the defect workflow with its collaborators.
func NewService(repo Repository, tx txRunner, publisher outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("defects repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{repo: repo, tx: tx, outbox: publisher}, nil
}

func (s *service) Report(ctx context.Context, actor auth.Actor, input ReportInput) (*models.DefectiveProduct, error) {
	if actor.Role != enums.UserRoleStore {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only stores can report defects")
	}
	if actor.StoreID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "actor has no store attached")
	}
	if input.Quantity.Sign() <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "defect quantity must be positive")
	}
	if input.Reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "defect reason required")
	}

	var defect *models.DefectiveProduct
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrderByID(ctx, input.OrderID)
		if err != nil {
			return err
		}
		if order.StoreID != *actor.StoreID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another store")
		}
		if order.Status != enums.StoreOrderStatusAccepted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "defects can only be reported on accepted orders").
				WithDetails(map[string]any{"status": order.Status.String()})
		}

		var line *models.StoreOrderItem
		for i := range order.Items {
			if order.Items[i].ProductID == input.ProductID && !order.Items[i].IsCancelled {
				line = &order.Items[i]
				break
			}
		}
		if line == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "product is not part of the order").
				WithDetails(map[string]any{"product_id": input.ProductID.String()})
		}
		if input.Quantity.GreaterThan(line.Quantity) {
			return pkgerrors.New(pkgerrors.CodeValidation, "defect quantity exceeds ordered quantity").
				WithDetails(map[string]any{"ordered": line.Quantity.String()})
		}

		defect = &models.DefectiveProduct{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   input.ProductID,
			Quantity:    input.Quantity,
			Price:       line.Price,
			TotalAmount: line.Price.Mul(input.Quantity),
			Reason:      input.Reason,
			Status:      enums.DefectStatusPending,
			ReportedBy:  actor.UserID,
		}
		if err := repo.Insert(ctx, defect); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventDefectReported,
			AggregateType: enums.AggregateDefectiveProduct,
			AggregateID:   defect.ID,
			Actor:         buildActor(actor),
			Data: payloads.DefectReportedEvent{
				DefectID:   defect.ID,
				OrderID:    order.ID,
				StoreID:    order.StoreID,
				ProductID:  defect.ProductID,
				Quantity:   defect.Quantity,
				ReportedBy: actor.UserID,
			},
			Version: 1,
		})
	})
	if err != nil {
		return nil, err
	}
	return defect, nil
}

func (s *service) Decide(ctx context.Context, actor auth.Actor, defectID uuid.UUID, input DecideInput) (*models.DefectiveProduct, error) {
	if actor.Role != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can decide defect claims")
	}

	decision := enums.DefectStatusRejected
	if input.Approve {
		decision = enums.DefectStatusApproved
	}

	var result *models.DefectiveProduct
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		defect, err := repo.FindByID(ctx, defectID)
		if err != nil {
			return err
		}
		if defect.Status == decision {
			result = defect
			return nil
		}
		if defect.Status != enums.DefectStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "defect claim already decided").
				WithDetails(map[string]any{"status": defect.Status.String()})
		}

		order, err := repo.FindOrderByID(ctx, defect.OrderID)
		if err != nil {
			return err
		}

		now := time.Now()
		affected, err := repo.UpdateIfStatus(ctx, defectID, enums.DefectStatusPending, map[string]any{
			"status":      decision,
			"reviewed_by": actor.UserID,
			"reviewed_at": now,
		})
		if err != nil {
			return err
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "defect claim was modified concurrently")
		}

		defect.Status = decision
		defect.ReviewedBy = &actor.UserID
		defect.ReviewedAt = &now

		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventDefectDecided,
			AggregateType: enums.AggregateDefectiveProduct,
			AggregateID:   defect.ID,
			Actor:         buildActor(actor),
			Data: payloads.DefectDecidedEvent{
				DefectID:  defect.ID,
				OrderID:   defect.OrderID,
				StoreID:   order.StoreID,
				Status:    decision,
				DecidedBy: actor.UserID,
			},
			Version: 1,
		}); err != nil {
			return err
		}
		result = defect
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, actor auth.Actor, defectID uuid.UUID) (*models.DefectiveProduct, error) {
	defect, err := s.repo.FindByID(ctx, defectID)
	if err != nil {
		return nil, err
	}
	if actor.Role == enums.UserRoleAdmin {
		return defect, nil
	}
	order, err := s.repo.FindOrderByID(ctx, defect.OrderID)
	if err != nil {
		return nil, err
	}
	if actor.Role == enums.UserRoleStore && actor.StoreID != nil && *actor.StoreID == order.StoreID {
		return defect, nil
	}
	if actor.Role == enums.UserRolePartner && order.PartnerID != nil && *order.PartnerID == actor.UserID {
		return defect, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeForbidden, "no access to this defect claim")
}

func (s *service) List(ctx context.Context, actor auth.Actor, filters Filters, params pagination.Params) ([]models.DefectiveProduct, error) {
	switch actor.Role {
	case enums.UserRoleAdmin:
	case enums.UserRoleStore:
		if actor.StoreID == nil {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "actor has no store attached")
		}
		filters.StoreID = actor.StoreID
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "no access to defect claims")
	}
	return s.repo.List(ctx, filters, params)
}

func buildActor(actor auth.Actor) *outbox.ActorRef {
	return &outbox.ActorRef{
		UserID:  actor.UserID,
		StoreID: actor.StoreID,
		Role:    actor.Role.String(),
	}
}
