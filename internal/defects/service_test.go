package defects

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/adiletbaev/distribo-backend/pkg/auth"
	"github.com/adiletbaev/distribo-backend/pkg/db/models"
	"github.com/adiletbaev/distribo-backend/pkg/enums"
	pkgerrors "github.com/adiletbaev/distribo-backend/pkg/errors"
	"github.com/adiletbaev/distribo-backend/pkg/outbox"
	"github.com/adiletbaev/distribo-backend/pkg/pagination"
)

type stubDefectsRepo struct {
	order   *models.StoreOrder
	defect  *models.DefectiveProduct
	created *models.DefectiveProduct
	listed  []models.DefectiveProduct
	filters Filters
}

func (s *stubDefectsRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubDefectsRepo) FindOrderByID(ctx context.Context, id uuid.UUID) (*models.StoreOrder, error) {
	if s.order == nil || s.order.ID != id {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return s.order, nil
}

func (s *stubDefectsRepo) Insert(ctx context.Context, defect *models.DefectiveProduct) error {
	s.created = defect
	return nil
}

func (s *stubDefectsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.DefectiveProduct, error) {
	if s.defect == nil || s.defect.ID != id {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "defect claim not found")
	}
	return s.defect, nil
}

func (s *stubDefectsRepo) UpdateIfStatus(ctx context.Context, id uuid.UUID, expected enums.DefectStatus, updates map[string]any) (int64, error) {
	if s.defect == nil || s.defect.ID != id || s.defect.Status != expected {
		return 0, nil
	}
	if v, ok := updates["status"].(enums.DefectStatus); ok {
		s.defect.Status = v
	}
	return 1, nil
}

func (s *stubDefectsRepo) List(ctx context.Context, filters Filters, params pagination.Params) ([]models.DefectiveProduct, error) {
	s.filters = filters
	return s.listed, nil
}

type stubOutboxPublisher struct {
	events []outbox.DomainEvent
}

func (s *stubOutboxPublisher) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func acceptedOrder(storeID uuid.UUID) *models.StoreOrder {
	orderID := uuid.New()
	return &models.StoreOrder{
		ID:          orderID,
		StoreID:     storeID,
		Status:      enums.StoreOrderStatusAccepted,
		TotalAmount: dec("90"),
		DebtAmount:  dec("70"),
		Items: []models.StoreOrderItem{
			{ID: uuid.New(), OrderID: orderID, ProductID: uuid.New(), Quantity: dec("10"), Price: dec("5")},
		},
	}
}

func storeActor(storeID uuid.UUID) auth.Actor {
	return auth.Actor{UserID: uuid.New(), Role: enums.UserRoleStore, StoreID: &storeID}
}

func newTestService(repo *stubDefectsRepo, pub *stubOutboxPublisher) Service {
	svc, err := NewService(repo, stubTxRunner{}, pub)
	if err != nil {
		panic(err)
	}
	return svc
}

func TestReportDefectOnAcceptedOrder(t *testing.T) {
	storeID := uuid.New()
	order := acceptedOrder(storeID)
	repo := &stubDefectsRepo{order: order}
	pub := &stubOutboxPublisher{}
	svc := newTestService(repo, pub)

	defect, err := svc.Report(context.Background(), storeActor(storeID), ReportInput{
		OrderID:   order.ID,
		ProductID: order.Items[0].ProductID,
		Quantity:  dec("3"),
		Reason:    "broken packaging",
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if defect.Status != enums.DefectStatusPending {
		t.Fatalf("expected pending got %s", defect.Status)
	}
	if !defect.TotalAmount.Equal(dec("15")) {
		t.Fatalf("expected claim total 15 got %s", defect.TotalAmount)
	}
	if !order.DebtAmount.Equal(dec("70")) {
		t.Fatal("defect report must not touch order debt")
	}
	if len(pub.events) != 1 || pub.events[0].EventType != enums.EventDefectReported {
		t.Fatalf("expected defect_reported event got %+v", pub.events)
	}
}

func TestReportDefectRejectsPendingOrder(t *testing.T) {
	storeID := uuid.New()
	order := acceptedOrder(storeID)
	order.Status = enums.StoreOrderStatusPending
	svc := newTestService(&stubDefectsRepo{order: order}, &stubOutboxPublisher{})

	_, err := svc.Report(context.Background(), storeActor(storeID), ReportInput{
		OrderID:   order.ID,
		ProductID: order.Items[0].ProductID,
		Quantity:  dec("1"),
		Reason:    "broken",
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict got %v", err)
	}
}

func TestReportDefectForeignProduct(t *testing.T) {
	storeID := uuid.New()
	order := acceptedOrder(storeID)
	svc := newTestService(&stubDefectsRepo{order: order}, &stubOutboxPublisher{})

	_, err := svc.Report(context.Background(), storeActor(storeID), ReportInput{
		OrderID:   order.ID,
		ProductID: uuid.New(),
		Quantity:  dec("1"),
		Reason:    "broken",
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestReportDefectQuantityExceedsLine(t *testing.T) {
	storeID := uuid.New()
	order := acceptedOrder(storeID)
	svc := newTestService(&stubDefectsRepo{order: order}, &stubOutboxPublisher{})

	_, err := svc.Report(context.Background(), storeActor(storeID), ReportInput{
		OrderID:   order.ID,
		ProductID: order.Items[0].ProductID,
		Quantity:  dec("11"),
		Reason:    "broken",
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestReportDefectWrongStore(t *testing.T) {
	order := acceptedOrder(uuid.New())
	svc := newTestService(&stubDefectsRepo{order: order}, &stubOutboxPublisher{})

	_, err := svc.Report(context.Background(), storeActor(uuid.New()), ReportInput{
		OrderID:   order.ID,
		ProductID: order.Items[0].ProductID,
		Quantity:  dec("1"),
		Reason:    "broken",
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden got %v", err)
	}
}

func TestDecideApprovesPendingClaim(t *testing.T) {
	storeID := uuid.New()
	order := acceptedOrder(storeID)
	defect := &models.DefectiveProduct{
		ID:        uuid.New(),
		OrderID:   order.ID,
		ProductID: order.Items[0].ProductID,
		Quantity:  dec("3"),
		Status:    enums.DefectStatusPending,
	}
	repo := &stubDefectsRepo{order: order, defect: defect}
	pub := &stubOutboxPublisher{}
	svc := newTestService(repo, pub)

	admin := auth.Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin}
	decided, err := svc.Decide(context.Background(), admin, defect.ID, DecideInput{Approve: true})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if decided.Status != enums.DefectStatusApproved {
		t.Fatalf("expected approved got %s", decided.Status)
	}
	if !order.DebtAmount.Equal(dec("70")) {
		t.Fatal("defect decision must not touch order debt")
	}
	if len(pub.events) != 1 || pub.events[0].EventType != enums.EventDefectDecided {
		t.Fatalf("expected defect_decided event got %+v", pub.events)
	}
}

func TestDecideIdempotent(t *testing.T) {
	order := acceptedOrder(uuid.New())
	defect := &models.DefectiveProduct{ID: uuid.New(), OrderID: order.ID, Status: enums.DefectStatusApproved}
	pub := &stubOutboxPublisher{}
	svc := newTestService(&stubDefectsRepo{order: order, defect: defect}, pub)

	admin := auth.Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin}
	if _, err := svc.Decide(context.Background(), admin, defect.ID, DecideInput{Approve: true}); err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(pub.events) != 0 {
		t.Fatal("no-op decision must not emit an event")
	}
}

func TestDecideAlreadyDecidedOtherWay(t *testing.T) {
	order := acceptedOrder(uuid.New())
	defect := &models.DefectiveProduct{ID: uuid.New(), OrderID: order.ID, Status: enums.DefectStatusRejected}
	svc := newTestService(&stubDefectsRepo{order: order, defect: defect}, &stubOutboxPublisher{})

	admin := auth.Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin}
	_, err := svc.Decide(context.Background(), admin, defect.ID, DecideInput{Approve: true})
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict got %v", err)
	}
}

func TestDecideRequiresAdmin(t *testing.T) {
	svc := newTestService(&stubDefectsRepo{}, &stubOutboxPublisher{})
	_, err := svc.Decide(context.Background(), storeActor(uuid.New()), uuid.New(), DecideInput{Approve: true})
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden got %v", err)
	}
}

func TestListScopesStoreToOwnClaims(t *testing.T) {
	storeID := uuid.New()
	repo := &stubDefectsRepo{}
	svc := newTestService(repo, &stubOutboxPublisher{})

	_, err := svc.List(context.Background(), storeActor(storeID), Filters{}, pagination.Params{})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if repo.filters.StoreID == nil || *repo.filters.StoreID != storeID {
		t.Fatal("expected store filter forced from actor")
	}
}
