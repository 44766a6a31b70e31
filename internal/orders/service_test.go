package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/adiletbaev/distribo-backend/internal/history"
	"github.com/adiletbaev/distribo-backend/pkg/auth"
	"github.com/adiletbaev/distribo-backend/pkg/db/models"
	"github.com/adiletbaev/distribo-backend/pkg/enums"
	pkgerrors "github.com/adiletbaev/distribo-backend/pkg/errors"
	"github.com/adiletbaev/distribo-backend/pkg/outbox"
	"github.com/adiletbaev/distribo-backend/pkg/pagination"
)

type stubOrdersRepo struct {
	order          *models.StoreOrder
	byKey          map[string]*models.StoreOrder
	created        *models.StoreOrder
	updates        map[string]any
	updateAffected *int64
	cancelled      []uuid.UUID
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubOrdersRepo) Create(ctx context.Context, order *models.StoreOrder) error {
	s.created = order
	return nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.StoreOrder, error) {
	if s.order == nil || s.order.ID != id {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return s.order, nil
}

func (s *stubOrdersRepo) FindByIdempotencyKey(ctx context.Context, key string) (*models.StoreOrder, error) {
	if s.byKey == nil {
		return nil, nil
	}
	return s.byKey[key], nil
}

func (s *stubOrdersRepo) UpdateIfStatus(ctx context.Context, id uuid.UUID, expected enums.StoreOrderStatus, updates map[string]any) (int64, error) {
	s.updates = updates
	if s.updateAffected != nil {
		return *s.updateAffected, nil
	}
	if s.order == nil || s.order.ID != id || s.order.Status != expected {
		return 0, nil
	}
	for key, value := range updates {
		switch key {
		case "status":
			if v, ok := value.(enums.StoreOrderStatus); ok {
				s.order.Status = v
			}
		case "partner_id":
			if v, ok := value.(uuid.UUID); ok {
				s.order.PartnerID = &v
			}
		case "total_amount":
			if v, ok := value.(decimal.Decimal); ok {
				s.order.TotalAmount = v
			}
		case "prepayment_amount":
			if v, ok := value.(decimal.Decimal); ok {
				s.order.PrepaymentAmount = v
			}
		case "debt_amount":
			if v, ok := value.(decimal.Decimal); ok {
				s.order.DebtAmount = v
			}
		}
	}
	return 1, nil
}

func (s *stubOrdersRepo) CancelItems(ctx context.Context, orderID uuid.UUID, itemIDs []uuid.UUID) (int64, error) {
	s.cancelled = append(s.cancelled, itemIDs...)
	return int64(len(itemIDs)), nil
}

func (s *stubOrdersRepo) ListOrders(ctx context.Context, filters Filters, params pagination.Params) ([]models.StoreOrder, error) {
	if s.order == nil {
		return nil, nil
	}
	return []models.StoreOrder{*s.order}, nil
}

type stubOutboxPublisher struct {
	events []outbox.DomainEvent
	err    error
}

func (s *stubOutboxPublisher) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, event)
	return nil
}

type inventoryCall struct {
	ownerID   uuid.UUID
	productID uuid.UUID
	qty       decimal.Decimal
}

type stubInventory struct {
	credits []inventoryCall
	debits  []inventoryCall
	err     error
}

func (s *stubInventory) CreditStoreTx(ctx context.Context, tx *gorm.DB, storeID, productID uuid.UUID, qty decimal.Decimal) error {
	if s.err != nil {
		return s.err
	}
	s.credits = append(s.credits, inventoryCall{ownerID: storeID, productID: productID, qty: qty})
	return nil
}

func (s *stubInventory) DebitPartnerTx(ctx context.Context, tx *gorm.DB, partnerID, productID uuid.UUID, qty decimal.Decimal) error {
	if s.err != nil {
		return s.err
	}
	s.debits = append(s.debits, inventoryCall{ownerID: partnerID, productID: productID, qty: qty})
	return nil
}

func (s *stubInventory) StoreLevels(ctx context.Context, storeID uuid.UUID) ([]models.StoreInventory, error) {
	panic("not implemented")
}

func (s *stubInventory) PartnerLevels(ctx context.Context, partnerID uuid.UUID) ([]models.PartnerInventory, error) {
	panic("not implemented")
}

type stubHistory struct {
	entries []history.Entry
}

func (s *stubHistory) AppendTx(ctx context.Context, tx *gorm.DB, entry history.Entry) error {
	s.entries = append(s.entries, entry)
	return nil
}

func (s *stubHistory) List(ctx context.Context, refType enums.OrderRefType, orderID uuid.UUID, params pagination.Params) ([]models.OrderHistory, error) {
	panic("not implemented")
}

type stubCatalog struct {
	products map[uuid.UUID]models.Product
}

func (s *stubCatalog) ResolveActive(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	resolved := make(map[uuid.UUID]models.Product, len(productIDs))
	for _, id := range productIDs {
		p, ok := s.products[id]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		resolved[id] = p
	}
	return resolved, nil
}

func (s *stubCatalog) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	panic("not implemented")
}

func (s *stubCatalog) List(ctx context.Context, activeOnly bool) ([]models.Product, error) {
	panic("not implemented")
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService(repo *stubOrdersRepo, pub *stubOutboxPublisher, inv *stubInventory, rec *stubHistory, cat *stubCatalog) Service {
	if cat == nil {
		cat = &stubCatalog{}
	}
	svc, err := NewService(repo, stubTxRunner{}, pub, inv, rec, cat)
	if err != nil {
		panic(err)
	}
	return svc
}

func ptr[T any](v T) *T {
	return &v
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func storeActor(storeID uuid.UUID) auth.Actor {
	return auth.Actor{UserID: uuid.New(), Role: enums.UserRoleStore, StoreID: &storeID}
}

func adminActor() auth.Actor {
	return auth.Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin}
}

func partnerActor(userID uuid.UUID) auth.Actor {
	return auth.Actor{UserID: userID, Role: enums.UserRolePartner}
}

func TestCreateOrderComputesTotal(t *testing.T) {
	storeID := uuid.New()
	p1 := models.Product{ID: uuid.New(), Price: dec("5"), IsActive: true}
	p2 := models.Product{ID: uuid.New(), Price: dec("20"), IsActive: true}
	repo := &stubOrdersRepo{}
	pub := &stubOutboxPublisher{}
	rec := &stubHistory{}
	svc := newTestService(repo, pub, &stubInventory{}, rec, &stubCatalog{products: map[uuid.UUID]models.Product{p1.ID: p1, p2.ID: p2}})

	order, err := svc.CreateOrder(context.Background(), storeActor(storeID), CreateOrderInput{
		Items: []CreateItemInput{
			{ProductID: p1.ID, Quantity: dec("10")},
			{ProductID: p2.ID, Quantity: dec("2")},
		},
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if order.Status != enums.StoreOrderStatusPending {
		t.Fatalf("expected pending got %s", order.Status)
	}
	if !order.TotalAmount.Equal(dec("90")) {
		t.Fatalf("expected total 90 got %s", order.TotalAmount)
	}
	if !order.DebtAmount.IsZero() {
		t.Fatalf("expected zero debt got %s", order.DebtAmount)
	}
	if repo.created == nil || len(repo.created.Items) != 2 {
		t.Fatal("expected order with two items persisted")
	}
	if len(pub.events) != 1 || pub.events[0].EventType != enums.EventOrderCreated {
		t.Fatalf("expected order_created event got %+v", pub.events)
	}
	if len(rec.entries) != 1 || rec.entries[0].OldStatus != nil {
		t.Fatalf("expected creation history line got %+v", rec.entries)
	}
}

func TestCreateOrderBonusItemPricedZero(t *testing.T) {
	storeID := uuid.New()
	p1 := models.Product{ID: uuid.New(), Price: dec("15"), IsActive: true}
	repo := &stubOrdersRepo{}
	svc := newTestService(repo, &stubOutboxPublisher{}, &stubInventory{}, &stubHistory{}, &stubCatalog{products: map[uuid.UUID]models.Product{p1.ID: p1}})

	order, err := svc.CreateOrder(context.Background(), storeActor(storeID), CreateOrderInput{
		Items: []CreateItemInput{
			{ProductID: p1.ID, Quantity: dec("3")},
			{ProductID: p1.ID, Quantity: dec("1"), IsBonus: true},
		},
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if !order.TotalAmount.Equal(dec("45")) {
		t.Fatalf("expected total 45 got %s", order.TotalAmount)
	}
	if !order.Items[1].Price.IsZero() {
		t.Fatalf("expected bonus line priced zero got %s", order.Items[1].Price)
	}
}

func TestCreateOrderSuppliedPriceOverridesCatalog(t *testing.T) {
	storeID := uuid.New()
	p1 := models.Product{ID: uuid.New(), Price: dec("15"), IsActive: true}
	repo := &stubOrdersRepo{}
	svc := newTestService(repo, &stubOutboxPublisher{}, &stubInventory{}, &stubHistory{}, &stubCatalog{products: map[uuid.UUID]models.Product{p1.ID: p1}})

	order, err := svc.CreateOrder(context.Background(), storeActor(storeID), CreateOrderInput{
		Items: []CreateItemInput{
			{ProductID: p1.ID, Quantity: dec("2"), Price: ptr(dec("12"))},
		},
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if !order.Items[0].Price.Equal(dec("12")) {
		t.Fatalf("expected supplied price 12 got %s", order.Items[0].Price)
	}
	if !order.TotalAmount.Equal(dec("24")) {
		t.Fatalf("expected total 24 got %s", order.TotalAmount)
	}
}

func TestCreateOrderRejectsNegativeSuppliedPrice(t *testing.T) {
	p1 := models.Product{ID: uuid.New(), Price: dec("15"), IsActive: true}
	svc := newTestService(&stubOrdersRepo{}, &stubOutboxPublisher{}, &stubInventory{}, &stubHistory{}, &stubCatalog{products: map[uuid.UUID]models.Product{p1.ID: p1}})

	_, err := svc.CreateOrder(context.Background(), storeActor(uuid.New()), CreateOrderInput{
		Items: []CreateItemInput{
			{ProductID: p1.ID, Quantity: dec("1"), Price: ptr(dec("-1"))},
		},
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestCreateOrderIdempotencyKeyReturnsExisting(t *testing.T) {
	storeID := uuid.New()
	existing := &models.StoreOrder{ID: uuid.New(), StoreID: storeID, Status: enums.StoreOrderStatusPending}
	repo := &stubOrdersRepo{byKey: map[string]*models.StoreOrder{"req-1": existing}}
	pub := &stubOutboxPublisher{}
	p1 := models.Product{ID: uuid.New(), Price: dec("5"), IsActive: true}
	svc := newTestService(repo, pub, &stubInventory{}, &stubHistory{}, &stubCatalog{products: map[uuid.UUID]models.Product{p1.ID: p1}})

	order, err := svc.CreateOrder(context.Background(), storeActor(storeID), CreateOrderInput{
		Items:          []CreateItemInput{{ProductID: p1.ID, Quantity: dec("1")}},
		IdempotencyKey: ptr("req-1"),
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if order.ID != existing.ID {
		t.Fatalf("expected existing order returned")
	}
	if repo.created != nil {
		t.Fatal("unexpected create call")
	}
	if len(pub.events) != 0 {
		t.Fatal("unexpected outbox event")
	}
}

func TestCreateOrderRejectsNonStore(t *testing.T) {
	svc := newTestService(&stubOrdersRepo{}, &stubOutboxPublisher{}, &stubInventory{}, &stubHistory{}, nil)
	_, err := svc.CreateOrder(context.Background(), adminActor(), CreateOrderInput{
		Items: []CreateItemInput{{ProductID: uuid.New(), Quantity: dec("1")}},
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden got %v", err)
	}
}

func pendingOrder(storeID uuid.UUID) *models.StoreOrder {
	orderID := uuid.New()
	return &models.StoreOrder{
		ID:          orderID,
		StoreID:     storeID,
		Status:      enums.StoreOrderStatusPending,
		TotalAmount: dec("90"),
		Items: []models.StoreOrderItem{
			{ID: uuid.New(), OrderID: orderID, ProductID: uuid.New(), Quantity: dec("10"), Price: dec("5")},
			{ID: uuid.New(), OrderID: orderID, ProductID: uuid.New(), Quantity: dec("2"), Price: dec("20")},
		},
	}
}

func TestAdminApproveCreditsStoreInventory(t *testing.T) {
	storeID := uuid.New()
	order := pendingOrder(storeID)
	repo := &stubOrdersRepo{order: order}
	pub := &stubOutboxPublisher{}
	inv := &stubInventory{}
	rec := &stubHistory{}
	svc := newTestService(repo, pub, inv, rec, nil)

	partnerID := uuid.New()
	updated, err := svc.AdminApprove(context.Background(), adminActor(), order.ID, ApproveInput{PartnerID: &partnerID})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if updated.Status != enums.StoreOrderStatusInTransit {
		t.Fatalf("expected in_transit got %s", updated.Status)
	}
	if updated.PartnerID == nil || *updated.PartnerID != partnerID {
		t.Fatal("expected partner assigned")
	}
	if len(inv.credits) != 2 {
		t.Fatalf("expected 2 inventory credits got %d", len(inv.credits))
	}
	if inv.credits[0].ownerID != storeID || !inv.credits[0].qty.Equal(dec("10")) {
		t.Fatalf("unexpected credit %+v", inv.credits[0])
	}
	if len(pub.events) != 1 || pub.events[0].EventType != enums.EventOrderApproved {
		t.Fatalf("expected order_approved event got %+v", pub.events)
	}
	if len(rec.entries) != 1 || rec.entries[0].NewStatus != enums.StoreOrderStatusInTransit.String() {
		t.Fatalf("expected transition history got %+v", rec.entries)
	}
}

func TestAdminApproveSkipsCancelledItems(t *testing.T) {
	storeID := uuid.New()
	order := pendingOrder(storeID)
	order.Items[0].IsCancelled = true
	repo := &stubOrdersRepo{order: order}
	inv := &stubInventory{}
	svc := newTestService(repo, &stubOutboxPublisher{}, inv, &stubHistory{}, nil)

	if _, err := svc.AdminApprove(context.Background(), adminActor(), order.ID, ApproveInput{}); err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(inv.credits) != 1 {
		t.Fatalf("expected 1 inventory credit got %d", len(inv.credits))
	}
}

func TestAdminApproveRepeatFails(t *testing.T) {
	order := pendingOrder(uuid.New())
	order.Status = enums.StoreOrderStatusInTransit
	order.PartnerID = ptr(uuid.New())
	repo := &stubOrdersRepo{order: order}
	pub := &stubOutboxPublisher{}
	inv := &stubInventory{}
	svc := newTestService(repo, pub, inv, &stubHistory{}, nil)

	// A second approval must fail even with a different partner, never
	// silently reassign.
	_, err := svc.AdminApprove(context.Background(), adminActor(), order.ID, ApproveInput{PartnerID: ptr(uuid.New())})
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict got %v", err)
	}
	if len(pub.events) != 0 || len(inv.credits) != 0 {
		t.Fatal("failed approve must not touch inventory or outbox")
	}
}

func TestAdminApproveInvalidState(t *testing.T) {
	order := pendingOrder(uuid.New())
	order.Status = enums.StoreOrderStatusAccepted
	svc := newTestService(&stubOrdersRepo{order: order}, &stubOutboxPublisher{}, &stubInventory{}, &stubHistory{}, nil)

	_, err := svc.AdminApprove(context.Background(), adminActor(), order.ID, ApproveInput{})
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict got %v", err)
	}
}

func TestAdminApproveConcurrentLoss(t *testing.T) {
	order := pendingOrder(uuid.New())
	repo := &stubOrdersRepo{order: order, updateAffected: ptr(int64(0))}
	svc := newTestService(repo, &stubOutboxPublisher{}, &stubInventory{}, &stubHistory{}, nil)

	_, err := svc.AdminApprove(context.Background(), adminActor(), order.ID, ApproveInput{})
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict got %v", err)
	}
}

func TestAdminRejectTerminal(t *testing.T) {
	order := pendingOrder(uuid.New())
	repo := &stubOrdersRepo{order: order}
	pub := &stubOutboxPublisher{}
	svc := newTestService(repo, pub, &stubInventory{}, &stubHistory{}, nil)

	updated, err := svc.AdminReject(context.Background(), adminActor(), order.ID, RejectInput{Reason: "out of stock"})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if updated.Status != enums.StoreOrderStatusRejected {
		t.Fatalf("expected rejected got %s", updated.Status)
	}
	if updated.RejectReason == nil || *updated.RejectReason != "out of stock" {
		t.Fatal("expected reject reason recorded")
	}
	if len(pub.events) != 1 || pub.events[0].EventType != enums.EventOrderRejected {
		t.Fatalf("expected order_rejected event got %+v", pub.events)
	}
}

func TestAdminRejectRepeatFails(t *testing.T) {
	order := pendingOrder(uuid.New())
	order.Status = enums.StoreOrderStatusRejected
	pub := &stubOutboxPublisher{}
	svc := newTestService(&stubOrdersRepo{order: order}, pub, &stubInventory{}, &stubHistory{}, nil)

	_, err := svc.AdminReject(context.Background(), adminActor(), order.ID, RejectInput{Reason: "again"})
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict got %v", err)
	}
	if len(pub.events) != 0 {
		t.Fatal("failed reject must not emit an event")
	}
}

func TestAdminRejectRequiresReason(t *testing.T) {
	svc := newTestService(&stubOrdersRepo{}, &stubOutboxPublisher{}, &stubInventory{}, &stubHistory{}, nil)
	_, err := svc.AdminReject(context.Background(), adminActor(), uuid.New(), RejectInput{})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestAssignPartnerOnInTransitOrder(t *testing.T) {
	order := pendingOrder(uuid.New())
	order.Status = enums.StoreOrderStatusInTransit
	repo := &stubOrdersRepo{order: order}
	pub := &stubOutboxPublisher{}
	svc := newTestService(repo, pub, &stubInventory{}, &stubHistory{}, nil)

	partnerID := uuid.New()
	updated, err := svc.AssignPartner(context.Background(), adminActor(), order.ID, AssignPartnerInput{PartnerID: partnerID})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if updated.PartnerID == nil || *updated.PartnerID != partnerID {
		t.Fatal("expected partner assigned")
	}
	if len(pub.events) != 1 || pub.events[0].EventType != enums.EventPartnerAssigned {
		t.Fatalf("expected partner_assigned event got %+v", pub.events)
	}
}

func TestAssignPartnerAlreadyAssigned(t *testing.T) {
	order := pendingOrder(uuid.New())
	order.Status = enums.StoreOrderStatusInTransit
	order.PartnerID = ptr(uuid.New())
	svc := newTestService(&stubOrdersRepo{order: order}, &stubOutboxPublisher{}, &stubInventory{}, &stubHistory{}, nil)

	_, err := svc.AssignPartner(context.Background(), adminActor(), order.ID, AssignPartnerInput{PartnerID: uuid.New()})
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict got %v", err)
	}
}

func TestPartnerConfirmSettlesDebt(t *testing.T) {
	storeID := uuid.New()
	partnerID := uuid.New()
	order := pendingOrder(storeID)
	order.Status = enums.StoreOrderStatusInTransit
	order.PartnerID = &partnerID
	repo := &stubOrdersRepo{order: order}
	pub := &stubOutboxPublisher{}
	inv := &stubInventory{}
	svc := newTestService(repo, pub, inv, &stubHistory{}, nil)

	removedID := order.Items[1].ID
	updated, err := svc.PartnerConfirm(context.Background(), partnerActor(partnerID), order.ID, ConfirmInput{
		PrepaymentAmount: dec("20"),
		ItemsToRemove:    []uuid.UUID{removedID},
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if updated.Status != enums.StoreOrderStatusAccepted {
		t.Fatalf("expected accepted got %s", updated.Status)
	}
	if !updated.DebtAmount.Equal(dec("70")) {
		t.Fatalf("expected debt 70 got %s", updated.DebtAmount)
	}
	if !updated.TotalAmount.Equal(dec("90")) {
		t.Fatalf("removal must not change total, got %s", updated.TotalAmount)
	}
	if len(inv.debits) != 1 || inv.debits[0].ownerID != partnerID || !inv.debits[0].qty.Equal(dec("2")) {
		t.Fatalf("unexpected partner debits %+v", inv.debits)
	}
	if len(pub.events) != 1 || pub.events[0].EventType != enums.EventOrderConfirmed {
		t.Fatalf("expected order_confirmed event got %+v", pub.events)
	}
}

func TestPartnerConfirmRepeatFails(t *testing.T) {
	partnerID := uuid.New()
	order := pendingOrder(uuid.New())
	order.Status = enums.StoreOrderStatusAccepted
	order.PartnerID = &partnerID
	pub := &stubOutboxPublisher{}
	inv := &stubInventory{}
	svc := newTestService(&stubOrdersRepo{order: order}, pub, inv, &stubHistory{}, nil)

	_, err := svc.PartnerConfirm(context.Background(), partnerActor(partnerID), order.ID, ConfirmInput{})
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict got %v", err)
	}
	if len(pub.events) != 0 || len(inv.debits) != 0 {
		t.Fatal("failed confirm must not touch inventory or outbox")
	}
}

func TestPartnerConfirmDuplicateRemovalIDsDebitOnce(t *testing.T) {
	partnerID := uuid.New()
	order := pendingOrder(uuid.New())
	order.Status = enums.StoreOrderStatusInTransit
	order.PartnerID = &partnerID
	inv := &stubInventory{}
	svc := newTestService(&stubOrdersRepo{order: order}, &stubOutboxPublisher{}, inv, &stubHistory{}, nil)

	removedID := order.Items[1].ID
	_, err := svc.PartnerConfirm(context.Background(), partnerActor(partnerID), order.ID, ConfirmInput{
		ItemsToRemove: []uuid.UUID{removedID, removedID},
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(inv.debits) != 1 {
		t.Fatalf("expected single partner debit got %d", len(inv.debits))
	}
	if !inv.debits[0].qty.Equal(dec("2")) {
		t.Fatalf("unexpected debit quantity %s", inv.debits[0].qty)
	}
}

func TestPartnerConfirmWrongPartner(t *testing.T) {
	order := pendingOrder(uuid.New())
	order.Status = enums.StoreOrderStatusInTransit
	order.PartnerID = ptr(uuid.New())
	svc := newTestService(&stubOrdersRepo{order: order}, &stubOutboxPublisher{}, &stubInventory{}, &stubHistory{}, nil)

	_, err := svc.PartnerConfirm(context.Background(), partnerActor(uuid.New()), order.ID, ConfirmInput{})
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden got %v", err)
	}
}

func TestPartnerConfirmPrepaymentExceedsTotal(t *testing.T) {
	partnerID := uuid.New()
	order := pendingOrder(uuid.New())
	order.Status = enums.StoreOrderStatusInTransit
	order.PartnerID = &partnerID
	svc := newTestService(&stubOrdersRepo{order: order}, &stubOutboxPublisher{}, &stubInventory{}, &stubHistory{}, nil)

	_, err := svc.PartnerConfirm(context.Background(), partnerActor(partnerID), order.ID, ConfirmInput{
		PrepaymentAmount: dec("91"),
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestPartnerConfirmUnknownItem(t *testing.T) {
	partnerID := uuid.New()
	order := pendingOrder(uuid.New())
	order.Status = enums.StoreOrderStatusInTransit
	order.PartnerID = &partnerID
	svc := newTestService(&stubOrdersRepo{order: order}, &stubOutboxPublisher{}, &stubInventory{}, &stubHistory{}, nil)

	_, err := svc.PartnerConfirm(context.Background(), partnerActor(partnerID), order.ID, ConfirmInput{
		ItemsToRemove: []uuid.UUID{uuid.New()},
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestStoreCancelItemsRecomputesTotal(t *testing.T) {
	storeID := uuid.New()
	order := pendingOrder(storeID)
	repo := &stubOrdersRepo{order: order}
	pub := &stubOutboxPublisher{}
	svc := newTestService(repo, pub, &stubInventory{}, &stubHistory{}, nil)

	cancelID := order.Items[0].ID
	updated, err := svc.StoreCancelItems(context.Background(), storeActor(storeID), order.ID, CancelItemsInput{
		ItemIDs: []uuid.UUID{cancelID},
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if !updated.TotalAmount.Equal(dec("40")) {
		t.Fatalf("expected total 40 got %s", updated.TotalAmount)
	}
	if len(repo.cancelled) != 1 || repo.cancelled[0] != cancelID {
		t.Fatalf("unexpected cancellations %+v", repo.cancelled)
	}
	if len(pub.events) != 1 || pub.events[0].EventType != enums.EventOrderItemsCancelled {
		t.Fatalf("expected order_items_cancelled event got %+v", pub.events)
	}

	// Cancelling the same item again is a no-op.
	again, err := svc.StoreCancelItems(context.Background(), storeActor(storeID), order.ID, CancelItemsInput{
		ItemIDs: []uuid.UUID{cancelID},
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if !again.TotalAmount.Equal(dec("40")) {
		t.Fatalf("expected total unchanged got %s", again.TotalAmount)
	}
	if len(pub.events) != 1 {
		t.Fatal("no-op cancel must not emit an event")
	}
}

func TestStoreCancelItemsUnknownItem(t *testing.T) {
	storeID := uuid.New()
	order := pendingOrder(storeID)
	svc := newTestService(&stubOrdersRepo{order: order}, &stubOutboxPublisher{}, &stubInventory{}, &stubHistory{}, nil)

	_, err := svc.StoreCancelItems(context.Background(), storeActor(storeID), order.ID, CancelItemsInput{
		ItemIDs: []uuid.UUID{uuid.New()},
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error got %v", err)
	}
}

func TestStoreCancelItemsNotPending(t *testing.T) {
	storeID := uuid.New()
	order := pendingOrder(storeID)
	order.Status = enums.StoreOrderStatusInTransit
	svc := newTestService(&stubOrdersRepo{order: order}, &stubOutboxPublisher{}, &stubInventory{}, &stubHistory{}, nil)

	_, err := svc.StoreCancelItems(context.Background(), storeActor(storeID), order.ID, CancelItemsInput{
		ItemIDs: []uuid.UUID{order.Items[0].ID},
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict got %v", err)
	}
}

func TestStoreCancelItemsWrongStore(t *testing.T) {
	order := pendingOrder(uuid.New())
	svc := newTestService(&stubOrdersRepo{order: order}, &stubOutboxPublisher{}, &stubInventory{}, &stubHistory{}, nil)

	_, err := svc.StoreCancelItems(context.Background(), storeActor(uuid.New()), order.ID, CancelItemsInput{
		ItemIDs: []uuid.UUID{order.Items[0].ID},
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden got %v", err)
	}
}

func TestGetOrderVisibility(t *testing.T) {
	storeID := uuid.New()
	partnerID := uuid.New()
	order := pendingOrder(storeID)
	order.PartnerID = &partnerID
	svc := newTestService(&stubOrdersRepo{order: order}, &stubOutboxPublisher{}, &stubInventory{}, &stubHistory{}, nil)

	if _, err := svc.GetOrder(context.Background(), storeActor(storeID), order.ID); err != nil {
		t.Fatalf("store owner should see own order: %v", err)
	}
	if _, err := svc.GetOrder(context.Background(), partnerActor(partnerID), order.ID); err != nil {
		t.Fatalf("assigned partner should see order: %v", err)
	}
	_, err := svc.GetOrder(context.Background(), storeActor(uuid.New()), order.ID)
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden got %v", err)
	}
}

func TestComputeDebtNeverNegative(t *testing.T) {
	if got := computeDebt(dec("90"), dec("20"), dec("0")); !got.Equal(dec("70")) {
		t.Fatalf("expected 70 got %s", got)
	}
	if got := computeDebt(dec("90"), dec("50"), dec("50")); !got.IsZero() {
		t.Fatalf("expected zero got %s", got)
	}
}
