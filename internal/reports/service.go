package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/adiletbaev/distribo-backend/pkg/auth"
	"github.com/adiletbaev/distribo-backend/pkg/enums"
	pkgerrors "github.com/adiletbaev/distribo-backend/pkg/errors"
)

// Range bounds a report period. Zero values mean an open end.
type Range struct {
	From *time.Time
	To   *time.Time
}

// OrdersSummary aggregates order flow for a period.
type OrdersSummary struct {
	TotalOrders    int64           `json:"total_orders"`
	PendingCount   int64           `json:"pending_count"`
	InTransitCount int64           `json:"in_transit_count"`
	AcceptedCount  int64           `json:"accepted_count"`
	RejectedCount  int64           `json:"rejected_count"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	TotalDebt      decimal.Decimal `json:"total_debt"`
}

// StoreDebt is one store's outstanding balance across accepted orders.
type StoreDebt struct {
	StoreID    uuid.UUID       `json:"store_id"`
	OrderCount int64           `json:"order_count"`
	DebtAmount decimal.Decimal `json:"debt_amount"`
}

// DefectsSummary aggregates approved defect claims for a period.
type DefectsSummary struct {
	ClaimCount    int64           `json:"claim_count"`
	ApprovedCount int64           `json:"approved_count"`
	RejectedCount int64           `json:"rejected_count"`
	ApprovedTotal decimal.Decimal `json:"approved_total"`
}

// Service computes admin reporting aggregates straight from the ledger
// tables.
type Service interface {
	Orders(ctx context.Context, actor auth.Actor, period Range) (*OrdersSummary, error)
	OutstandingDebts(ctx context.Context, actor auth.Actor) ([]StoreDebt, error)
	Defects(ctx context.Context, actor auth.Actor, period Range) (*DefectsSummary, error)
}

type service struct {
	db *gorm.DB
}

// NewService builds the reports service bound to the provided DB.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle required")
	}
	return &service{db: db}, nil
}

func (s *service) Orders(ctx context.Context, actor auth.Actor, period Range) (*OrdersSummary, error) {
	if actor.Role != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "reports are admin only")
	}

	query := s.db.WithContext(ctx).Table("store_orders")
	query = applyRange(query, "created_at", period)

	var row struct {
		TotalOrders    int64
		PendingCount   int64
		InTransitCount int64
		AcceptedCount  int64
		RejectedCount  int64
		TotalAmount    decimal.Decimal
		TotalDebt      decimal.Decimal
	}
	err := query.Select(`
		COUNT(*) AS total_orders,
		COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0) AS pending_count,
		COALESCE(SUM(CASE WHEN status = 'in_transit' THEN 1 ELSE 0 END), 0) AS in_transit_count,
		COALESCE(SUM(CASE WHEN status = 'accepted' THEN 1 ELSE 0 END), 0) AS accepted_count,
		COALESCE(SUM(CASE WHEN status = 'rejected' THEN 1 ELSE 0 END), 0) AS rejected_count,
		COALESCE(SUM(total_amount), 0) AS total_amount,
		COALESCE(SUM(debt_amount), 0) AS total_debt
	`).Scan(&row).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate orders report")
	}
	return &OrdersSummary{
		TotalOrders:    row.TotalOrders,
		PendingCount:   row.PendingCount,
		InTransitCount: row.InTransitCount,
		AcceptedCount:  row.AcceptedCount,
		RejectedCount:  row.RejectedCount,
		TotalAmount:    row.TotalAmount,
		TotalDebt:      row.TotalDebt,
	}, nil
}

func (s *service) OutstandingDebts(ctx context.Context, actor auth.Actor) ([]StoreDebt, error) {
	if actor.Role != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "reports are admin only")
	}

	var rows []StoreDebt
	err := s.db.WithContext(ctx).Table("store_orders").
		Select("store_id, COUNT(*) AS order_count, COALESCE(SUM(debt_amount), 0) AS debt_amount").
		Where("status = 'accepted' AND debt_amount > 0").
		Group("store_id").
		Order("debt_amount DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate outstanding debts")
	}
	return rows, nil
}

func (s *service) Defects(ctx context.Context, actor auth.Actor, period Range) (*DefectsSummary, error) {
	if actor.Role != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "reports are admin only")
	}

	query := s.db.WithContext(ctx).Table("defective_products")
	query = applyRange(query, "created_at", period)

	var row struct {
		ClaimCount    int64
		ApprovedCount int64
		RejectedCount int64
		ApprovedTotal decimal.Decimal
	}
	err := query.Select(`
		COUNT(*) AS claim_count,
		COALESCE(SUM(CASE WHEN status = 'approved' THEN 1 ELSE 0 END), 0) AS approved_count,
		COALESCE(SUM(CASE WHEN status = 'rejected' THEN 1 ELSE 0 END), 0) AS rejected_count,
		COALESCE(SUM(CASE WHEN status = 'approved' THEN total_amount ELSE 0 END), 0) AS approved_total
	`).Scan(&row).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate defects report")
	}
	return &DefectsSummary{
		ClaimCount:    row.ClaimCount,
		ApprovedCount: row.ApprovedCount,
		RejectedCount: row.RejectedCount,
		ApprovedTotal: row.ApprovedTotal,
	}, nil
}

func applyRange(query *gorm.DB, column string, period Range) *gorm.DB {
	if period.From != nil {
		query = query.Where(column+" >= ?", *period.From)
	}
	if period.To != nil {
		query = query.Where(column+" < ?", *period.To)
	}
	return query
}
