package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adiletbaev/distribo-backend/pkg/db/models"
	pkgerrors "github.com/adiletbaev/distribo-backend/pkg/errors"
)

// Service resolves catalog listings for order placement. Prices are read here
// once and copied onto order items so the catalog can move afterwards.
type Service interface {
	ResolveActive(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, activeOnly bool) ([]models.Product, error)
}

type service struct {
	db *gorm.DB
}

// NewService builds the catalog service bound to the provided DB.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle required")
	}
	return &service{db: db}, nil
}

// ResolveActive loads the requested products and fails if any is missing or
// inactive. The returned map is keyed by product id.
func (s *service) ResolveActive(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	if len(productIDs) == 0 {
		return map[uuid.UUID]models.Product{}, nil
	}

	var rows []models.Product
	err := s.db.WithContext(ctx).
		Where("id IN ?", productIDs).
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}

	resolved := make(map[uuid.UUID]models.Product, len(rows))
	for _, p := range rows {
		resolved[p.ID] = p
	}

	for _, id := range productIDs {
		p, ok := resolved[id]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
				WithDetails(map[string]any{"product_id": id.String()})
		}
		if !p.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not active").
				WithDetails(map[string]any{"product_id": id.String()})
		}
	}
	return resolved, nil
}

func (s *service) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return &product, nil
}

func (s *service) List(ctx context.Context, activeOnly bool) ([]models.Product, error) {
	query := s.db.WithContext(ctx).Order("title ASC")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var rows []models.Product
	if err := query.Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return rows, nil
}
