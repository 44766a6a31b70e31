package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/adiletbaev/distribo-backend/pkg/db/models"
	"github.com/adiletbaev/distribo-backend/pkg/enums"
	"github.com/adiletbaev/distribo-backend/pkg/outbox"
	"github.com/adiletbaev/distribo-backend/pkg/pagination"
)

// Repository persists orders and their lines. WithTx rebinds the repository
// to a transaction handle so every write of one transition commits together.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, order *models.StoreOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.StoreOrder, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*models.StoreOrder, error)

	// UpdateIfStatus applies updates only while the order still holds the
	// expected status and reports how many rows matched. Zero rows means a
	// concurrent transition won.
	UpdateIfStatus(ctx context.Context, id uuid.UUID, expected enums.StoreOrderStatus, updates map[string]any) (int64, error)

	CancelItems(ctx context.Context, orderID uuid.UUID, itemIDs []uuid.UUID) (int64, error)

	ListOrders(ctx context.Context, filters Filters, params pagination.Params) ([]models.StoreOrder, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}
