package auth

import (
	"github.com/google/uuid"

	"github.com/adiletbaev/distribo-backend/pkg/enums"
)

// Actor identifies who is performing an operation, taken from the verified
// access token.
type Actor struct {
	UserID  uuid.UUID
	Role    enums.UserRole
	StoreID *uuid.UUID
}
