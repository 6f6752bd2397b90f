package menutypes

import (
	"context"

	"github.com/google/uuid"
)

// RepositoryInterface defines the contract for menu type repository operations
type RepositoryInterface interface {
	Create(ctx context.Context, menuType *MenuType) error
	GetByID(ctx context.Context, id uuid.UUID) (*MenuType, error)
	GetByName(ctx context.Context, name string) (*MenuType, error)
	List(ctx context.Context) ([]MenuType, error)
	Update(ctx context.Context, menuType *MenuType) error
	Delete(ctx context.Context, id uuid.UUID) error

	// CountGiftCards returns how many gift cards reference the menu type.
	CountGiftCards(ctx context.Context, menuTypeID uuid.UUID) (int64, error)
}
