package exclusions

import (
	"context"

	"github.com/google/uuid"
)

// RepositoryInterface defines the contract for exclusion period repository operations
type RepositoryInterface interface {
	Create(ctx context.Context, period *ExclusionPeriod) error
	GetByID(ctx context.Context, id uuid.UUID) (*ExclusionPeriod, error)
	List(ctx context.Context) ([]ExclusionPeriod, error)
	Update(ctx context.Context, period *ExclusionPeriod) error
	Delete(ctx context.Context, id uuid.UUID) error
}
