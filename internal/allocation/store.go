package allocation

import (
	"context"

	"civitas/internal/allocation/models"
	"civitas/pkg/domain"
)

// Store is the persistence boundary for requests and allocations. Listings
// come back newest first.
type Store interface {
	CreateRequest(ctx context.Context, req models.Request) error
	ListRequestsByAuthority(ctx context.Context, authorityID string) ([]models.Request, error)

	CreateAllocation(ctx context.Context, alloc models.Allocation) error
	ListActiveAllocations(ctx context.Context) ([]models.Allocation, error)
	HasActiveAllocation(ctx context.Context, civilianID domain.CivilianID) (bool, error)
}
