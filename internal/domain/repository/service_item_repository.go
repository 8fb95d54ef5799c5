package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/nivaancare/clinic-api/internal/domain/entity"
	"github.com/nivaancare/clinic-api/pkg/pagination"
)

// ServiceItemRepository defines the interface for service catalog operations
type ServiceItemRepository interface {
	Create(ctx context.Context, item *entity.ServiceItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ServiceItem, error)
	GetByCode(ctx context.Context, centerID uuid.UUID, code string) (*entity.ServiceItem, error)
	Update(ctx context.Context, item *entity.ServiceItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns catalog items for a center. Search matches code and name,
	// category filters when non-empty, activeOnly hides retired items.
	List(ctx context.Context, centerID uuid.UUID, params *pagination.PaginationParams, search, category string, activeOnly bool) ([]entity.ServiceItem, int64, error)
}
