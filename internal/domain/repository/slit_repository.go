package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/nivaancare/clinic-api/internal/domain/entity"
	"github.com/nivaancare/clinic-api/internal/domain/enum"
	"github.com/nivaancare/clinic-api/pkg/pagination"
)

// SlitOrderRepository defines the interface for SLIT order data operations
type SlitOrderRepository interface {
	Create(ctx context.Context, order *entity.SlitOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.SlitOrder, error)
	GetByOrderNumber(ctx context.Context, centerID uuid.UUID, orderNumber string) (*entity.SlitOrder, error)
	Update(ctx context.Context, order *entity.SlitOrder) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, centerID uuid.UUID, params *pagination.PaginationParams, status *enum.SlitStatus, patientID *uuid.UUID) ([]entity.SlitOrder, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.SlitStatus) error
	// CountByStatus returns the number of orders per status for a center
	CountByStatus(ctx context.Context, centerID uuid.UUID) (map[enum.SlitStatus]int64, error)
}
