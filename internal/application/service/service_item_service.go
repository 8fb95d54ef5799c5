package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/nivaancare/clinic-api/internal/domain/entity"
	"github.com/nivaancare/clinic-api/internal/domain/repository"
	infraRepo "github.com/nivaancare/clinic-api/internal/infrastructure/repository"
	"github.com/nivaancare/clinic-api/pkg/apperror"
	"github.com/nivaancare/clinic-api/pkg/pagination"
)

// ServiceItemService manages the billable service catalog
type ServiceItemService struct {
	serviceRepo repository.ServiceItemRepository
}

// NewServiceItemService creates a new service item service
func NewServiceItemService(serviceRepo repository.ServiceItemRepository) *ServiceItemService {
	return &ServiceItemService{serviceRepo: serviceRepo}
}

// CreateServiceItemInput represents the create catalog item input
type CreateServiceItemInput struct {
	Code        string
	Name        string
	Description *string
	Category    string
	UnitPrice   float64
	TaxRate     float64
}

// CreateServiceItem adds an item to the center's catalog
func (s *ServiceItemService) CreateServiceItem(ctx context.Context, input *CreateServiceItemInput) (*entity.ServiceItem, error) {
	centerID, ok := infraRepo.GetCenterID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Center context required")
	}

	if input.Code == "" || input.Name == "" {
		return nil, apperror.NewBadRequestError("Code and name are required")
	}
	if input.UnitPrice < 0 {
		return nil, apperror.NewBadRequestError("Price cannot be negative")
	}
	if input.TaxRate < 0 || input.TaxRate > 100 {
		return nil, apperror.NewBadRequestError("Tax rate must be between 0 and 100")
	}

	existing, err := s.serviceRepo.GetByCode(ctx, centerID, input.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Service code already exists")
	}

	item := &entity.ServiceItem{
		CenterID:    centerID,
		Code:        input.Code,
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		UnitPrice:   input.UnitPrice,
		TaxRate:     input.TaxRate,
		IsActive:    true,
	}

	if err := s.serviceRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// GetServiceItem retrieves a catalog item by ID
func (s *ServiceItemService) GetServiceItem(ctx context.Context, id uuid.UUID) (*entity.ServiceItem, error) {
	item, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Service item")
	}
	return item, nil
}

// ListServiceItems lists catalog items with search and category filter
func (s *ServiceItemService) ListServiceItems(ctx context.Context, params *pagination.PaginationParams, search, category string, activeOnly bool) (*pagination.PaginatedResult[entity.ServiceItem], error) {
	centerID, ok := infraRepo.GetCenterID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Center context required")
	}

	items, total, err := s.serviceRepo.List(ctx, centerID, params, search, category, activeOnly)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(items, pag), nil
}

// UpdateServiceItemInput represents the update catalog item input
type UpdateServiceItemInput struct {
	ID          uuid.UUID
	Name        *string
	Description *string
	Category    *string
	UnitPrice   *float64
	TaxRate     *float64
	IsActive    *bool
}

// UpdateServiceItem updates a catalog item
func (s *ServiceItemService) UpdateServiceItem(ctx context.Context, input *UpdateServiceItemInput) (*entity.ServiceItem, error) {
	item, err := s.serviceRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Service item")
	}

	if input.Name != nil {
		item.Name = *input.Name
	}
	if input.Description != nil {
		item.Description = input.Description
	}
	if input.Category != nil {
		item.Category = *input.Category
	}
	if input.UnitPrice != nil {
		if *input.UnitPrice < 0 {
			return nil, apperror.NewBadRequestError("Price cannot be negative")
		}
		item.UnitPrice = *input.UnitPrice
	}
	if input.TaxRate != nil {
		if *input.TaxRate < 0 || *input.TaxRate > 100 {
			return nil, apperror.NewBadRequestError("Tax rate must be between 0 and 100")
		}
		item.TaxRate = *input.TaxRate
	}
	if input.IsActive != nil {
		item.IsActive = *input.IsActive
	}

	if err := s.serviceRepo.Update(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// DeleteServiceItem soft-deletes a catalog item
func (s *ServiceItemService) DeleteServiceItem(ctx context.Context, id uuid.UUID) error {
	item, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return apperror.NewNotFoundError("Service item")
	}
	return s.serviceRepo.Delete(ctx, id)
}
