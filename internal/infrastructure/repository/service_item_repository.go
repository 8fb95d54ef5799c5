package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nivaancare/clinic-api/internal/domain/entity"
	domainRepo "github.com/nivaancare/clinic-api/internal/domain/repository"
	"github.com/nivaancare/clinic-api/pkg/pagination"
	"gorm.io/gorm"
)

type serviceItemRepository struct {
	db *gorm.DB
}

// NewServiceItemRepository creates a new service item repository
func NewServiceItemRepository(db *gorm.DB) domainRepo.ServiceItemRepository {
	return &serviceItemRepository{db: db}
}

func (r *serviceItemRepository) Create(ctx context.Context, item *entity.ServiceItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *serviceItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ServiceItem, error) {
	var item entity.ServiceItem
	err := r.db.WithContext(ctx).
		Scopes(CenterScope(ctx)).
		First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *serviceItemRepository) GetByCode(ctx context.Context, centerID uuid.UUID, code string) (*entity.ServiceItem, error) {
	var item entity.ServiceItem
	err := r.db.WithContext(ctx).
		First(&item, "center_id = ? AND code = ?", centerID, code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *serviceItemRepository) Update(ctx context.Context, item *entity.ServiceItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *serviceItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.ServiceItem{}, "id = ?", id).Error
}

func (r *serviceItemRepository) List(ctx context.Context, centerID uuid.UUID, params *pagination.PaginationParams, search, category string, activeOnly bool) ([]entity.ServiceItem, int64, error) {
	var items []entity.ServiceItem
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.ServiceItem{}).Where("center_id = ?", centerID)

	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", pattern, pattern)
	}

	if category != "" {
		query = query.Where("category = ?", category)
	}

	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&items).Error

	return items, total, err
}
