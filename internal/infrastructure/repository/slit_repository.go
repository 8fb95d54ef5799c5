package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nivaancare/clinic-api/internal/domain/entity"
	"github.com/nivaancare/clinic-api/internal/domain/enum"
	domainRepo "github.com/nivaancare/clinic-api/internal/domain/repository"
	"github.com/nivaancare/clinic-api/pkg/pagination"
	"gorm.io/gorm"
)

type slitOrderRepository struct {
	db *gorm.DB
}

// NewSlitOrderRepository creates a new SLIT order repository
func NewSlitOrderRepository(db *gorm.DB) domainRepo.SlitOrderRepository {
	return &slitOrderRepository{db: db}
}

func (r *slitOrderRepository) Create(ctx context.Context, order *entity.SlitOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *slitOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.SlitOrder, error) {
	var order entity.SlitOrder
	err := r.db.WithContext(ctx).
		Scopes(CenterScope(ctx)).
		Preload("Patient").
		Preload("Allergens").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *slitOrderRepository) GetByOrderNumber(ctx context.Context, centerID uuid.UUID, orderNumber string) (*entity.SlitOrder, error) {
	var order entity.SlitOrder
	err := r.db.WithContext(ctx).
		Preload("Allergens").
		First(&order, "center_id = ? AND order_number = ?", centerID, orderNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *slitOrderRepository) Update(ctx context.Context, order *entity.SlitOrder) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *slitOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.SlitOrder{}, "id = ?", id).Error
}

func (r *slitOrderRepository) List(ctx context.Context, centerID uuid.UUID, params *pagination.PaginationParams, status *enum.SlitStatus, patientID *uuid.UUID) ([]entity.SlitOrder, int64, error) {
	var orders []entity.SlitOrder
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.SlitOrder{}).Where("center_id = ?", centerID)

	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if patientID != nil {
		query = query.Where("patient_id = ?", *patientID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Patient").
		Order("prescribed_at DESC").
		Find(&orders).Error

	return orders, total, err
}

func (r *slitOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.SlitStatus) error {
	return r.db.WithContext(ctx).Model(&entity.SlitOrder{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *slitOrderRepository) CountByStatus(ctx context.Context, centerID uuid.UUID) (map[enum.SlitStatus]int64, error) {
	type row struct {
		Status enum.SlitStatus
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&entity.SlitOrder{}).
		Select("status, COUNT(*) as count").
		Where("center_id = ?", centerID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[enum.SlitStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
