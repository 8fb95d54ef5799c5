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

type centerRepository struct {
	db *gorm.DB
}

// NewCenterRepository creates a new center repository
func NewCenterRepository(db *gorm.DB) domainRepo.CenterRepository {
	return &centerRepository{db: db}
}

func (r *centerRepository) Create(ctx context.Context, center *entity.Center) error {
	return r.db.WithContext(ctx).Create(center).Error
}

func (r *centerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Center, error) {
	var center entity.Center
	err := r.db.WithContext(ctx).First(&center, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &center, err
}

func (r *centerRepository) GetBySlug(ctx context.Context, slug string) (*entity.Center, error) {
	var center entity.Center
	err := r.db.WithContext(ctx).First(&center, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &center, err
}

func (r *centerRepository) Update(ctx context.Context, center *entity.Center) error {
	return r.db.WithContext(ctx).Save(center).Error
}

func (r *centerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Center{}, "id = ?", id).Error
}

func (r *centerRepository) GetUserCenters(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams) ([]entity.Center, int64, error) {
	var centers []entity.Center
	var total int64

	query := r.db.WithContext(ctx).
		Model(&entity.Center{}).
		Joins("JOIN center_memberships ON center_memberships.center_id = centers.id").
		Where("center_memberships.user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("centers.created_at ASC").
		Find(&centers).Error

	return centers, total, err
}

func (r *centerRepository) AddMember(ctx context.Context, membership *entity.CenterMembership) error {
	return r.db.WithContext(ctx).Create(membership).Error
}

func (r *centerRepository) RemoveMember(ctx context.Context, centerID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&entity.CenterMembership{}, "center_id = ? AND user_id = ?", centerID, userID).Error
}

func (r *centerRepository) GetMembers(ctx context.Context, centerID uuid.UUID) ([]entity.CenterMembership, error) {
	var members []entity.CenterMembership
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("center_id = ?", centerID).
		Find(&members).Error
	return members, err
}

func (r *centerRepository) IsMember(ctx context.Context, centerID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.CenterMembership{}).
		Where("center_id = ? AND user_id = ?", centerID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *centerRepository) GetMembership(ctx context.Context, centerID, userID uuid.UUID) (*entity.CenterMembership, error) {
	var membership entity.CenterMembership
	err := r.db.WithContext(ctx).
		First(&membership, "center_id = ? AND user_id = ?", centerID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &membership, err
}

func (r *centerRepository) UpdateMemberRole(ctx context.Context, centerID, userID uuid.UUID, role string) error {
	return r.db.WithContext(ctx).
		Model(&entity.CenterMembership{}).
		Where("center_id = ? AND user_id = ?", centerID, userID).
		Update("role", role).Error
}

func (r *centerRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Center{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}
