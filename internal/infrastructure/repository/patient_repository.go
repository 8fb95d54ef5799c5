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

type patientRepository struct {
	db *gorm.DB
}

// NewPatientRepository creates a new patient repository
func NewPatientRepository(db *gorm.DB) domainRepo.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *entity.Patient) error {
	return r.db.WithContext(ctx).Create(patient).Error
}

func (r *patientRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	var patient entity.Patient
	err := r.db.WithContext(ctx).
		Scopes(CenterScope(ctx)).
		First(&patient, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &patient, err
}

func (r *patientRepository) GetByMRN(ctx context.Context, centerID uuid.UUID, mrn string) (*entity.Patient, error) {
	var patient entity.Patient
	err := r.db.WithContext(ctx).
		First(&patient, "center_id = ? AND mrn = ?", centerID, mrn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &patient, err
}

func (r *patientRepository) Update(ctx context.Context, patient *entity.Patient) error {
	return r.db.WithContext(ctx).Save(patient).Error
}

func (r *patientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Patient{}, "id = ?", id).Error
}

func (r *patientRepository) List(ctx context.Context, centerID uuid.UUID, params *pagination.PaginationParams, search string) ([]entity.Patient, int64, error) {
	var patients []entity.Patient
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Patient{}).Where("center_id = ?", centerID)

	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			"mrn ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ? OR phone ILIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("created_at DESC").
		Find(&patients).Error

	return patients, total, err
}

func (r *patientRepository) CountByCenter(ctx context.Context, centerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Patient{}).
		Where("center_id = ?", centerID).
		Count(&count).Error
	return count, err
}
