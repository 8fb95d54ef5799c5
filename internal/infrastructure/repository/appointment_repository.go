package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/nivaancare/clinic-api/internal/domain/entity"
	"github.com/nivaancare/clinic-api/internal/domain/enum"
	domainRepo "github.com/nivaancare/clinic-api/internal/domain/repository"
	"gorm.io/gorm"
)

type appointmentRepository struct {
	db *gorm.DB
}

// NewAppointmentRepository creates a new appointment repository
func NewAppointmentRepository(db *gorm.DB) domainRepo.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appt *entity.Appointment) error {
	return r.db.WithContext(ctx).Create(appt).Error
}

func (r *appointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	var appt entity.Appointment
	err := r.db.WithContext(ctx).
		Scopes(CenterScope(ctx)).
		Preload("Patient").
		Preload("Doctor").
		First(&appt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &appt, err
}

func (r *appointmentRepository) Update(ctx context.Context, appt *entity.Appointment) error {
	return r.db.WithContext(ctx).Save(appt).Error
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Appointment{}, "id = ?", id).Error
}

func (r *appointmentRepository) List(ctx context.Context, centerID uuid.UUID, params *domainRepo.AppointmentFilterParams) ([]entity.Appointment, int64, error) {
	var appts []entity.Appointment
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Appointment{}).Where("center_id = ?", centerID)

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.DoctorID != nil {
		query = query.Where("doctor_id = ?", *params.DoctorID)
	}

	if params.PatientID != nil {
		query = query.Where("patient_id = ?", *params.PatientID)
	}

	if params.StartDate != nil {
		query = query.Where("scheduled_at >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("scheduled_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Patient").
		Preload("Doctor").
		Order("scheduled_at ASC").
		Find(&appts).Error

	return appts, total, err
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.AppointmentStatus) error {
	return r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *appointmentRepository) ListForDoctor(ctx context.Context, doctorID uuid.UUID, start, end time.Time) ([]entity.Appointment, error) {
	var appts []entity.Appointment
	err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Where("status <> ?", enum.AppointmentStatusCancelled).
		Where("scheduled_at < ?", end).
		Where("scheduled_at + (duration_min || ' minutes')::interval > ?", start).
		Find(&appts).Error
	return appts, err
}

func (r *appointmentRepository) CountForDay(ctx context.Context, centerID uuid.UUID, day time.Time) (int64, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Where("center_id = ?", centerID).
		Where("status <> ?", enum.AppointmentStatusCancelled).
		Where("scheduled_at >= ? AND scheduled_at < ?", start, end).
		Count(&count).Error
	return count, err
}
