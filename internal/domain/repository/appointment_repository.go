package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nivaancare/clinic-api/internal/domain/entity"
	"github.com/nivaancare/clinic-api/internal/domain/enum"
	"github.com/nivaancare/clinic-api/pkg/pagination"
)

// AppointmentRepository defines the interface for appointment data operations
type AppointmentRepository interface {
	Create(ctx context.Context, appt *entity.Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	Update(ctx context.Context, appt *entity.Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, centerID uuid.UUID, params *AppointmentFilterParams) ([]entity.Appointment, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.AppointmentStatus) error
	// ListForDoctor returns a doctor's appointments overlapping the window,
	// excluding cancelled ones. Used for conflict checks.
	ListForDoctor(ctx context.Context, doctorID uuid.UUID, start, end time.Time) ([]entity.Appointment, error)
	// CountForDay returns the number of non-cancelled appointments for a
	// center on the given day
	CountForDay(ctx context.Context, centerID uuid.UUID, day time.Time) (int64, error)
}

// AppointmentFilterParams contains filtering parameters for appointment queries
type AppointmentFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     *enum.AppointmentStatus
	DoctorID   *uuid.UUID
	PatientID  *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}
