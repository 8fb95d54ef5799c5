package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nivaancare/clinic-api/internal/domain/entity"
	"github.com/nivaancare/clinic-api/internal/domain/enum"
	"github.com/nivaancare/clinic-api/internal/domain/repository"
	infraRepo "github.com/nivaancare/clinic-api/internal/infrastructure/repository"
	"github.com/nivaancare/clinic-api/pkg/apperror"
	"github.com/nivaancare/clinic-api/pkg/pagination"
)

// AppointmentService handles scheduling of patient visits
type AppointmentService struct {
	apptRepo    repository.AppointmentRepository
	patientRepo repository.PatientRepository
	userRepo    repository.UserRepository
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(
	apptRepo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	userRepo repository.UserRepository,
) *AppointmentService {
	return &AppointmentService{
		apptRepo:    apptRepo,
		patientRepo: patientRepo,
		userRepo:    userRepo,
	}
}

// BookAppointmentInput represents the booking input
type BookAppointmentInput struct {
	PatientID        uuid.UUID
	DoctorID         uuid.UUID
	ConsultationType string
	Reason           *string
	ScheduledAt      time.Time
	DurationMin      int
}

// BookAppointment schedules a visit after checking the doctor's calendar
// for conflicts.
func (s *AppointmentService) BookAppointment(ctx context.Context, input *BookAppointmentInput) (*entity.Appointment, error) {
	centerID, ok := infraRepo.GetCenterID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Center context required")
	}

	patient, err := s.patientRepo.GetByID(ctx, input.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, apperror.NewNotFoundError("Patient")
	}

	doctor, err := s.userRepo.GetByID(ctx, input.DoctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, apperror.NewNotFoundError("Doctor")
	}

	if input.ScheduledAt.Before(time.Now()) {
		return nil, apperror.NewBadRequestError("Cannot book an appointment in the past")
	}

	duration := input.DurationMin
	if duration <= 0 {
		duration = 15
	}

	consultationType := input.ConsultationType
	if consultationType == "" {
		consultationType = "consultation"
	}

	appt := &entity.Appointment{
		CenterID:         centerID,
		PatientID:        input.PatientID,
		DoctorID:         input.DoctorID,
		ConsultationType: consultationType,
		Reason:           input.Reason,
		ScheduledAt:      input.ScheduledAt,
		DurationMin:      duration,
		Status:           enum.AppointmentStatusScheduled,
	}

	// Conflict check against the doctor's existing slots
	existing, err := s.apptRepo.ListForDoctor(ctx, input.DoctorID, appt.ScheduledAt, appt.EndsAt())
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if appt.Overlaps(&existing[i]) {
			return nil, apperror.NewConflictError("Doctor already has an appointment in this slot")
		}
	}

	if err := s.apptRepo.Create(ctx, appt); err != nil {
		return nil, err
	}

	return s.apptRepo.GetByID(ctx, appt.ID)
}

// GetAppointment retrieves an appointment by ID
func (s *AppointmentService) GetAppointment(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	appt, err := s.apptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, apperror.NewNotFoundError("Appointment")
	}
	return appt, nil
}

// ListAppointments lists appointments with filtering
func (s *AppointmentService) ListAppointments(ctx context.Context, params *repository.AppointmentFilterParams) (*pagination.PaginatedResult[entity.Appointment], error) {
	centerID, ok := infraRepo.GetCenterID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Center context required")
	}

	appts, total, err := s.apptRepo.List(ctx, centerID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(appts, pag), nil
}

// RescheduleAppointment moves an appointment to a new slot
func (s *AppointmentService) RescheduleAppointment(ctx context.Context, id uuid.UUID, scheduledAt time.Time, durationMin int) (*entity.Appointment, error) {
	appt, err := s.apptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, apperror.NewNotFoundError("Appointment")
	}

	if appt.Status == enum.AppointmentStatusCancelled || appt.Status == enum.AppointmentStatusCompleted {
		return nil, apperror.NewBadRequestError("Appointment can no longer be rescheduled")
	}
	if scheduledAt.Before(time.Now()) {
		return nil, apperror.NewBadRequestError("Cannot reschedule into the past")
	}

	// Check the candidate slot before touching the stored appointment, so
	// a rejected reschedule leaves the original slot intact.
	duration := appt.DurationMin
	if durationMin > 0 {
		duration = durationMin
	}
	candidate := entity.Appointment{
		ID:          appt.ID,
		DoctorID:    appt.DoctorID,
		ScheduledAt: scheduledAt,
		DurationMin: duration,
	}

	existing, err := s.apptRepo.ListForDoctor(ctx, appt.DoctorID, candidate.ScheduledAt, candidate.EndsAt())
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].ID != appt.ID && candidate.Overlaps(&existing[i]) {
			return nil, apperror.NewConflictError("Doctor already has an appointment in this slot")
		}
	}

	appt.ScheduledAt = scheduledAt
	appt.DurationMin = duration
	if err := s.apptRepo.Update(ctx, appt); err != nil {
		return nil, err
	}

	return appt, nil
}

// UpdateAppointmentStatus moves an appointment through its lifecycle
func (s *AppointmentService) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status enum.AppointmentStatus) error {
	if !status.IsValid() {
		return apperror.NewBadRequestError("Invalid appointment status")
	}

	appt, err := s.apptRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if appt == nil {
		return apperror.NewNotFoundError("Appointment")
	}

	return s.apptRepo.UpdateStatus(ctx, id, status)
}

// CancelAppointment cancels a scheduled appointment
func (s *AppointmentService) CancelAppointment(ctx context.Context, id uuid.UUID, reason *string) error {
	appt, err := s.apptRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if appt == nil {
		return apperror.NewNotFoundError("Appointment")
	}

	if appt.Status == enum.AppointmentStatusCancelled {
		return apperror.NewBadRequestError("Appointment is already cancelled")
	}

	now := time.Now()
	appt.Status = enum.AppointmentStatusCancelled
	appt.CancelledAt = &now
	appt.CancelReason = reason

	return s.apptRepo.Update(ctx, appt)
}

// ListDoctors returns the doctors available for booking
func (s *AppointmentService) ListDoctors(ctx context.Context) ([]entity.User, error) {
	return s.userRepo.ListDoctors(ctx)
}
