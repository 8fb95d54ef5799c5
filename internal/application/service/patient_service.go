package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nivaancare/clinic-api/internal/domain/entity"
	"github.com/nivaancare/clinic-api/internal/domain/repository"
	infraRepo "github.com/nivaancare/clinic-api/internal/infrastructure/repository"
	"github.com/nivaancare/clinic-api/pkg/apperror"
	"github.com/nivaancare/clinic-api/pkg/pagination"
	"github.com/nivaancare/clinic-api/pkg/utils"
)

// PatientService handles patient registration and lookup
type PatientService struct {
	patientRepo repository.PatientRepository
}

// NewPatientService creates a new patient service
func NewPatientService(patientRepo repository.PatientRepository) *PatientService {
	return &PatientService{patientRepo: patientRepo}
}

// CreatePatientInput represents the register patient input
type CreatePatientInput struct {
	FirstName  string
	LastName   string
	Gender     string
	DOB        *time.Time
	Phone      string
	Email      string
	Address    *string
	Allergies  *string
	Notes      *string
	ReferredBy *string
}

// CreatePatient registers a new patient and assigns an MRN
func (s *PatientService) CreatePatient(ctx context.Context, input *CreatePatientInput) (*entity.Patient, error) {
	centerID, ok := infraRepo.GetCenterID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Center context required")
	}

	if input.FirstName == "" {
		return nil, apperror.NewBadRequestError("First name is required")
	}

	patient := &entity.Patient{
		CenterID:   centerID,
		MRN:        utils.GenerateMRN(),
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Gender:     input.Gender,
		DOB:        input.DOB,
		Phone:      input.Phone,
		Email:      input.Email,
		Address:    input.Address,
		Allergies:  input.Allergies,
		Notes:      input.Notes,
		ReferredBy: input.ReferredBy,
	}

	if err := s.patientRepo.Create(ctx, patient); err != nil {
		return nil, err
	}

	return patient, nil
}

// GetPatient retrieves a patient by ID
func (s *PatientService) GetPatient(ctx context.Context, id uuid.UUID) (*entity.Patient, error) {
	patient, err := s.patientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, apperror.NewNotFoundError("Patient")
	}
	return patient, nil
}

// GetPatientByMRN retrieves a patient by medical record number
func (s *PatientService) GetPatientByMRN(ctx context.Context, mrn string) (*entity.Patient, error) {
	centerID, ok := infraRepo.GetCenterID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Center context required")
	}

	patient, err := s.patientRepo.GetByMRN(ctx, centerID, mrn)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, apperror.NewNotFoundError("Patient")
	}
	return patient, nil
}

// ListPatients lists patients with search over MRN, name and phone
func (s *PatientService) ListPatients(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Patient], error) {
	centerID, ok := infraRepo.GetCenterID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Center context required")
	}

	patients, total, err := s.patientRepo.List(ctx, centerID, params, search)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(patients, pag), nil
}

// UpdatePatientInput represents the update patient input
type UpdatePatientInput struct {
	ID         uuid.UUID
	FirstName  *string
	LastName   *string
	Gender     *string
	DOB        *time.Time
	Phone      *string
	Email      *string
	Address    *string
	Allergies  *string
	Notes      *string
	ReferredBy *string
}

// UpdatePatient updates a patient's details
func (s *PatientService) UpdatePatient(ctx context.Context, input *UpdatePatientInput) (*entity.Patient, error) {
	patient, err := s.patientRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, apperror.NewNotFoundError("Patient")
	}

	if input.FirstName != nil {
		patient.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		patient.LastName = *input.LastName
	}
	if input.Gender != nil {
		patient.Gender = *input.Gender
	}
	if input.DOB != nil {
		patient.DOB = input.DOB
	}
	if input.Phone != nil {
		patient.Phone = *input.Phone
	}
	if input.Email != nil {
		patient.Email = *input.Email
	}
	if input.Address != nil {
		patient.Address = input.Address
	}
	if input.Allergies != nil {
		patient.Allergies = input.Allergies
	}
	if input.Notes != nil {
		patient.Notes = input.Notes
	}
	if input.ReferredBy != nil {
		patient.ReferredBy = input.ReferredBy
	}

	if err := s.patientRepo.Update(ctx, patient); err != nil {
		return nil, err
	}

	return patient, nil
}

// DeletePatient soft-deletes a patient
func (s *PatientService) DeletePatient(ctx context.Context, id uuid.UUID) error {
	patient, err := s.patientRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if patient == nil {
		return apperror.NewNotFoundError("Patient")
	}
	return s.patientRepo.Delete(ctx, id)
}
