package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/nivaancare/clinic-api/internal/domain/entity"
	"github.com/nivaancare/clinic-api/pkg/pagination"
)

// PatientRepository defines the interface for patient data operations
type PatientRepository interface {
	Create(ctx context.Context, patient *entity.Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Patient, error)
	GetByMRN(ctx context.Context, centerID uuid.UUID, mrn string) (*entity.Patient, error)
	Update(ctx context.Context, patient *entity.Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns patients for a center with page-based pagination. Search
	// matches MRN, name, and phone.
	List(ctx context.Context, centerID uuid.UUID, params *pagination.PaginationParams, search string) ([]entity.Patient, int64, error)
	// CountByCenter returns the number of registered patients for a center
	CountByCenter(ctx context.Context, centerID uuid.UUID) (int64, error)
}
