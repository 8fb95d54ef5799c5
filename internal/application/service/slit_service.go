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
	"github.com/nivaancare/clinic-api/pkg/utils"
)

// SlitOrderService manages sublingual immunotherapy orders
type SlitOrderService struct {
	slitRepo    repository.SlitOrderRepository
	patientRepo repository.PatientRepository
	userRepo    repository.UserRepository
}

// NewSlitOrderService creates a new SLIT order service
func NewSlitOrderService(
	slitRepo repository.SlitOrderRepository,
	patientRepo repository.PatientRepository,
	userRepo repository.UserRepository,
) *SlitOrderService {
	return &SlitOrderService{
		slitRepo:    slitRepo,
		patientRepo: patientRepo,
		userRepo:    userRepo,
	}
}

// SlitAllergenInput is one allergen extract in a prescription
type SlitAllergenInput struct {
	Name          string
	Concentration string
	VolumeML      float64
}

// CreateSlitOrderInput represents the prescription input
type CreateSlitOrderInput struct {
	PatientID    uuid.UUID
	DoctorID     uuid.UUID
	Allergens    []SlitAllergenInput
	DoseSchedule *string
	Notes        *string
}

// CreateSlitOrder records a new SLIT prescription
func (s *SlitOrderService) CreateSlitOrder(ctx context.Context, input *CreateSlitOrderInput) (*entity.SlitOrder, error) {
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

	if len(input.Allergens) == 0 {
		return nil, apperror.NewBadRequestError("Prescription must include at least one allergen")
	}

	allergens := make([]entity.SlitAllergen, 0, len(input.Allergens))
	for _, a := range input.Allergens {
		if a.Name == "" {
			return nil, apperror.NewBadRequestError("Allergen name is required")
		}
		allergens = append(allergens, entity.SlitAllergen{
			Name:          a.Name,
			Concentration: a.Concentration,
			VolumeML:      a.VolumeML,
		})
	}

	order := &entity.SlitOrder{
		CenterID:     centerID,
		OrderNumber:  utils.GenerateSlitOrderNumber(),
		PatientID:    input.PatientID,
		DoctorID:     input.DoctorID,
		Allergens:    allergens,
		Status:       enum.SlitStatusPrescribed,
		DoseSchedule: input.DoseSchedule,
		Notes:        input.Notes,
		PrescribedAt: time.Now(),
	}

	if err := s.slitRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	return s.slitRepo.GetByID(ctx, order.ID)
}

// GetSlitOrder retrieves a SLIT order by ID
func (s *SlitOrderService) GetSlitOrder(ctx context.Context, id uuid.UUID) (*entity.SlitOrder, error) {
	order, err := s.slitRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("SLIT order")
	}
	return order, nil
}

// ListSlitOrders lists SLIT orders with filtering
func (s *SlitOrderService) ListSlitOrders(ctx context.Context, params *pagination.PaginationParams, status *enum.SlitStatus, patientID *uuid.UUID) (*pagination.PaginatedResult[entity.SlitOrder], error) {
	centerID, ok := infraRepo.GetCenterID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Center context required")
	}

	orders, total, err := s.slitRepo.List(ctx, centerID, params, status, patientID)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}

// AdvanceSlitOrder moves an order to the next lifecycle stage, stamping
// preparation and dispensing times.
func (s *SlitOrderService) AdvanceSlitOrder(ctx context.Context, id uuid.UUID, next enum.SlitStatus) (*entity.SlitOrder, error) {
	if !next.IsValid() {
		return nil, apperror.NewBadRequestError("Invalid SLIT order status")
	}

	order, err := s.slitRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("SLIT order")
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, apperror.NewBadRequestError("Order cannot move from " + order.Status.String() + " to " + next.String())
	}

	now := time.Now()
	order.Status = next
	switch next {
	case enum.SlitStatusReady:
		order.PreparedAt = &now
	case enum.SlitStatusDispensed:
		order.DispensedAt = &now
	}

	if err := s.slitRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// LinkBill associates a SLIT order with the bill raised for it
func (s *SlitOrderService) LinkBill(ctx context.Context, id uuid.UUID, invoiceNumber string) error {
	order, err := s.slitRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("SLIT order")
	}

	order.BillInvoiceNumber = &invoiceNumber
	return s.slitRepo.Update(ctx, order)
}

// CountByStatus returns order counts per lifecycle stage
func (s *SlitOrderService) CountByStatus(ctx context.Context) (map[enum.SlitStatus]int64, error) {
	centerID, ok := infraRepo.GetCenterID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Center context required")
	}
	return s.slitRepo.CountByStatus(ctx, centerID)
}
