package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nivaancare/clinic-api/internal/domain/entity"
	"github.com/nivaancare/clinic-api/internal/domain/enum"
	"github.com/nivaancare/clinic-api/pkg/pagination"
)

// BillRepository defines the interface for bill data operations
type BillRepository interface {
	Create(ctx context.Context, bill *entity.Bill) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error)
	GetByInvoiceNumber(ctx context.Context, centerID uuid.UUID, invoiceNumber string) (*entity.Bill, error)
	Update(ctx context.Context, bill *entity.Bill) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, centerID uuid.UUID, params *BillFilterParams) ([]entity.Bill, int64, error)
	// GetWithDetails loads the bill with its items, payments, refunds and patient
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Bill, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.BillStatus) error
	// ListForCollections returns the bills the collection report must scan.
	// The window is widened by the caller so that bills generated before the
	// range but refunded or cancelled inside it are still loaded.
	ListForCollections(ctx context.Context, centerID uuid.UUID, start, end time.Time) ([]entity.Bill, error)
	// AddPayment appends a payment record and updates the bill's paid amount
	// and billing status in one transaction
	AddPayment(ctx context.Context, bill *entity.Bill, payment *entity.PaymentRecord) error
	// AddRefund appends a refund record and updates the bill's refunded
	// amount and statuses in one transaction
	AddRefund(ctx context.Context, bill *entity.Bill, refund *entity.RefundRecord) error
}

// BillFilterParams contains filtering parameters for bill queries
type BillFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.BillStatus
	PatientID  *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}
