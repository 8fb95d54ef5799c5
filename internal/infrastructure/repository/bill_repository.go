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

type billRepository struct {
	db *gorm.DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *gorm.DB) domainRepo.BillRepository {
	return &billRepository{db: db}
}

func (r *billRepository) Create(ctx context.Context, bill *entity.Bill) error {
	return r.db.WithContext(ctx).Create(bill).Error
}

func (r *billRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).
		Scopes(CenterScope(ctx)).
		Preload("Patient").
		First(&bill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}

func (r *billRepository) GetByInvoiceNumber(ctx context.Context, centerID uuid.UUID, invoiceNumber string) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).
		Preload("Patient").
		First(&bill, "center_id = ? AND invoice_number = ?", centerID, invoiceNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}

func (r *billRepository) Update(ctx context.Context, bill *entity.Bill) error {
	return r.db.WithContext(ctx).Save(bill).Error
}

func (r *billRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Bill{}, "id = ?", id).Error
}

func (r *billRepository) List(ctx context.Context, centerID uuid.UUID, params *domainRepo.BillFilterParams) ([]entity.Bill, int64, error) {
	var bills []entity.Bill
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Bill{}).Where("center_id = ?", centerID)

	if params.Search != "" {
		query = query.Where("invoice_number ILIKE ?", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.PatientID != nil {
		query = query.Where("patient_id = ?", *params.PatientID)
	}

	if params.StartDate != nil {
		query = query.Where("generated_at >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("generated_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Sorting
	sortBy := "generated_at"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Patient").
		Order(sortBy + " " + sortOrder).
		Find(&bills).Error

	return bills, total, err
}

func (r *billRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).
		Scopes(CenterScope(ctx)).
		Preload("Patient").
		Preload("Items").
		Preload("Payments").
		Preload("Refunds").
		First(&bill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}

func (r *billRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.BillStatus) error {
	return r.db.WithContext(ctx).Model(&entity.Bill{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *billRepository) ListForCollections(ctx context.Context, centerID uuid.UUID, start, end time.Time) ([]entity.Bill, error) {
	var bills []entity.Bill
	err := r.db.WithContext(ctx).
		Where("center_id = ?", centerID).
		Where(
			r.db.Where("generated_at BETWEEN ? AND ?", start, end).
				Or("refunded_at BETWEEN ? AND ?", start, end).
				Or("cancelled_at BETWEEN ? AND ?", start, end),
		).
		Preload("Patient").
		Preload("Items").
		Preload("Payments").
		Preload("Refunds").
		Order("generated_at ASC").
		Find(&bills).Error
	return bills, err
}

func (r *billRepository) AddPayment(ctx context.Context, bill *entity.Bill, payment *entity.PaymentRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		return tx.Model(&entity.Bill{}).Where("id = ?", bill.ID).
			Updates(map[string]interface{}{
				"paid_amount":    bill.PaidAmount,
				"billing_status": bill.BillingStatus,
				"status":         bill.Status,
				"payment_method": bill.PaymentMethod,
			}).Error
	})
}

func (r *billRepository) AddRefund(ctx context.Context, bill *entity.Bill, refund *entity.RefundRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(refund).Error; err != nil {
			return err
		}
		// Items removed by a refund edit keep their rows but flagged
		for i := range bill.Items {
			if err := tx.Model(&entity.BillItem{}).Where("id = ?", bill.Items[i].ID).
				Updates(map[string]interface{}{"removed": bill.Items[i].Removed}).Error; err != nil {
				return err
			}
		}
		return tx.Model(&entity.Bill{}).Where("id = ?", bill.ID).
			Updates(map[string]interface{}{
				"subtotal":        bill.Subtotal,
				"taxes":           bill.Taxes,
				"discounts":       bill.Discounts,
				"total_amount":    bill.TotalAmount,
				"refunded_amount": bill.RefundedAmount,
				"refunded_at":     bill.RefundedAt,
				"cancelled_at":    bill.CancelledAt,
				"billing_status":  bill.BillingStatus,
				"status":          bill.Status,
			}).Error
	})
}
