package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/nivaancare/clinic-api/internal/billing"
	"github.com/nivaancare/clinic-api/internal/domain/entity"
	"github.com/nivaancare/clinic-api/internal/domain/enum"
	"github.com/nivaancare/clinic-api/internal/domain/repository"
	infraRepo "github.com/nivaancare/clinic-api/internal/infrastructure/repository"
	"github.com/nivaancare/clinic-api/pkg/apperror"
	"github.com/nivaancare/clinic-api/pkg/email"
	"github.com/nivaancare/clinic-api/pkg/pagination"
	"github.com/nivaancare/clinic-api/pkg/utils"
)

// BillService handles billing operations: raising bills, recording
// payments, refund edits and cancellations.
type BillService struct {
	billRepo     repository.BillRepository
	txnRepo      repository.TransactionRepository
	patientRepo  repository.PatientRepository
	serviceRepo  repository.ServiceItemRepository
	centerRepo   repository.CenterRepository
	emailService *email.EmailService
}

// NewBillService creates a new bill service. emailService may be nil when
// receipt mail is disabled.
func NewBillService(
	billRepo repository.BillRepository,
	txnRepo repository.TransactionRepository,
	patientRepo repository.PatientRepository,
	serviceRepo repository.ServiceItemRepository,
	centerRepo repository.CenterRepository,
	emailService *email.EmailService,
) *BillService {
	return &BillService{
		billRepo:     billRepo,
		txnRepo:      txnRepo,
		patientRepo:  patientRepo,
		serviceRepo:  serviceRepo,
		centerRepo:   centerRepo,
		emailService: emailService,
	}
}

// BillItemInput represents one line item when raising a bill
type BillItemInput struct {
	ServiceItemID *uuid.UUID
	Code          string
	Name          string
	Quantity      float64
	UnitPrice     float64
}

// CreateBillInput represents the create bill input
type CreateBillInput struct {
	UserID           uuid.UUID
	PatientID        uuid.UUID
	BillType         string
	ConsultationType *string
	Description      *string
	Discounts        float64
	Items            []BillItemInput
}

// CreateBill raises a new bill for a patient. Taxes come from the catalog
// rates of the billed items and the total is rounded to the nearest ten
// rupees when the center has rounding enabled, with the difference folded
// into taxes or discounts.
func (s *BillService) CreateBill(ctx context.Context, input *CreateBillInput) (*entity.Bill, error) {
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

	center, err := s.centerRepo.GetByID(ctx, centerID)
	if err != nil {
		return nil, err
	}
	if center == nil {
		return nil, apperror.NewNotFoundError("Center")
	}
	settings := center.Settings

	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("Bill must have at least one item")
	}
	if input.Discounts < 0 {
		return nil, apperror.NewBadRequestError("Discounts cannot be negative")
	}

	var subtotal, taxes float64
	items := make([]entity.BillItem, 0, len(input.Items))
	for _, in := range input.Items {
		if in.Quantity <= 0 {
			return nil, apperror.NewBadRequestError(fmt.Sprintf("Invalid quantity for item %q", in.Name))
		}
		if in.UnitPrice < 0 {
			return nil, apperror.NewBadRequestError(fmt.Sprintf("Invalid price for item %q", in.Name))
		}

		taxRate := settings.TaxRate
		name := in.Name
		code := in.Code
		if in.ServiceItemID != nil {
			svc, err := s.serviceRepo.GetByID(ctx, *in.ServiceItemID)
			if err != nil {
				return nil, err
			}
			if svc == nil {
				return nil, apperror.NewNotFoundError(fmt.Sprintf("Service item %s", *in.ServiceItemID))
			}
			taxRate = svc.TaxRate
			if name == "" {
				name = svc.Name
			}
			if code == "" {
				code = svc.Code
			}
		}

		lineTotal := in.UnitPrice * in.Quantity
		subtotal += lineTotal
		taxes += lineTotal * taxRate / 100

		items = append(items, entity.BillItem{
			ServiceItemID: in.ServiceItemID,
			Code:          code,
			Name:          name,
			Quantity:      in.Quantity,
			UnitPrice:     in.UnitPrice,
			LineTotal:     lineTotal,
		})
	}

	if input.Discounts > subtotal+taxes {
		return nil, apperror.NewBadRequestError("Discounts cannot exceed the bill amount")
	}

	discounts := input.Discounts
	total := subtotal + taxes - discounts
	if settings.RoundTotals {
		rounded := billing.ApplyRoundingAdjustment(billing.RoundingInput{
			Subtotal:  subtotal,
			Taxes:     taxes,
			Discounts: discounts,
		})
		total = rounded.RoundedTotal
		taxes = rounded.AdjustedTaxes
		discounts = rounded.AdjustedDiscounts
	}

	now := time.Now()
	prefix := settings.InvoicePrefix
	if prefix == "" {
		prefix = "NVC-"
	}

	bill := &entity.Bill{
		CenterID:         centerID,
		InvoiceNumber:    utils.GenerateInvoiceNumber(prefix, now),
		PatientID:        input.PatientID,
		GeneratedByID:    input.UserID,
		BillType:         input.BillType,
		ConsultationType: input.ConsultationType,
		Description:      input.Description,
		Subtotal:         subtotal,
		Taxes:            taxes,
		Discounts:        discounts,
		TotalAmount:      total,
		Status:           enum.BillStatusBillingGenerated,
		BillingStatus:    enum.BillingStatusUnpaid,
		GeneratedAt:      now,
		Items:            items,
	}

	if err := s.billRepo.Create(ctx, bill); err != nil {
		return nil, err
	}

	return s.billRepo.GetWithDetails(ctx, bill.ID)
}

// GetBill retrieves a bill with its items, payments and refunds
func (s *BillService) GetBill(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	bill, err := s.billRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	return bill, nil
}

// ListBills lists bills with filtering
func (s *BillService) ListBills(ctx context.Context, params *repository.BillFilterParams) (*pagination.PaginatedResult[entity.Bill], error) {
	centerID, ok := infraRepo.GetCenterID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Center context required")
	}

	bills, total, err := s.billRepo.List(ctx, centerID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(bills, pag), nil
}

// RecordPaymentInput represents a payment against a bill
type RecordPaymentInput struct {
	BillID        uuid.UUID
	UserID        uuid.UUID
	Amount        float64
	PaymentMethod string
	Reference     *string
}

// RecordPayment records a payment against a bill and writes the matching
// ledger transaction.
func (s *BillService) RecordPayment(ctx context.Context, input *RecordPaymentInput) (*entity.Bill, error) {
	centerID, ok := infraRepo.GetCenterID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Center context required")
	}

	bill, err := s.billRepo.GetWithDetails(ctx, input.BillID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}

	if bill.Status == enum.BillStatusCancelled {
		return nil, apperror.ErrBillCancelled
	}
	if input.Amount <= 0 {
		return nil, apperror.NewBadRequestError("Payment amount must be positive")
	}
	if input.Amount > bill.Outstanding() {
		return nil, apperror.NewBadRequestError("Payment exceeds outstanding amount")
	}
	if input.PaymentMethod == "" {
		return nil, apperror.NewBadRequestError("Payment method is required")
	}

	now := time.Now()
	payment := &entity.PaymentRecord{
		BillID:        bill.ID,
		Amount:        input.Amount,
		PaymentMethod: input.PaymentMethod,
		Status:        "completed",
		Reference:     input.Reference,
		ReceivedByID:  input.UserID,
		PaidAt:        now,
	}

	bill.PaidAmount += input.Amount
	bill.PaymentMethod = &input.PaymentMethod
	if bill.PaidAmount >= bill.TotalAmount {
		bill.BillingStatus = enum.BillingStatusPaid
		bill.Status = enum.BillStatusBillingPaid
	} else {
		bill.BillingStatus = enum.BillingStatusPartial
	}

	if err := s.billRepo.AddPayment(ctx, bill, payment); err != nil {
		return nil, err
	}

	// Ledger entry for the front desk receipt
	patientName := bill.Patient.FullName()
	invoice := bill.InvoiceNumber
	txn := &entity.Transaction{
		CenterID:      centerID,
		ReceiptNumber: utils.GenerateReceiptNumber("RCP-", now),
		InvoiceNumber: &invoice,
		PatientID:     &bill.PatientID,
		PatientName:   patientName,
		Amount:        input.Amount,
		PaymentMethod: input.PaymentMethod,
		Status:        "completed",
		Type:          bill.BillType,
		Date:          now,
	}
	if err := s.txnRepo.Create(ctx, txn); err != nil {
		return nil, err
	}

	// Receipt mail is best effort; a dead SMTP server must not fail the
	// payment.
	if s.emailService != nil && bill.Patient.Email != "" {
		receipt := email.PaymentReceiptData{
			PatientName:   patientName,
			InvoiceNumber: bill.InvoiceNumber,
			ReceiptNumber: txn.ReceiptNumber,
			Amount:        input.Amount,
			PaymentMethod: input.PaymentMethod,
			Outstanding:   bill.Outstanding(),
		}
		if err := s.emailService.SendPaymentReceiptEmail(bill.Patient.Email, receipt); err != nil {
			log.Printf("payment receipt email for %s failed: %v", bill.InvoiceNumber, err)
		}
	}

	return s.billRepo.GetWithDetails(ctx, bill.ID)
}

// EditWithRefundInput represents a bill edit that removes items and
// refunds the patient for them
type EditWithRefundInput struct {
	BillID          uuid.UUID
	UserID          uuid.UUID
	RetainedItemIDs []uuid.UUID
	RefundMethod    string
	Reason          *string
}

// RefundPreview is the computed refund for a proposed bill edit
type RefundPreview struct {
	Breakdown billing.RefundBreakdown `json:"breakdown"`
	NewTotal  float64                 `json:"new_total"`
}

// PreviewRefund computes the refund owed if the bill were reduced to the
// retained items, without persisting anything.
func (s *BillService) PreviewRefund(ctx context.Context, billID uuid.UUID, retainedItemIDs []uuid.UUID) (*RefundPreview, error) {
	bill, err := s.billRepo.GetWithDetails(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}

	breakdown, _, err := s.computeRefund(bill, retainedItemIDs)
	if err != nil {
		return nil, err
	}

	return &RefundPreview{
		Breakdown: *breakdown,
		NewTotal:  bill.TotalAmount - breakdown.Refund,
	}, nil
}

// EditWithRefund removes items from a paid bill and refunds the patient
// the pro-rata share of what was paid for them. The edit is rejected when
// it would not reduce the bill.
func (s *BillService) EditWithRefund(ctx context.Context, input *EditWithRefundInput) (*entity.Bill, error) {
	centerID, ok := infraRepo.GetCenterID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Center context required")
	}

	bill, err := s.billRepo.GetWithDetails(ctx, input.BillID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}

	if bill.Status == enum.BillStatusCancelled {
		return nil, apperror.ErrBillCancelled
	}
	if bill.BillingStatus != enum.BillingStatusPaid {
		return nil, apperror.ErrBillNotRefundable
	}
	if input.RefundMethod == "" {
		return nil, apperror.NewBadRequestError("Refund method is required")
	}

	breakdown, retained, err := s.computeRefund(bill, input.RetainedItemIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	refund := &entity.RefundRecord{
		BillID:       bill.ID,
		Amount:       breakdown.Refund,
		RefundMethod: input.RefundMethod,
		Reason:       input.Reason,
		RefundedByID: input.UserID,
		ProcessedAt:  now,
	}

	// Rewrite the bill around the retained items
	for i := range bill.Items {
		bill.Items[i].Removed = !retained[bill.Items[i].ID]
	}
	bill.Subtotal = breakdown.NewSubTotal
	bill.Taxes -= breakdown.TaxOnRemoved
	bill.Discounts -= breakdown.DiscountOnRemoved
	bill.TotalAmount -= breakdown.Refund
	bill.RefundedAmount += breakdown.Refund
	bill.RefundedAt = &now
	bill.Status = enum.BillStatusRefunded
	bill.BillingStatus = enum.BillingStatusRefunded

	if err := s.billRepo.AddRefund(ctx, bill, refund); err != nil {
		return nil, err
	}

	// Refund shows on the ledger as a refunded transaction
	invoice := bill.InvoiceNumber
	txn := &entity.Transaction{
		CenterID:      centerID,
		ReceiptNumber: utils.GenerateReceiptNumber("RCP-", now),
		InvoiceNumber: &invoice,
		PatientID:     &bill.PatientID,
		PatientName:   bill.Patient.FullName(),
		Amount:        breakdown.Refund,
		PaymentMethod: input.RefundMethod,
		Status:        "refunded",
		Type:          bill.BillType,
		RefundAmount:  breakdown.Refund,
		RefundedAt:    &now,
		Date:          now,
	}
	if err := s.txnRepo.Create(ctx, txn); err != nil {
		return nil, err
	}

	return s.billRepo.GetWithDetails(ctx, bill.ID)
}

// computeRefund validates the retained set and runs the pro-rata refund
// arithmetic over the bill's live items.
func (s *BillService) computeRefund(bill *entity.Bill, retainedItemIDs []uuid.UUID) (*billing.RefundBreakdown, map[uuid.UUID]bool, error) {
	live := make(map[uuid.UUID]*entity.BillItem, len(bill.Items))
	for i := range bill.Items {
		if !bill.Items[i].Removed {
			live[bill.Items[i].ID] = &bill.Items[i]
		}
	}

	retained := make(map[uuid.UUID]bool, len(retainedItemIDs))
	for _, id := range retainedItemIDs {
		if _, ok := live[id]; !ok {
			return nil, nil, apperror.NewBadRequestError(fmt.Sprintf("Item %s is not on the bill", id))
		}
		retained[id] = true
	}

	if len(retained) == 0 {
		return nil, nil, apperror.NewBadRequestError("Cannot remove every item; cancel the bill instead")
	}
	if len(retained) >= len(live) {
		return nil, nil, apperror.NewBadRequestError("Edit must remove at least one item")
	}

	original := make([]billing.LineItem, 0, len(live))
	kept := make([]billing.LineItem, 0, len(retained))
	for _, item := range bill.Items {
		if item.Removed {
			continue
		}
		li := billing.LineItem{
			Name:      item.Name,
			Code:      item.Code,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
		original = append(original, li)
		if retained[item.ID] {
			kept = append(kept, li)
		}
	}

	breakdown := billing.CalculateRefund(billing.RefundInput{
		OriginalItems:     original,
		RetainedItems:     kept,
		OriginalAmount:    bill.TotalAmount,
		OriginalTaxes:     bill.Taxes,
		OriginalDiscounts: bill.Discounts,
	})

	if breakdown.Refund <= 0 {
		return nil, nil, apperror.NewBadRequestError("Edit does not produce a refund")
	}

	return &breakdown, retained, nil
}

// CancelBill cancels a bill. Paid bills are refunded in full on the
// ledger; unpaid bills are simply closed.
func (s *BillService) CancelBill(ctx context.Context, billID, userID uuid.UUID, reason *string) (*entity.Bill, error) {
	centerID, ok := infraRepo.GetCenterID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Center context required")
	}

	bill, err := s.billRepo.GetWithDetails(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}

	if bill.Status == enum.BillStatusCancelled {
		return nil, apperror.NewBadRequestError("Bill is already cancelled")
	}

	now := time.Now()
	bill.Status = enum.BillStatusCancelled
	bill.BillingStatus = enum.BillingStatusCancelled
	bill.CancelledAt = &now

	if bill.PaidAmount > 0 {
		method := "cash"
		if bill.PaymentMethod != nil {
			method = *bill.PaymentMethod
		}
		refund := &entity.RefundRecord{
			BillID:       bill.ID,
			Amount:       bill.PaidAmount,
			RefundMethod: method,
			Reason:       reason,
			RefundedByID: userID,
			ProcessedAt:  now,
		}
		bill.RefundedAmount += bill.PaidAmount
		bill.RefundedAt = &now

		if err := s.billRepo.AddRefund(ctx, bill, refund); err != nil {
			return nil, err
		}

		invoice := bill.InvoiceNumber
		txn := &entity.Transaction{
			CenterID:      centerID,
			ReceiptNumber: utils.GenerateReceiptNumber("RCP-", now),
			InvoiceNumber: &invoice,
			PatientID:     &bill.PatientID,
			PatientName:   bill.Patient.FullName(),
			Amount:        refund.Amount,
			PaymentMethod: method,
			Status:        "refunded",
			Type:          bill.BillType,
			RefundAmount:  refund.Amount,
			RefundedAt:    &now,
			Date:          now,
		}
		if err := s.txnRepo.Create(ctx, txn); err != nil {
			return nil, err
		}
	} else {
		if err := s.billRepo.Update(ctx, bill); err != nil {
			return nil, err
		}
	}

	return s.billRepo.GetWithDetails(ctx, bill.ID)
}
