package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/nivaancare/clinic-api/internal/billing"
	"github.com/nivaancare/clinic-api/internal/domain/entity"
	"github.com/nivaancare/clinic-api/internal/domain/repository"
	infraRepo "github.com/nivaancare/clinic-api/internal/infrastructure/repository"
	"github.com/nivaancare/clinic-api/pkg/apperror"
)

// collectionWindowSlack widens the database scan window around the
// requested range. A refund recorded inside the range can belong to a bill
// generated well before it, so the reconciliation engine must see those
// bills too; the repository also matches on refund and cancellation dates,
// and the slack covers timezone skew at the boundaries.
const collectionWindowSlack = 24 * time.Hour

// ReportService builds collection reports by reconciling bills against
// ledger transactions.
type ReportService struct {
	billRepo repository.BillRepository
	txnRepo  repository.TransactionRepository
}

// NewReportService creates a new report service
func NewReportService(billRepo repository.BillRepository, txnRepo repository.TransactionRepository) *ReportService {
	return &ReportService{billRepo: billRepo, txnRepo: txnRepo}
}

// CollectionsInput bounds a collection report request
type CollectionsInput struct {
	StartDate        time.Time
	EndDate          time.Time
	ConsultationType string
}

// GetCollections reconciles the center's bills and transactions over the
// requested range and returns the payments ledger, refunds ledger and
// summary totals.
func (s *ReportService) GetCollections(ctx context.Context, input *CollectionsInput) (*billing.Report, error) {
	centerID, ok := infraRepo.GetCenterID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Center context required")
	}

	if input.EndDate.Before(input.StartDate) {
		return nil, apperror.NewBadRequestError("End date must not be before start date")
	}

	scanStart := input.StartDate.Add(-collectionWindowSlack)
	scanEnd := input.EndDate.Add(collectionWindowSlack)

	bills, err := s.billRepo.ListForCollections(ctx, centerID, scanStart, scanEnd)
	if err != nil {
		return nil, err
	}

	txns, err := s.txnRepo.ListForCollections(ctx, centerID, scanStart, scanEnd)
	if err != nil {
		return nil, err
	}

	feed := make([]billing.Bill, 0, len(bills))
	for i := range bills {
		feed = append(feed, toBillingBill(&bills[i]))
	}

	// A refund written through billing lands in both feeds: a RefundRecord
	// on the bill and a refunded ledger transaction with the same invoice.
	// The engine treats the two sources as independent, so the mirrored
	// transaction must be dropped here or the refund is reported twice.
	billRefunds := make(map[string][]float64, len(bills))
	for i := range bills {
		for _, r := range bills[i].Refunds {
			billRefunds[bills[i].InvoiceNumber] = append(billRefunds[bills[i].InvoiceNumber], r.Amount)
		}
	}

	ledger := make([]billing.Transaction, 0, len(txns))
	for i := range txns {
		if mirrorsBillRefund(&txns[i], billRefunds) {
			continue
		}
		ledger = append(ledger, toBillingTransaction(&txns[i]))
	}

	report := billing.Reconcile(feed, ledger, billing.Filter{
		StartDate:        input.StartDate,
		EndDate:          input.EndDate,
		ConsultationType: input.ConsultationType,
		CenterID:         centerID.String(),
	})

	return &report, nil
}

// toBillingBill flattens a stored bill into the reconciliation engine's
// input shape. Timestamps become RFC 3339 strings because the engine
// accepts feeds from older systems with looser formats.
func toBillingBill(b *entity.Bill) billing.Bill {
	out := billing.Bill{
		InvoiceNumber:  b.InvoiceNumber,
		PatientID:      b.PatientID.String(),
		PatientName:    b.Patient.FullName(),
		GeneratedBy:    b.GeneratedBy.FullName(),
		CenterID:       b.CenterID.String(),
		Amount:         billing.Amount(b.TotalAmount),
		PaidAmount:     billing.Amount(b.PaidAmount),
		Taxes:          billing.Amount(b.Taxes),
		Discounts:      billing.Amount(b.Discounts),
		RefundedAmount: billing.Amount(b.RefundedAmount),
		Status:         b.Status.String(),
		BillType:       b.BillType,
		IsReassignment: b.IsReassignment,
		GeneratedAt:    formatWhen(&b.GeneratedAt),
		CreatedAt:      formatWhen(&b.CreatedAt),
		UpdatedAt:      formatWhen(&b.UpdatedAt),
		RefundedAt:     formatWhen(b.RefundedAt),
	}

	if b.Description != nil {
		out.Description = *b.Description
	}
	if b.ConsultationType != nil {
		out.ConsultationType = *b.ConsultationType
	}
	if b.ReassignmentID != nil {
		out.ReassignmentID = *b.ReassignmentID
	}
	if b.PaymentMethod != nil {
		out.PaymentMethod = *b.PaymentMethod
	}

	out.Billing = &billing.BillingInfo{
		Status:       b.BillingStatus.String(),
		RefundAmount: billing.Amount(b.RefundedAmount),
		CancelledAt:  formatWhen(b.CancelledAt),
		RefundedAt:   formatWhen(b.RefundedAt),
	}

	for _, p := range b.Payments {
		out.PaymentHistory = append(out.PaymentHistory, billing.PaymentEntry{
			Amount:        billing.Amount(p.Amount),
			PaidAt:        formatWhen(&p.PaidAt),
			PaymentMethod: p.PaymentMethod,
			Status:        p.Status,
		})
	}

	for _, r := range b.Refunds {
		out.Refunds = append(out.Refunds, billing.RefundDetail{
			Amount:       billing.Amount(r.Amount),
			ProcessedAt:  formatWhen(&r.ProcessedAt),
			RefundMethod: r.RefundMethod,
		})
	}

	for _, item := range b.Items {
		if item.Removed {
			continue
		}
		out.Items = append(out.Items, billing.LineItem{
			Name:      item.Name,
			Code:      item.Code,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	return out
}

// mirrorsBillRefund reports whether a refunded ledger transaction restates
// a refund already recorded on the referenced bill. Matching is by invoice
// number and amount, with the same 0.01 tolerance the reconciliation
// engine uses for refund dedup.
func mirrorsBillRefund(t *entity.Transaction, billRefunds map[string][]float64) bool {
	if t.InvoiceNumber == nil {
		return false
	}
	if !strings.EqualFold(strings.TrimSpace(t.Status), "refunded") && t.RefundAmount <= 0 {
		return false
	}
	amount := t.RefundAmount
	if amount <= 0 {
		amount = t.Amount
	}
	for _, recorded := range billRefunds[*t.InvoiceNumber] {
		if math.Abs(recorded-amount) <= 0.01 {
			return true
		}
	}
	return false
}

// toBillingTransaction flattens a ledger transaction for the engine
func toBillingTransaction(t *entity.Transaction) billing.Transaction {
	out := billing.Transaction{
		ReceiptNumber: t.ReceiptNumber,
		PatientName:   t.PatientName,
		UserName:      t.UserName,
		CenterID:      t.CenterID.String(),
		Amount:        billing.Amount(t.Amount),
		Status:        t.Status,
		PaymentMethod: t.PaymentMethod,
		Type:          t.Type,
		Date:          formatWhen(&t.Date),
		CreatedAt:     formatWhen(&t.CreatedAt),
	}

	if t.InvoiceNumber != nil {
		out.InvoiceNumber = *t.InvoiceNumber
	}
	if t.PatientID != nil {
		out.PatientID = t.PatientID.String()
	}
	if t.Description != nil {
		out.Description = *t.Description
	}
	if t.RefundAmount > 0 {
		out.Refund = &billing.RefundDetail{
			Amount:      billing.Amount(t.RefundAmount),
			ProcessedAt: formatWhen(t.RefundedAt),
		}
	}

	return out
}

func formatWhen(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}
