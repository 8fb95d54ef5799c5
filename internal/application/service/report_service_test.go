package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nivaancare/clinic-api/internal/domain/entity"
	"github.com/nivaancare/clinic-api/internal/domain/enum"
)

type reportFixture struct {
	svc      *ReportService
	bills    *fakeBillRepo
	txns     *fakeTxnRepo
	centerID uuid.UUID
	ctx      context.Context
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()
	f := &reportFixture{
		bills:    newFakeBillRepo(),
		txns:     newFakeTxnRepo(),
		centerID: uuid.New(),
	}
	f.svc = NewReportService(f.bills, f.txns)
	f.ctx = centerCtx(f.centerID)
	return f
}

func feb(day int) time.Time {
	return time.Date(2024, 2, day, 12, 0, 0, 0, time.UTC)
}

func (f *reportFixture) paidBill(invoice string, amount float64, method string, paidAt time.Time) *entity.Bill {
	return f.bills.put(&entity.Bill{
		CenterID:      f.centerID,
		InvoiceNumber: invoice,
		PatientID:     uuid.New(),
		Patient:       entity.Patient{FirstName: "Asha", LastName: "Rao"},
		BillType:      "Consultation",
		TotalAmount:   amount,
		PaidAmount:    amount,
		PaymentMethod: &method,
		Status:        enum.BillStatusBillingPaid,
		BillingStatus: enum.BillingStatusPaid,
		GeneratedAt:   paidAt,
		Payments: []entity.PaymentRecord{
			{Amount: amount, PaymentMethod: method, Status: "completed", PaidAt: paidAt},
		},
	})
}

func TestGetCollections(t *testing.T) {
	f := newReportFixture(t)

	f.paidBill("NVC-1001", 1000, "cash", feb(10))
	f.paidBill("NVC-1002", 500, "card", feb(8))

	// Bill paid earlier, partially refunded on Feb 12
	refundedAt := feb(12)
	f.bills.put(&entity.Bill{
		CenterID:       f.centerID,
		InvoiceNumber:  "NVC-0990",
		PatientID:      uuid.New(),
		Patient:        entity.Patient{FirstName: "Vikram", LastName: "Shetty"},
		BillType:       "SLIT Therapy",
		TotalAmount:    300,
		PaidAmount:     500,
		RefundedAmount: 200,
		RefundedAt:     &refundedAt,
		Status:         enum.BillStatusRefunded,
		BillingStatus:  enum.BillingStatusRefunded,
		GeneratedAt:    feb(2),
		Payments: []entity.PaymentRecord{
			{Amount: 500, PaymentMethod: "upi", Status: "completed", PaidAt: feb(2)},
		},
		Refunds: []entity.RefundRecord{
			{Amount: 200, RefundMethod: "upi", ProcessedAt: refundedAt},
		},
	})

	// Standalone ledger refund with no matching bill, for example an
	// appointment booking refund
	txnRefundedAt := feb(15)
	require.NoError(t, f.txns.Create(f.ctx, &entity.Transaction{
		CenterID:      f.centerID,
		ReceiptNumber: "RCP-0015",
		PatientName:   "Meera Nair",
		Amount:        150,
		Status:        "refunded",
		Type:          "consultation",
		RefundAmount:  150,
		RefundedAt:    &txnRefundedAt,
		Date:          txnRefundedAt,
	}))

	report, err := f.svc.GetCollections(f.ctx, &CollectionsInput{
		StartDate: feb(1),
		EndDate:   feb(29),
	})
	require.NoError(t, err)

	require.Len(t, report.Payments, 3)
	// Payments come back in date order
	assert.Equal(t, "NVC-0990", report.Payments[0].ReceiptNumber)
	assert.Equal(t, "NVC-1002", report.Payments[1].ReceiptNumber)
	assert.Equal(t, "NVC-1001", report.Payments[2].ReceiptNumber)
	assert.Equal(t, "Asha Rao", report.Payments[2].PatientName)

	require.Len(t, report.Refunds, 2)
	assert.InDelta(t, 200, report.Refunds[0].Amount, 0.001)
	assert.InDelta(t, 150, report.Refunds[1].Amount, 0.001)

	assert.InDelta(t, 1000, report.Summary.AmountCollectedInCash, 0.001)
	assert.InDelta(t, 500, report.Summary.AmountCollectedInCard, 0.001)
	assert.InDelta(t, 500, report.Summary.AmountCollectedInUPI, 0.001)
	assert.InDelta(t, 2000, report.Summary.TotalCollected, 0.001)
	assert.InDelta(t, 350, report.Summary.TotalRefund, 0.001)
	assert.InDelta(t, 1650, report.Summary.NetCollected, 0.001)
	assert.Equal(t, 2, report.Summary.RefundedCount)
}

func TestGetCollections_ConsultationTypeFilter(t *testing.T) {
	f := newReportFixture(t)

	op := "op"
	followup := "followup"
	opBill := f.paidBill("NVC-2001", 800, "cash", feb(5))
	opBill.ConsultationType = &op
	fuBill := f.paidBill("NVC-2002", 400, "cash", feb(6))
	fuBill.ConsultationType = &followup

	report, err := f.svc.GetCollections(f.ctx, &CollectionsInput{
		StartDate:        feb(1),
		EndDate:          feb(29),
		ConsultationType: "op",
	})
	require.NoError(t, err)

	require.Len(t, report.Payments, 1)
	assert.Equal(t, "NVC-2001", report.Payments[0].ReceiptNumber)
	assert.InDelta(t, 800, report.Summary.TotalCollected, 0.001)
}

func TestGetCollections_WidensScanWindow(t *testing.T) {
	f := newReportFixture(t)

	start, end := feb(1), feb(29)
	_, err := f.svc.GetCollections(f.ctx, &CollectionsInput{StartDate: start, EndDate: end})
	require.NoError(t, err)

	assert.Equal(t, start.Add(-collectionWindowSlack), f.txns.lastStart)
	assert.Equal(t, end.Add(collectionWindowSlack), f.txns.lastEnd)
}

func TestGetCollections_RejectsInvertedRange(t *testing.T) {
	f := newReportFixture(t)

	_, err := f.svc.GetCollections(f.ctx, &CollectionsInput{StartDate: feb(10), EndDate: feb(5)})
	assert.Error(t, err)
}

func TestGetCollections_RequiresCenterContext(t *testing.T) {
	f := newReportFixture(t)

	_, err := f.svc.GetCollections(context.Background(), &CollectionsInput{StartDate: feb(1), EndDate: feb(2)})
	assert.Error(t, err)
}

func TestToBillingBill(t *testing.T) {
	consultation := "followup"
	desc := "Annual review"
	method := "card"
	refundedAt := feb(12)
	cancelledAt := feb(13)

	b := &entity.Bill{
		ID:               uuid.New(),
		CenterID:         uuid.New(),
		InvoiceNumber:    "NVC-3001",
		PatientID:        uuid.New(),
		Patient:          entity.Patient{FirstName: "Asha", LastName: "Rao"},
		GeneratedBy:      entity.User{FirstName: "Dr", LastName: "Iyer"},
		BillType:         "Consultation",
		ConsultationType: &consultation,
		Description:      &desc,
		Subtotal:         900,
		Taxes:            162,
		Discounts:        62,
		TotalAmount:      1000,
		PaidAmount:       1000,
		RefundedAmount:   200,
		PaymentMethod:    &method,
		Status:           enum.BillStatusRefunded,
		BillingStatus:    enum.BillingStatusRefunded,
		GeneratedAt:      feb(10),
		RefundedAt:       &refundedAt,
		CancelledAt:      &cancelledAt,
		Items: []entity.BillItem{
			{Name: "Consultation", Code: "CON-GEN", Quantity: 1, UnitPrice: 900},
			{Name: "Dropped", Code: "X", Quantity: 1, UnitPrice: 50, Removed: true},
		},
		Payments: []entity.PaymentRecord{
			{Amount: 1000, PaymentMethod: "card", Status: "completed", PaidAt: feb(10)},
		},
		Refunds: []entity.RefundRecord{
			{Amount: 200, RefundMethod: "card", ProcessedAt: refundedAt},
		},
	}

	out := toBillingBill(b)

	assert.Equal(t, "NVC-3001", out.InvoiceNumber)
	assert.Equal(t, "Asha Rao", out.PatientName)
	assert.Equal(t, "Dr Iyer", out.GeneratedBy)
	assert.Equal(t, "followup", out.ConsultationType)
	assert.Equal(t, "refunded", out.Status)
	assert.InDelta(t, 1000, out.Amount.Float(), 0.001)
	assert.Equal(t, feb(10).Format(time.RFC3339Nano), out.GeneratedAt)
	assert.Equal(t, refundedAt.Format(time.RFC3339Nano), out.RefundedAt)

	require.NotNil(t, out.Billing)
	assert.Equal(t, "refunded", out.Billing.Status)
	assert.Equal(t, cancelledAt.Format(time.RFC3339Nano), out.Billing.CancelledAt)

	// Removed items are dropped from the engine feed
	require.Len(t, out.Items, 1)
	assert.Equal(t, "CON-GEN", out.Items[0].Code)

	require.Len(t, out.PaymentHistory, 1)
	assert.InDelta(t, 1000, out.PaymentHistory[0].Amount.Float(), 0.001)
	require.Len(t, out.Refunds, 1)
	assert.InDelta(t, 200, out.Refunds[0].Amount.Float(), 0.001)
}

func TestToBillingTransaction(t *testing.T) {
	invoice := "NVC-4001"
	patientID := uuid.New()
	refundedAt := feb(20)

	txn := &entity.Transaction{
		ID:            uuid.New(),
		CenterID:      uuid.New(),
		ReceiptNumber: "RCP-0042",
		InvoiceNumber: &invoice,
		PatientID:     &patientID,
		PatientName:   "Vikram Shetty",
		Amount:        300,
		PaymentMethod: "upi",
		Status:        "refunded",
		Type:          "consultation",
		RefundAmount:  300,
		RefundedAt:    &refundedAt,
		Date:          feb(20),
	}

	out := toBillingTransaction(txn)

	assert.Equal(t, "RCP-0042", out.ReceiptNumber)
	assert.Equal(t, "NVC-4001", out.InvoiceNumber)
	assert.Equal(t, patientID.String(), out.PatientID)
	assert.Equal(t, "refunded", out.Status)
	require.NotNil(t, out.Refund)
	assert.InDelta(t, 300, out.Refund.Amount.Float(), 0.001)
	assert.Equal(t, refundedAt.Format(time.RFC3339Nano), out.Refund.ProcessedAt)

	when, ok := out.Refund.When()
	require.True(t, ok)
	assert.True(t, when.Equal(refundedAt))
}

// A refund edit stores a RefundRecord on the bill and mirrors it into the
// transactions ledger. The report must count that refund once.
func TestGetCollections_RefundEditCountedOnce(t *testing.T) {
	f := newBillFixture(t, entity.CenterSettings{})
	bill := f.seedPaidBill()

	_, err := f.svc.EditWithRefund(f.ctx, &EditWithRefundInput{
		BillID:          bill.ID,
		UserID:          f.userID,
		RetainedItemIDs: []uuid.UUID{bill.Items[0].ID},
		RefundMethod:    "cash",
	})
	require.NoError(t, err)
	require.Len(t, f.txns.txns, 1)

	now := time.Now()
	report, err := NewReportService(f.bills, f.txns).GetCollections(f.ctx, &CollectionsInput{
		StartDate: now.Add(-24 * time.Hour),
		EndDate:   now,
	})
	require.NoError(t, err)

	require.Len(t, report.Refunds, 1)
	assert.InDelta(t, 200, report.Refunds[0].Amount, 0.001)
	assert.InDelta(t, 200, report.Summary.TotalRefund, 0.001)
	assert.Equal(t, 1, report.Summary.RefundedCount)
	assert.InDelta(t, 500, report.Summary.TotalCollected, 0.001)
	assert.InDelta(t, 300, report.Summary.NetCollected, 0.001)
}

func TestGetCollections_CancellationRefundCountedOnce(t *testing.T) {
	f := newBillFixture(t, entity.CenterSettings{})
	bill := f.seedPaidBill()

	_, err := f.svc.CancelBill(f.ctx, bill.ID, f.userID, nil)
	require.NoError(t, err)
	require.Len(t, f.txns.txns, 1)

	now := time.Now()
	report, err := NewReportService(f.bills, f.txns).GetCollections(f.ctx, &CollectionsInput{
		StartDate: now.Add(-24 * time.Hour),
		EndDate:   now,
	})
	require.NoError(t, err)

	require.Len(t, report.Refunds, 1)
	assert.InDelta(t, 500, report.Refunds[0].Amount, 0.001)
	assert.InDelta(t, 500, report.Summary.TotalRefund, 0.001)
}
