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
	"github.com/nivaancare/clinic-api/pkg/apperror"
)

type billFixture struct {
	svc      *BillService
	bills    *fakeBillRepo
	txns     *fakeTxnRepo
	patients *fakePatientRepo
	catalog  *fakeServiceItemRepo
	centers  *fakeCenterRepo

	center  *entity.Center
	patient *entity.Patient
	userID  uuid.UUID
	ctx     context.Context
}

func newBillFixture(t *testing.T, settings entity.CenterSettings) *billFixture {
	t.Helper()

	f := &billFixture{
		bills:    newFakeBillRepo(),
		txns:     newFakeTxnRepo(),
		patients: newFakePatientRepo(),
		catalog:  newFakeServiceItemRepo(),
		centers:  newFakeCenterRepo(),
		userID:   uuid.New(),
	}
	f.svc = NewBillService(f.bills, f.txns, f.patients, f.catalog, f.centers, nil)

	f.center = f.centers.put(&entity.Center{Name: "Koramangala", Slug: "koramangala", Settings: settings})
	f.patient = f.patients.put(&entity.Patient{
		CenterID:  f.center.ID,
		MRN:       "MRN-001",
		FirstName: "Asha",
		LastName:  "Rao",
	})
	f.ctx = centerCtx(f.center.ID)
	return f
}

// seedPaidBill stores a fully paid two-item bill ready for refund edits.
func (f *billFixture) seedPaidBill() *entity.Bill {
	method := "cash"
	return f.bills.put(&entity.Bill{
		CenterID:      f.center.ID,
		InvoiceNumber: "NVC-20240210-0001",
		PatientID:     f.patient.ID,
		Patient:       *f.patient,
		GeneratedByID: f.userID,
		BillType:      "Consultation",
		Subtotal:      500,
		TotalAmount:   500,
		PaidAmount:    500,
		PaymentMethod: &method,
		Status:        enum.BillStatusBillingPaid,
		BillingStatus: enum.BillingStatusPaid,
		GeneratedAt:   time.Now().Add(-time.Hour),
		Items: []entity.BillItem{
			{Name: "Consultation", Code: "CON-GEN", Quantity: 1, UnitPrice: 300, LineTotal: 300},
			{Name: "Allergy Panel", Code: "LAB-AP", Quantity: 1, UnitPrice: 200, LineTotal: 200},
		},
	})
}

func TestCreateBill_RoundsTotalIntoDiscounts(t *testing.T) {
	f := newBillFixture(t, entity.CenterSettings{TaxRate: 18, RoundTotals: true, InvoicePrefix: "NVC-"})

	bill, err := f.svc.CreateBill(f.ctx, &CreateBillInput{
		UserID:    f.userID,
		PatientID: f.patient.ID,
		BillType:  "Consultation",
		Items: []BillItemInput{
			{Name: "Consultation", Code: "CON-GEN", Quantity: 1, UnitPrice: 103},
		},
	})
	require.NoError(t, err)

	// 103 + 18.54 GST = 121.54, rounded down to 120 with the difference
	// folded into discounts
	assert.InDelta(t, 103, bill.Subtotal, 0.001)
	assert.InDelta(t, 18.54, bill.Taxes, 0.001)
	assert.InDelta(t, 1.54, bill.Discounts, 0.001)
	assert.InDelta(t, 120, bill.TotalAmount, 0.001)
	assert.Equal(t, enum.BillStatusBillingGenerated, bill.Status)
	assert.Equal(t, enum.BillingStatusUnpaid, bill.BillingStatus)
	assert.Contains(t, bill.InvoiceNumber, "NVC-")
}

func TestCreateBill_NoRoundingWhenDisabled(t *testing.T) {
	f := newBillFixture(t, entity.CenterSettings{TaxRate: 18})

	bill, err := f.svc.CreateBill(f.ctx, &CreateBillInput{
		UserID:    f.userID,
		PatientID: f.patient.ID,
		BillType:  "Consultation",
		Items: []BillItemInput{
			{Name: "Consultation", Quantity: 1, UnitPrice: 103},
		},
	})
	require.NoError(t, err)

	assert.InDelta(t, 121.54, bill.TotalAmount, 0.001)
	assert.InDelta(t, 0, bill.Discounts, 0.001)
}

func TestCreateBill_UsesCatalogTaxRateAndName(t *testing.T) {
	f := newBillFixture(t, entity.CenterSettings{TaxRate: 18})
	item := f.catalog.put(&entity.ServiceItem{
		CenterID: f.center.ID,
		Code:     "SLIT-M1",
		Name:     "SLIT Therapy Month 1",
		Category: "slit",
		TaxRate:  5,
	})

	bill, err := f.svc.CreateBill(f.ctx, &CreateBillInput{
		UserID:    f.userID,
		PatientID: f.patient.ID,
		BillType:  "SLIT Therapy",
		Items: []BillItemInput{
			{ServiceItemID: &item.ID, Quantity: 2, UnitPrice: 1000},
		},
	})
	require.NoError(t, err)

	// Catalog rate of 5% wins over the center default of 18%
	assert.InDelta(t, 2000, bill.Subtotal, 0.001)
	assert.InDelta(t, 100, bill.Taxes, 0.001)
	require.Len(t, bill.Items, 1)
	assert.Equal(t, "SLIT Therapy Month 1", bill.Items[0].Name)
	assert.Equal(t, "SLIT-M1", bill.Items[0].Code)
}

func TestCreateBill_Validation(t *testing.T) {
	f := newBillFixture(t, entity.CenterSettings{})

	tests := []struct {
		name  string
		input *CreateBillInput
	}{
		{
			name:  "no items",
			input: &CreateBillInput{PatientID: f.patient.ID},
		},
		{
			name: "negative discount",
			input: &CreateBillInput{
				PatientID: f.patient.ID,
				Discounts: -10,
				Items:     []BillItemInput{{Name: "X", Quantity: 1, UnitPrice: 100}},
			},
		},
		{
			name: "discount exceeds bill",
			input: &CreateBillInput{
				PatientID: f.patient.ID,
				Discounts: 500,
				Items:     []BillItemInput{{Name: "X", Quantity: 1, UnitPrice: 100}},
			},
		},
		{
			name: "zero quantity",
			input: &CreateBillInput{
				PatientID: f.patient.ID,
				Items:     []BillItemInput{{Name: "X", Quantity: 0, UnitPrice: 100}},
			},
		},
		{
			name: "negative price",
			input: &CreateBillInput{
				PatientID: f.patient.ID,
				Items:     []BillItemInput{{Name: "X", Quantity: 1, UnitPrice: -5}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateBill(f.ctx, tt.input)
			assert.Error(t, err)
		})
	}
}

func TestCreateBill_UnknownPatient(t *testing.T) {
	f := newBillFixture(t, entity.CenterSettings{})

	_, err := f.svc.CreateBill(f.ctx, &CreateBillInput{
		PatientID: uuid.New(),
		Items:     []BillItemInput{{Name: "X", Quantity: 1, UnitPrice: 100}},
	})
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Code)
}

func TestCreateBill_RequiresCenterContext(t *testing.T) {
	f := newBillFixture(t, entity.CenterSettings{})

	_, err := f.svc.CreateBill(context.Background(), &CreateBillInput{
		PatientID: f.patient.ID,
		Items:     []BillItemInput{{Name: "X", Quantity: 1, UnitPrice: 100}},
	})
	assert.Error(t, err)
}

func TestRecordPayment_PartialThenSettled(t *testing.T) {
	f := newBillFixture(t, entity.CenterSettings{})
	bill := f.bills.put(&entity.Bill{
		CenterID:      f.center.ID,
		InvoiceNumber: "NVC-20240210-0002",
		PatientID:     f.patient.ID,
		Patient:       *f.patient,
		BillType:      "Consultation",
		TotalAmount:   500,
		Status:        enum.BillStatusBillingGenerated,
		BillingStatus: enum.BillingStatusUnpaid,
		GeneratedAt:   time.Now(),
	})

	updated, err := f.svc.RecordPayment(f.ctx, &RecordPaymentInput{
		BillID:        bill.ID,
		UserID:        f.userID,
		Amount:        200,
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	assert.InDelta(t, 200, updated.PaidAmount, 0.001)
	assert.Equal(t, enum.BillingStatusPartial, updated.BillingStatus)

	updated, err = f.svc.RecordPayment(f.ctx, &RecordPaymentInput{
		BillID:        bill.ID,
		UserID:        f.userID,
		Amount:        300,
		PaymentMethod: "upi",
	})
	require.NoError(t, err)
	assert.Equal(t, enum.BillingStatusPaid, updated.BillingStatus)
	assert.Equal(t, enum.BillStatusBillingPaid, updated.Status)
	require.Len(t, updated.Payments, 2)

	// Every payment lands on the ledger as a completed transaction
	require.Len(t, f.txns.txns, 2)
	assert.Equal(t, "completed", f.txns.txns[0].Status)
	assert.InDelta(t, 200, f.txns.txns[0].Amount, 0.001)
	assert.Equal(t, "Asha Rao", f.txns.txns[0].PatientName)
	require.NotNil(t, f.txns.txns[0].InvoiceNumber)
	assert.Equal(t, bill.InvoiceNumber, *f.txns.txns[0].InvoiceNumber)
}

func TestRecordPayment_Guards(t *testing.T) {
	f := newBillFixture(t, entity.CenterSettings{})
	bill := f.bills.put(&entity.Bill{
		CenterID:      f.center.ID,
		InvoiceNumber: "NVC-20240210-0003",
		PatientID:     f.patient.ID,
		Patient:       *f.patient,
		TotalAmount:   100,
		Status:        enum.BillStatusBillingGenerated,
		BillingStatus: enum.BillingStatusUnpaid,
	})

	_, err := f.svc.RecordPayment(f.ctx, &RecordPaymentInput{BillID: bill.ID, Amount: 0, PaymentMethod: "cash"})
	assert.Error(t, err, "zero amount")

	_, err = f.svc.RecordPayment(f.ctx, &RecordPaymentInput{BillID: bill.ID, Amount: 150, PaymentMethod: "cash"})
	assert.Error(t, err, "overpayment")

	_, err = f.svc.RecordPayment(f.ctx, &RecordPaymentInput{BillID: bill.ID, Amount: 50})
	assert.Error(t, err, "missing method")

	_, err = f.svc.RecordPayment(f.ctx, &RecordPaymentInput{BillID: uuid.New(), Amount: 50, PaymentMethod: "cash"})
	assert.Error(t, err, "unknown bill")

	bill.Status = enum.BillStatusCancelled
	_, err = f.svc.RecordPayment(f.ctx, &RecordPaymentInput{BillID: bill.ID, Amount: 50, PaymentMethod: "cash"})
	assert.ErrorIs(t, err, apperror.ErrBillCancelled)
}

func TestPreviewRefund(t *testing.T) {
	f := newBillFixture(t, entity.CenterSettings{})
	bill := f.seedPaidBill()

	preview, err := f.svc.PreviewRefund(f.ctx, bill.ID, []uuid.UUID{bill.Items[0].ID})
	require.NoError(t, err)

	assert.InDelta(t, 200, preview.Breakdown.Refund, 0.001)
	assert.InDelta(t, 300, preview.Breakdown.NewSubTotal, 0.001)
	assert.InDelta(t, 300, preview.NewTotal, 0.001)

	// Preview must not touch the stored bill
	stored, _ := f.bills.GetByID(f.ctx, bill.ID)
	assert.InDelta(t, 500, stored.TotalAmount, 0.001)
	assert.False(t, stored.Items[1].Removed)
}

func TestEditWithRefund(t *testing.T) {
	f := newBillFixture(t, entity.CenterSettings{})
	bill := f.seedPaidBill()

	updated, err := f.svc.EditWithRefund(f.ctx, &EditWithRefundInput{
		BillID:          bill.ID,
		UserID:          f.userID,
		RetainedItemIDs: []uuid.UUID{bill.Items[0].ID},
		RefundMethod:    "cash",
	})
	require.NoError(t, err)

	assert.InDelta(t, 300, updated.TotalAmount, 0.001)
	assert.InDelta(t, 200, updated.RefundedAmount, 0.001)
	assert.Equal(t, enum.BillStatusRefunded, updated.Status)
	assert.Equal(t, enum.BillingStatusRefunded, updated.BillingStatus)
	assert.False(t, updated.Items[0].Removed)
	assert.True(t, updated.Items[1].Removed)
	require.NotNil(t, updated.RefundedAt)

	require.Len(t, updated.Refunds, 1)
	assert.InDelta(t, 200, updated.Refunds[0].Amount, 0.001)

	// Refund shows on the ledger as a refunded transaction
	require.Len(t, f.txns.txns, 1)
	assert.Equal(t, "refunded", f.txns.txns[0].Status)
	assert.InDelta(t, 200, f.txns.txns[0].RefundAmount, 0.001)
}

func TestEditWithRefund_Guards(t *testing.T) {
	f := newBillFixture(t, entity.CenterSettings{})
	bill := f.seedPaidBill()

	_, err := f.svc.EditWithRefund(f.ctx, &EditWithRefundInput{
		BillID: bill.ID, RetainedItemIDs: []uuid.UUID{bill.Items[0].ID},
	})
	assert.Error(t, err, "missing refund method")

	_, err = f.svc.EditWithRefund(f.ctx, &EditWithRefundInput{
		BillID: bill.ID, RetainedItemIDs: nil, RefundMethod: "cash",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cancel the bill instead")

	_, err = f.svc.EditWithRefund(f.ctx, &EditWithRefundInput{
		BillID:          bill.ID,
		RetainedItemIDs: []uuid.UUID{bill.Items[0].ID, bill.Items[1].ID},
		RefundMethod:    "cash",
	})
	assert.Error(t, err, "nothing removed")

	_, err = f.svc.EditWithRefund(f.ctx, &EditWithRefundInput{
		BillID:          bill.ID,
		RetainedItemIDs: []uuid.UUID{uuid.New()},
		RefundMethod:    "cash",
	})
	assert.Error(t, err, "unknown item")

	bill.BillingStatus = enum.BillingStatusPartial
	_, err = f.svc.EditWithRefund(f.ctx, &EditWithRefundInput{
		BillID:          bill.ID,
		RetainedItemIDs: []uuid.UUID{bill.Items[0].ID},
		RefundMethod:    "cash",
	})
	assert.ErrorIs(t, err, apperror.ErrBillNotRefundable)
}

func TestCancelBill_PaidBillRefundsInFull(t *testing.T) {
	f := newBillFixture(t, entity.CenterSettings{})
	bill := f.seedPaidBill()

	cancelled, err := f.svc.CancelBill(f.ctx, bill.ID, f.userID, nil)
	require.NoError(t, err)

	assert.Equal(t, enum.BillStatusCancelled, cancelled.Status)
	assert.Equal(t, enum.BillingStatusCancelled, cancelled.BillingStatus)
	assert.InDelta(t, 500, cancelled.RefundedAmount, 0.001)
	require.NotNil(t, cancelled.CancelledAt)

	require.Len(t, cancelled.Refunds, 1)
	assert.InDelta(t, 500, cancelled.Refunds[0].Amount, 0.001)
	assert.Equal(t, "cash", cancelled.Refunds[0].RefundMethod)

	require.Len(t, f.txns.txns, 1)
	assert.Equal(t, "refunded", f.txns.txns[0].Status)
	assert.InDelta(t, 500, f.txns.txns[0].RefundAmount, 0.001)
}

func TestCancelBill_UnpaidBillLeavesLedgerAlone(t *testing.T) {
	f := newBillFixture(t, entity.CenterSettings{})
	bill := f.bills.put(&entity.Bill{
		CenterID:      f.center.ID,
		InvoiceNumber: "NVC-20240210-0004",
		PatientID:     f.patient.ID,
		Patient:       *f.patient,
		TotalAmount:   100,
		Status:        enum.BillStatusBillingGenerated,
		BillingStatus: enum.BillingStatusUnpaid,
	})

	cancelled, err := f.svc.CancelBill(f.ctx, bill.ID, f.userID, nil)
	require.NoError(t, err)

	assert.Equal(t, enum.BillStatusCancelled, cancelled.Status)
	assert.InDelta(t, 0, cancelled.RefundedAmount, 0.001)
	assert.Empty(t, cancelled.Refunds)
	assert.Empty(t, f.txns.txns)

	_, err = f.svc.CancelBill(f.ctx, bill.ID, f.userID, nil)
	assert.Error(t, err, "already cancelled")
}
