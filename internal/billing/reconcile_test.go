package billing

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feb2024() Filter {
	return Filter{
		StartDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
	}
}

func TestReconcile_EndToEnd(t *testing.T) {
	bills := []Bill{
		{
			InvoiceNumber: "NVC-1001",
			PatientID:     "P-1",
			PatientName:   "Asha Rao",
			GeneratedBy:   "reception-1",
			Amount:        1000,
			PaidAmount:    1000,
			Status:        "paid",
			PaymentMethod: "Cash",
			GeneratedAt:   "2024-02-10",
		},
		{
			InvoiceNumber: "NVC-1002",
			PatientID:     "P-2",
			PatientName:   "Vikram Shetty",
			Amount:        750,
			Status:        "Billing_Generated",
			Billing:       &BillingInfo{Status: "cancelled", CancelledAt: "2024-02-05"},
			GeneratedAt:   "2024-02-04",
		},
	}

	report := Reconcile(bills, nil, feb2024())

	require.Len(t, report.Payments, 1)
	assert.InDelta(t, 1000, report.Payments[0].Amount, 0.001)
	assert.Equal(t, "NVC-1001", report.Payments[0].ReceiptNumber)
	assert.Equal(t, TypeConsultation, report.Payments[0].BillType)
	assert.Empty(t, report.Refunds)

	assert.InDelta(t, 1000, report.Summary.AmountCollectedInCash, 0.001)
	assert.InDelta(t, 1000, report.Summary.TotalCollected, 0.001)
	assert.Equal(t, 1, report.Summary.CancelledCount)
	assert.InDelta(t, 750, report.Summary.CancelledAmount, 0.001)
	assert.InDelta(t, 1000, report.Summary.NetCollected, 0.001)
}

func TestReconcile_PaymentHistoryPreferred(t *testing.T) {
	bill := Bill{
		InvoiceNumber: "NVC-2001",
		PaidAmount:    900,
		Status:        "paid",
		GeneratedAt:   "2024-02-01",
		PaymentHistory: []PaymentEntry{
			{Amount: 500, Date: "2024-02-03", PaymentMethod: "UPI", Status: "paid"},
			{Amount: 400, PaidAt: "2024-02-07T10:30:00Z", PaymentMethod: "Credit Card"},
			{Amount: 300, Date: "2024-02-08", Status: "cancelled"},
		},
	}

	report := Reconcile([]Bill{bill}, nil, feb2024())

	// Two history entries emitted, the cancelled one excluded, and no
	// synthetic entry was added on top.
	require.Len(t, report.Payments, 2)
	assert.InDelta(t, 500, report.Payments[0].Amount, 0.001)
	assert.InDelta(t, 400, report.Payments[1].Amount, 0.001)
	assert.InDelta(t, 500, report.Summary.AmountCollectedInUPI, 0.001)
	assert.InDelta(t, 400, report.Summary.AmountCollectedInCard, 0.001)
	assert.InDelta(t, 900, report.Summary.TotalCollected, 0.001)
}

func TestReconcile_LastResortSyntheticPayment(t *testing.T) {
	// No payment history, no recognizable paid status, but an amount was
	// collected and the bill's date is in range.
	bill := Bill{
		InvoiceNumber: "NVC-2002",
		PaidAmount:    650,
		Status:        "Billing_Generated",
		CreatedAt:     "2024-02-12",
		PaymentMethod: "net banking",
	}

	report := Reconcile([]Bill{bill}, nil, feb2024())

	require.Len(t, report.Payments, 1)
	assert.InDelta(t, 650, report.Payments[0].Amount, 0.001)
	assert.InDelta(t, 650, report.Summary.AmountCollectedInNEFT, 0.001)
}

func TestReconcile_RefundDedup(t *testing.T) {
	// The same 500 refund represented through refunds[] AND the bill-level
	// refundedAmount must appear exactly once.
	bill := Bill{
		InvoiceNumber:  "NVC-3001",
		Amount:         500,
		PaidAmount:     500,
		RefundedAmount: 500,
		Status:         "refunded",
		GeneratedAt:    "2024-02-01",
		Refunds: []RefundDetail{
			{Amount: 500, RefundedAt: "2024-02-15", RefundMethod: "cash", RefundedBy: "accounts-2"},
		},
	}

	report := Reconcile([]Bill{bill}, nil, feb2024())

	require.Len(t, report.Refunds, 1)
	assert.InDelta(t, 500, report.Refunds[0].Amount, 0.001)
	assert.Equal(t, "accounts-2", report.Refunds[0].UserName)
	assert.InDelta(t, 500, report.Summary.TotalRefund, 0.001)
	assert.Equal(t, 1, report.Summary.RefundedCount)
}

func TestReconcile_RefundTripleRepresentation(t *testing.T) {
	// Payment history refund mark, refunds[] entry and refundedAmount all
	// describing one real-world refund of 250.
	bill := Bill{
		InvoiceNumber:  "NVC-3002",
		PaidAmount:     250,
		RefundedAmount: 250,
		GeneratedAt:    "2024-02-01",
		PaymentHistory: []PaymentEntry{
			{
				Amount: 250,
				Date:   "2024-02-02",
				Status: "refunded",
				Refund: &RefundDetail{RefundedAmount: 250, RefundedAt: "2024-02-20"},
			},
		},
		Refunds: []RefundDetail{
			{RefundAmount: 250, ProcessedAt: "2024-02-20"},
		},
	}

	report := Reconcile([]Bill{bill}, nil, feb2024())

	require.Len(t, report.Refunds, 1)
	assert.InDelta(t, 250, report.Refunds[0].Amount, 0.001)
}

func TestReconcile_RefundDateNotBillDate(t *testing.T) {
	// Bill created in January, refunded mid-March: the refund belongs to the
	// March report and must not appear in January's.
	bill := Bill{
		InvoiceNumber: "NVC-3003",
		PaidAmount:    800,
		Status:        "paid",
		CreatedAt:     "2024-01-01",
		Refunds: []RefundDetail{
			{Amount: 800, RefundedAt: "2024-03-15"},
		},
		RefundedAmount: 800,
	}

	march := Filter{
		StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	january := Filter{
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}

	marchReport := Reconcile([]Bill{bill}, nil, march)
	require.Len(t, marchReport.Refunds, 1)
	assert.InDelta(t, 800, marchReport.Refunds[0].Amount, 0.001)

	januaryReport := Reconcile([]Bill{bill}, nil, january)
	assert.Empty(t, januaryReport.Refunds)
	// The January payment itself still counts in January.
	require.Len(t, januaryReport.Payments, 1)
}

func TestReconcile_TransactionRefunds(t *testing.T) {
	bills := []Bill{
		{
			InvoiceNumber: "NVC-4001",
			Description:   "SLIT maintenance vial",
			PaidAmount:    1200,
			Status:        "paid",
			GeneratedAt:   "2024-02-01",
		},
	}
	transactions := []Transaction{
		{
			ReceiptNumber: "RCP-77",
			InvoiceNumber: "NVC-4001",
			Amount:        1200,
			Status:        "refunded",
			Date:          "2024-02-18",
			PaymentMethod: "UPI",
		},
		{
			ReceiptNumber: "RCP-78",
			Amount:        300,
			Status:        "success",
			Date:          "2024-02-19",
		},
		{
			ReceiptNumber: "RCP-79",
			Amount:        90,
			Status:        "refunded",
			Date:          "2023-11-02", // out of range
		},
	}

	report := Reconcile(bills, transactions, feb2024())

	require.Len(t, report.Refunds, 1)
	// Bill type borrowed from the matched bill.
	assert.Equal(t, TypeSlitTherapy, report.Refunds[0].BillType)
	assert.Equal(t, "RCP-77", report.Refunds[0].ReceiptNumber)
	assert.InDelta(t, 1200, report.Summary.TotalRefund, 0.001)
}

func TestReconcile_CancellationDateGoverns(t *testing.T) {
	// Cancelled in March; a February report must not count it.
	bill := Bill{
		InvoiceNumber: "NVC-5001",
		Amount:        400,
		GeneratedAt:   "2024-02-10",
		Billing:       &BillingInfo{Status: "cancelled", CancelledAt: "2024-03-02"},
	}

	report := Reconcile([]Bill{bill}, nil, feb2024())
	assert.Zero(t, report.Summary.CancelledCount)

	march := Filter{
		StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	marchReport := Reconcile([]Bill{bill}, nil, march)
	assert.Equal(t, 1, marchReport.Summary.CancelledCount)
	assert.InDelta(t, 400, marchReport.Summary.CancelledAmount, 0.001)
}

func TestReconcile_ConsultationTypeFilter(t *testing.T) {
	bills := []Bill{
		{InvoiceNumber: "A", ConsultationType: "OP", PaidAmount: 100, Status: "paid", GeneratedAt: "2024-02-05"},
		{InvoiceNumber: "B", ConsultationType: "IP", PaidAmount: 200, Status: "paid", GeneratedAt: "2024-02-06"},
		// SLIT bill is not consultation-family and passes the filter untouched.
		{InvoiceNumber: "C", Description: "slit build-up", PaidAmount: 300, Status: "paid", GeneratedAt: "2024-02-07"},
	}

	f := feb2024()
	f.ConsultationType = "OP"
	report := Reconcile(bills, nil, f)

	require.Len(t, report.Payments, 2)
	assert.Equal(t, "A", report.Payments[0].ReceiptNumber)
	assert.Equal(t, "C", report.Payments[1].ReceiptNumber)

	f.ConsultationType = "both"
	assert.Len(t, Reconcile(bills, nil, f).Payments, 3)
}

func TestReconcile_ZeroAndNegativeAmountsDiscarded(t *testing.T) {
	bills := []Bill{
		{
			InvoiceNumber: "NVC-6001",
			Status:        "paid",
			GeneratedAt:   "2024-02-05",
			PaymentHistory: []PaymentEntry{
				{Amount: 0, Date: "2024-02-05"},
				{Amount: -50, Date: "2024-02-06"},
			},
		},
	}

	report := Reconcile(bills, nil, feb2024())
	assert.Empty(t, report.Payments)
	assert.Zero(t, report.Summary.TotalCollected)
}

func TestReconcile_UnparseableDatesExcluded(t *testing.T) {
	bills := []Bill{
		{
			InvoiceNumber: "NVC-6002",
			PaidAmount:    123,
			Status:        "paid",
			GeneratedAt:   "not-a-date",
		},
	}

	// Never panics, never emits.
	report := Reconcile(bills, nil, feb2024())
	assert.Empty(t, report.Payments)
	assert.Empty(t, report.Refunds)
}

func TestReconcile_SortedAscendingByDate(t *testing.T) {
	bills := []Bill{
		{InvoiceNumber: "L", PaidAmount: 10, Status: "paid", GeneratedAt: "2024-02-20"},
		{InvoiceNumber: "E", PaidAmount: 20, Status: "paid", GeneratedAt: "2024-02-02"},
		{InvoiceNumber: "M", PaidAmount: 30, Status: "paid", GeneratedAt: "2024-02-11"},
	}

	report := Reconcile(bills, nil, feb2024())
	require.Len(t, report.Payments, 3)
	assert.Equal(t, "E", report.Payments[0].ReceiptNumber)
	assert.Equal(t, "M", report.Payments[1].ReceiptNumber)
	assert.Equal(t, "L", report.Payments[2].ReceiptNumber)
}

func TestReconcile_Idempotent(t *testing.T) {
	bills := []Bill{
		{
			InvoiceNumber:  "NVC-7001",
			PaidAmount:     500,
			RefundedAmount: 200,
			Status:         "paid",
			GeneratedAt:    "2024-02-01",
			Refunds:        []RefundDetail{{Amount: 200, RefundedAt: "2024-02-10"}},
		},
	}
	transactions := []Transaction{
		{ReceiptNumber: "R1", Amount: 100, Status: "refunded", Date: "2024-02-12"},
	}

	first := Reconcile(bills, transactions, feb2024())
	second := Reconcile(bills, transactions, feb2024())
	assert.Equal(t, first, second)
}

func TestClassifyBill(t *testing.T) {
	tests := []struct {
		name string
		bill Bill
		want string
	}{
		{"explicit bill type wins", Bill{BillType: "Lab", Description: "slit"}, "Lab"},
		{"reassignment flag", Bill{IsReassignment: true, ConsultationType: "OP"}, TypeReassignment},
		{"reassignment id", Bill{ReassignmentID: "RA-9"}, TypeReassignment},
		{"superconsultant prefix", Bill{ConsultationType: "superconsultant_cardio"}, TypeSuperConsultant},
		{"slit in description", Bill{Description: "SLIT therapy phase 2"}, TypeSlitTherapy},
		{"type field lab", Bill{Type: "lab_test"}, TypeLab},
		{"type field registration", Bill{Type: "registration"}, TypeRegistration},
		{"followup consultation", Bill{ConsultationType: "followup"}, TypeFollowup},
		{"inpatient", Bill{ConsultationType: "IP"}, TypeInpatient},
		{"outpatient", Bill{ConsultationType: "OP"}, TypeOutpatient},
		{"default", Bill{}, TypeConsultation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyBill(tt.bill))
		})
	}
}

func TestNormalizePayMode(t *testing.T) {
	tests := []struct {
		method string
		want   string
	}{
		{"Cash", BucketCash},
		{"CASH payment", BucketCash},
		{"Credit Card", BucketCard},
		{"debit_card", BucketCard},
		{"CARD", BucketCard},
		{"upi", BucketUPI},
		{"GPay UPI", BucketUPI},
		{"NEFT", BucketNEFT},
		{"IMPS", BucketNEFT},
		{"net banking", BucketNEFT},
		{"cheque", BucketOther},
		{"", BucketOther},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePayMode(tt.method))
		})
	}
}

func TestAmountLenientUnmarshal(t *testing.T) {
	var b Bill
	payload := []byte(`{
		"invoiceNumber": "NVC-8001",
		"amount": "450.50",
		"paidAmount": null,
		"taxes": "",
		"discounts": 10
	}`)
	require.NoError(t, json.Unmarshal(payload, &b))
	assert.InDelta(t, 450.50, b.Amount.Float(), 0.001)
	assert.Zero(t, b.PaidAmount.Float())
	assert.Zero(t, b.Taxes.Float())
	assert.InDelta(t, 10, b.Discounts.Float(), 0.001)
}
