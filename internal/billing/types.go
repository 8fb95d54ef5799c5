package billing

import "time"

// The input types below deliberately model the polymorphism of the upstream
// billing feed instead of normalizing it away: the same real-world refund is
// frequently represented through more than one path at once (a paymentHistory
// entry, a refunds[] record, a bill-level refundedAmount), and the
// dedup-by-amount logic in Reconcile depends on seeing every candidate
// representation simultaneously.

// RefundDetail is one refund record. It may appear in a bill's refunds[]
// array or embedded inside a payment history entry; the amount and timestamp
// each live under one of several alternate field names.
type RefundDetail struct {
	Amount         Amount `json:"amount"`
	RefundAmount   Amount `json:"refundAmount"`
	RefundedAmount Amount `json:"refundedAmount"`
	RefundedAt     string `json:"refundedAt"`
	ProcessedAt    string `json:"processedAt"`
	Date           string `json:"date"`
	RefundMethod   string `json:"refundMethod"`
	RefundedBy     string `json:"refundedBy"`
}

// Value resolves the refund amount through its alternate field names.
func (r RefundDetail) Value() float64 {
	for _, v := range []float64{r.RefundedAmount.Float(), r.RefundAmount.Float(), r.Amount.Float()} {
		if v > 0 {
			return v
		}
	}
	return 0
}

// When resolves the refund timestamp through its alternate field names.
func (r RefundDetail) When() (time.Time, bool) {
	return firstWhen(r.RefundedAt, r.ProcessedAt, r.Date)
}

// PaymentEntry is one entry in a bill's payment history. A single entry
// represents either a collected payment or, via its Refund sub-object or a
// "refunded" status, a refund event; the two outcomes are mutually
// exclusive for the same entry.
type PaymentEntry struct {
	Amount        Amount        `json:"amount"`
	Date          string        `json:"date"`
	PaidAt        string        `json:"paidAt"`
	CreatedAt     string        `json:"createdAt"`
	Timestamp     string        `json:"timestamp"`
	PaymentMethod string        `json:"paymentMethod"`
	Status        string        `json:"status"` // paid | refunded | cancelled
	Refund        *RefundDetail `json:"refund,omitempty"`
}

// BillingInfo is the nested billing sub-state. Its status is authoritative
// for the cancelled/refunded determination, independent of the top-level
// workflow status.
type BillingInfo struct {
	Status       string `json:"status"`
	RefundAmount Amount `json:"refundAmount"`
	CancelledAt  string `json:"cancelledAt"`
	RefundedAt   string `json:"refundedAt"`
}

// Bill is a bill record as the reconciliation engine receives it. All of it
// is read-only from the engine's perspective.
type Bill struct {
	InvoiceNumber  string `json:"invoiceNumber"`
	PatientID      string `json:"patientId"`
	PatientName    string `json:"patientName"`
	GeneratedBy    string `json:"generatedBy"`
	CenterID       string `json:"centerId"`
	Amount         Amount `json:"amount"`
	PaidAmount     Amount `json:"paidAmount"`
	Taxes          Amount `json:"taxes"`
	Discounts      Amount `json:"discounts"`
	RefundedAmount Amount `json:"refundedAmount"`

	Status  string       `json:"status"` // workflow stage
	Billing *BillingInfo `json:"billing,omitempty"`

	BillType         string `json:"billType"`
	Type             string `json:"type"`
	Description      string `json:"description"`
	ConsultationType string `json:"consultationType"`
	IsReassignment   bool   `json:"isReassignment"`
	ReassignmentID   string `json:"reassignmentId"`

	PaymentMethod  string         `json:"paymentMethod"`
	PaymentHistory []PaymentEntry `json:"paymentHistory"`
	Refunds        []RefundDetail `json:"refunds"`
	RefundedAt     string         `json:"refundedAt"`
	RefundMethod   string         `json:"refundMethod"`
	RefundedBy     string         `json:"refundedBy"`

	GeneratedAt string `json:"generatedAt"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`

	Items []LineItem `json:"items"`
}

// fallbackDate is the bill's own date: generated, then created, then updated.
func (b Bill) fallbackDate() (time.Time, bool) {
	return firstWhen(b.GeneratedAt, b.CreatedAt, b.UpdatedAt)
}

// Transaction is a flat gateway transaction record, separate from bills.
type Transaction struct {
	ReceiptNumber string        `json:"receiptNumber"`
	InvoiceNumber string        `json:"invoiceNumber"`
	PatientID     string        `json:"patientId"`
	PatientName   string        `json:"patientName"`
	UserName      string        `json:"userName"`
	CenterID      string        `json:"centerId"`
	Amount        Amount        `json:"amount"`
	Status        string        `json:"status"`
	PaymentMethod string        `json:"paymentMethod"`
	Description   string        `json:"description"`
	Type          string        `json:"type"`
	Refund        *RefundDetail `json:"refund,omitempty"`
	Date          string        `json:"date"`
	CreatedAt     string        `json:"createdAt"`
}

// Filter bounds a reconciliation run. Date bounds are inclusive whole days:
// StartDate is taken at 00:00:00 and EndDate at 23:59:59.
type Filter struct {
	StartDate        time.Time
	EndDate          time.Time
	ConsultationType string
	CenterID         string
}

type dateRange struct {
	start time.Time
	end   time.Time
}

func (f Filter) dayRange() dateRange {
	s := f.StartDate
	e := f.EndDate
	return dateRange{
		start: time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, s.Location()),
		end:   time.Date(e.Year(), e.Month(), e.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), e.Location()),
	}
}

func (r dateRange) contains(t time.Time) bool {
	return !t.Before(r.start) && !t.After(r.end)
}

// LedgerEntry is one recognized payment or refund event surfaced in a
// report. Entries carry no persistent identity; they are recomputed fresh
// on every report request.
type LedgerEntry struct {
	Date          time.Time `json:"date"`
	PatientID     string    `json:"patientId"`
	PatientName   string    `json:"patientName"`
	UserName      string    `json:"userName"`
	ReceiptNumber string    `json:"receiptNumber"`
	PayMode       string    `json:"payMode"`
	Amount        float64   `json:"amount"`
	BillType      string    `json:"billType"`
}

// Summary aggregates a reconciliation run by payment bucket, with refund
// and cancellation rollups.
type Summary struct {
	AmountCollectedInCash  float64 `json:"amountCollectedInCash"`
	AmountCollectedInCard  float64 `json:"amountCollectedInCard"`
	AmountCollectedInUPI   float64 `json:"amountCollectedInUpi"`
	AmountCollectedInNEFT  float64 `json:"amountCollectedInNeft"`
	AmountCollectedInOther float64 `json:"amountCollectedInOther"`
	TotalCollected         float64 `json:"totalCollected"`
	TotalRefund            float64 `json:"totalRefund"`
	// NetCollected is TotalCollected - TotalRefund.
	NetCollected    float64 `json:"netCollected"`
	RefundedCount   int     `json:"refundedCount"`
	RefundedAmount  float64 `json:"refundedAmount"`
	CancelledCount  int     `json:"cancelledCount"`
	CancelledAmount float64 `json:"cancelledAmount"`
}

// Report is the full outcome of a reconciliation run.
type Report struct {
	Payments []LedgerEntry `json:"payments"`
	Refunds  []LedgerEntry `json:"refunds"`
	Summary  Summary       `json:"summary"`
}
