package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nivaancare/clinic-api/internal/domain/enum"
)

// Bill represents an invoice raised against a patient. A bill carries its
// line items, the payments received against it, and any refunds issued.
type Bill struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CenterID uuid.UUID `gorm:"type:uuid;not null;index" json:"center_id"`

	InvoiceNumber string    `gorm:"size:100;not null;uniqueIndex:idx_bills_center_invoice" json:"invoice_number"`
	PatientID     uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	GeneratedByID uuid.UUID `gorm:"type:uuid;not null;index" json:"generated_by_id"`

	// BillType is the classification used by the collection report,
	// for example Consultation, SLIT Therapy, Lab, Pharmacy.
	BillType         string  `gorm:"size:100;index" json:"bill_type"`
	ConsultationType *string `gorm:"size:50" json:"consultation_type,omitempty"` // followup, ip, op
	IsReassignment   bool    `gorm:"default:false" json:"is_reassignment"`
	ReassignmentID   *string `gorm:"size:100" json:"reassignment_id,omitempty"`
	Description      *string `gorm:"type:text" json:"description,omitempty"`

	// Money columns are rupee amounts with two decimal places.
	Subtotal       float64 `gorm:"type:decimal(12,2);not null;default:0" json:"subtotal"`
	Taxes          float64 `gorm:"type:decimal(12,2);not null;default:0" json:"taxes"`
	Discounts      float64 `gorm:"type:decimal(12,2);not null;default:0" json:"discounts"`
	TotalAmount    float64 `gorm:"type:decimal(12,2);not null;default:0" json:"total_amount"`
	PaidAmount     float64 `gorm:"type:decimal(12,2);not null;default:0" json:"paid_amount"`
	RefundedAmount float64 `gorm:"type:decimal(12,2);not null;default:0" json:"refunded_amount"`

	Status        enum.BillStatus    `gorm:"size:50;not null;default:'pending';index" json:"status"`
	BillingStatus enum.BillingStatus `gorm:"size:50;not null;default:'unpaid';index" json:"billing_status"`

	// PaymentMethod records the mode of the latest payment for quick display.
	PaymentMethod *string `gorm:"size:50" json:"payment_method,omitempty"`

	GeneratedAt time.Time  `gorm:"not null;index" json:"generated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	RefundedAt  *time.Time `json:"refunded_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Center      Center          `gorm:"foreignKey:CenterID" json:"-"`
	Patient     Patient         `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	GeneratedBy User            `gorm:"foreignKey:GeneratedByID" json:"-"`
	Items       []BillItem      `gorm:"foreignKey:BillID" json:"items,omitempty"`
	Payments    []PaymentRecord `gorm:"foreignKey:BillID" json:"payments,omitempty"`
	Refunds     []RefundRecord  `gorm:"foreignKey:BillID" json:"refunds,omitempty"`
}

// BeforeCreate generates a UUID before creating a new bill
func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Bill model
func (Bill) TableName() string {
	return "bills"
}

// Outstanding returns the amount still owed on the bill
func (b *Bill) Outstanding() float64 {
	remaining := b.TotalAmount - b.PaidAmount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsPaid reports whether the bill has been settled in full
func (b *Bill) IsPaid() bool {
	return b.BillingStatus == enum.BillingStatusPaid
}

// BillItem is one line on a bill, priced at the time of billing
type BillItem struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BillID uuid.UUID `gorm:"type:uuid;not null;index" json:"bill_id"`

	ServiceItemID *uuid.UUID `gorm:"type:uuid;index" json:"service_item_id,omitempty"`
	Code          string     `gorm:"size:100" json:"code"`
	Name          string     `gorm:"size:255;not null" json:"name"`
	Quantity      float64    `gorm:"type:decimal(10,2);not null;default:1" json:"quantity"`
	UnitPrice     float64    `gorm:"type:decimal(12,2);not null;default:0" json:"unit_price"`
	LineTotal     float64    `gorm:"type:decimal(12,2);not null;default:0" json:"line_total"`

	// Removed marks items taken off the bill by a refund edit. Removed
	// items stay on record so the original composition is auditable.
	Removed bool `gorm:"default:false" json:"removed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new bill item
func (bi *BillItem) BeforeCreate(tx *gorm.DB) error {
	if bi.ID == uuid.Nil {
		bi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BillItem model
func (BillItem) TableName() string {
	return "bill_items"
}

// PaymentRecord is one payment received against a bill
type PaymentRecord struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BillID uuid.UUID `gorm:"type:uuid;not null;index" json:"bill_id"`

	Amount        float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaymentMethod string    `gorm:"size:50;not null" json:"payment_method"`
	Status        string    `gorm:"size:50;not null;default:'completed'" json:"status"` // completed, refunded, cancelled
	Reference     *string   `gorm:"size:255" json:"reference,omitempty"`
	ReceivedByID  uuid.UUID `gorm:"type:uuid;index" json:"received_by_id"`
	PaidAt        time.Time `gorm:"not null;index" json:"paid_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new payment record
func (pr *PaymentRecord) BeforeCreate(tx *gorm.DB) error {
	if pr.ID == uuid.Nil {
		pr.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PaymentRecord model
func (PaymentRecord) TableName() string {
	return "payment_records"
}

// RefundRecord is one refund issued against a bill
type RefundRecord struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BillID uuid.UUID `gorm:"type:uuid;not null;index" json:"bill_id"`

	Amount       float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	RefundMethod string    `gorm:"size:50;not null" json:"refund_method"`
	Reason       *string   `gorm:"type:text" json:"reason,omitempty"`
	RefundedByID uuid.UUID `gorm:"type:uuid;index" json:"refunded_by_id"`
	ProcessedAt  time.Time `gorm:"not null;index" json:"processed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new refund record
func (rr *RefundRecord) BeforeCreate(tx *gorm.DB) error {
	if rr.ID == uuid.Nil {
		rr.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the RefundRecord model
func (RefundRecord) TableName() string {
	return "refund_records"
}
