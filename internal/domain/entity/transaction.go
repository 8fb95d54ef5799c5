package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction is the ledger record of a single cash movement at the front
// desk. Transactions reference bills by invoice number rather than foreign
// key so the ledger survives bill edits and imports from older systems.
type Transaction struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CenterID uuid.UUID `gorm:"type:uuid;not null;index" json:"center_id"`

	ReceiptNumber string  `gorm:"size:100;not null;uniqueIndex:idx_transactions_center_receipt" json:"receipt_number"`
	InvoiceNumber *string `gorm:"size:100;index" json:"invoice_number,omitempty"`

	PatientID   *uuid.UUID `gorm:"type:uuid;index" json:"patient_id,omitempty"`
	PatientName string     `gorm:"size:255" json:"patient_name"`
	UserName    string     `gorm:"size:255" json:"user_name"`

	Amount        float64 `gorm:"type:decimal(12,2);not null" json:"amount"`
	PaymentMethod string  `gorm:"size:50" json:"payment_method"`
	Status        string  `gorm:"size:50;not null;default:'completed';index" json:"status"` // completed, refunded, cancelled
	Type          string  `gorm:"size:100" json:"type"`
	Description   *string `gorm:"type:text" json:"description,omitempty"`

	// RefundAmount is set on refund transactions that never pass through
	// a bill, for example appointment booking refunds.
	RefundAmount float64    `gorm:"type:decimal(12,2);not null;default:0" json:"refund_amount"`
	RefundedAt   *time.Time `json:"refunded_at,omitempty"`

	Date time.Time `gorm:"not null;index" json:"date"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Center Center `gorm:"foreignKey:CenterID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new transaction
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}
