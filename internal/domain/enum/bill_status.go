package enum

import (
	"database/sql/driver"
	"fmt"
)

// BillStatus represents the workflow status of a bill
type BillStatus string

const (
	BillStatusPending          BillStatus = "pending"
	BillStatusBillingGenerated BillStatus = "billing_generated"
	BillStatusBillingPaid      BillStatus = "billing_paid"
	BillStatusReportSent       BillStatus = "report_sent"
	BillStatusCompleted        BillStatus = "completed"
	BillStatusCancelled        BillStatus = "cancelled"
	BillStatusRefunded         BillStatus = "refunded"
)

func (s BillStatus) String() string {
	return string(s)
}

// IsValid reports whether the status is a known workflow status
func (s BillStatus) IsValid() bool {
	switch s {
	case BillStatusPending, BillStatusBillingGenerated, BillStatusBillingPaid,
		BillStatusReportSent, BillStatusCompleted, BillStatusCancelled, BillStatusRefunded:
		return true
	}
	return false
}

// CanTransitionTo reports whether the workflow allows moving to next
func (s BillStatus) CanTransitionTo(next BillStatus) bool {
	switch s {
	case BillStatusPending:
		return next == BillStatusBillingGenerated || next == BillStatusCancelled
	case BillStatusBillingGenerated:
		return next == BillStatusBillingPaid || next == BillStatusCancelled
	case BillStatusBillingPaid:
		return next == BillStatusReportSent || next == BillStatusCompleted || next == BillStatusRefunded
	case BillStatusReportSent:
		return next == BillStatusCompleted || next == BillStatusRefunded
	case BillStatusCompleted:
		return next == BillStatusRefunded
	}
	return false
}

func (s BillStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *BillStatus) Scan(value interface{}) error {
	if value == nil {
		*s = BillStatusPending
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = BillStatus(v)
	case []byte:
		*s = BillStatus(v)
	default:
		return fmt.Errorf("failed to scan BillStatus: unsupported type %T", value)
	}
	return nil
}

// BillingStatus represents the payment state of a bill, independent of
// the workflow status
type BillingStatus string

const (
	BillingStatusUnpaid    BillingStatus = "unpaid"
	BillingStatusPartial   BillingStatus = "partial"
	BillingStatusPaid      BillingStatus = "paid"
	BillingStatusRefunded  BillingStatus = "refunded"
	BillingStatusCancelled BillingStatus = "cancelled"
)

func (s BillingStatus) String() string {
	return string(s)
}

// IsValid reports whether the status is a known billing status
func (s BillingStatus) IsValid() bool {
	switch s {
	case BillingStatusUnpaid, BillingStatusPartial, BillingStatusPaid,
		BillingStatusRefunded, BillingStatusCancelled:
		return true
	}
	return false
}

func (s BillingStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *BillingStatus) Scan(value interface{}) error {
	if value == nil {
		*s = BillingStatusUnpaid
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = BillingStatus(v)
	case []byte:
		*s = BillingStatus(v)
	default:
		return fmt.Errorf("failed to scan BillingStatus: unsupported type %T", value)
	}
	return nil
}
