package enum

import (
	"database/sql/driver"
	"fmt"
)

// SlitStatus represents the lifecycle of a SLIT immunotherapy order
type SlitStatus string

const (
	SlitStatusPrescribed SlitStatus = "prescribed"
	SlitStatusPreparing  SlitStatus = "preparing"
	SlitStatusReady      SlitStatus = "ready"
	SlitStatusDispensed  SlitStatus = "dispensed"
	SlitStatusCancelled  SlitStatus = "cancelled"
)

func (s SlitStatus) String() string {
	return string(s)
}

// IsValid reports whether the status is a known SLIT order status
func (s SlitStatus) IsValid() bool {
	switch s {
	case SlitStatusPrescribed, SlitStatusPreparing, SlitStatusReady,
		SlitStatusDispensed, SlitStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the order may move to next
func (s SlitStatus) CanTransitionTo(next SlitStatus) bool {
	switch s {
	case SlitStatusPrescribed:
		return next == SlitStatusPreparing || next == SlitStatusCancelled
	case SlitStatusPreparing:
		return next == SlitStatusReady || next == SlitStatusCancelled
	case SlitStatusReady:
		return next == SlitStatusDispensed || next == SlitStatusCancelled
	}
	return false
}

func (s SlitStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *SlitStatus) Scan(value interface{}) error {
	if value == nil {
		*s = SlitStatusPrescribed
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = SlitStatus(v)
	case []byte:
		*s = SlitStatus(v)
	default:
		return fmt.Errorf("failed to scan SlitStatus: unsupported type %T", value)
	}
	return nil
}
