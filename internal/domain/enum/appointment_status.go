package enum

import (
	"database/sql/driver"
	"fmt"
)

// AppointmentStatus represents the state of a scheduled visit
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCheckedIn AppointmentStatus = "checked_in"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusNoShow    AppointmentStatus = "no_show"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

func (s AppointmentStatus) String() string {
	return string(s)
}

// IsValid reports whether the status is a known appointment status
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusCheckedIn,
		AppointmentStatusCompleted, AppointmentStatusNoShow, AppointmentStatusCancelled:
		return true
	}
	return false
}

func (s AppointmentStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *AppointmentStatus) Scan(value interface{}) error {
	if value == nil {
		*s = AppointmentStatusScheduled
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = AppointmentStatus(v)
	case []byte:
		*s = AppointmentStatus(v)
	default:
		return fmt.Errorf("failed to scan AppointmentStatus: unsupported type %T", value)
	}
	return nil
}
