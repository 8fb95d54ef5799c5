package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nivaancare/clinic-api/internal/domain/enum"
)

// Appointment is a scheduled visit between a patient and a doctor
type Appointment struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CenterID uuid.UUID `gorm:"type:uuid;not null;index" json:"center_id"`

	PatientID uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`

	// ConsultationType matches the bill's consultation type when billed,
	// for example consultation, followup, ip, op.
	ConsultationType string  `gorm:"size:50;not null;default:'consultation'" json:"consultation_type"`
	Reason           *string `gorm:"type:text" json:"reason,omitempty"`

	ScheduledAt time.Time `gorm:"not null;index" json:"scheduled_at"`
	DurationMin int       `gorm:"not null;default:15" json:"duration_min"`

	Status enum.AppointmentStatus `gorm:"size:50;not null;default:'scheduled';index" json:"status"`

	// BillInvoiceNumber links the visit to the bill raised for it.
	BillInvoiceNumber *string `gorm:"size:100;index" json:"bill_invoice_number,omitempty"`

	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CancelReason *string    `gorm:"type:text" json:"cancel_reason,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Center  Center  `gorm:"foreignKey:CenterID" json:"-"`
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  User    `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

// BeforeCreate generates a UUID before creating a new appointment
func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Appointment model
func (Appointment) TableName() string {
	return "appointments"
}

// EndsAt returns the scheduled end time of the appointment
func (a *Appointment) EndsAt() time.Time {
	return a.ScheduledAt.Add(time.Duration(a.DurationMin) * time.Minute)
}

// Overlaps reports whether two appointments occupy overlapping time slots
func (a *Appointment) Overlaps(other *Appointment) bool {
	return a.ScheduledAt.Before(other.EndsAt()) && other.ScheduledAt.Before(a.EndsAt())
}
