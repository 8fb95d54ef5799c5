package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nivaancare/clinic-api/internal/domain/enum"
)

// SlitOrder tracks a sublingual immunotherapy course for a patient, from
// prescription through vial preparation to dispensing.
type SlitOrder struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CenterID uuid.UUID `gorm:"type:uuid;not null;index" json:"center_id"`

	OrderNumber string    `gorm:"size:100;not null;uniqueIndex:idx_slit_orders_center_number" json:"order_number"`
	PatientID   uuid.UUID `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`

	// Allergens is the prescribed allergen mix, one entry per extract.
	Allergens    []SlitAllergen  `gorm:"foreignKey:SlitOrderID" json:"allergens,omitempty"`
	Status       enum.SlitStatus `gorm:"size:50;not null;default:'prescribed';index" json:"status"`
	DoseSchedule *string         `gorm:"type:text" json:"dose_schedule,omitempty"`
	Notes        *string         `gorm:"type:text" json:"notes,omitempty"`

	// BillInvoiceNumber links the order to the bill that charged for it.
	BillInvoiceNumber *string `gorm:"size:100;index" json:"bill_invoice_number,omitempty"`

	PrescribedAt time.Time  `gorm:"not null" json:"prescribed_at"`
	PreparedAt   *time.Time `json:"prepared_at,omitempty"`
	DispensedAt  *time.Time `json:"dispensed_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Center  Center  `gorm:"foreignKey:CenterID" json:"-"`
	Patient Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  User    `gorm:"foreignKey:DoctorID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new SLIT order
func (s *SlitOrder) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SlitOrder model
func (SlitOrder) TableName() string {
	return "slit_orders"
}

// SlitAllergen is one allergen extract in a SLIT order's mix
type SlitAllergen struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SlitOrderID uuid.UUID `gorm:"type:uuid;not null;index" json:"slit_order_id"`

	Name          string  `gorm:"size:255;not null" json:"name"`
	Concentration string  `gorm:"size:100" json:"concentration"`
	VolumeML      float64 `gorm:"type:decimal(8,3);not null;default:0" json:"volume_ml"`

	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new SLIT allergen
func (sa *SlitAllergen) BeforeCreate(tx *gorm.DB) error {
	if sa.ID == uuid.Nil {
		sa.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SlitAllergen model
func (SlitAllergen) TableName() string {
	return "slit_allergens"
}
