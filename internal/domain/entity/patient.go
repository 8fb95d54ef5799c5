package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Patient represents a registered patient of a center
type Patient struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CenterID uuid.UUID `gorm:"type:uuid;not null;index" json:"center_id"`

	// MRN is the human-facing medical record number, unique per center
	MRN       string     `gorm:"size:50;not null;uniqueIndex:idx_patients_center_mrn" json:"mrn"`
	FirstName string     `gorm:"size:255;not null" json:"first_name"`
	LastName  string     `gorm:"size:255" json:"last_name"`
	Gender    string     `gorm:"size:20" json:"gender,omitempty"`
	DOB       *time.Time `gorm:"type:date" json:"dob,omitempty"`
	Phone     string     `gorm:"size:50;index" json:"phone,omitempty"`
	Email     string     `gorm:"size:255" json:"email,omitempty"`
	Address   *string    `gorm:"type:text" json:"address,omitempty"`

	// Allergies and Notes are free-text clinical annotations
	Allergies *string `gorm:"type:text" json:"allergies,omitempty"`
	Notes     *string `gorm:"type:text" json:"notes,omitempty"`

	ReferredBy *string `gorm:"size:255" json:"referred_by,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Center       Center        `gorm:"foreignKey:CenterID" json:"-"`
	Bills        []Bill        `gorm:"foreignKey:PatientID" json:"-"`
	Appointments []Appointment `gorm:"foreignKey:PatientID" json:"-"`
	SlitOrders   []SlitOrder   `gorm:"foreignKey:PatientID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new patient
func (p *Patient) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Patient model
func (Patient) TableName() string {
	return "patients"
}

// FullName returns the patient's full name
func (p *Patient) FullName() string {
	return strings.TrimSpace(fmt.Sprintf("%s %s", p.FirstName, p.LastName))
}

// Age returns the patient's age in whole years, or -1 when DOB is unknown
func (p *Patient) Age(now time.Time) int {
	if p.DOB == nil {
		return -1
	}
	years := now.Year() - p.DOB.Year()
	anniversary := p.DOB.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}
