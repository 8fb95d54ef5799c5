package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServiceItem is a billable service or product in a center's catalog,
// for example a consultation, lab test, or pharmacy item.
type ServiceItem struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CenterID uuid.UUID `gorm:"type:uuid;not null;index" json:"center_id"`

	Code        string  `gorm:"size:100;not null;uniqueIndex:idx_service_items_center_code" json:"code"`
	Name        string  `gorm:"size:255;not null" json:"name"`
	Description *string `gorm:"type:text" json:"description,omitempty"`

	// Category drives bill type classification in the collection report,
	// for example consultation, lab, pharmacy, registration, slit.
	Category string `gorm:"size:100;index" json:"category"`

	UnitPrice float64 `gorm:"type:decimal(12,2);not null;default:0" json:"unit_price"`
	TaxRate   float64 `gorm:"type:decimal(5,2);not null;default:0" json:"tax_rate"`
	IsActive  bool    `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Center Center `gorm:"foreignKey:CenterID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new service item
func (s *ServiceItem) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ServiceItem model
func (ServiceItem) TableName() string {
	return "service_items"
}
