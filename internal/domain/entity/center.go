package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Center represents one diagnostic center / clinic branch. All patient and
// billing data is scoped to a center.
type Center struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;unique;not null" json:"slug"`
	OwnerID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Address   *string        `gorm:"type:text" json:"address,omitempty"`
	Phone     *string        `gorm:"size:50" json:"phone,omitempty"`
	Settings  CenterSettings `gorm:"type:jsonb;serializer:json" json:"settings"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Owner   User               `gorm:"foreignKey:OwnerID" json:"-"`
	Members []CenterMembership `gorm:"foreignKey:CenterID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new center
func (c *Center) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Center model
func (Center) TableName() string {
	return "centers"
}

// MemberUser represents a subset of user fields for membership responses
type MemberUser struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
}

// CenterMembership represents a staff member's assignment to a center
type CenterMembership struct {
	CenterID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"center_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Role      string    `gorm:"size:50;default:'member'" json:"role"` // owner, admin, member
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Center Center `gorm:"foreignKey:CenterID" json:"-"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`

	// Computed field for JSON response
	MemberUser *MemberUser `gorm:"-" json:"user,omitempty"`
}

// PopulateUserDetails populates the MemberUser field from the User relationship
func (cm *CenterMembership) PopulateUserDetails() {
	if cm.User.ID != uuid.Nil {
		cm.MemberUser = &MemberUser{
			ID:        cm.User.ID,
			FirstName: cm.User.FirstName,
			LastName:  cm.User.LastName,
			Email:     cm.User.Email,
		}
	}
}

// TableName returns the table name for the CenterMembership model
func (CenterMembership) TableName() string {
	return "center_memberships"
}

// CenterSettings holds per-center billing and localization configuration
type CenterSettings struct {
	Currency      string  `json:"currency,omitempty"`
	Timezone      string  `json:"timezone,omitempty"`
	Locale        string  `json:"locale,omitempty"`
	DateFormat    string  `json:"date_format,omitempty"`
	TaxRate       float64 `json:"tax_rate,omitempty"`
	TaxLabel      string  `json:"tax_label,omitempty"`
	InvoicePrefix string  `json:"invoice_prefix,omitempty"`
	ReceiptPrefix string  `json:"receipt_prefix,omitempty"`

	// RoundTotals controls whether bill totals are rounded to the nearest
	// ten rupees with the difference folded into taxes or discounts.
	RoundTotals bool `json:"round_totals"`

	EmailNotifications bool   `json:"email_notifications,omitempty"`
	WebhookURL         string `json:"webhook_url,omitempty"`
}

// Scan implements the sql.Scanner interface for CenterSettings
func (cs *CenterSettings) Scan(value interface{}) error {
	if value == nil {
		*cs = CenterSettings{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan CenterSettings: unsupported type")
	}

	return json.Unmarshal(bytes, cs)
}

// Value implements the driver.Valuer interface for CenterSettings
func (cs CenterSettings) Value() (driver.Value, error) {
	return json.Marshal(cs)
}

// DefaultCenterSettings returns default settings for new centers
func DefaultCenterSettings() CenterSettings {
	return CenterSettings{
		Currency:           "INR",
		Timezone:           "Asia/Kolkata",
		Locale:             "en-IN",
		DateFormat:         "DD/MM/YYYY",
		TaxRate:            18.0,
		TaxLabel:           "GST",
		InvoicePrefix:      "NVC-",
		ReceiptPrefix:      "RCP-",
		RoundTotals:        true,
		EmailNotifications: true,
	}
}
