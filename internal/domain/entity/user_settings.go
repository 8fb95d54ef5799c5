package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserSettings stores per-user preferences
type UserSettings struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Prefs     UserPreferences `gorm:"type:jsonb;serializer:json" json:"prefs"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID before creating new user settings
func (us *UserSettings) BeforeCreate(tx *gorm.DB) error {
	if us.ID == uuid.Nil {
		us.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the UserSettings model
func (UserSettings) TableName() string {
	return "user_settings"
}

// UserPreferences holds display and notification preferences
type UserPreferences struct {
	Theme              string `json:"theme,omitempty"`
	Language           string `json:"language,omitempty"`
	DateFormat         string `json:"date_format,omitempty"`
	DefaultPage        string `json:"default_page,omitempty"`
	EmailNotifications bool   `json:"email_notifications"`
	DailySummaryEmail  bool   `json:"daily_summary_email"`
}

// Scan implements the sql.Scanner interface for UserPreferences
func (up *UserPreferences) Scan(value interface{}) error {
	if value == nil {
		*up = UserPreferences{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan UserPreferences: unsupported type")
	}

	return json.Unmarshal(bytes, up)
}

// Value implements the driver.Valuer interface for UserPreferences
func (up UserPreferences) Value() (driver.Value, error) {
	return json.Marshal(up)
}

// DefaultUserPreferences returns default preferences for new users
func DefaultUserPreferences() UserPreferences {
	return UserPreferences{
		Theme:              "light",
		Language:           "en",
		DateFormat:         "DD/MM/YYYY",
		DefaultPage:        "dashboard",
		EmailNotifications: true,
		DailySummaryEmail:  false,
	}
}
