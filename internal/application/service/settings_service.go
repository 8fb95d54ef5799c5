package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/nivaancare/clinic-api/internal/domain/entity"
	"github.com/nivaancare/clinic-api/internal/domain/repository"
)

// SettingsService handles user settings business logic
type SettingsService struct {
	settingsRepo repository.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// GetSettings returns the settings for a user, creating defaults if none exist
func (s *SettingsService) GetSettings(ctx context.Context, userID uuid.UUID) (*entity.UserSettings, error) {
	settings, err := s.settingsRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if settings == nil {
		settings = &entity.UserSettings{
			UserID: userID,
			Prefs:  entity.DefaultUserPreferences(),
		}
		if err := s.settingsRepo.Create(ctx, settings); err != nil {
			return nil, err
		}
	}

	return settings, nil
}

// UpdateSettingsInput represents the input for updating user settings
type UpdateSettingsInput struct {
	Theme              *string `json:"theme,omitempty"`
	Language           *string `json:"language,omitempty"`
	DateFormat         *string `json:"date_format,omitempty"`
	DefaultPage        *string `json:"default_page,omitempty"`
	EmailNotifications *bool   `json:"email_notifications,omitempty"`
	DailySummaryEmail  *bool   `json:"daily_summary_email,omitempty"`
}

// UpdateSettings updates the settings for a user, applying only provided fields
func (s *SettingsService) UpdateSettings(ctx context.Context, userID uuid.UUID, input *UpdateSettingsInput) (*entity.UserSettings, error) {
	settings, err := s.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Theme != nil {
		settings.Prefs.Theme = *input.Theme
	}
	if input.Language != nil {
		settings.Prefs.Language = *input.Language
	}
	if input.DateFormat != nil {
		settings.Prefs.DateFormat = *input.DateFormat
	}
	if input.DefaultPage != nil {
		settings.Prefs.DefaultPage = *input.DefaultPage
	}
	if input.EmailNotifications != nil {
		settings.Prefs.EmailNotifications = *input.EmailNotifications
	}
	if input.DailySummaryEmail != nil {
		settings.Prefs.DailySummaryEmail = *input.DailySummaryEmail
	}

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// ResetSettings restores a user's settings to defaults
func (s *SettingsService) ResetSettings(ctx context.Context, userID uuid.UUID) (*entity.UserSettings, error) {
	settings, err := s.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	settings.Prefs = entity.DefaultUserPreferences()
	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, err
	}

	return settings, nil
}
