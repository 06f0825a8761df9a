package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"templatehub-backend-go/internal/db"
	"templatehub-backend-go/internal/models"
)

// Settings errors.
var (
	ErrUnknownSetting      = errors.New("unknown setting key")
	ErrInvalidSettingValue = errors.New("invalid setting value")
)

type settingsService struct {
	settingsRepo db.SettingsRepository
	activity     ActivityService
}

// NewSettingsService creates a SettingsService over the settings document.
func NewSettingsService(sr db.SettingsRepository, as ActivityService) SettingsService {
	return &settingsService{settingsRepo: sr, activity: as}
}

// Get returns the marketplace settings, seeding the document with defaults
// on first read.
func (s *settingsService) Get(ctx context.Context) (*models.Settings, error) {
	if s.settingsRepo == nil {
		return nil, errors.New("settingsService: settingsRepo not initialized")
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("failed to read settings: %w", err)
		}
		settings = models.DefaultSettings()
		if err := s.settingsRepo.Save(ctx, settings); err != nil {
			return nil, fmt.Errorf("failed to seed default settings: %w", err)
		}
	}
	return settings, nil
}

// Update mutates one setting by key and persists the document. Boolean
// settings accept the strings "true" and "false" as well as booleans.
func (s *settingsService) Update(ctx context.Context, key string, value interface{}) (*models.Settings, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	switch key {
	case "autoApproval":
		b, err := coerceBool(value)
		if err != nil {
			return nil, fmt.Errorf("%w for '%s': %v", ErrInvalidSettingValue, key, err)
		}
		settings.AutoApproval = b
	case "emailNotifications":
		b, err := coerceBool(value)
		if err != nil {
			return nil, fmt.Errorf("%w for '%s': %v", ErrInvalidSettingValue, key, err)
		}
		settings.EmailNotifications = b
	case "maintenanceMode":
		b, err := coerceBool(value)
		if err != nil {
			return nil, fmt.Errorf("%w for '%s': %v", ErrInvalidSettingValue, key, err)
		}
		settings.MaintenanceMode = b
	case "maxTemplateSize":
		str, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w for '%s': expected string", ErrInvalidSettingValue, key)
		}
		settings.MaxTemplateSize = str
	case "commissionRate":
		str, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w for '%s': expected string", ErrInvalidSettingValue, key)
		}
		settings.CommissionRate = str
	default:
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownSetting, key)
	}

	settings.UpdatedAt = time.Now().UTC()
	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}
	s.activity.Record(ctx, fmt.Sprintf("Setting updated: %s", key), "")
	return settings, nil
}

func coerceBool(value interface{}) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		if v == "true" {
			return true, nil
		}
		if v == "false" {
			return false, nil
		}
		return false, fmt.Errorf("string '%s' is not a boolean", v)
	default:
		return false, fmt.Errorf("unsupported type %T", value)
	}
}
