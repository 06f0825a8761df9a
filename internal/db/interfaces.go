package db

import (
	"context"
	"time"

	"templatehub-backend-go/internal/models"
)

// TemplateRepository defines the interface for template storage operations.
type TemplateRepository interface {
	Create(ctx context.Context, template *models.Template) (string, error) // Returns new template ID
	GetByID(ctx context.Context, templateID string) (*models.Template, error)
	Update(ctx context.Context, template *models.Template) error
	Delete(ctx context.Context, templateID string) error
	ListByStatus(ctx context.Context, status models.TemplateStatus) ([]*models.Template, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Template, error)
	ListByOwnerAndStatus(ctx context.Context, ownerID string, status models.TemplateStatus) ([]*models.Template, error)
	ListCreatedSince(ctx context.Context, since time.Time) ([]*models.Template, error)
	ListAll(ctx context.Context) ([]*models.Template, error)
	// RecordPurchase increments the template's sales counter and the seller's
	// sales (and earnings, for paid templates) in a single transaction.
	RecordPurchase(ctx context.Context, templateID string) (*models.Template, error)
}

// UserRepository defines the interface for user storage operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (string, error) // Returns new user ID
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	ListAll(ctx context.Context) ([]*models.User, error)
	ListCreatedSince(ctx context.Context, since time.Time) ([]*models.User, error)
}

// ActivityRepository defines the interface for the append-only activity log.
type ActivityRepository interface {
	Create(ctx context.Context, activity *models.Activity) error
	ListRecent(ctx context.Context, limit int) ([]*models.Activity, error)
	ListByActor(ctx context.Context, actorID string, limit int) ([]*models.Activity, error)
}

// SettingsRepository persists the single marketplace settings document.
type SettingsRepository interface {
	Get(ctx context.Context) (*models.Settings, error) // ErrNotFound until first save
	Save(ctx context.Context, settings *models.Settings) error
}
