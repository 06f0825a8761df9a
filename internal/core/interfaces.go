package core

import (
	"context"

	fbauth "firebase.google.com/go/v4/auth"

	"templatehub-backend-go/internal/models"
)

// CartService manages the embedded shopping cart on the user document.
type CartService interface {
	Get(ctx context.Context, userID string) ([]models.CartEntry, error)
	Add(ctx context.Context, userID, templateID string) error
	SetQuantity(ctx context.Context, userID, templateID string, quantity int) error
	Increment(ctx context.Context, userID, templateID string) error
	Decrement(ctx context.Context, userID, templateID string) error
	Remove(ctx context.Context, userID, templateID string) error
	Clear(ctx context.Context, userID string) error
}

// TemplateService covers template lifecycle operations performed by sellers
// and admins.
type TemplateService interface {
	Upload(ctx context.Context, owner *models.User, tpl *models.Template) (*models.Template, error)
	Mine(ctx context.Context, ownerID string) ([]*models.Template, error)
	Update(ctx context.Context, actor *models.User, templateID string, req models.UpdateTemplateRequest) (*models.Template, error)
	Delete(ctx context.Context, actor *models.User, templateID string) error
	SetColor(ctx context.Context, actor *models.User, templateID, color string) (*models.Template, error)
	Review(ctx context.Context, adminID, templateID, action string) (*models.Template, error)
	ListByStatus(ctx context.Context, status models.TemplateStatus) ([]*models.Template, error)
}

// CatalogService serves the public buyer-facing views of the approved
// catalog.
type CatalogService interface {
	ListApproved(ctx context.Context) ([]*models.Template, error)
	Get(ctx context.Context, templateID string) (*models.Template, error)
	Free(ctx context.Context) ([]*models.Template, error)
	Featured(ctx context.Context) ([]*models.Template, error)
	Search(ctx context.Context, query string) ([]*models.Template, error)
	Suggestions(ctx context.Context, templateID string) ([]*models.Template, error)
}

// PurchaseService executes simulated purchases against the catalog.
type PurchaseService interface {
	Purchase(ctx context.Context, buyer *models.User, templateID string) (*models.Template, error)
}

// UserService covers account lifecycle, authentication checks and the
// profile view.
type UserService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	FirebaseLogin(ctx context.Context, idToken string) (*models.User, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)
	Profile(ctx context.Context, userID string) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.User, error)
	SetStatus(ctx context.Context, adminID, userID, action string) (*models.User, error)
	ListAll(ctx context.Context) ([]*models.User, error)
}

// ActivityService records and serves the admin activity feed.
type ActivityService interface {
	Record(ctx context.Context, description, actor string)
	Feed(ctx context.Context) ([]*models.Activity, error)
	ForUser(ctx context.Context, userID string) ([]*models.Activity, error)
}

// MetricsService aggregates collection counts for the admin dashboard and
// analytics charts.
type MetricsService interface {
	Overview(ctx context.Context) (*models.Metrics, error)
	MonthlyStats(ctx context.Context) ([]models.MonthlyStat, error)
	TemplateCategories(ctx context.Context) ([]models.CategoryStat, error)
}

// SettingsService serves and mutates the marketplace settings document.
type SettingsService interface {
	Get(ctx context.Context) (*models.Settings, error)
	Update(ctx context.Context, key string, value interface{}) (*models.Settings, error)
}

// FirebaseVerifier verifies Firebase ID tokens. Satisfied by
// *fbauth.Client.
type FirebaseVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// FirebaseUserAdmin mirrors account status changes into Firebase Auth.
// Satisfied by *fbauth.Client.
type FirebaseUserAdmin interface {
	UpdateUser(ctx context.Context, uid string, user *fbauth.UserToUpdate) (*fbauth.UserRecord, error)
}
