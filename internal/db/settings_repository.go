package db

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"templatehub-backend-go/internal/models"
)

const (
	settingsCollection = "settings"
	settingsDocID      = "marketplace"
)

// firestoreSettingsRepository stores the marketplace settings as a single
// well-known document, so configuration survives restarts.
type firestoreSettingsRepository struct {
	client *firestore.Client
}

// NewFirestoreSettingsRepository creates a new firestoreSettingsRepository.
func NewFirestoreSettingsRepository(client *firestore.Client) SettingsRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for SettingsRepository.")
	}
	return &firestoreSettingsRepository{client: client}
}

// Get retrieves the settings document. Returns ErrNotFound before the first
// Save; the service seeds defaults in that case.
func (r *firestoreSettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	docSnap, err := r.client.Collection(settingsCollection).Doc(settingsDocID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("settings document not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	var settings models.Settings
	if err := docSnap.DataTo(&settings); err != nil {
		return nil, fmt.Errorf("failed to decode settings data: %w", err)
	}
	return &settings, nil
}

// Save writes the settings document, creating it if necessary.
func (r *firestoreSettingsRepository) Save(ctx context.Context, settings *models.Settings) error {
	_, err := r.client.Collection(settingsCollection).Doc(settingsDocID).Set(ctx, settings)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
