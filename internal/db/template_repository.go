package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"templatehub-backend-go/internal/models"
)

const (
	templatesCollection = "templates"
	usersCollection     = "users"
)

// ErrNotFound is the common error for a document that does not exist.
var ErrNotFound = errors.New("document not found")

// firestoreTemplateRepository implements TemplateRepository using Firestore.
type firestoreTemplateRepository struct {
	client *firestore.Client
}

// NewFirestoreTemplateRepository creates a new firestoreTemplateRepository.
func NewFirestoreTemplateRepository(client *firestore.Client) TemplateRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for TemplateRepository.")
	}
	return &firestoreTemplateRepository{client: client}
}

// Create adds a new template document with an auto-generated ID.
func (r *firestoreTemplateRepository) Create(ctx context.Context, template *models.Template) (string, error) {
	docRef := r.client.Collection(templatesCollection).NewDoc()
	template.ID = docRef.ID
	if _, err := docRef.Create(ctx, template); err != nil {
		return "", fmt.Errorf("failed to create template: %w", err)
	}
	return docRef.ID, nil
}

// GetByID retrieves a template document by its ID.
func (r *firestoreTemplateRepository) GetByID(ctx context.Context, templateID string) (*models.Template, error) {
	if templateID == "" {
		return nil, errors.New("templateID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(templatesCollection).Doc(templateID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("template with ID '%s' not found: %w", templateID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get template with ID '%s': %w", templateID, err)
	}

	var template models.Template
	if err := docSnap.DataTo(&template); err != nil {
		return nil, fmt.Errorf("failed to decode template data for ID '%s': %w", templateID, err)
	}
	template.ID = docSnap.Ref.ID
	return &template, nil
}

// Update overwrites an existing template document with the given state.
func (r *firestoreTemplateRepository) Update(ctx context.Context, template *models.Template) error {
	if template.ID == "" {
		return errors.New("template ID cannot be empty for Update operation")
	}
	_, err := r.client.Collection(templatesCollection).Doc(template.ID).Set(ctx, template)
	if err != nil {
		return fmt.Errorf("failed to update template with ID '%s': %w", template.ID, err)
	}
	return nil
}

// Delete removes a template document.
func (r *firestoreTemplateRepository) Delete(ctx context.Context, templateID string) error {
	if templateID == "" {
		return errors.New("templateID cannot be empty for Delete operation")
	}
	_, err := r.client.Collection(templatesCollection).Doc(templateID).Delete(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("template with ID '%s' not found for deletion: %w", templateID, ErrNotFound)
		}
		return fmt.Errorf("failed to delete template with ID '%s': %w", templateID, err)
	}
	return nil
}

// ListByStatus retrieves all templates in the given review state, newest first.
func (r *firestoreTemplateRepository) ListByStatus(ctx context.Context, st models.TemplateStatus) ([]*models.Template, error) {
	query := r.client.Collection(templatesCollection).Where("status", "==", string(st)).OrderBy("createdAt", firestore.Desc)
	return r.collect(ctx, query.Documents(ctx))
}

// ListByOwner retrieves all templates uploaded by a user, any status.
func (r *firestoreTemplateRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Template, error) {
	if ownerID == "" {
		return nil, errors.New("ownerID cannot be empty for ListByOwner operation")
	}
	query := r.client.Collection(templatesCollection).Where("uploadedBy", "==", ownerID)
	return r.collect(ctx, query.Documents(ctx))
}

// ListByOwnerAndStatus retrieves a user's templates in one review state,
// newest first.
func (r *firestoreTemplateRepository) ListByOwnerAndStatus(ctx context.Context, ownerID string, st models.TemplateStatus) ([]*models.Template, error) {
	if ownerID == "" {
		return nil, errors.New("ownerID cannot be empty for ListByOwnerAndStatus operation")
	}
	query := r.client.Collection(templatesCollection).
		Where("uploadedBy", "==", ownerID).
		Where("status", "==", string(st)).
		OrderBy("createdAt", firestore.Desc)
	return r.collect(ctx, query.Documents(ctx))
}

// ListCreatedSince retrieves templates created at or after the given time.
func (r *firestoreTemplateRepository) ListCreatedSince(ctx context.Context, since time.Time) ([]*models.Template, error) {
	query := r.client.Collection(templatesCollection).Where("createdAt", ">=", since)
	return r.collect(ctx, query.Documents(ctx))
}

// ListAll retrieves every template document.
func (r *firestoreTemplateRepository) ListAll(ctx context.Context) ([]*models.Template, error) {
	return r.collect(ctx, r.client.Collection(templatesCollection).Documents(ctx))
}

// RecordPurchase bumps the template and seller counters inside one Firestore
// transaction.
func (r *firestoreTemplateRepository) RecordPurchase(ctx context.Context, templateID string) (*models.Template, error) {
	if templateID == "" {
		return nil, errors.New("templateID cannot be empty for RecordPurchase operation")
	}

	templateRef := r.client.Collection(templatesCollection).Doc(templateID)
	var updated models.Template

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docSnap, err := tx.Get(templateRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return fmt.Errorf("template with ID '%s' not found: %w", templateID, ErrNotFound)
			}
			return err
		}
		if err := docSnap.DataTo(&updated); err != nil {
			return fmt.Errorf("failed to decode template data for ID '%s': %w", templateID, err)
		}
		updated.ID = docSnap.Ref.ID
		updated.Sales++

		// Reads must precede writes inside a Firestore transaction. A
		// missing seller document does not block the sale itself.
		var sellerRef *firestore.DocumentRef
		if updated.UploadedBy != "" {
			sellerRef = r.client.Collection(usersCollection).Doc(updated.UploadedBy)
			if _, err := tx.Get(sellerRef); err != nil {
				if status.Code(err) != codes.NotFound {
					return err
				}
				sellerRef = nil
			}
		}

		if err := tx.Update(templateRef, []firestore.Update{
			{Path: "sales", Value: firestore.Increment(1)},
		}); err != nil {
			return err
		}

		if sellerRef != nil {
			sellerUpdates := []firestore.Update{
				{Path: "sales", Value: firestore.Increment(1)},
			}
			if !updated.Free() {
				sellerUpdates = append(sellerUpdates, firestore.Update{
					Path: "earnings", Value: firestore.Increment(updated.EstimatedPrice),
				})
			}
			if err := tx.Update(sellerRef, sellerUpdates); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// collect drains an iterator into a slice. Documents that fail to decode are
// logged and skipped rather than failing the whole listing.
func (r *firestoreTemplateRepository) collect(_ context.Context, iter *firestore.DocumentIterator) ([]*models.Template, error) {
	defer iter.Stop()

	var templates []*models.Template
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate templates: %w", err)
		}

		var template models.Template
		if err := doc.DataTo(&template); err != nil {
			log.Printf("Error decoding template data (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		template.ID = doc.Ref.ID
		templates = append(templates, &template)
	}
	return templates, nil
}
