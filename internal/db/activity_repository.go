package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"templatehub-backend-go/internal/models"
)

const activitiesCollection = "activities"

// firestoreActivityRepository implements ActivityRepository using Firestore.
type firestoreActivityRepository struct {
	client *firestore.Client
}

// NewFirestoreActivityRepository creates a new firestoreActivityRepository.
func NewFirestoreActivityRepository(client *firestore.Client) ActivityRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for ActivityRepository.")
	}
	return &firestoreActivityRepository{client: client}
}

// Create appends a new activity entry with an auto-generated ID.
func (r *firestoreActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	docRef := r.client.Collection(activitiesCollection).NewDoc()
	activity.ID = docRef.ID
	if _, err := docRef.Create(ctx, activity); err != nil {
		return fmt.Errorf("failed to create activity entry: %w", err)
	}
	return nil
}

// ListRecent retrieves the latest entries, newest first.
func (r *firestoreActivityRepository) ListRecent(ctx context.Context, limit int) ([]*models.Activity, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be positive for ListRecent operation")
	}
	query := r.client.Collection(activitiesCollection).OrderBy("createdAt", firestore.Desc).Limit(limit)
	return r.collect(query.Documents(ctx))
}

// ListByActor retrieves the latest entries recorded for one user.
func (r *firestoreActivityRepository) ListByActor(ctx context.Context, actorID string, limit int) ([]*models.Activity, error) {
	if actorID == "" {
		return nil, errors.New("actorID cannot be empty for ListByActor operation")
	}
	query := r.client.Collection(activitiesCollection).
		Where("actor", "==", actorID).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit)
	return r.collect(query.Documents(ctx))
}

func (r *firestoreActivityRepository) collect(iter *firestore.DocumentIterator) ([]*models.Activity, error) {
	defer iter.Stop()

	var activities []*models.Activity
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate activities: %w", err)
		}

		var activity models.Activity
		if err := doc.DataTo(&activity); err != nil {
			log.Printf("Error decoding activity data (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		activity.ID = doc.Ref.ID
		activities = append(activities, &activity)
	}
	return activities, nil
}
