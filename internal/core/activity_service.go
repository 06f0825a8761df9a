package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"templatehub-backend-go/internal/db"
	"templatehub-backend-go/internal/models"
)

const (
	feedLimit       = 20
	userFeedLimit   = 50
	feedLookbackDay = 30
)

type activityService struct {
	activityRepo db.ActivityRepository
	templateRepo db.TemplateRepository
	userRepo     db.UserRepository
	logger       *zap.Logger
}

// NewActivityService creates an ActivityService. The template and user
// repositories feed synthesized entries into the admin feed.
func NewActivityService(ar db.ActivityRepository, tr db.TemplateRepository, ur db.UserRepository, logger *zap.Logger) ActivityService {
	return &activityService{activityRepo: ar, templateRepo: tr, userRepo: ur, logger: logger}
}

// Record stores one activity entry. Failures are logged and swallowed so a
// broken feed never fails the operation that produced the entry.
func (s *activityService) Record(ctx context.Context, description, actor string) {
	if s.activityRepo == nil {
		return
	}
	entry := &models.Activity{
		Description: description,
		Actor:       actor,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.activityRepo.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to record activity",
			zap.String("description", description), zap.Error(err))
	}
}

// Feed merges recorded activities with entries synthesized from recent
// template uploads and user registrations, newest first.
func (s *activityService) Feed(ctx context.Context) ([]*models.Activity, error) {
	if s.activityRepo == nil || s.templateRepo == nil || s.userRepo == nil {
		return nil, errors.New("activityService: component not initialized")
	}

	since := time.Now().UTC().AddDate(0, 0, -feedLookbackDay)

	recorded, err := s.activityRepo.ListRecent(ctx, feedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recorded activities: %w", err)
	}

	templates, err := s.templateRepo.ListCreatedSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent templates for feed: %w", err)
	}
	users, err := s.userRepo.ListCreatedSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent users for feed: %w", err)
	}

	merged := make([]*models.Activity, 0, len(recorded)+len(templates)+len(users))
	merged = append(merged, recorded...)
	for _, tpl := range templates {
		merged = append(merged, &models.Activity{
			ID:          "template-" + tpl.ID,
			Description: fmt.Sprintf("New template uploaded: %s", tpl.Title),
			Actor:       tpl.UploadedBy,
			CreatedAt:   tpl.CreatedAt,
		})
	}
	for _, u := range users {
		merged = append(merged, &models.Activity{
			ID:          "user-" + u.ID,
			Description: fmt.Sprintf("New user registered: %s", u.Username),
			Actor:       u.ID,
			CreatedAt:   u.CreatedAt,
		})
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	if len(merged) > feedLimit {
		merged = merged[:feedLimit]
	}
	return merged, nil
}

// ForUser returns the activities attributed to one user, newest first.
func (s *activityService) ForUser(ctx context.Context, userID string) ([]*models.Activity, error) {
	if s.activityRepo == nil {
		return nil, errors.New("activityService: activityRepo not initialized")
	}
	entries, err := s.activityRepo.ListByActor(ctx, userID, userFeedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities for user '%s': %w", userID, err)
	}
	return entries, nil
}
