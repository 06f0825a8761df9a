package core

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"templatehub-backend-go/internal/cache"
	"templatehub-backend-go/internal/db"
	"templatehub-backend-go/internal/models"
)

// Purchase errors.
var (
	ErrSelfPurchase        = errors.New("you cannot purchase your own template")
	ErrTemplateNotApproved = errors.New("template is not available for purchase")
)

type purchaseService struct {
	templateRepo db.TemplateRepository
	activity     ActivityService
	cache        cache.Cache
	logger       *zap.Logger
}

// NewPurchaseService creates a PurchaseService. cache may be nil.
func NewPurchaseService(tr db.TemplateRepository, as ActivityService, c cache.Cache, logger *zap.Logger) PurchaseService {
	return &purchaseService{templateRepo: tr, activity: as, cache: c, logger: logger}
}

// Purchase records a simulated sale. The sales counters on the template and
// the seller, plus the seller's earnings for paid templates, move inside one
// Firestore transaction.
func (s *purchaseService) Purchase(ctx context.Context, buyer *models.User, templateID string) (*models.Template, error) {
	if s.templateRepo == nil {
		return nil, errors.New("purchaseService: templateRepo not initialized")
	}
	if buyer == nil {
		return nil, errors.New("purchaseService: buyer is required")
	}

	tpl, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: id '%s'", ErrTemplateNotFound, templateID)
		}
		return nil, fmt.Errorf("failed to get template '%s' for purchase: %w", templateID, err)
	}
	if tpl.UploadedBy == buyer.ID {
		return nil, fmt.Errorf("%w: template '%s'", ErrSelfPurchase, templateID)
	}
	if tpl.Status != models.StatusApproved {
		return nil, fmt.Errorf("%w: template '%s' has status '%s'", ErrTemplateNotApproved, templateID, tpl.Status)
	}

	updated, err := s.templateRepo.RecordPurchase(ctx, templateID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: id '%s'", ErrTemplateNotFound, templateID)
		}
		return nil, fmt.Errorf("failed to record purchase of template '%s': %w", templateID, err)
	}

	s.activity.Record(ctx, fmt.Sprintf("Template purchased: %s", updated.Title), buyer.ID)
	if s.cache != nil {
		if err := s.cache.Delete(ctx, cache.KeyApprovedTemplates); err != nil {
			s.logger.Warn("failed to invalidate catalog cache after purchase", zap.Error(err))
		}
	}
	return updated, nil
}
