package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"templatehub-backend-go/internal/cache"
	"templatehub-backend-go/internal/db"
	"templatehub-backend-go/internal/mailer"
	"templatehub-backend-go/internal/models"
)

// Template lifecycle errors.
var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrForbidden        = errors.New("user does not have permission for this action on the template")
	ErrInvalidAction    = errors.New("invalid review action")
	ErrAlreadyApproved  = errors.New("template is already approved")
	ErrInvalidColor     = errors.New("invalid badge color")
	ErrUploadNotAllowed = errors.New("only sellers and admins can upload templates")
)

// Review actions accepted by Review.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

type templateService struct {
	templateRepo db.TemplateRepository
	userRepo     db.UserRepository
	settings     SettingsService
	activity     ActivityService
	cache        cache.Cache
	mail         mailer.Mailer
	logger       *zap.Logger
}

// NewTemplateService creates a TemplateService. cache and mail may be nil;
// caching and seller notifications are then disabled.
func NewTemplateService(
	tr db.TemplateRepository,
	ur db.UserRepository,
	ss SettingsService,
	as ActivityService,
	c cache.Cache,
	m mailer.Mailer,
	logger *zap.Logger,
) TemplateService {
	return &templateService{
		templateRepo: tr,
		userRepo:     ur,
		settings:     ss,
		activity:     as,
		cache:        c,
		mail:         m,
		logger:       logger,
	}
}

// Upload stores a new template for the owner. Status starts pending; when
// the autoApproval setting is on the template goes through the approval
// transition immediately.
func (s *templateService) Upload(ctx context.Context, owner *models.User, tpl *models.Template) (*models.Template, error) {
	if s.templateRepo == nil || s.settings == nil {
		return nil, errors.New("templateService: component not initialized")
	}
	if owner == nil {
		return nil, errors.New("templateService: owner is required")
	}
	if !owner.Role.CanUpload() {
		return nil, fmt.Errorf("%w: role '%s'", ErrUploadNotAllowed, owner.Role)
	}

	now := time.Now().UTC()
	tpl.UploadedBy = owner.ID
	tpl.Status = models.StatusPending
	tpl.Sales = 0
	tpl.CreatedAt = now
	tpl.UpdatedAt = now
	if tpl.Tags == nil {
		tpl.Tags = []string{}
	}
	if tpl.Features == nil {
		tpl.Features = []string{}
	}
	if tpl.TechStack == nil {
		tpl.TechStack = []string{}
	}

	id, err := s.templateRepo.Create(ctx, tpl)
	if err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	tpl.ID = id

	s.activity.Record(ctx, fmt.Sprintf("New template uploaded: %s", tpl.Title), owner.ID)

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		s.logger.Warn("failed to read settings for auto approval", zap.Error(err))
		return tpl, nil
	}
	if cfg.AutoApproval {
		approved, err := s.Review(ctx, owner.ID, tpl.ID, ActionApprove)
		if err != nil {
			s.logger.Warn("auto approval failed", zap.String("templateID", tpl.ID), zap.Error(err))
			return tpl, nil
		}
		return approved, nil
	}
	return tpl, nil
}

// Mine lists the caller's templates across all statuses.
func (s *templateService) Mine(ctx context.Context, ownerID string) ([]*models.Template, error) {
	if s.templateRepo == nil {
		return nil, errors.New("templateService: templateRepo not initialized")
	}
	templates, err := s.templateRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates for owner '%s': %w", ownerID, err)
	}
	return templates, nil
}

// Update applies the provided fields to a template. Only the owner or an
// admin may update.
func (s *templateService) Update(ctx context.Context, actor *models.User, templateID string, req models.UpdateTemplateRequest) (*models.Template, error) {
	tpl, err := s.authorize(ctx, actor, templateID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		tpl.Title = *req.Title
	}
	if req.Description != nil {
		tpl.Description = *req.Description
	}
	if req.EstimatedPrice != nil {
		tpl.EstimatedPrice = *req.EstimatedPrice
	}
	if req.Category != nil {
		tpl.Category = *req.Category
	}
	if req.Framework != nil {
		tpl.Framework = *req.Framework
	}
	if req.Platform != nil {
		tpl.Platform = *req.Platform
	}
	if req.Theme != nil {
		tpl.Theme = *req.Theme
	}
	if req.GithubRepo != nil {
		tpl.GithubRepo = *req.GithubRepo
	}
	if req.LiveLink != nil {
		tpl.LiveLink = *req.LiveLink
	}
	if req.CodePreview != nil {
		tpl.CodePreview = *req.CodePreview
	}
	if req.Tags != nil {
		tpl.Tags = *req.Tags
	}
	if req.Features != nil {
		tpl.Features = *req.Features
	}
	if req.TechStack != nil {
		tpl.TechStack = *req.TechStack
	}
	if req.IsFeatured != nil {
		tpl.IsFeatured = *req.IsFeatured
	}
	if req.IsFree != nil {
		tpl.IsFree = *req.IsFree
	}
	tpl.UpdatedAt = time.Now().UTC()

	if err := s.templateRepo.Update(ctx, tpl); err != nil {
		return nil, fmt.Errorf("failed to update template '%s': %w", templateID, err)
	}
	s.invalidateCatalog(ctx)
	return tpl, nil
}

// Delete removes a template. Only the owner or an admin may delete.
func (s *templateService) Delete(ctx context.Context, actor *models.User, templateID string) error {
	tpl, err := s.authorize(ctx, actor, templateID)
	if err != nil {
		return err
	}
	if err := s.templateRepo.Delete(ctx, templateID); err != nil {
		return fmt.Errorf("failed to delete template '%s': %w", templateID, err)
	}
	s.activity.Record(ctx, fmt.Sprintf("Template deleted: %s", tpl.Title), actor.ID)
	s.invalidateCatalog(ctx)
	return nil
}

// SetColor assigns a quality badge color. Named aliases and the canonical
// hex values are both accepted.
func (s *templateService) SetColor(ctx context.Context, actor *models.User, templateID, color string) (*models.Template, error) {
	hex, ok := models.BadgeColors[color]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidColor, color)
	}

	tpl, err := s.authorize(ctx, actor, templateID)
	if err != nil {
		return nil, err
	}
	tpl.Color = hex
	tpl.UpdatedAt = time.Now().UTC()
	if err := s.templateRepo.Update(ctx, tpl); err != nil {
		return nil, fmt.Errorf("failed to set color on template '%s': %w", templateID, err)
	}
	s.invalidateCatalog(ctx)
	return tpl, nil
}

// Review is the single entry point for the approve/reject transition.
// Approving applies seller stats exactly once: on the first approval the
// template ID is appended to the seller's templates list and, when the
// template is free, freeTemplates is incremented. Re-approving an approved
// template returns ErrAlreadyApproved. Rejection is idempotent and has no
// counter side effects.
func (s *templateService) Review(ctx context.Context, adminID, templateID, action string) (*models.Template, error) {
	if s.templateRepo == nil || s.userRepo == nil {
		return nil, errors.New("templateService: component not initialized")
	}
	if action != ActionApprove && action != ActionReject {
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidAction, action)
	}

	tpl, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: id '%s'", ErrTemplateNotFound, templateID)
		}
		return nil, fmt.Errorf("failed to get template '%s' for review: %w", templateID, err)
	}

	if action == ActionReject {
		if tpl.Status != models.StatusRejected {
			tpl.Status = models.StatusRejected
			tpl.UpdatedAt = time.Now().UTC()
			if err := s.templateRepo.Update(ctx, tpl); err != nil {
				return nil, fmt.Errorf("failed to reject template '%s': %w", templateID, err)
			}
			s.activity.Record(ctx, fmt.Sprintf("Template rejected: %s", tpl.Title), adminID)
			s.notifySeller(ctx, tpl, "Your template was rejected",
				fmt.Sprintf("Your template %q did not pass review.", tpl.Title))
			s.invalidateCatalog(ctx)
		}
		return tpl, nil
	}

	if tpl.Status == models.StatusApproved {
		return nil, fmt.Errorf("%w: id '%s'", ErrAlreadyApproved, templateID)
	}

	tpl.Status = models.StatusApproved
	tpl.UpdatedAt = time.Now().UTC()
	if err := s.templateRepo.Update(ctx, tpl); err != nil {
		return nil, fmt.Errorf("failed to approve template '%s': %w", templateID, err)
	}

	if err := s.applyApprovalStats(ctx, tpl); err != nil {
		// The template is approved at this point; surface the stats failure
		// without rolling the status back.
		s.logger.Error("failed to apply seller approval stats",
			zap.String("templateID", templateID), zap.Error(err))
	}

	s.activity.Record(ctx, fmt.Sprintf("Template approved: %s", tpl.Title), adminID)
	s.notifySeller(ctx, tpl, "Your template was approved",
		fmt.Sprintf("Your template %q is now live in the catalog.", tpl.Title))
	s.invalidateCatalog(ctx)
	return tpl, nil
}

// ListByStatus lists templates in one review state, for the admin queues.
func (s *templateService) ListByStatus(ctx context.Context, status models.TemplateStatus) ([]*models.Template, error) {
	if s.templateRepo == nil {
		return nil, errors.New("templateService: templateRepo not initialized")
	}
	templates, err := s.templateRepo.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates with status '%s': %w", status, err)
	}
	return templates, nil
}

// applyApprovalStats credits the seller for a first approval. The templates
// list acts as the applied-once marker.
func (s *templateService) applyApprovalStats(ctx context.Context, tpl *models.Template) error {
	seller, err := s.userRepo.GetByID(ctx, tpl.UploadedBy)
	if err != nil {
		return fmt.Errorf("failed to get seller '%s': %w", tpl.UploadedBy, err)
	}
	if seller.OwnsTemplate(tpl.ID) {
		return nil
	}
	seller.Templates = append(seller.Templates, tpl.ID)
	if tpl.Free() {
		seller.FreeTemplates++
	}
	seller.UpdatedAt = time.Now().UTC()
	if err := s.userRepo.Update(ctx, seller); err != nil {
		return fmt.Errorf("failed to update seller '%s': %w", seller.ID, err)
	}
	return nil
}

// authorize fetches the template and checks the actor is its owner or an
// admin.
func (s *templateService) authorize(ctx context.Context, actor *models.User, templateID string) (*models.Template, error) {
	if s.templateRepo == nil {
		return nil, errors.New("templateService: templateRepo not initialized")
	}
	if actor == nil {
		return nil, errors.New("templateService: actor is required")
	}

	tpl, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: id '%s'", ErrTemplateNotFound, templateID)
		}
		return nil, fmt.Errorf("failed to get template '%s': %w", templateID, err)
	}
	if tpl.UploadedBy != actor.ID && !actor.Role.CanReview() {
		return nil, fmt.Errorf("%w: user '%s' on template '%s'", ErrForbidden, actor.ID, templateID)
	}
	return tpl, nil
}

// notifySeller sends a best-effort review outcome mail when notifications
// are enabled.
func (s *templateService) notifySeller(ctx context.Context, tpl *models.Template, subject, body string) {
	if s.mail == nil || s.settings == nil {
		return
	}
	cfg, err := s.settings.Get(ctx)
	if err != nil || !cfg.EmailNotifications {
		return
	}
	seller, err := s.userRepo.GetByID(ctx, tpl.UploadedBy)
	if err != nil {
		s.logger.Warn("failed to load seller for notification",
			zap.String("templateID", tpl.ID), zap.Error(err))
		return
	}
	if err := s.mail.Send(seller.Email, subject, body); err != nil {
		s.logger.Warn("failed to send review notification",
			zap.String("templateID", tpl.ID), zap.Error(err))
	}
}

func (s *templateService) invalidateCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.KeyApprovedTemplates); err != nil {
		s.logger.Warn("failed to invalidate catalog cache", zap.Error(err))
	}
}
