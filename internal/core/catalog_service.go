package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"templatehub-backend-go/internal/cache"
	"templatehub-backend-go/internal/db"
	"templatehub-backend-go/internal/models"
)

// Catalog errors.
var (
	ErrEmptyQuery = errors.New("search query cannot be empty")
)

const (
	searchLimit     = 20
	filterLimit     = 4
	suggestionLimit = 3
	catalogCacheTTL = time.Minute
)

type catalogService struct {
	templateRepo db.TemplateRepository
	cache        cache.Cache
	logger       *zap.Logger
}

// NewCatalogService creates a CatalogService. cache may be nil, in which
// case every read goes to Firestore.
func NewCatalogService(tr db.TemplateRepository, c cache.Cache, logger *zap.Logger) CatalogService {
	return &catalogService{templateRepo: tr, cache: c, logger: logger}
}

// ListApproved returns the approved catalog, served from Redis when the
// cached copy is fresh.
func (s *catalogService) ListApproved(ctx context.Context) ([]*models.Template, error) {
	if s.templateRepo == nil {
		return nil, errors.New("catalogService: templateRepo not initialized")
	}

	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, cache.KeyApprovedTemplates); err != nil {
			s.logger.Warn("catalog cache read failed", zap.Error(err))
		} else if raw != "" {
			var cached []*models.Template
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
			s.logger.Warn("discarding undecodable catalog cache entry")
		}
	}

	templates, err := s.templateRepo.ListByStatus(ctx, models.StatusApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved templates: %w", err)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(templates); err == nil {
			if err := s.cache.Set(ctx, cache.KeyApprovedTemplates, string(raw), catalogCacheTTL); err != nil {
				s.logger.Warn("catalog cache write failed", zap.Error(err))
			}
		}
	}
	return templates, nil
}

// Get fetches one template regardless of status.
func (s *catalogService) Get(ctx context.Context, templateID string) (*models.Template, error) {
	if s.templateRepo == nil {
		return nil, errors.New("catalogService: templateRepo not initialized")
	}
	tpl, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: id '%s'", ErrTemplateNotFound, templateID)
		}
		return nil, fmt.Errorf("failed to get template '%s': %w", templateID, err)
	}
	return tpl, nil
}

// Free returns up to four approved templates explicitly flagged free. The
// flag alone decides membership here; a zero price without the flag does not.
func (s *catalogService) Free(ctx context.Context) ([]*models.Template, error) {
	return s.filtered(ctx, func(t *models.Template) bool { return t.IsFree })
}

// Featured returns up to four approved featured templates.
func (s *catalogService) Featured(ctx context.Context) ([]*models.Template, error) {
	return s.filtered(ctx, func(t *models.Template) bool { return t.IsFeatured })
}

// Search matches the query as a case-insensitive substring across the
// descriptive fields of approved templates, capped at twenty results.
func (s *catalogService) Search(ctx context.Context, query string) ([]*models.Template, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	needle := strings.ToLower(query)

	approved, err := s.ListApproved(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*models.Template, 0, searchLimit)
	for _, tpl := range approved {
		if matchesQuery(tpl, needle) {
			results = append(results, tpl)
			if len(results) == searchLimit {
				break
			}
		}
	}
	return results, nil
}

// Suggestions returns up to three other approved templates sharing the
// theme or framework of the given one.
func (s *catalogService) Suggestions(ctx context.Context, templateID string) ([]*models.Template, error) {
	tpl, err := s.Get(ctx, templateID)
	if err != nil {
		return nil, err
	}

	approved, err := s.ListApproved(ctx)
	if err != nil {
		return nil, err
	}

	// Without a theme or framework to match on, any other approved
	// template qualifies.
	anyMatch := tpl.Theme == "" && tpl.Framework == ""

	results := make([]*models.Template, 0, suggestionLimit)
	for _, candidate := range approved {
		if candidate.ID == tpl.ID {
			continue
		}
		sameTheme := tpl.Theme != "" && strings.EqualFold(candidate.Theme, tpl.Theme)
		sameFramework := tpl.Framework != "" && strings.EqualFold(candidate.Framework, tpl.Framework)
		if anyMatch || sameTheme || sameFramework {
			results = append(results, candidate)
			if len(results) == suggestionLimit {
				break
			}
		}
	}
	return results, nil
}

func (s *catalogService) filtered(ctx context.Context, keep func(*models.Template) bool) ([]*models.Template, error) {
	approved, err := s.ListApproved(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]*models.Template, 0, filterLimit)
	for _, tpl := range approved {
		if keep(tpl) {
			results = append(results, tpl)
			if len(results) == filterLimit {
				break
			}
		}
	}
	return results, nil
}

func matchesQuery(tpl *models.Template, needle string) bool {
	fields := []string{
		tpl.Title, tpl.Description, tpl.Category,
		tpl.Framework, tpl.Platform, tpl.Theme,
	}
	fields = append(fields, tpl.Tags...)
	fields = append(fields, tpl.Features...)
	fields = append(fields, tpl.TechStack...)
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
