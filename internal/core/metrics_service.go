package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"templatehub-backend-go/internal/db"
	"templatehub-backend-go/internal/models"
)

const analyticsMonths = 6

// chartPalette colors category slices in upload order.
var chartPalette = []string{
	"#4169E1", "#50C878", "#FFD700", "#FFA500", "#9370DB", "#FF6B6B",
}

type metricsService struct {
	templateRepo db.TemplateRepository
	userRepo     db.UserRepository
}

// NewMetricsService creates a MetricsService over the template and user
// repositories.
func NewMetricsService(tr db.TemplateRepository, ur db.UserRepository) MetricsService {
	return &metricsService{templateRepo: tr, userRepo: ur}
}

// Overview aggregates the dashboard headline numbers. Rejected templates do
// not count toward the total; total sales is the summed price of the
// approved catalog.
func (s *metricsService) Overview(ctx context.Context) (*models.Metrics, error) {
	if s.templateRepo == nil || s.userRepo == nil {
		return nil, errors.New("metricsService: component not initialized")
	}

	pending, err := s.templateRepo.ListByStatus(ctx, models.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending templates: %w", err)
	}
	approved, err := s.templateRepo.ListByStatus(ctx, models.StatusApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved templates: %w", err)
	}
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	var activeSellers int64
	for _, u := range users {
		if u.Role == models.RoleSeller && u.Status == models.UserActive {
			activeSellers++
		}
	}
	var totalSales float64
	for _, tpl := range approved {
		totalSales += tpl.EstimatedPrice
	}

	return &models.Metrics{
		TotalTemplates: int64(len(pending) + len(approved)),
		PendingReviews: int64(len(pending)),
		TotalUsers:     int64(len(users)),
		ActiveSellers:  activeSellers,
		TotalSales:     totalSales,
	}, nil
}

// MonthlyStats buckets template uploads, user registrations and paid
// revenue into the last six calendar months, oldest first. Revenue is
// attributed to the month the template was uploaded.
func (s *metricsService) MonthlyStats(ctx context.Context) ([]models.MonthlyStat, error) {
	if s.templateRepo == nil || s.userRepo == nil {
		return nil, errors.New("metricsService: component not initialized")
	}

	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, -(analyticsMonths - 1), 0)

	templates, err := s.templateRepo.ListCreatedSince(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent templates: %w", err)
	}
	users, err := s.userRepo.ListCreatedSince(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent users: %w", err)
	}

	stats := make([]models.MonthlyStat, analyticsMonths)
	index := make(map[string]int, analyticsMonths)
	for i := 0; i < analyticsMonths; i++ {
		month := start.AddDate(0, i, 0)
		key := month.Format("2006-01")
		stats[i] = models.MonthlyStat{Month: month.Format("Jan")}
		index[key] = i
	}

	for _, tpl := range templates {
		if i, ok := index[tpl.CreatedAt.UTC().Format("2006-01")]; ok {
			stats[i].Templates++
			if !tpl.Free() {
				stats[i].Revenue += float64(tpl.Sales) * tpl.EstimatedPrice
			}
		}
	}
	for _, u := range users {
		if i, ok := index[u.CreatedAt.UTC().Format("2006-01")]; ok {
			stats[i].Users++
		}
	}
	return stats, nil
}

// TemplateCategories counts the approved catalog per category, colored from
// a fixed palette, largest first.
func (s *metricsService) TemplateCategories(ctx context.Context) ([]models.CategoryStat, error) {
	if s.templateRepo == nil {
		return nil, errors.New("metricsService: templateRepo not initialized")
	}

	approved, err := s.templateRepo.ListByStatus(ctx, models.StatusApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved templates: %w", err)
	}

	counts := make(map[string]int64)
	for _, tpl := range approved {
		name := tpl.Category
		if name == "" {
			name = "Uncategorized"
		}
		counts[name]++
	}

	stats := make([]models.CategoryStat, 0, len(counts))
	for name, count := range counts {
		stats = append(stats, models.CategoryStat{Name: name, Count: count})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Name < stats[j].Name
	})
	for i := range stats {
		stats[i].Color = chartPalette[i%len(chartPalette)]
	}
	return stats, nil
}
