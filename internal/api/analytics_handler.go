package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"templatehub-backend-go/internal/core"
)

// AnalyticsHandler exposes the public analytics charts.
type AnalyticsHandler struct {
	metrics core.MetricsService
}

// NewAnalyticsHandler creates an AnalyticsHandler.
func NewAnalyticsHandler(metrics core.MetricsService) *AnalyticsHandler {
	return &AnalyticsHandler{metrics: metrics}
}

// MonthlyStats handles GET /api/analytics/monthly-stats.
func (h *AnalyticsHandler) MonthlyStats(c *gin.Context) {
	stats, err := h.metrics.MonthlyStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Monthly stats fetched", gin.H{"stats": stats})
}

// TemplateCategories handles GET /api/analytics/template-categories.
func (h *AnalyticsHandler) TemplateCategories(c *gin.Context) {
	categories, err := h.metrics.TemplateCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Template categories fetched", gin.H{"categories": categories})
}
