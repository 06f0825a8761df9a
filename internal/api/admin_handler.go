package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"templatehub-backend-go/internal/core"
	"templatehub-backend-go/internal/models"
)

// AdminHandler exposes the review dashboard: queues, user management,
// metrics, the activity feed and settings.
type AdminHandler struct {
	templates core.TemplateService
	users     core.UserService
	activity  core.ActivityService
	metrics   core.MetricsService
	settings  core.SettingsService
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(
	templates core.TemplateService,
	users core.UserService,
	activity core.ActivityService,
	metrics core.MetricsService,
	settings core.SettingsService,
) *AdminHandler {
	return &AdminHandler{
		templates: templates,
		users:     users,
		activity:  activity,
		metrics:   metrics,
		settings:  settings,
	}
}

// PendingTemplates handles GET /api/admin/templates: the review queue.
func (h *AdminHandler) PendingTemplates(c *gin.Context) {
	templates, err := h.templates.ListByStatus(c.Request.Context(), models.StatusPending)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Pending templates fetched", gin.H{"templates": templates})
}

// PublishedTemplates handles GET /api/admin/templates/published.
func (h *AdminHandler) PublishedTemplates(c *gin.Context) {
	templates, err := h.templates.ListByStatus(c.Request.Context(), models.StatusApproved)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Published templates fetched", gin.H{"templates": templates})
}

// Users handles GET /api/admin/users.
func (h *AdminHandler) Users(c *gin.Context) {
	users, err := h.users.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Users fetched", gin.H{"users": users})
}

// SetUserStatus handles PATCH /api/admin/users/:id/:action with action ban
// or unban.
func (h *AdminHandler) SetUserStatus(c *gin.Context) {
	user, err := h.users.SetStatus(c.Request.Context(), currentUserID(c), c.Param("id"), c.Param("action"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "User "+string(user.Status), gin.H{"user": user})
}

// Metrics handles GET /api/admin/metrics.
func (h *AdminHandler) Metrics(c *gin.Context) {
	overview, err := h.metrics.Overview(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Metrics fetched", gin.H{"metrics": overview})
}

// Activity handles GET /api/admin/activity.
func (h *AdminHandler) Activity(c *gin.Context) {
	feed, err := h.activity.Feed(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Activity fetched", gin.H{"activities": feed})
}

// Settings handles GET /api/admin/settings.
func (h *AdminHandler) Settings(c *gin.Context) {
	settings, err := h.settings.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Settings fetched", gin.H{"settings": settings})
}

// UpdateSetting handles PUT /api/admin/settings/:key.
func (h *AdminHandler) UpdateSetting(c *gin.Context) {
	var req models.UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "value is required", nil)
		return
	}

	settings, err := h.settings.Update(c.Request.Context(), c.Param("key"), req.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Setting updated", gin.H{"settings": settings})
}
