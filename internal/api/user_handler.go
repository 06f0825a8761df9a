package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"templatehub-backend-go/internal/core"
	"templatehub-backend-go/internal/models"
)

// UserHandler exposes the authenticated profile surface.
type UserHandler struct {
	users    core.UserService
	activity core.ActivityService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users core.UserService, activity core.ActivityService) *UserHandler {
	return &UserHandler{users: users, activity: activity}
}

// Me handles GET /api/users/me.
func (h *UserHandler) Me(c *gin.Context) {
	profile, err := h.users.Profile(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Profile fetched", gin.H{"user": profile})
}

// UpdateMe handles PUT /api/users/me.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "Invalid profile payload", nil)
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Profile updated", gin.H{"user": user})
}

// Notifications handles GET /api/notifications: the caller's latest
// activity entries.
func (h *UserHandler) Notifications(c *gin.Context) {
	entries, err := h.activity.ForUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Notifications fetched", gin.H{"notifications": entries})
}
