package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"templatehub-backend-go/internal/core"
)

// respond writes the standard {success, message, ...payload} envelope.
func respond(c *gin.Context, status int, message string, payload gin.H) {
	body := gin.H{
		"success": status < http.StatusBadRequest,
		"message": message,
	}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// respondError maps a core error to its HTTP status. Unrecognized errors
// become an opaque 500.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, core.ErrTemplateNotFound),
		errors.Is(err, core.ErrUserNotFound),
		errors.Is(err, core.ErrCartItemNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, core.ErrForbidden),
		errors.Is(err, core.ErrUploadNotAllowed):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, core.ErrInvalidPassword),
		errors.Is(err, core.ErrFirebaseToken):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, core.ErrAlreadyApproved),
		errors.Is(err, core.ErrInvalidAction),
		errors.Is(err, core.ErrInvalidColor),
		errors.Is(err, core.ErrSelfPurchase),
		errors.Is(err, core.ErrTemplateNotApproved),
		errors.Is(err, core.ErrEmptyQuery),
		errors.Is(err, core.ErrEmailTaken),
		errors.Is(err, core.ErrInvalidRole),
		errors.Is(err, core.ErrInvalidStatusAction),
		errors.Is(err, core.ErrUnknownSetting),
		errors.Is(err, core.ErrInvalidSettingValue):
		status = http.StatusBadRequest
		message = err.Error()
	}

	respond(c, status, message, nil)
}

// currentUserID returns the authenticated user's ID set by the auth
// middleware.
func currentUserID(c *gin.Context) string {
	return c.GetString("userID")
}
