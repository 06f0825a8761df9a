package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"templatehub-backend-go/internal/auth"
	"templatehub-backend-go/internal/core"
	"templatehub-backend-go/internal/models"
)

// AuthHandler exposes registration and the two login flows.
type AuthHandler struct {
	users  core.UserService
	tokens *auth.TokenManager
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(users core.UserService, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "Username, email and a password of at least 6 characters are required", nil)
		return
	}

	user, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.issueSession(c, http.StatusCreated, "User registered successfully", user)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "Email and password are required", nil)
		return
	}

	user, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	if user.Status == models.UserBanned {
		respond(c, http.StatusForbidden, "Account is banned", nil)
		return
	}
	h.issueSession(c, http.StatusOK, "Login successful", user)
}

// FirebaseLogin handles POST /api/auth/firebase-login. The Firebase ID
// token is exchanged for the same local session token the other flows use.
func (h *AuthHandler) FirebaseLogin(c *gin.Context) {
	var req models.FirebaseLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "idToken is required", nil)
		return
	}

	user, err := h.users.FirebaseLogin(c.Request.Context(), req.IDToken)
	if err != nil {
		respondError(c, err)
		return
	}
	if user.Status == models.UserBanned {
		respond(c, http.StatusForbidden, "Account is banned", nil)
		return
	}
	h.issueSession(c, http.StatusOK, "Login successful", user)
}

func (h *AuthHandler) issueSession(c *gin.Context, status int, message string, user *models.User) {
	token, err := h.tokens.Issue(user.ID, user.Role)
	if err != nil {
		respond(c, http.StatusInternalServerError, "Failed to issue session token", nil)
		return
	}
	respond(c, status, message, gin.H{
		"token": token,
		"user":  user,
	})
}
