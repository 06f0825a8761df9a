package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"templatehub-backend-go/internal/auth"
	"templatehub-backend-go/internal/core"
	"templatehub-backend-go/internal/middleware"
	"templatehub-backend-go/internal/models"
)

type apiFixture struct {
	router    *gin.Engine
	tokens    *auth.TokenManager
	users     *stubUserService
	cart      *stubCartService
	templates *stubTemplateService
	catalog   *stubCatalogService
	purchases *stubPurchaseService
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	users := newStubUserService(
		&models.User{ID: "buyer-1", Username: "buyer", Email: "buyer@example.com", Role: models.RoleBuyer, Status: models.UserActive},
		&models.User{ID: "admin-1", Username: "admin", Email: "admin@example.com", Role: models.RoleAdmin, Status: models.UserActive},
		&models.User{ID: "banned-1", Username: "outcast", Email: "out@example.com", Role: models.RoleBuyer, Status: models.UserBanned},
	)
	cart := newStubCartService()
	templates := &stubTemplateService{}
	catalog := &stubCatalogService{templates: []*models.Template{
		{ID: "tpl-1", Title: "Shop Starter", Status: models.StatusApproved},
	}}
	purchases := &stubPurchaseService{}

	authmw := middleware.NewAuthMiddleware(tokens, users, zap.NewNop())

	router := gin.New()
	SetupRoutes(router, Handlers{
		Auth:      NewAuthHandler(users, tokens),
		Users:     NewUserHandler(users, stubActivityService{}),
		Cart:      NewCartHandler(cart),
		Templates: NewTemplateHandler(catalog, templates, purchases, nil),
		Admin:     NewAdminHandler(templates, users, stubActivityService{}, stubMetricsService{}, &stubSettingsService{}),
		Analytics: NewAnalyticsHandler(stubMetricsService{}),
	}, authmw, t.TempDir())

	return &apiFixture{
		router: router, tokens: tokens, users: users,
		cart: cart, templates: templates, catalog: catalog, purchases: purchases,
	}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var payload *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewBuffer(raw)
	} else {
		payload = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *apiFixture) tokenFor(t *testing.T, userID string, role models.Role) string {
	t.Helper()
	token, err := f.tokens.Issue(userID, role)
	require.NoError(t, err)
	return token
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealth(t *testing.T) {
	f := newAPIFixture(t)
	rec := f.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCartRequiresAuthentication(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/api/users/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])

	rec = f.do(t, http.MethodGet, "/api/users/cart", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBannedUserRejected(t *testing.T) {
	f := newAPIFixture(t)
	token := f.tokenFor(t, "banned-1", models.RoleBuyer)

	rec := f.do(t, http.MethodGet, "/api/users/cart", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCartFlow(t *testing.T) {
	f := newAPIFixture(t)
	token := f.tokenFor(t, "buyer-1", models.RoleBuyer)

	rec := f.do(t, http.MethodPost, "/api/users/cart/add", token, gin.H{"templateId": "tpl-1"})
	require.Equal(t, http.StatusOK, rec.Code)

	// Adding again bumps the quantity instead of creating a second entry.
	rec = f.do(t, http.MethodPost, "/api/users/cart/add", token, gin.H{"templateId": "tpl-1"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPut, "/api/users/cart/increment/tpl-1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/users/cart", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	cart := body["cart"].([]interface{})
	require.Len(t, cart, 1)
	entry := cart[0].(map[string]interface{})
	assert.Equal(t, 3.0, entry["quantity"])

	rec = f.do(t, http.MethodPut, "/api/users/cart/increment/ghost", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchEmptyQueryIs400(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/api/templates/search?query=", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/templates/search?query=shop", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Len(t, body["templates"], 1)
}

func TestAdminRoutesRejectNonAdmins(t *testing.T) {
	f := newAPIFixture(t)
	buyerToken := f.tokenFor(t, "buyer-1", models.RoleBuyer)

	rec := f.do(t, http.MethodGet, "/api/admin/metrics", buyerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Access denied: Admins only", body["message"])

	adminToken := f.tokenFor(t, "admin-1", models.RoleAdmin)
	rec = f.do(t, http.MethodGet, "/api/admin/metrics", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReviewEndpointsRouteToSameTransition(t *testing.T) {
	f := newAPIFixture(t)
	adminToken := f.tokenFor(t, "admin-1", models.RoleAdmin)

	rec := f.do(t, http.MethodPut, "/api/templates/tpl-1/approve", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/admin/templates/tpl-1/reject", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []string{"tpl-1 approve", "tpl-1 reject"}, f.templates.reviewed)
}

func TestDuplicateApprovalIs400(t *testing.T) {
	f := newAPIFixture(t)
	f.templates.reviewErr = core.ErrAlreadyApproved
	adminToken := f.tokenFor(t, "admin-1", models.RoleAdmin)

	rec := f.do(t, http.MethodPut, "/api/templates/tpl-1/approve", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSelfPurchaseIs400(t *testing.T) {
	f := newAPIFixture(t)
	f.purchases.err = core.ErrSelfPurchase
	token := f.tokenFor(t, "buyer-1", models.RoleBuyer)

	rec := f.do(t, http.MethodPost, "/api/templates/tpl-1/purchase", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "new", "email": "new@example.com", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "new", "email": "new@example.com", "password": "long-enough",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["token"])
}

func TestLoginStatuses(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "buyer@example.com", "password": "correct",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "buyer@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "ghost@example.com", "password": "correct",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
