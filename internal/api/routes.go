package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"templatehub-backend-go/internal/middleware"
)

// Handlers bundles every handler the router needs.
type Handlers struct {
	Auth      *AuthHandler
	Users     *UserHandler
	Cart      *CartHandler
	Templates *TemplateHandler
	Admin     *AdminHandler
	Analytics *AnalyticsHandler
}

// SetupRoutes registers the full HTTP surface on the engine. uploadDir is
// served statically under /uploads.
func SetupRoutes(router *gin.Engine, h Handlers, authmw *middleware.AuthMiddleware, uploadDir string) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "ok"})
	})
	router.Static("/uploads", uploadDir)

	api := router.Group("/api")

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", h.Auth.Register)
		authRoutes.POST("/login", h.Auth.Login)
		authRoutes.POST("/firebase-login", h.Auth.FirebaseLogin)
	}

	templates := api.Group("/templates")
	{
		templates.GET("", h.Templates.List)
		templates.GET("/search", h.Templates.Search)
		templates.GET("/filter/free", h.Templates.Free)
		templates.GET("/filter/featured", h.Templates.Featured)
		templates.GET("/:id", h.Templates.Get)
		templates.GET("/:id/suggestions", h.Templates.Suggestions)

		authed := templates.Group("", authmw.VerifyToken())
		{
			authed.POST("/upload", h.Templates.Upload)
			authed.GET("/user/mine", h.Templates.Mine)
			authed.PUT("/:id", h.Templates.Update)
			authed.DELETE("/:id", h.Templates.Delete)
			authed.POST("/:id/purchase", h.Templates.Purchase)

			admin := authed.Group("", authmw.RequireAdmin())
			{
				admin.PUT("/:id/approve", h.Templates.Approve)
				admin.PUT("/:id/reject", h.Templates.Reject)
				admin.PUT("/:id/color", h.Templates.SetColor)
			}
		}
	}

	users := api.Group("/users", authmw.VerifyToken())
	{
		users.GET("/me", h.Users.Me)
		users.PUT("/me", h.Users.UpdateMe)

		cart := users.Group("/cart")
		{
			cart.GET("", h.Cart.Get)
			cart.PUT("", h.Cart.SetQuantity)
			cart.POST("/add", h.Cart.Add)
			cart.PUT("/increment/:templateId", h.Cart.Increment)
			cart.PUT("/decrement/:templateId", h.Cart.Decrement)
			cart.DELETE("/remove/:templateId", h.Cart.Remove)
			cart.DELETE("/clear", h.Cart.Clear)
		}
	}

	api.GET("/notifications", authmw.VerifyToken(), h.Users.Notifications)

	admin := api.Group("/admin", authmw.VerifyToken(), authmw.RequireAdmin())
	{
		admin.GET("/templates", h.Admin.PendingTemplates)
		admin.GET("/templates/published", h.Admin.PublishedTemplates)
		admin.POST("/templates/:id/:action", h.Templates.ReviewAction)
		admin.GET("/users", h.Admin.Users)
		admin.PATCH("/users/:id/:action", h.Admin.SetUserStatus)
		admin.GET("/metrics", h.Admin.Metrics)
		admin.GET("/activity", h.Admin.Activity)
		admin.GET("/settings", h.Admin.Settings)
		admin.PUT("/settings/:key", h.Admin.UpdateSetting)
	}

	analytics := api.Group("/analytics")
	{
		analytics.GET("/monthly-stats", h.Analytics.MonthlyStats)
		analytics.GET("/template-categories", h.Analytics.TemplateCategories)
	}
}
