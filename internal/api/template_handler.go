package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"templatehub-backend-go/internal/core"
	"templatehub-backend-go/internal/middleware"
	"templatehub-backend-go/internal/models"
	"templatehub-backend-go/internal/storage"
)

// TemplateHandler exposes the catalog, seller management and review routes
// under /api/templates.
type TemplateHandler struct {
	catalog   core.CatalogService
	templates core.TemplateService
	purchases core.PurchaseService
	store     *storage.Store
}

// NewTemplateHandler creates a TemplateHandler.
func NewTemplateHandler(
	catalog core.CatalogService,
	templates core.TemplateService,
	purchases core.PurchaseService,
	store *storage.Store,
) *TemplateHandler {
	return &TemplateHandler{
		catalog:   catalog,
		templates: templates,
		purchases: purchases,
		store:     store,
	}
}

// List handles GET /api/templates: the approved catalog.
func (h *TemplateHandler) List(c *gin.Context) {
	templates, err := h.catalog.ListApproved(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Templates fetched", gin.H{"templates": templates})
}

// Get handles GET /api/templates/:id.
func (h *TemplateHandler) Get(c *gin.Context) {
	tpl, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Template fetched", gin.H{"template": tpl})
}

// Search handles GET /api/templates/search?query=.
func (h *TemplateHandler) Search(c *gin.Context) {
	results, err := h.catalog.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Search results", gin.H{"templates": results})
}

// Free handles GET /api/templates/filter/free.
func (h *TemplateHandler) Free(c *gin.Context) {
	results, err := h.catalog.Free(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Free templates fetched", gin.H{"templates": results})
}

// Featured handles GET /api/templates/filter/featured.
func (h *TemplateHandler) Featured(c *gin.Context) {
	results, err := h.catalog.Featured(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Featured templates fetched", gin.H{"templates": results})
}

// Suggestions handles GET /api/templates/:id/suggestions.
func (h *TemplateHandler) Suggestions(c *gin.Context) {
	results, err := h.catalog.Suggestions(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Suggestions fetched", gin.H{"templates": results})
}

// Upload handles POST /api/templates/upload (multipart form).
func (h *TemplateHandler) Upload(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if actor == nil {
		respond(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	title := c.PostForm("title")
	description := c.PostForm("description")
	priceRaw := c.PostForm("estimatedPrice")
	if title == "" || description == "" || priceRaw == "" {
		respond(c, http.StatusBadRequest, "Title, description, and estimated price are required", nil)
		return
	}
	price, err := strconv.ParseFloat(priceRaw, 64)
	if err != nil || price < 0 {
		respond(c, http.StatusBadRequest, "Estimated price must be a non-negative number", nil)
		return
	}

	tags, err1 := parseJSONList(c.PostForm("tags"))
	features, err2 := parseJSONList(c.PostForm("features"))
	techStack, err3 := parseJSONList(c.PostForm("techStack"))
	if err1 != nil || err2 != nil || err3 != nil {
		respond(c, http.StatusBadRequest, "Invalid JSON in tags, features, or techStack", nil)
		return
	}

	tpl := &models.Template{
		Title:          title,
		Description:    description,
		EstimatedPrice: price,
		Category:       c.PostForm("category"),
		Framework:      c.PostForm("framework"),
		Platform:       c.PostForm("platform"),
		Theme:          c.PostForm("theme"),
		GithubRepo:     c.PostForm("githubRepo"),
		UploadType:     c.PostForm("uploadType"),
		LiveLink:       c.PostForm("liveLink"),
		CodePreview:    c.PostForm("codePreview"),
		Tags:           tags,
		Features:       features,
		TechStack:      techStack,
		IsFree:         c.PostForm("isFree") == "true" || price == 0,
	}
	if tpl.UploadType == "" {
		tpl.UploadType = models.UploadTypeGithub
	}

	if file, err := c.FormFile("zipFile"); err == nil {
		path, err := h.store.Save(file)
		if err != nil {
			respond(c, http.StatusInternalServerError, "Failed to store uploaded file", nil)
			return
		}
		tpl.ZipFileURL = path
		tpl.UploadType = models.UploadTypeZip
	}
	if file, err := c.FormFile("previewImage"); err == nil {
		path, err := h.store.Save(file)
		if err != nil {
			respond(c, http.StatusInternalServerError, "Failed to store preview image", nil)
			return
		}
		tpl.PreviewImage = path
	}

	created, err := h.templates.Upload(c.Request.Context(), actor, tpl)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Template uploaded successfully", gin.H{"template": created})
}

// Mine handles GET /api/templates/user/mine.
func (h *TemplateHandler) Mine(c *gin.Context) {
	templates, err := h.templates.Mine(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Templates fetched", gin.H{"templates": templates})
}

// Update handles PUT /api/templates/:id.
func (h *TemplateHandler) Update(c *gin.Context) {
	var req models.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "Invalid template payload", nil)
		return
	}

	tpl, err := h.templates.Update(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Template updated", gin.H{"template": tpl})
}

// Delete handles DELETE /api/templates/:id.
func (h *TemplateHandler) Delete(c *gin.Context) {
	if err := h.templates.Delete(c.Request.Context(), middleware.ActorFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Template deleted", nil)
}

// SetColor handles PUT /api/templates/:id/color.
func (h *TemplateHandler) SetColor(c *gin.Context) {
	var req models.SetColorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond(c, http.StatusBadRequest, "color is required", nil)
		return
	}

	tpl, err := h.templates.SetColor(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), req.Color)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Color updated", gin.H{"template": tpl})
}

// Approve handles PUT /api/templates/:id/approve.
func (h *TemplateHandler) Approve(c *gin.Context) {
	h.review(c, core.ActionApprove)
}

// Reject handles PUT /api/templates/:id/reject.
func (h *TemplateHandler) Reject(c *gin.Context) {
	h.review(c, core.ActionReject)
}

// ReviewAction handles POST /api/admin/templates/:id/:action.
func (h *TemplateHandler) ReviewAction(c *gin.Context) {
	h.review(c, c.Param("action"))
}

func (h *TemplateHandler) review(c *gin.Context, action string) {
	tpl, err := h.templates.Review(c.Request.Context(), currentUserID(c), c.Param("id"), action)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Template "+string(tpl.Status), gin.H{"template": tpl})
}

// Purchase handles POST /api/templates/:id/purchase.
func (h *TemplateHandler) Purchase(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	if actor == nil {
		respond(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	tpl, err := h.purchases.Purchase(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Purchase recorded", gin.H{"templateId": tpl.ID})
}

// parseJSONList decodes a JSON array form field. An empty field yields an
// empty list.
func parseJSONList(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, err
	}
	return list, nil
}
