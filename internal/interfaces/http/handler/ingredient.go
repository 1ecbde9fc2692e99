package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brewdash/backend/internal/application/catalog"
	"github.com/brewdash/backend/internal/interfaces/http/dto"
	"github.com/brewdash/backend/internal/interfaces/http/middleware"
)

// IngredientHandler handles ingredient catalog HTTP requests
type IngredientHandler struct {
	BaseHandler
	service *catalog.IngredientService
}

// NewIngredientHandler creates a new ingredient handler
func NewIngredientHandler(service *catalog.IngredientService) *IngredientHandler {
	return &IngredientHandler{service: service}
}

// RegisterRoutes registers ingredient routes
func (h *IngredientHandler) RegisterRoutes(rg *gin.RouterGroup) {
	ingredients := rg.Group("/ingredients")
	{
		ingredients.POST("", h.Create)
		ingredients.GET("", h.List)
		ingredients.GET("/:id", h.Get)
		ingredients.PUT("/:id", h.Update)
		ingredients.DELETE("/:id", h.Delete)
	}
}

// Create handles POST /ingredients
func (h *IngredientHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req catalog.CreateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.service.CreateIngredient(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get handles GET /ingredients/:id
func (h *IngredientHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid ingredient ID")
		return
	}

	resp, err := h.service.GetIngredient(c.Request.Context(), tenantID, uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List handles GET /ingredients
func (h *IngredientHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.service.ListIngredients(c.Request.Context(), tenantID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Update handles PUT /ingredients/:id
func (h *IngredientHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid ingredient ID")
		return
	}

	var req catalog.UpdateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.service.UpdateIngredient(c.Request.Context(), tenantID, uuid.MustParse(uri.ID), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete handles DELETE /ingredients/:id
func (h *IngredientHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid ingredient ID")
		return
	}

	if err := h.service.DeleteIngredient(c.Request.Context(), tenantID, uuid.MustParse(uri.ID)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
