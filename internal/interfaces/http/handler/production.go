package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brewdash/backend/internal/application/production"
	"github.com/brewdash/backend/internal/interfaces/http/dto"
	"github.com/brewdash/backend/internal/interfaces/http/middleware"
)

// ProductionHandler handles production batch HTTP requests
type ProductionHandler struct {
	BaseHandler
	service *production.BatchService
}

// NewProductionHandler creates a new production handler
func NewProductionHandler(service *production.BatchService) *ProductionHandler {
	return &ProductionHandler{service: service}
}

// RegisterRoutes registers production routes
func (h *ProductionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	batches := rg.Group("/production/batches")
	{
		batches.POST("", h.CreateBatch)
		batches.GET("", h.ListBatches)
		batches.GET("/:id", h.GetBatch)
		batches.PATCH("/:id/status", h.UpdateStatus)
		batches.DELETE("/:id", h.DeleteBatch)
	}
}

// CreateBatch handles POST /production/batches
func (h *ProductionHandler) CreateBatch(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req production.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.service.CreateBatch(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetBatch handles GET /production/batches/:id
func (h *ProductionHandler) GetBatch(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid batch ID")
		return
	}

	resp, err := h.service.GetBatch(c.Request.Context(), tenantID, uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListBatches handles GET /production/batches. A status query parameter
// narrows the listing to one lifecycle state.
func (h *ProductionHandler) ListBatches(c *gin.Context) {
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

	if status := c.Query("status"); status != "" {
		resp, err := h.service.ListByStatus(c.Request.Context(), tenantID, status, req.ToFilter())
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, resp)
		return
	}

	result, err := h.service.ListBatches(c.Request.Context(), tenantID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedResponse(result))
}

// UpdateStatus handles PATCH /production/batches/:id/status
func (h *ProductionHandler) UpdateStatus(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid batch ID")
		return
	}

	var req production.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.service.UpdateStatus(c.Request.Context(), tenantID, uuid.MustParse(uri.ID), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// DeleteBatch handles DELETE /production/batches/:id
func (h *ProductionHandler) DeleteBatch(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid batch ID")
		return
	}

	if err := h.service.DeleteBatch(c.Request.Context(), tenantID, uuid.MustParse(uri.ID)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
