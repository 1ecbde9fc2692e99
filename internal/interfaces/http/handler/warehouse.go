package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/brewdash/backend/internal/application/warehouse"
	"github.com/brewdash/backend/internal/interfaces/http/dto"
	"github.com/brewdash/backend/internal/interfaces/http/middleware"
)

// WarehouseHandler handles warehouse intake HTTP requests
type WarehouseHandler struct {
	BaseHandler
	service *warehouse.IntakeService
}

// NewWarehouseHandler creates a new warehouse handler
func NewWarehouseHandler(service *warehouse.IntakeService) *WarehouseHandler {
	return &WarehouseHandler{service: service}
}

// RegisterRoutes registers warehouse routes
func (h *WarehouseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	batches := rg.Group("/warehouse/batches")
	{
		batches.POST("", h.CreateBatch)
		batches.GET("", h.ListBatches)
		batches.POST("/from-shopping-list", h.IntakeFromShoppingList)
		batches.GET("/:id", h.GetBatch)
		batches.POST("/:id/items", h.AddItems)
		batches.PUT("/:id/note", h.UpdateNote)
	}
}

// CreateBatch handles POST /warehouse/batches
func (h *WarehouseHandler) CreateBatch(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req warehouse.CreateBatchRequest
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

// GetBatch handles GET /warehouse/batches/:id
func (h *WarehouseHandler) GetBatch(c *gin.Context) {
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

// ListBatches handles GET /warehouse/batches
func (h *WarehouseHandler) ListBatches(c *gin.Context) {
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

	result, err := h.service.ListBatches(c.Request.Context(), tenantID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedResponse(result))
}

// AddItems handles POST /warehouse/batches/:id/items
func (h *WarehouseHandler) AddItems(c *gin.Context) {
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

	var items []warehouse.IntakeItemRequest
	if err := c.ShouldBindJSON(&items); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if len(items) == 0 {
		h.BadRequest(c, "At least one item is required")
		return
	}

	resp, err := h.service.AddItemsToBatch(c.Request.Context(), tenantID, uuid.MustParse(uri.ID), items)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// IntakeFromShoppingList handles POST /warehouse/batches/from-shopping-list.
// The service reports failures inside the result instead of an error so
// the caller always sees what happened to the intake as a whole.
func (h *WarehouseHandler) IntakeFromShoppingList(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req warehouse.IntakeFromShoppingListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result := h.service.AddFromShoppingList(c.Request.Context(), tenantID, req)
	if !result.Success {
		c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(dto.ErrCodeInvalidInput, result.Error, getRequestID(c)))
		return
	}

	h.Created(c, result)
}

// UpdateNote handles PUT /warehouse/batches/:id/note
func (h *WarehouseHandler) UpdateNote(c *gin.Context) {
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

	var req warehouse.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.service.UpdateNote(c.Request.Context(), tenantID, uuid.MustParse(uri.ID), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
