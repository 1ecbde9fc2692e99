package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/brewdash/backend/internal/application/procurement"
)

// ProcurementHandler handles procurement HTTP requests
type ProcurementHandler struct {
	BaseHandler
	service *procurement.ProcurementService
}

// NewProcurementHandler creates a new procurement handler
func NewProcurementHandler(service *procurement.ProcurementService) *ProcurementHandler {
	return &ProcurementHandler{service: service}
}

// RegisterRoutes registers procurement routes
func (h *ProcurementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	proc := rg.Group("/procurement")
	{
		proc.GET("/shopping-list", h.ShoppingList)
		proc.GET("/restock", h.RestockList)
	}
}

// ShoppingList handles GET /procurement/shopping-list
func (h *ProcurementHandler) ShoppingList(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	raw := c.Query("daily_target")
	if raw == "" {
		h.BadRequest(c, "daily_target query parameter is required")
		return
	}
	dailyTarget, err := decimal.NewFromString(raw)
	if err != nil {
		h.BadRequest(c, "daily_target must be a number")
		return
	}

	resp, err := h.service.GetShoppingList(c.Request.Context(), tenantID, dailyTarget)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// RestockList handles GET /procurement/restock
func (h *ProcurementHandler) RestockList(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.service.GetRestockList(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
