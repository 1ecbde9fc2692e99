package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appledger "github.com/brewdash/backend/internal/application/ledger"
	"github.com/brewdash/backend/internal/infrastructure/cache"
	"github.com/brewdash/backend/internal/infrastructure/logger"
	"github.com/brewdash/backend/internal/interfaces/http/dto"
	"github.com/brewdash/backend/internal/interfaces/http/middleware"
)

// AlertReader exposes the read side of the alert sink
type AlertReader interface {
	RecentAlerts(ctx context.Context, tenantID uuid.UUID, limit int) ([]appledger.LowStockAlert, error)
}

// LedgerHandler handles stock ledger HTTP requests
type LedgerHandler struct {
	BaseHandler
	service   *appledger.LedgerService
	snapshots cache.SnapshotCache
	alerts    AlertReader
}

// NewLedgerHandler creates a new ledger handler. snapshots and alerts
// may be nil, in which case caching and the alerts endpoint degrade
// gracefully.
func NewLedgerHandler(service *appledger.LedgerService, snapshots cache.SnapshotCache, alerts AlertReader) *LedgerHandler {
	return &LedgerHandler{service: service, snapshots: snapshots, alerts: alerts}
}

// RegisterRoutes registers stock ledger routes
func (h *LedgerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stock := rg.Group("/stock")
	{
		stock.GET("/levels", h.ListLevels)
		stock.GET("/levels/:id", h.GetLevel)
		stock.PUT("/levels/:id/threshold", h.SetThreshold)
		stock.GET("/low", h.ListLowStock)
		stock.GET("/transactions", h.ListTransactions)
		stock.POST("/transactions", h.ApplyTransaction)
		stock.GET("/audit/:id", h.Audit)
		stock.GET("/alerts", h.ListAlerts)
	}
}

// ApplyTransaction handles POST /stock/transactions
func (h *LedgerHandler) ApplyTransaction(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req appledger.ApplyTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.service.ApplyTransaction(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetLevel handles GET /stock/levels/:id
func (h *LedgerHandler) GetLevel(c *gin.Context) {
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

	resp, err := h.service.GetStockLevel(c.Request.Context(), tenantID, uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListLevels handles GET /stock/levels. Requests without query
// parameters are served from the snapshot cache when one is configured;
// the cache is invalidated on every ledger event.
func (h *LedgerHandler) ListLevels(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	cacheable := h.snapshots != nil && c.Request.URL.RawQuery == ""
	if cacheable {
		payload, hit, cacheErr := h.snapshots.Get(c.Request.Context(), tenantID)
		if cacheErr != nil {
			logger.FromContext(c.Request.Context()).Warn("Snapshot cache read failed", zap.Error(cacheErr))
		} else if hit {
			c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
			return
		}
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.service.ListStockLevels(c.Request.Context(), tenantID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	envelope := dto.NewPaginatedResponse(result)
	if cacheable {
		if payload, marshalErr := json.Marshal(envelope); marshalErr == nil {
			if cacheErr := h.snapshots.Set(c.Request.Context(), tenantID, payload); cacheErr != nil {
				logger.FromContext(c.Request.Context()).Warn("Snapshot cache write failed", zap.Error(cacheErr))
			}
		}
	}

	c.JSON(http.StatusOK, envelope)
}

// ListLowStock handles GET /stock/low
func (h *LedgerHandler) ListLowStock(c *gin.Context) {
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

	resp, err := h.service.ListLowStock(c.Request.Context(), tenantID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListTransactions handles GET /stock/transactions
func (h *LedgerHandler) ListTransactions(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var filter appledger.TransactionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.service.ListTransactions(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedResponse(result))
}

// SetThreshold handles PUT /stock/levels/:id/threshold
func (h *LedgerHandler) SetThreshold(c *gin.Context) {
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

	var req appledger.SetThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.service.SetLowStockThreshold(c.Request.Context(), tenantID, uuid.MustParse(uri.ID), req.Threshold)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Audit handles GET /stock/audit/:id
func (h *LedgerHandler) Audit(c *gin.Context) {
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

	resp, err := h.service.AuditIngredient(c.Request.Context(), tenantID, uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListAlerts handles GET /stock/alerts
func (h *LedgerHandler) ListAlerts(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if h.alerts == nil {
		h.Success(c, []appledger.LowStockAlert{})
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			h.BadRequest(c, "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	alerts, err := h.alerts.RecentAlerts(c.Request.Context(), tenantID, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, alerts)
}
