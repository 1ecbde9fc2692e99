package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func tenantTestRouter() *gin.Engine {
	router := gin.New()
	router.Use(Tenant())
	router.GET("/api/v1/stock/levels", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(TenantIDKey))
	})
	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestTenantMiddleware(t *testing.T) {
	router := tenantTestRouter()

	t.Run("extracts tenant from header", func(t *testing.T) {
		tenantID := uuid.New().String()
		req := httptest.NewRequest("GET", "/api/v1/stock/levels", nil)
		req.Header.Set(TenantHeaderKey, tenantID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, tenantID, w.Body.String())
	})

	t.Run("rejects missing tenant", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/stock/levels", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_TENANT")
	})

	t.Run("rejects malformed tenant ID", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/stock/levels", nil)
		req.Header.Set(TenantHeaderKey, "not-a-uuid")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("skips health check path", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("optional tenant passes through when absent", func(t *testing.T) {
		router := gin.New()
		router.Use(TenantWithConfig(TenantConfig{Required: false}))
		router.GET("/test", func(c *gin.Context) {
			c.String(http.StatusOK, c.GetString(TenantIDKey))
		})

		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
	})
}
