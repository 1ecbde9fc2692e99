package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogapp "github.com/brewdash/backend/internal/application/catalog"
	"github.com/brewdash/backend/internal/interfaces/http/middleware"
)

func newIngredientHandlerRouter() (*gin.Engine, uuid.UUID) {
	tenantID := uuid.New()
	service := catalogapp.NewIngredientService(newMemIngredientRepo())

	router := gin.New()
	api := router.Group("/api/v1")
	NewIngredientHandler(service).RegisterRoutes(api)
	return router, tenantID
}

func doJSON(t *testing.T, router *gin.Engine, tenantID uuid.UUID, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.TenantHeaderKey, tenantID.String())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIngredientHandlerCRUD(t *testing.T) {
	router, tenantID := newIngredientHandlerRouter()

	w := doJSON(t, router, tenantID, "POST", "/api/v1/ingredients", gin.H{
		"name":               "Coffee Beans",
		"unit":               "g",
		"base_unit_cost":     "120",
		"base_unit_quantity": "1000",
		"usage_per_cup":      "18",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data catalogapp.IngredientResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, created.Data.HasCompleteCosting)
	id := created.Data.ID.String()

	w = doJSON(t, router, tenantID, "GET", "/api/v1/ingredients/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Coffee Beans")

	w = doJSON(t, router, tenantID, "PUT", "/api/v1/ingredients/"+id, gin.H{
		"usage_per_cup": "20",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, tenantID, "GET", "/api/v1/ingredients", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listed struct {
		Data []catalogapp.IngredientResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed.Data, 1)

	w = doJSON(t, router, tenantID, "DELETE", "/api/v1/ingredients/"+id, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, tenantID, "GET", "/api/v1/ingredients/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIngredientHandlerDuplicate(t *testing.T) {
	router, tenantID := newIngredientHandlerRouter()

	body := gin.H{"name": "Milk", "unit": "ml"}
	w := doJSON(t, router, tenantID, "POST", "/api/v1/ingredients", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, tenantID, "POST", "/api/v1/ingredients", body)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "ALREADY_EXISTS")
}

func TestIngredientHandlerValidation(t *testing.T) {
	router, tenantID := newIngredientHandlerRouter()

	t.Run("missing name rejected", func(t *testing.T) {
		w := doJSON(t, router, tenantID, "POST", "/api/v1/ingredients", gin.H{"unit": "g"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed id rejected", func(t *testing.T) {
		w := doJSON(t, router, tenantID, "GET", "/api/v1/ingredients/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
