// internal/interfaces/http/handlers/product_test.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopzone/shopzone-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shopzone/shopzone-backend/internal/domain/product"
)

func setupProductRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&product.Category{}, &product.Product{}))

	handler := NewProductHandler(db, nil, &config.Config{})

	router := gin.New()
	router.POST("/products/create/", handler.Create)
	router.GET("/products/list/", handler.List)
	router.GET("/products/detail/:id/", handler.Detail)
	router.PATCH("/products/update/:id/", handler.Update)
	router.DELETE("/products/delete/:id/", handler.Delete)
	return router
}

func createProduct(t *testing.T, router *gin.Engine, name string) {
	t.Helper()

	body := fmt.Sprintf(`{"name":%q,"price":"10.00","category":{"name":"Gadgets"},"stock":5}`, name)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/products/create/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestProductCreateEndpoint(t *testing.T) {
	router := setupProductRouter(t)

	createProduct(t, router, "Widget")

	// Missing required fields is a 400
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/products/create/", strings.NewReader(`{"name":"NoPrice"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductListPaginationEnvelope(t *testing.T) {
	router := setupProductRouter(t)
	for i := 1; i <= 3; i++ {
		createProduct(t, router, fmt.Sprintf("Widget %d", i))
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products/list/?page=1&limit=2", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Count    int64             `json:"count"`
		Next     *string           `json:"next"`
		Previous *string           `json:"previous"`
		Results  []json.RawMessage `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))

	assert.EqualValues(t, 3, envelope.Count)
	assert.Len(t, envelope.Results, 2)
	require.NotNil(t, envelope.Next)
	assert.Contains(t, *envelope.Next, "page=2")
	assert.Nil(t, envelope.Previous)

	// Last page points backwards only
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/products/list/?page=2&limit=2", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))

	assert.Len(t, envelope.Results, 1)
	assert.Nil(t, envelope.Next)
	require.NotNil(t, envelope.Previous)
	assert.Contains(t, *envelope.Previous, "page=1")
}

func TestProductDetailNotFound(t *testing.T) {
	router := setupProductRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products/detail/999/", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/products/detail/abc/", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductDeleteEndpoint(t *testing.T) {
	router := setupProductRouter(t)
	createProduct(t, router, "Widget")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/products/delete/1/", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/products/delete/1/", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
