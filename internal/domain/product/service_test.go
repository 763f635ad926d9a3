// internal/domain/product/service_test.go
package product

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/shopzone/shopzone-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Category{}, &Product{}))
	return db
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(setupTestDB(t), nil, &config.Config{})
}

func TestCreateProductWithNestedCategory(t *testing.T) {
	svc := newTestService(t)

	prod, err := svc.CreateProduct(&ProductCreateRequest{
		Name:        "Widget",
		Description: "A widget",
		Price:       decimal.RequireFromString("10.00"),
		Category:    CategoryPayload{Name: "Gadgets"},
		Stock:       5,
	})
	require.NoError(t, err)
	assert.NotZero(t, prod.ID)
	assert.Equal(t, "Gadgets", prod.Category.Name)
	assert.True(t, prod.Price.Equal(decimal.RequireFromString("10.00")))
	assert.Equal(t, 5, prod.Stock)
}

func TestCreateProductRejectsInvalidPrice(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateProduct(&ProductCreateRequest{
		Name:     "Overpriced",
		Price:    decimal.RequireFromString("1000000.00"),
		Category: CategoryPayload{Name: "Gadgets"},
	})
	assert.Error(t, err)

	_, err = svc.CreateProduct(&ProductCreateRequest{
		Name:     "Freebie",
		Price:    decimal.RequireFromString("-1.00"),
		Category: CategoryPayload{Name: "Gadgets"},
	})
	assert.Error(t, err)
}

func TestCreateProductRejectsNegativeStock(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateProduct(&ProductCreateRequest{
		Name:     "Widget",
		Price:    decimal.RequireFromString("10.00"),
		Category: CategoryPayload{Name: "Gadgets"},
		Stock:    -1,
	})
	assert.Error(t, err)
}

func TestGetProductsFiltersByName(t *testing.T) {
	svc := newTestService(t)

	for _, name := range []string{"Red Widget", "Blue Widget", "Gizmo"} {
		_, err := svc.CreateProduct(&ProductCreateRequest{
			Name:     name,
			Price:    decimal.RequireFromString("10.00"),
			Category: CategoryPayload{Name: "Gadgets"},
			Stock:    1,
		})
		require.NoError(t, err)
	}

	products, total, err := svc.GetProducts(&ProductListRequest{Name: "widget", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, products, 2)

	products, total, err = svc.GetProducts(&ProductListRequest{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, products, 2)
}

func TestGetProductNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetProduct(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProductMergePatch(t *testing.T) {
	svc := newTestService(t)

	prod, err := svc.CreateProduct(&ProductCreateRequest{
		Name:     "Widget",
		Price:    decimal.RequireFromString("10.00"),
		Category: CategoryPayload{Name: "Gadgets"},
		Stock:    5,
	})
	require.NoError(t, err)

	newPrice := decimal.RequireFromString("12.50")
	updated, err := svc.UpdateProduct(prod.ID, &ProductUpdateRequest{
		Price: &newPrice,
	})
	require.NoError(t, err)

	// Untouched fields survive the patch
	assert.Equal(t, "Widget", updated.Name)
	assert.Equal(t, 5, updated.Stock)
	assert.True(t, updated.Price.Equal(newPrice))
}

func TestUpdateProductRenamesCategory(t *testing.T) {
	svc := newTestService(t)

	prod, err := svc.CreateProduct(&ProductCreateRequest{
		Name:     "Widget",
		Price:    decimal.RequireFromString("10.00"),
		Category: CategoryPayload{Name: "Gadgets"},
		Stock:    5,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(prod.ID, &ProductUpdateRequest{
		Category: &CategoryPayload{Name: "Hardware"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hardware", updated.Category.Name)
	assert.Equal(t, prod.CategoryID, updated.CategoryID)
}

func TestDeleteProduct(t *testing.T) {
	svc := newTestService(t)

	prod, err := svc.CreateProduct(&ProductCreateRequest{
		Name:     "Widget",
		Price:    decimal.RequireFromString("10.00"),
		Category: CategoryPayload{Name: "Gadgets"},
		Stock:    5,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(prod.ID))
	_, err = svc.GetProduct(prod.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.DeleteProduct(prod.ID), ErrNotFound)
}

func TestDeleteCategoryRemovesProducts(t *testing.T) {
	db := setupTestDB(t)
	cfg := &config.Config{}
	svc := NewService(db, nil, cfg)
	catSvc := NewCategoryService(db, cfg)

	prod, err := svc.CreateProduct(&ProductCreateRequest{
		Name:     "Widget",
		Price:    decimal.RequireFromString("10.00"),
		Category: CategoryPayload{Name: "Gadgets"},
		Stock:    5,
	})
	require.NoError(t, err)

	require.NoError(t, catSvc.DeleteCategory(prod.CategoryID))

	_, err = svc.GetProduct(prod.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
