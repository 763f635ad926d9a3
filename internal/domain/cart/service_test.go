// internal/domain/cart/service_test.go
package cart

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/shopzone/shopzone-backend/internal/config"
	"github.com/shopzone/shopzone-backend/internal/domain/product"
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
	require.NoError(t, db.AutoMigrate(&product.Category{}, &product.Product{}, &Cart{}, &CartItem{}))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string, stock int) *product.Product {
	t.Helper()

	category := product.Category{Name: "Gadgets"}
	require.NoError(t, db.FirstOrCreate(&category, product.Category{Name: "Gadgets"}).Error)

	prod := product.Product{
		Name:       name,
		Price:      decimal.RequireFromString(price),
		CategoryID: category.ID,
		Stock:      stock,
	}
	require.NoError(t, db.Create(&prod).Error)
	return &prod
}

func TestAddItemMergesDuplicateLines(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})
	prod := seedProduct(t, db, "Widget", "10.00", 10)

	c, err := svc.CreateCart(1)
	require.NoError(t, err)

	first, err := svc.AddItem(&AddItemRequest{CartID: c.ID, ProductID: prod.ID, Quantity: 2})
	require.NoError(t, err)

	second, err := svc.AddItem(&AddItemRequest{CartID: c.ID, ProductID: prod.ID, Quantity: 3})
	require.NoError(t, err)

	// Same line, merged quantity
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)

	var count int64
	db.Model(&CartItem{}).Where("cart_id = ?", c.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestAddItemEnforcesStock(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})
	prod := seedProduct(t, db, "Widget", "10.00", 3)

	c, err := svc.CreateCart(1)
	require.NoError(t, err)

	_, err = svc.AddItem(&AddItemRequest{CartID: c.ID, ProductID: prod.ID, Quantity: 4})
	assert.Error(t, err)

	// Merged quantity is also checked
	_, err = svc.AddItem(&AddItemRequest{CartID: c.ID, ProductID: prod.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = svc.AddItem(&AddItemRequest{CartID: c.ID, ProductID: prod.ID, Quantity: 2})
	assert.Error(t, err)
}

func TestAddItemUnknownCartOrProduct(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})
	prod := seedProduct(t, db, "Widget", "10.00", 3)

	_, err := svc.AddItem(&AddItemRequest{CartID: 999, ProductID: prod.ID, Quantity: 1})
	assert.ErrorIs(t, err, ErrNotFound)

	c, err := svc.CreateCart(1)
	require.NoError(t, err)

	_, err = svc.AddItem(&AddItemRequest{CartID: c.ID, ProductID: 999, Quantity: 1})
	assert.Error(t, err)
}

func TestGetCartComputesSubtotal(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})
	widget := seedProduct(t, db, "Widget", "10.00", 10)
	gizmo := seedProduct(t, db, "Gizmo", "2.50", 10)

	c, err := svc.CreateCart(1)
	require.NoError(t, err)

	_, err = svc.AddItem(&AddItemRequest{CartID: c.ID, ProductID: widget.ID, Quantity: 3})
	require.NoError(t, err)
	_, err = svc.AddItem(&AddItemRequest{CartID: c.ID, ProductID: gizmo.ID, Quantity: 2})
	require.NoError(t, err)

	response, err := svc.GetCart(c.ID)
	require.NoError(t, err)
	require.Len(t, response.ItemTotals, 2)

	// 3*10.00 + 2*2.50 = 35.00
	assert.True(t, response.SubTotal.Equal(decimal.RequireFromString("35.00")),
		"got subtotal %s", response.SubTotal)
}

func TestUpdateItemChecksStock(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})
	prod := seedProduct(t, db, "Widget", "10.00", 5)

	c, err := svc.CreateCart(1)
	require.NoError(t, err)

	item, err := svc.AddItem(&AddItemRequest{CartID: c.ID, ProductID: prod.ID, Quantity: 2})
	require.NoError(t, err)

	updated, err := svc.UpdateItem(item.ID, &UpdateItemRequest{Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)

	_, err = svc.UpdateItem(item.ID, &UpdateItemRequest{Quantity: 6})
	assert.Error(t, err)

	_, err = svc.UpdateItem(item.ID, &UpdateItemRequest{Quantity: 0})
	assert.Error(t, err)
}

func TestRemoveItem(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})
	prod := seedProduct(t, db, "Widget", "10.00", 5)

	c, err := svc.CreateCart(1)
	require.NoError(t, err)

	item, err := svc.AddItem(&AddItemRequest{CartID: c.ID, ProductID: prod.ID, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveItem(item.ID))
	assert.ErrorIs(t, svc.RemoveItem(item.ID), ErrNotFound)
}

func TestDeleteCartRemovesItems(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})
	prod := seedProduct(t, db, "Widget", "10.00", 5)

	c, err := svc.CreateCart(1)
	require.NoError(t, err)

	_, err = svc.AddItem(&AddItemRequest{CartID: c.ID, ProductID: prod.ID, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCart(c.ID))

	_, err = svc.GetCart(c.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var count int64
	db.Unscoped().Model(&CartItem{}).Where("cart_id = ? AND deleted_at IS NULL", c.ID).Count(&count)
	assert.EqualValues(t, 0, count)
}
