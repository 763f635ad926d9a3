// internal/domain/cart/service.go
package cart

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/shopzone/shopzone-backend/internal/config"
	"github.com/shopzone/shopzone-backend/internal/domain/product"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a cart or cart item does not exist
var ErrNotFound = errors.New("cart not found")

// Service handles cart business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new cart service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// AddItemRequest represents an add-to-cart request
type AddItemRequest struct {
	CartID    uint `json:"cart_id" binding:"required"`
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// UpdateItemRequest represents a cart item quantity update
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// CartItemResponse is a cart item with its computed line total
type CartItemResponse struct {
	CartItem
	LineTotal decimal.Decimal `json:"line_total"`
}

// CartResponse is a cart with item line totals and the running subtotal
type CartResponse struct {
	Cart
	ItemTotals []CartItemResponse `json:"item_totals"`
	SubTotal   decimal.Decimal    `json:"sub_total"`
}

// CreateCart creates a fresh cart for a user
func (s *Service) CreateCart(userID uint) (*Cart, error) {
	newCart := Cart{UserID: userID}
	if err := s.db.Create(&newCart).Error; err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return &newCart, nil
}

// GetCarts retrieves all carts for a user
func (s *Service) GetCarts(userID uint) ([]Cart, error) {
	var carts []Cart
	if err := s.db.Preload("Items.Product").Where("user_id = ?", userID).Order("id DESC").Find(&carts).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve carts: %w", err)
	}
	return carts, nil
}

// GetCart retrieves a cart with per-item line totals and subtotal
func (s *Service) GetCart(id uint) (*CartResponse, error) {
	var c Cart
	result := s.db.Preload("Items.Product").First(&c, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve cart: %w", result.Error)
	}

	response := CartResponse{Cart: c, SubTotal: decimal.Zero}
	for i := range c.Items {
		lineTotal := c.Items[i].LineTotal()
		response.ItemTotals = append(response.ItemTotals, CartItemResponse{
			CartItem:  c.Items[i],
			LineTotal: lineTotal,
		})
		response.SubTotal = response.SubTotal.Add(lineTotal)
	}
	return &response, nil
}

// DeleteCart removes a cart and its items
func (s *Service) DeleteCart(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&Cart{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete cart: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Where("cart_id = ?", id).Delete(&CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete cart items: %w", err)
		}
		return nil
	})
}

// AddItem adds a product to a cart. Adding a product already in the cart
// merges quantities into the existing line; the merged quantity is checked
// against stock so a cart can never request more than the shelf holds.
func (s *Service) AddItem(req *AddItemRequest) (*CartItem, error) {
	if req.Quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}

	var item CartItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var c Cart
		if err := tx.First(&c, req.CartID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to retrieve cart: %w", err)
		}

		var prod product.Product
		if err := tx.First(&prod, req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("product %d does not exist", req.ProductID)
			}
			return fmt.Errorf("failed to retrieve product: %w", err)
		}

		var existing CartItem
		result := tx.Where("cart_id = ? AND product_id = ?", req.CartID, req.ProductID).First(&existing)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			if !prod.HasStockFor(req.Quantity) {
				return fmt.Errorf("insufficient stock for product '%s': available %d, requested %d",
					prod.Name, prod.Stock, req.Quantity)
			}
			item = CartItem{
				CartID:    req.CartID,
				ProductID: req.ProductID,
				Quantity:  req.Quantity,
			}
			return tx.Create(&item).Error
		} else if result.Error != nil {
			return fmt.Errorf("failed to look up cart item: %w", result.Error)
		}

		merged := existing.Quantity + req.Quantity
		if !prod.HasStockFor(merged) {
			return fmt.Errorf("insufficient stock for product '%s': available %d, requested %d",
				prod.Name, prod.Stock, merged)
		}
		existing.Quantity = merged
		if err := tx.Save(&existing).Error; err != nil {
			return fmt.Errorf("failed to merge cart item: %w", err)
		}
		item = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Product.Category").First(&item, item.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to load cart item: %w", err)
	}
	return &item, nil
}

// GetItems retrieves all items for a cart with computed line totals
func (s *Service) GetItems(cartID uint) ([]CartItemResponse, error) {
	var items []CartItem
	if err := s.db.Preload("Product.Category").Where("cart_id = ?", cartID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve cart items: %w", err)
	}

	responses := make([]CartItemResponse, len(items))
	for i := range items {
		responses[i] = CartItemResponse{
			CartItem:  items[i],
			LineTotal: items[i].LineTotal(),
		}
	}
	return responses, nil
}

// GetItem retrieves a single cart item with its line total
func (s *Service) GetItem(id uint) (*CartItemResponse, error) {
	var item CartItem
	result := s.db.Preload("Product.Category").First(&item, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve cart item: %w", result.Error)
	}
	return &CartItemResponse{CartItem: item, LineTotal: item.LineTotal()}, nil
}

// UpdateItem changes a cart item's quantity. Concurrent updates from the
// same user are last-write-wins; that is the accepted policy.
func (s *Service) UpdateItem(id uint, req *UpdateItemRequest) (*CartItem, error) {
	if req.Quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}

	var item CartItem
	result := s.db.Preload("Product").First(&item, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve cart item: %w", result.Error)
	}

	if !item.Product.HasStockFor(req.Quantity) {
		return nil, fmt.Errorf("insufficient stock for product '%s': available %d, requested %d",
			item.Product.Name, item.Product.Stock, req.Quantity)
	}

	item.Quantity = req.Quantity
	if err := s.db.Save(&item).Error; err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	return &item, nil
}

// RemoveItem deletes a cart item
func (s *Service) RemoveItem(id uint) error {
	result := s.db.Delete(&CartItem{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
