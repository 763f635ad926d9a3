// internal/domain/order/service.go
package order

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/shopzone/shopzone-backend/internal/config"
	"github.com/shopzone/shopzone-backend/internal/domain/cart"
	"github.com/shopzone/shopzone-backend/internal/domain/customer"
	"github.com/shopzone/shopzone-backend/internal/domain/product"
	"gorm.io/gorm"
)

// ErrNotFound is returned when an order or order item does not exist
var ErrNotFound = errors.New("order not found")

// Service handles order business logic
type Service struct {
	db              *gorm.DB
	config          *config.Config
	customerService *customer.Service
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config, customerService *customer.Service) *Service {
	return &Service{
		db:              db,
		config:          cfg,
		customerService: customerService,
	}
}

// OrderLineRequest is an explicit line on an order create request
type OrderLineRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// CreateOrderRequest represents an order creation request. Lines come
// either from an existing cart or from an explicit items list, never both.
type CreateOrderRequest struct {
	CartID        *uint              `json:"cart_id,omitempty"`
	Items         []OrderLineRequest `json:"items,omitempty"`
	ContactInfoID *uint              `json:"contact_info_id,omitempty"`
}

// UpdateOrderRequest represents an order update request
type UpdateOrderRequest struct {
	Status        *OrderStatus `json:"status,omitempty"`
	ContactInfoID *uint        `json:"contact_info_id,omitempty"`
}

// OrderItemCreateRequest adds a line to an existing order at the
// product's current price
type OrderItemCreateRequest struct {
	OrderID   uint `json:"order_id" binding:"required"`
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// OrderItemUpdateRequest changes a line's quantity. The frozen price is
// never touched.
type OrderItemUpdateRequest struct {
	Quantity *int `json:"quantity,omitempty"`
}

// OrderListRequest represents order list query parameters
type OrderListRequest struct {
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=10"`
}

// CreateOrder places an order. Every line freezes the product's current
// price, stock is decremented, and the total is recomputed from the
// persisted lines. Any failure rolls the whole order back.
func (s *Service) CreateOrder(userID uint, req *CreateOrderRequest) (*Order, error) {
	if req.CartID != nil && len(req.Items) > 0 {
		return nil, fmt.Errorf("provide a cart or an items list, not both")
	}
	if req.CartID == nil && len(req.Items) == 0 {
		return nil, fmt.Errorf("order requires a cart or at least one item")
	}

	contactInfoID, err := s.resolveContactInfo(userID, req.ContactInfoID)
	if err != nil {
		return nil, err
	}

	var newOrder Order
	err = s.db.Transaction(func(tx *gorm.DB) error {
		lines := req.Items
		if req.CartID != nil {
			var err error
			lines, err = cartLines(tx, *req.CartID)
			if err != nil {
				return err
			}
		}
		if len(lines) == 0 {
			return fmt.Errorf("cart is empty")
		}

		newOrder = Order{
			UserID:        userID,
			CartID:        req.CartID,
			Status:        StatusProcessing,
			ContactInfoID: contactInfoID,
			TotalAmount:   decimal.Zero,
		}
		if err := tx.Create(&newOrder).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for _, line := range lines {
			if line.Quantity < 1 {
				return fmt.Errorf("quantity must be at least 1")
			}

			var prod product.Product
			if err := tx.First(&prod, line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("product %d does not exist", line.ProductID)
				}
				return fmt.Errorf("failed to retrieve product: %w", err)
			}
			if !prod.HasStockFor(line.Quantity) {
				return fmt.Errorf("insufficient stock for product '%s': available %d, requested %d",
					prod.Name, prod.Stock, line.Quantity)
			}

			item := OrderItem{
				OrderID:   newOrder.ID,
				ProductID: prod.ID,
				Quantity:  line.Quantity,
				Price:     prod.Price,
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}

			prod.Stock -= line.Quantity
			if err := tx.Save(&prod).Error; err != nil {
				return fmt.Errorf("failed to update stock: %w", err)
			}
		}

		return recomputeTotal(tx, newOrder.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(newOrder.ID)
}

// resolveContactInfo resolves the contact info for an order. An explicit
// id wins; otherwise the user's saved profile or contact row is used.
func (s *Service) resolveContactInfo(userID uint, explicit *uint) (uint, error) {
	if explicit != nil {
		info, err := s.customerService.GetContactInfo(*explicit)
		if err != nil {
			if errors.Is(err, customer.ErrNotFound) {
				return 0, fmt.Errorf("contact info %d does not exist", *explicit)
			}
			return 0, err
		}
		return info.ID, nil
	}

	info, err := s.customerService.GetContactInfoForUser(userID)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			return 0, fmt.Errorf("no contact info on file; provide contact_info_id")
		}
		return 0, err
	}
	return info.ID, nil
}

// cartLines converts a cart's items to order line requests
func cartLines(tx *gorm.DB, cartID uint) ([]OrderLineRequest, error) {
	var c cart.Cart
	if err := tx.Preload("Items").First(&c, cartID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart %d does not exist", cartID)
		}
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}

	lines := make([]OrderLineRequest, len(c.Items))
	for i, item := range c.Items {
		lines[i] = OrderLineRequest{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return lines, nil
}

// recomputeTotal derives the order total by summing the persisted lines.
// The total is never accepted from a client.
func recomputeTotal(tx *gorm.DB, orderID uint) error {
	var items []OrderItem
	if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}

	total := decimal.Zero
	for i := range items {
		total = total.Add(items[i].LineTotal())
	}

	if err := tx.Model(&Order{}).Where("id = ?", orderID).Update("total_amount", total).Error; err != nil {
		return fmt.Errorf("failed to update order total: %w", err)
	}
	return nil
}

// GetOrders retrieves orders newest-first with their total count,
// scoped to the user unless admin
func (s *Service) GetOrders(userID uint, isAdmin bool, req *OrderListRequest) ([]Order, int64, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 {
		req.Limit = 10
	}

	query := s.db.Model(&Order{})
	if !isAdmin {
		query = query.Where("user_id = ?", userID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []Order
	offset := (req.Page - 1) * req.Limit
	if err := query.Preload("Items.Product").Preload("ContactInfo").
		Order("id DESC").Offset(offset).Limit(req.Limit).Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve orders: %w", err)
	}
	return orders, total, nil
}

// GetOrder retrieves an order with its items and contact info
func (s *Service) GetOrder(id uint) (*Order, error) {
	var o Order
	result := s.db.Preload("Items.Product").Preload("ContactInfo").First(&o, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", result.Error)
	}
	return &o, nil
}

// UpdateOrder applies a merge-patch update. Status changes must move
// forward through fulfilment and the total is recomputed afterwards.
func (s *Service) UpdateOrder(id uint, req *UpdateOrderRequest) (*Order, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var o Order
		if err := tx.First(&o, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to retrieve order: %w", err)
		}

		if req.Status != nil && *req.Status != o.Status {
			if !req.Status.IsValid() {
				return fmt.Errorf("invalid status '%s'", *req.Status)
			}
			if !o.Status.CanTransitionTo(*req.Status) {
				return fmt.Errorf("cannot change status from '%s' to '%s'", o.Status, *req.Status)
			}
			o.Status = *req.Status
		}
		if req.ContactInfoID != nil {
			var info customer.ContactInfo
			if err := tx.First(&info, *req.ContactInfoID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("contact info %d does not exist", *req.ContactInfoID)
				}
				return fmt.Errorf("failed to retrieve contact info: %w", err)
			}
			o.ContactInfoID = info.ID
		}

		if err := tx.Save(&o).Error; err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}
		return recomputeTotal(tx, o.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(id)
}

// DeleteOrder removes an order, restoring stock for every line
func (s *Service) DeleteOrder(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var o Order
		if err := tx.Preload("Items").First(&o, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to retrieve order: %w", err)
		}

		for _, item := range o.Items {
			if err := tx.Model(&product.Product{}).Where("id = ?", item.ProductID).
				Update("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
				return fmt.Errorf("failed to restore stock: %w", err)
			}
		}

		// Soft deletes do not fire the FK cascade, so drop the items here
		if err := tx.Where("order_id = ?", id).Delete(&OrderItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete order items: %w", err)
		}
		if err := tx.Delete(&o).Error; err != nil {
			return fmt.Errorf("failed to delete order: %w", err)
		}
		return nil
	})
}

// CreateOrderItem adds a line to an existing order, freezing the
// product's current price and recomputing the total
func (s *Service) CreateOrderItem(req *OrderItemCreateRequest) (*OrderItem, error) {
	var item OrderItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var o Order
		if err := tx.First(&o, req.OrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to retrieve order: %w", err)
		}

		var prod product.Product
		if err := tx.First(&prod, req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("product %d does not exist", req.ProductID)
			}
			return fmt.Errorf("failed to retrieve product: %w", err)
		}
		if !prod.HasStockFor(req.Quantity) {
			return fmt.Errorf("insufficient stock for product '%s': available %d, requested %d",
				prod.Name, prod.Stock, req.Quantity)
		}

		item = OrderItem{
			OrderID:   req.OrderID,
			ProductID: prod.ID,
			Quantity:  req.Quantity,
			Price:     prod.Price,
		}
		if err := tx.Create(&item).Error; err != nil {
			return fmt.Errorf("failed to create order item: %w", err)
		}

		prod.Stock -= req.Quantity
		if err := tx.Save(&prod).Error; err != nil {
			return fmt.Errorf("failed to update stock: %w", err)
		}
		return recomputeTotal(tx, req.OrderID)
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Product").First(&item, item.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to load order item: %w", err)
	}
	return &item, nil
}

// GetOrderItems retrieves all lines for an order
func (s *Service) GetOrderItems(orderID uint) ([]OrderItem, error) {
	var items []OrderItem
	if err := s.db.Preload("Product").Where("order_id = ?", orderID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve order items: %w", err)
	}
	return items, nil
}

// GetOrderItem retrieves a single order line
func (s *Service) GetOrderItem(id uint) (*OrderItem, error) {
	var item OrderItem
	result := s.db.Preload("Product").First(&item, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order item: %w", result.Error)
	}
	return &item, nil
}

// UpdateOrderItem changes a line's quantity, adjusting stock by the
// delta and recomputing the parent total. The frozen price never changes.
func (s *Service) UpdateOrderItem(id uint, req *OrderItemUpdateRequest) (*OrderItem, error) {
	var item OrderItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to retrieve order item: %w", err)
		}

		if req.Quantity == nil || *req.Quantity == item.Quantity {
			return nil
		}
		if *req.Quantity < 1 {
			return fmt.Errorf("quantity must be at least 1")
		}

		var prod product.Product
		if err := tx.First(&prod, item.ProductID).Error; err != nil {
			return fmt.Errorf("failed to retrieve product: %w", err)
		}

		delta := *req.Quantity - item.Quantity
		if delta > 0 && !prod.HasStockFor(delta) {
			return fmt.Errorf("insufficient stock for product '%s': available %d, requested %d more",
				prod.Name, prod.Stock, delta)
		}

		item.Quantity = *req.Quantity
		if err := tx.Save(&item).Error; err != nil {
			return fmt.Errorf("failed to update order item: %w", err)
		}

		prod.Stock -= delta
		if err := tx.Save(&prod).Error; err != nil {
			return fmt.Errorf("failed to update stock: %w", err)
		}
		return recomputeTotal(tx, item.OrderID)
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Product").First(&item, item.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to load order item: %w", err)
	}
	return &item, nil
}

// DeleteOrderItem removes a line, restoring its stock and recomputing
// the parent order's total
func (s *Service) DeleteOrderItem(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var item OrderItem
		if err := tx.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to retrieve order item: %w", err)
		}

		if err := tx.Model(&product.Product{}).Where("id = ?", item.ProductID).
			Update("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
			return fmt.Errorf("failed to restore stock: %w", err)
		}
		if err := tx.Delete(&item).Error; err != nil {
			return fmt.Errorf("failed to delete order item: %w", err)
		}
		return recomputeTotal(tx, item.OrderID)
	})
}
