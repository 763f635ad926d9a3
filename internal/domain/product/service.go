// internal/domain/product/service.go
package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/shopzone/shopzone-backend/internal/config"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a product or category does not exist
var ErrNotFound = errors.New("product not found")

// maxPrice mirrors the decimal(8,2) column: eight digits, two of them decimals
var maxPrice = decimal.RequireFromString("999999.99")

const detailCacheTTL = 60 * time.Second

// Service handles product business logic
type Service struct {
	db          *gorm.DB
	redisClient *redis.Client
	config      *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Service {
	return &Service{
		db:          db,
		redisClient: redisClient,
		config:      cfg,
	}
}

// CategoryPayload is the nested category object accepted inside a product payload
type CategoryPayload struct {
	Name string `json:"name" binding:"required"`
}

// ProductCreateRequest represents product creation data with its inline category
type ProductCreateRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Category    CategoryPayload `json:"category" binding:"required"`
	Stock       int             `json:"stock"`
}

// ProductUpdateRequest represents a partial product update. Only fields
// present in the payload overwrite stored values; the nested category
// patch follows the same rule.
type ProductUpdateRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Image       *string          `json:"image"`
	Price       *decimal.Decimal `json:"price"`
	Category    *CategoryPayload `json:"category"`
	Stock       *int             `json:"stock"`
}

// ProductListRequest represents product list query parameters
type ProductListRequest struct {
	Name  string `form:"name"`
	Page  int    `form:"page,default=1"`
	Limit int    `form:"limit,default=10"`
}

// CreateProduct creates a product together with its nested category in a
// single transaction; if either write fails nothing is persisted.
func (s *Service) CreateProduct(req *ProductCreateRequest) (*Product, error) {
	if err := validatePrice(req.Price); err != nil {
		return nil, err
	}
	if req.Stock < 0 {
		return nil, fmt.Errorf("stock cannot be negative")
	}
	if req.Category.Name == "" {
		return nil, fmt.Errorf("category name is required")
	}

	var created Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		category := Category{Name: req.Category.Name}
		if err := tx.Create(&category).Error; err != nil {
			return fmt.Errorf("failed to create category: %w", err)
		}

		created = Product{
			Name:        req.Name,
			Description: req.Description,
			Image:       req.Image,
			Price:       req.Price,
			CategoryID:  category.ID,
			Stock:       req.Stock,
		}
		if err := tx.Create(&created).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Category").First(&created, created.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to load created product: %w", err)
	}
	return &created, nil
}

// GetProducts retrieves products newest-first, optionally filtered by a
// case-insensitive name substring, returning the page and the total count.
func (s *Service) GetProducts(req *ProductListRequest) ([]Product, int64, error) {
	var products []Product
	var total int64

	query := s.db.Model(&Product{}).Preload("Category")
	if req.Name != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(req.Name)+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Order("id DESC").Offset(offset).Limit(req.Limit).Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve products: %w", err)
	}

	return products, total, nil
}

// GetProduct retrieves a single product by ID, serving repeated reads from
// a short-lived Redis cache so unchanged detail responses stay identical.
func (s *Service) GetProduct(id uint) (*Product, error) {
	if cached := s.getCachedProduct(id); cached != nil {
		return cached, nil
	}

	var prod Product
	result := s.db.Preload("Category").First(&prod, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product: %w", result.Error)
	}

	s.cacheProduct(&prod)
	return &prod, nil
}

// UpdateProduct applies a merge-patch update: only fields present in the
// request overwrite stored values. A nested category payload renames the
// product's owned category in the same transaction.
func (s *Service) UpdateProduct(id uint, req *ProductUpdateRequest) (*Product, error) {
	if req.Price != nil {
		if err := validatePrice(*req.Price); err != nil {
			return nil, err
		}
	}
	if req.Stock != nil && *req.Stock < 0 {
		return nil, fmt.Errorf("stock cannot be negative")
	}

	var prod Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Category").First(&prod, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to retrieve product: %w", err)
		}

		if req.Name != nil {
			prod.Name = *req.Name
		}
		if req.Description != nil {
			prod.Description = *req.Description
		}
		if req.Image != nil {
			prod.Image = *req.Image
		}
		if req.Price != nil {
			prod.Price = *req.Price
		}
		if req.Stock != nil {
			prod.Stock = *req.Stock
		}

		if req.Category != nil && req.Category.Name != "" {
			prod.Category.Name = req.Category.Name
			if err := tx.Save(&prod.Category).Error; err != nil {
				return fmt.Errorf("failed to update category: %w", err)
			}
		}

		if err := tx.Save(&prod).Error; err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateProduct(id)
	return &prod, nil
}

// DeleteProduct removes a product
func (s *Service) DeleteProduct(id uint) error {
	result := s.db.Delete(&Product{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	s.invalidateProduct(id)
	return nil
}

// Private helpers

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return fmt.Errorf("price cannot be negative")
	}
	if price.GreaterThan(maxPrice) {
		return fmt.Errorf("price exceeds maximum of %s", maxPrice)
	}
	return nil
}

func (s *Service) getCachedProduct(id uint) *Product {
	if s.redisClient == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	data, err := s.redisClient.Get(ctx, productCacheKey(id)).Result()
	if err != nil {
		return nil
	}

	var prod Product
	if err := json.Unmarshal([]byte(data), &prod); err != nil {
		return nil
	}
	return &prod
}

func (s *Service) cacheProduct(prod *Product) {
	if s.redisClient == nil {
		return
	}

	data, err := json.Marshal(prod)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Best effort; a cache miss on failure is fine
	s.redisClient.Set(ctx, productCacheKey(prod.ID), data, detailCacheTTL)
}

func (s *Service) invalidateProduct(id uint) {
	if s.redisClient == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	s.redisClient.Del(ctx, productCacheKey(id))
}

func productCacheKey(id uint) string {
	return fmt.Sprintf("product:detail:%d", id)
}
