// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/shopzone/shopzone-backend/internal/domain/cart"
	"github.com/shopzone/shopzone-backend/internal/domain/customer"
	"github.com/shopzone/shopzone-backend/internal/domain/order"
	"github.com/shopzone/shopzone-backend/internal/domain/product"
	"github.com/shopzone/shopzone-backend/internal/domain/user"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	logrus.Info("Running database auto-migrations")

	// Dependency order: base tables first
	models := []interface{}{
		&user.User{},
		&customer.ContactInfo{},
		&customer.Profile{},
		&product.Category{},
		&product.Product{},
		&cart.Cart{},
		&cart.CartItem{},
		&order.Order{},
		&order.OrderItem{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	logrus.Info("Database auto-migrations completed")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_category ON products(category_id)",
		"CREATE INDEX IF NOT EXISTS idx_products_name ON products(name)",
		"CREATE INDEX IF NOT EXISTS idx_carts_user ON carts(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_cart_items_cart_product ON cart_items(cart_id, product_id)",
		"CREATE INDEX IF NOT EXISTS idx_orders_user_status ON orders(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_contact_infos_user ON contact_infos(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_profiles_user ON profiles(user_id)",
	}

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			logrus.WithError(err).Warn("Failed to create index")
		}
	}

	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	logrus.Info("Seeding initial data")

	if err := m.seedCategories(); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	if err := m.seedTestProducts(); err != nil {
		return fmt.Errorf("failed to seed test products: %w", err)
	}

	logrus.Info("Initial data seeded")
	return nil
}

// seedCategories creates default product categories
func (m *Migration) seedCategories() error {
	categories := []product.Category{
		{Name: "Electronics"},
		{Name: "Clothing"},
		{Name: "Books"},
		{Name: "Home & Garden"},
	}

	for _, category := range categories {
		var existing product.Category
		result := m.db.Where("name = ?", category.Name).First(&existing)
		if result.Error != nil {
			if err := m.db.Create(&category).Error; err != nil {
				return err
			}
			logrus.WithField("category", category.Name).Info("Created category")
		}
	}

	return nil
}

// seedAdminUser creates a default admin account for development
func (m *Migration) seedAdminUser() error {
	var existing user.User
	result := m.db.Where("email = ?", "admin@example.com").First(&existing)
	if result.Error == nil {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	adminUser := user.User{
		Username: "admin",
		Email:    "admin@example.com",
		Password: string(hashedPassword),
		IsActive: true,
		IsAdmin:  true,
	}
	if err := m.db.Create(&adminUser).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logrus.Info("Created admin user: admin@example.com")
	return nil
}

// seedTestProducts creates a couple of products for development
func (m *Migration) seedTestProducts() error {
	var productCount int64
	m.db.Model(&product.Product{}).Count(&productCount)
	if productCount > 0 {
		return nil
	}

	var electronics product.Category
	if err := m.db.Where("name = ?", "Electronics").First(&electronics).Error; err != nil {
		return nil
	}

	testProducts := []product.Product{
		{
			Name:        "Wireless Mouse",
			Description: "Ergonomic wireless mouse with a high-precision sensor.",
			Price:       decimal.RequireFromString("29.99"),
			CategoryID:  electronics.ID,
			Stock:       50,
		},
		{
			Name:        "Bluetooth Headphones",
			Description: "Over-ear headphones with active noise cancellation.",
			Price:       decimal.RequireFromString("159.99"),
			CategoryID:  electronics.ID,
			Stock:       30,
		},
	}

	for _, prod := range testProducts {
		if err := m.db.Create(&prod).Error; err != nil {
			logrus.WithError(err).WithField("product", prod.Name).Warn("Failed to create test product")
		}
	}

	return nil
}

// DropAllTables drops all tables (use with extreme caution)
func (m *Migration) DropAllTables() error {
	logrus.Warn("Dropping all database tables")

	// Reverse dependency order
	tables := []string{
		"order_items",
		"orders",
		"cart_items",
		"carts",
		"profiles",
		"contact_infos",
		"products",
		"categories",
		"users",
	}

	for _, table := range tables {
		if err := m.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			logrus.WithError(err).WithField("table", table).Warn("Failed to drop table")
		}
	}

	return nil
}
