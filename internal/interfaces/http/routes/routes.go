// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopzone/shopzone-backend/internal/config"
	"github.com/shopzone/shopzone-backend/internal/interfaces/http/handlers"
	"github.com/shopzone/shopzone-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires all API routes onto the router group
func SetupRoutes(api *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)
	productHandler := handlers.NewProductHandler(db, redisClient, cfg)
	categoryHandler := handlers.NewCategoryHandler(db, cfg)
	cartHandler := handlers.NewCartHandler(db, cfg)
	contactInfoHandler := handlers.NewContactInfoHandler(db, cfg)
	profileHandler := handlers.NewProfileHandler(db, cfg)
	orderHandler := handlers.NewOrderHandler(db, cfg)
	paymentHandler := handlers.NewPaymentHandler(db, cfg)

	// Accounts: public registration and login
	accounts := api.Group("/accounts")
	{
		accounts.POST("/register-admin/", authHandler.RegisterAdmin)
		accounts.POST("/register-customer/", authHandler.RegisterCustomer)
		accounts.POST("/login/", authHandler.Login)
		accounts.POST("/token-refresh/", authHandler.RefreshToken)
		accounts.GET("/me/", middleware.AuthMiddleware(cfg), authHandler.GetCurrentUser)
	}

	// Catalog: public reads, admin writes
	products := api.Group("/products", middleware.AdminOrReadOnly(cfg))
	{
		products.POST("/create/", productHandler.Create)
		products.GET("/list/", productHandler.List)
		products.GET("/detail/:id/", productHandler.Detail)
		products.PUT("/update/:id/", productHandler.Update)
		products.PATCH("/update/:id/", productHandler.Update)
		products.DELETE("/delete/:id/", productHandler.Delete)
	}

	category := api.Group("/category", middleware.AdminOrReadOnly(cfg))
	{
		category.POST("/create/", categoryHandler.Create)
		category.GET("/list/", categoryHandler.List)
		category.GET("/detail/:id/", categoryHandler.Detail)
		category.PUT("/update/:id/", categoryHandler.Update)
		category.PATCH("/update/:id/", categoryHandler.Update)
		category.DELETE("/delete/:id/", categoryHandler.Delete)
	}

	// Everything below needs an authenticated user
	authRequired := middleware.AuthMiddleware(cfg)

	cart := api.Group("/cart", authRequired)
	{
		cart.POST("/create/", cartHandler.Create)
		cart.GET("/list/", cartHandler.List)
		cart.GET("/detail/:id/", cartHandler.Detail)
		cart.DELETE("/delete/:id/", cartHandler.Delete)
	}

	cartItem := api.Group("/cart-item", authRequired)
	{
		cartItem.POST("/create/", cartHandler.AddItem)
		cartItem.GET("/list/", cartHandler.ListItems)
		cartItem.GET("/detail/:id/", cartHandler.ItemDetail)
		cartItem.PUT("/update/:id/", cartHandler.UpdateItem)
		cartItem.PATCH("/update/:id/", cartHandler.UpdateItem)
		cartItem.DELETE("/delete/:id/", cartHandler.RemoveItem)
	}

	contactInfo := api.Group("/contact-info", authRequired)
	{
		contactInfo.POST("/create/", contactInfoHandler.Create)
		contactInfo.GET("/list/", contactInfoHandler.List)
		contactInfo.GET("/detail/:id/", contactInfoHandler.Detail)
		contactInfo.PUT("/update/:id/", contactInfoHandler.Update)
		contactInfo.PATCH("/update/:id/", contactInfoHandler.Update)
		contactInfo.DELETE("/delete/:id/", contactInfoHandler.Delete)
	}

	profile := api.Group("/profile", authRequired)
	{
		profile.POST("/create/", profileHandler.Create)
		profile.GET("/list/", profileHandler.List)
		profile.GET("/detail/:id/", profileHandler.Detail)
		profile.PUT("/update/:id/", profileHandler.Update)
		profile.PATCH("/update/:id/", profileHandler.Update)
		profile.DELETE("/delete/:id/", profileHandler.Delete)
	}

	order := api.Group("/order", authRequired)
	{
		order.POST("/create/", orderHandler.Create)
		order.GET("/list/", orderHandler.List)
		order.GET("/detail/:id/", orderHandler.Detail)
		order.PUT("/update/:id/", orderHandler.Update)
		order.PATCH("/update/:id/", orderHandler.Update)
		order.DELETE("/delete/:id/", orderHandler.Delete)
	}

	orderItem := api.Group("/order-item", authRequired)
	{
		orderItem.POST("/create/", orderHandler.CreateItem)
		orderItem.GET("/list/", orderHandler.ListItems)
		orderItem.GET("/detail/:id/", orderHandler.ItemDetail)
		orderItem.PUT("/update/:id/", orderHandler.UpdateItem)
		orderItem.PATCH("/update/:id/", orderHandler.UpdateItem)
		orderItem.DELETE("/delete/:id/", orderHandler.DeleteItem)
	}

	// Daraja: push needs auth, callback comes from the gateway
	daraja := api.Group("/daraja")
	{
		daraja.POST("/stk-push/", authRequired, paymentHandler.STKPush)
		daraja.GET("/callback/", paymentHandler.Callback)
		daraja.POST("/callback/", paymentHandler.Callback)
	}
}
