// internal/interfaces/http/handlers/payment.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopzone/shopzone-backend/internal/config"
	"github.com/shopzone/shopzone-backend/internal/domain/order"
	"github.com/shopzone/shopzone-backend/internal/domain/payment"
	"gorm.io/gorm"
)

// PaymentHandler handles M-Pesa payment endpoints
type PaymentHandler struct {
	darajaService *payment.DarajaService
	config        *config.Config
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(db *gorm.DB, cfg *config.Config) *PaymentHandler {
	return &PaymentHandler{
		darajaService: payment.NewDarajaService(db, cfg),
		config:        cfg,
	}
}

// STKPush triggers an M-Pesa STK push for an order
func (h *PaymentHandler) STKPush(c *gin.Context) {
	var req payment.STKPushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	response, err := h.darajaService.InitiateSTKPush(&req)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "STK push initiated",
		"data":    response,
	})
}

// Callback acknowledges the gateway's payment result notification
func (h *PaymentHandler) Callback(c *gin.Context) {
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err == nil {
		h.darajaService.HandleCallback(payload)
	}

	c.String(http.StatusOK, "Callback received")
}
