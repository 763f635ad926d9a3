// internal/interfaces/http/handlers/contact_info.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopzone/shopzone-backend/internal/config"
	"github.com/shopzone/shopzone-backend/internal/domain/customer"
	"github.com/shopzone/shopzone-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// ContactInfoHandler handles contact info endpoints
type ContactInfoHandler struct {
	customerService *customer.Service
	config          *config.Config
}

// NewContactInfoHandler creates a new contact info handler
func NewContactInfoHandler(db *gorm.DB, cfg *config.Config) *ContactInfoHandler {
	return &ContactInfoHandler{
		customerService: customer.NewService(db, cfg),
		config:          cfg,
	}
}

// Create handles contact info creation for the authenticated user
func (h *ContactInfoHandler) Create(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	var req customer.ContactInfoCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	info, err := h.customerService.CreateContactInfo(userID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Contact info created successfully",
		"data":    info,
	})
}

// List handles the contact info listing
func (h *ContactInfoHandler) List(c *gin.Context) {
	infos, err := h.customerService.GetContactInfos()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": infos,
	})
}

// Detail handles a single contact info read
func (h *ContactInfoHandler) Detail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid contact info ID",
		})
		return
	}

	info, err := h.customerService.GetContactInfo(uint(id))
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Contact info not found",
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": info,
	})
}

// Update handles partial contact info updates
func (h *ContactInfoHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid contact info ID",
		})
		return
	}

	var req customer.ContactInfoUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	info, err := h.customerService.UpdateContactInfo(uint(id), &req)
	if err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Contact info not found",
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Contact info updated successfully",
		"data":    info,
	})
}

// Delete handles contact info deletion
func (h *ContactInfoHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid contact info ID",
		})
		return
	}

	if err := h.customerService.DeleteContactInfo(uint(id)); err != nil {
		if errors.Is(err, customer.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Contact info not found",
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.Status(http.StatusNoContent)
}
