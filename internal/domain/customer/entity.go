// internal/domain/customer/entity.go
package customer

import (
	"time"

	"gorm.io/gorm"
)

// ContactInfo holds a user's shipping contact details. One row per user.
type ContactInfo struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;uniqueIndex" json:"user_id"`
	Email     string         `gorm:"size:255" json:"email,omitempty"`
	Phone     string         `gorm:"size:20" json:"phone,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Profile links a user to their saved contact info
type Profile struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UserID        uint           `gorm:"not null;uniqueIndex" json:"user_id"`
	ContactInfoID *uint          `gorm:"index" json:"contact_info_id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	ContactInfo *ContactInfo `gorm:"foreignKey:ContactInfoID" json:"contact_info,omitempty"`
}

// TableName overrides
func (ContactInfo) TableName() string { return "contact_infos" }
func (Profile) TableName() string     { return "profiles" }
