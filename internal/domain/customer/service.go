// internal/domain/customer/service.go
package customer

import (
	"errors"
	"fmt"

	"github.com/shopzone/shopzone-backend/internal/config"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a contact info or profile does not exist
var ErrNotFound = errors.New("contact info not found")

// Service handles contact info and profile business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new customer service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ContactInfoCreateRequest represents contact info creation data
type ContactInfoCreateRequest struct {
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone"`
}

// ContactInfoUpdateRequest represents a partial contact info update
type ContactInfoUpdateRequest struct {
	Email *string `json:"email" binding:"omitempty,email"`
	Phone *string `json:"phone"`
}

// ProfileCreateRequest represents profile creation data
type ProfileCreateRequest struct {
	ContactInfoID *uint `json:"contact_info_id"`
}

// ProfileUpdateRequest represents a partial profile update
type ProfileUpdateRequest struct {
	ContactInfoID *uint `json:"contact_info_id"`
}

// CreateContactInfo creates a user's contact info; at most one per user
func (s *Service) CreateContactInfo(userID uint, req *ContactInfoCreateRequest) (*ContactInfo, error) {
	var existing ContactInfo
	result := s.db.Where("user_id = ?", userID).First(&existing)
	if result.Error == nil {
		return nil, fmt.Errorf("contact info already exists for this user")
	}

	info := ContactInfo{
		UserID: userID,
		Email:  req.Email,
		Phone:  req.Phone,
	}
	if err := s.db.Create(&info).Error; err != nil {
		return nil, fmt.Errorf("failed to create contact info: %w", err)
	}
	return &info, nil
}

// GetContactInfos retrieves all contact infos
func (s *Service) GetContactInfos() ([]ContactInfo, error) {
	var infos []ContactInfo
	if err := s.db.Order("id ASC").Find(&infos).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve contact infos: %w", err)
	}
	return infos, nil
}

// GetContactInfo retrieves a single contact info by ID
func (s *Service) GetContactInfo(id uint) (*ContactInfo, error) {
	var info ContactInfo
	result := s.db.First(&info, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve contact info: %w", result.Error)
	}
	return &info, nil
}

// GetContactInfoForUser retrieves the contact info saved for a user, going
// through the profile link first and falling back to the direct row.
func (s *Service) GetContactInfoForUser(userID uint) (*ContactInfo, error) {
	var profile Profile
	result := s.db.Preload("ContactInfo").Where("user_id = ?", userID).First(&profile)
	if result.Error == nil && profile.ContactInfo != nil {
		return profile.ContactInfo, nil
	}

	var info ContactInfo
	result = s.db.Where("user_id = ?", userID).First(&info)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve contact info: %w", result.Error)
	}
	return &info, nil
}

// UpdateContactInfo applies a merge-patch update to a contact info
func (s *Service) UpdateContactInfo(id uint, req *ContactInfoUpdateRequest) (*ContactInfo, error) {
	info, err := s.GetContactInfo(id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		info.Email = *req.Email
	}
	if req.Phone != nil {
		info.Phone = *req.Phone
	}

	if err := s.db.Save(info).Error; err != nil {
		return nil, fmt.Errorf("failed to update contact info: %w", err)
	}
	return info, nil
}

// DeleteContactInfo removes a contact info
func (s *Service) DeleteContactInfo(id uint) error {
	result := s.db.Delete(&ContactInfo{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete contact info: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateProfile creates a user's profile; at most one per user
func (s *Service) CreateProfile(userID uint, req *ProfileCreateRequest) (*Profile, error) {
	var existing Profile
	result := s.db.Where("user_id = ?", userID).First(&existing)
	if result.Error == nil {
		return nil, fmt.Errorf("profile already exists for this user")
	}

	if req.ContactInfoID != nil {
		if _, err := s.GetContactInfo(*req.ContactInfoID); err != nil {
			return nil, fmt.Errorf("contact info %d does not exist", *req.ContactInfoID)
		}
	}

	profile := Profile{
		UserID:        userID,
		ContactInfoID: req.ContactInfoID,
	}
	if err := s.db.Create(&profile).Error; err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return &profile, nil
}

// GetProfiles retrieves all profiles
func (s *Service) GetProfiles() ([]Profile, error) {
	var profiles []Profile
	if err := s.db.Preload("ContactInfo").Order("id ASC").Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve profiles: %w", err)
	}
	return profiles, nil
}

// GetProfile retrieves a single profile by ID
func (s *Service) GetProfile(id uint) (*Profile, error) {
	var profile Profile
	result := s.db.Preload("ContactInfo").First(&profile, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve profile: %w", result.Error)
	}
	return &profile, nil
}

// UpdateProfile applies a merge-patch update to a profile
func (s *Service) UpdateProfile(id uint, req *ProfileUpdateRequest) (*Profile, error) {
	profile, err := s.GetProfile(id)
	if err != nil {
		return nil, err
	}

	if req.ContactInfoID != nil {
		if _, err := s.GetContactInfo(*req.ContactInfoID); err != nil {
			return nil, fmt.Errorf("contact info %d does not exist", *req.ContactInfoID)
		}
		profile.ContactInfoID = req.ContactInfoID
	}

	if err := s.db.Save(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

// DeleteProfile removes a profile
func (s *Service) DeleteProfile(id uint) error {
	result := s.db.Delete(&Profile{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
