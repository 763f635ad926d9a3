// internal/domain/user/service.go
package user

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopzone/shopzone-backend/internal/config"
	"github.com/shopzone/shopzone-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned on a failed login attempt
var ErrInvalidCredentials = errors.New("invalid email or password")

// Service handles account business logic
type Service struct {
	db              *gorm.DB
	config          *config.Config
	passwordManager *auth.PasswordManager
	jwtManager      *auth.JWTManager
}

// NewService creates a new account service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:              db,
		config:          cfg,
		passwordManager: auth.NewPasswordManager(cfg),
		jwtManager:      auth.NewJWTManager(cfg),
	}
}

// RegisterRequest represents registration data for admins and customers
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest represents login data
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the signed token pair issued on login/refresh
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
	ExpiresIn    int64  `json:"expires_in"`
}

// RegisterAdmin creates a staff account with catalog write access
func (s *Service) RegisterAdmin(req *RegisterRequest) (*User, error) {
	return s.register(req, true)
}

// RegisterCustomer creates a regular customer account
func (s *Service) RegisterCustomer(req *RegisterRequest) (*User, error) {
	return s.register(req, false)
}

func (s *Service) register(req *RegisterRequest, isAdmin bool) (*User, error) {
	var existing User
	result := s.db.Where("email = ?", req.Email).First(&existing)
	if result.Error == nil {
		return nil, fmt.Errorf("user with this email already exists")
	}

	hashed, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := User{
		Username: req.Username,
		Email:    req.Email,
		Password: hashed,
		IsActive: true,
		IsAdmin:  isAdmin,
	}
	if err := s.db.Create(&account).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	account.Password = ""
	return &account, nil
}

// Login authenticates a user and issues an access/refresh token pair
func (s *Service) Login(req *LoginRequest) (*AuthResponse, error) {
	var account User
	result := s.db.Where("email = ? AND is_active = ?", req.Email, true).First(&account)
	if result.Error != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.passwordManager.VerifyPassword(req.Password, account.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(account.ID, account.Email, account.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(account.ID, account.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	now := time.Now().UTC()
	account.LastLoginAt = &now
	s.db.Save(&account)

	account.Password = ""
	return &AuthResponse{
		User:         &account,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}

// RefreshToken exchanges a valid refresh token for a new token pair
func (s *Service) RefreshToken(refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	var account User
	result := s.db.Where("id = ? AND is_active = ?", claims.UserID, true).First(&account)
	if result.Error != nil {
		return nil, fmt.Errorf("user not found or inactive")
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(account.ID, account.Email, account.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	newRefreshToken := refreshToken
	if s.config.JWT.RefreshTokenRotation {
		newRefreshToken, err = s.jwtManager.GenerateRefreshToken(account.ID, account.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to generate refresh token: %w", err)
		}
	}

	account.Password = ""
	return &AuthResponse{
		User:         &account,
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresIn:    int64(s.config.JWT.AccessTokenExpiry.Seconds()),
	}, nil
}

// GetUser retrieves a user by ID
func (s *Service) GetUser(id uint) (*User, error) {
	var account User
	result := s.db.First(&account, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", result.Error)
	}
	account.Password = ""
	return &account, nil
}
