// internal/domain/user/service_test.go
package user

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopzone/shopzone-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "shopzone-test"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.AccessTokenExpiry = 15 * time.Minute
	cfg.JWT.RefreshTokenExpiry = 24 * time.Hour
	cfg.Security.BcryptCost = bcrypt.MinCost
	return cfg
}

func newTestService(t *testing.T) *Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}))
	return NewService(db, testConfig())
}

func TestRegisterCustomerAndAdmin(t *testing.T) {
	svc := newTestService(t)

	cust, err := svc.RegisterCustomer(&RegisterRequest{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.False(t, cust.IsAdmin)
	assert.True(t, cust.IsActive)
	// Email lowercased on create, hash never leaks
	assert.Equal(t, "alice@example.com", cust.Email)
	assert.Empty(t, cust.Password)

	admin, err := svc.RegisterAdmin(&RegisterRequest{
		Username: "root",
		Email:    "admin@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.RegisterCustomer(&RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.RegisterCustomer(&RegisterRequest{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "password123",
	})
	assert.Error(t, err)
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.RegisterCustomer(&RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	response, err := svc.Login(&LoginRequest{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, response.AccessToken)
	assert.NotEmpty(t, response.RefreshToken)
	assert.NotEqual(t, response.AccessToken, response.RefreshToken)
	assert.EqualValues(t, 15*60, response.ExpiresIn)
	assert.Empty(t, response.User.Password)
	assert.NotNil(t, response.User.LastLoginAt)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.RegisterCustomer(&RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.Login(&LoginRequest{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(&LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshTokenExchange(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.RegisterCustomer(&RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	login, err := svc.Login(&LoginRequest{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	// An access token is not accepted as a refresh token
	_, err = svc.RefreshToken(login.AccessToken)
	assert.Error(t, err)
}
