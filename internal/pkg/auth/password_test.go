// internal/pkg/auth/password_test.go
package auth

import (
	"testing"

	"github.com/shopzone/shopzone-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	cfg := &config.Config{}
	cfg.Security.BcryptCost = bcrypt.MinCost
	manager := NewPasswordManager(cfg)

	hash, err := manager.HashPassword("s3cret-password")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-password", hash)

	assert.NoError(t, manager.VerifyPassword("s3cret-password", hash))
	assert.Error(t, manager.VerifyPassword("wrong-password", hash))
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	manager := NewPasswordManager(&config.Config{})

	_, err := manager.HashPassword("")
	assert.Error(t, err)
}

func TestCostIsClampedToBcryptBounds(t *testing.T) {
	cfg := &config.Config{}
	cfg.Security.BcryptCost = 99
	manager := NewPasswordManager(cfg)

	hash, err := manager.HashPassword("pw")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
