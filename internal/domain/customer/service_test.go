// internal/domain/customer/service_test.go
package customer

import (
	"fmt"
	"testing"

	"github.com/shopzone/shopzone-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&ContactInfo{}, &Profile{}))
	return NewService(db, &config.Config{})
}

func TestCreateContactInfoOnePerUser(t *testing.T) {
	svc := newTestService(t)

	info, err := svc.CreateContactInfo(1, &ContactInfoCreateRequest{
		Email: "buyer@example.com",
		Phone: "254712345678",
	})
	require.NoError(t, err)
	assert.NotZero(t, info.ID)

	_, err = svc.CreateContactInfo(1, &ContactInfoCreateRequest{Email: "other@example.com"})
	assert.Error(t, err)

	// A different user is fine
	_, err = svc.CreateContactInfo(2, &ContactInfoCreateRequest{Email: "second@example.com"})
	assert.NoError(t, err)
}

func TestUpdateContactInfoMergePatch(t *testing.T) {
	svc := newTestService(t)

	info, err := svc.CreateContactInfo(1, &ContactInfoCreateRequest{
		Email: "buyer@example.com",
		Phone: "254712345678",
	})
	require.NoError(t, err)

	newPhone := "254700000000"
	updated, err := svc.UpdateContactInfo(info.ID, &ContactInfoUpdateRequest{Phone: &newPhone})
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", updated.Email)
	assert.Equal(t, newPhone, updated.Phone)
}

func TestGetContactInfoForUserFallsBackToDirectRow(t *testing.T) {
	svc := newTestService(t)

	// No profile, direct row only
	direct, err := svc.CreateContactInfo(1, &ContactInfoCreateRequest{Email: "direct@example.com"})
	require.NoError(t, err)

	found, err := svc.GetContactInfoForUser(1)
	require.NoError(t, err)
	assert.Equal(t, direct.ID, found.ID)

	_, err = svc.GetContactInfoForUser(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetContactInfoForUserPrefersProfileLink(t *testing.T) {
	svc := newTestService(t)

	linked, err := svc.CreateContactInfo(1, &ContactInfoCreateRequest{Email: "linked@example.com"})
	require.NoError(t, err)

	_, err = svc.CreateProfile(1, &ProfileCreateRequest{ContactInfoID: &linked.ID})
	require.NoError(t, err)

	found, err := svc.GetContactInfoForUser(1)
	require.NoError(t, err)
	assert.Equal(t, linked.ID, found.ID)
}

func TestCreateProfileValidatesContactInfo(t *testing.T) {
	svc := newTestService(t)

	missing := uint(999)
	_, err := svc.CreateProfile(1, &ProfileCreateRequest{ContactInfoID: &missing})
	assert.Error(t, err)

	// Profile without a contact link is allowed
	profile, err := svc.CreateProfile(1, &ProfileCreateRequest{})
	require.NoError(t, err)
	assert.Nil(t, profile.ContactInfoID)

	// One profile per user
	_, err = svc.CreateProfile(1, &ProfileCreateRequest{})
	assert.Error(t, err)
}

func TestDeleteContactInfo(t *testing.T) {
	svc := newTestService(t)

	info, err := svc.CreateContactInfo(1, &ContactInfoCreateRequest{Email: "buyer@example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteContactInfo(info.ID))
	assert.ErrorIs(t, svc.DeleteContactInfo(info.ID), ErrNotFound)
}
