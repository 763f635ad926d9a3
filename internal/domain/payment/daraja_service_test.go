// internal/domain/payment/daraja_service_test.go
package payment

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/shopzone/shopzone-backend/internal/config"
	"github.com/shopzone/shopzone-backend/internal/domain/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&order.Order{}, &order.OrderItem{}))
	return db
}

func darajaConfig(baseURL string) *config.Config {
	cfg := &config.Config{}
	cfg.Mpesa.BaseURL = baseURL
	cfg.Mpesa.ConsumerKey = "key"
	cfg.Mpesa.ConsumerSecret = "secret"
	cfg.Mpesa.Shortcode = "174379"
	cfg.Mpesa.Passkey = "passkey"
	cfg.Mpesa.CallbackURL = "https://example.com/api/v1/daraja/callback/"
	cfg.Mpesa.Timeout = 5 * time.Second
	return cfg
}

func seedOrder(t *testing.T, db *gorm.DB, total string) *order.Order {
	t.Helper()

	o := order.Order{
		UserID:        1,
		TotalAmount:   decimal.RequireFromString(total),
		Status:        order.StatusProcessing,
		ContactInfoID: 1,
	}
	require.NoError(t, db.Create(&o).Error)
	return &o
}

func TestInitiateSTKPush(t *testing.T) {
	var gotPayload darajaSTKPayload
	var gotAuth string

	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/v1/generate":
			user, pass, ok := r.BasicAuth()
			require.True(t, ok)
			assert.Equal(t, "key", user)
			assert.Equal(t, "secret", pass)
			json.NewEncoder(w).Encode(map[string]string{
				"access_token": "token-123",
				"expires_in":   "3599",
			})
		case "/mpesa/stkpush/v1/processrequest":
			gotAuth = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
			json.NewEncoder(w).Encode(STKPushResponse{
				MerchantRequestID:   "merchant-1",
				CheckoutRequestID:   "checkout-1",
				ResponseCode:        "0",
				ResponseDescription: "Success",
				CustomerMessage:     "Success",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer gateway.Close()

	db := setupTestDB(t)
	svc := NewDarajaService(db, darajaConfig(gateway.URL))
	o := seedOrder(t, db, "149.50")

	resp, err := svc.InitiateSTKPush(&STKPushRequest{OrderID: o.ID, Phone: "0712345678"})
	require.NoError(t, err)

	assert.Equal(t, "merchant-1", resp.MerchantRequestID)
	assert.Equal(t, "Bearer token-123", gotAuth)
	assert.Equal(t, "174379", gotPayload.BusinessShortCode)
	assert.Equal(t, "CustomerPayBillOnline", gotPayload.TransactionType)
	// Whole shillings, rounded up; phone in 2547XXXXXXXX form
	assert.Equal(t, "150", gotPayload.Amount)
	assert.Equal(t, "254712345678", gotPayload.PartyA)
	assert.Equal(t, "254712345678", gotPayload.PhoneNumber)
	assert.NotEmpty(t, gotPayload.Password)
	assert.NotEmpty(t, gotPayload.Timestamp)
}

func TestInitiateSTKPushGatewayRejection(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/v1/generate" {
			json.NewEncoder(w).Encode(map[string]string{"access_token": "token-123"})
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errorMessage":"Invalid Amount"}`))
	}))
	defer gateway.Close()

	db := setupTestDB(t)
	svc := NewDarajaService(db, darajaConfig(gateway.URL))
	o := seedOrder(t, db, "10.00")

	_, err := svc.InitiateSTKPush(&STKPushRequest{OrderID: o.ID, Phone: "254712345678"})
	assert.Error(t, err)
}

func TestInitiateSTKPushUnknownOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDarajaService(db, darajaConfig("http://unused.invalid"))

	_, err := svc.InitiateSTKPush(&STKPushRequest{OrderID: 999, Phone: "254712345678"})
	assert.ErrorIs(t, err, order.ErrNotFound)
}

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"0712345678":     "254712345678",
		"+254712345678":  "254712345678",
		"254712345678":   "254712345678",
		" 254712345678 ": "254712345678",
	}
	for input, want := range cases {
		got, err := normalizePhone(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, got)
	}

	for _, bad := range []string{"", "12345", "07123456789012", "2547abc45678"} {
		_, err := normalizePhone(bad)
		assert.Error(t, err, "input %q", bad)
	}
}
