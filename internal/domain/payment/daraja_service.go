// internal/domain/payment/daraja_service.go
package payment

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopzone/shopzone-backend/internal/config"
	"github.com/shopzone/shopzone-backend/internal/domain/order"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DarajaService handles M-Pesa payment processing through the Daraja API
type DarajaService struct {
	db         *gorm.DB
	config     *config.Config
	baseURL    string
	httpClient *http.Client
}

// NewDarajaService creates a new Daraja service
func NewDarajaService(db *gorm.DB, cfg *config.Config) *DarajaService {
	return &DarajaService{
		db:      db,
		config:  cfg,
		baseURL: cfg.Mpesa.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Mpesa.Timeout,
		},
	}
}

// InitiateSTKPush triggers an M-Pesa STK push for an order. The order is
// only read; failure here never mutates order or cart state.
func (d *DarajaService) InitiateSTKPush(req *STKPushRequest) (*STKPushResponse, error) {
	phone, err := normalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}

	var o order.Order
	if err := d.db.First(&o, req.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}

	token, err := d.fetchAccessToken()
	if err != nil {
		return nil, err
	}

	timestamp := time.Now().Format("20060102150405")
	password := base64.StdEncoding.EncodeToString(
		[]byte(d.config.Mpesa.Shortcode + d.config.Mpesa.Passkey + timestamp))

	// Daraja only takes whole shillings
	amount := o.TotalAmount.Ceil().String()

	payload := darajaSTKPayload{
		BusinessShortCode: d.config.Mpesa.Shortcode,
		Password:          password,
		Timestamp:         timestamp,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            amount,
		PartyA:            phone,
		PartyB:            d.config.Mpesa.Shortcode,
		PhoneNumber:       phone,
		CallBackURL:       d.config.Mpesa.CallbackURL,
		AccountReference:  fmt.Sprintf("ORDER-%d", o.ID),
		TransactionDesc:   fmt.Sprintf("Payment for order %d", o.ID),
	}

	correlationID := uuid.New().String()
	logrus.WithFields(logrus.Fields{
		"correlation_id": correlationID,
		"order_id":       o.ID,
		"amount":         amount,
	}).Info("Initiating STK push")

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal STK push payload: %w", err)
	}

	httpReq, err := http.NewRequest(http.MethodPost,
		d.baseURL+"/mpesa/stkpush/v1/processrequest", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := d.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to reach Daraja: %w", err)
	}
	defer resp.Body.Close()

	var respBody bytes.Buffer
	if _, err := respBody.ReadFrom(resp.Body); err != nil {
		return nil, fmt.Errorf("failed to read Daraja response: %w", err)
	}

	if resp.StatusCode >= 400 {
		logrus.WithFields(logrus.Fields{
			"correlation_id": correlationID,
			"status":         resp.StatusCode,
		}).Warn("STK push rejected")
		return nil, fmt.Errorf("STK push failed with status %d: %s", resp.StatusCode, respBody.String())
	}

	var pushResp STKPushResponse
	if err := json.Unmarshal(respBody.Bytes(), &pushResp); err != nil {
		return nil, fmt.Errorf("failed to parse STK push response: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"correlation_id":      correlationID,
		"merchant_request_id": pushResp.MerchantRequestID,
	}).Info("STK push accepted")
	return &pushResp, nil
}

// fetchAccessToken retrieves an OAuth token from Daraja using the
// consumer key and secret as basic auth credentials
func (d *DarajaService) fetchAccessToken() (string, error) {
	req, err := http.NewRequest(http.MethodGet,
		d.baseURL+"/oauth/v1/generate?grant_type=client_credentials", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(d.config.Mpesa.ConsumerKey, d.config.Mpesa.ConsumerSecret)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch Daraja token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("Daraja token request failed with status %d", resp.StatusCode)
	}

	var tokenResp darajaTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to parse Daraja token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("Daraja returned an empty access token")
	}
	return tokenResp.AccessToken, nil
}

// HandleCallback accepts a gateway callback payload and logs it. The
// gateway only needs an acknowledgement, so the payload is not acted on.
func (d *DarajaService) HandleCallback(payload map[string]interface{}) {
	logrus.WithField("payload", payload).Info("Received Daraja callback")
}

// normalizePhone converts a Kenyan phone number to the 2547XXXXXXXX
// format Daraja requires
func normalizePhone(phone string) (string, error) {
	p := strings.TrimSpace(phone)
	p = strings.TrimPrefix(p, "+")
	if strings.HasPrefix(p, "0") {
		p = "254" + p[1:]
	}
	if len(p) != 12 || !strings.HasPrefix(p, "254") {
		return "", fmt.Errorf("invalid phone number '%s': expected format 2547XXXXXXXX", phone)
	}
	for _, c := range p {
		if c < '0' || c > '9' {
			return "", fmt.Errorf("invalid phone number '%s': digits only", phone)
		}
	}
	return p, nil
}
