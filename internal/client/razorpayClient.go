package client

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"surplus-marketplace/internal/config"
)

// PaymentClient is the boundary to the payment gateway. RegisterOrder opens
// a gateway order for the given amount in minor currency units; the returned
// id is what the buyer's checkout widget pays against. VerifySignature checks
// the gateway's HMAC over "<gatewayOrderID>|<gatewayPaymentID>".
type PaymentClient interface {
	RegisterOrder(ctx context.Context, amountMinorUnits int64, currency, receipt string) (string, error)
	VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool
	KeyID() string
}

type razorpayClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	keyID      string
	keySecret  string
}

// NewRazorpayClient returns nil when no key id is configured; callers treat a
// nil client as "payment gateway unavailable".
func NewRazorpayClient(cfg *config.Razorpay) PaymentClient {
	if cfg.KeyID == "" {
		return nil
	}
	return &razorpayClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL: cfg.BaseApiURL,
		keyID:      cfg.KeyID,
		keySecret:  cfg.KeySecret,
	}
}

type razorpayOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type razorpayOrderResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (c *razorpayClientImpl) RegisterOrder(ctx context.Context, amountMinorUnits int64, currency, receipt string) (string, error) {
	body, err := json.Marshal(razorpayOrderRequest{
		Amount:   amountMinorUnits,
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		return "", fmt.Errorf("marshal order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("http new request: %w", err)
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gateway order creation failed: status %d", resp.StatusCode)
	}

	var res razorpayOrderResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", fmt.Errorf("decode order response: %w", err)
	}
	if res.ID == "" {
		return "", fmt.Errorf("gateway order creation failed: empty order id")
	}

	return res.ID, nil
}

func (c *razorpayClientImpl) VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	return SignPayment(c.keySecret, gatewayOrderID, gatewayPaymentID) == signature
}

func (c *razorpayClientImpl) KeyID() string {
	return c.keyID
}

// SignPayment computes the hex HMAC-SHA256 the gateway attaches to a
// completed payment: the key is the shared secret, the message is
// "<gatewayOrderID>|<gatewayPaymentID>".
func SignPayment(secret, gatewayOrderID, gatewayPaymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
