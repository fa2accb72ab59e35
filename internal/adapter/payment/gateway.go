package payment

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

	"github.com/rl1809/commerce-core/internal/core/domain"
)

// Client talks to the external payment gateway for intent creation and
// verifies payment signatures locally with the shared secret.
type Client struct {
	baseURL string
	keyID   string
	secret  string
	http    *http.Client
}

func NewClient(baseURL, keyID, secret string) *Client {
	return &Client{
		baseURL: baseURL,
		keyID:   keyID,
		secret:  secret,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) CreateIntent(ctx context.Context, amount int64, currency string) (domain.PaymentIntent, error) {
	body, err := json.Marshal(map[string]any{
		"amount":   amount,
		"currency": currency,
	})
	if err != nil {
		return domain.PaymentIntent{}, fmt.Errorf("marshal intent request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/intents", bytes.NewReader(body))
	if err != nil {
		return domain.PaymentIntent{}, fmt.Errorf("build intent request: %w", err)
	}
	req.SetBasicAuth(c.keyID, c.secret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.PaymentIntent{}, fmt.Errorf("intent request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return domain.PaymentIntent{}, fmt.Errorf("intent request: gateway returned %d", resp.StatusCode)
	}

	var intent domain.PaymentIntent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return domain.PaymentIntent{}, fmt.Errorf("decode intent response: %w", err)
	}
	return intent, nil
}

// VerifySignature recomputes HMAC-SHA256 over "intentID|paymentRef" with the
// shared secret, hex-encoded, and compares in constant time. The expected
// value never leaves this function.
func (c *Client) VerifySignature(intentID, paymentRef, signature string) bool {
	return hmac.Equal([]byte(Sign(c.secret, intentID, paymentRef)), []byte(signature))
}

// Sign computes the signature the gateway attaches to a completed payment.
// Exposed so tests and harnesses can produce valid checkout requests.
func Sign(secret, intentID, paymentRef string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(intentID + "|" + paymentRef))
	return hex.EncodeToString(mac.Sum(nil))
}
