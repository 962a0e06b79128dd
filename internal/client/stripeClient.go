package client

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"food-ordering-api/internal/config"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentIntent struct {
	ID           string
	ClientSecret string
	Status       string
}

type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, currency string, orderID uint) (*PaymentIntent, error)
	VerifyWebhookSignature(signatureHeader string, payload []byte) error
}

type stripeClientImpl struct {
	httpClient    *http.Client
	baseApiURL    string
	secretKey     string
	webhookSecret string
	tolerance     time.Duration
	now           func() time.Time
}

func NewStripeClient(stripeCfg *config.Stripe) PaymentGateway {
	return &stripeClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL:    stripeCfg.BaseApiURL,
		secretKey:     stripeCfg.SecretKey,
		webhookSecret: stripeCfg.WebhookSecret,
		tolerance:     5 * time.Minute,
		now:           time.Now,
	}
}

func (c *stripeClientImpl) CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, currency string, orderID uint) (*PaymentIntent, error) {
	// Stripe amounts are integer minor units.
	minorUnits := amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(minorUnits, 10))
	form.Set("currency", currency)
	form.Set("metadata[order_id]", strconv.FormatUint(uint64(orderID), 10))
	form.Set("automatic_payment_methods[enabled]", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+"/v1/payment_intents",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("stripe create payment intent: status %d: %s", resp.StatusCode, string(body))
	}

	var res struct {
		ID           string `json:"id"`
		ClientSecret string `json:"client_secret"`
		Status       string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("decode payment intent response: %w", err)
	}

	return &PaymentIntent{
		ID:           res.ID,
		ClientSecret: res.ClientSecret,
		Status:       res.Status,
	}, nil
}

// VerifyWebhookSignature checks the Stripe-Signature header against the raw
// payload: HMAC-SHA256 over "<timestamp>.<payload>" with the endpoint
// secret, plus a replay-window check on the timestamp.
func (c *stripeClientImpl) VerifyWebhookSignature(signatureHeader string, payload []byte) error {
	if signatureHeader == "" {
		return fmt.Errorf("missing signature header")
	}

	var timestamp string
	var signatures []string
	for _, element := range strings.Split(signatureHeader, ",") {
		parts := strings.SplitN(strings.TrimSpace(element), "=", 2)
		if len(parts) != 2 {
			continue
		}
		switch parts[0] {
		case "t":
			timestamp = parts[1]
		case "v1":
			signatures = append(signatures, parts[1])
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return fmt.Errorf("malformed signature header")
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("malformed signature timestamp")
	}
	age := c.now().Sub(time.Unix(ts, 0))
	if age > c.tolerance || age < -c.tolerance {
		return fmt.Errorf("signature timestamp outside tolerance")
	}

	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, signature := range signatures {
		if hmac.Equal([]byte(expected), []byte(signature)) {
			return nil
		}
	}
	return fmt.Errorf("no matching signature")
}
