package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"backend/pkg/apperr"
)

// Client abstracts the payment gateway so services and tests can swap the
// Paystack implementation for a fake.
type Client interface {
	// Initialize creates a payment on the gateway and returns the redirect URL
	// plus the gateway-assigned unique reference. amountMinor is in minor
	// currency units (pesewas/cents).
	Initialize(ctx context.Context, email string, amountMinor int64, currency string) (*InitializeResult, error)
	// Verify checks the payment status for a reference after the gateway
	// redirect or callback.
	Verify(ctx context.Context, reference string) (*VerifyResult, error)
}

type InitializeResult struct {
	PaymentURL string
	Reference  string
}

// VerifyResult carries the verification payload. Amounts are in minor units as
// reported by the gateway; callers convert back to major units.
type VerifyResult struct {
	Status            string
	AmountMinor       int64
	Currency          string
	PaidAt            time.Time
	ReceiptNumber     string
	GatewayResponse   string
	AuthorizationCode string
	FeesMinor         int64
	BankName          string
	CustomerEmail     string
	CustomerPhone     string
	Channel           string
	RawPayload        []byte
}

// Success reports whether the gateway confirmed the payment.
func (r *VerifyResult) Success() bool {
	return r.Status == "success"
}

// Config holds the Paystack settings, passed in explicitly at construction
// instead of being read from the environment inside the client.
type Config struct {
	BaseURL     string // e.g. https://api.paystack.co
	SecretKey   string
	CallbackURL string // where the gateway redirects the payer after checkout
	Timeout     time.Duration
}

type paystackClient struct {
	cfg  Config
	http *http.Client
}

// NewPaystackClient returns a Client backed by the Paystack REST API with a
// bounded request timeout.
func NewPaystackClient(cfg Config) Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.paystack.co"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &paystackClient{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type initializeRequest struct {
	Email       string `json:"email"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	CallbackURL string `json:"callback_url"`
}

type initializeResponse struct {
	Status bool `json:"status"`
	Data   struct {
		AuthorizationURL string `json:"authorization_url"`
		Reference        string `json:"reference"`
	} `json:"data"`
	Message string `json:"message"`
}

func (c *paystackClient) Initialize(ctx context.Context, email string, amountMinor int64, currency string) (*InitializeResult, error) {
	body, err := json.Marshal(initializeRequest{
		Email:       email,
		Amount:      amountMinor,
		Currency:    currency,
		CallbackURL: c.cfg.CallbackURL,
	})
	if err != nil {
		return nil, apperr.Gateway(err, "failed to encode initialize request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, apperr.Gateway(err, "failed to build initialize request")
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperr.Gateway(err, "payment initialization call failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Gateway(err, "failed to read initialize response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.Gateway(fmt.Errorf("gateway returned HTTP %d", resp.StatusCode), "payment initialization failed")
	}

	var parsed initializeResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, apperr.Gateway(err, "malformed initialize response")
	}
	if !parsed.Status || parsed.Data.AuthorizationURL == "" || parsed.Data.Reference == "" {
		return nil, apperr.Gateway(fmt.Errorf("gateway rejected request: %s", parsed.Message), "payment initialization failed")
	}

	return &InitializeResult{
		PaymentURL: parsed.Data.AuthorizationURL,
		Reference:  parsed.Data.Reference,
	}, nil
}

type verifyResponse struct {
	Status bool `json:"status"`
	Data   struct {
		Status          string `json:"status"`
		Amount          int64  `json:"amount"`
		Currency        string `json:"currency"`
		PaidAt          string `json:"paid_at"`
		ReceiptNumber   string `json:"receipt_number"`
		GatewayResponse string `json:"gateway_response"`
		Channel         string `json:"channel"`
		Fees            int64  `json:"fees"`
		Authorization   struct {
			AuthorizationCode string `json:"authorization_code"`
			Bank              string `json:"bank"`
		} `json:"authorization"`
		Customer struct {
			Email string `json:"email"`
			Phone string `json:"phone"`
		} `json:"customer"`
	} `json:"data"`
	Message string `json:"message"`
}

func (c *paystackClient) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, apperr.Gateway(err, "failed to build verify request")
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperr.Gateway(err, "payment verification call failed for reference %s", reference)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Gateway(err, "failed to read verify response for reference %s", reference)
	}

	var parsed verifyResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, apperr.Gateway(err, "malformed verify response for reference %s", reference)
	}

	if resp.StatusCode != http.StatusOK || !parsed.Status {
		return nil, apperr.Verification("payment verification failed for reference %s", reference)
	}

	// paid_at is RFC3339; a missing value leaves the zero time and the service
	// falls back to its own clock.
	paidAt, _ := time.Parse(time.RFC3339, parsed.Data.PaidAt)

	return &VerifyResult{
		Status:            parsed.Data.Status,
		AmountMinor:       parsed.Data.Amount,
		Currency:          parsed.Data.Currency,
		PaidAt:            paidAt,
		ReceiptNumber:     parsed.Data.ReceiptNumber,
		GatewayResponse:   parsed.Data.GatewayResponse,
		AuthorizationCode: parsed.Data.Authorization.AuthorizationCode,
		FeesMinor:         parsed.Data.Fees,
		BankName:          parsed.Data.Authorization.Bank,
		CustomerEmail:     parsed.Data.Customer.Email,
		CustomerPhone:     parsed.Data.Customer.Phone,
		Channel:           parsed.Data.Channel,
		RawPayload:        raw,
	}, nil
}
