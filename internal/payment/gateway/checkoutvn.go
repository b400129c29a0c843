package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tranqv/shopcore/internal/config"
	"github.com/tranqv/shopcore/pkg/breaker"
	"github.com/tranqv/shopcore/pkg/logger"
)

// ErrCallbackNotVerified is returned when a Checkout.vn callback arrives and
// unverified callbacks are not explicitly allowed
var ErrCallbackNotVerified = fmt.Errorf("checkoutvn callback could not be verified")

// CheckoutVN creates hosted payment sessions against the Checkout.vn API
type CheckoutVN struct {
	cfg     config.CheckoutVNConfig
	client  *http.Client
	breaker *breaker.CircuitBreaker
}

// NewCheckoutVN creates a Checkout.vn adapter with a bounded HTTP client
func NewCheckoutVN(cfg config.CheckoutVNConfig) *CheckoutVN {
	return &CheckoutVN{
		cfg:     cfg,
		client:  &http.Client{Timeout: 10 * time.Second},
		breaker: breaker.New("checkoutvn", 5, 30*time.Second),
	}
}

type checkoutSessionRequest struct {
	MerchantID  string `json:"merchant_id"`
	OrderCode   string `json:"order_code"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	ReturnURL   string `json:"return_url,omitempty"`
}

type checkoutSessionResponse struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
	Message     string `json:"message"`
}

// CreateSession opens a hosted checkout session and returns the redirect URL.
// The call goes through the circuit breaker and retries once on transient
// failure.
func (g *CheckoutVN) CreateSession(ctx context.Context, orderCode string, amountMinor int64) (*Session, error) {
	if g.cfg.MerchantID == "" || g.cfg.APIKey == "" {
		return nil, fmt.Errorf("checkoutvn credentials are not configured")
	}

	body, err := json.Marshal(checkoutSessionRequest{
		MerchantID:  g.cfg.MerchantID,
		OrderCode:   orderCode,
		Amount:      amountMinor,
		Currency:    "VND",
		Description: fmt.Sprintf("Thanh toan don hang %s", orderCode),
	})
	if err != nil {
		return nil, err
	}

	var resp *checkoutSessionResponse
	err = g.breaker.Call(func() error {
		var callErr error
		resp, callErr = g.postSession(ctx, body)
		if callErr != nil {
			// one retry for transient network failures
			logger.Warn(ctx).Err(callErr).Msg("checkoutvn session call failed, retrying once")
			resp, callErr = g.postSession(ctx, body)
		}
		return callErr
	})
	if err != nil {
		return nil, fmt.Errorf("create checkoutvn session: %w", err)
	}

	return &Session{URL: resp.CheckoutURL, TxnRef: resp.SessionID}, nil
}

func (g *CheckoutVN) postSession(ctx context.Context, body []byte) (*checkoutSessionResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.SessionURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)

	res, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("checkoutvn returned status %d: %s", res.StatusCode, string(raw))
	}

	var out checkoutSessionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode checkoutvn response: %w", err)
	}
	if out.CheckoutURL == "" || out.SessionID == "" {
		return nil, fmt.Errorf("checkoutvn response missing session fields")
	}
	return &out, nil
}

// VerifyCallback checks a Checkout.vn IPN callback. The provider does not
// document a callback signature scheme, so callbacks cannot be
// cryptographically verified. They are rejected unless the operator has
// explicitly opted in via CHECKOUTVN_INSECURE_SKIP_VERIFY.
func (g *CheckoutVN) VerifyCallback(ctx context.Context, params map[string]string) error {
	if g.cfg.InsecureSkipVerify {
		logger.Warn(ctx).Msg("accepting unverified checkoutvn callback, insecure skip verify is enabled")
		return nil
	}
	return ErrCallbackNotVerified
}
