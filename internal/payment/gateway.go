// Package payment wraps the third-party checkout gateway: order creation
// over HTTP and local HMAC verification of the proof the checkout SDK hands
// back to the UI.
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

	"github.com/rs/zerolog"

	"github.com/brightsmile/scheduling-api/pkg/errors"
)

// Order is a gateway checkout order the UI opens the payment modal with.
type Order struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"` // minor units
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

// Proof is what the checkout SDK reports after a completed payment.
type Proof struct {
	OrderID   string `json:"gatewayOrderId" binding:"required"`
	PaymentID string `json:"gatewayPaymentId" binding:"required"`
	Signature string `json:"gatewaySignature" binding:"required"`
}

type Config struct {
	BaseURL   string
	KeyID     string
	KeySecret string
	Currency  string
	Timeout   time.Duration
}

type Gateway struct {
	cfg    Config
	http   *http.Client
	logger zerolog.Logger
}

func NewGateway(cfg Config, logger zerolog.Logger) *Gateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	return &Gateway{
		cfg:    cfg,
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// CreateOrder opens a checkout order for the given amount. Any failure here
// means the payment infrastructure is unavailable, which callers must keep
// distinct from a user abandoning checkout.
func (g *Gateway) CreateOrder(ctx context.Context, amount int64, receipt string) (*Order, error) {
	body, err := json.Marshal(createOrderRequest{
		Amount:   amount,
		Currency: g.cfg.Currency,
		Receipt:  receipt,
	})
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	req.SetBasicAuth(g.cfg.KeyID, g.cfg.KeySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		g.logger.Warn().Err(err).Msg("payment order creation failed")
		return nil, errors.NewPaymentUnavailable(errors.ReasonOrderFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, errors.NewPaymentUnavailable(errors.ReasonOrderFailed, fmt.Errorf("gateway returned %d", resp.StatusCode))
	}

	var out createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.NewPaymentUnavailable(errors.ReasonOrderFailed, err)
	}

	return &Order{
		OrderID:  out.ID,
		Amount:   out.Amount,
		Currency: out.Currency,
		KeyID:    g.cfg.KeyID,
	}, nil
}

// VerifyProof checks the gateway signature over "orderId|paymentId" with the
// key secret. A mismatch is a payment failure with its own reason code; it is
// never treated as infrastructure being down.
func (g *Gateway) VerifyProof(proof Proof) error {
	mac := hmac.New(sha256.New, []byte(g.cfg.KeySecret))
	fmt.Fprintf(mac, "%s|%s", proof.OrderID, proof.PaymentID)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(proof.Signature)) {
		return errors.NewPaymentCancelled(errors.ReasonSignatureMismatch)
	}
	return nil
}

// SignProof computes the signature the gateway would produce for an order and
// payment pair. Exposed for tests and local gateway emulation.
func (g *Gateway) SignProof(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(g.cfg.KeySecret))
	fmt.Fprintf(mac, "%s|%s", orderID, paymentID)
	return hex.EncodeToString(mac.Sum(nil))
}
