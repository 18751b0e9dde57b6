// Package payments holds the payment-provider gateways. They perform the
// provider calls only; crediting gems or flipping subscription state is the
// ledger's job after confirmation.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// PayPal API environments.
const (
	PayPalSandboxURL = "https://api-m.sandbox.paypal.com"
	PayPalLiveURL    = "https://api-m.paypal.com"
)

// PayPalClient talks to the PayPal REST API.
type PayPalClient struct {
	clientID   string
	secret     string
	baseURL    string
	planID     string
	brandName  string
	returnURL  string
	cancelURL  string
	httpClient *http.Client
	tokens     TokenStore
}

// PayPalConfig configures the PayPal client.
type PayPalConfig struct {
	ClientID  string
	Secret    string
	BaseURL   string
	PlanID    string
	BrandName string
	ReturnURL string
	CancelURL string
	Timeout   time.Duration
}

// NewPayPalClient creates a PayPal client with the given token store.
func NewPayPalClient(cfg PayPalConfig, tokens TokenStore) *PayPalClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = PayPalSandboxURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if tokens == nil {
		tokens = NewMemoryTokenStore()
	}
	return &PayPalClient{
		clientID:   cfg.ClientID,
		secret:     cfg.Secret,
		baseURL:    cfg.BaseURL,
		planID:     cfg.PlanID,
		brandName:  cfg.BrandName,
		returnURL:  cfg.ReturnURL,
		cancelURL:  cfg.CancelURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		tokens:     tokens,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// accessToken returns a valid OAuth token, fetching a fresh one when the
// cached token has expired.
func (c *PayPalClient) accessToken(ctx context.Context) (string, error) {
	if token, ok := c.tokens.Get(); ok {
		return token, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	var tok tokenResponse
	if err := c.do(req, http.StatusOK, &tok); err != nil {
		return "", fmt.Errorf("failed to fetch paypal token: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("paypal token response missing access_token")
	}

	c.tokens.Set(tok.AccessToken, time.Duration(tok.ExpiresIn)*time.Second)
	return tok.AccessToken, nil
}

// Order is the subset of a PayPal order response the backend uses.
type Order struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// CreateOrder creates a capture-intent order for a gem pack and returns the
// provider order ID.
func (c *PayPalClient) CreateOrder(ctx context.Context, amountCents int64, currency string, gems int) (*Order, error) {
	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{
				"amount": map[string]string{
					"currency_code": currency,
					"value":         centsToValue(amountCents),
				},
				"description": fmt.Sprintf("Purchase of %d gems", gems),
			},
		},
		"application_context": map[string]string{
			"brand_name":   c.brandName,
			"landing_page": "NO_PREFERENCE",
			"user_action":  "PAY_NOW",
			"return_url":   c.returnURL,
			"cancel_url":   c.cancelURL,
		},
	}

	var order Order
	if err := c.postJSON(ctx, "/v2/checkout/orders", payload, http.StatusCreated, &order); err != nil {
		return nil, fmt.Errorf("failed to create paypal order: %w", err)
	}
	return &order, nil
}

// CaptureOrder captures an approved order.
func (c *PayPalClient) CaptureOrder(ctx context.Context, orderID string) (*Order, error) {
	var order Order
	path := fmt.Sprintf("/v2/checkout/orders/%s/capture", orderID)
	if err := c.postJSON(ctx, path, nil, http.StatusCreated, &order); err != nil {
		return nil, fmt.Errorf("failed to capture paypal order: %w", err)
	}
	return &order, nil
}

// Subscription is the subset of a PayPal subscription response the backend uses.
type Subscription struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
}

// ApproveURL returns the subscriber approval link, if present.
func (s *Subscription) ApproveURL() string {
	for _, l := range s.Links {
		if l.Rel == "approve" {
			return l.Href
		}
	}
	return ""
}

// CreateSubscription creates a billing subscription on the configured plan.
func (c *PayPalClient) CreateSubscription(ctx context.Context, subscriberEmail string) (*Subscription, error) {
	payload := map[string]interface{}{
		"plan_id": c.planID,
		"subscriber": map[string]interface{}{
			"email_address": subscriberEmail,
		},
		"application_context": map[string]string{
			"brand_name":  c.brandName,
			"user_action": "SUBSCRIBE_NOW",
			"return_url":  c.returnURL,
			"cancel_url":  c.cancelURL,
		},
	}

	var sub Subscription
	if err := c.postJSON(ctx, "/v1/billing/subscriptions", payload, http.StatusCreated, &sub); err != nil {
		return nil, fmt.Errorf("failed to create paypal subscription: %w", err)
	}
	return &sub, nil
}

// CancelSubscription cancels a billing subscription.
func (c *PayPalClient) CancelSubscription(ctx context.Context, subscriptionID string) error {
	payload := map[string]string{"reason": "Canceled by user"}
	path := fmt.Sprintf("/v1/billing/subscriptions/%s/cancel", subscriptionID)
	if err := c.postJSON(ctx, path, payload, http.StatusNoContent, nil); err != nil {
		return fmt.Errorf("failed to cancel paypal subscription: %w", err)
	}
	return nil
}

func (c *PayPalClient) postJSON(ctx context.Context, path string, payload interface{}, wantStatus int, out interface{}) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	return c.do(req, wantStatus, out)
}

func (c *PayPalClient) do(req *http.Request, wantStatus int, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	// Providers return 200 or 201 interchangeably on some endpoints.
	if resp.StatusCode != wantStatus && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("paypal API error (%d): %s", resp.StatusCode, string(respBody))
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return nil
}

// centsToValue renders integer cents as a PayPal decimal string.
func centsToValue(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
