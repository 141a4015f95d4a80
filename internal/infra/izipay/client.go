package izipay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Config is the merchant-side configuration for the hosted-form gateway.
type Config struct {
	BaseURL      string
	MerchantCode string
	PublicKey    string
	Logo         string
	Timeout      time.Duration
}

// GatewayError is any failure talking to the gateway: transport errors,
// non-2xx statuses, malformed bodies, or a gateway-reported error code.
type GatewayError struct {
	Op   string
	Code string
	Err  error
}

func (e *GatewayError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("izipay %s: gateway error %s", e.Op, e.Code)
	}
	return fmt.Sprintf("izipay %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// Client talks to the Izipay token API. The hosted form itself runs in
// the browser; the backend only generates the session token and the form
// configuration.
type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
	}
}

type tokenRequest struct {
	RequestSource string `json:"requestSource"`
	MerchantCode  string `json:"merchantCode"`
	OrderNumber   string `json:"orderNumber"`
	PublicKey     string `json:"publicKey"`
	Amount        string `json:"amount"`
}

type tokenResponse struct {
	Response struct {
		Token string `json:"token"`
		Error string `json:"error"`
	} `json:"response"`
}

// Authorize requests a hosted-form session token for one attempt. The
// transaction ID doubles as the order number.
func (c *Client) Authorize(ctx context.Context, transactionID, amount, _ string) (string, error) {
	body, err := json.Marshal(tokenRequest{
		RequestSource: "ECOMMERCE",
		MerchantCode:  c.cfg.MerchantCode,
		OrderNumber:   transactionID,
		PublicKey:     c.cfg.PublicKey,
		Amount:        amount,
	})
	if err != nil {
		return "", &GatewayError{Op: "authorize", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/security/v1/Token/Generate", bytes.NewReader(body))
	if err != nil {
		return "", &GatewayError{Op: "authorize", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("transactionId", transactionID)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &GatewayError{Op: "authorize", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &GatewayError{Op: "authorize", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var out tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &GatewayError{Op: "authorize", Err: fmt.Errorf("malformed response: %w", err)}
	}
	if out.Response.Error != "" {
		return "", &GatewayError{Op: "authorize", Code: out.Response.Error}
	}
	if out.Response.Token == "" {
		return "", &GatewayError{Op: "authorize", Err: fmt.Errorf("response missing token")}
	}

	return out.Response.Token, nil
}
