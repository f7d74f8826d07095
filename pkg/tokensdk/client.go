package tokensdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// APIError is a protocol-level error returned by the token service.
type APIError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Client is a client for the tokend login token service. Authenticated
// calls present the configured token in the Authorization header.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Token is the login token presented on authenticated calls.
	Token string
}

// NewClient creates a token service client.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		Token: token,
	}
}

func (c *Client) url(path string) string {
	return c.BaseURL + path
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, target any, authenticated bool) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		req.Header.Set("Authorization", "Token "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp ErrorResponse
		if err := json.Unmarshal(bodyBytes, &errResp); err == nil && errResp.Error != "" {
			return &APIError{
				StatusCode:  resp.StatusCode,
				Code:        errResp.Error,
				Description: errResp.ErrorDescription,
			}
		}
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        "server_error",
			Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		}
	}

	if target != nil {
		if err := json.Unmarshal(bodyBytes, target); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// CreateLoginTokens mints one token per request entry. Requires a token
// holding the login_token:create permission.
func (c *Client) CreateLoginTokens(ctx context.Context, req CreateLoginTokenRequest) (*CreateLoginTokenResponse, error) {
	var resp CreateLoginTokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/login/tokens", req, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExtendLoginToken pushes a token's expiration out by the server's
// configured lifetime. Failures to extend are reported as soft faults in
// the response rather than as errors.
func (c *Client) ExtendLoginToken(ctx context.Context, token string) (*ExtendLoginTokenResponse, error) {
	req := ExtendLoginTokenRequest{AuthorizationToken: token}

	var resp ExtendLoginTokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/login/tokens/extend", req, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Livez checks the service's liveness endpoint.
func (c *Client) Livez(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/livez", nil, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Readyz checks the service's readiness endpoint.
func (c *Client) Readyz(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/readyz", nil, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}
