package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/kracker/internal/common"
	"github.com/hashicorp/go-cleanhttp"
)

const maxErrorBody = 4 << 10

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient returns a client for the server at baseURL
// (e.g. "http://127.0.0.1:8080"). Each request is bounded by timeout.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	hc := cleanhttp.DefaultPooledClient()
	hc.Timeout = timeout
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

func (c *HTTPClient) Register(ctx context.Context, userName, email, password string) (*AuthResponse, error) {
	body := map[string]string{"username": userName, "password": password}
	if email != "" {
		body["email"] = email
	}

	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", body, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Login(ctx context.Context, login, password string) (*AuthResponse, error) {
	body := map[string]string{"username_or_email": login, "password": password}

	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", body, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Me(ctx context.Context, accessToken string) (*Identity, error) {
	var out Identity
	if err := c.do(ctx, http.MethodGet, "/api/v1/me", nil, accessToken, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Health(ctx context.Context) (*HealthStatus, error) {
	var live struct {
		OK bool `json:"ok"`
	}
	if err := c.do(ctx, http.MethodGet, "/health", nil, "", &live); err != nil {
		return nil, err
	}

	var db struct {
		OK    bool   `json:"ok"`
		DB    string `json:"db"`
		Error string `json:"error"`
	}
	if err := c.do(ctx, http.MethodGet, "/db/health", nil, "", &db); err != nil {
		return nil, err
	}

	return &HealthStatus{OK: live.OK && db.OK, DB: db.DB, DBError: db.Error}, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in any, token string, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var payload struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if json.Unmarshal(b, &payload) == nil && payload.Error != "" {
		apiErr.Code = payload.Error
		apiErr.Detail = payload.Detail
	} else {
		apiErr.Code = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
