package userapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client is a small Go client for the user service. Operations that require
// authentication take the bearer token from SetToken (typically the value
// returned by Login).
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	token string
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetToken installs the bearer token used for authenticated calls.
func (c *Client) SetToken(token string) { c.token = token }

// Register creates a new account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (User, error) {
	var out User
	err := c.do(ctx, http.MethodPost, "/v1/users/register", req, &out)
	return out, err
}

// Login authenticates and installs the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	var out LoginResponse
	err := c.do(ctx, http.MethodPost, "/v1/users/login", LoginRequest{Email: email, Password: password}, &out)
	if err == nil {
		c.token = out.Token
	}
	return out, err
}

// Me returns the caller's own sanitized account.
func (c *Client) Me(ctx context.Context) (User, error) {
	var out User
	err := c.do(ctx, http.MethodGet, "/v1/users/me", nil, &out)
	return out, err
}

// UpdateProfile patches the caller's username and/or email.
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (User, error) {
	var out User
	err := c.do(ctx, http.MethodPatch, "/v1/users/me", req, &out)
	return out, err
}

// ChangePassword rotates the caller's password.
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	return c.do(ctx, http.MethodPost, "/v1/users/me/change-password",
		ChangePasswordRequest{CurrentPassword: current, NewPassword: next}, nil)
}

// ListUsers returns a page of accounts. Admin only. Role and search are
// optional filters; pass empty strings to skip them.
func (c *Client) ListUsers(ctx context.Context, page, limit int, role, search string) (ListUsersResponse, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	if role != "" {
		q.Set("role", role)
	}
	if search != "" {
		q.Set("search", search)
	}

	var out ListUsersResponse
	err := c.do(ctx, http.MethodGet, "/v1/users?"+q.Encode(), nil, &out)
	return out, err
}

// GetUser fetches one account by id. Permitted for the account owner or an
// admin.
func (c *Client) GetUser(ctx context.Context, id string) (User, error) {
	var out User
	err := c.do(ctx, http.MethodGet, "/v1/users/"+url.PathEscape(id), nil, &out)
	return out, err
}

// DeleteUser removes an account. Admin only.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/users/"+url.PathEscape(id), nil, nil)
}

// Livez hits the liveness probe.
func (c *Client) Livez(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.do(ctx, http.MethodGet, "/livez", nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("userapi: encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("userapi: build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("userapi: send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("userapi: read response: %w", err)
	}

	if err := FromResponse(resp.StatusCode, raw); err != nil {
		return err
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("userapi: decode response: %w", err)
		}
	}
	return nil
}
