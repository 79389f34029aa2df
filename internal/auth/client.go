package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/citruscounter/citruscounter/internal/counting"
	"github.com/citruscounter/citruscounter/internal/model"
)

// API paths on the auth service.
const (
	loginPath       = "/auth/login"
	signupPath      = "/auth/signup"
	editProfilePath = "/auth/edit-profile"
)

// maxBodySize bounds how much of a response body is read.
const maxBodySize = 64 * 1024

// Client talks to the identity endpoints of the backend.
type Client struct {
	// endpoint is the service base URL without a trailing slash.
	endpoint string

	// httpClient performs the requests.
	httpClient *http.Client

	// userAgent is sent on every request.
	userAgent string

	// logger is used for structured logging.
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the round-trip timeout for requests.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithUserAgent sets the User-Agent header value.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a Client for the backend at the given base URL.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// identityResponse is the wire format of a successful auth response.
// The backend uses "phonenumber" on the wire, not matching the local
// "phone" field name; the mapping is isolated here.
type identityResponse struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phonenumber"`
}

// toIdentity converts a wire response into a canonical Identity.
func (r identityResponse) toIdentity() (model.Identity, error) {
	return model.NewIdentity(r.Name, r.PhoneNumber)
}

// Login authenticates with the backend and returns the server's view of
// the identity. The phone number is canonicalized before it is sent.
func (c *Client) Login(ctx context.Context, phone, password string) (model.Identity, error) {
	canonical, err := model.NormalizePhone(phone)
	if err != nil {
		return model.Identity{}, err
	}
	if password == "" {
		return model.Identity{}, ErrEmptyPassword
	}

	payload := map[string]string{
		"phonenumber": canonical,
		"password":    password,
	}

	c.logger.Debug("logging in", "phone", canonical)
	return c.identityRequest(ctx, http.MethodPost, loginPath, payload)
}

// Signup registers a new account and returns the created identity.
func (c *Client) Signup(ctx context.Context, name, phone, password string) (model.Identity, error) {
	identity, err := model.NewIdentity(name, phone)
	if err != nil {
		return model.Identity{}, err
	}
	if password == "" {
		return model.Identity{}, ErrEmptyPassword
	}

	payload := map[string]string{
		"name":        identity.Name,
		"phonenumber": identity.Phone,
		"password":    password,
	}

	c.logger.Debug("signing up", "phone", identity.Phone)
	return c.identityRequest(ctx, http.MethodPost, signupPath, payload)
}

// EditProfile updates the display name of an existing account. The phone
// number identifies the account and cannot be changed here.
func (c *Client) EditProfile(ctx context.Context, identity model.Identity, password string) (model.Identity, error) {
	if password == "" {
		return model.Identity{}, ErrEmptyPassword
	}

	payload := map[string]string{
		"name":        identity.Name,
		"phonenumber": identity.Phone,
		"password":    password,
	}

	c.logger.Debug("editing profile", "phone", identity.Phone)
	return c.identityRequest(ctx, http.MethodPut, editProfilePath, payload)
}

// identityRequest performs a JSON request that answers with an identity.
func (c *Client) identityRequest(ctx context.Context, method, path string, payload map[string]string) (model.Identity, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return model.Identity{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, bytes.NewReader(data))
	if err != nil {
		return model.Identity{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.Identity{}, &counting.NetworkError{Op: strings.TrimPrefix(path, "/"), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return model.Identity{}, &counting.NetworkError{Op: strings.TrimPrefix(path, "/"), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var failure struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body, &failure); err == nil && failure.Message != "" {
			return model.Identity{}, &counting.ServiceError{Code: resp.StatusCode, Message: failure.Message}
		}
		return model.Identity{}, &counting.ServiceError{Code: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	var identityResp identityResponse
	if err := json.Unmarshal(body, &identityResp); err != nil {
		return model.Identity{}, &counting.ServiceError{Code: resp.StatusCode, Message: "malformed response body: " + err.Error()}
	}

	identity, err := identityResp.toIdentity()
	if err != nil {
		return model.Identity{}, &counting.ServiceError{Code: resp.StatusCode, Message: "invalid identity in response: " + err.Error()}
	}
	return identity, nil
}
