// Package client is a typed HTTP client for the BrowseCart API together with
// the browsing helpers a front end builds on it.
package client

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
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tsadityaa/BrowseCart/internal/models"
)

const defaultTimeout = 10 * time.Second

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

type HealthStatus struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New returns a client for the API rooted at baseURL, e.g.
// "http://localhost:3001/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var out HealthStatus
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListShops(ctx context.Context) ([]models.Shop, error) {
	var out []models.Shop
	err := c.do(ctx, http.MethodGet, "/shops", nil, nil, &out)
	return out, err
}

// ShopsByCreator lists the shops created by userID.
func (c *Client) ShopsByCreator(ctx context.Context, userID string) ([]models.Shop, error) {
	var out []models.Shop
	err := c.do(ctx, http.MethodGet, "/shops", url.Values{"createdBy": {userID}}, nil, &out)
	return out, err
}

// MyShops lists the shops created by the signed-in user.
func (c *Client) MyShops(ctx context.Context) ([]models.Shop, error) {
	var out []models.Shop
	err := c.do(ctx, http.MethodGet, "/auth/me/shops", nil, nil, &out)
	return out, err
}

func (c *Client) NearbyShops(ctx context.Context, center models.Position, radiusKm float64) ([]models.Shop, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(center.Latitude, 'f', -1, 64))
	q.Set("lng", strconv.FormatFloat(center.Longitude, 'f', -1, 64))
	q.Set("radius", strconv.FormatFloat(radiusKm, 'f', -1, 64))

	var out []models.Shop
	err := c.do(ctx, http.MethodGet, "/shops/nearby", q, nil, &out)
	return out, err
}

func (c *Client) SearchShops(ctx context.Context, term string) ([]models.Shop, error) {
	var out []models.Shop
	err := c.do(ctx, http.MethodGet, "/shops/search", url.Values{"q": {term}}, nil, &out)
	return out, err
}

func (c *Client) GetShop(ctx context.Context, id string) (*models.Shop, error) {
	var out models.Shop
	if err := c.do(ctx, http.MethodGet, "/shops/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateShop(ctx context.Context, req *models.CreateShopRequest) (*models.Shop, error) {
	var out models.Shop
	if err := c.do(ctx, http.MethodPost, "/shops", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateShop(ctx context.Context, id string, req *models.UpdateShopRequest) (*models.Shop, error) {
	var out models.Shop
	if err := c.do(ctx, http.MethodPut, "/shops/"+url.PathEscape(id), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteShop(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/shops/"+url.PathEscape(id), nil, nil, nil)
}

// Register creates an account and keeps the returned session token for
// subsequent calls.
func (c *Client) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	return c.authenticate(ctx, "/auth/register", req)
}

// Login keeps the returned session token for subsequent calls.
func (c *Client) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	return c.authenticate(ctx, "/auth/login", req)
}

func (c *Client) Logout() {
	c.SetToken("")
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out models.AuthResponse
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *Client) authenticate(ctx context.Context, path string, body interface{}) (*models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.do(ctx, http.MethodPost, path, nil, body, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug().Str("method", method).Str("url", endpoint).Msg("Making request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		c.logger.Debug().Int("status", resp.StatusCode).Str("code", apiErr.Code).Msg("API error")
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
