// Package api is the HTTP client for the Artics reservation service.
//
// Delivery convention: any response with a status in the 200-499 range
// is returned to the caller as a normal *Response so call sites can
// dispatch on the code. Only 5xx responses and network-level failures
// come back as errors. Outcome mapping in the session, account and
// reservation packages depends on this convention.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mdayat/artics-communication/internal/metrics"
)

// Client calls the reservation service. Authentication rides on the
// HttpOnly access_token cookie the service sets on login, so the
// client keeps a cookie jar for the process lifetime.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger

	redis    *redis.Client
	cacheTTL time.Duration
}

// Response is a delivered (non-5xx) HTTP response.
type Response struct {
	StatusCode int
	Body       []byte
}

// Decode unmarshals the response body into out.
func (r *Response) Decode(out any) error {
	if len(r.Body) == 0 {
		return fmt.Errorf("empty response body")
	}
	return json.Unmarshal(r.Body, out)
}

// NewClient constructs a client for baseURL.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout, Jar: jar},
		logger:     logger,
	}, nil
}

// UseRedisCache configures optional Redis caching for GET endpoints.
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

// Get issues a GET request for path (which must start with "/").
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

// Post issues a POST request with a JSON body. A nil body sends no payload.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.send(ctx, http.MethodPost, path, body)
}

// Patch issues a PATCH request with a JSON body. A nil body sends no payload.
func (c *Client) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return c.send(ctx, http.MethodPatch, path, body)
}

func (c *Client) send(ctx context.Context, method, path string, body any) (*Response, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*Response, error) {
	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.IncAPIRequest(req.Method, "transport_error")
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.IncAPIRequest(req.Method, "transport_error")
		return nil, fmt.Errorf("read response body: %w", err)
	}

	c.logger.Debug().
		Str("request_id", requestID).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status_code", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("api request")

	metrics.IncAPIRequest(req.Method, strconv.Itoa(resp.StatusCode))

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("http %d", resp.StatusCode)
	}
	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}

func (c *Client) readCache(ctx context.Context, key string, out *Response) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	out.StatusCode = http.StatusOK
	out.Body = val
	return true
}

func (c *Client) writeCache(ctx context.Context, key string, body []byte) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	_ = c.redis.Set(ctx, key, body, c.cacheTTL).Err()
}

// GetAvailableRooms fetches GET /meeting-rooms/available, serving a
// cached 200 body when Redis caching is configured. Non-200 responses
// are never cached.
func (c *Client) GetAvailableRooms(ctx context.Context) (*Response, error) {
	const cacheKey = "artics:meeting-rooms:available"

	var cached Response
	if c.readCache(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	resp, err := c.Get(ctx, "/meeting-rooms/available")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusOK {
		c.writeCache(ctx, cacheKey, resp.Body)
	}
	return resp, nil
}
