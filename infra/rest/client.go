package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/CrestNiraj12/postpad/domain"
	"github.com/CrestNiraj12/postpad/infra/auth"
	"github.com/CrestNiraj12/postpad/infra/metrics"
)

const userAgent = "postpad/1"

// APIError is returned for responses outside the 2xx range.
type APIError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API %s %s returned %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// Client is a thin HTTP wrapper for the posts API.
// It handles base URL construction and optional bearer token injection.
type Client struct {
	baseURL       string
	tokenProvider auth.TokenProvider // nil when the API is anonymous
	http          *http.Client
	log           *slog.Logger
}

// NewClient creates an API client. tp may be nil.
func NewClient(baseURL string, tp auth.TokenProvider, log *slog.Logger) *Client {
	return &Client{
		baseURL:       baseURL,
		tokenProvider: tp,
		http:          &http.Client{},
		log:           log,
	}
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body io.Reader) ([]byte, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if c.tokenProvider != nil {
		token, err := c.tokenProvider.AccessToken()
		if err != nil {
			return nil, fmt.Errorf("auth: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}

	log := c.log.With(
		slog.String("method", method),
		slog.String("path", path),
		slog.String("request_id", requestID))

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveRequest(method, "error", time.Since(start))
		log.Debug("request failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("request to %s: %w: %w", path, domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	metrics.ObserveRequest(method, strconv.Itoa(resp.StatusCode), elapsed)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w: %w", domain.ErrNetwork, err)
	}

	log.Debug("request done",
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", elapsed))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Method: method, Path: path, Status: resp.StatusCode, Body: string(data)}
		return nil, fmt.Errorf("%w: %w", domain.ErrNetwork, apiErr)
	}

	return data, nil
}

// IsStatus reports whether err carries an API response with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}
