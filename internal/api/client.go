// Package api provides the HTTP client for the chatmate backend.
package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	"github.com/diogo/chatmate/internal/config"
	apierrors "github.com/diogo/chatmate/internal/errors"
	"github.com/diogo/chatmate/internal/models"
)

// transportCeiling bounds a single request at the transport level when no
// per-request timeout is configured.
const transportCeiling = 300 * time.Second

// maxErrorBody caps how much of a failed response is kept for diagnostics.
const maxErrorBody = 4096

// ClientInterface is the backend surface used by the controller, the TUI and the commands.
type ClientInterface interface {
	Chat(ctx context.Context, message string) (string, error)
	AskWithContext(ctx context.Context, message, pageText string) (string, error)
	Summarize(ctx context.Context, filePath string) (*models.Summary, error)
	BaseURL() string
	Close()
}

// Client talks to the backend over a tls-client HTTP transport
type Client struct {
	httpClient tls_client.HttpClient
	baseURL    string
	timeout    time.Duration
	logger     *slog.Logger
	mu         sync.RWMutex
	closed     bool
}

var _ ClientInterface = (*Client)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithBaseURL sets the backend base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTimeout bounds every backend call. Zero disables the per-request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient replaces the transport, mainly for tests
func WithHTTPClient(httpClient tls_client.HttpClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new Client
func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{
		baseURL: config.DefaultBaseURL,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		ceiling := transportCeiling
		if client.timeout > ceiling {
			ceiling = client.timeout
		}
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(int(ceiling.Seconds())),
			tls_client.WithClientProfile(profiles.Chrome_120),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// BaseURL returns the backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Close releases idle connections; further calls fail
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.httpClient.CloseIdleConnections()
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// do sends req and returns the body of a 2xx response. Transport failures,
// deadline expiry and non-2xx statuses become typed errors.
func (c *Client) do(ctx context.Context, req *fhttp.Request, operation, endpoint string) ([]byte, error) {
	if c.IsClosed() {
		return nil, fmt.Errorf("client is closed")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	req = req.WithContext(ctx)

	start := time.Now()
	c.logger.Debug("backend request", "operation", operation, "endpoint", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, apierrors.NewTimeoutError(fmt.Sprintf("%s after %s", operation, c.timeout))
		}
		return nil, apierrors.NewNetworkErrorWithEndpoint(operation, endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, apierrors.NewAPIErrorWithBody(resp.StatusCode, endpoint, operation+" failed", string(errorBody))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, apierrors.NewTimeoutError(fmt.Sprintf("%s after %s", operation, c.timeout))
		}
		return nil, apierrors.NewNetworkErrorWithEndpoint(operation, endpoint, err)
	}

	c.logger.Debug("backend response",
		"operation", operation,
		"status", resp.StatusCode,
		"bytes", len(body),
		"elapsed", time.Since(start).Round(time.Millisecond))

	return body, nil
}
