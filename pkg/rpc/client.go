package rpc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fystack/solana-rpc-client/pkg/ratelimiter"
	"github.com/tidwall/gjson"
)

// Caller dispatches one JSON-RPC request and returns the raw response body.
type Caller interface {
	CallRaw(ctx context.Context, method string, params ...any) ([]byte, error)
}

// Option customises a BaseClient.
type Option func(*BaseClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *BaseClient) { c.httpClient = h }
}

// WithMetrics records every request on m.
func WithMetrics(m *Metrics) Option {
	return func(c *BaseClient) { c.metrics = m }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *BaseClient) { c.logger = l }
}

// BaseClient is a JSON-RPC over HTTP POST transport. It is safe for
// concurrent use; the request id is informational and never used to match
// responses.
type BaseClient struct {
	httpClient  *http.Client
	baseURL     string
	auth        *AuthConfig
	rateLimiter *ratelimiter.RateLimiter
	metrics     *Metrics
	logger      *slog.Logger

	rpcID atomic.Uint64
}

func NewBaseClient(
	baseURL string,
	auth *AuthConfig,
	timeout time.Duration,
	rl *ratelimiter.RateLimiter,
	opts ...Option,
) *BaseClient {
	c := &BaseClient{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		auth:        auth,
		rateLimiter: rl,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NextID advances the request counter and returns the new id. The counter
// wraps at overflow.
func (c *BaseClient) NextID() uint64 {
	return c.rpcID.Add(1)
}

// CallRaw builds a request for method, posts it and returns the body.
// Transport errors are returned unchanged. A non-2xx reply is only an error
// when its body is not a JSON-RPC error envelope, so server-side errors still
// reach the decoder.
func (c *BaseClient) CallRaw(ctx context.Context, method string, params ...any) ([]byte, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("%s: %w", method, ErrNoEndpoint)
	}
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req := NewRequest(c.NextID(), method, params...)
	body, err := req.Marshal()
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", method, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.auth.apply(httpReq)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.observe(method, OutcomeTransport, time.Since(start))
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.observe(method, OutcomeTransport, elapsed)
		return nil, err
	}

	c.logger.Debug("RPC request completed",
		"method", method,
		"id", req.ID,
		"status", resp.StatusCode,
		"elapsed", elapsed,
	)

	hasRPCError := gjson.GetBytes(data, "error").IsObject()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if !hasRPCError {
			c.metrics.observe(method, OutcomeHTTP, elapsed)
			return nil, &HTTPStatusError{StatusCode: resp.StatusCode, URL: c.baseURL, Body: string(data)}
		}
	}
	if hasRPCError {
		c.metrics.observe(method, OutcomeRPCError, elapsed)
	} else {
		c.metrics.observe(method, OutcomeOK, elapsed)
	}
	return data, nil
}

// URL returns the endpoint the client posts to.
func (c *BaseClient) URL() string { return c.baseURL }

// Call dispatches method through caller and decodes a context-free result.
func Call[T any](ctx context.Context, caller Caller, method string, params ...any) (T, error) {
	raw, err := caller.CallRaw(ctx, method, params...)
	if err != nil {
		var zero T
		return zero, err
	}
	return DecodeResult[T](raw).Unwrap()
}

// CallWithContext dispatches method and decodes a {context, value} result.
func CallWithContext[T any](ctx context.Context, caller Caller, method string, params ...any) (WithContext[T], error) {
	return Call[WithContext[T]](ctx, caller, method, params...)
}
