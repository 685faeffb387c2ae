package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AlexZinkM/anvil-tx/internal/config"
	"github.com/AlexZinkM/anvil-tx/internal/metrics"
	"github.com/AlexZinkM/anvil-tx/internal/model"

	"golang.org/x/time/rate"
)

const (
	endpointBuild  = "/transactions/build"
	endpointSubmit = "/transactions/submit"
	endpointHealth = "/health"
)

// maxResponseSize bounds a provider reply. A built transaction is at most
// 16KB hex, metadata included.
var maxResponseSize int64 = 4 << 20

// ErrResponseTooLarge is returned when a reply exceeds maxResponseSize
var ErrResponseTooLarge = errors.New("response too large")

// TransactionAPI defines the calls made to the hosted transaction service.
type TransactionAPI interface {
	BuildTransactionRaw(ctx context.Context, body []byte) ([]byte, error)
	BuildTransaction(ctx context.Context, req *model.BuildRequest) (*model.BuildResponse, error)
	SubmitTransaction(ctx context.Context, req *model.SubmitRequest) (*model.SubmitResponse, error)
	Health(ctx context.Context) (string, error)
}

// AnvilClient client for the Anvil transaction API
type AnvilClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

// NewAnvilClient creates a new Anvil client.
// rps limits outgoing requests per second; 0 disables the limit.
func NewAnvilClient(baseURL, apiKey string, timeout time.Duration, rps int) *AnvilClient {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &AnvilClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(limit, max(rps, 1)),
	}
}

// NewAnvilClientFromConfig creates a client from the global configuration
func NewAnvilClientFromConfig() (*AnvilClient, error) {
	apiKey, err := config.GetAPIKey()
	if err != nil {
		return nil, err
	}
	return NewAnvilClient(config.GetAPIURL(), apiKey, config.GetTimeout(), config.GetRateLimit()), nil
}

// APIError is returned when the service answers with a non-2xx status.
// Body is the raw reply, Message the provider's message when it sent JSON.
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Body
	}
	return fmt.Sprintf("anvil %s: status %d: %s", e.Endpoint, e.StatusCode, msg)
}

// IsAPIError checks if error is (or wraps) APIError
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// BuildTransactionRaw posts body unchanged to /transactions/build and
// returns the reply body unchanged.
func (c *AnvilClient) BuildTransactionRaw(ctx context.Context, body []byte) ([]byte, error) {
	return c.do(ctx, http.MethodPost, endpointBuild, body)
}

// BuildTransaction builds a transaction from a typed request
func (c *AnvilClient) BuildTransaction(ctx context.Context, req *model.BuildRequest) (*model.BuildResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal build request: %w", err)
	}

	respBody, err := c.BuildTransactionRaw(ctx, body)
	if err != nil {
		return nil, err
	}

	var resp model.BuildResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode build response: %w", err)
	}
	if resp.Hash == "" || resp.Complete == "" {
		return nil, fmt.Errorf("incomplete build response: %s", truncate(respBody))
	}
	return &resp, nil
}

// SubmitTransaction submits a signed transaction to the chain
func (c *AnvilClient) SubmitTransaction(ctx context.Context, req *model.SubmitRequest) (*model.SubmitResponse, error) {
	if req.Signatures == nil {
		// the service rejects a missing array
		req.Signatures = []string{}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal submit request: %w", err)
	}

	respBody, err := c.do(ctx, http.MethodPost, endpointSubmit, body)
	if err != nil {
		return nil, err
	}

	var resp model.SubmitResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode submit response: %w", err)
	}
	if resp.TxHash == "" {
		return nil, fmt.Errorf("submit response without txHash: %s", truncate(respBody))
	}
	return &resp, nil
}

// Health returns the raw body of GET /health
func (c *AnvilClient) Health(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodGet, endpointHealth, nil)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *AnvilClient) do(ctx context.Context, method, endpoint string, body []byte) (respBody []byte, err error) {
	start := time.Now()
	defer func() {
		result := "ok"
		if err != nil {
			result = "error"
			if apiErr, ok := IsAPIError(err); ok {
				result = fmt.Sprintf("%dxx", apiErr.StatusCode/100)
			}
		}
		metrics.ProviderRequests.WithLabelValues(endpoint, result).Inc()
		metrics.ProviderLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	respBody, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(respBody)) > maxResponseSize {
		return nil, fmt.Errorf("%w: %s reply exceeds %d bytes", ErrResponseTooLarge, endpoint, maxResponseSize)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(endpoint, resp.StatusCode, respBody)
	}
	return respBody, nil
}

func newAPIError(endpoint string, status int, body []byte) *APIError {
	apiErr := &APIError{
		Endpoint:   endpoint,
		StatusCode: status,
		Body:       string(body),
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		apiErr.Message = payload.Message
		if apiErr.Message == "" {
			apiErr.Message = payload.Error
		}
	}
	return apiErr
}

func truncate(b []byte) string {
	const limit = 200
	if len(b) <= limit {
		return string(b)
	}
	return string(b[:limit]) + "..."
}
