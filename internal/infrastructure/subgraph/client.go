package subgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// maxErrorBody limits how much of a non-2xx response body ends up in an error
const maxErrorBody = 512

// Client executes GraphQL swap queries against a single endpoint
type Client struct {
	httpClient *http.Client
	endpoint   string
	timeout    time.Duration
	logger     *zap.Logger
}

// NewClient creates a client for one endpoint; every request is bounded by timeout
func NewClient(endpoint string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		endpoint: endpoint,
		timeout:  timeout,
		logger:   logger,
	}
}

// Endpoint returns the URL this client talks to
func (c *Client) Endpoint() string {
	return c.endpoint
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type swapsResponse struct {
	Data *struct {
		Swaps []rawSwap `json:"swaps"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// QuerySwaps posts one query and returns the raw swaps of the response
func (c *Client) QuerySwaps(ctx context.Context, query string, variables map[string]interface{}) ([]rawSwap, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Debug("Subgraph returned non-2xx status",
			zap.String("endpoint", c.endpoint),
			zap.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var decoded swapsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(decoded.Errors) > 0 {
		messages := make([]string, 0, len(decoded.Errors))
		for _, e := range decoded.Errors {
			messages = append(messages, e.Message)
		}
		c.logger.Debug("Subgraph returned GraphQL errors",
			zap.String("endpoint", c.endpoint),
			zap.Strings("errors", messages),
		)
		return nil, fmt.Errorf("graphql errors: %s", strings.Join(messages, "; "))
	}

	if decoded.Data == nil || decoded.Data.Swaps == nil {
		return nil, fmt.Errorf("response has no swaps field")
	}

	return decoded.Data.Swaps, nil
}
