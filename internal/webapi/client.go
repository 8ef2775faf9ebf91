// Package webapi talks to the tag store through a Dataverse-style Web API:
// FetchXML queries, OData entity metadata and $ref association calls.
package webapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/gravitrone/polytag/internal/tagger"
)

var _ tagger.Backend = (*Client)(nil)

// Default request pacing, below the platform's service protection limits.
const (
	DefaultRateLimit = 20
	DefaultBurst     = 5
)

// Client wraps HTTP calls to the Web API.
type Client struct {
	baseURL    string
	token      string
	schema     Schema
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new Web API client rooted at baseURL, for example
// "https://org.crm.dynamics.com/api/data/v9.2".
func NewClient(baseURL, token string, schema Schema, timeout ...time.Duration) *Client {
	httpTimeout := 30 * time.Second
	if len(timeout) > 0 && timeout[0] > 0 {
		httpTimeout = timeout[0]
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		schema:  schema,
		httpClient: &http.Client{
			Timeout: httpTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultBurst),
	}
}

// WithRateLimit replaces the request pacing. A non-positive rps disables it.
func (c *Client) WithRateLimit(rps float64, burst int) *Client {
	if rps <= 0 {
		c.limiter = rate.NewLimiter(rate.Inf, 0)
		return c
	}
	if burst <= 0 {
		burst = 1
	}
	c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	return c
}

// Schema returns the entity and attribute names the client queries.
func (c *Client) Schema() Schema {
	return c.schema
}

type response struct {
	body   []byte
	status int
	header http.Header
}

// do executes an HTTP request and returns the raw response.
func (c *Client) do(ctx context.Context, method, path string, body any, header http.Header) (*response, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("OData-Version", "4.0")
	req.Header.Set("OData-MaxVersion", "4.0")
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	out := &response{body: respBody, status: resp.StatusCode, header: resp.Header}
	if resp.StatusCode >= 400 {
		return out, &StatusError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, respBody)}
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	return resp.body, nil
}

// StatusError is an HTTP error response from the Web API.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return e.Message
}

// collection is the OData envelope for entity collections.
type collection[T any] struct {
	Value []T `json:"value"`
}

func decodeList[T any](data []byte) ([]T, error) {
	var resp collection[T]
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return resp.Value, nil
}

func decodeOne[T any](data []byte) (*T, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

// buildQuery appends query params to a path. OData system options keep their
// literal '$' prefix.
func buildQuery(path string, params url.Values) string {
	if len(params) == 0 {
		return path
	}
	encoded := strings.ReplaceAll(params.Encode(), "%24", "$")
	return path + "?" + encoded
}

// quote renders an OData string literal.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func errorMessage(status int, body []byte) string {
	if msg, ok := extractAPIErrorBody(body); ok {
		return msg
	}
	return fmt.Sprintf("HTTP %d: %s", status, strings.TrimSpace(string(body)))
}

func extractAPIErrorBody(body []byte) (string, bool) {
	if len(body) == 0 {
		return "", false
	}
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", false
	}
	if msg, ok := parseErrorValue(payload["error"]); ok {
		return msg, true
	}
	if msg, ok := parseErrorValue(payload["Message"]); ok {
		return msg, true
	}
	return "", false
}

func parseErrorValue(raw any) (string, bool) {
	switch value := raw.(type) {
	case string:
		msg := strings.TrimSpace(value)
		if msg == "" {
			return "", false
		}
		return msg, true
	case map[string]any:
		code, _ := value["code"].(string)
		message, _ := value["message"].(string)
		return formatAPIError(code, message)
	}
	return "", false
}

func formatAPIError(code, message string) (string, bool) {
	code = strings.TrimSpace(code)
	message = strings.TrimSpace(message)
	switch {
	case code != "" && message != "":
		return fmt.Sprintf("%s: %s", code, message), true
	case code != "":
		return code, true
	case message != "":
		return message, true
	default:
		return "", false
	}
}
