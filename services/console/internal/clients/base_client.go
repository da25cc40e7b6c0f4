package clients

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

	"github.com/tidwall/gjson"

	"stationdesk/libs/metrics"
)

// ErrMissingData is returned when a 2xx response lacks the `data` envelope field.
var ErrMissingData = errors.New("api: response has no data field")

// HTTPDoer defines http.Client interface subset.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// TokenSource supplies the bearer token for outgoing requests. An empty token means anonymous.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

// Token implements TokenSource.
func (f TokenFunc) Token() string { return f() }

// APIError is a non-2xx answer from the remote API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status code %d", e.Status)
}

// BaseClient issues requests against the API base URL and unwraps the `data` envelope.
type BaseClient struct {
	baseURL string
	client  HTTPDoer
	tokens  TokenSource
}

// NewBaseClient builds client with base URL. tokens may be nil.
func NewBaseClient(baseURL string, client HTTPDoer, tokens TokenSource) *BaseClient {
	return &BaseClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		tokens:  tokens,
	}
}

func (c *BaseClient) buildURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// Do executes HTTP request and returns status/body. The bearer token is attached when available.
func (c *BaseClient) Do(ctx context.Context, method, path string, body []byte, headers map[string]string) (int, []byte, error) {
	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, respBody, nil
}

// DoJSON marshals in (when non-nil), performs the request and decodes the `data` field of a
// successful response into out (when non-nil). operation labels metrics.
func (c *BaseClient) DoJSON(ctx context.Context, operation, method, path string, in, out interface{}) error {
	var body []byte
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", operation, err)
		}
		body = encoded
	}

	started := time.Now()
	status, respBody, err := c.Do(ctx, method, path, body, nil)
	metrics.ObserveUpstream(operation, status, time.Since(started))
	if err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}

	if status < 200 || status >= 300 {
		return &APIError{Status: status, Message: extractMessage(respBody)}
	}

	if out == nil {
		return nil
	}
	data := gjson.GetBytes(respBody, "data")
	if !data.Exists() {
		return fmt.Errorf("%s: %w", operation, ErrMissingData)
	}
	if err := json.Unmarshal([]byte(data.Raw), out); err != nil {
		return fmt.Errorf("%s: decode data: %w", operation, err)
	}
	return nil
}

const maxMessageRunes = 200

// extractMessage pulls a human readable message out of an error body, best effort.
func extractMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if gjson.ValidBytes(body) {
		for _, path := range []string{"message", "error", "error.message", "data.message"} {
			if v := gjson.GetBytes(body, path); v.Type == gjson.String && strings.TrimSpace(v.Str) != "" {
				return strings.TrimSpace(v.Str)
			}
		}
		return ""
	}
	text := strings.TrimSpace(string(body))
	if r := []rune(text); len(r) > maxMessageRunes {
		text = string(r[:maxMessageRunes])
	}
	return text
}

// MessageOf returns the best human readable description of err, or fallback when err says nothing.
func MessageOf(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return fallback
}

// NewDefaultHTTPClient returns *http.Client with timeout.
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
