package httputil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/matzehuels/tokenlogo/pkg/errors"
	"github.com/matzehuels/tokenlogo/pkg/observability"
)

// maxErrorBody bounds how much of a failed response is kept in the error.
const maxErrorBody = 512

// JSONClient performs JSON HTTP calls with fixed default headers.
type JSONClient struct {
	http    *http.Client
	headers map[string]string
}

// NewJSONClient creates a client with the given request timeout.
// Headers are applied to every request; pass nil for none.
func NewJSONClient(timeout time.Duration, headers map[string]string) *JSONClient {
	return &JSONClient{
		http:    &http.Client{Timeout: timeout},
		headers: headers,
	}
}

// WithHTTPClient replaces the underlying http.Client (tests use this to
// point at an httptest server's client).
func (c *JSONClient) WithHTTPClient(hc *http.Client) *JSONClient {
	c.http = hc
	return c
}

// Post marshals in as the JSON body, sends it to url, and decodes the
// response into out. A nil out discards the body.
func (c *JSONClient) Post(ctx context.Context, url string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "encode request body")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// Get sends a GET request and decodes the JSON response into out.
func (c *JSONClient) Get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	return c.do(req, out)
}

func (c *JSONClient) do(req *http.Request, out any) error {
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Accept", "application/json")

	ctx := req.Context()
	host, path := req.URL.Host, req.URL.Path
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return &RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "%s %s", req.Method, host)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := CheckStatus(resp); err != nil {
		return err
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(errors.ErrCodeUpstream, err, "decode response from %s", host)
	}
	return nil
}

// CheckStatus maps a non-2xx response to a coded error. 5xx and 429
// responses are wrapped in [RetryableError]. The body is read (bounded)
// into the message but not closed.
func CheckStatus(resp *http.Response) error {
	code := resp.StatusCode
	if code >= 200 && code < 300 {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := fmt.Sprintf("status %d: %s", code, bytes.TrimSpace(snippet))

	switch {
	case code == http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return &RetryableError{Err: &errors.RateLimitedError{RetryAfter: retryAfter, Message: msg}}
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return errors.New(errors.ErrCodeUnauthorized, "%s", msg)
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "%s", msg)
	case code >= 500:
		return &RetryableError{Err: errors.New(errors.ErrCodeUpstream, "%s", msg)}
	default:
		return errors.New(errors.ErrCodeUpstream, "%s", msg)
	}
}
