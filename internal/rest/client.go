// Package rest issues the client's network operations against the
// document-search service and classifies their failures.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchdeck/internal/domain"
	"github.com/kailas-cloud/searchdeck/internal/logger"
)

const defaultTimeout = 15 * time.Second

// Client performs HTTP calls against the search service. The underlying
// http.Client carries a cookie jar so the server-held session travels with
// every request (the "credentials included" behavior of the auth surface).
type Client struct {
	base   *url.URL
	http   *http.Client
	logger *zap.Logger
}

// NewClient creates a REST client for the service at baseURL.
// httpClient may be nil; a cookie-jar client with a default timeout is built.
func NewClient(baseURL string, httpClient *http.Client, logger *zap.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	if httpClient == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		httpClient = &http.Client{Jar: jar, Timeout: defaultTimeout}
	} else if httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		httpClient.Jar = jar
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{base: base, http: httpClient, logger: logger}, nil
}

// errorBody is the optional JSON shape of a non-2xx response.
type errorBody struct {
	Message string `json:"message"`
}

// do performs one request and decodes the response into out (skipped when
// out is nil). Failures are classified, never returned raw:
//   - transport error        -> wraps domain.ErrNetwork
//   - non-2xx status         -> *domain.HTTPError (message from JSON body if present)
//   - 2xx, undecodable body  -> wraps domain.ErrDecode
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	log := c.logger
	if l := logger.FromContext(ctx); l != nil {
		log = l
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return fmt.Errorf("%s %s: %w: %v", method, path, domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	log.Debug("request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return httpError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: %w: %v", method, path, domain.ErrDecode, err)
	}
	return nil
}

// httpError builds the classified error for a non-success status, pulling
// the optional `message` field when the body parses as JSON.
func httpError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var eb errorBody
	if json.Unmarshal(data, &eb) == nil && eb.Message != "" {
		return domain.NewHTTPError(resp.StatusCode, eb.Message)
	}
	return domain.NewHTTPError(resp.StatusCode, "")
}
