package ea

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	json "github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://proclubs.ea.com/api/fc"
	siteURL        = "https://proclubs.ea.com/"
	siteReferer    = "https://proclubs.ea.com/fc/clubs/overview"

	maxAttempts = 3
)

// Browser-like headers improve the success rate with EA's edge/WAF.
var apiHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
	"Accept":          "application/json, text/plain, */*",
	"Referer":         "https://www.ea.com/",
	"Accept-Language": "en-US,en;q=0.9",
	"Connection":      "keep-alive",
	"Sec-Fetch-Dest":  "empty",
	"Sec-Fetch-Mode":  "cors",
	"Sec-Fetch-Site":  "same-site",
}

var htmlHeaders = map[string]string{
	"User-Agent":                "Mozilla/5.0",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.9",
	"Upgrade-Insecure-Requests": "1",
}

// ForbiddenError reports that the upstream actively refused traffic (HTTP
// 403) for the full retry budget. Callers must not retry with different
// parameters: the block applies per client, not per platform or club.
type ForbiddenError struct {
	Path string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("ea: forbidden on %s after %d attempts", e.Path, maxAttempts)
}

// APIError is any non-forbidden upstream failure that survived the retry
// budget.
type APIError struct {
	Path   string
	Status int
	Err    error
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("ea: request to %s failed with status %d: %v", e.Path, e.Status, e.Err)
	}
	return fmt.Sprintf("ea: request to %s failed: %v", e.Path, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

// Client talks to the Pro Clubs API. It owns the retry budget, rate
// limiting and the warmup cookie jar; the response shape chaos is absorbed
// by the normalize helpers before data leaves this package.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter

	base       string
	warmupURLs []string
}

// NewClient creates a Pro Clubs API client with a shared cookie jar so that
// warmup cookies carry over to API calls.
func NewClient() *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		httpClient: &http.Client{
			Timeout: 12 * time.Second,
			Jar:     jar,
		},
		// EA tolerates roughly a few requests per second before the WAF
		// starts paying attention; stay well under that.
		limiter:    rate.NewLimiter(rate.Every(300*time.Millisecond), 1),
		base:       defaultBaseURL,
		warmupURLs: []string{siteURL, siteReferer},
	}
}

// Warmup visits EA's ordinary web pages to acquire anti-bot cookies before
// the first API call of a session. Best-effort: every failure is swallowed.
func (c *Client) Warmup(ctx context.Context) {
	for _, u := range c.warmupURLs {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			continue
		}
		for k, v := range htmlHeaders {
			req.Header.Set(k, v)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			slog.Debug("EA warmup visit failed", "url", u, "error", err)
			continue
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		slog.Debug("EA warmup visit done", "url", u, "status", resp.StatusCode)
	}
}

// get fetches path with the retry budget applied. 403 responses are retried
// with a jittered pause and, once the budget is exhausted, surface as a
// *ForbiddenError; every other failure class surfaces as a *APIError.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.base + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.RandomizationFactor = 0.5
	bo.Multiplier = 2

	var lastErr error
	lastStatus := 0
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(bo.NextBackOff()):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		for k, v := range apiHeaders {
			req.Header.Set(k, v)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			lastStatus = 0
			slog.Warn("EA API request error", "path", path, "attempt", attempt, "error", err)
			continue
		}
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			lastStatus = 0
			continue
		}
		if resp.StatusCode == http.StatusOK {
			return body, nil
		}
		lastErr = fmt.Errorf("unexpected status %d", resp.StatusCode)
		lastStatus = resp.StatusCode
		slog.Warn("EA API request failed", "path", path, "status", resp.StatusCode, "attempt", attempt)
	}

	if lastStatus == http.StatusForbidden {
		return nil, &ForbiddenError{Path: path}
	}
	return nil, &APIError{Path: path, Status: lastStatus, Err: lastErr}
}

// getJSON fetches path and decodes the body into v. Decode failures count as
// upstream failures: EA occasionally serves truncated or plain-text bodies.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, v any) error {
	body, err := c.get(ctx, path, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &APIError{Path: path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
