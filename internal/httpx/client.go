// Package httpx provides the single, process-wide retrying HTTP client
// shared by every subsystem that talks to upstream endpoints.
package httpx

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	retryablehttp "github.com/hashicorp/go-retryablehttp"
)

const userAgent = "mclauncher/1.0"

// RetryObserver is notified once per retry attempt with an error naming the
// request being retried and the exponential backoff delay computed for that
// attempt.
type RetryObserver func(cause error, sleep time.Duration, attempt int)

// Client wraps a *retryablehttp.Client tagged with a user agent and an
// exponential backoff policy shared by every network call in the pipeline.
type Client struct {
	inner    *retryablehttp.Client
	observer RetryObserver
}

// New builds the shared client. base ~300ms, multiplicative growth, bounded
// attempts, per §4.2.
func New() *Client {
	rc := retryablehttp.NewClient()
	rc.Logger = nil
	rc.RetryMax = 5
	rc.RetryWaitMin = 300 * time.Millisecond
	rc.RetryWaitMax = 10 * time.Second
	rc.HTTPClient.Timeout = 60 * time.Second

	c := &Client{inner: rc}
	rc.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		if attempt > 0 && c.observer != nil {
			sleep := rc.Backoff(rc.RetryWaitMin, rc.RetryWaitMax, attempt-1, nil)
			c.observer(fmt.Errorf("retrying %s %s", req.Method, req.URL), sleep, attempt)
		}
	}
	return c
}

// SetObserver installs the retry observer callback.
func (c *Client) SetObserver(obs RetryObserver) { c.observer = obs }

// StandardClient returns the *http.Client view, for APIs that want one
// (e.g. oauth2.Config's token exchange).
func (c *Client) StandardClient() *http.Client {
	h := c.inner.StandardClient()
	h.Transport = &userAgentTransport{inner: h.Transport}
	return h
}

// Get issues a GET with the shared client, surfacing non-2xx as an error.
func (c *Client) Get(url string) (*http.Response, error) {
	req, err := retryablehttp.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := c.inner.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}
	return resp, nil
}

// PostForm issues a POST with form-encoded values, used by the device-code
// and token-exchange endpoints.
func (c *Client) PostForm(url string, form map[string][]string) (*http.Response, error) {
	req, err := retryablehttp.NewRequest(http.MethodPost, url, encodeForm(form))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)
	resp, err := c.inner.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", url, err)
	}
	return resp, nil
}

type userAgentTransport struct{ inner http.RoundTripper }

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", userAgent)
	rt := t.inner
	if rt == nil {
		rt = http.DefaultTransport
	}
	return rt.RoundTrip(req)
}

func encodeForm(form map[string][]string) *strings.Reader {
	values := url.Values(form)
	return strings.NewReader(values.Encode())
}
