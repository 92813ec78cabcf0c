// Package device implements the HTTP client for ESPEasy units.
//
// ESPEasy exposes its settings as HTML forms served over plain HTTP;
// a configuration write is an urlencoded POST of one form field to a
// settings page. The setting key convention is "<page>#<control>",
// e.g. "/config#unitname" posts the field "unitname" to "/config".
// A key without a page part posts to DefaultPage.
package device

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultPort is the HTTP port ESPEasy units listen on
	DefaultPort = 80

	// DefaultPage receives settings whose key names no page
	DefaultPage = "/config"

	// DefaultTimeout is the per-request HTTP timeout
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the number of retry attempts for
	// retryable failures
	DefaultMaxRetries = 2

	// DefaultRetryDelay is the initial delay between retries
	DefaultRetryDelay = 500 * time.Millisecond

	// DefaultMaxRetryDelay caps the exponential backoff
	DefaultMaxRetryDelay = 5 * time.Second
)

// Client talks to ESPEasy units over HTTP. A single Client serves any
// number of units; per-unit state lives in the Session returned by
// Connect. The zero value is not usable, use NewClient.
type Client struct {
	// Port is the HTTP port used when a unit address has none
	Port int

	// Username and Password are optional HTTP Basic Auth credentials
	// for units with an admin password set
	Username string
	Password string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// MaxRetries is the maximum number of retry attempts for
	// retryable failures
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts
	RetryDelay time.Duration

	// MaxRetryDelay caps the exponential backoff
	MaxRetryDelay time.Duration
}

// NewClient creates a client with default timeouts and retry policy.
func NewClient() *Client {
	return &Client{
		Port:          DefaultPort,
		HTTPClient:    &http.Client{Timeout: DefaultTimeout},
		MaxRetries:    DefaultMaxRetries,
		RetryDelay:    DefaultRetryDelay,
		MaxRetryDelay: DefaultMaxRetryDelay,
	}
}

// SetAuth sets HTTP Basic Auth credentials for units with an admin
// password configured.
func (c *Client) SetAuth(username, password string) {
	c.Username = username
	c.Password = password
}

// SetTimeout sets the per-request HTTP timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// BaseURL returns the HTTP base URL for a unit address. The address
// may carry an explicit port; otherwise the client's Port is used.
func (c *Client) BaseURL(unit string) string {
	if _, _, err := net.SplitHostPort(unit); err == nil {
		return "http://" + unit
	}
	return fmt.Sprintf("http://%s:%d", unit, c.Port)
}

// Connect probes the unit's root page and returns a session for
// applying settings. The probe is read-only, which also makes Connect
// the precheck primitive: a unit that answers its root page is
// considered reachable.
func (c *Client) Connect(ctx context.Context, unit string) (*Session, error) {
	err := c.withRetry(ctx, func() *DeviceError {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL(unit)+"/", nil)
		if reqErr != nil {
			return &DeviceError{Op: OpConnect, Unit: unit, Type: ErrTypeNetwork, Message: "failed to create request", Err: reqErr}
		}
		c.setAuth(req)

		resp, doErr := c.HTTPClient.Do(req)
		if doErr != nil {
			return classifyNetworkError(OpConnect, unit, doErr)
		}
		defer func() { _ = resp.Body.Close() }()
		_, _ = io.Copy(io.Discard, resp.Body)

		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			return newAuthError(OpConnect, unit)
		case resp.StatusCode != http.StatusOK:
			return newHTTPError(OpConnect, unit, resp.StatusCode, fmt.Sprintf("unexpected status %d", resp.StatusCode))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Session{client: c, unit: unit}, nil
}

// Session is an open configuration session with one unit. Operations
// for a unit must be applied through one session, in plan order.
type Session struct {
	client *Client
	unit   string
}

// Unit returns the unit address this session talks to.
func (s *Session) Unit() string {
	return s.unit
}

// Apply writes one setting to the unit. The key follows the
// "<page>#<control>" convention described in the package comment.
func (s *Session) Apply(ctx context.Context, key, value string) error {
	page, control := SplitKey(key)
	form := url.Values{control: {value}}

	return s.client.withRetry(ctx, func() *DeviceError {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost,
			s.client.BaseURL(s.unit)+page, strings.NewReader(form.Encode()))
		if reqErr != nil {
			return &DeviceError{Op: OpApply, Unit: s.unit, Type: ErrTypeNetwork, Message: "failed to create request", Err: reqErr}
		}
		s.client.setAuth(req)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, doErr := s.client.HTTPClient.Do(req)
		if doErr != nil {
			return classifyNetworkError(OpApply, s.unit, doErr)
		}
		defer func() { _ = resp.Body.Close() }()
		_, _ = io.Copy(io.Discard, resp.Body)

		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			return newAuthError(OpApply, s.unit)
		case resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent:
			return newHTTPError(OpApply, s.unit, resp.StatusCode,
				fmt.Sprintf("%s=%s rejected with status %d", control, value, resp.StatusCode))
		}
		return nil
	})
}

// Close releases the session. ESPEasy sessions are stateless on the
// wire, so this never fails, but the engine contract requires it.
func (s *Session) Close() error {
	return nil
}

// SplitKey splits a setting key into its page path and control name.
func SplitKey(key string) (page, control string) {
	if idx := strings.Index(key, "#"); idx >= 0 {
		page, control = key[:idx], key[idx+1:]
	} else {
		control = key
	}
	if page == "" {
		page = DefaultPage
	}
	if !strings.HasPrefix(page, "/") {
		page = "/" + page
	}
	return page, control
}

func (c *Client) setAuth(req *http.Request) {
	if c.Username != "" || c.Password != "" {
		req.SetBasicAuth(c.Username, c.Password)
	}
}

// withRetry runs fn, retrying retryable failures with exponential
// backoff until MaxRetries is exhausted or the context is done.
func (c *Client) withRetry(ctx context.Context, fn func() *DeviceError) error {
	var lastErr *DeviceError
	delay := c.RetryDelay

	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return lastErr
			}
			delay *= 2
			if delay > c.MaxRetryDelay {
				delay = c.MaxRetryDelay
			}
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !err.Retryable || ctx.Err() != nil {
			return err
		}
	}
	return lastErr
}
