package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a single webhook post.
const DefaultTimeout = 30 * time.Second

// Client posts messages to one incoming webhook.
type Client struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures the Client during construction.
type Option func(*clientConfig) error

type clientConfig struct {
	httpClient *http.Client
	logger     *slog.Logger
	timeout    time.Duration
}

// New creates a Client for the given webhook URL.
func New(webhookURL string, opts ...Option) (*Client, error) {
	if webhookURL == "" {
		return nil, fmt.Errorf("slack: webhook URL is required")
	}
	cfg := &clientConfig{timeout: DefaultTimeout}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	// Callers keep ownership of a client passed in; the timeout goes on a copy.
	httpClient := &http.Client{}
	if cfg.httpClient != nil {
		hc := *cfg.httpClient
		httpClient = &hc
	}
	if cfg.timeout > 0 {
		httpClient.Timeout = cfg.timeout
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{webhookURL: webhookURL, httpClient: httpClient, logger: logger}, nil
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *clientConfig) error {
		cfg.httpClient = c
		return nil
	}
}

// WithLogger configures structured logging.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *clientConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithTimeout sets a timeout on the HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) error {
		if d < 0 {
			return fmt.Errorf("slack: negative timeout %s", d)
		}
		cfg.timeout = d
		return nil
	}
}

// NormalizeChannel adds the leading "#" Slack expects for channel names.
func NormalizeChannel(ch string) string {
	if ch == "" || strings.HasPrefix(ch, "#") {
		return ch
	}
	return "#" + ch
}

// Post sends msg. Slack answers a successful webhook call with the literal
// body "ok"; anything else is returned as an *APIError.
func (c *Client) Post(ctx context.Context, msg Message) error {
	msg.Channel = NormalizeChannel(msg.Channel)
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("post message: encode: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post message: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.InfoContext(ctx, "posting to slack", "channel", msg.Channel, "blocks", len(msg.Blocks))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post message: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	text := strings.TrimSpace(string(respBody))
	c.logger.DebugContext(ctx, "slack response", "status", resp.StatusCode, "body", text)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || text != "ok" {
		if text == "" {
			text = resp.Status
		}
		return &APIError{statusCode: resp.StatusCode, message: text}
	}
	return nil
}

// APIError is a rejected webhook call. Callers should prefer the predicate
// functions to asserting on this type.
type APIError struct {
	statusCode int
	message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("slack: HTTP %d: %s", e.statusCode, e.message)
}

// StatusCode returns the HTTP status code from the response.
func (e *APIError) StatusCode() int { return e.statusCode }

// Message returns Slack's response body, e.g. "invalid_payload".
func (e *APIError) Message() string { return e.message }

// IsNotFound reports whether the webhook no longer exists (HTTP 404).
func IsNotFound(err error) bool { return HasStatusCode(err, http.StatusNotFound) }

// IsInvalidPayload reports whether Slack rejected the message body.
func IsInvalidPayload(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && strings.HasPrefix(apiErr.message, "invalid_")
}

// HasStatusCode reports whether err is an API error whose HTTP status code matches.
func HasStatusCode(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.statusCode == code
}
