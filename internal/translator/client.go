package translator

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

	"github.com/valpere/pajajap/internal"
)

const (
	translatePath = "/api/translate"
	pingPath      = "/ping"

	DefaultTimeout = 120 * time.Second
)

type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger

	timeout    time.Duration
	hasTimeout bool
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithTimeout sets the overall request timeout. Zero disables it. The
// timeout is applied to a copy of the HTTP client, so a shared client passed
// to WithHTTPClient is left untouched.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
		c.hasTimeout = true
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  &http.Client{Timeout: DefaultTimeout},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.hasTimeout {
		hc := *c.client
		hc.Timeout = c.timeout
		c.client = &hc
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Translate posts req to the service. The body is decoded whatever the HTTP
// status is, so an error page that still carries JSON is used as a reply.
func (c *Client) Translate(ctx context.Context, req internal.TranslationRequest) (*internal.TranslationResponse, error) {
	url := c.baseURL + translatePath
	if c.baseURL == "" {
		return nil, &Error{Op: "post", URL: translatePath, Err: ErrEmptyBaseURL}
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, &Error{Op: "marshal", URL: url, Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, &Error{Op: "post", URL: url, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	c.logger.Debug("sending translation request", zap.String("url", url), zap.Int("chars", len(req.Text)))

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &Error{Op: "post", URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("translation service returned non-success status",
			zap.String("url", url), zap.Int("status", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Op: "read", URL: url, StatusCode: resp.StatusCode, Err: err}
	}

	// The reply must be exactly one JSON object; null, arrays and trailing
	// data are rejected.
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, &Error{Op: "decode", URL: url, StatusCode: resp.StatusCode, Err: ErrNotObject}
	}
	var out internal.TranslationResponse
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, &Error{Op: "decode", URL: url, StatusCode: resp.StatusCode, Err: err}
	}

	c.logger.Debug("translation response received",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	return &out, nil
}

// Ping checks that the service answers GET /ping with {"ping":"pong"}.
func (c *Client) Ping(ctx context.Context) error {
	url := c.baseURL + pingPath
	if c.baseURL == "" {
		return &Error{Op: "get", URL: pingPath, Err: ErrEmptyBaseURL}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &Error{Op: "get", URL: url, Err: err}
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return &Error{Op: "get", URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &Error{Op: "get", URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected status")}
	}

	var pong struct {
		Ping string `json:"ping"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&pong); err != nil {
		return &Error{Op: "decode", URL: url, StatusCode: resp.StatusCode, Err: err}
	}
	if pong.Ping != "pong" {
		return &Error{Op: "decode", URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected ping reply %q", pong.Ping)}
	}
	return nil
}
