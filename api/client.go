// Package api talks to the LINE BOT trial API: profile lookups and event
// delivery. A Client is safe for concurrent use.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/garrettladley/linebot/internal/xhttp"
	"github.com/garrettladley/linebot/internal/xslog"
	go_json "github.com/goccy/go-json"
	"golang.org/x/oauth2"
)

const (
	DefaultProfileEndpoint = "https://trialbot-api.line.me/v1/profiles"
	DefaultEventEndpoint   = "https://trialbot-api.line.me/v1/events"
)

// Channel identifies the bot. The same credentials are sent with every call.
type Channel struct {
	ID     string
	Secret string
	MID    string
}

type Client struct {
	profileEndpoint string
	eventEndpoint   string
	httpClient      *http.Client
	logger          *slog.Logger
}

func New(channel Channel, opts ...Option) *Client {
	cfg := &clientConfig{
		profileEndpoint: DefaultProfileEndpoint,
		eventEndpoint:   DefaultEventEndpoint,
		transport:       http.DefaultTransport,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	transport := &channelTransport{
		base:        xhttp.WrapTransport(cfg.transport),
		channel:     channel,
		tokenSource: cfg.tokenSource,
	}

	return &Client{
		profileEndpoint: cfg.profileEndpoint,
		eventEndpoint:   cfg.eventEndpoint,
		httpClient:      &http.Client{Transport: transport, Timeout: cfg.timeout},
		logger:          cfg.logger,
	}
}

type clientConfig struct {
	profileEndpoint string
	eventEndpoint   string
	transport       http.RoundTripper
	tokenSource     oauth2.TokenSource
	logger          *slog.Logger
	timeout         time.Duration
}

type Option func(*clientConfig)

// WithProfileEndpoint overrides the profile API URL. Empty values are ignored.
func WithProfileEndpoint(endpoint string) Option {
	return func(cfg *clientConfig) {
		if endpoint != "" {
			cfg.profileEndpoint = endpoint
		}
	}
}

// WithEventEndpoint overrides the event API URL. Empty values are ignored.
func WithEventEndpoint(endpoint string) Option {
	return func(cfg *clientConfig) {
		if endpoint != "" {
			cfg.eventEndpoint = endpoint
		}
	}
}

func WithTransport(rt http.RoundTripper) Option {
	return func(cfg *clientConfig) { cfg.transport = rt }
}

// WithTokenSource adds an Authorization bearer header from ts to every call.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(cfg *clientConfig) { cfg.tokenSource = ts }
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *clientConfig) { cfg.logger = logger }
}

func WithTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) { cfg.timeout = d }
}

func (c *Client) do(ctx context.Context, method string, endpoint string, query url.Values, body any, result any) error {
	u := endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := go_json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		xhttp.SetRequestHeaderContentTypeApplicationJSON(req)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.DebugContext(ctx, "line api call", xslog.CallGroup(method, endpoint, resp.StatusCode, time.Since(start)))

	if resp.StatusCode >= 400 {
		return parseHTTPError(resp)
	}

	if result != nil && resp.StatusCode != http.StatusNoContent {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}
		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}
		if err := go_json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("decoding response: %w\nbody: %s", err, string(data))
		}
	}

	return nil
}
