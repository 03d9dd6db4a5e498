// Package feishu talks to the Feishu open platform: it exchanges app
// credentials for a tenant access token, uploads voice files and sends audio
// messages. Every call is made once; nothing is cached or retried.
package feishu

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	lark "github.com/larksuite/oapi-sdk-go/v3"
	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"

	"github.com/VinMeld/feishu-voice/internal/transport"
)

// Client wraps the Lark SDK with token caching disabled, so every request
// carries the token handed to it explicitly.
type Client struct {
	sdk       *lark.Client
	appID     string
	appSecret string
	baseURL   string
	logger    *slog.Logger
	newUUID   func() string
}

type options struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	newUUID    func() string
}

// Option configures a Client.
type Option func(*options)

// WithBaseURL points the client at another open platform domain.
func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.baseURL = baseURL }
}

// WithHTTPClient replaces the transport used for every request.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithLogger routes SDK diagnostics into logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithUUIDFunc overrides the generator for message de-duplication ids.
func WithUUIDFunc(fn func() string) Option {
	return func(o *options) { o.newUUID = fn }
}

// New creates a client for the given app credentials.
func New(appID, appSecret string, opts ...Option) *Client {
	o := options{
		baseURL: transport.DefaultBaseURL,
		logger:  slog.Default(),
		newUUID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}
	baseURL := strings.TrimRight(o.baseURL, "/")

	sdkOpts := []lark.ClientOptionFunc{
		lark.WithOpenBaseUrl(baseURL),
		lark.WithEnableTokenCache(false),
		lark.WithLogger(sdkLogger{logger: o.logger}),
		lark.WithLogLevel(sdkLogLevel(o.logger)),
	}
	if o.httpClient != nil {
		sdkOpts = append(sdkOpts, lark.WithHttpClient(o.httpClient))
	}

	return &Client{
		sdk:       lark.NewClient(appID, appSecret, sdkOpts...),
		appID:     appID,
		appSecret: appSecret,
		baseURL:   baseURL,
		logger:    o.logger,
		newUUID:   o.newUUID,
	}
}

// BaseURL returns the open platform domain the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func rawBody(resp *larkcore.ApiResp) string {
	if resp == nil {
		return ""
	}
	return string(resp.RawBody)
}

// sdkLogger adapts slog to larkcore.Logger.
type sdkLogger struct {
	logger *slog.Logger
}

func (l sdkLogger) Debug(ctx context.Context, args ...interface{}) {
	l.logger.DebugContext(ctx, fmt.Sprint(args...), "component", "lark-sdk")
}

func (l sdkLogger) Info(ctx context.Context, args ...interface{}) {
	l.logger.InfoContext(ctx, fmt.Sprint(args...), "component", "lark-sdk")
}

func (l sdkLogger) Warn(ctx context.Context, args ...interface{}) {
	l.logger.WarnContext(ctx, fmt.Sprint(args...), "component", "lark-sdk")
}

func (l sdkLogger) Error(ctx context.Context, args ...interface{}) {
	l.logger.ErrorContext(ctx, fmt.Sprint(args...), "component", "lark-sdk")
}

func sdkLogLevel(logger *slog.Logger) larkcore.LogLevel {
	ctx := context.Background()
	switch {
	case logger.Enabled(ctx, slog.LevelDebug):
		return larkcore.LogLevelDebug
	case logger.Enabled(ctx, slog.LevelInfo):
		return larkcore.LogLevelInfo
	case logger.Enabled(ctx, slog.LevelWarn):
		return larkcore.LogLevelWarn
	default:
		return larkcore.LogLevelError
	}
}
