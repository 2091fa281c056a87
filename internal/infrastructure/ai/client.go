// Package ai adapts an OpenAI-compatible chat completion API to the advisor
// and tag suggestion ports.
package ai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
	"golang.org/x/time/rate"
)

const (
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 30 * time.Second
	defaultRPS     = 2
	retryBase      = 500 * time.Millisecond
)

var ErrNotConfigured = errors.New("ai: no api key configured")

// Config holds the connection settings for the model provider.
type Config struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	RPS        float64
}

// Client calls the chat completion API with rate limiting and bounded retry.
type Client struct {
	api        openai.Client
	configured bool
	model      string
	timeout    time.Duration
	maxRetries uint64
	backoff    time.Duration
	limiter    *rate.Limiter
	log        zerolog.Logger
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RPS <= 0 {
		cfg.RPS = defaultRPS
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// retries go through Client.do
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		api:        openai.NewClient(opts...),
		configured: strings.TrimSpace(cfg.APIKey) != "",
		model:      cfg.Model,
		timeout:    cfg.Timeout,
		maxRetries: uint64(cfg.MaxRetries),
		backoff:    retryBase,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RPS), 1),
		log:        log,
	}
}

// do runs fn under the request timeout, waiting on the rate limiter before
// each attempt and retrying transient failures with exponential backoff.
func (c *Client) do(ctx context.Context, op string, fn func(ctx context.Context) (retryable bool, err error)) error {
	if !c.configured {
		return ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	b := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.backoff))
	attempt := 0
	return retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		canRetry, err := fn(ctx)
		if err == nil {
			return nil
		}
		if canRetry && isTransient(err) {
			c.log.Warn().Err(err).Str("operation", op).Int("attempt", attempt).Msg("advisor request retrying")
			return retry.RetryableError(err)
		}
		return err
	})
}

// isTransient reports whether err is worth retrying: throttling, server
// errors and transport failures.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= http.StatusInternalServerError
	}
	return true
}
