// Package openai adapts the go-openai SDK to the inference capabilities
package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"birdspot/internal/adapters/inference"
	"birdspot/internal/platform/config"
	perr "birdspot/internal/platform/errors"
	"birdspot/internal/platform/logger"

	sdk "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

const (
	baseURLDefault    = "https://api.openai.com/v1"
	modelDefault      = "gpt-4o-mini"
	audioModelDefault = "gpt-4o-mini-transcribe"
	defaultTimeout    = 60 * time.Second
	temperature       = 0.2
)

// Options configures the Client
type Options struct {
	APIKey     string
	Model      string
	AudioModel string
	BaseURL    string
	Timeout    time.Duration

	// RPS caps outbound calls per second, 0 disables the limiter
	RPS float64

	// HTTPClient overrides the transport, mostly for tests
	HTTPClient *http.Client
}

// FromConfig reads OPENAI_* settings
func FromConfig(cfg config.Conf) Options {
	oc := cfg.Prefix("OPENAI_")
	return Options{
		APIKey:     oc.MayString("API_KEY", ""),
		Model:      oc.MayString("MODEL", modelDefault),
		AudioModel: oc.MayString("AUDIO_MODEL", audioModelDefault),
		BaseURL:    oc.MayString("BASE_URL", baseURLDefault),
		Timeout:    oc.MayDuration("TIMEOUT", defaultTimeout),
		RPS:        oc.MayFloat64("RPS", 0),
	}
}

// Client wraps the SDK client with a rate limit and error mapping
type Client struct {
	api     *sdk.Client
	opts    Options
	limiter *rate.Limiter
	log     logger.Logger
	now     func() time.Time
}

var (
	_ inference.Provider    = (*Client)(nil)
	_ inference.Transcriber = (*Client)(nil)
)

// New validates o and fills defaults
func New(o Options) (*Client, error) {
	if strings.TrimSpace(o.APIKey) == "" {
		return nil, perr.Validationf("OPENAI_API_KEY is not set")
	}
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.Model == "" {
		o.Model = modelDefault
	}
	if o.AudioModel == "" {
		o.AudioModel = audioModelDefault
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	hc := o.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: o.Timeout}
	}

	sc := sdk.DefaultConfig(o.APIKey)
	sc.BaseURL = o.BaseURL
	sc.HTTPClient = hc

	c := &Client{
		api:  sdk.NewClientWithConfig(sc),
		opts: o,
		log:  *logger.Named("openai"),
		now:  time.Now,
	}
	if o.RPS > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(o.RPS), int(math.Max(1, math.Ceil(o.RPS))))
	}
	return c, nil
}

// Model implements inference.Provider
func (c *Client) Model() string { return c.opts.Model }

// Infer sends req as one system and one user message and decodes the reply content as a JSON object
func (c *Client) Infer(ctx context.Context, req inference.Request) (map[string]any, error) {
	parts := []sdk.ChatMessagePart{{Type: sdk.ChatMessagePartTypeText, Text: req.User}}
	if len(req.ImagePNG) > 0 {
		parts = append(parts, sdk.ChatMessagePart{
			Type: sdk.ChatMessagePartTypeImageURL,
			ImageURL: &sdk.ChatMessageImageURL{
				URL:    "data:image/png;base64," + base64.StdEncoding.EncodeToString(req.ImagePNG),
				Detail: sdk.ImageURLDetailAuto,
			},
		})
	}
	chat := sdk.ChatCompletionRequest{
		Model:       c.opts.Model,
		Temperature: temperature,
		Messages: []sdk.ChatCompletionMessage{
			{Role: sdk.ChatMessageRoleSystem, Content: req.System},
			{Role: sdk.ChatMessageRoleUser, MultiContent: parts},
		},
		ResponseFormat: &sdk.ChatCompletionResponseFormat{Type: sdk.ChatCompletionResponseFormatTypeJSONObject},
	}

	var resp sdk.ChatCompletionResponse
	err := c.call(ctx, "chat", func(ctx context.Context) (err error) {
		resp, err = c.api.CreateChatCompletion(ctx, chat)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, perr.Internalf("openai response has no choices")
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &out); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "openai reply is not a json object")
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

// call waits on the limiter, runs fn and maps its error
// transport failures, 429 and 5xx map to Unavailable; other statuses and bad envelopes to Unknown
func (c *Client) call(ctx context.Context, op string, fn func(context.Context) error) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return perr.Wrap(err, perr.ErrorCodeUnavailable, "openai rate limiter")
		}
	}
	start := c.now()
	err := fn(ctx)
	lat := c.now().Sub(start)

	status := ProviderStatus(err)
	c.log.Debug().Str("op", op).Str("model", c.opts.Model).Int("status", status).Dur("latency", lat).Err(err).Msg("openai call")

	var uerr *url.Error
	switch {
	case err == nil:
		return nil
	case status == http.StatusTooManyRequests || status >= 500:
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "openai unavailable (status %d)", status)
	case status != 0:
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "openai error (status %d)", status)
	case errors.As(err, &uerr), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.log.Warn().Err(err).Str("op", op).Dur("latency", lat).Msg("openai transport error")
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "openai request failed")
	default:
		return perr.Wrap(err, perr.ErrorCodeUnknown, "openai response envelope undecodable")
	}
}

// ProviderStatus extracts the provider HTTP status from err, 0 when there is none
func ProviderStatus(err error) int {
	var apiErr *sdk.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *sdk.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
