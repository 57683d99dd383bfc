package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"aivideorename/internal/services"
)

const (
	defaultEndpoint    = "https://openrouter.ai/api/v1/chat/completions"
	defaultHTTPTimeout = 15 * time.Second
	defaultMIMEType    = "image/jpeg"
)

// Config captures the runtime settings required to talk to the model.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Referer        string
	Title          string
	TimeoutSeconds int
}

// Client talks to an OpenAI-compatible chat completion endpoint such as
// OpenRouter.
type Client struct {
	cfg        Config
	httpClient *http.Client
	retry      retryPolicy
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetryMaxAttempts caps the number of requests per call. Values below 1
// disable retries.
func WithRetryMaxAttempts(attempts int) Option {
	return func(c *Client) { c.retry.attempts = attempts }
}

// WithRetryBackoff sets the first retry delay and the ceiling for later ones.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.retry.base = baseDelay
		c.retry.max = maxDelay
	}
}

// WithSleeper replaces the wait between retries (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) { c.retry.sleeper = sleeper }
}

// NewClient constructs a client. An empty BaseURL selects OpenRouter.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	c := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimSpace(cfg.BaseURL),
			Model:          strings.TrimSpace(cfg.Model),
			Referer:        strings.TrimSpace(cfg.Referer),
			Title:          strings.TrimSpace(cfg.Title),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
		retry:      defaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cfg.BaseURL == "" {
		c.cfg.BaseURL = defaultEndpoint
	}
	return c
}

// CaptionImage asks the vision model to describe one still frame. image
// holds the encoded bytes and mimeType their media type; an empty mimeType
// means JPEG. The caption is returned trimmed but otherwise untouched.
func (c *Client) CaptionImage(ctx context.Context, image []byte, mimeType string) (string, error) {
	const op = "llm caption"
	if len(image) == 0 {
		return "", services.Wrap(services.ErrValidation, op, "", "image required", nil)
	}
	if c.cfg.APIKey == "" {
		return "", services.Wrap(services.ErrConfiguration, op, "", "api key required", nil)
	}
	if mimeType = strings.TrimSpace(mimeType); mimeType == "" {
		mimeType = defaultMIMEType
	}

	frame := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image)
	req := c.jsonRequest(
		textMessage("system", CaptionPrompt),
		chatMessage{Role: "user", Content: []contentPart{
			{Type: "text", Text: "Describe this video frame."},
			{Type: "image_url", ImageURL: &imageURL{URL: frame}},
		}},
	)

	var reply struct {
		Caption string `json:"caption"`
	}
	if err := c.completeInto(ctx, op, req, &reply); err != nil {
		return "", err
	}
	caption := strings.TrimSpace(reply.Caption)
	if caption == "" {
		return "", fmt.Errorf("%s: model returned an empty caption", op)
	}
	return caption, nil
}

// HealthCheck sends a tiny JSON request to confirm the key and model work.
func (c *Client) HealthCheck(ctx context.Context) error {
	const op = "llm health"
	if c.cfg.APIKey == "" {
		return services.Wrap(services.ErrConfiguration, op, "", "api key required", nil)
	}
	req := c.jsonRequest(
		textMessage("system", "You must respond with JSON only."),
		textMessage("user", `Respond with {"ok":true}`),
	)
	var reply struct {
		OK bool `json:"ok"`
	}
	if err := c.completeInto(ctx, op, req, &reply); err != nil {
		return err
	}
	if !reply.OK {
		return errors.New(op + ": unexpected response")
	}
	return nil
}

// completeInto runs req with retries and decodes the model's JSON reply.
func (c *Client) completeInto(ctx context.Context, op string, req chatRequest, target any) error {
	content, err := c.complete(ctx, op, req)
	if err != nil {
		return err
	}
	if err := decodeReply(content, target); err != nil {
		return fmt.Errorf("%s: parse reply: %w", op, err)
	}
	return nil
}

func (c *Client) complete(ctx context.Context, op string, req chatRequest) (string, error) {
	attempts := c.retry.maxAttempts()
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		var content string
		content, err = c.completeOnce(ctx, op, req)
		if err == nil {
			return content, nil
		}
		if attempt == attempts || ctx.Err() != nil {
			break
		}
		delay, ok := c.retry.delayFor(err, attempt)
		if !ok {
			return "", err
		}
		if sleepErr := c.retry.wait(ctx, delay); sleepErr != nil {
			return "", sleepErr
		}
	}
	if attempts > 1 {
		return "", fmt.Errorf("%s: failed after %d attempts: %w", op, attempts, err)
	}
	return "", err
}

func (c *Client) completeOnce(ctx context.Context, op string, req chatRequest) (string, error) {
	resp, body, err := c.post(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", &emptyReplyError{op: op, snippet: snippet(string(body))}
	}
	content, finish := resp.content()
	if content == "" {
		return "", &emptyReplyError{
			op:      op,
			finish:  finish,
			refusal: resp.refusal(),
			snippet: snippet(string(body)),
		}
	}
	return content, nil
}

func (c *Client) jsonRequest(messages ...chatMessage) chatRequest {
	return chatRequest{
		Model:          c.cfg.Model,
		Messages:       messages,
		Temperature:    0,
		ResponseFormat: map[string]string{"type": "json_object"},
	}
}
