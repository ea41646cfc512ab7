package banner

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tokenlogo/pkg/errors"
	"github.com/matzehuels/tokenlogo/pkg/httputil"
)

// fal.ai endpoints and model parameters.
const (
	DefaultLLMEndpoint   = "https://fal.run/openrouter/router"
	DefaultImageEndpoint = "https://fal.run/fal-ai/z-image/turbo"
	DefaultModel         = "google/gemini-2.5-flash"

	Width  = 1024
	Height = 320

	inferenceSteps = 8
	outputFormat   = "webp"
	acceleration   = "regular"
)

const (
	defaultTimeout    = 60 * time.Second
	defaultAttempts   = 3
	defaultRetryDelay = time.Second
)

// ClientOptions overrides client defaults. Zero values keep the default.
type ClientOptions struct {
	LLMEndpoint   string
	ImageEndpoint string
	Model         string
	Timeout       time.Duration
	Attempts      int           // image request attempts
	RetryDelay    time.Duration // initial backoff, doubled per retry
	Logger        *log.Logger
}

// Client generates banners through fal.ai.
type Client struct {
	http *httputil.JSONClient
	opts ClientOptions
}

// NewClient creates a client authenticated with a fal.ai key.
func NewClient(apiKey string, opts ClientOptions) *Client {
	if opts.LLMEndpoint == "" {
		opts.LLMEndpoint = DefaultLLMEndpoint
	}
	if opts.ImageEndpoint == "" {
		opts.ImageEndpoint = DefaultImageEndpoint
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Timeout == 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Attempts == 0 {
		opts.Attempts = defaultAttempts
	}
	if opts.RetryDelay == 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Client{
		http: httputil.NewJSONClient(opts.Timeout, map[string]string{
			"Authorization": "Key " + apiKey,
		}),
		opts: opts,
	}
}

type llmRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type llmResponse struct {
	Output string `json:"output"`
}

type imageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type imageRequest struct {
	Prompt              string    `json:"prompt"`
	ImageSize           imageSize `json:"image_size"`
	NumInferenceSteps   int       `json:"num_inference_steps"`
	NumImages           int       `json:"num_images"`
	EnableSafetyChecker bool      `json:"enable_safety_checker"`
	OutputFormat        string    `json:"output_format"`
	Acceleration        string    `json:"acceleration"`
}

type falImage struct {
	URL         string `json:"url"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ContentType string `json:"content_type"`
}

type imageResponse struct {
	Images []falImage `json:"images"`
	Seed   int64      `json:"seed"`
	Prompt string     `json:"prompt"`
}

// Prompt asks the LLM for an image prompt. It never fails: any error or
// unusable answer yields [FallbackPrompt].
func (c *Client) Prompt(ctx context.Context, a *Agent) string {
	var resp llmResponse
	err := c.http.Post(ctx, c.opts.LLMEndpoint, llmRequest{
		Model:  c.opts.Model,
		Prompt: LLMPrompt(a),
	}, &resp)
	if err != nil {
		c.opts.Logger.Warn("banner prompt failed, using fallback", "symbol", a.Symbol, "error", err)
		return FallbackPrompt(a)
	}
	prompt, ok := acceptPrompt(resp.Output)
	if !ok {
		c.opts.Logger.Debug("banner prompt too short, using fallback", "symbol", a.Symbol)
		return FallbackPrompt(a)
	}
	c.opts.Logger.Debug("banner prompt", "symbol", a.Symbol, "prompt", truncate(prompt, 100))
	return prompt
}

// Image renders prompt and returns the hosted image URL. Transient
// failures are retried with backoff.
func (c *Client) Image(ctx context.Context, prompt string) (string, error) {
	req := imageRequest{
		Prompt:              prompt,
		ImageSize:           imageSize{Width: Width, Height: Height},
		NumInferenceSteps:   inferenceSteps,
		NumImages:           1,
		EnableSafetyChecker: true,
		OutputFormat:        outputFormat,
		Acceleration:        acceleration,
	}

	var resp imageResponse
	err := httputil.Retry(ctx, c.opts.Attempts, c.opts.RetryDelay, func() error {
		return c.http.Post(ctx, c.opts.ImageEndpoint, req, &resp)
	})
	if err != nil {
		return "", err
	}
	if len(resp.Images) == 0 || resp.Images[0].URL == "" {
		return "", errors.New(errors.ErrCodeUpstream, "image response contained no image")
	}
	return resp.Images[0].URL, nil
}

// Generate writes a prompt for the agent and renders it.
func (c *Client) Generate(ctx context.Context, a *Agent) (string, error) {
	url, err := c.Image(ctx, c.Prompt(ctx, a))
	if err != nil {
		code := errors.GetCode(err)
		if code == "" {
			code = errors.ErrCodeUpstream
		}
		return "", errors.Wrap(code, err, "banner for %s", a.Symbol)
	}
	c.opts.Logger.Info("generated banner", "symbol", a.Symbol, "url", truncate(url, 80))
	return url, nil
}

var _ Generator = (*Client)(nil)
