package openai

import (
	"log/slog"
	"net/http"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Config for the OpenAI client.
type Config struct {
	APIKey        string
	BaseURL       string        // optional; tests point this at httptest
	Model         string        // default "gpt-4o-mini"
	Temperature   float64       // sent as given; 0 is a valid setting
	MaxTokens     int           // default 2000
	Timeout       time.Duration // http client timeout, default 60s
	MaxRetries    int           // SDK transport retries
	MaxInputChars int           // longer inputs are truncated, default 12000
	HTTPClient    *http.Client  // optional
}

// Client formats text through chat completions.
type Client struct {
	cfg    Config
	client openai.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Temperature < 0 {
		cfg.Temperature = 0
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.MaxInputChars <= 0 {
		cfg.MaxInputChars = 12000
	}
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		cfg:    cfg,
		client: openai.NewClient(opts...),
		logger: logger,
	}
}

// Model returns the configured model.
func (c *Client) Model() string { return c.cfg.Model }
