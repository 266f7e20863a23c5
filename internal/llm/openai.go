package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	// DefaultBaseURL points at OpenRouter's OpenAI-compatible API.
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	// DefaultModel is the vision-language model used for dental analysis.
	DefaultModel = "qwen/qwen2.5-vl-32b-instruct:free"
)

var (
	// ErrMissingAPIKey is returned before any request is made when no credential is configured.
	ErrMissingAPIKey = errors.New("missing API key")
	// ErrNoChoices indicates a well-formed response without completions.
	ErrNoChoices = errors.New("no choices returned")
)

// VisionClient defines the behaviour required by the dental analyzer.
type VisionClient interface {
	VisionCompletion(ctx context.Context, prompt, imageURL string) (string, error)
	Model() string
}

// Options configures an OpenAIClient. Empty fields fall back to defaults.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	apiKey  string
	model   string
	baseURL string
	client  openai.Client
}

// NewOpenAIClient constructs a client bound to a single endpoint and model.
// Retries are disabled: each call makes exactly one attempt.
func NewOpenAIClient(opts Options) *OpenAIClient {
	baseURL := strings.TrimSpace(opts.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}
	apiKey := strings.TrimSpace(opts.APIKey)

	reqOpts := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if opts.HTTPClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(opts.HTTPClient))
	}

	return &OpenAIClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		client:  openai.NewClient(reqOpts...),
	}
}

// Model reports the model identifier sent with every request.
func (c *OpenAIClient) Model() string {
	return c.model
}

// BaseURL reports the endpoint the client targets.
func (c *OpenAIClient) BaseURL() string {
	return c.baseURL
}

// VisionCompletion sends one user turn made of a text part and an image part
// and returns the first choice's content unmodified.
func (c *OpenAIClient) VisionCompletion(ctx context.Context, prompt, imageURL string) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(prompt),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: imageURL,
				}),
			}),
		},
	})
	if err != nil {
		return "", fmt.Errorf("perform request: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", ErrNoChoices
	}
	return completion.Choices[0].Message.Content, nil
}
