package advice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/gymmate/gymmate/internal/provider/resilience"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = openai.GPT4oMini

// OpenAIConfig configures the OpenAI generator.
type OpenAIConfig struct {
	APIKey string
	Model  string
	// BaseURL overrides the API endpoint.
	BaseURL string
	// HTTPClient carries retries and the circuit breaker.
	HTTPClient *resilience.Client
}

// OpenAI generates text with the OpenAI chat completions API.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates an OpenAI generator.
func NewOpenAI(cfg OpenAIConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoCredentials
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = resilience.NewClient(resilience.DefaultClientConfig("openai"))
	}
	clientCfg.HTTPClient = cfg.HTTPClient
	return &OpenAI{client: openai.NewClientWithConfig(clientCfg), model: cfg.Model}, nil
}

// Name returns "openai".
func (o *OpenAI) Name() string { return "openai" }

// Generate sends the prompt as a single user message.
func (o *OpenAI) Generate(ctx context.Context, req Request) (string, error) {
	chat := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
	}
	if req.Temperature != nil {
		chat.Temperature = *req.Temperature
	}
	resp, err := o.client.CreateChatCompletion(ctx, chat)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("openai: status %d: %w", apiErr.HTTPStatusCode, err)
		}
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
