package advice

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/gymmate/gymmate/internal/provider/resilience"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiConfig configures the Gemini generator.
type GeminiConfig struct {
	APIKey string
	Model  string
	Guard  *resilience.Guard
}

// Gemini generates text with the Google Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
	guard  *resilience.Guard
}

// NewGemini creates a Gemini generator.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoCredentials
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.Guard == nil {
		cfg.Guard = resilience.NewGuard(resilience.GuardConfig{Name: "gemini"})
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &Gemini{client: client, model: cfg.Model, guard: cfg.Guard}, nil
}

// Name returns "gemini".
func (g *Gemini) Name() string { return "gemini" }

// Generate sends the prompt as a single text part.
func (g *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	return resilience.Execute(ctx, g.guard, func(ctx context.Context) (string, error) {
		model := g.client.GenerativeModel(g.model)
		configureGemini(model, req)
		resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
		if err != nil {
			return "", err
		}
		return geminiText(resp)
	})
}

// Close releases the underlying client.
func (g *Gemini) Close() error {
	return g.client.Close()
}

func configureGemini(model *genai.GenerativeModel, req Request) {
	if req.Temperature != nil {
		model.SetTemperature(*req.Temperature)
	}
}

func geminiText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", resilience.Permanent(ErrEmptyResponse)
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", resilience.Permanent(ErrEmptyResponse)
	}
	return b.String(), nil
}
