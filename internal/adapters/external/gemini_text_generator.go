package external

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"weathermail.app/internal/ports"
	"weathermail.app/pkg/errors"
)

const (
	defaultGeminiModel   = "gemini-2.0-flash"
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
	defaultGeminiTimeout = 60 * time.Second
)

// GeminiTextGenerator implements the TextGenerator port against Gemini's
// OpenAI-compatible chat completions endpoint.
type GeminiTextGenerator struct {
	client *openai.Client
	model  string
	logger ports.Logger
}

// GeminiTextGeneratorParams holds parameters for creating the Gemini text generator
type GeminiTextGeneratorParams struct {
	APIKey     string
	Model      string
	BaseURL    string
	Logger     ports.Logger
	HTTPClient *http.Client
}

func NewGeminiTextGenerator(params GeminiTextGeneratorParams) *GeminiTextGenerator {
	config := openai.DefaultConfig(params.APIKey)
	baseURL := params.BaseURL
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	config.BaseURL = strings.TrimRight(baseURL, "/")
	config.HTTPClient = params.HTTPClient
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: defaultGeminiTimeout}
	}

	model := params.Model
	if model == "" {
		model = defaultGeminiModel
	}

	return &GeminiTextGenerator{
		client: openai.NewClientWithConfig(config),
		model:  model,
		logger: params.Logger,
	}
}

// GenerateText sends prompt as a single user message and returns the first choice verbatim
func (g *GeminiTextGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		g.logger.Error("Chat completion request failed",
			ports.F("model", g.model),
			ports.F("error", err))
		return "", errors.NewUpstreamError("text generation failed", fmt.Errorf("chat completion: %w", err))
	}

	if len(resp.Choices) == 0 {
		return "", errors.NewUpstreamError("text generation failed", fmt.Errorf("chat completion returned no choices"))
	}

	g.logger.Debug("Chat completion received",
		ports.F("model", g.model),
		ports.F("total_tokens", resp.Usage.TotalTokens))
	return resp.Choices[0].Message.Content, nil
}

// GetProviderName returns the name used for this generator in logs and metrics
func (g *GeminiTextGenerator) GetProviderName() string {
	return "gemini"
}
