package coach

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
	"github.com/sensei-learn/backend/internal/config"
)

// LLMClient is the interface every provider satisfies.
type LLMClient interface {
	Generate(ctx context.Context, systemPrompt string, messages []Message, tuning Tuning) (*LLMResponse, error)
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// UserMessage is a single-turn conversation.
func UserMessage(text string) []Message {
	return []Message{{Role: RoleUser, Content: text}}
}

// Tuning carries the per-call generation knobs.
type Tuning struct {
	MaxTokens   int
	Temperature float64
}

// LLMResponse holds the raw response text and token usage.
type LLMResponse struct {
	Content      string
	PromptTokens int
	OutputTokens int
}

// NewClient builds the provider named in cfg and wraps it with retries.
// It returns ErrNotConfigured when that provider has no API key.
func NewClient(ctx context.Context, cfg config.CoachConfig) (LLMClient, error) {
	var llm LLMClient
	switch cfg.Provider {
	case "mock":
		log.Println("[coach] using mock responses")
		return NewMockClient(), nil
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			return nil, ErrNotConfigured
		}
		llm = NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		log.Println("[coach] using Anthropic API:", cfg.AnthropicModel)
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, ErrNotConfigured
		}
		llm = NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
		log.Println("[coach] using OpenAI-compatible API:", cfg.OpenAIModel)
	case "gemini", "":
		if cfg.GeminiAPIKey == "" {
			return nil, ErrNotConfigured
		}
		g, err := NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		llm = g
		log.Println("[coach] using Gemini API:", cfg.GeminiModel)
	default:
		return nil, fmt.Errorf("unknown coach provider %q", cfg.Provider)
	}

	retry := DefaultRetryConfig()
	if cfg.MaxAttempts > 0 {
		retry.MaxAttempts = cfg.MaxAttempts
	}
	return WithRetry(llm, retry), nil
}

// ── AnthropicClient ────────────────────────────────────────

type AnthropicClient struct {
	client *anthropic.Client
	model  string
}

func NewAnthropicClient(apiKey, model string) *AnthropicClient {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)
	return &AnthropicClient{client: &client, model: model}
}

func (c *AnthropicClient) Generate(ctx context.Context, systemPrompt string, messages []Message, tuning Tuning) (*LLMResponse, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(tuning.MaxTokens),
		Messages:  make([]anthropic.MessageParam, 0, len(messages)),
	}
	if tuning.Temperature > 0 {
		params.Temperature = param.NewOpt(tuning.Temperature)
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemPrompt}}
	}
	for _, m := range messages {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == RoleAssistant {
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(block))
		} else {
			params.Messages = append(params.Messages, anthropic.NewUserMessage(block))
		}
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, mapAnthropicError(err)
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}
	if responseText == "" {
		return nil, &ErrInvalidResponse{Err: errors.New("no text content in API response")}
	}

	return &LLMResponse{
		Content:      responseText,
		PromptTokens: int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
	}, nil
}

func mapAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
		return &ErrRateLimit{Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}
