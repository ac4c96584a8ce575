package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openaigo "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/decoynet/decoy/internal/domain"
)

const requestTimeout = 20 * time.Second

// Config holds generation backend settings. BaseURL points at any
// OpenAI-compatible chat completions endpoint (Groq, LiteLLM, ...).
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int64
}

// OpenAIGenerator implements Generator against an OpenAI-compatible API.
type OpenAIGenerator struct {
	client openaigo.Client
	cfg    Config
}

// NewOpenAIGenerator builds the backend client.
func NewOpenAIGenerator(cfg Config) (*OpenAIGenerator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("llm config incomplete: api key is required")
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.8
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 150
	}

	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		option.WithHTTPClient(&http.Client{Timeout: requestTimeout}),
		option.WithRequestTimeout(requestTimeout),
		option.WithMaxRetries(1),
	}
	if base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); base != "" {
		opts = append(opts, option.WithBaseURL(base))
	}

	return &OpenAIGenerator{client: openaigo.NewClient(opts...), cfg: cfg}, nil
}

// Generate asks the backend for an in-character reply. Any transport or
// API failure is wrapped in domain.ErrGenerationUnavailable.
func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) (string, error) {
	completion, err := g.client.Chat.Completions.New(ctx, openaigo.ChatCompletionNewParams{
		Model: openaigo.ChatModel(g.cfg.Model),
		Messages: []openaigo.ChatCompletionMessageParamUnion{
			openaigo.SystemMessage(BuildSystemPrompt(req)),
			openaigo.UserMessage(req.Message),
		},
		Temperature: openaigo.Float(g.cfg.Temperature),
		MaxTokens:   openaigo.Int(g.cfg.MaxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationUnavailable, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", domain.ErrGenerationUnavailable)
	}

	reply := CleanReply(completion.Choices[0].Message.Content)
	if reply == "" {
		return "", fmt.Errorf("%w: blank reply", domain.ErrGenerationUnavailable)
	}
	return reply, nil
}
