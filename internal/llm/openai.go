package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/rs/zerolog"

	"github.com/brightpath/voice-tutor/internal/config"
	"github.com/brightpath/voice-tutor/internal/observability"
)

// OpenAIGenerator produces tutor replies with the OpenAI chat completions API.
type OpenAIGenerator struct {
	client openai.Client
	model  string
	logger zerolog.Logger
}

// NewOpenAIGenerator creates a generator from service configuration.
func NewOpenAIGenerator(cfg *config.Config, logger zerolog.Logger) *OpenAIGenerator {
	return &OpenAIGenerator{
		client: openai.NewClient(option.WithAPIKey(cfg.OpenAIAPIKey)),
		model:  cfg.OpenAIModel,
		logger: logger.With().Str("component", "llm").Logger(),
	}
}

// Generate returns one complete tutor reply for the request.
func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.History)+2)
	messages = append(messages, openai.SystemMessage(BuildSystemPrompt(req)))

	for _, entry := range req.History {
		switch entry.Role {
		case "assistant":
			messages = append(messages, openai.AssistantMessage(entry.Content))
		default:
			messages = append(messages, openai.UserMessage(entry.Content))
		}
	}

	messages = append(messages, openai.UserMessage(req.UserText))

	start := time.Now()
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: messages,
		Model:    openai.ChatModel(g.model),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	observability.ObserveGenerationDuration(time.Since(start).Seconds())

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	reply := resp.Choices[0].Message.Content
	if reply == "" {
		return "", fmt.Errorf("chat completion returned an empty reply")
	}

	g.logger.Debug().
		Str("model", g.model).
		Int("history_len", len(req.History)).
		Int("context_snippets", len(req.Context)).
		Int("reply_len", len(reply)).
		Msg("Generated tutor reply")

	return reply, nil
}
