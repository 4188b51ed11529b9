package summarizer

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"gitarag/internal/domain"
)

const systemPrompt = "You are a scholar of the Bhagavad Gita and the Patanjali Yoga Sutras. " +
	"Synthesize the teachings of the verses you are given into one short, plain-language explanation " +
	"answering the seeker's question. Ground every statement in the provided verses and do not invent scripture."

// LLM invokes a pretrained generative model through an OpenAI-compatible
// chat endpoint, once per query. Invocations are stateless and safe for
// concurrent use; the loaded model is a process-wide shared resource on the
// serving side.
type LLM struct {
	client llms.Model
	model  string
}

// LLMConfig configures the model client. Model is the pretrained model
// identifier; APIKeyEnv names the environment variable holding the token.
type LLMConfig struct {
	BaseURL   string
	Model     string
	APIKeyEnv string
}

// NewLLM creates the model client. Local OpenAI-compatible services that
// need no authentication work with an unset key.
func NewLLM(cfg LLMConfig) (*LLM, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("model identifier required")
	}
	token := "none"
	if cfg.APIKeyEnv != "" {
		if key := os.Getenv(cfg.APIKeyEnv); key != "" {
			token = key
		}
	}
	opts := []openai.Option{
		openai.WithToken(token),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating summarizer model client: %w", err)
	}
	return &LLM{client: client, model: cfg.Model}, nil
}

// Summarize conditions the model on the query and assembled verse context.
// Any invocation failure surfaces as ErrSummarizationUnavailable so callers
// can degrade to a verses-only response.
func (l *LLM) Summarize(ctx context.Context, query, passage string, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = 150
	}
	content := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(systemPrompt)},
		},
		{
			Role: schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(
				fmt.Sprintf("Question: %s\n\nVerses: %s", query, passage),
			)},
		},
	}
	response, err := l.client.GenerateContent(ctx, content,
		llms.WithTemperature(0.0),
		llms.WithMaxTokens(maxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", domain.ErrSummarizationUnavailable, l.model, err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("%w: model %s returned no choices", domain.ErrSummarizationUnavailable, l.model)
	}
	summary := strings.TrimSpace(response.Choices[0].Content)
	if summary == "" {
		return "", fmt.Errorf("%w: model %s returned empty output", domain.ErrSummarizationUnavailable, l.model)
	}
	return summary, nil
}
