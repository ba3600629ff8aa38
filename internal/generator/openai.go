package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"ragchat/internal/domain"
)

const defaultSystemPrompt = "You are a helpful assistant. Answer the question based on the provided context. " +
	"If you cannot answer based on the context, say so."

// OpenAI generates answers through an OpenAI chat model, implementing
// domain.Generator. Retrieved chunks become a context block in the prompt,
// bounded by a character budget.
type OpenAI struct {
	llm          llms.Model
	systemPrompt string
	contextSize  int
}

// Config configures the answer generator.
type Config struct {
	BaseURL      string
	APIKey       string
	Model        string
	SystemPrompt string
	ContextSize  int
}

// New creates a generator backed by the OpenAI chat completions API.
func New(cfg Config) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, domain.ErrMissingAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-3.5-turbo"
	}
	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("init openai client: %w", err)
	}
	return NewWithClient(llm, cfg.SystemPrompt, cfg.ContextSize), nil
}

// NewWithClient wraps an existing llms.Model; used by tests to substitute
// a deterministic fake.
func NewWithClient(llm llms.Model, systemPrompt string, contextSize int) *OpenAI {
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}
	if contextSize <= 0 {
		contextSize = 8000
	}
	return &OpenAI{llm: llm, systemPrompt: systemPrompt, contextSize: contextSize}
}

// Answer generates an answer to the question from the supporting chunks.
// Support is assumed ordered best-first; lowest-ranked chunks are dropped
// once the context budget is exceeded.
func (g *OpenAI) Answer(ctx context.Context, question string, support []domain.SearchResult) (string, error) {
	prompt := fmt.Sprintf("Context:\n%s\n\nQuestion: %s\n\nAnswer:", g.buildContext(support), question)
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, g.systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}
	response, err := g.llm.GenerateContent(ctx, messages, llms.WithTemperature(0))
	if err != nil {
		return "", fmt.Errorf("%w: generate answer: %v", domain.ErrService, err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("%w: generate answer: empty response", domain.ErrService)
	}
	return response.Choices[0].Content, nil
}

func (g *OpenAI) buildContext(support []domain.SearchResult) string {
	var b strings.Builder
	for i, res := range support {
		part := fmt.Sprintf("[%d] Source: %s\n%s", i+1, res.Chunk.Source, res.Chunk.Text)
		if b.Len() > 0 && b.Len()+len(part)+2 > g.contextSize {
			break
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(part)
	}
	return b.String()
}
