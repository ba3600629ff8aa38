package openai

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"ragchat/internal/domain"
)

// Client produces embedding vectors through the OpenAI embeddings API,
// implementing domain.Embedder. Batching and retries are left to the
// underlying langchaingo client.
type Client struct {
	embedder *embeddings.EmbedderImpl
}

// Config configures the embeddings client.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
}

// New creates an embeddings client. The API key must already be resolved;
// a missing key is a configuration error.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, domain.ErrMissingAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithEmbeddingModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("init openai client: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("init embedder: %w", err)
	}
	return &Client{embedder: embedder}, nil
}

// EmbedTexts returns one vector per input text, in input order.
func (c *Client) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := c.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: embed texts: %v", domain.ErrService, err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: embeddings count mismatch: got %d for %d texts", domain.ErrService, len(vectors), len(texts))
	}
	return vectors, nil
}

// EmbedQuery returns the embedding vector for a single query string.
func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vector, err := c.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", domain.ErrService, err)
	}
	return vector, nil
}
