package domain

import "context"

// Format identifies a supported document format.
type Format string

const (
	FormatText Format = "txt"
	FormatPDF  Format = "pdf"
)

// Document represents a single source file loaded into the system.
// It is immutable once loaded.
type Document struct {
	ID      string
	Name    string
	Path    string
	Format  Format
	Content string
}

// Chunk is a bounded segment of a document used for embedding and retrieval.
type Chunk struct {
	ID         string
	DocumentID string
	Source     string
	Index      int
	Text       string
}

// SearchResult is a matching chunk with a similarity score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// Answer is the generated text together with the chunks used as context.
// It is transient and never persisted.
type Answer struct {
	Text    string
	Sources []SearchResult
}

// Embedder converts text into fixed-dimension numeric vectors via an
// external embedding service.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Chunker splits documents into chunks suitable for embedding.
// Splitting must be deterministic for a given document and configuration.
type Chunker interface {
	Split(document Document) ([]Chunk, error)
}

// VectorStore persists (vector, chunk) pairs and supports similarity search.
// Result ordering is descending by the store's own similarity metric.
type VectorStore interface {
	Upsert(ctx context.Context, chunks []Chunk, vectors [][]float32) error
	Query(ctx context.Context, vector []float32, topK int) ([]SearchResult, error)
	DeleteDocument(ctx context.Context, documentID string) error
	Clear(ctx context.Context) error
}

// Retriever returns the chunks most relevant to a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]SearchResult, error)
}

// Generator produces an answer from a question and its supporting chunks
// via an external LLM service.
type Generator interface {
	Answer(ctx context.Context, question string, support []SearchResult) (string, error)
}
