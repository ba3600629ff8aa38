package chromem

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	chromemgo "github.com/philippgille/chromem-go"

	"ragchat/internal/domain"
)

const collectionName = "ragchat"

// Store persists vectors in an embedded chromem-go database under a local
// directory, implementing domain.VectorStore. Similarity search and on-disk
// persistence are the library's; this type only maps chunks to documents.
type Store struct {
	db *chromemgo.DB

	mu         sync.Mutex
	collection *chromemgo.Collection
}

// New opens (or creates) the database in dir.
func New(dir string) (*Store, error) {
	db, err := chromemgo.NewPersistentDB(dir, false)
	if err != nil {
		return nil, fmt.Errorf("open vector store %s: %w", dir, err)
	}
	s := &Store{db: db}
	if _, err := s.getCollection(); err != nil {
		return nil, err
	}
	return s, nil
}

// Upsert writes chunks with their precomputed vectors.
func (s *Store) Upsert(ctx context.Context, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	if len(chunks) == 0 {
		return nil
	}
	col, err := s.getCollection()
	if err != nil {
		return err
	}
	docs := make([]chromemgo.Document, len(chunks))
	for i, ch := range chunks {
		docs[i] = chromemgo.Document{
			ID: ch.ID,
			Metadata: map[string]string{
				"document_id": ch.DocumentID,
				"source":      ch.Source,
				"index":       strconv.Itoa(ch.Index),
			},
			Embedding: vectors[i],
			Content:   ch.Text,
		}
	}
	// concurrency 1: ingestion is a single blocking loop
	if err := col.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("%w: chromem upsert: %v", domain.ErrService, err)
	}
	return nil
}

// Query returns up to topK chunks ordered by descending cosine similarity.
// topK is clamped to the collection size; an empty store yields no results.
func (s *Store) Query(ctx context.Context, vector []float32, topK int) ([]domain.SearchResult, error) {
	col, err := s.getCollection()
	if err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = 3
	}
	if n := col.Count(); topK > n {
		topK = n
	}
	if topK == 0 {
		return nil, nil
	}
	found, err := col.QueryEmbedding(ctx, vector, topK, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: chromem query: %v", domain.ErrService, err)
	}
	results := make([]domain.SearchResult, 0, len(found))
	for _, r := range found {
		idx, _ := strconv.Atoi(r.Metadata["index"])
		results = append(results, domain.SearchResult{
			Chunk: domain.Chunk{
				ID:         r.ID,
				DocumentID: r.Metadata["document_id"],
				Source:     r.Metadata["source"],
				Index:      idx,
				Text:       r.Content,
			},
			Score: float64(r.Similarity),
		})
	}
	return results, nil
}

// DeleteDocument removes every chunk whose document_id metadata matches.
func (s *Store) DeleteDocument(ctx context.Context, documentID string) error {
	col, err := s.getCollection()
	if err != nil {
		return err
	}
	if col.Count() == 0 {
		return nil
	}
	if err := col.Delete(ctx, map[string]string{"document_id": documentID}, nil); err != nil {
		return fmt.Errorf("%w: chromem delete: %v", domain.ErrService, err)
	}
	return nil
}

// Clear drops the collection; it is recreated empty on next use.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.DeleteCollection(collectionName); err != nil {
		return fmt.Errorf("%w: chromem clear: %v", domain.ErrService, err)
	}
	s.collection = nil
	return nil
}

func (s *Store) getCollection() (*chromemgo.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collection != nil {
		return s.collection, nil
	}
	// Vectors are always supplied precomputed, so the collection never
	// embeds on its own.
	col, err := s.db.GetOrCreateCollection(collectionName, nil, noEmbedding)
	if err != nil {
		return nil, fmt.Errorf("open collection: %w", err)
	}
	s.collection = col
	return col, nil
}

func noEmbedding(ctx context.Context, text string) ([]float32, error) {
	return nil, errors.New("embeddings must be supplied by the external embedding client")
}
