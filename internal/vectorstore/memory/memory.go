package memory

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	"ragchat/internal/domain"
)

// Store is an in-process vector store using brute-force cosine similarity.
// It keeps nothing on disk; it exists for tests and throwaway runs.
type Store struct {
	mu      sync.RWMutex
	chunks  []domain.Chunk
	vectors [][]float32
}

func New() *Store { return &Store{} }

// Upsert replaces any existing entries with the same chunk ID and appends
// the rest.
func (s *Store) Upsert(ctx context.Context, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, ch := range chunks {
		if j, ok := s.indexOf(ch.ID); ok {
			s.chunks[j] = ch
			s.vectors[j] = vectors[i]
			continue
		}
		s.chunks = append(s.chunks, ch)
		s.vectors = append(s.vectors, vectors[i])
	}
	return nil
}

// Query returns the topK chunks ordered by descending cosine similarity.
func (s *Store) Query(ctx context.Context, vector []float32, topK int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 {
		topK = 3
	}
	results := make([]domain.SearchResult, len(s.chunks))
	for i := range s.chunks {
		results[i] = domain.SearchResult{Chunk: s.chunks[i], Score: cosine(s.vectors[i], vector)}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK], nil
}

// DeleteDocument removes every chunk whose source document matches, and
// no others.
func (s *Store) DeleteDocument(ctx context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	chunks := s.chunks[:0]
	vectors := s.vectors[:0]
	for i, ch := range s.chunks {
		if ch.DocumentID == documentID {
			continue
		}
		chunks = append(chunks, ch)
		vectors = append(vectors, s.vectors[i])
	}
	s.chunks = chunks
	s.vectors = vectors
	return nil
}

// Clear removes all entries.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = nil
	s.vectors = nil
	return nil
}

// Len reports the number of stored chunks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

func (s *Store) indexOf(chunkID string) (int, bool) {
	for i, ch := range s.chunks {
		if ch.ID == chunkID {
			return i, true
		}
	}
	return 0, false
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
