package chunker

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"ragchat/internal/domain"
)

// RecursiveChunker splits document text into overlapping fixed-size chunks
// using langchaingo's recursive character splitter. Splitting is
// deterministic for a given document and configuration, and no produced
// chunk is empty.
type RecursiveChunker struct {
	chunkSize    int
	chunkOverlap int
	splitter     textsplitter.RecursiveCharacter
}

func NewRecursive(chunkSize, chunkOverlap int) *RecursiveChunker {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if chunkOverlap < 0 {
		chunkOverlap = 0
	}
	if chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 10
	}
	return &RecursiveChunker{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
		),
	}
}

// Split chunks the document, tagging each chunk with its source document
// and position.
func (c *RecursiveChunker) Split(document domain.Document) ([]domain.Chunk, error) {
	texts, err := c.splitter.SplitText(document.Content)
	if err != nil {
		return nil, fmt.Errorf("split %s: %w", document.Name, err)
	}
	var chunks []domain.Chunk
	idx := 0
	for _, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		chunks = append(chunks, domain.Chunk{
			ID:         document.ID + ":" + strconv.Itoa(idx),
			DocumentID: document.ID,
			Source:     document.Name,
			Index:      idx,
			Text:       text,
		})
		idx++
	}
	return chunks, nil
}
