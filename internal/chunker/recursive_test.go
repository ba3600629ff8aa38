package chunker

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragchat/internal/domain"
)

const sampleText = `The capital of France is Paris. Paris is known for the Eiffel Tower.

The capital of Germany is Berlin. Berlin is known for the Brandenburg Gate.

The capital of Italy is Rome. Rome is known for the Colosseum.`

func testDocument(content string) domain.Document {
	return domain.Document{
		ID:      "doc1",
		Name:    "capitals.txt",
		Format:  domain.FormatText,
		Content: content,
	}
}

func TestSplitDeterministic(t *testing.T) {
	c := NewRecursive(80, 20)
	first, err := c.Split(testDocument(sampleText))
	require.NoError(t, err)
	second, err := c.Split(testDocument(sampleText))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSplitProducesNoEmptyChunks(t *testing.T) {
	c := NewRecursive(40, 10)
	chunks, err := c.Split(testDocument(sampleText))
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for _, ch := range chunks {
		assert.NotEmpty(t, strings.TrimSpace(ch.Text))
	}
}

func TestSplitBackReferences(t *testing.T) {
	c := NewRecursive(80, 20)
	chunks, err := c.Split(testDocument(sampleText))
	require.NoError(t, err)
	require.True(t, len(chunks) > 1, "expected multiple chunks for small chunk size")
	for i, ch := range chunks {
		assert.Equal(t, "doc1", ch.DocumentID)
		assert.Equal(t, "capitals.txt", ch.Source)
		assert.Equal(t, i, ch.Index)
		assert.Equal(t, "doc1:"+strconv.Itoa(i), ch.ID)
	}
}

// With no overlap, concatenating the chunks preserves the document's word
// sequence (whitespace normalization aside).
func TestSplitCoversAllWordsWithoutOverlap(t *testing.T) {
	c := NewRecursive(60, 0)
	chunks, err := c.Split(testDocument(sampleText))
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	var joined []string
	for _, ch := range chunks {
		joined = append(joined, strings.Fields(ch.Text)...)
	}
	assert.Equal(t, strings.Fields(sampleText), joined)
}

func TestSplitEmptyDocument(t *testing.T) {
	c := NewRecursive(100, 10)
	chunks, err := c.Split(testDocument("   \n\n  "))
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestNewRecursiveClampsBadConfig(t *testing.T) {
	c := NewRecursive(0, -5)
	assert.Equal(t, 1000, c.chunkSize)
	assert.Equal(t, 0, c.chunkOverlap)

	c = NewRecursive(100, 200)
	assert.Equal(t, 100, c.chunkSize)
	assert.Equal(t, 10, c.chunkOverlap)
}
