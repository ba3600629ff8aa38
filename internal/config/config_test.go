package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragchat/internal/domain"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "documents", cfg.DocumentsDir)
	assert.Equal(t, "OPENAI_API_KEY", cfg.OpenAI.APIKeyEnv)
	assert.Equal(t, "text-embedding-3-small", cfg.OpenAI.EmbeddingModel)
	assert.Equal(t, "gpt-3.5-turbo", cfg.OpenAI.ChatModel)
	assert.Equal(t, 1000, cfg.Chunker.ChunkSize)
	assert.Equal(t, 100, cfg.Chunker.ChunkOverlap)
	assert.Equal(t, "chromem", cfg.VectorStore.Type)
	assert.Equal(t, "ragchat_db", cfg.VectorStore.DataDir)
	assert.Equal(t, 3, cfg.Retrieval.TopK)
	assert.Equal(t, 8000, cfg.Retrieval.ContextSize)
}

func TestLoadAppliesFileValuesAndFillsGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `documents_dir: /var/docs
openai:
  chat_model: gpt-4o-mini
chunker:
  chunk_size: 500
retrieval:
  top_k: 5
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/docs", cfg.DocumentsDir)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.ChatModel)
	assert.Equal(t, 500, cfg.Chunker.ChunkSize)
	assert.Equal(t, 5, cfg.Retrieval.TopK)

	// gaps fall back to defaults
	assert.Equal(t, "text-embedding-3-small", cfg.OpenAI.EmbeddingModel)
	assert.Equal(t, 100, cfg.Chunker.ChunkOverlap)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("documents_dir: [broken"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestOverlapClampedBelowChunkSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `chunker:
  chunk_size: 200
  chunk_overlap: 300
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Chunker.ChunkSize)
	assert.Equal(t, 20, cfg.Chunker.ChunkOverlap)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultConfig()
	cfg.DocumentsDir = "mydocs"
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mydocs", loaded.DocumentsDir)
	assert.Equal(t, cfg.Retrieval.TopK, loaded.Retrieval.TopK)
}

func TestAPIKeyFromEnvironment(t *testing.T) {
	cfg := defaultConfig()
	cfg.OpenAI.APIKeyEnv = "RAGCHAT_TEST_KEY"

	t.Setenv("RAGCHAT_TEST_KEY", "sk-test")
	key, err := cfg.APIKey()
	require.NoError(t, err)
	assert.Equal(t, "sk-test", key)

	t.Setenv("RAGCHAT_TEST_KEY", "")
	_, err = cfg.APIKey()
	assert.ErrorIs(t, err, domain.ErrMissingAPIKey)
}
