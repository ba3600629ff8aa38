package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragchat/internal/domain"
)

func TestDirectoryLoadsTextFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("second file"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("first file"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.md"), []byte("unsupported"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	docs, err := New().Directory(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "a.txt", docs[0].Name)
	assert.Equal(t, "first file", docs[0].Content)
	assert.Equal(t, domain.FormatText, docs[0].Format)
	assert.Equal(t, DocumentID("a.txt"), docs[0].ID)
	assert.Equal(t, "b.txt", docs[1].Name)
}

func TestDirectoryMissing(t *testing.T) {
	_, err := New().Directory(context.Background(), filepath.Join(t.TempDir(), "absent"))
	assert.ErrorIs(t, err, domain.ErrMissingDirectory)
}

func TestDirectoryEmpty(t *testing.T) {
	docs, err := New().Directory(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestFileUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.docx")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := New().File(context.Background(), path)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestFileText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Doc.TXT")
	require.NoError(t, os.WriteFile(path, []byte("case insensitive extension"), 0o644))

	doc, err := New().File(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Doc.TXT", doc.Name)
	assert.Equal(t, "case insensitive extension", doc.Content)
	assert.Equal(t, path, doc.Path)
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("a.txt"))
	assert.True(t, Supported("a.PDF"))
	assert.False(t, Supported("a.md"))
	assert.False(t, Supported("txt"))
}

func TestDocumentIDStable(t *testing.T) {
	assert.Equal(t, DocumentID("a.txt"), DocumentID("a.txt"))
	assert.NotEqual(t, DocumentID("a.txt"), DocumentID("b.txt"))
	assert.Len(t, DocumentID("a.txt"), 16)
}
