package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kataras/golog"

	"ragchat/internal/domain"
	"ragchat/internal/loader"
)

// RAG wires the loader, chunker, embedder, vector store, retriever and
// generator into the operations exposed by the CLI. It holds no session
// state; the vector store's on-disk persistence is the only state that
// survives an invocation.
type RAG struct {
	loader    *loader.Loader
	chunker   domain.Chunker
	embedder  domain.Embedder
	store     domain.VectorStore
	retriever domain.Retriever
	generator domain.Generator
	docsDir   string
}

func New(l *loader.Loader, chunker domain.Chunker, embedder domain.Embedder, store domain.VectorStore, retriever domain.Retriever, generator domain.Generator, docsDir string) *RAG {
	return &RAG{
		loader:    l,
		chunker:   chunker,
		embedder:  embedder,
		store:     store,
		retriever: retriever,
		generator: generator,
		docsDir:   docsDir,
	}
}

// IngestStats summarizes one ingestion pass.
type IngestStats struct {
	Documents int
	Chunks    int
}

// Ingest loads the documents directory, chunks, embeds and upserts every
// document. Embedding failures abort the pass; chunks already upserted for
// earlier documents stay in the store (no rollback).
func (s *RAG) Ingest(ctx context.Context) (IngestStats, error) {
	docs, err := s.loader.Directory(ctx, s.docsDir)
	if err != nil {
		return IngestStats{}, err
	}
	if len(docs) == 0 {
		return IngestStats{}, domain.ErrNoDocuments
	}
	stats := IngestStats{}
	for _, doc := range docs {
		chunks, err := s.chunker.Split(doc)
		if err != nil {
			return stats, err
		}
		if len(chunks) == 0 {
			golog.Warnf("document %s produced no chunks", doc.Name)
			continue
		}
		texts := make([]string, len(chunks))
		for i, ch := range chunks {
			texts[i] = ch.Text
		}
		vectors, err := s.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return stats, fmt.Errorf("embed %s: %w", doc.Name, err)
		}
		if err := s.store.Upsert(ctx, chunks, vectors); err != nil {
			return stats, fmt.Errorf("upsert %s: %w", doc.Name, err)
		}
		golog.Infof("indexed %s: %d chunks", doc.Name, len(chunks))
		stats.Documents++
		stats.Chunks += len(chunks)
	}
	return stats, nil
}

// Ask retrieves the most relevant chunks for the question and generates an
// answer from them.
func (s *RAG) Ask(ctx context.Context, question string) (domain.Answer, error) {
	support, err := s.retriever.Retrieve(ctx, question, 0)
	if err != nil {
		return domain.Answer{}, err
	}
	text, err := s.generator.Answer(ctx, question, support)
	if err != nil {
		return domain.Answer{}, err
	}
	return domain.Answer{Text: text, Sources: support}, nil
}

// AddDocuments copies supported files into the documents directory. When at
// least one file was added the vector store is cleared so the next session
// reindexes everything.
func (s *RAG) AddDocuments(ctx context.Context, paths []string) (int, error) {
	if err := os.MkdirAll(s.docsDir, 0o755); err != nil {
		return 0, err
	}
	added := 0
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			golog.Warnf("skipping %s: %v", path, err)
			continue
		}
		name := filepath.Base(path)
		if !loader.Supported(name) {
			golog.Warnf("skipping %s: %v (only .txt and .pdf are supported)", name, domain.ErrUnsupportedFormat)
			continue
		}
		if err := copyFile(path, filepath.Join(s.docsDir, name)); err != nil {
			golog.Warnf("adding %s failed: %v", name, err)
			continue
		}
		golog.Infof("added document %s", name)
		added++
	}
	if added > 0 {
		if err := s.store.Clear(ctx); err != nil {
			return added, fmt.Errorf("clear store for reindex: %w", err)
		}
	}
	return added, nil
}

// DocumentInfo describes one file in the documents directory.
type DocumentInfo struct {
	Name string
	Size int64
}

// ListDocuments returns the files in the documents directory, sorted by name.
func (s *RAG) ListDocuments() ([]DocumentInfo, error) {
	entries, err := os.ReadDir(s.docsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrMissingDirectory, s.docsDir)
		}
		return nil, err
	}
	var infos []DocumentInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		infos = append(infos, DocumentInfo{Name: e.Name(), Size: fi.Size()})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// RemoveDocuments deletes documents by name, cascading removal of their
// chunks and vectors. A name that matches no file exactly is treated as a
// substring; a unique match is removed, an ambiguous one is an error.
func (s *RAG) RemoveDocuments(ctx context.Context, names []string) ([]string, error) {
	var removed []string
	for _, name := range names {
		resolved, err := s.resolveName(name)
		if err != nil {
			return removed, err
		}
		if resolved == "" {
			golog.Warnf("document %s not found", name)
			continue
		}
		if err := os.Remove(filepath.Join(s.docsDir, resolved)); err != nil {
			return removed, fmt.Errorf("remove %s: %w", resolved, err)
		}
		if err := s.store.DeleteDocument(ctx, loader.DocumentID(resolved)); err != nil {
			return removed, err
		}
		golog.Infof("removed document %s", resolved)
		removed = append(removed, resolved)
	}
	return removed, nil
}

// ClearDB empties the vector store. The documents directory is untouched.
func (s *RAG) ClearDB(ctx context.Context) error {
	return s.store.Clear(ctx)
}

func (s *RAG) resolveName(name string) (string, error) {
	if _, err := os.Stat(filepath.Join(s.docsDir, name)); err == nil {
		return name, nil
	}
	entries, err := os.ReadDir(s.docsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", domain.ErrMissingDirectory, s.docsDir)
		}
		return "", err
	}
	var matches []string
	for _, e := range entries {
		if !e.IsDir() && strings.Contains(e.Name(), name) {
			matches = append(matches, e.Name())
		}
	}
	switch len(matches) {
	case 0:
		return "", nil
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%q matches multiple documents: %s", name, strings.Join(matches, ", "))
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
