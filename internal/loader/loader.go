package loader

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kataras/golog"
	"github.com/tmc/langchaingo/documentloaders"

	"ragchat/internal/domain"
)

// Loader reads supported documents (.txt, .pdf) from disk.
type Loader struct{}

func New() *Loader { return &Loader{} }

// Directory loads every supported file in dir, sorted by name.
// Unreadable files are logged and skipped; a missing directory is a
// configuration error.
func (l *Loader) Directory(ctx context.Context, dir string) ([]domain.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrMissingDirectory, dir)
		}
		return nil, err
	}
	var docs []domain.Document
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		format, ok := formatForName(e.Name())
		if !ok {
			continue
		}
		doc, err := l.load(ctx, filepath.Join(dir, e.Name()), format)
		if err != nil {
			golog.Warnf("skipping %s: %v", e.Name(), err)
			continue
		}
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}

// File loads a single document and rejects unsupported extensions.
func (l *Loader) File(ctx context.Context, path string) (domain.Document, error) {
	format, ok := formatForName(path)
	if !ok {
		return domain.Document{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filepath.Ext(path))
	}
	return l.load(ctx, path, format)
}

func (l *Loader) load(ctx context.Context, path string, format domain.Format) (domain.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Document{}, err
	}
	defer f.Close()

	var content string
	switch format {
	case domain.FormatPDF:
		info, err := f.Stat()
		if err != nil {
			return domain.Document{}, err
		}
		pages, err := documentloaders.NewPDF(f, info.Size()).Load(ctx)
		if err != nil {
			return domain.Document{}, fmt.Errorf("read pdf %s: %w", path, err)
		}
		parts := make([]string, 0, len(pages))
		for _, p := range pages {
			parts = append(parts, p.PageContent)
		}
		content = strings.Join(parts, "\n\n")
	default:
		docs, err := documentloaders.NewText(f).Load(ctx)
		if err != nil {
			return domain.Document{}, fmt.Errorf("read %s: %w", path, err)
		}
		if len(docs) > 0 {
			content = docs[0].PageContent
		}
	}

	name := filepath.Base(path)
	return domain.Document{
		ID:      DocumentID(name),
		Name:    name,
		Path:    path,
		Format:  format,
		Content: content,
	}, nil
}

// Supported reports whether the file name has a recognized extension.
func Supported(name string) bool {
	_, ok := formatForName(name)
	return ok
}

// DocumentID derives a stable short identifier from a document name.
func DocumentID(name string) string {
	h := sha1.Sum([]byte(name))
	return hex.EncodeToString(h[:8])
}

func formatForName(name string) (domain.Format, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt":
		return domain.FormatText, true
	case ".pdf":
		return domain.FormatPDF, true
	default:
		return "", false
	}
}
