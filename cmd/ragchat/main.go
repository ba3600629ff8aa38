package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/kataras/golog"

	"ragchat/internal/chunker"
	"ragchat/internal/config"
	"ragchat/internal/domain"
	embopenai "ragchat/internal/embedding/openai"
	"ragchat/internal/generator"
	"ragchat/internal/loader"
	"ragchat/internal/retriever"
	"ragchat/internal/service"
	"ragchat/internal/tui"
	"ragchat/internal/vectorstore/chromem"
	"ragchat/internal/vectorstore/memory"
	"ragchat/internal/vectorstore/qdrant"
)

const usage = `Usage:
  ragchat                          interactive question/answer loop
  ragchat -add file.txt file.pdf   add document(s)
  ragchat -list                    list documents
  ragchat -remove name ...         remove document(s) by (partial) name
  ragchat -clear-db                clear the vector database

Flags:
  -config path   YAML config file (default: ./config.yaml, then ~/.config/ragchat/config.yaml)
  -k n           number of chunks to retrieve per question
`

func main() {
	_ = godotenv.Load()

	var (
		cfgPath    string
		addMode    bool
		listMode   bool
		removeMode bool
		clearMode  bool
		topK       int
	)
	flag.StringVar(&cfgPath, "config", "", "path to YAML config file")
	flag.BoolVar(&addMode, "add", false, "add the given files to the document set")
	flag.BoolVar(&listMode, "list", false, "list ingested documents")
	flag.BoolVar(&removeMode, "remove", false, "remove the given documents by name")
	flag.BoolVar(&clearMode, "clear-db", false, "clear the vector database")
	flag.IntVar(&topK, "k", 0, "number of chunks to retrieve per question")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	args := flag.Args()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		golog.Fatalf("failed to load config: %v", err)
	}
	if topK > 0 {
		cfg.Retrieval.TopK = topK
	}

	key, err := cfg.APIKey()
	if err != nil {
		golog.Fatalf("%v", err)
	}

	svc, err := assemble(cfg, key)
	if err != nil {
		golog.Fatalf("%v", err)
	}

	ctx := context.Background()
	switch {
	case addMode:
		if len(args) == 0 {
			flag.Usage()
			os.Exit(1)
		}
		added, err := svc.AddDocuments(ctx, args)
		if err != nil {
			golog.Fatalf("add failed: %v", err)
		}
		fmt.Printf("Added %d document(s)\n", added)
	case listMode:
		docs, err := svc.ListDocuments()
		if err != nil {
			golog.Fatalf("list failed: %v", err)
		}
		if len(docs) == 0 {
			fmt.Println("No documents found")
			return
		}
		for i, d := range docs {
			fmt.Printf("%d. %s (%.1f KB)\n", i+1, d.Name, float64(d.Size)/1024.0)
		}
	case removeMode:
		if len(args) == 0 {
			flag.Usage()
			os.Exit(1)
		}
		removed, err := svc.RemoveDocuments(ctx, args)
		if err != nil {
			golog.Fatalf("remove failed: %v", err)
		}
		fmt.Printf("Removed %d document(s)\n", len(removed))
	case clearMode:
		if err := svc.ClearDB(ctx); err != nil {
			golog.Fatalf("clear failed: %v", err)
		}
		fmt.Println("Vector database cleared")
	default:
		stats, err := svc.Ingest(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrNoDocuments) {
				golog.Fatalf("no documents found; add some with: ragchat -add file.txt")
			}
			golog.Fatalf("ingest failed: %v", err)
		}
		header := fmt.Sprintf("Indexed %d chunks from %d document(s). Type 'exit' to quit.", stats.Chunks, stats.Documents)
		m := tui.New(svc, header)
		if _, err := tea.NewProgram(m).Run(); err != nil {
			golog.Fatalf("%v", err)
		}
	}
}

func assemble(cfg *config.AppConfig, apiKey string) (*service.RAG, error) {
	embedder, err := embopenai.New(embopenai.Config{
		BaseURL: cfg.OpenAI.BaseURL,
		APIKey:  apiKey,
		Model:   cfg.OpenAI.EmbeddingModel,
	})
	if err != nil {
		return nil, fmt.Errorf("embedder init failed: %w", err)
	}

	gen, err := generator.New(generator.Config{
		BaseURL:     cfg.OpenAI.BaseURL,
		APIKey:      apiKey,
		Model:       cfg.OpenAI.ChatModel,
		ContextSize: cfg.Retrieval.ContextSize,
	})
	if err != nil {
		return nil, fmt.Errorf("generator init failed: %w", err)
	}

	var store domain.VectorStore
	switch cfg.VectorStore.Type {
	case "chromem", "":
		store, err = chromem.New(cfg.VectorStore.DataDir)
		if err != nil {
			return nil, fmt.Errorf("vector store init failed: %w", err)
		}
	case "qdrant":
		if cfg.VectorStore.Qdrant == nil {
			return nil, fmt.Errorf("qdrant config missing")
		}
		store = qdrant.New(qdrant.Config{
			URL:        cfg.VectorStore.Qdrant.URL,
			APIKey:     cfg.VectorStore.Qdrant.APIKey,
			Collection: cfg.VectorStore.Qdrant.Collection,
		})
	case "memory":
		store = memory.New()
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.VectorStore.Type)
	}

	ch := chunker.NewRecursive(cfg.Chunker.ChunkSize, cfg.Chunker.ChunkOverlap)
	retr := retriever.New(embedder, store, cfg.Retrieval.TopK)
	return service.New(loader.New(), ch, embedder, store, retr, gen, cfg.DocumentsDir), nil
}
