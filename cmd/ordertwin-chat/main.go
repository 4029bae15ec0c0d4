package main

import (
	"flag"
	"io"
	"log"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"ordertwin/internal/config"
	"ordertwin/internal/index"
	"ordertwin/internal/index/memory"
	"ordertwin/internal/index/qdrant"
	"ordertwin/internal/llm"
	"ordertwin/internal/llm/hash"
	"ordertwin/internal/llm/ollama"
	"ordertwin/internal/query"
	"ordertwin/internal/tui"
)

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", "", "Path to YAML config file (optional)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if *cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(*cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// The TUI owns the terminal; route structured logs away from it.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	llmClient := ollama.New(ollama.Config{
		BaseURL:    cfg.Ollama.BaseURL,
		Model:      cfg.Ollama.Model,
		EmbedModel: cfg.Ollama.EmbedModel,
		Timeout:    time.Duration(cfg.Ollama.TimeoutSecs) * time.Second,
	}, logger)

	var embedder llm.Embedder
	switch cfg.Embedder.Type {
	case "ollama", "":
		embedder = llmClient
	case "hash":
		embedder = hash.New(cfg.Embedder.HashDimension)
	default:
		log.Fatalf("unknown embedder type: %s", cfg.Embedder.Type)
	}

	var idx index.Index
	switch cfg.Index.Type {
	case "qdrant", "":
		idx = qdrant.New(qdrant.Config{
			URL:     cfg.Index.Qdrant.URL,
			APIKey:  cfg.Index.Qdrant.APIKey,
			Timeout: time.Duration(cfg.Index.Qdrant.TimeoutSecs) * time.Second,
		})
	case "memory":
		idx = memory.New()
	default:
		log.Fatalf("unknown index type: %s", cfg.Index.Type)
	}

	answerer := query.New(embedder, llmClient, idx, cfg.Index.Collection, cfg.Ollama.Model, logger)

	m := tui.New(answerer, cfg.Query.TopK)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}
