package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ordertwin/internal/config"
	"ordertwin/internal/demo"
	"ordertwin/internal/domain"
	"ordertwin/internal/httpapi"
	"ordertwin/internal/index"
	"ordertwin/internal/index/memory"
	"ordertwin/internal/index/qdrant"
	"ordertwin/internal/ingest"
	"ordertwin/internal/lifecycle"
	"ordertwin/internal/llm"
	"ordertwin/internal/llm/hash"
	"ordertwin/internal/llm/ollama"
	"ordertwin/internal/logging"
	"ordertwin/internal/query"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	var seedDemo bool
	var verbose bool
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional)")
	flag.BoolVar(&seedDemo, "demo", true, "Seed sample orders into the index on startup")
	flag.BoolVar(&verbose, "verbose", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log := logging.New(level)

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	llmClient := ollama.New(ollama.Config{
		BaseURL:    cfg.Ollama.BaseURL,
		Model:      cfg.Ollama.Model,
		EmbedModel: cfg.Ollama.EmbedModel,
		Timeout:    time.Duration(cfg.Ollama.TimeoutSecs) * time.Second,
	}, log)

	var embedder llm.Embedder
	switch cfg.Embedder.Type {
	case "ollama", "":
		if !llmClient.IsAvailable(ctx) {
			log.Warn("ollama is not reachable, ingestion will be skipped until it is", "baseUrl", cfg.Ollama.BaseURL)
		} else if models, err := llmClient.ListModels(ctx); err == nil {
			log.Info("ollama models available", "models", models)
		}
		embedder = llmClient
	case "hash":
		embedder = hash.New(cfg.Embedder.HashDimension)
	default:
		log.Error("unknown embedder type", "type", cfg.Embedder.Type)
		os.Exit(1)
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
		log.Error("unknown index type", "type", cfg.Index.Type)
		os.Exit(1)
	}

	ensureCollection(ctx, idx, cfg.Index.Collection, embedder, log)

	pipeline := ingest.New(embedder, idx, cfg.Index.Collection, log)
	svc := lifecycle.New(pipeline, log)

	if seedDemo {
		seq := domain.NewSequence()
		processor := demo.New(seq, svc, pipeline, log)
		go processor.Run(ctx, cfg.Demo.Orders, cfg.Demo.Seed)
	}

	answerer := query.New(embedder, llmClient, idx, cfg.Index.Collection, cfg.Ollama.Model, log)
	handler := httpapi.NewHandler(answerer, cfg.Query.TopK, log)

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: handler.Routes(),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info("http server listening", "addr", cfg.Server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("http server failed", "error", err)
		os.Exit(1)
	}
}

// ensureCollection creates the index collection if missing, probing the
// embedder once to learn the vector dimension. With no embedding model
// available the collection is left to a later run; ingestion logs and skips
// in the meantime.
func ensureCollection(ctx context.Context, idx index.Index, collection string, embedder llm.Embedder, log *slog.Logger) {
	exists, err := idx.CollectionExists(ctx, collection)
	if err != nil {
		log.Warn("could not check collection", "collection", collection, "error", err)
		return
	}
	if exists {
		return
	}
	vec, err := embedder.Embed(ctx, "dimension probe")
	if err != nil || len(vec) == 0 {
		log.Warn("no embedding available, collection not created", "collection", collection)
		return
	}
	if err := idx.CreateCollection(ctx, collection, len(vec)); err != nil {
		log.Warn("could not create collection", "collection", collection, "error", err)
		return
	}
	log.Info("collection created", "collection", collection, "dimension", len(vec))
}
