package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// OllamaConfig holds connection details for the Ollama instance.
type OllamaConfig struct {
	BaseURL     string `yaml:"base_url"`
	Model       string `yaml:"model"`
	EmbedModel  string `yaml:"embed_model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbedderConfig selects the text embedder implementation.
type EmbedderConfig struct {
	Type          string `yaml:"type"` // "ollama" or "hash"
	HashDimension int    `yaml:"hash_dimension"`
}

// QdrantConfig contains connection details for a Qdrant vector index.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// IndexConfig selects and configures the vector index implementation.
type IndexConfig struct {
	Type       string        `yaml:"type"` // "qdrant" or "memory"
	Collection string        `yaml:"collection"`
	Qdrant     *QdrantConfig `yaml:"qdrant,omitempty"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DemoConfig configures the sample order seeding run.
type DemoConfig struct {
	Orders int   `yaml:"orders"`
	Seed   int64 `yaml:"seed"` // 0 uses a time-based seed
}

// QueryConfig configures the retrieval side of answering.
type QueryConfig struct {
	TopK int `yaml:"top_k"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Ollama   OllamaConfig   `yaml:"ollama"`
	Embedder EmbedderConfig `yaml:"embedder"`
	Index    IndexConfig    `yaml:"index"`
	Server   ServerConfig   `yaml:"server"`
	Demo     DemoConfig     `yaml:"demo"`
	Query    QueryConfig    `yaml:"query"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/ordertwin/config.yaml.
// If neither exists it returns defaults.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultConfig(), "", nil
	}
	userPath := filepath.Join(home, ".config", "ordertwin", "config.yaml")
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	return defaultConfig(), "", nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Ollama.BaseURL == "" {
		cfg.Ollama.BaseURL = "http://localhost:11434"
	}
	if cfg.Ollama.Model == "" {
		cfg.Ollama.Model = "llama3.2"
	}
	if cfg.Ollama.EmbedModel == "" {
		cfg.Ollama.EmbedModel = "nomic-embed-text"
	}
	if cfg.Ollama.TimeoutSecs == 0 {
		cfg.Ollama.TimeoutSecs = 60
	}
	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "ollama"
	}
	if cfg.Embedder.HashDimension == 0 {
		cfg.Embedder.HashDimension = 256
	}
	if cfg.Index.Type == "" {
		cfg.Index.Type = "qdrant"
	}
	if cfg.Index.Collection == "" {
		cfg.Index.Collection = "orders"
	}
	if cfg.Index.Type == "qdrant" {
		if cfg.Index.Qdrant == nil {
			cfg.Index.Qdrant = &QdrantConfig{}
		}
		if cfg.Index.Qdrant.URL == "" {
			cfg.Index.Qdrant.URL = "http://localhost:6333"
		}
		if cfg.Index.Qdrant.TimeoutSecs == 0 {
			cfg.Index.Qdrant.TimeoutSecs = 15
		}
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Demo.Orders == 0 {
		cfg.Demo.Orders = 5
	}
	if cfg.Query.TopK == 0 {
		cfg.Query.TopK = 5
	}
}
