// Package ollama is an HTTP client to a local Ollama instance implementing
// the embedder and generator contracts.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"ordertwin/internal/llm"
)

// defaultEmbedModels is the fallback chain tried in order when no embedding
// model is configured or the configured one is not installed.
var defaultEmbedModels = []string{"nomic-embed-text", "mxbai-embed-large", "all-minilm"}

// Config configures the Ollama client.
type Config struct {
	BaseURL    string
	Model      string // default generation model
	EmbedModel string // preferred embedding model, tried before the fallbacks
	Timeout    time.Duration
}

// Client talks to the Ollama REST API.
type Client struct {
	baseURL     string
	model       string
	embedModels []string
	client      *http.Client
	log         *slog.Logger
}

// New creates an Ollama client with the given configuration.
func New(cfg Config, log *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "llama3.2"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	models := defaultEmbedModels
	if cfg.EmbedModel != "" {
		models = append([]string{cfg.EmbedModel}, defaultEmbedModels...)
	}
	return &Client{
		baseURL:     cfg.BaseURL,
		model:       cfg.Model,
		embedModels: models,
		client:      &http.Client{Timeout: timeout},
		log:         log,
	}
}

// Embed requests an embedding for the text, walking the model fallback chain.
// A missing or failing embedding model yields an empty vector, not an error;
// only context cancellation is reported as an error.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	for _, model := range c.embedModels {
		vec, err := c.embedWith(ctx, model, text)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.log.Warn("ollama embedding attempt failed", "model", model, "error", err)
			continue
		}
		if len(vec) > 0 {
			return vec, nil
		}
	}
	c.log.Warn("no embedding model produced a vector", "models", c.embedModels)
	return nil, nil
}

func (c *Client) embedWith(ctx context.Context, model, text string) ([]float32, error) {
	body := map[string]any{"model": model, "prompt": text}
	var out struct {
		Embedding []float32 `json:"embedding"`
	}
	if err := c.postJSON(ctx, "/api/embeddings", body, &out); err != nil {
		return nil, err
	}
	return out.Embedding, nil
}

// Generate runs a non-streaming completion. An empty model selects the
// configured default.
func (c *Client) Generate(ctx context.Context, prompt, model string) (*llm.Generation, error) {
	if model == "" {
		model = c.model
	}
	body := map[string]any{"model": model, "prompt": prompt, "stream": false}
	var out llm.Generation
	if err := c.postJSON(ctx, "/api/generate", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// IsAvailable probes the instance with a short timeout.
func (c *Client) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < 300
}

// ListModels returns the names of the locally installed models.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("ollama GET /api/tags failed: %s", resp.Status)
	}
	var out struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(out.Models))
	for _, m := range out.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("ollama POST %s failed: %s", path, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
