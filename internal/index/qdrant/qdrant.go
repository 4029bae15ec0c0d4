// Package qdrant is a minimal REST client to Qdrant implementing the vector
// index contract. It assumes cosine distance.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ordertwin/internal/index"
)

// Config contains connection details for a Qdrant instance.
type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// Client talks to the Qdrant REST API.
type Client struct {
	url    string
	apiKey string
	client *http.Client
}

// New creates a Qdrant client for the given configuration.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: timeout},
	}
}

// CollectionExists checks whether the collection is present.
func (c *Client) CollectionExists(ctx context.Context, name string) (bool, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("%s/collections/%s", c.url, name), nil)
	if err != nil {
		return false, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode >= 300:
		return false, fmt.Errorf("qdrant GET collection %s failed: %s", name, resp.Status)
	}
	return true, nil
}

// CreateCollection creates a collection with the given vector dimension and
// cosine distance. Qdrant answers 200 for an existing collection with the
// same schema, so the call is safe to repeat.
func (c *Client) CreateCollection(ctx context.Context, name string, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("invalid dimension %d", dimension)
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	return c.putJSON(ctx, fmt.Sprintf("%s/collections/%s", c.url, name), body)
}

// Upsert writes a single point under the document's derived point id, with
// the metadata and the rendered text as payload. Same-id upserts overwrite.
func (c *Client) Upsert(ctx context.Context, collection string, doc index.Document, vector []float32) error {
	payload := make(map[string]any, len(doc.Metadata)+2)
	for k, v := range doc.Metadata {
		payload[k] = v
	}
	payload["id"] = doc.ID
	payload["text"] = doc.Text

	body := map[string]any{
		"points": []map[string]any{{
			"id":      index.PointID(doc.ID),
			"vector":  vector,
			"payload": payload,
		}},
	}
	return c.putJSON(ctx, fmt.Sprintf("%s/collections/%s/points?wait=true", c.url, collection), body)
}

// Search returns the nearest points by cosine similarity, best first.
func (c *Client) Search(ctx context.Context, collection string, vector []float32, limit int) ([]index.Hit, error) {
	if limit <= 0 {
		limit = 5
	}
	body := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			ID      uint64         `json:"id"`
			Score   float32        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := c.postJSON(ctx, fmt.Sprintf("%s/collections/%s/points/search", c.url, collection), body, &resp); err != nil {
		return nil, err
	}
	hits := make([]index.Hit, 0, len(resp.Result))
	for _, r := range resp.Result {
		hits = append(hits, index.Hit{ID: r.ID, Score: r.Score, Payload: r.Payload})
	}
	return hits, nil
}

// DeleteAll removes every point from the collection using an empty filter.
func (c *Client) DeleteAll(ctx context.Context, collection string) error {
	body := map[string]any{"filter": map[string]any{}}
	return c.postJSON(ctx, fmt.Sprintf("%s/collections/%s/points/delete?wait=true", c.url, collection), body, nil)
}

func (c *Client) newRequest(ctx context.Context, method, url string, body []byte) (*http.Request, error) {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}
	return req, nil
}

func (c *Client) putJSON(ctx context.Context, url string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPut, url, data)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant PUT %s failed: %s", url, resp.Status)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPost, url, data)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant POST %s failed: %s", url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
