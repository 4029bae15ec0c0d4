// Package llm defines the contracts for the two black-box language model
// capabilities the system depends on: text embedding and text generation.
package llm

import (
	"context"
	"time"
)

// Embedder converts free text into a fixed-length numeric vector.
// An empty vector signals that no embedding could be produced (for example,
// no embedding model is installed); implementations return an error only for
// caller-side failures such as context cancellation.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Generation is the result of a generative model call, with the provider's
// timing and token statistics passed through unmodified.
type Generation struct {
	Response           string    `json:"response"`
	Model              string    `json:"model"`
	CreatedAt          time.Time `json:"created_at"`
	Done               bool      `json:"done"`
	TotalDuration      int64     `json:"total_duration,omitempty"`
	LoadDuration       int64     `json:"load_duration,omitempty"`
	PromptEvalCount    int       `json:"prompt_eval_count,omitempty"`
	PromptEvalDuration int64     `json:"prompt_eval_duration,omitempty"`
	EvalCount          int       `json:"eval_count,omitempty"`
	EvalDuration       int64     `json:"eval_duration,omitempty"`
}

// Generator produces text from a prompt. An empty model selects the
// implementation's default.
type Generator interface {
	Generate(ctx context.Context, prompt, model string) (*Generation, error)
}
