// Package query answers free-text questions about orders with retrieval
// augmentation: embed the question, search the index, condition the
// generative model's prompt on the retrieved documents.
package query

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ordertwin/internal/domain"
	"ordertwin/internal/index"
	"ordertwin/internal/llm"
)

// DefaultTopK is the number of neighbours retrieved per question.
const DefaultTopK = 5

const promptTemplate = `You are an assistant that answers questions about orders.
Use the following context to answer the user's question.
If the context does not contain relevant information, say so clearly.

Context:
%s

User question: %s

Answer:`

const contextHeader = "Order context retrieved from the system:"

// Result is the structured answer to a question, with the provider's
// generation metadata passed through and retrieval statistics attached.
type Result struct {
	Answer         string          `json:"answer"`
	Generation     *llm.Generation `json:"generation"`
	DocumentsFound int             `json:"documents_found"`
	HasContext     bool            `json:"has_context"`
}

// Pipeline runs retrieval-augmented answering over a vector index collection.
type Pipeline struct {
	embedder   llm.Embedder
	generator  llm.Generator
	idx        index.Index
	collection string
	model      string
	log        *slog.Logger
}

// New creates a query pipeline. model selects the generation model; empty
// uses the generator's default.
func New(embedder llm.Embedder, generator llm.Generator, idx index.Index, collection, model string, log *slog.Logger) *Pipeline {
	return &Pipeline{
		embedder:   embedder,
		generator:  generator,
		idx:        idx,
		collection: collection,
		model:      model,
		log:        log,
	}
}

// Answer embeds the question, retrieves the topK nearest documents, builds
// the augmented prompt and calls the generative model. With no hits the bare
// question is sent instead. Failures are returned as structured errors; no
// partial answer is ever produced, and retries are the caller's concern.
func (p *Pipeline) Answer(ctx context.Context, question string, topK int) (*Result, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	vec, err := p.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("%w: install an embedding model (e.g. nomic-embed-text)", domain.ErrEmbeddingUnavailable)
	}

	hits, err := p.idx.Search(ctx, p.collection, vec, topK)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}

	contextBlock := buildContext(hits)
	prompt := question
	if contextBlock != "" {
		prompt = fmt.Sprintf(promptTemplate, contextBlock, question)
	}

	gen, err := p.generator.Generate(ctx, prompt, p.model)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailure, err)
	}

	p.log.Debug("question answered", "documents", len(hits), "hasContext", contextBlock != "")
	return &Result{
		Answer:         gen.Response,
		Generation:     gen,
		DocumentsFound: len(hits),
		HasContext:     contextBlock != "",
	}, nil
}

// buildContext concatenates the stored text of each hit, in the order the
// index returned them (already ranked by similarity, descending), separated
// by a delimiter line.
func buildContext(hits []index.Hit) string {
	var sb strings.Builder
	for _, hit := range hits {
		text, ok := hit.Payload["text"].(string)
		if !ok || text == "" {
			continue
		}
		if sb.Len() == 0 {
			sb.WriteString(contextHeader)
			sb.WriteString("\n\n")
		}
		sb.WriteString(text)
		sb.WriteString("\n---\n")
	}
	return sb.String()
}
