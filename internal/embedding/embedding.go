// Package embedding talks to the pluggable local embedding endpoint
// (spec.md §6 "Embedding endpoint"): a plain HTTP POST returning a
// fixed-dimension dense vector for a prompt. No remote inference is ever
// used — the endpoint is always operator-local.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cocosearch/cocosearch/internal/errs"
)

// Embedder produces a dense vector for one chunk of text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	// Dimension reports the embedder's output vector length, used to size
	// the pgvector column when a storage schema is first created.
	Dimension(ctx context.Context) (int, error)
	// PreWarm issues one request to absorb the endpoint's cold-start
	// latency (spec.md §6: "the endpoint's first call may be a cold
	// start (≤30s); one pre-warm call is issued during process/session
	// init").
	PreWarm(ctx context.Context) error
}

const (
	requestTimeout = 30 * time.Second
	preWarmTimeout = 60 * time.Second
)

// OllamaEmbedder calls an Ollama-shaped `/api/embeddings` endpoint.
type OllamaEmbedder struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaEmbedder builds an embedder against baseURL (scheme://host:port,
// no trailing slash) and model.
func NewOllamaEmbedder(baseURL, model string) *OllamaEmbedder {
	return &OllamaEmbedder{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Embed posts {model, prompt} to /api/embeddings and returns the returned
// vector.
func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	const remedy = "is the embedding endpoint running and reachable at the configured URL?"

	body, err := json.Marshal(embedRequest{Model: e.model, Prompt: text})
	if err != nil {
		return nil, errs.NewInfrastructureError("embedding", remedy, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, errs.NewInfrastructureError("embedding", remedy, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, errs.NewInfrastructureError("embedding", remedy, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, errs.NewInfrastructureError("embedding", remedy, fmt.Errorf("embedding endpoint %d: %s", resp.StatusCode, string(b)))
	}

	var decoded embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, errs.NewInfrastructureError("embedding", remedy, err)
	}
	if len(decoded.Embedding) == 0 {
		return nil, errs.NewInfrastructureError("embedding", remedy, fmt.Errorf("embedding endpoint returned an empty vector"))
	}
	return decoded.Embedding, nil
}

// Dimension embeds a short probe string and reports its length. Ollama's
// embeddings endpoint has no separate metadata call for this.
func (e *OllamaEmbedder) Dimension(ctx context.Context) (int, error) {
	vec, err := e.Embed(ctx, "cocosearch dimension probe")
	if err != nil {
		return 0, err
	}
	return len(vec), nil
}

// PreWarm issues a single throwaway request with a longer timeout,
// swallowing the response — its purpose is purely to pay the cold-start
// cost once, up front.
func (e *OllamaEmbedder) PreWarm(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, preWarmTimeout)
	defer cancel()
	warm := *e
	warm.client = &http.Client{Timeout: preWarmTimeout}
	_, err := warm.Embed(ctx, "cocosearch pre-warm")
	return err
}
