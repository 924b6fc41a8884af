package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaEmbedderPostsModelAndPrompt(t *testing.T) {
	var gotReq embedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		assert.Equal(t, "/api/embeddings", r.URL.Path)
		_ = json.NewEncoder(w).Encode(embedResponse{Embedding: []float32{0.1, 0.2, 0.3}})
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL, "nomic-embed-text")
	vec, err := e.Embed(context.Background(), "func foo() {}")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
	assert.Equal(t, "nomic-embed-text", gotReq.Model)
	assert.Equal(t, "func foo() {}", gotReq.Prompt)
}

func TestOllamaEmbedderErrorsOnNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL, "m")
	_, err := e.Embed(context.Background(), "x")
	assert.Error(t, err)
}

func TestOllamaEmbedderDimensionProbesOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(embedResponse{Embedding: make([]float32, 768)})
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(srv.URL, "m")
	dim, err := e.Dimension(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 768, dim)
}

func TestStaticEmbedderDimension(t *testing.T) {
	e := NewStaticEmbedder(32)
	dim, err := e.Dimension(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 32, dim)
}

func TestStaticEmbedderDeterministic(t *testing.T) {
	e := NewStaticEmbedder(16)
	a, _ := e.Embed(context.Background(), "hello")
	b, _ := e.Embed(context.Background(), "hello")
	assert.Equal(t, a, b)

	c, _ := e.Embed(context.Background(), "goodbye")
	assert.NotEqual(t, a, c)
}
