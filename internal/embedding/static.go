package embedding

import (
	"context"
	"hash/fnv"
)

// StaticEmbedder is a deterministic embedder for tests: the same text
// always produces the same vector, and different texts are (with very
// high probability) different vectors, without any network dependency.
type StaticEmbedder struct {
	dim int
}

// NewStaticEmbedder returns a StaticEmbedder of the given dimension.
func NewStaticEmbedder(dimension int) *StaticEmbedder {
	if dimension <= 0 {
		dimension = 8
	}
	return &StaticEmbedder{dim: dimension}
}

func (s *StaticEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	out := make([]float32, s.dim)
	h := fnv.New64a()
	for i := range out {
		h.Write([]byte{byte(i)})
		h.Write([]byte(text))
		sum := h.Sum64()
		// Map to [-1, 1] so cosine-similarity math behaves like a real
		// embedding space rather than an all-positive one.
		out[i] = float32(int64(sum%2000)-1000) / 1000.0
	}
	return out, nil
}

func (s *StaticEmbedder) Dimension(context.Context) (int, error) { return s.dim, nil }

func (s *StaticEmbedder) PreWarm(context.Context) error { return nil }
