package search

import "sort"

// rrfK is the reciprocal-rank-fusion constant (spec.md §4.7 step 6).
const rrfK = 60

// chunkKey identifies a chunk the way storage does: (filename, start_byte,
// end_byte).
type chunkKey struct {
	Filename  string
	StartByte int
	EndByte   int
}

// fused is one document's reciprocal-rank-fusion outcome before rescaling.
type fused struct {
	Key         chunkKey
	Score       float64
	VectorRank  int // 1-indexed; 0 means "absent from this retriever"
	KeywordRank int
}

// reciprocalRankFusion combines a vector-ranked and a keyword-ranked list of
// the same kind of key into one fused, rescaled list ordered by descending
// score, ties broken by ascending filename then start_byte (spec.md §4.7
// steps 6/10).
func reciprocalRankFusion(vector, keyword []chunkKey) []fused {
	scores := map[chunkKey]*fused{}

	order := func(list []chunkKey, assign func(f *fused, rank int)) {
		for i, k := range list {
			f, ok := scores[k]
			if !ok {
				f = &fused{Key: k}
				scores[k] = f
			}
			rank := i + 1
			assign(f, rank)
			f.Score += 1.0 / float64(rrfK+rank)
		}
	}
	order(vector, func(f *fused, rank int) { f.VectorRank = rank })
	order(keyword, func(f *fused, rank int) { f.KeywordRank = rank })

	out := make([]fused, 0, len(scores))
	best := 0.0
	for _, f := range scores {
		out = append(out, *f)
		if f.Score > best {
			best = f.Score
		}
	}
	if best > 0 {
		for i := range out {
			out[i].Score /= best
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].Key.Filename != out[j].Key.Filename {
			return out[i].Key.Filename < out[j].Key.Filename
		}
		return out[i].Key.StartByte < out[j].Key.StartByte
	})
	return out
}
