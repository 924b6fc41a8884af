// Package chunking implements the chunking half of the index pipeline
// (C4 step 5): cutting a file's content into chunks along a handler's
// SeparatorSpec boundaries, honoring a configured chunk size and overlap,
// and building each chunk's content_tsv_input.
package chunking

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"

	"github.com/cocosearch/cocosearch/internal/handlers"
	"github.com/cocosearch/cocosearch/internal/types"
)

// Span is a half-open byte range [Start, End) into a file's content.
type Span struct {
	Start int
	End   int
}

// Options configures chunk size and overlap, both in bytes.
type Options struct {
	ChunkSize    int
	ChunkOverlap int
}

// DefaultOptions mirrors the compiled defaults in internal/config.
func DefaultOptions() Options {
	return Options{ChunkSize: 1500, ChunkOverlap: 200}
}

// Split cuts content along spec's boundaries, coarsest regex first, falling
// back to the next-finest boundary (and finally a hard byte split) only
// where a section still exceeds opts.ChunkSize. Adjacent small sections are
// then merged back up toward opts.ChunkSize. With opts.ChunkOverlap set, the
// next chunk starts at the latest atom boundary that re-includes at least
// opts.ChunkOverlap bytes of the previous chunk's tail; when no such boundary
// lies inside the previous chunk, the two chunks do not overlap.
func Split(content string, spec handlers.SeparatorSpec, opts Options) []Span {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultOptions().ChunkSize
	}
	if len(content) == 0 {
		return nil
	}
	atoms := splitRange(content, 0, len(content), spec.Boundaries, opts.ChunkSize)
	return mergeWithOverlap(atoms, opts.ChunkSize, opts.ChunkOverlap)
}

func splitRange(full string, lo, hi int, boundaries []*regexp.Regexp, maxSize int) []Span {
	if hi-lo <= maxSize {
		return []Span{{lo, hi}}
	}
	if len(boundaries) == 0 {
		return hardSplit(lo, hi, maxSize)
	}
	sub := full[lo:hi]
	matches := boundaries[0].FindAllStringIndex(sub, -1)
	cuts := make([]int, 0, len(matches)+2)
	cuts = append(cuts, 0)
	for _, m := range matches {
		if m[0] > 0 {
			cuts = append(cuts, m[0])
		}
	}
	cuts = append(cuts, hi-lo)
	if len(cuts) <= 2 {
		// This boundary never matched inside the section; try the next one.
		return splitRange(full, lo, hi, boundaries[1:], maxSize)
	}
	var spans []Span
	for i := 0; i < len(cuts)-1; i++ {
		segLo, segHi := lo+cuts[i], lo+cuts[i+1]
		if segHi <= segLo {
			continue
		}
		spans = append(spans, splitRange(full, segLo, segHi, boundaries[1:], maxSize)...)
	}
	return spans
}

func hardSplit(lo, hi, maxSize int) []Span {
	var spans []Span
	for p := lo; p < hi; p += maxSize {
		end := p + maxSize
		if end > hi {
			end = hi
		}
		spans = append(spans, Span{p, end})
	}
	return spans
}

// mergeWithOverlap greedily absorbs adjacent atoms into a running chunk
// until adding the next one would exceed chunkSize, then backs the next
// chunk's start up to the last atom of the current chunk (other than its
// first) that starts at least overlap bytes before its end, so consecutive
// chunks share trailing/leading context. If no such atom exists, the next
// chunk starts where the current one ends.
func mergeWithOverlap(atoms []Span, chunkSize, overlap int) []Span {
	if len(atoms) == 0 {
		return nil
	}
	var out []Span
	i := 0
	for i < len(atoms) {
		start := atoms[i].Start
		end := atoms[i].End
		j := i + 1
		for j < len(atoms) && atoms[j].End-start <= chunkSize {
			end = atoms[j].End
			j++
		}
		out = append(out, Span{start, end})
		if j >= len(atoms) {
			break
		}
		next := j
		if overlap > 0 {
			target := end - overlap
			k := j - 1
			for k > i && atoms[k].Start > target {
				k--
			}
			if k > i {
				next = k
			}
		}
		i = next
	}
	return out
}

// Build turns one Span of a file's content into a fully-populated Chunk,
// leaving symbol fields, embedding and language/block metadata for the
// caller to attach (C2 and the handler's ExtractMetadata run separately).
func Build(filename, content string, span Span) types.Chunk {
	text := content[span.Start:span.End]
	sum := sha256.Sum256([]byte(text))
	return types.Chunk{
		Filename:        filename,
		StartByte:       span.Start,
		EndByte:         span.End,
		ContentText:     text,
		ContentTSVInput: ContentTSVInput(text),
		ContentHash:     hex.EncodeToString(sum[:]),
	}
}
