// Package chunker splits document text into overlapping spans sized for
// embedding. Splitting prefers paragraph breaks, then line breaks, then
// spaces, and falls back to a hard cut when no boundary is available.
package chunker

import (
	"fmt"
	"strings"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// separators in preference order; the empty string means a hard cut
var separators = []string{"\n\n", "\n", " "}

// Chunk is one span of the source text. Start and End are rune offsets into
// the original input, so consecutive chunks can be stitched back together.
type Chunk struct {
	Text  string
	Index int
	Start int
	End   int
}

type Chunker struct {
	size    int
	overlap int
}

func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be in [0, size), got %d", overlap)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Split produces the ordered chunk sequence for text. Every chunk is
// non-empty, consecutive chunks overlap by at most the configured overlap,
// and the spans cover the input without gaps. Empty input yields no chunks.
func (c *Chunker) Split(text string) []Chunk {
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil
	}

	var chunks []Chunk
	start := 0
	for {
		end := start + c.size
		if end >= n {
			chunks = append(chunks, c.chunk(runes, len(chunks), start, n))
			break
		}

		cut := c.findCut(runes, start, end)
		chunks = append(chunks, c.chunk(runes, len(chunks), start, cut))

		next := cut - c.overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}

	return chunks
}

func (c *Chunker) chunk(runes []rune, index, start, end int) Chunk {
	return Chunk{
		Text:  string(runes[start:end]),
		Index: index,
		Start: start,
		End:   end,
	}
}

// findCut picks the split position for a window [start, start+size). It scans
// the back half of the window for the strongest separator and cuts right
// after it, so trailing whitespace stays with the preceding chunk. Without a
// separator the window is cut at full size.
func (c *Chunker) findCut(runes []rune, start, end int) int {
	// Keep chunks at least half the target size
	floor := start + c.size/2
	if floor <= start {
		floor = start + 1
	}

	window := string(runes[floor:end])
	for _, sep := range separators {
		if i := strings.LastIndex(window, sep); i >= 0 {
			return floor + len([]rune(window[:i])) + len([]rune(sep))
		}
	}

	return end
}
