package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reassemble(chunks []Chunk) string {
	var b strings.Builder
	covered := 0
	for _, ch := range chunks {
		runes := []rune(ch.Text)
		if ch.Start < covered {
			runes = runes[covered-ch.Start:]
		}
		b.WriteString(string(runes))
		covered = ch.End
	}
	return b.String()
}

func TestSplitReconstructsInput(t *testing.T) {
	texts := []string{
		"short",
		strings.Repeat("The quick brown fox jumps over the lazy dog. ", 200),
		strings.Repeat("paragraph one\n\nparagraph two\n\nparagraph three\n", 80),
		strings.Repeat("однострочный текст на юникоде ", 150),
		strings.Repeat("x", 5000),
	}

	c, err := New(1000, 200)
	require.NoError(t, err)

	for _, text := range texts {
		chunks := c.Split(text)
		require.NotEmpty(t, chunks)
		assert.Equal(t, text, reassemble(chunks))
	}
}

func TestSplitChunksAreNonEmptyAndOrdered(t *testing.T) {
	c, err := New(100, 20)
	require.NoError(t, err)

	text := strings.Repeat("lorem ipsum dolor sit amet\n", 100)
	chunks := c.Split(text)
	require.NotEmpty(t, chunks)

	prevStart := -1
	for i, ch := range chunks {
		assert.NotEmpty(t, ch.Text)
		assert.Equal(t, i, ch.Index)
		assert.Greater(t, ch.Start, prevStart)
		assert.Greater(t, ch.End, ch.Start)
		prevStart = ch.Start
	}
}

func TestSplitOverlapIsBounded(t *testing.T) {
	c, err := New(100, 20)
	require.NoError(t, err)

	chunks := c.Split(strings.Repeat("word ", 500))
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		overlap := chunks[i-1].End - chunks[i].Start
		assert.GreaterOrEqual(t, overlap, 0, "chunks must not leave gaps")
		assert.LessOrEqual(t, overlap, 20)
	}
}

func TestSplitIsDeterministic(t *testing.T) {
	c, err := New(250, 50)
	require.NoError(t, err)

	text := strings.Repeat("alpha beta gamma delta\n\nepsilon zeta\n", 60)
	first := c.Split(text)
	second := c.Split(text)
	assert.Equal(t, first, second)
}

func TestSplitEmptyInput(t *testing.T) {
	c, err := New(100, 10)
	require.NoError(t, err)
	assert.Empty(t, c.Split(""))
}

func TestSplitShortInputIsSingleChunk(t *testing.T) {
	c, err := New(1000, 200)
	require.NoError(t, err)

	chunks := c.Split("a single short paragraph")
	require.Len(t, chunks, 1)
	assert.Equal(t, "a single short paragraph", chunks[0].Text)
}

func TestSplitPrefersParagraphBoundaries(t *testing.T) {
	c, err := New(40, 0)
	require.NoError(t, err)

	text := "first paragraph body here\n\nsecond paragraph body here"
	chunks := c.Split(text)
	require.Greater(t, len(chunks), 1)
	assert.True(t, strings.HasSuffix(chunks[0].Text, "\n\n"),
		"first chunk should end at the paragraph break, got %q", chunks[0].Text)
}

func TestNewRejectsBadParameters(t *testing.T) {
	_, err := New(0, 0)
	assert.Error(t, err)

	_, err = New(100, 100)
	assert.Error(t, err)

	_, err = New(100, -1)
	assert.Error(t, err)
}
