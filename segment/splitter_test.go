package segment

import (
	"strings"
	"testing"

	"github.com/poiesic/veritext/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitter_Sentences(t *testing.T) {
	s := NewSplitter(0)

	segments, err := s.Split("The cat sat. Dogs bark loudly! Is it raining? yes", core.SplitModeSentence)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"The cat sat.",
		"Dogs bark loudly!",
		"Is it raining?",
		"yes",
	}, segments)
}

func TestSplitter_Paragraphs(t *testing.T) {
	s := NewSplitter(0)

	text := "First paragraph\nstill first.\n\nSecond paragraph.\n\n\n\nThird."
	segments, err := s.Split(text, core.SplitModeParagraph)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"First paragraph\nstill first.",
		"Second paragraph.",
		"Third.",
	}, segments)
}

func TestSplitter_AutoFallsBackToWholeText(t *testing.T) {
	s := NewSplitter(0)

	// No sentence-terminal punctuation at all.
	segments, err := s.Split("a single run of words with no terminals", core.SplitModeAuto)
	require.NoError(t, err)
	assert.Equal(t, []string{"a single run of words with no terminals"}, segments)
}

func TestSplitter_AutoPrefersSentences(t *testing.T) {
	s := NewSplitter(0)

	segments, err := s.Split("One. Two. Three.", core.SplitModeAuto)
	require.NoError(t, err)
	assert.Len(t, segments, 3)
}

func TestSplitter_EmptyCorpus(t *testing.T) {
	s := NewSplitter(0)

	tests := []struct {
		name string
		text string
	}{
		{name: "empty string", text: ""},
		{name: "whitespace only", text: "   \n\t  "},
		{name: "punctuation only", text: "... !!! ??"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, mode := range []core.SplitMode{core.SplitModeSentence, core.SplitModeParagraph, core.SplitModeAuto} {
				_, err := s.Split(tt.text, mode)
				assert.ErrorIs(t, err, core.ErrEmptyCorpus, "mode %v", mode)
			}
		})
	}
}

func TestSplitter_InvalidMode(t *testing.T) {
	s := NewSplitter(0)
	_, err := s.Split("some text.", core.SplitMode(42))
	assert.ErrorIs(t, err, core.ErrInvalidSplitMode)
}

func TestSplitter_ChunksOversizedSegments(t *testing.T) {
	s := NewSplitter(10)

	long := strings.Repeat("abcde ", 10) // 60 chars, one "sentence"
	segments, err := s.Split(long+".", core.SplitModeAuto)
	require.NoError(t, err)

	assert.Greater(t, len(segments), 1)
	for _, seg := range segments {
		assert.LessOrEqual(t, len([]rune(seg)), 10)
		assert.Equal(t, strings.TrimSpace(seg), seg)
		assert.NotEmpty(t, seg)
	}
	// Chunks are contiguous with no overlap: rejoining loses only whitespace.
	rejoined := strings.ReplaceAll(strings.Join(segments, ""), " ", "")
	assert.Equal(t, strings.ReplaceAll(long+".", " ", ""), rejoined)
}

func TestSplitter_ChunkRespectsRuneBoundaries(t *testing.T) {
	s := NewSplitter(4)

	segments, err := s.Split("đồng đội đến đây", core.SplitModeAuto)
	require.NoError(t, err)
	for _, seg := range segments {
		assert.True(t, strings.ToValidUTF8(seg, "") == seg, "chunk %q must stay valid UTF-8", seg)
	}
}

func TestSplitter_Deterministic(t *testing.T) {
	s := NewSplitter(0)

	text := "One sentence here. Another one there! And a third?"
	first, err := s.Split(text, core.SplitModeSentence)
	require.NoError(t, err)
	second, err := s.Split(text, core.SplitModeSentence)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
