package segment

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/veritext/core"
)

// DefaultMaxSegmentLength caps segment size in characters before
// oversized units are soft-split into fixed-size chunks.
const DefaultMaxSegmentLength = 2000

// Splitter divides normalized text into ordered segments.
type Splitter struct {
	maxLength   int
	sentenceEnd *regexp.Regexp
	paragraph   *regexp.Regexp
}

// NewSplitter creates a splitter. maxLength <= 0 selects
// DefaultMaxSegmentLength.
func NewSplitter(maxLength int) *Splitter {
	if maxLength <= 0 {
		maxLength = DefaultMaxSegmentLength
	}
	return &Splitter{
		maxLength:   maxLength,
		sentenceEnd: regexp.MustCompile(`[.!?]+\s+`),
		paragraph:   regexp.MustCompile(`\n{2,}`),
	}
}

// Split divides text into non-empty segments according to mode.
// Oversized segments are further split into contiguous fixed-size chunks
// with no overlap. Returns core.ErrEmptyCorpus when zero segments remain.
// Deterministic given identical input and mode; no side effects.
func (s *Splitter) Split(text string, mode core.SplitMode) ([]string, error) {
	if err := core.ValidateSplitMode(mode); err != nil {
		return nil, err
	}

	var parts []string
	switch mode {
	case core.SplitModeSentence:
		parts = s.splitSentences(text)
	case core.SplitModeParagraph:
		parts = s.paragraph.Split(text, -1)
	case core.SplitModeAuto:
		parts = s.splitSentences(text)
		if len(s.clean(parts)) == 0 {
			parts = []string{text}
		}
	}

	segments := s.clean(parts)
	if len(segments) == 0 {
		return nil, core.ErrEmptyCorpus
	}
	return segments, nil
}

// splitSentences breaks text on sentence-terminal punctuation followed
// by whitespace. Trailing punctuation stays attached to its sentence.
func (s *Splitter) splitSentences(text string) []string {
	var parts []string
	rest := text
	for {
		loc := s.sentenceEnd.FindStringIndex(rest)
		if loc == nil {
			parts = append(parts, rest)
			return parts
		}
		parts = append(parts, rest[:loc[1]])
		rest = rest[loc[1]:]
	}
}

// clean trims segments, drops empty or punctuation-only ones, and
// chunks any segment longer than maxLength.
func (s *Splitter) clean(parts []string) []string {
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" || isPunctuationOnly(trimmed) {
			continue
		}
		if utf8.RuneCountInString(trimmed) <= s.maxLength {
			segments = append(segments, trimmed)
			continue
		}
		segments = append(segments, s.chunk(trimmed)...)
	}
	return segments
}

// chunk splits an oversized segment into contiguous fixed-size pieces
// with no overlap. Lengths are counted in runes so multi-byte text is
// never cut mid-character.
func (s *Splitter) chunk(text string) []string {
	runes := []rune(text)
	var chunks []string
	for start := 0; start < len(runes); start += s.maxLength {
		end := start + s.maxLength
		if end > len(runes) {
			end = len(runes)
		}
		piece := strings.TrimSpace(string(runes[start:end]))
		if piece != "" {
			chunks = append(chunks, piece)
		}
	}
	return chunks
}

func isPunctuationOnly(text string) bool {
	return strings.TrimLeft(text, ".,!?;:'\"-()[]{}…“”‘’ \t\n") == ""
}
